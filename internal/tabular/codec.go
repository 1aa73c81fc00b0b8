package tabular

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/example/vocabdiary/pkg/models"
)

// Canonical vocabulary columns
const (
	ColumnWordClass = "word_class"
	ColumnEnglish   = "english"
	ColumnGerman    = "german"
	ColumnPast      = "past_tense"
	ColumnPerfect   = "perfect_tense"
)

// Column names of the older console layout, where both tenses live in one
// bracketed list literal such as ['ging', 'ist gegangen'].
const (
	legacyEnglish   = "English"
	legacyGerman    = "German"
	legacyWordClass = "Word Class"
	legacyTenses    = "Verb Tenses"
)

// VocabColumns is the column layout of every vocabulary table written by this package
var VocabColumns = []string{ColumnWordClass, ColumnEnglish, ColumnGerman, ColumnPast, ColumnPerfect}

var (
	errMissingEnglish = errors.New("english word is empty")
)

// DecodeEntry converts a row into a vocabulary entry
func DecodeEntry(r Row) (models.VocabEntry, error) {
	english := field(r, ColumnEnglish, legacyEnglish)
	if english == "" {
		return models.VocabEntry{}, errMissingEnglish
	}
	class, err := models.ParseWordClass(field(r, ColumnWordClass, legacyWordClass))
	if err != nil {
		return models.VocabEntry{}, err
	}

	entry := models.VocabEntry{
		WordClass: class,
		English:   models.Normalize(english),
		German:    models.Normalize(field(r, ColumnGerman, legacyGerman)),
	}

	past, perfect := strings.TrimSpace(r[ColumnPast]), strings.TrimSpace(r[ColumnPerfect])
	if past == "" && perfect == "" && r[legacyTenses] != "" {
		entry.Tenses = ParseTenseList(r[legacyTenses])
	} else {
		entry.Tenses = models.NewTenses(past, perfect)
	}
	return entry, nil
}

// DecodeEntries converts every row of t, skipping rows that cannot be decoded
func DecodeEntries(t *Table, source string, logger *slog.Logger) []models.VocabEntry {
	entries := make([]models.VocabEntry, 0, len(t.Rows))
	for i, r := range t.Rows {
		e, err := DecodeEntry(r)
		if err != nil {
			warnMalformed(logger, &MalformedRowError{Source: source, Line: i + 2, Reason: err.Error()})
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// EncodeEntry converts an entry into a row with the canonical columns
func EncodeEntry(e models.VocabEntry) Row {
	r := Row{
		ColumnWordClass: string(e.WordClass),
		ColumnEnglish:   e.English,
		ColumnGerman:    e.German,
		ColumnPast:      "",
		ColumnPerfect:   "",
	}
	if e.Tenses.Past != nil {
		r[ColumnPast] = *e.Tenses.Past
	}
	if e.Tenses.Perfect != nil {
		r[ColumnPerfect] = *e.Tenses.Perfect
	}
	return r
}

// EncodeEntries builds a table with the canonical columns
func EncodeEntries(entries []models.VocabEntry) *Table {
	t := NewTable(VocabColumns...)
	for _, e := range entries {
		t.Append(EncodeEntry(e))
	}
	return t
}

// ParseTenseList parses the legacy bracketed tense literal. Missing or
// unparsable elements, None and nan are treated as absent forms.
func ParseTenseList(s string) models.Tenses {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return models.Tenses{}
	}
	items := splitList(s[1 : len(s)-1])
	for len(items) < 2 {
		items = append(items, "")
	}
	return models.NewTenses(items[0], items[1])
}

// splitList splits a comma separated list of optionally quoted items
func splitList(s string) []string {
	var (
		items  []string
		cur    strings.Builder
		quote  rune
		quoted bool
		start  = true
	)
	flush := func() {
		item := strings.TrimSpace(cur.String())
		if !quoted && (item == "None" || item == "nan") {
			item = ""
		}
		items = append(items, item)
		cur.Reset()
		quoted, start = false, true
	}
	for _, ch := range s {
		switch {
		case quote != 0 && ch == quote:
			quote = 0
		case quote != 0:
			cur.WriteRune(ch)
		case (ch == '\'' || ch == '"') && start:
			quote, quoted = ch, true
			start = false
		case ch == ',':
			flush()
		default:
			if ch != ' ' {
				start = false
			}
			cur.WriteRune(ch)
		}
	}
	if strings.TrimSpace(s) != "" {
		flush()
	}
	return items
}

func field(r Row, names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(r[n]); v != "" {
			return v
		}
	}
	return ""
}
