package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// WordClass is the grammatical class of a vocabulary entry
type WordClass string

const (
	Noun         WordClass = "Noun"
	Verb         WordClass = "Verb"
	Adjective    WordClass = "Adjective"
	Adverb       WordClass = "Adverb"
	Pronoun      WordClass = "Pronoun"
	Preposition  WordClass = "Preposition"
	Conjunction  WordClass = "Conjunction"
	Interjection WordClass = "Interjection"
)

// WordClasses lists every word class in menu order
var WordClasses = []WordClass{Noun, Verb, Adjective, Adverb, Pronoun, Preposition, Conjunction, Interjection}

// ParseWordClass parses a word class name, ignoring case and surrounding spaces
func ParseWordClass(s string) (WordClass, error) {
	s = strings.TrimSpace(s)
	for _, wc := range WordClasses {
		if strings.EqualFold(string(wc), s) {
			return wc, nil
		}
	}
	return "", fmt.Errorf("unknown word class %q", s)
}

// Tenses holds the optional past and perfect forms of a verb
type Tenses struct {
	Past    *string `json:"past,omitempty"`
	Perfect *string `json:"perfect,omitempty"`
}

// NewTenses builds a Tenses value; blank or placeholder forms are left absent
func NewTenses(past, perfect string) Tenses {
	return Tenses{Past: optional(past), Perfect: optional(perfect)}
}

// HasPast reports whether a past form is recorded
func (t Tenses) HasPast() bool { return t.Past != nil }

// HasPerfect reports whether a perfect form is recorded
func (t Tenses) HasPerfect() bool { return t.Perfect != nil }

// Complete reports whether both tense slots are filled
func (t Tenses) Complete() bool { return t.HasPast() && t.HasPerfect() }

// Empty reports whether neither tense slot is filled
func (t Tenses) Empty() bool { return !t.HasPast() && !t.HasPerfect() }

// Slot returns the recorded form for a tense, if any
func (t Tenses) Slot(form Form) (string, bool) {
	switch form {
	case FormPast:
		if t.Past != nil {
			return *t.Past, true
		}
	case FormPerfect:
		if t.Perfect != nil {
			return *t.Perfect, true
		}
	}
	return "", false
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if IsPlaceholder(s) {
		return nil
	}
	s = Normalize(s)
	return &s
}

// VocabEntry is a single word of a vocabulary table
type VocabEntry struct {
	WordClass WordClass `json:"word_class" db:"word_class"`
	English   string    `json:"english" db:"english"`
	German    string    `json:"german" db:"german"`
	Tenses    Tenses    `json:"tenses"`
}

// Key returns the identity of the entry inside the diary
func (e VocabEntry) Key() string {
	return Key(e.English)
}

// IsVerb reports whether tense slots are meaningful for the entry
func (e VocabEntry) IsVerb() bool {
	return e.WordClass == Verb
}

// VocabTable is an ordered list of entries loaded from a named source
type VocabTable struct {
	Name     string
	Editable bool
	Entries  []VocabEntry
}

// Len returns the number of entries
func (t *VocabTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Entries)
}

// Find returns the position of the entry with the given English key, or -1
func (t *VocabTable) Find(english string) int {
	key := Key(english)
	for i, e := range t.Entries {
		if e.Key() == key {
			return i
		}
	}
	return -1
}

// Normalize converts s to composed Unicode form (NFC)
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// Key normalizes an English word into a diary key
func Key(english string) string {
	return Normalize(strings.TrimSpace(english))
}
