// Package quiz builds question decks from vocabulary tables and grades answers.
package quiz

import "github.com/example/vocabdiary/pkg/models"

// BuildQuestions expands every entry of the table in insertion order. A verb
// yields its base form followed by each recorded tense.
func BuildQuestions(table *models.VocabTable) []models.Question {
	if table == nil {
		return nil
	}
	return OrderedQuestions(table.Entries)
}

// OrderedQuestions renders entries as sequential prompts: base, then past if
// present, then perfect if present
func OrderedQuestions(entries []models.VocabEntry) []models.Question {
	questions := make([]models.Question, 0, len(entries))
	for _, e := range entries {
		questions = append(questions, models.Question{
			English: e.English, WordClass: e.WordClass, Form: models.FormBase, Expected: e.German,
		})
		if !e.IsVerb() {
			continue
		}
		for _, form := range []models.Form{models.FormPast, models.FormPerfect} {
			if v, ok := e.Tenses.Slot(form); ok {
				questions = append(questions, models.Question{
					English: e.English, WordClass: e.WordClass, Form: form, Expected: v,
				})
			}
		}
	}
	return reindex(questions)
}

// SelectOrdered returns the entries in the inclusive 0-based range
// [start, end]. The range is clamped to the table; end < start yields nothing.
func SelectOrdered(table *models.VocabTable, start, end int) []models.VocabEntry {
	n := table.Len()
	if start < 0 {
		start = 0
	}
	if end >= n {
		end = n - 1
	}
	if end < start {
		return []models.VocabEntry{}
	}
	return append([]models.VocabEntry(nil), table.Entries[start:end+1]...)
}

// FilterByClass returns a read-only view of the entries of one word class
func FilterByClass(table *models.VocabTable, class models.WordClass) *models.VocabTable {
	filtered := &models.VocabTable{Name: table.Name}
	for _, e := range table.Entries {
		if e.WordClass == class {
			filtered.Entries = append(filtered.Entries, e)
		}
	}
	return filtered
}

func reindex(questions []models.Question) []models.Question {
	for i := range questions {
		questions[i].Index = i
	}
	return questions
}
