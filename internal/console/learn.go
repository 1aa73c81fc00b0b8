package console

import (
	"context"
	"fmt"

	"github.com/example/vocabdiary/internal/quiz"
	"github.com/example/vocabdiary/pkg/models"
)

// Learn shows translations from a chosen source without grading
func (a *App) Learn(ctx context.Context) error {
	table, err := a.chooseSource(ctx, "learn from")
	if err != nil {
		return err
	}
	mode, err := a.chooseMode("learn")
	if err != nil {
		return err
	}

	var entries []models.VocabEntry
	switch mode {
	case quiz.ModeInOrder:
		if table.Len() == 0 {
			a.println("\n⚠️ The selected file has no words.")
			return nil
		}
		start, end, err := a.chooseRange(table.Len())
		if err != nil {
			return err
		}
		entries = quiz.SelectOrdered(table, start, end)
	case quiz.ModeByClass, quiz.ModeVerbs:
		class := models.Verb
		if mode == quiz.ModeByClass {
			if class, err = a.chooseClass("learn"); err != nil {
				return err
			}
		}
		filtered := quiz.FilterByClass(table, class)
		if filtered.Len() == 0 {
			a.println(fmt.Sprintf("\n⚠️ No words found for the class '%s'.", class))
			return nil
		}
		if entries, err = a.sample(filtered.Entries); err != nil {
			return err
		}
	default:
		if table.Len() == 0 {
			a.println("\n⚠️ The selected file has no words.")
			return nil
		}
		if entries, err = a.sample(table.Entries); err != nil {
			return err
		}
	}

	a.println("\n📖 Learning session started!\n")
	for _, e := range entries {
		a.println(Card(e))
		if _, err := a.in.Line("Press Enter to continue..."); err != nil {
			return err
		}
	}
	a.println("\n✅ End of learning session.")
	return nil
}

func (a *App) sample(entries []models.VocabEntry) ([]models.VocabEntry, error) {
	n, err := a.in.PromptCount(fmt.Sprintf("\nHow many words would you like to take now? Enter a number between 1 and %d: ", len(entries)), len(entries))
	if err != nil {
		return nil, err
	}
	return a.engine.SampleEntries(entries, n)
}

// Card renders an entry for learning; verbs list their recorded tenses
func Card(e models.VocabEntry) string {
	if !e.IsVerb() || e.Tenses.Empty() {
		return fmt.Sprintf("➡️  %s (%s) translates to %s", e.English, e.WordClass, e.German)
	}
	s := fmt.Sprintf("➡️  %s (Verb):\n    - Base: %s", e.English, e.German)
	if v, ok := e.Tenses.Slot(models.FormPast); ok {
		s += "\n    - Past: " + v
	}
	if v, ok := e.Tenses.Slot(models.FormPerfect); ok {
		s += "\n    - Perfect: " + v
	}
	return s
}
