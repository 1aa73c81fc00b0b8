package console

import (
	"context"
	"fmt"

	"github.com/example/vocabdiary/internal/quiz"
	"github.com/example/vocabdiary/pkg/models"
)

// Test runs a graded quiz on a chosen source
func (a *App) Test(ctx context.Context) error {
	table, err := a.chooseSource(ctx, "test")
	if err != nil {
		return err
	}
	mode, err := a.chooseMode("test")
	if err != nil {
		return err
	}

	opts := quiz.Options{Mode: mode}
	switch mode {
	case quiz.ModeInOrder:
		if table.Len() == 0 {
			a.println("\n⚠️ The selected file has no words.")
			return nil
		}
		if opts.Start, opts.End, err = a.chooseRange(table.Len()); err != nil {
			return err
		}
	default:
		deck := table
		switch mode {
		case quiz.ModeByClass:
			if opts.Class, err = a.chooseClass("test"); err != nil {
				return err
			}
			deck = quiz.FilterByClass(table, opts.Class)
		case quiz.ModeVerbs:
			deck = quiz.FilterByClass(table, models.Verb)
		}
		available := len(quiz.BuildQuestions(deck))
		if available == 0 {
			a.println("\n⚠️ No words found to test.")
			return nil
		}
		prompt := fmt.Sprintf("\nHow many words would you like to take now? Enter a number between 1 and %d: ", available)
		if opts.Count, err = a.in.PromptCount(prompt, available); err != nil {
			return err
		}
	}

	questions, err := a.engine.Prepare(table, opts)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		a.println("\n⚠️ No words found to test.")
		return nil
	}
	_, err = a.runner.RunQuiz(ctx, questions)
	return err
}
