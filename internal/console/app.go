// Package console is the interactive terminal front-end of the vocabulary game.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/example/vocabdiary/internal/diary"
	"github.com/example/vocabdiary/internal/quiz"
	"github.com/example/vocabdiary/internal/score"
	"github.com/example/vocabdiary/internal/session"
	"github.com/example/vocabdiary/internal/storage"
	"github.com/example/vocabdiary/pkg/models"
)

const mainMenu = `
What would you like to do?
L - Learn words from vocab files
A - Add words to Diary
T - Test your vocabulary
M - Modify Diary
S - Show Achievements
E - Exit
Your choice: `

// App runs the console game loop
type App struct {
	in      *Input
	out     io.Writer
	store   storage.Store
	diary   *diary.Repository
	tracker *score.Tracker
	engine  *quiz.Engine
	runner  *session.Orchestrator
	logger  *slog.Logger
}

// NewApp wires the console front-end
func NewApp(r io.Reader, w io.Writer, store storage.Store, d *diary.Repository, tracker *score.Tracker, engine *quiz.Engine, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		in:      NewInput(r, w),
		out:     w,
		store:   store,
		diary:   d,
		tracker: tracker,
		engine:  engine,
		logger:  logger,
	}
	a.runner = session.New(d, tracker, a, logger)
	return a
}

// Run shows the main menu until the user exits
func (a *App) Run(ctx context.Context) error {
	a.diary.ResetSession()
	a.println("\nHello! Welcome to your German Vocabulary Game!")
	a.println("You can learn, test, and maintain your vocabulary in a fun way.")

	for {
		choice, err := a.in.PromptChoice(mainMenu, "l", "a", "t", "m", "s", "e")
		if errors.Is(err, ErrExit) {
			choice = "e"
		} else if err != nil {
			return err
		}

		switch choice {
		case "l":
			err = a.Learn(ctx)
		case "a":
			err = a.AddWords(ctx)
		case "t":
			err = a.Test(ctx)
		case "m":
			err = a.Modify(ctx)
		case "s":
			err = a.ShowAchievements(ctx)
		case "e":
			a.println("Bye!")
			return nil
		}

		if errors.Is(err, ErrExit) {
			a.println("Bye!")
			return nil
		}
		if err != nil {
			a.logger.Error("action failed", "action", choice, "error", err)
			a.println("Something went wrong: " + err.Error())
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Ask implements session.Prompter
func (a *App) Ask(_ context.Context, q models.Question) (string, error) {
	var prompt string
	switch {
	case q.Form != models.FormBase:
		prompt = fmt.Sprintf("\n%s form of '%s': ", q.Form, q.English)
	case q.WordClass == models.Verb:
		prompt = fmt.Sprintf("\nBase form of '%s': ", q.English)
	default:
		prompt = fmt.Sprintf("\nTranslate '%s' (%s): ", q.English, q.WordClass)
	}
	return a.in.Answer(prompt)
}

// Confirm implements session.Prompter
func (a *App) Confirm(_ context.Context, prompt string) (bool, error) {
	return a.in.PromptYesNo("\n" + prompt)
}

// Report implements session.Prompter
func (a *App) Report(_ context.Context, msg string) error {
	_, err := fmt.Fprintln(a.out, msg)
	return err
}

func (a *App) println(msg string) {
	fmt.Fprintln(a.out, msg)
}

// chooseSource lists the vocabulary sources and loads the selected one
func (a *App) chooseSource(ctx context.Context, purpose string) (*models.VocabTable, error) {
	sources, err := a.store.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		if _, err := a.diary.Load(ctx); err != nil {
			return nil, err
		}
		sources = []storage.Source{{Name: storage.TableDiary, Editable: true}}
	}

	fmt.Fprintf(a.out, "\nAvailable vocabulary files to %s:\n", purpose)
	for i, s := range sources {
		access := "Read-only"
		if s.Editable {
			access = "Editable (Diary)"
		}
		fmt.Fprintf(a.out, "%d. %s (%s)\n", i+1, s.Name, access)
	}
	n, err := a.in.PromptCount("Select a file by number: ", len(sources))
	if err != nil {
		return nil, err
	}
	return storage.LoadVocab(ctx, a.store, sources[n-1], a.logger)
}

// chooseMode asks for one of the four learn/test modes
func (a *App) chooseMode(verb string) (quiz.Mode, error) {
	fmt.Fprintf(a.out, "\nSelect %s mode:\n1. Random words\n2. %s by word class\n3. Verb and tenses\n4. %s in order\n", verb, title(verb), title(verb))
	n, err := a.in.PromptCount("Your choice: ", 4)
	if err != nil {
		return 0, err
	}
	return []quiz.Mode{quiz.ModeRandom, quiz.ModeByClass, quiz.ModeVerbs, quiz.ModeInOrder}[n-1], nil
}

// chooseClass asks for a word class by name
func (a *App) chooseClass(purpose string) (models.WordClass, error) {
	for {
		word, err := a.in.PromptWord(fmt.Sprintf("\nEnter the word class to %s (Noun/Verb/Adjective/...): ", purpose))
		if err != nil {
			return "", err
		}
		class, err := models.ParseWordClass(word)
		if err == nil {
			return class, nil
		}
		a.println("Unknown word class.")
	}
}

// chooseRange asks for a 1-based inclusive range and returns it 0-based
func (a *App) chooseRange(max int) (int, int, error) {
	fmt.Fprintf(a.out, "\nMaximum number of words available in the chosen vocabulary file is: %d\n", max)
	start, err := a.in.PromptCount("Select a starting index: ", max)
	if err != nil {
		return 0, 0, err
	}
	end, err := a.in.PromptCount("Select an ending index: ", max)
	if err != nil {
		return 0, 0, err
	}
	return start - 1, end - 1, nil
}

func title(s string) string {
	return cases.Title(language.English).String(s)
}
