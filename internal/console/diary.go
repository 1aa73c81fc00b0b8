package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/vocabdiary/internal/diary"
	"github.com/example/vocabdiary/internal/score"
	"github.com/example/vocabdiary/pkg/models"
)

// AddWords collects new words class by class and saves each batch to the
// diary. An existing verb with missing tenses is offered for completion
// instead of being added again.
func (a *App) AddWords(ctx context.Context) error {
	for {
		class, err := a.chooseAddClass()
		if err != nil {
			return err
		}

		var batch []models.VocabEntry
		for {
			entry, ok, err := a.readEntry(ctx, class)
			if err != nil {
				return err
			}
			if ok {
				batch = append(batch, entry)
			}

			choice, err := a.in.PromptChoice("\nC - Continue with same class, N - New word class, S - Stop adding words: ", "c", "n", "s")
			if err != nil {
				return err
			}
			if choice == "c" {
				continue
			}
			if err := a.saveBatch(ctx, batch); err != nil {
				return err
			}
			if choice == "s" {
				a.println("\nWords saved. Ending adding words.")
				return nil
			}
			a.println("\nWords saved. Switching to new word class...")
			break
		}
	}
}

func (a *App) chooseAddClass() (models.WordClass, error) {
	var b strings.Builder
	b.WriteString("\nSelect word class to add:\n")
	for i, c := range models.WordClasses {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	b.WriteString("Your choice: ")
	n, err := a.in.PromptCount(b.String(), len(models.WordClasses))
	if err != nil {
		return "", err
	}
	return models.WordClasses[n-1], nil
}

// readEntry asks for one word. ok is false when nothing new should be added.
func (a *App) readEntry(ctx context.Context, class models.WordClass) (models.VocabEntry, bool, error) {
	english, err := a.in.PromptWord(fmt.Sprintf("\nEnter the English %s: ", class))
	if err != nil {
		return models.VocabEntry{}, false, err
	}

	current, err := a.diary.Load(ctx)
	if err != nil {
		return models.VocabEntry{}, false, err
	}
	if idx := current.Find(english); idx >= 0 {
		existing := current.Entries[idx]
		if class == models.Verb && existing.IsVerb() && !existing.Tenses.Complete() {
			return models.VocabEntry{}, false, a.completeTenses(ctx, existing)
		}
		a.println(fmt.Sprintf("The word '%s' is already in your Diary.", english))
		return models.VocabEntry{}, false, nil
	}

	german, err := a.in.PromptWord(fmt.Sprintf("Enter the German %s: ", class))
	if err != nil {
		return models.VocabEntry{}, false, err
	}
	entry := models.VocabEntry{WordClass: class, English: english, German: german}

	if class == models.Verb {
		add, err := a.in.PromptYesNo("Do you wish to add past and perfect tenses?")
		if err != nil {
			return models.VocabEntry{}, false, err
		}
		if add {
			past, perfect, err := a.readTenses(german)
			if err != nil {
				return models.VocabEntry{}, false, err
			}
			entry.Tenses = models.NewTenses(past, perfect)
		}
	}
	return entry, true, nil
}

func (a *App) completeTenses(ctx context.Context, existing models.VocabEntry) error {
	a.println(fmt.Sprintf("The verb '%s' exists but has incomplete tenses.", existing.English))
	ok, err := a.in.PromptYesNo("Do you want to add missing past and perfect tenses?")
	if err != nil || !ok {
		return err
	}
	var past, perfect string
	if !existing.Tenses.HasPast() {
		if past, err = a.in.PromptWord(fmt.Sprintf("Enter the Past tense of '%s': ", existing.English)); err != nil {
			return err
		}
	}
	if !existing.Tenses.HasPerfect() {
		if perfect, err = a.in.PromptWord(fmt.Sprintf("Enter the Perfect tense of '%s': ", existing.English)); err != nil {
			return err
		}
	}
	if _, err := a.diary.CompleteTenses(ctx, existing.English, past, perfect); err != nil {
		return err
	}
	a.println(fmt.Sprintf("Verb tenses updated for '%s'.", existing.English))
	return nil
}

func (a *App) readTenses(german string) (string, string, error) {
	past, err := a.in.PromptWord(fmt.Sprintf("Enter the Past tense of '%s': ", german))
	if err != nil {
		return "", "", err
	}
	perfect, err := a.in.PromptWord(fmt.Sprintf("Enter the Perfect tense of '%s': ", german))
	if err != nil {
		return "", "", err
	}
	return past, perfect, nil
}

func (a *App) saveBatch(ctx context.Context, batch []models.VocabEntry) error {
	if len(batch) == 0 {
		return nil
	}
	res, err := a.diary.AddWords(ctx, batch)
	if err != nil {
		return err
	}
	for _, k := range res.Skipped {
		a.println(fmt.Sprintf("The word '%s' is already in your Diary.", k))
	}
	return nil
}

// Modify deletes or updates diary words, or undoes this session's changes
func (a *App) Modify(ctx context.Context) error {
	for {
		choice, err := a.in.PromptChoice("\nD - Delete a word\nU - Update a word\nR - Undo last change\nE - Exit Modify\nYour choice: ", "d", "u", "r", "e")
		if err != nil {
			return err
		}
		switch choice {
		case "d":
			err = a.deleteWord(ctx)
		case "u":
			err = a.updateWord(ctx)
		case "r":
			err = a.undo(ctx)
		case "e":
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) deleteWord(ctx context.Context) error {
	english, err := a.in.PromptWord("Enter the English word to delete: ")
	if err != nil {
		return err
	}
	err = a.diary.DeleteWord(ctx, english)
	if errors.Is(err, diary.ErrNotFound) {
		a.println(fmt.Sprintf("The word '%s' was not found in your Diary.", english))
		return nil
	}
	if err != nil {
		return err
	}
	a.println(fmt.Sprintf("The word '%s' has been deleted from your Diary.", english))
	return nil
}

func (a *App) updateWord(ctx context.Context) error {
	english, err := a.in.PromptWord("Enter the English word to update: ")
	if err != nil {
		return err
	}
	current, err := a.diary.Load(ctx)
	if err != nil {
		return err
	}
	if current.Find(english) < 0 {
		a.println(fmt.Sprintf("The word '%s' was not found in your Diary.", english))
		return nil
	}

	var u diary.Update
	german, err := a.in.PromptOptionalWord("Enter the new German translation (leave blank to keep): ")
	if err != nil {
		return err
	}
	if german != "" {
		u.German = &german
	}

	className, err := a.in.PromptOptionalWord("Enter the new word class (leave blank to keep): ")
	if err != nil {
		return err
	}
	if className != "" {
		class, err := models.ParseWordClass(className)
		if err != nil {
			a.println("Unknown word class, keeping the current one.")
		} else {
			u.WordClass = &class
		}
	}

	isVerb := current.Entries[current.Find(english)].IsVerb()
	if u.WordClass != nil {
		isVerb = *u.WordClass == models.Verb
	}
	if isVerb {
		change, err := a.in.PromptYesNo("Do you want to update the verb tenses?")
		if err != nil {
			return err
		}
		if change {
			past, perfect, err := a.readTenses(english)
			if err != nil {
				return err
			}
			tenses := models.NewTenses(past, perfect)
			u.Tenses = &tenses
		}
	}

	if err := a.diary.UpdateWord(ctx, english, u); err != nil {
		return err
	}
	a.println(fmt.Sprintf("The word '%s' has been updated in your Diary.", english))
	return nil
}

func (a *App) undo(ctx context.Context) error {
	err := a.diary.Undo(ctx)
	if errors.Is(err, diary.ErrNoBackupAvailable) {
		a.println("No backup found to restore.")
		return nil
	}
	if err != nil {
		return err
	}
	a.println("Your Diary has been restored from the last backup.")
	return nil
}

// ShowAchievements prints the earned achievements and the score statistics
func (a *App) ShowAchievements(ctx context.Context) error {
	achievements, err := a.tracker.Achievements(ctx)
	if err != nil {
		return err
	}
	stats, err := a.tracker.Statistics(ctx)
	if err != nil {
		return err
	}
	a.println(score.FormatAchievements(achievements) + "\n\n" + score.FormatStatistics(stats))
	return nil
}
