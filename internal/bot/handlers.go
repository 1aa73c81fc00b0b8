package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabdiary/internal/diary"
	"github.com/example/vocabdiary/internal/quiz"
	"github.com/example/vocabdiary/internal/score"
	"github.com/example/vocabdiary/internal/storage"
	"github.com/example/vocabdiary/pkg/models"
)

const helpText = `Available commands:
/quiz [n] [source] - Test yourself on n random words (default 10) from a word list (default diary)
/sources - List the word lists
/diary - Show the words in your Diary
/undo - Restore your Diary to how it was before this session's changes
/stats - Show your score statistics
/achievements - Show your achievements
/cancel - Stop the running quiz
/help - Show this help`

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	var err error
	switch message.Command() {
	case "start":
		err = b.handleStart()
	case "help":
		err = b.send(helpText)
	case "quiz":
		err = b.handleQuiz(ctx, message.CommandArguments())
	case "sources":
		err = b.handleSources(ctx)
	case "diary":
		err = b.handleDiary(ctx)
	case "undo":
		err = b.handleUndo(ctx)
	case "stats":
		err = b.handleStats(ctx)
	case "achievements":
		err = b.handleAchievements(ctx)
	case "cancel":
		err = b.send("There is no quiz running.")
	default:
		err = b.send("Unknown command. Use /help to see the available commands.")
	}
	return err
}

func (b *Bot) handleStart() error {
	b.diary.ResetSession()
	return b.send("Hallo! Welcome to your German Vocabulary Game! 🎓\n\n" + helpText)
}

// parseQuizArgs reads "[n] [source]" in any order
func parseQuizArgs(args string, defaultSize int) (int, string, error) {
	n, source := defaultSize, storage.TableDiary
	for _, f := range strings.Fields(args) {
		if v, err := strconv.Atoi(f); err == nil {
			if v < 1 {
				return 0, "", fmt.Errorf("the number of questions must be at least 1")
			}
			n = v
			continue
		}
		source = f
	}
	return n, source, nil
}

func (b *Bot) handleQuiz(ctx context.Context, args string) error {
	n, name, err := parseQuizArgs(args, b.cfg.DefaultQuizSize)
	if err != nil {
		return b.send(err.Error())
	}

	if _, err := b.diary.Load(ctx); err != nil {
		return err
	}
	sources, err := b.store.ListSources(ctx)
	if err != nil {
		return err
	}
	src, ok := storage.FindSource(sources, name)
	if !ok {
		return b.send(fmt.Sprintf("Unknown word list '%s'.\n\n%s", name, formatSources(sources)))
	}
	table, err := storage.LoadVocab(ctx, b.store, src, b.logger)
	if err != nil {
		return err
	}

	questions, err := b.engine.Prepare(table, quiz.Options{Mode: quiz.ModeRandom, Count: n})
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return b.send(fmt.Sprintf("⚠️ No words found in '%s'.", src.Name))
	}

	if err := b.send(fmt.Sprintf("📝 Quiz on '%s' with %d questions. Send /cancel to stop.", src.Name, len(questions))); err != nil {
		return err
	}
	_, err = b.runner.RunQuiz(ctx, questions)
	switch {
	case errors.Is(err, errCancelled):
		return b.send("Quiz cancelled. Nothing was recorded.")
	case errors.Is(err, errTimeout):
		return b.send("No answer received, the quiz was stopped. Nothing was recorded.")
	}
	return err
}

func (b *Bot) handleSources(ctx context.Context) error {
	if _, err := b.diary.Load(ctx); err != nil {
		return err
	}
	sources, err := b.store.ListSources(ctx)
	if err != nil {
		return err
	}
	return b.send(formatSources(sources))
}

func formatSources(sources []storage.Source) string {
	var sb strings.Builder
	sb.WriteString("Available word lists:")
	for _, s := range sources {
		access := "read-only"
		if s.Editable {
			access = "your Diary"
		}
		fmt.Fprintf(&sb, "\n• %s (%s)", s.Name, access)
	}
	return sb.String()
}

func (b *Bot) handleDiary(ctx context.Context) error {
	d, err := b.diary.Load(ctx)
	if err != nil {
		return err
	}
	return b.send(FormatDiary(d, b.cfg.DiaryPageSize))
}

// FormatDiary lists at most limit entries of the diary
func FormatDiary(d *models.VocabTable, limit int) string {
	if d.Len() == 0 {
		return "Your Diary is empty."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📖 Your Diary (%d words):", d.Len())
	for i, e := range d.Entries {
		if i == limit {
			fmt.Fprintf(&sb, "\n… and %d more", d.Len()-limit)
			break
		}
		fmt.Fprintf(&sb, "\n• %s (%s): %s", e.English, e.WordClass, e.German)
		if e.IsVerb() && !e.Tenses.Empty() {
			past, _ := e.Tenses.Slot(models.FormPast)
			perfect, _ := e.Tenses.Slot(models.FormPerfect)
			fmt.Fprintf(&sb, ", %s, %s", orPlaceholder(past), orPlaceholder(perfect))
		}
	}
	return sb.String()
}

func orPlaceholder(s string) string {
	if s == "" {
		return models.Placeholder
	}
	return s
}

func (b *Bot) handleUndo(ctx context.Context) error {
	err := b.diary.Undo(ctx)
	if errors.Is(err, diary.ErrNoBackupAvailable) {
		return b.send("No backup found to restore.")
	}
	if err != nil {
		return err
	}
	return b.send("Your Diary has been restored from the last backup.")
}

func (b *Bot) handleStats(ctx context.Context) error {
	stats, err := b.tracker.Statistics(ctx)
	if err != nil {
		return err
	}
	return b.send("📊 " + score.FormatStatistics(stats))
}

func (b *Bot) handleAchievements(ctx context.Context) error {
	achievements, err := b.tracker.Achievements(ctx)
	if err != nil {
		return err
	}
	return b.send(score.FormatAchievements(achievements))
}
