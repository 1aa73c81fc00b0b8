package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabdiary/internal/bot"
	"github.com/example/vocabdiary/internal/console"
	"github.com/example/vocabdiary/internal/importer"
	"github.com/example/vocabdiary/internal/scheduler"
	"github.com/example/vocabdiary/internal/score"
	"github.com/example/vocabdiary/pkg/models"
)

// PlayCommand runs the interactive console game
type PlayCommand struct {
	in  io.Reader
	out io.Writer
}

// NewPlayCommand creates a new PlayCommand
func NewPlayCommand(in io.Reader, out io.Writer) *PlayCommand {
	return &PlayCommand{in: in, out: out}
}

// ParseFlags parses command line flags
func (cmd *PlayCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	return fs.Parse(args)
}

// Run starts the game loop
func (cmd *PlayCommand) Run(ctx context.Context, env *Env) error {
	app := console.NewApp(cmd.in, cmd.out, env.Store, env.Diary(), env.Tracker(), env.Engine(), env.Logger)
	return app.Run(ctx)
}

// BotCommand runs the Telegram front-end
type BotCommand struct {
	QuizSize int
	Timeout  time.Duration
}

// NewBotCommand creates a new BotCommand
func NewBotCommand() *BotCommand {
	return &BotCommand{}
}

// ParseFlags parses command line flags
func (cmd *BotCommand) ParseFlags(args []string) error {
	def := bot.DefaultConfig(0)
	fs := flag.NewFlagSet("bot", flag.ContinueOnError)
	fs.IntVar(&cmd.QuizSize, "quiz-size", def.DefaultQuizSize, "Number of questions of /quiz without arguments")
	fs.DurationVar(&cmd.Timeout, "answer-timeout", def.AnswerTimeout, "How long to wait for an answer before stopping a quiz")
	return fs.Parse(args)
}

// Run connects to Telegram and serves updates until ctx is done
func (cmd *BotCommand) Run(ctx context.Context, env *Env) error {
	api, err := bot.Connect(env.Config.Telegram.Token)
	if err != nil {
		return err
	}
	env.Logger.Info("authorized on account", "username", api.Self.UserName)

	cfg := bot.DefaultConfig(env.Config.Telegram.ChatID)
	cfg.DefaultQuizSize = cmd.QuizSize
	cfg.AnswerTimeout = cmd.Timeout
	d, tracker := env.Diary(), env.Tracker()
	b, err := bot.New(api, cfg, env.Store, d, tracker, env.Engine(), env.Logger)
	if err != nil {
		return err
	}

	if env.Config.Reminder.Enabled {
		s := scheduler.New(b, d, tracker, env.Config.Reminder.Hour, time.Local, env.Logger)
		if err := s.Start(ctx); err != nil {
			return err
		}
		defer s.Stop()
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)
	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	err = b.Run(ctx, updates)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ImportCommand imports a word list into a reference table
type ImportCommand struct {
	out    io.Writer
	Config importer.Config
	class  string
}

// NewImportCommand creates a new ImportCommand
func NewImportCommand(out io.Writer) *ImportCommand {
	return &ImportCommand{out: out}
}

// ParseFlags parses command line flags
func (cmd *ImportCommand) ParseFlags(args []string) error {
	def := importer.DefaultConfig("")
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.StringVar(&cmd.Config.Name, "name", "", "Name of the word list (default: file name)")
	fs.StringVar(&cmd.Config.SheetName, "sheet", "", "Sheet to import (default: first sheet)")
	fs.StringVar(&cmd.Config.WordClassColumn, "class-col", def.WordClassColumn, "Column with the word class")
	fs.StringVar(&cmd.Config.EnglishColumn, "english-col", def.EnglishColumn, "Column with the English word")
	fs.StringVar(&cmd.Config.GermanColumn, "german-col", def.GermanColumn, "Column with the German word")
	fs.StringVar(&cmd.Config.PastColumn, "past-col", def.PastColumn, "Column with the past tense")
	fs.StringVar(&cmd.Config.PerfectColumn, "perfect-col", def.PerfectColumn, "Column with the perfect tense")
	fs.IntVar(&cmd.Config.StartRow, "start-row", def.StartRow, "First row to import (1-based)")
	fs.StringVar(&cmd.class, "default-class", string(def.DefaultClass), "Word class for rows without one")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import [options] <file.xlsx|file.csv>\n\nOptions:\n", os.Args[0])
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("import needs exactly one file")
	}
	cmd.Config.FilePath = fs.Arg(0)
	class, err := models.ParseWordClass(cmd.class)
	if err != nil {
		return err
	}
	cmd.Config.DefaultClass = class
	return nil
}

// Run imports the file
func (cmd *ImportCommand) Run(ctx context.Context, env *Env) error {
	res, err := importer.New(env.Store, env.Logger).Import(ctx, cmd.Config)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.out, "Imported %d words into '%s' (%d rows processed, %d duplicates skipped).\n",
		res.Imported, res.Table, res.TotalProcessed, res.Skipped)
	for _, e := range res.Errors {
		fmt.Fprintln(cmd.out, "  "+e)
	}
	return nil
}

// ExportCommand writes the diary to a spreadsheet or CSV file
type ExportCommand struct {
	out   io.Writer
	Path  string
	Sheet string
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(out io.Writer) *ExportCommand {
	return &ExportCommand{out: out}
}

// ParseFlags parses command line flags
func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.StringVar(&cmd.Sheet, "sheet", "Diary", "Sheet name for Excel output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("export needs exactly one output file")
	}
	cmd.Path = fs.Arg(0)
	return nil
}

// Run exports the diary
func (cmd *ExportCommand) Run(ctx context.Context, env *Env) error {
	n, err := importer.New(env.Store, env.Logger).Export(ctx, cmd.Path, cmd.Sheet)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.out, "Exported %d words to %s.\n", n, cmd.Path)
	return nil
}

// StatsCommand prints the statistics and achievements
type StatsCommand struct {
	out io.Writer
}

// NewStatsCommand creates a new StatsCommand
func NewStatsCommand(out io.Writer) *StatsCommand {
	return &StatsCommand{out: out}
}

// ParseFlags parses command line flags
func (cmd *StatsCommand) ParseFlags(args []string) error {
	return flag.NewFlagSet("stats", flag.ContinueOnError).Parse(args)
}

// Run prints the statistics
func (cmd *StatsCommand) Run(ctx context.Context, env *Env) error {
	tracker := env.Tracker()
	stats, err := tracker.Statistics(ctx)
	if err != nil {
		return err
	}
	achievements, err := tracker.Achievements(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.out, score.FormatStatistics(stats))
	fmt.Fprintln(cmd.out)
	fmt.Fprintln(cmd.out, score.FormatAchievements(achievements))
	return nil
}
