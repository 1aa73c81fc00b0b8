package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/vocabdiary/internal/cli"
	"github.com/example/vocabdiary/internal/config"
	"github.com/example/vocabdiary/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	command := "play"
	var args []string
	if len(os.Args) >= 2 {
		command, args = os.Args[1], os.Args[2:]
	}

	var cmd cli.Command
	switch command {
	case "play":
		cmd = cli.NewPlayCommand(os.Stdin, os.Stdout)
	case "bot":
		cmd = cli.NewBotCommand()
	case "import":
		cmd = cli.NewImportCommand(os.Stdout)
	case "export":
		cmd = cli.NewExportCommand(os.Stdout)
	case "stats":
		cmd = cli.NewStatsCommand(os.Stdout)
	case "-h", "--help", "help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		return 1
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return 1
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := cli.NewEnv(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		return 1
	}
	defer func() {
		if err := env.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	if err := cmd.Run(ctx, env); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  play     Play the vocabulary game in the terminal (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  bot      Serve the game through Telegram\n")
	fmt.Fprintf(os.Stderr, "  import   Import an .xlsx or .csv word list as a read-only word list\n")
	fmt.Fprintf(os.Stderr, "  export   Export the Diary to an .xlsx or .csv file\n")
	fmt.Fprintf(os.Stderr, "  stats    Show score statistics and achievements\n")
	fmt.Fprintf(os.Stderr, "\nConfiguration is read from the environment and an optional .env file.\n")
	fmt.Fprintf(os.Stderr, "Use '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
