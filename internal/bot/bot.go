// Package bot is the Telegram front-end of the vocabulary game. It serves a
// single chat and runs one quiz at a time, reading answers from the same
// update stream as commands.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabdiary/internal/diary"
	"github.com/example/vocabdiary/internal/quiz"
	"github.com/example/vocabdiary/internal/score"
	"github.com/example/vocabdiary/internal/session"
	"github.com/example/vocabdiary/internal/storage"
)

// sender is the part of the Telegram API used by the bot
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot represents the Telegram bot application
type Bot struct {
	api     sender
	cfg     Config
	store   storage.Store
	diary   *diary.Repository
	tracker *score.Tracker
	engine  *quiz.Engine
	runner  *session.Orchestrator
	updates <-chan tgbotapi.Update
	logger  *slog.Logger
}

// New creates a new bot instance
func New(api sender, cfg Config, store storage.Store, d *diary.Repository, tracker *score.Tracker, engine *quiz.Engine, logger *slog.Logger) (*Bot, error) {
	if cfg.ChatID == 0 {
		return nil, errors.New("TELEGRAM_CHAT_ID is not set")
	}
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig(cfg.ChatID)
	if cfg.DefaultQuizSize <= 0 {
		cfg.DefaultQuizSize = def.DefaultQuizSize
	}
	if cfg.AnswerTimeout <= 0 {
		cfg.AnswerTimeout = def.AnswerTimeout
	}
	if cfg.DiaryPageSize <= 0 {
		cfg.DiaryPageSize = def.DiaryPageSize
	}

	b := &Bot{
		api:     api,
		cfg:     cfg,
		store:   store,
		diary:   d,
		tracker: tracker,
		engine:  engine,
		logger:  logger.With("chat", cfg.ChatID),
	}
	b.runner = session.New(d, tracker, &chatPrompter{bot: b}, b.logger)
	return b, nil
}

// Connect authorizes against the Telegram API
func Connect(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is not set")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	return api, nil
}

// Run handles incoming updates until ctx is done or the channel is closed.
// Updates are handled one at a time; a running quiz consumes the following
// updates as its answers.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	b.updates = updates
	b.diary.ResetSession()
	b.logger.Info("bot started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.logger.Info("update channel closed")
				return nil
			}
			if err := b.handleUpdate(ctx, update); err != nil {
				b.logger.Error("failed to handle update", "error", err)
			}
		}
	}
}

// Notify implements scheduler.Notifier
func (b *Bot) Notify(_ context.Context, message string) error {
	return b.send(message)
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	chatID, ok := chatOf(update)
	if !ok {
		return nil
	}
	if chatID != b.cfg.ChatID {
		b.logger.Warn("update from unknown chat ignored", "from", chatID)
		if update.Message != nil {
			_, err := b.api.Send(tgbotapi.NewMessage(chatID, "This bot is private."))
			return err
		}
		return nil
	}

	switch {
	case update.CallbackQuery != nil:
		// Buttons of a finished quiz
		return b.answerCallback(update.CallbackQuery)
	case update.Message.IsCommand():
		return b.HandleCommand(ctx, update.Message)
	default:
		return b.send("Send /quiz to start a quiz or /help for the list of commands.")
	}
}

func (b *Bot) send(text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(b.cfg.ChatID, text))
	return err
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery) error {
	_, err := b.api.Request(tgbotapi.NewCallback(cb.ID, ""))
	return err
}

func chatOf(update tgbotapi.Update) (int64, bool) {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
		return update.CallbackQuery.Message.Chat.ID, true
	}
	return 0, false
}
