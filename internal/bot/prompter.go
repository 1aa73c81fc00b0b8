package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabdiary/pkg/models"
)

const (
	callbackYes = "yes"
	callbackNo  = "no"
)

var (
	errCancelled     = errors.New("quiz cancelled")
	errTimeout       = errors.New("answer timed out")
	errUpdatesClosed = errors.New("update channel closed")
)

// chatPrompter asks quiz questions in the bot's chat and waits for the
// replies on the bot's update channel
type chatPrompter struct {
	bot *Bot
}

// Ask implements session.Prompter
func (p *chatPrompter) Ask(ctx context.Context, q models.Question) (string, error) {
	var prompt string
	switch {
	case q.Form != models.FormBase:
		prompt = fmt.Sprintf("%d. %s form of '%s'?", q.Index+1, q.Form, q.English)
	case q.WordClass == models.Verb:
		prompt = fmt.Sprintf("%d. Base form of '%s'?", q.Index+1, q.English)
	default:
		prompt = fmt.Sprintf("%d. Translate '%s' (%s)", q.Index+1, q.English, q.WordClass)
	}
	if err := p.bot.send(prompt); err != nil {
		return "", err
	}
	text, err := p.await(ctx, false)
	if err != nil {
		return "", err
	}
	return models.Normalize(strings.TrimSpace(text)), nil
}

// Confirm implements session.Prompter
func (p *chatPrompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	msg := tgbotapi.NewMessage(p.bot.cfg.ChatID, prompt)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{
		{Text: "Yes", CallbackData: callbackYes},
		{Text: "No", CallbackData: callbackNo},
	}})
	if _, err := p.bot.api.Send(msg); err != nil {
		return false, err
	}
	for {
		text, err := p.await(ctx, true)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(text)) {
		case callbackYes, "y":
			return true, nil
		case callbackNo, "n":
			return false, nil
		}
		if err := p.bot.send("Please answer Yes or No."); err != nil {
			return false, err
		}
	}
}

// Report implements session.Prompter
func (p *chatPrompter) Report(_ context.Context, message string) error {
	return p.bot.send(message)
}

// await returns the next text from the bot's chat, or the next button press
// when buttons is set. Commands other than /cancel are refused while a quiz
// is running.
func (p *chatPrompter) await(ctx context.Context, buttons bool) (string, error) {
	b := p.bot
	timer := time.NewTimer(b.cfg.AnswerTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
			return "", errTimeout
		case update, ok := <-b.updates:
			if !ok {
				return "", errUpdatesClosed
			}
			chatID, ok := chatOf(update)
			if !ok {
				continue
			}
			if chatID != b.cfg.ChatID {
				if err := b.handleUpdate(ctx, update); err != nil {
					b.logger.Error("failed to handle update", "error", err)
				}
				continue
			}

			if cb := update.CallbackQuery; cb != nil {
				if err := b.answerCallback(cb); err != nil {
					b.logger.Warn("failed to answer callback", "error", err)
				}
				if !buttons {
					continue
				}
				return cb.Data, nil
			}
			msg := update.Message
			if msg.IsCommand() {
				if msg.Command() == "cancel" {
					return "", errCancelled
				}
				if err := b.send("A quiz is running. Answer the question or send /cancel."); err != nil {
					return "", err
				}
				continue
			}
			if strings.EqualFold(strings.TrimSpace(msg.Text), "exit") {
				return "", errCancelled
			}
			return msg.Text, nil
		}
	}
}
