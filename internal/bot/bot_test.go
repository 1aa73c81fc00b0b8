package bot

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabdiary/internal/diary"
	"github.com/example/vocabdiary/internal/quiz"
	"github.com/example/vocabdiary/internal/score"
	"github.com/example/vocabdiary/internal/storage"
	"github.com/example/vocabdiary/internal/tabular"
	"github.com/example/vocabdiary/pkg/models"
)

const chatID int64 = 42

type fakeSender struct {
	sent      []tgbotapi.MessageConfig
	callbacks []string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		f.callbacks = append(f.callbacks, cb.CallbackQueryID)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) texts() []string {
	out := make([]string, len(f.sent))
	for i, m := range f.sent {
		out[i] = m.Text
	}
	return out
}

func (f *fakeSender) transcript() string {
	return strings.Join(f.texts(), "\n---\n")
}

func textUpdate(chat int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: chat}, From: &tgbotapi.User{ID: chat}}
	if strings.HasPrefix(text, "/") {
		length := len(text)
		if i := strings.Index(text, " "); i > 0 {
			length = i
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
	}
	return tgbotapi.Update{Message: msg}
}

func callbackUpdate(chat int64, id, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      id,
		Data:    data,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chat}},
	}}
}

func encode(entries ...models.VocabEntry) *tabular.Table {
	return tabular.EncodeEntries(entries)
}

type fixture struct {
	store   *storage.FileStore
	diary   *diary.Repository
	tracker *score.Tracker
	api     *fakeSender
	bot     *Bot
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "vocab_data"), nil)
	require.NoError(t, err)
	f := &fixture{
		store:   store,
		diary:   diary.NewRepository(store, nil),
		tracker: score.NewTracker(store, nil),
		api:     &fakeSender{},
	}
	f.bot, err = New(f.api, DefaultConfig(chatID), store, f.diary, f.tracker, quiz.NewEngine(7), nil)
	require.NoError(t, err)
	return f
}

func (f *fixture) run(t *testing.T, updates ...tgbotapi.Update) {
	t.Helper()
	ch := make(chan tgbotapi.Update, len(updates))
	for _, u := range updates {
		ch <- u
	}
	close(ch)
	require.NoError(t, f.bot.Run(context.Background(), ch))
}

func TestNew_RequiresChatID(t *testing.T) {
	_, err := New(&fakeSender{}, Config{}, nil, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestQuiz_MergeIntoDiary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.WriteTable(ctx, "animals", encode(models.VocabEntry{WordClass: models.Noun, English: "dog", German: "Hund"})))

	f.run(t,
		textUpdate(chatID, "/quiz 1 animals"),
		textUpdate(chatID, "hund"),
		callbackUpdate(chatID, "cb-1", callbackYes),
	)

	out := f.api.transcript()
	assert.Contains(t, out, "Translate 'dog' (Noun)")
	assert.Contains(t, out, "✔ Correct!")
	assert.Contains(t, out, "Your total score: 100.0% (1/1)")
	assert.Contains(t, out, "🎉 Achievement unlocked: First 100% score! 🎉")
	assert.Contains(t, out, "1 words/verb tenses added or updated in your Diary.")
	assert.Equal(t, []string{"cb-1"}, f.api.callbacks)

	d, err := f.diary.Load(ctx)
	require.NoError(t, err)
	require.Len(t, d.Entries, 1)
	assert.Equal(t, "Hund", d.Entries[0].German)

	history, err := f.tracker.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestQuiz_ButtonPressIgnoredWhileAsking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.WriteTable(ctx, "animals", encode(models.VocabEntry{WordClass: models.Noun, English: "dog", German: "Hund"})))

	f.run(t,
		textUpdate(chatID, "/quiz 1 animals"),
		callbackUpdate(chatID, "stale", callbackYes),
		textUpdate(chatID, "Hund"),
		callbackUpdate(chatID, "cb-1", callbackNo),
	)

	out := f.api.transcript()
	assert.Contains(t, out, "✔ Correct!")
	assert.NotContains(t, out, "✘")
	assert.Equal(t, []string{"stale", "cb-1"}, f.api.callbacks)

	d, err := f.diary.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, d.Entries)
}

func TestQuiz_ConfirmKeyboard(t *testing.T) {
	f := newFixture(t)
	_, err := f.diary.AddWords(context.Background(), []models.VocabEntry{{WordClass: models.Noun, English: "house", German: "Haus"}})
	require.NoError(t, err)

	f.run(t,
		textUpdate(chatID, "/quiz"),
		textUpdate(chatID, "Haus"),
		textUpdate(chatID, "maybe"),
		textUpdate(chatID, "no"),
	)

	var confirm *tgbotapi.MessageConfig
	for i := range f.api.sent {
		if f.api.sent[i].ReplyMarkup != nil {
			confirm = &f.api.sent[i]
		}
	}
	require.NotNil(t, confirm)
	assert.Equal(t, "Do you want to add the correct answers to your Diary?", confirm.Text)
	kb, ok := confirm.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard[0], 2)
	assert.Contains(t, f.api.transcript(), "Please answer Yes or No.")
}

func TestQuiz_CancelRecordsNothing(t *testing.T) {
	f := newFixture(t)
	_, err := f.diary.AddWords(context.Background(), []models.VocabEntry{
		{WordClass: models.Noun, English: "house", German: "Haus"},
		{WordClass: models.Noun, English: "tree", German: "Baum"},
	})
	require.NoError(t, err)

	f.run(t,
		textUpdate(chatID, "/quiz 2"),
		textUpdate(chatID, "/stats"),
		textUpdate(chatID, "/cancel"),
	)

	out := f.api.transcript()
	assert.Contains(t, out, "A quiz is running.")
	assert.Contains(t, out, "Quiz cancelled. Nothing was recorded.")
	history, err := f.tracker.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestQuiz_UnknownSourceAndEmptyDiary(t *testing.T) {
	f := newFixture(t)

	f.run(t,
		textUpdate(chatID, "/quiz 3 nowhere"),
		textUpdate(chatID, "/quiz"),
		textUpdate(chatID, "/quiz 0"),
	)

	texts := f.api.texts()
	require.Len(t, texts, 3)
	assert.Contains(t, texts[0], "Unknown word list 'nowhere'.")
	assert.Contains(t, texts[0], "• diary (your Diary)")
	assert.Equal(t, "⚠️ No words found in 'diary'.", texts[1])
	assert.Equal(t, "the number of questions must be at least 1", texts[2])
}

func TestCommands(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.RecordScore(context.Background(), 100, 2)
	require.NoError(t, err)

	f.run(t,
		textUpdate(chatID, "/start"),
		textUpdate(chatID, "/stats"),
		textUpdate(chatID, "/achievements"),
		textUpdate(chatID, "/undo"),
		textUpdate(chatID, "/diary"),
		textUpdate(chatID, "/cancel"),
		textUpdate(chatID, "/dance"),
		textUpdate(chatID, "hello"),
	)

	texts := f.api.texts()
	require.Len(t, texts, 8)
	assert.Contains(t, texts[0], "/quiz [n] [source]")
	assert.Contains(t, texts[1], "Games played: 1")
	assert.Contains(t, texts[2], "🏆 First 100% score!")
	assert.Equal(t, "No backup found to restore.", texts[3])
	assert.Equal(t, "Your Diary is empty.", texts[4])
	assert.Equal(t, "There is no quiz running.", texts[5])
	assert.Contains(t, texts[6], "Unknown command")
	assert.Contains(t, texts[7], "Send /quiz")
}

func TestForeignChatIsRefused(t *testing.T) {
	f := newFixture(t)

	f.run(t, textUpdate(7, "/diary"))

	require.Len(t, f.api.sent, 1)
	assert.Equal(t, int64(7), f.api.sent[0].ChatID)
	assert.Equal(t, "This bot is private.", f.api.sent[0].Text)
}

func TestNotify(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.bot.Notify(context.Background(), "⏰ Time to practice!"))

	require.Len(t, f.api.sent, 1)
	assert.Equal(t, chatID, f.api.sent[0].ChatID)
}

func TestParseQuizArgs(t *testing.T) {
	n, src, err := parseQuizArgs("", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, storage.TableDiary, src)

	n, src, err = parseQuizArgs("goethe.xlsx 5", 10)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "goethe.xlsx", src)
}

func TestFormatDiary(t *testing.T) {
	d := &models.VocabTable{Entries: []models.VocabEntry{
		{WordClass: models.Verb, English: "to go", German: "gehen", Tenses: models.NewTenses("ging", "")},
		{WordClass: models.Noun, English: "house", German: "Haus"},
	}}

	assert.Equal(t, "📖 Your Diary (2 words):\n• to go (Verb): gehen, ging, –\n• house (Noun): Haus", FormatDiary(d, 50))
	assert.Equal(t, "📖 Your Diary (2 words):\n• to go (Verb): gehen, ging, –\n… and 1 more", FormatDiary(d, 1))
}
