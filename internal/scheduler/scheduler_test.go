package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabdiary/pkg/models"
)

type recordingNotifier struct {
	messages []string
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, msg string) error {
	n.messages = append(n.messages, msg)
	return n.err
}

type stubDiary struct {
	entries int
	err     error
}

func (d stubDiary) Load(context.Context) (*models.VocabTable, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &models.VocabTable{Entries: make([]models.VocabEntry, d.entries)}, nil
}

type stubStats models.Statistics

func (s stubStats) Statistics(context.Context) (models.Statistics, error) {
	return models.Statistics(s), nil
}

func TestRunNow(t *testing.T) {
	n := &recordingNotifier{}
	s := New(n, stubDiary{entries: 12}, stubStats{GamesPlayed: 4, CurrentPerfectStreak: 2}, 9, time.UTC, nil)

	require.NoError(t, s.RunNow(context.Background()))

	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "Your Diary has 12 words.")
	assert.Contains(t, n.messages[0], "Games played: 4")
	assert.Contains(t, n.messages[0], "Current perfect streak: 2")
}

func TestRunNow_Errors(t *testing.T) {
	boom := errors.New("boom")

	n := &recordingNotifier{}
	s := New(n, stubDiary{err: boom}, stubStats{}, 9, time.UTC, nil)
	assert.ErrorIs(t, s.RunNow(context.Background()), boom)
	assert.Empty(t, n.messages)

	n = &recordingNotifier{err: boom}
	s = New(n, stubDiary{}, stubStats{}, 9, time.UTC, nil)
	assert.ErrorIs(t, s.RunNow(context.Background()), boom)
}

func TestFormatReminder(t *testing.T) {
	assert.Contains(t, FormatReminder(0, models.Statistics{}), "still empty")

	msg := FormatReminder(3, models.Statistics{GamesPlayed: 1})
	assert.NotContains(t, msg, "streak")
	assert.Contains(t, msg, "/quiz")
}

func TestStartSchedulesDailyJob(t *testing.T) {
	s := New(&recordingNotifier{}, stubDiary{}, stubStats{}, 25, time.UTC, nil)
	assert.Equal(t, DefaultReminderHour, s.hour)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Equal(t, 1, s.Jobs())
}
