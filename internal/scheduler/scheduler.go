// Package scheduler sends a daily practice reminder.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabdiary/pkg/models"
)

// DefaultReminderHour is used when the configured hour is out of range
const DefaultReminderHour = 18

// Notifier delivers a reminder message
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// DiaryLoader loads the diary
type DiaryLoader interface {
	Load(ctx context.Context) (*models.VocabTable, error)
}

// StatsSource provides score statistics
type StatsSource interface {
	Statistics(ctx context.Context) (models.Statistics, error)
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	diary     DiaryLoader
	stats     StatsSource
	hour      int
	logger    *slog.Logger
}

// New creates a new scheduler instance running in the given location
func New(notifier Notifier, diary DiaryLoader, stats StatsSource, hour int, loc *time.Location, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	if hour < 0 || hour > 23 {
		logger.Warn("reminder hour out of range, using default", "hour", hour, "default", DefaultReminderHour)
		hour = DefaultReminderHour
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		notifier:  notifier,
		diary:     diary,
		stats:     stats,
		hour:      hour,
		logger:    logger,
	}
}

// Start schedules the daily reminder and runs the scheduler in the background
// until ctx is done or Stop is called
func (s *Scheduler) Start(ctx context.Context) error {
	at := fmt.Sprintf("%02d:00", s.hour)
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.remind, ctx); err != nil {
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}
	s.scheduler.StartAsync()
	s.logger.Info("reminder scheduled", "at", at)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Jobs returns the number of scheduled jobs
func (s *Scheduler) Jobs() int {
	return s.scheduler.Len()
}

// RunNow sends the reminder immediately
func (s *Scheduler) RunNow(ctx context.Context) error {
	msg, err := s.Message(ctx)
	if err != nil {
		return err
	}
	return s.notifier.Notify(ctx, msg)
}

func (s *Scheduler) remind(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.RunNow(ctx); err != nil {
		s.logger.Error("failed to send reminder", "error", err)
	}
}

// Message builds the reminder text from the diary size and the statistics
func (s *Scheduler) Message(ctx context.Context) (string, error) {
	d, err := s.diary.Load(ctx)
	if err != nil {
		return "", err
	}
	stats, err := s.stats.Statistics(ctx)
	if err != nil {
		return "", err
	}
	return FormatReminder(d.Len(), stats), nil
}

// FormatReminder renders the practice reminder
func FormatReminder(words int, stats models.Statistics) string {
	if words == 0 {
		return "⏰ Time to practice! Your Diary is still empty. Send /quiz to test yourself on a word list."
	}
	msg := fmt.Sprintf("⏰ Time to practice! Your Diary has %d words.\nGames played: %d", words, stats.GamesPlayed)
	if stats.CurrentPerfectStreak > 0 {
		msg += fmt.Sprintf("\nCurrent perfect streak: %d, keep it going!", stats.CurrentPerfectStreak)
	}
	return msg + "\nSend /quiz to start."
}
