// Package score keeps the score history and the achievements earned from it.
package score

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/example/vocabdiary/internal/storage"
	"github.com/example/vocabdiary/internal/tabular"
	"github.com/example/vocabdiary/pkg/models"
)

// DateLayout is the timestamp format of both tables
const DateLayout = "2006-01-02 15:04:05"

// Table columns
const (
	ColumnDate           = "Date"
	ColumnScorePercent   = "ScorePercent"
	ColumnTotalQuestions = "TotalQuestions"
	ColumnAchievement    = "Achievement"
	ColumnDateEarned     = "DateEarned"
)

var (
	historyColumns     = []string{ColumnDate, ColumnScorePercent, ColumnTotalQuestions}
	achievementColumns = []string{ColumnAchievement, ColumnDateEarned}
)

// Tracker appends score events and unlocks achievements
type Tracker struct {
	store  storage.Store
	rules  []Rule
	logger *slog.Logger
	now    func() time.Time
}

// NewTracker creates a tracker evaluating rules, or DefaultRules when none are given
func NewTracker(store storage.Store, logger *slog.Logger, rules ...Rule) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Tracker{store: store, rules: rules, logger: logger, now: time.Now}
}

// RecordScore appends a score event and evaluates the achievement rules in
// order. It returns the achievements unlocked by this event.
func (t *Tracker) RecordScore(ctx context.Context, percent float64, total int) ([]models.Achievement, error) {
	table, err := t.store.ReadTable(ctx, storage.TableScoreHistory, historyColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to load score history: %w", err)
	}

	percent = math.Max(0, math.Min(100, percent))
	stored := roundPercent(percent)
	table.Append(tabular.Row{
		ColumnDate:           t.now().Format(DateLayout),
		ColumnScorePercent:   strconv.FormatFloat(stored, 'f', 1, 64),
		ColumnTotalQuestions: strconv.Itoa(total),
	})
	if err := t.store.WriteTable(ctx, storage.TableScoreHistory, table); err != nil {
		return nil, fmt.Errorf("failed to save score history: %w", err)
	}
	t.logger.Info("score recorded", "percent", stored, "total", total)

	history := t.decodeHistory(table)
	// Rules see the exact percent of the game just played
	if n := len(history); n > 0 {
		history[n-1].ScorePercent = percent
	}
	var unlocked []models.Achievement
	for _, r := range t.rules {
		if !r.Met(history) {
			continue
		}
		a, ok, err := t.unlock(ctx, r.Name)
		if err != nil {
			return unlocked, err
		}
		if ok {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked, nil
}

// roundPercent keeps one decimal. Only a perfect game is stored as 100.0.
func roundPercent(p float64) float64 {
	if p >= 100 {
		return 100
	}
	return math.Min(math.Round(p*10)/10, 99.9)
}

// Unlock adds the named achievement unless it is already earned. It reports
// whether the achievement was newly unlocked.
func (t *Tracker) Unlock(ctx context.Context, name string) (bool, error) {
	_, ok, err := t.unlock(ctx, name)
	return ok, err
}

func (t *Tracker) unlock(ctx context.Context, name string) (models.Achievement, bool, error) {
	table, err := t.store.ReadTable(ctx, storage.TableAchievements, achievementColumns)
	if err != nil {
		return models.Achievement{}, false, fmt.Errorf("failed to load achievements: %w", err)
	}
	for _, r := range table.Rows {
		if strings.TrimSpace(r[ColumnAchievement]) == name {
			return models.Achievement{}, false, nil
		}
	}

	now := t.now()
	table.Append(tabular.Row{ColumnAchievement: name, ColumnDateEarned: now.Format(DateLayout)})
	if err := t.store.WriteTable(ctx, storage.TableAchievements, table); err != nil {
		return models.Achievement{}, false, fmt.Errorf("failed to save achievements: %w", err)
	}
	t.logger.Info("achievement unlocked", "name", name)
	return models.Achievement{Name: name, DateEarned: now.Truncate(time.Second)}, true, nil
}

// History returns all score events, oldest first
func (t *Tracker) History(ctx context.Context) ([]models.ScoreEvent, error) {
	table, err := t.store.ReadTable(ctx, storage.TableScoreHistory, historyColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to load score history: %w", err)
	}
	return t.decodeHistory(table), nil
}

// Achievements returns the earned achievements in the order they were unlocked
func (t *Tracker) Achievements(ctx context.Context) ([]models.Achievement, error) {
	table, err := t.store.ReadTable(ctx, storage.TableAchievements, achievementColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	achievements := make([]models.Achievement, 0, len(table.Rows))
	for i, r := range table.Rows {
		name := strings.TrimSpace(r[ColumnAchievement])
		if name == "" {
			t.warn(storage.TableAchievements, i, "empty achievement name")
			continue
		}
		earned, err := time.ParseInLocation(DateLayout, strings.TrimSpace(r[ColumnDateEarned]), time.Local)
		if err != nil {
			t.logger.Warn("invalid timestamp", "source", storage.TableAchievements, "line", i+2, "error", err)
		}
		achievements = append(achievements, models.Achievement{Name: name, DateEarned: earned})
	}
	return achievements, nil
}

// Statistics recomputes the summary from the full history
func (t *Tracker) Statistics(ctx context.Context) (models.Statistics, error) {
	history, err := t.History(ctx)
	if err != nil {
		return models.Statistics{}, err
	}
	return ComputeStatistics(history), nil
}

// ComputeStatistics summarizes a score history
func ComputeStatistics(history []models.ScoreEvent) models.Statistics {
	var (
		stats models.Statistics
		sum   float64
		run   int
	)
	for _, e := range history {
		stats.GamesPlayed++
		sum += e.ScorePercent
		if e.ScorePercent > stats.BestScore {
			stats.BestScore = e.ScorePercent
		}
		if e.Perfect() {
			run++
			if run > stats.MaxPerfectStreak {
				stats.MaxPerfectStreak = run
			}
		} else {
			run = 0
		}
	}
	stats.CurrentPerfectStreak = run
	if stats.GamesPlayed > 0 {
		stats.MeanScore = sum / float64(stats.GamesPlayed)
	}
	return stats
}

func (t *Tracker) decodeHistory(table *tabular.Table) []models.ScoreEvent {
	events := make([]models.ScoreEvent, 0, len(table.Rows))
	for i, r := range table.Rows {
		percent, err := strconv.ParseFloat(strings.TrimSpace(r[ColumnScorePercent]), 64)
		if err != nil {
			t.warn(storage.TableScoreHistory, i, "invalid score: "+err.Error())
			continue
		}
		total, err := strconv.Atoi(strings.TrimSpace(r[ColumnTotalQuestions]))
		if err != nil {
			// Older histories stored the total as a float
			f, ferr := strconv.ParseFloat(strings.TrimSpace(r[ColumnTotalQuestions]), 64)
			if ferr != nil {
				t.warn(storage.TableScoreHistory, i, "invalid total: "+err.Error())
				continue
			}
			total = int(f)
		}
		ts, err := time.ParseInLocation(DateLayout, strings.TrimSpace(r[ColumnDate]), time.Local)
		if err != nil {
			t.logger.Warn("invalid timestamp", "source", storage.TableScoreHistory, "line", i+2, "error", err)
		}
		events = append(events, models.ScoreEvent{Timestamp: ts, ScorePercent: percent, TotalQuestions: total})
	}
	return events
}

func (t *Tracker) warn(table string, row int, reason string) {
	t.logger.Warn("malformed row skipped", "source", table, "line", row+2, "reason", reason)
}
