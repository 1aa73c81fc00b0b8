// Package session runs a quiz end to end: asking, grading, recording the
// score and offering to merge the correct answers into the diary.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/vocabdiary/internal/quiz"
	"github.com/example/vocabdiary/pkg/models"
)

// Prompter is the front-end the orchestrator talks to. Ask blocks until the
// user has answered.
type Prompter interface {
	Ask(ctx context.Context, q models.Question) (string, error)
	Confirm(ctx context.Context, prompt string) (bool, error)
	Report(ctx context.Context, message string) error
}

// Diary is the part of the diary repository used after a quiz
type Diary interface {
	BackupOnce(ctx context.Context) (bool, error)
	MergeCorrectAnswers(ctx context.Context, answers []models.Question) (int, error)
}

// Outcome summarizes a finished quiz
type Outcome struct {
	SessionID string
	Result    *quiz.Result
	Unlocked  []models.Achievement
	Offered   bool
	Merged    int
	MergeErr  error
}

// Orchestrator ties a quiz session to the diary and the score tracker
type Orchestrator struct {
	diary    Diary
	recorder quiz.ScoreRecorder
	prompter Prompter
	logger   *slog.Logger
}

// New creates an orchestrator
func New(diary Diary, recorder quiz.ScoreRecorder, prompter Prompter, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{diary: diary, recorder: recorder, prompter: prompter, logger: logger}
}

// RunQuiz asks every question, grades the answers and records the score once.
// With a positive score the user is asked whether to merge the correct
// answers into the diary; declining or a failed merge leaves the recorded
// score untouched. An error from Ask aborts the quiz without recording.
func (o *Orchestrator) RunQuiz(ctx context.Context, questions []models.Question) (*Outcome, error) {
	s := quiz.NewSession(o.recorder)
	out := &Outcome{SessionID: s.ID.String()}
	log := o.logger.With("session", out.SessionID)

	if err := s.Generate(questions); err != nil {
		return nil, err
	}
	if err := s.Begin(); err != nil {
		return nil, err
	}

	for _, q := range s.Questions() {
		answer, err := o.prompter.Ask(ctx, q)
		if err != nil {
			s.Reset()
			log.Info("quiz aborted", "error", err)
			return nil, fmt.Errorf("quiz aborted: %w", err)
		}
		if err := s.Answer(answer); err != nil {
			return nil, err
		}
		if quiz.GradeAnswer(q.Expected, answer) {
			o.report(ctx, "✔ Correct!")
		} else {
			o.report(ctx, fmt.Sprintf("✘ Wrong. Correct answer: %s", q.Expected))
		}
	}

	res, err := s.Grade(ctx)
	if res == nil {
		return nil, err
	}
	recordErr := err
	if recordErr != nil {
		log.Error("failed to record score", "error", recordErr)
	}
	out.Result = res
	out.Unlocked = s.Unlocked()
	log.Info("quiz graded", "score", res.Score, "total", res.Total)

	o.report(ctx, Summary(res, out.Unlocked))

	correct, err := s.OfferDiaryUpdate()
	switch {
	case errors.Is(err, quiz.ErrNothingToMerge):
	case err != nil:
		return out, err
	default:
		out.Offered = true
		o.merge(ctx, log, correct, out)
	}

	if err := s.Finish(); err != nil {
		return out, err
	}
	return out, recordErr
}

func (o *Orchestrator) merge(ctx context.Context, log *slog.Logger, correct []models.Question, out *Outcome) {
	ok, err := o.prompter.Confirm(ctx, "Do you want to add the correct answers to your Diary?")
	if err != nil {
		out.MergeErr = err
		return
	}
	if !ok {
		log.Info("diary merge declined")
		return
	}

	if _, err := o.diary.BackupOnce(ctx); err != nil {
		out.MergeErr = err
		log.Error("diary backup failed", "error", err)
		o.report(ctx, "Your Diary could not be updated.")
		return
	}
	n, err := o.diary.MergeCorrectAnswers(ctx, correct)
	if err != nil {
		out.MergeErr = err
		log.Error("diary merge failed", "error", err)
		o.report(ctx, "Your Diary could not be updated.")
		return
	}
	out.Merged = n
	if n > 0 {
		o.report(ctx, fmt.Sprintf("%d words/verb tenses added or updated in your Diary.", n))
	} else {
		o.report(ctx, "No new words or tenses were added.")
	}
}

func (o *Orchestrator) report(ctx context.Context, msg string) {
	if err := o.prompter.Report(ctx, msg); err != nil {
		o.logger.Warn("failed to report to user", "error", err)
	}
}

// Summary renders the score, the words to revise and new achievements
func Summary(res *quiz.Result, unlocked []models.Achievement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your total score: %.1f%% (%d/%d)", res.Percent, res.Score, res.Total)
	if len(res.Incorrect) > 0 {
		b.WriteString("\n\nWords to revise:")
		for _, q := range res.Incorrect {
			fmt.Fprintf(&b, "\n- %s (%s, %s): %s", q.English, q.WordClass, q.Form, q.Expected)
		}
	}
	for _, a := range unlocked {
		fmt.Fprintf(&b, "\n\n🎉 Achievement unlocked: %s 🎉", a.Name)
	}
	return b.String()
}
