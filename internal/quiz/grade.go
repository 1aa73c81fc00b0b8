package quiz

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/example/vocabdiary/pkg/models"
)

// Result is the outcome of grading a deck
type Result struct {
	Score     int
	Total     int
	Percent   float64
	Correct   []models.Question
	Incorrect []models.Question
}

// GradeAnswer compares answers after NFC normalization and Unicode case
// folding. A blank or placeholder expected value matches anything, and a
// placeholder answer matches anything. A blank answer to a real question is wrong.
func GradeAnswer(expected, actual string) bool {
	if models.IsPlaceholder(expected) {
		return true
	}
	actual = strings.TrimSpace(actual)
	if actual == "" {
		return false
	}
	if models.IsPlaceholder(actual) {
		return true
	}
	return fold(expected) == fold(actual)
}

func fold(s string) string {
	return cases.Fold().String(models.Normalize(strings.TrimSpace(s)))
}

// GradeBatch grades answers pairwise against questions. Nothing is scored
// when the lengths differ.
func GradeBatch(questions []models.Question, answers []string) (*Result, error) {
	if len(questions) != len(answers) {
		return nil, fmt.Errorf("%w: %d questions, %d answers", ErrRowCountMismatch, len(questions), len(answers))
	}

	res := &Result{Total: len(questions)}
	for i, q := range questions {
		if GradeAnswer(q.Expected, answers[i]) {
			res.Score++
			res.Correct = append(res.Correct, q)
		} else {
			res.Incorrect = append(res.Incorrect, q)
		}
	}
	if res.Total > 0 {
		res.Percent = 100 * float64(res.Score) / float64(res.Total)
	}
	return res, nil
}
