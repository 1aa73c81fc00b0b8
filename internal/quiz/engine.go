package quiz

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/example/vocabdiary/pkg/models"
)

// Mode selects how a deck is drawn from a table
type Mode int

const (
	ModeRandom Mode = iota + 1
	ModeByClass
	ModeVerbs
	ModeInOrder
)

func (m Mode) String() string {
	switch m {
	case ModeRandom:
		return "random"
	case ModeByClass:
		return "by word class"
	case ModeVerbs:
		return "verbs and tenses"
	case ModeInOrder:
		return "in order"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Options describes a deck request. Count applies to the random modes, Start
// and End (0-based, inclusive) to ModeInOrder, Class to ModeByClass.
type Options struct {
	Mode  Mode
	Class models.WordClass
	Count int
	Start int
	End   int
}

// Engine draws random decks
type Engine struct {
	rnd *rand.Rand
}

// NewEngine creates an engine; a zero seed uses the current time
func NewEngine(seed int64) *Engine {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle returns the flattened deck in random order, so the tense questions
// of one verb may end up apart. Indexes are renumbered to deck positions.
func (e *Engine) Shuffle(questions []models.Question) []models.Question {
	deck := append([]models.Question(nil), questions...)
	e.rnd.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return reindex(deck)
}

// SelectRandom returns the first n questions of a shuffled deck
func (e *Engine) SelectRandom(questions []models.Question, n int) ([]models.Question, error) {
	if n < 0 || n > len(questions) {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidCount, n, len(questions))
	}
	return e.Shuffle(questions)[:n], nil
}

// SampleEntries returns n distinct entries in random order
func (e *Engine) SampleEntries(entries []models.VocabEntry, n int) ([]models.VocabEntry, error) {
	if n < 0 || n > len(entries) {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidCount, n, len(entries))
	}
	sample := make([]models.VocabEntry, 0, n)
	for _, i := range e.rnd.Perm(len(entries))[:n] {
		sample = append(sample, entries[i])
	}
	return sample, nil
}

// Prepare draws the deck described by opts from table. Random counts are
// clamped to the deck size.
func (e *Engine) Prepare(table *models.VocabTable, opts Options) ([]models.Question, error) {
	switch opts.Mode {
	case ModeInOrder:
		return OrderedQuestions(SelectOrdered(table, opts.Start, opts.End)), nil
	case ModeByClass:
		table = FilterByClass(table, opts.Class)
	case ModeVerbs:
		table = FilterByClass(table, models.Verb)
	case ModeRandom:
	default:
		return nil, fmt.Errorf("unknown quiz mode %d", int(opts.Mode))
	}

	questions := BuildQuestions(table)
	n := opts.Count
	if n > len(questions) {
		n = len(questions)
	}
	if n < 0 {
		n = 0
	}
	return e.SelectRandom(questions, n)
}
