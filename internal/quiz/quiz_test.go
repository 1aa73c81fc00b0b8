package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabdiary/pkg/models"
)

func sampleTable() *models.VocabTable {
	return &models.VocabTable{
		Name: "verbs",
		Entries: []models.VocabEntry{
			{WordClass: models.Verb, English: "to go", German: "gehen", Tenses: models.NewTenses("ging", "ist gegangen")},
			{WordClass: models.Noun, English: "house", German: "Haus", Tenses: models.NewTenses("x", "y")},
			{WordClass: models.Verb, English: "to see", German: "sehen", Tenses: models.NewTenses("", "hat gesehen")},
			{WordClass: models.Adjective, English: "fast", German: "schnell"},
		},
	}
}

func TestBuildQuestions_FanOut(t *testing.T) {
	questions := BuildQuestions(sampleTable())

	var got []string
	for i, q := range questions {
		assert.Equal(t, i, q.Index)
		got = append(got, q.ID())
	}
	assert.Equal(t, []string{
		"to go/Base", "to go/Past", "to go/Perfect",
		"house/Base",
		"to see/Base", "to see/Perfect",
		"fast/Base",
	}, got)
}

func TestBuildQuestions_GehenYieldsThree(t *testing.T) {
	table := &models.VocabTable{Entries: []models.VocabEntry{
		{WordClass: models.Verb, English: "to go", German: "gehen", Tenses: models.NewTenses("ging", "ist gegangen")},
	}}

	questions := BuildQuestions(table)

	require.Len(t, questions, 3)
	assert.Equal(t, []string{"gehen", "ging", "ist gegangen"},
		[]string{questions[0].Expected, questions[1].Expected, questions[2].Expected})
}

func TestSelectRandom(t *testing.T) {
	engine := NewEngine(42)
	questions := BuildQuestions(sampleTable())

	picked, err := engine.SelectRandom(questions, 4)
	require.NoError(t, err)
	require.Len(t, picked, 4)
	seen := map[string]bool{}
	for i, q := range picked {
		assert.Equal(t, i, q.Index)
		assert.False(t, seen[q.ID()])
		seen[q.ID()] = true
	}

	all, err := engine.SelectRandom(questions, len(questions))
	require.NoError(t, err)
	assert.ElementsMatch(t, ids(questions), ids(all))

	_, err = engine.SelectRandom(questions, len(questions)+1)
	assert.ErrorIs(t, err, ErrInvalidCount)
	_, err = engine.SelectRandom(questions, -1)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestShuffle_DoesNotModifyInput(t *testing.T) {
	questions := BuildQuestions(sampleTable())
	before := ids(questions)

	NewEngine(7).Shuffle(questions)

	assert.Equal(t, before, ids(questions))
}

func TestSampleEntries(t *testing.T) {
	entries := sampleTable().Entries

	sample, err := NewEngine(1).SampleEntries(entries, 2)
	require.NoError(t, err)
	assert.Len(t, sample, 2)
	assert.NotEqual(t, sample[0].English, sample[1].English)

	_, err = NewEngine(1).SampleEntries(entries, 5)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestSelectOrdered(t *testing.T) {
	table := sampleTable()

	tests := []struct {
		name       string
		start, end int
		want       []string
	}{
		{name: "end before start", start: 0, end: -1, want: []string{}},
		{name: "single", start: 1, end: 1, want: []string{"house"}},
		{name: "inclusive range", start: 1, end: 2, want: []string{"house", "to see"}},
		{name: "clamped", start: -3, end: 99, want: []string{"to go", "house", "to see", "fast"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, e := range SelectOrdered(table, tt.start, tt.end) {
				got = append(got, e.English)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrepare(t *testing.T) {
	engine := NewEngine(3)
	table := sampleTable()

	verbs, err := engine.Prepare(table, Options{Mode: ModeVerbs, Count: 100})
	require.NoError(t, err)
	assert.Len(t, verbs, 5)
	for _, q := range verbs {
		assert.Equal(t, models.Verb, q.WordClass)
	}

	nouns, err := engine.Prepare(table, Options{Mode: ModeByClass, Class: models.Noun, Count: 1})
	require.NoError(t, err)
	require.Len(t, nouns, 1)
	assert.Equal(t, "house", nouns[0].English)

	ordered, err := engine.Prepare(table, Options{Mode: ModeInOrder, Start: 2, End: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"to see/Base", "to see/Perfect"}, ids(ordered))

	_, err = engine.Prepare(table, Options{})
	assert.Error(t, err)
}

func TestGradeAnswer(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		want     bool
	}{
		{name: "exact", expected: "gehen", actual: "gehen", want: true},
		{name: "case", expected: "Über", actual: "über", want: true},
		{name: "composed vs decomposed", expected: "\u00fcber", actual: "u\u0308ber", want: true},
		{name: "surrounding space", expected: "Haus", actual: "  haus ", want: true},
		{name: "wrong", expected: "gehen", actual: "ging", want: false},
		{name: "placeholder expected", expected: models.Placeholder, actual: "anything", want: true},
		{name: "blank expected", expected: "", actual: "", want: true},
		{name: "placeholder answer", expected: "ging", actual: models.Placeholder, want: true},
		{name: "blank answer", expected: "ging", actual: "  ", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeAnswer(tt.expected, tt.actual))
		})
	}
}

func TestGradeBatch(t *testing.T) {
	questions := BuildQuestions(sampleTable())[:3]

	res, err := GradeBatch(questions, []string{"Gehen", "gang", "ist gegangen"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 3, res.Total)
	assert.InDelta(t, 66.666, res.Percent, 0.01)
	assert.Equal(t, []string{"to go/Base", "to go/Perfect"}, ids(res.Correct))
	assert.Equal(t, []string{"to go/Past"}, ids(res.Incorrect))

	_, err = GradeBatch(questions, []string{"gehen"})
	assert.ErrorIs(t, err, ErrRowCountMismatch)

	empty, err := GradeBatch(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, empty.Percent)
}

type recordedScore struct {
	percent float64
	total   int
}

type fakeRecorder struct {
	scores []recordedScore
	err    error
}

func (f *fakeRecorder) RecordScore(_ context.Context, percent float64, total int) ([]models.Achievement, error) {
	f.scores = append(f.scores, recordedScore{percent, total})
	if f.err != nil {
		return nil, f.err
	}
	if percent == 100 {
		return []models.Achievement{{Name: "First 100% score!"}}, nil
	}
	return nil, nil
}

func runSession(t *testing.T, s *Session, questions []models.Question, answers ...string) (*Result, error) {
	t.Helper()
	require.NoError(t, s.Generate(questions))
	require.NoError(t, s.Begin())
	for _, a := range answers {
		require.NoError(t, s.Answer(a))
	}
	return s.Grade(context.Background())
}

func TestSession_Lifecycle(t *testing.T) {
	recorder := &fakeRecorder{}
	s := NewSession(recorder)
	questions := BuildQuestions(sampleTable())[:3]
	firstID := s.ID

	res, err := runSession(t, s, questions, "gehen", "ging", "ist gegangen")

	require.NoError(t, err)
	assert.Equal(t, StateGraded, s.State())
	assert.Equal(t, []recordedScore{{100, 3}}, recorder.scores)
	assert.Len(t, s.Unlocked(), 1)
	assert.Equal(t, 3, res.Score)

	assert.ErrorIs(t, s.Generate(questions), ErrInvalidTransition)
	_, err = s.Grade(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Len(t, recorder.scores, 1)

	correct, err := s.OfferDiaryUpdate()
	require.NoError(t, err)
	assert.Len(t, correct, 3)
	assert.Equal(t, StateDiaryUpdateOffered, s.State())

	require.NoError(t, s.Finish())
	assert.Equal(t, StateIdle, s.State())
	assert.NotEqual(t, firstID, s.ID)
	assert.Nil(t, s.Result())
}

func TestSession_ZeroScoreSkipsDiaryUpdate(t *testing.T) {
	recorder := &fakeRecorder{}
	s := NewSession(recorder)

	res, err := runSession(t, s, BuildQuestions(sampleTable())[:2], "x", "y")

	require.NoError(t, err)
	assert.Len(t, res.Incorrect, 2)
	_, err = s.OfferDiaryUpdate()
	assert.ErrorIs(t, err, ErrNothingToMerge)
	assert.Equal(t, StateGraded, s.State())
	assert.Equal(t, []recordedScore{{0, 2}}, recorder.scores)
	require.NoError(t, s.Finish())
}

func TestSession_MismatchAbortsWithoutRecording(t *testing.T) {
	recorder := &fakeRecorder{}
	s := NewSession(recorder)

	_, err := runSession(t, s, BuildQuestions(sampleTable())[:3], "gehen")

	assert.ErrorIs(t, err, ErrRowCountMismatch)
	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, recorder.scores)
}

func TestSession_RecorderFailureStillGrades(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("disk full")}
	s := NewSession(recorder)

	res, err := runSession(t, s, BuildQuestions(sampleTable())[:1], "gehen")

	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, StateGraded, s.State())
	assert.Len(t, recorder.scores, 1)
}

func TestSession_OutOfOrderCalls(t *testing.T) {
	s := NewSession(nil)

	assert.ErrorIs(t, s.Begin(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Answer("x"), ErrInvalidTransition)
	assert.ErrorIs(t, s.Finish(), ErrInvalidTransition)
	_, err := s.OfferDiaryUpdate()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func ids(questions []models.Question) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.ID())
	}
	return out
}
