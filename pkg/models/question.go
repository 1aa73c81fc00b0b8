package models

import "strings"

// Form is the verb form a question asks for
type Form string

const (
	FormBase    Form = "Base"
	FormPast    Form = "Past"
	FormPerfect Form = "Perfect"
)

// Placeholder marks a slot for which no answer is expected
const Placeholder = "–"

// IsPlaceholder reports whether s is blank or a "no answer expected" marker
func IsPlaceholder(s string) bool {
	switch strings.TrimSpace(s) {
	case "", Placeholder, "-":
		return true
	}
	return false
}

// Question is a single prompt derived from a vocabulary entry. It is never persisted.
type Question struct {
	Index     int       `json:"index"` // Position in the generated deck
	English   string    `json:"english"`
	WordClass WordClass `json:"word_class"`
	Form      Form      `json:"form"`
	Expected  string    `json:"expected"`
}

// ID identifies the question independently of its position
func (q Question) ID() string {
	return Key(q.English) + "/" + string(q.Form)
}
