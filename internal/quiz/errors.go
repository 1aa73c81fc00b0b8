package quiz

import "errors"

var (
	ErrRowCountMismatch  = errors.New("number of answers does not match number of questions")
	ErrInvalidCount      = errors.New("invalid question count")
	ErrInvalidTransition = errors.New("invalid quiz session transition")
	ErrNothingToMerge    = errors.New("no correct answers to add to the diary")
)
