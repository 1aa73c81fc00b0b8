package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/example/vocabdiary/pkg/models"
)

// validWord accepts letters including umlauts and ß, hyphens, apostrophes and spaces
var validWord = regexp.MustCompile(`^[A-Za-zÄÖÜäöüß'\- ]+$`)

// ErrExit is returned when the user types "exit" at any prompt
var ErrExit = errors.New("exit requested")

// ValidationError describes input that was rejected. It is handled by
// prompting again and never ends the program.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func isExit(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "exit")
}

// ParseWord validates a word and returns it in composed Unicode form
func ParseWord(s string) (string, error) {
	s = strings.TrimSpace(s)
	if isExit(s) {
		return "", ErrExit
	}
	if s == "" {
		return "", &ValidationError{Input: s, Reason: "Please enter a word."}
	}
	s = models.Normalize(s)
	if !validWord.MatchString(s) {
		return "", &ValidationError{Input: s, Reason: "Please enter only letters, spaces, hyphens, or apostrophes."}
	}
	return s, nil
}

// ParseCount validates a whole number between 1 and max
func ParseCount(s string, max int) (int, error) {
	s = strings.TrimSpace(s)
	if isExit(s) {
		return 0, ErrExit
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || strings.HasPrefix(s, "+") {
		return 0, &ValidationError{Input: s, Reason: "Invalid input. Enter only numbers."}
	}
	if n < 1 || n > max {
		return 0, &ValidationError{Input: s, Reason: fmt.Sprintf("Please enter a valid number between 1 and %d.", max)}
	}
	return n, nil
}

// Input reads validated answers from a line-oriented reader
type Input struct {
	reader *bufio.Reader
	w      io.Writer
}

// NewInput creates an Input reading from r and writing prompts to w
func NewInput(r io.Reader, w io.Writer) *Input {
	return &Input{reader: bufio.NewReader(r), w: w}
}

// Line prints a prompt and reads a single trimmed line. End of input is
// reported as ErrExit.
func (in *Input) Line(prompt string) (string, error) {
	if _, err := fmt.Fprint(in.w, prompt); err != nil {
		return "", err
	}
	line, err := in.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrExit
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Answer reads a free-form quiz answer; only "exit" is interpreted
func (in *Input) Answer(prompt string) (string, error) {
	line, err := in.Line(prompt)
	if err != nil {
		return "", err
	}
	if isExit(line) {
		return "", ErrExit
	}
	return models.Normalize(line), nil
}

// PromptWord asks until a valid word is entered
func (in *Input) PromptWord(prompt string) (string, error) {
	for {
		line, err := in.Line(prompt)
		if err != nil {
			return "", err
		}
		word, err := ParseWord(line)
		if err == nil {
			return word, nil
		}
		if !in.reject(err) {
			return "", err
		}
	}
}

// PromptOptionalWord is PromptWord that accepts an empty line as "keep"
func (in *Input) PromptOptionalWord(prompt string) (string, error) {
	for {
		line, err := in.Line(prompt)
		if err != nil {
			return "", err
		}
		if line == "" {
			return "", nil
		}
		word, err := ParseWord(line)
		if err == nil {
			return word, nil
		}
		if !in.reject(err) {
			return "", err
		}
	}
}

// PromptCount asks until a number between 1 and max is entered
func (in *Input) PromptCount(prompt string, max int) (int, error) {
	for {
		line, err := in.Line(prompt)
		if err != nil {
			return 0, err
		}
		n, err := ParseCount(line, max)
		if err == nil {
			return n, nil
		}
		if !in.reject(err) {
			return 0, err
		}
	}
}

// PromptChoice asks until one of the single-letter options is entered. The
// choice is returned in lower case.
func (in *Input) PromptChoice(prompt string, options ...string) (string, error) {
	for {
		line, err := in.Line(prompt)
		if err != nil {
			return "", err
		}
		choice := strings.ToLower(line)
		for _, o := range options {
			if choice == strings.ToLower(o) {
				return choice, nil
			}
		}
		if isExit(line) {
			return "", ErrExit
		}
		fmt.Fprintf(in.w, "Invalid input. Enter %s.\n", strings.Join(options, ", "))
	}
}

// PromptYesNo asks a Y/N question
func (in *Input) PromptYesNo(prompt string) (bool, error) {
	choice, err := in.PromptChoice(prompt+" (Y/N): ", "y", "n")
	return choice == "y", err
}

// reject prints a validation message and reports whether to ask again
func (in *Input) reject(err error) bool {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	fmt.Fprintln(in.w, verr.Reason)
	return true
}
