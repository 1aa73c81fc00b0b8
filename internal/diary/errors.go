package diary

import "errors"

var (
	// ErrNotFound is returned when a word is absent from the diary. The diary is left unchanged.
	ErrNotFound = errors.New("word not found in diary")
	// ErrNoBackupAvailable is returned by Undo when no backup was made in this session
	ErrNoBackupAvailable = errors.New("no backup available")
	// ErrNotAVerb is returned by CompleteTenses for a word that is not a verb
	ErrNotAVerb          = errors.New("word is not a verb")
)
