// Package storage persists the named tables of the vocabulary game.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/example/vocabdiary/internal/tabular"
	"github.com/example/vocabdiary/pkg/models"
)

// Fixed table names
const (
	TableDiary        = "diary"
	TableDiaryBackup  = "diary_backup"
	TableScoreHistory = "score_history"
	TableAchievements = "achievements"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrReadOnly      = errors.New("table is read-only")
	ErrInvalidName   = errors.New("invalid table name")
)

// Source describes a vocabulary table available for learning and testing
type Source struct {
	Name     string
	Editable bool
}

// Store reads and writes whole tables by name. A table that does not exist is
// created with the requested columns on first read.
type Store interface {
	ReadTable(ctx context.Context, name string, columns []string) (*tabular.Table, error)
	WriteTable(ctx context.Context, name string, t *tabular.Table) error
	CopyTable(ctx context.Context, src, dst string) error
	Exists(ctx context.Context, name string) (bool, error)
	ListSources(ctx context.Context) ([]Source, error)
}

// IsInternal reports whether the table holds game state rather than vocabulary
func IsInternal(name string) bool {
	switch name {
	case TableDiaryBackup, TableScoreHistory, TableAchievements:
		return true
	}
	return false
}

// SourcesFromNames builds the source list for the given table names: internal
// tables are hidden, the diary comes first and is the only editable source.
func SourcesFromNames(names []string) []Source {
	sources := make([]Source, 0, len(names))
	for _, n := range names {
		if IsInternal(n) {
			continue
		}
		sources = append(sources, Source{Name: n, Editable: n == TableDiary})
	}
	sort.SliceStable(sources, func(i, j int) bool {
		if sources[i].Editable != sources[j].Editable {
			return sources[i].Editable
		}
		return sources[i].Name < sources[j].Name
	})
	return sources
}

// FindSource looks a source up by name, ignoring case
func FindSource(sources []Source, name string) (Source, bool) {
	for _, s := range sources {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Source{}, false
}

// LoadVocab reads and decodes a vocabulary source. Rows that cannot be
// decoded are logged and left out.
func LoadVocab(ctx context.Context, store Store, src Source, logger *slog.Logger) (*models.VocabTable, error) {
	t, err := store.ReadTable(ctx, src.Name, tabular.VocabColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", src.Name, err)
	}
	return &models.VocabTable{
		Name:     src.Name,
		Editable: src.Editable,
		Entries:  tabular.DecodeEntries(t, src.Name, logger),
	}, nil
}
