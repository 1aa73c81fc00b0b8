// Package diary manages the user's editable vocabulary table.
package diary

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/example/vocabdiary/internal/storage"
	"github.com/example/vocabdiary/internal/tabular"
	"github.com/example/vocabdiary/pkg/models"
)

// Repository owns the diary table. Every mutation is preceded by a backup of
// the diary, taken once per session.
type Repository struct {
	store    storage.Store
	logger   *slog.Logger
	backedUp bool
}

// Update lists the fields to change on an existing word; nil fields are kept
type Update struct {
	German    *string
	WordClass *models.WordClass
	Tenses    *models.Tenses
}

// AddResult reports which keys were appended and which were already present
type AddResult struct {
	Added   []string
	Skipped []string
}

// NewRepository creates a new repository instance
func NewRepository(store storage.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: store, logger: logger}
}

// Load returns the current diary, creating an empty one when none exists
func (r *Repository) Load(ctx context.Context) (*models.VocabTable, error) {
	t, err := r.store.ReadTable(ctx, storage.TableDiary, tabular.VocabColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to load diary: %w", err)
	}
	return &models.VocabTable{
		Name:     storage.TableDiary,
		Editable: true,
		Entries:  tabular.DecodeEntries(t, storage.TableDiary, r.logger),
	}, nil
}

func (r *Repository) save(ctx context.Context, diary *models.VocabTable) error {
	if err := r.store.WriteTable(ctx, storage.TableDiary, tabular.EncodeEntries(diary.Entries)); err != nil {
		return fmt.Errorf("failed to save diary: %w", err)
	}
	return nil
}

// ResetSession starts a new session; the next mutation takes a fresh backup
func (r *Repository) ResetSession() {
	r.backedUp = false
}

// BackupOnce snapshots the diary into the backup table on its first call in a
// session. Later calls are no-ops. It reports whether a backup was taken.
func (r *Repository) BackupOnce(ctx context.Context) (bool, error) {
	if r.backedUp {
		return false, nil
	}
	ok, err := r.store.Exists(ctx, storage.TableDiary)
	if err != nil {
		return false, err
	}
	if !ok {
		if _, err := r.Load(ctx); err != nil {
			return false, err
		}
	}
	if err := r.store.CopyTable(ctx, storage.TableDiary, storage.TableDiaryBackup); err != nil {
		return false, fmt.Errorf("failed to back up diary: %w", err)
	}
	r.backedUp = true
	r.logger.Info("diary backup created")
	return true, nil
}

// MergeCorrectAnswers adds correctly answered questions to the diary. A tense
// answer fills the matching empty slot of an existing verb and never
// overwrites a recorded form. A base answer for an unknown word appends a new
// entry. Base answers are applied first so that tense answers of a new verb
// land on the entry created by the same merge. It returns the number of
// entries and slots changed.
func (r *Repository) MergeCorrectAnswers(ctx context.Context, answers []models.Question) (int, error) {
	if _, err := r.BackupOnce(ctx); err != nil {
		return 0, err
	}
	diary, err := r.Load(ctx)
	if err != nil {
		return 0, err
	}

	ordered := append([]models.Question(nil), answers...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Form == models.FormBase && ordered[j].Form != models.FormBase
	})

	changed := 0
	for _, q := range ordered {
		if models.IsPlaceholder(q.Expected) {
			continue
		}
		answer := models.Normalize(q.Expected)
		idx := diary.Find(q.English)

		if idx < 0 {
			if q.Form != models.FormBase {
				continue
			}
			diary.Entries = append(diary.Entries, models.VocabEntry{
				WordClass: q.WordClass,
				English:   models.Key(q.English),
				German:    answer,
			})
			changed++
			continue
		}

		entry := &diary.Entries[idx]
		if !entry.IsVerb() {
			continue
		}
		switch q.Form {
		case models.FormPast:
			if !entry.Tenses.HasPast() {
				entry.Tenses.Past = &answer
				changed++
			}
		case models.FormPerfect:
			if !entry.Tenses.HasPerfect() {
				entry.Tenses.Perfect = &answer
				changed++
			}
		}
	}

	if changed == 0 {
		r.logger.Info("no new words or tenses to merge")
		return 0, nil
	}
	if err := r.save(ctx, diary); err != nil {
		return 0, err
	}
	r.logger.Info("diary merged", "changed", changed)
	return changed, nil
}

// AddWords appends new entries. Entries whose key is already present, in the
// diary or earlier in the same batch, are skipped.
func (r *Repository) AddWords(ctx context.Context, entries []models.VocabEntry) (AddResult, error) {
	var res AddResult
	if _, err := r.BackupOnce(ctx); err != nil {
		return res, err
	}
	diary, err := r.Load(ctx)
	if err != nil {
		return res, err
	}

	for _, e := range entries {
		e.English = models.Key(e.English)
		e.German = models.Normalize(e.German)
		if diary.Find(e.English) >= 0 {
			res.Skipped = append(res.Skipped, e.English)
			continue
		}
		if !e.IsVerb() {
			e.Tenses = models.Tenses{}
		}
		diary.Entries = append(diary.Entries, e)
		res.Added = append(res.Added, e.English)
	}

	if len(res.Added) == 0 {
		return res, nil
	}
	if err := r.save(ctx, diary); err != nil {
		return AddResult{}, err
	}
	r.logger.Info("words added to diary", "added", len(res.Added), "skipped", len(res.Skipped))
	return res, nil
}

// CompleteTenses fills the missing tense slots of an existing verb. Recorded
// forms are kept. It returns the number of slots filled.
func (r *Repository) CompleteTenses(ctx context.Context, english, past, perfect string) (int, error) {
	if _, err := r.BackupOnce(ctx); err != nil {
		return 0, err
	}
	diary, err := r.Load(ctx)
	if err != nil {
		return 0, err
	}
	idx := diary.Find(english)
	if idx < 0 {
		return 0, r.notFound(english)
	}
	entry := &diary.Entries[idx]
	if !entry.IsVerb() {
		return 0, fmt.Errorf("%q: %w", english, ErrNotAVerb)
	}

	given := models.NewTenses(past, perfect)
	filled := 0
	if !entry.Tenses.HasPast() && given.HasPast() {
		entry.Tenses.Past = given.Past
		filled++
	}
	if !entry.Tenses.HasPerfect() && given.HasPerfect() {
		entry.Tenses.Perfect = given.Perfect
		filled++
	}
	if filled == 0 {
		return 0, nil
	}
	if err := r.save(ctx, diary); err != nil {
		return 0, err
	}
	r.logger.Info("verb tenses completed", "english", entry.English, "filled", filled)
	return filled, nil
}

// DeleteWord removes a word from the diary
func (r *Repository) DeleteWord(ctx context.Context, english string) error {
	if _, err := r.BackupOnce(ctx); err != nil {
		return err
	}
	diary, err := r.Load(ctx)
	if err != nil {
		return err
	}
	idx := diary.Find(english)
	if idx < 0 {
		return r.notFound(english)
	}
	diary.Entries = append(diary.Entries[:idx], diary.Entries[idx+1:]...)
	if err := r.save(ctx, diary); err != nil {
		return err
	}
	r.logger.Info("word deleted from diary", "english", models.Key(english))
	return nil
}

// UpdateWord changes the translation, word class or tenses of a word
func (r *Repository) UpdateWord(ctx context.Context, english string, u Update) error {
	if _, err := r.BackupOnce(ctx); err != nil {
		return err
	}
	diary, err := r.Load(ctx)
	if err != nil {
		return err
	}
	idx := diary.Find(english)
	if idx < 0 {
		return r.notFound(english)
	}

	entry := &diary.Entries[idx]
	if u.German != nil && !models.IsPlaceholder(*u.German) {
		entry.German = models.Normalize(*u.German)
	}
	if u.WordClass != nil {
		entry.WordClass = *u.WordClass
	}
	if u.Tenses != nil {
		entry.Tenses = *u.Tenses
	}
	if !entry.IsVerb() {
		entry.Tenses = models.Tenses{}
	}
	if err := r.save(ctx, diary); err != nil {
		return err
	}
	r.logger.Info("word updated in diary", "english", entry.English)
	return nil
}

// Undo restores the diary from the backup taken in this session
func (r *Repository) Undo(ctx context.Context) error {
	if !r.backedUp {
		return ErrNoBackupAvailable
	}
	ok, err := r.store.Exists(ctx, storage.TableDiaryBackup)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoBackupAvailable
	}
	if err := r.store.CopyTable(ctx, storage.TableDiaryBackup, storage.TableDiary); err != nil {
		return fmt.Errorf("failed to restore diary: %w", err)
	}
	r.logger.Info("diary restored from backup")
	return nil
}

func (r *Repository) notFound(english string) error {
	r.logger.Warn("word not found in diary", "english", english)
	return fmt.Errorf("%q: %w", english, ErrNotFound)
}
