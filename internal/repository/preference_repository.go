package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triagem/triage-console/internal/domain"
)

// PreferenceRepository persists the operator's display preference.
// Get returns pgx.ErrNoRows when nothing has been stored.
type PreferenceRepository interface {
	Get(ctx context.Context, operatorID string) (*domain.DisplayPreference, error)
	Save(ctx context.Context, operatorID string, pref *domain.DisplayPreference) error
}

type preferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPreferenceRepository returns the Postgres implementation, or the
// in-memory one when pool is nil.
func NewPreferenceRepository(pool *pgxpool.Pool) PreferenceRepository {
	if pool == nil {
		return NewMemoryPreferenceRepository()
	}
	return &preferenceRepository{pool: pool}
}

func (r *preferenceRepository) Get(ctx context.Context, operatorID string) (*domain.DisplayPreference, error) {
	const query = `SELECT theme, locale, updated_at FROM display_preferences WHERE operator_id=$1`
	var pref domain.DisplayPreference
	if err := r.pool.QueryRow(ctx, query, operatorID).Scan(&pref.Theme, &pref.Locale, &pref.UpdatedAt); err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *preferenceRepository) Save(ctx context.Context, operatorID string, pref *domain.DisplayPreference) error {
	const query = `
        INSERT INTO display_preferences (operator_id, theme, locale, updated_at)
        VALUES ($1,$2,$3,NOW())
        ON CONFLICT (operator_id) DO UPDATE SET theme=EXCLUDED.theme, locale=EXCLUDED.locale, updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, operatorID, pref.Theme, pref.Locale).Scan(&pref.UpdatedAt)
}

type memoryPreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[string]domain.DisplayPreference
}

// NewMemoryPreferenceRepository keeps preferences for the life of the process.
func NewMemoryPreferenceRepository() PreferenceRepository {
	return &memoryPreferenceRepository{prefs: make(map[string]domain.DisplayPreference)}
}

func (r *memoryPreferenceRepository) Get(_ context.Context, operatorID string) (*domain.DisplayPreference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pref, ok := r.prefs[operatorID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &pref, nil
}

func (r *memoryPreferenceRepository) Save(_ context.Context, operatorID string, pref *domain.DisplayPreference) error {
	if pref == nil {
		return errors.New("nil preference")
	}
	pref.UpdatedAt = time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[operatorID] = *pref
	return nil
}
