package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triagem/triage-console/internal/domain"
)

const maxMemoryAuditEntries = 1000

// AuditRepository is the append-only triage journal.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository returns the Postgres journal, or an in-memory ring
// when pool is nil.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	if pool == nil {
		return NewMemoryAuditRepository()
	}
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	detail, err := json.Marshal(entry.Detail)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO triage_audit (id, event_type, session_id, mode, outcome, detail)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.EventType,
		entry.SessionID,
		string(entry.Mode),
		entry.Outcome,
		detail,
	).Scan(&entry.CreatedAt)
}

func (r *auditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, event_type, session_id, mode, outcome, detail, created_at
        FROM triage_audit ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.AuditEntry, 0, limit)
	for rows.Next() {
		var (
			e      domain.AuditEntry
			mode   string
			detail []byte
		)
		if err := rows.Scan(&e.ID, &e.EventType, &e.SessionID, &mode, &e.Outcome, &detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Mode = domain.TriageMode(mode)
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &e.Detail); err != nil {
				return nil, err
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type memoryAuditRepository struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

// NewMemoryAuditRepository keeps the most recent entries in memory.
func NewMemoryAuditRepository() AuditRepository {
	return &memoryAuditRepository{}
}

func (r *memoryAuditRepository) Append(_ context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	if len(r.entries) > maxMemoryAuditEntries {
		r.entries = r.entries[len(r.entries)-maxMemoryAuditEntries:]
	}
	return nil
}

func (r *memoryAuditRepository) ListRecent(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]domain.AuditEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
