package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neexbeast/trip-itinerary/internal/catalog"
)

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository stores catalog entries in the destination_catalog table, one
// JSONB document per destination. It implements catalog.Source.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

// Load reads every catalog entry. An empty table yields an empty map.
func (r *Repository) Load(ctx context.Context) (map[string]catalog.Entry, error) {
	const q = `
		SELECT name, entry
		FROM destination_catalog
		ORDER BY name
	`

	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying destination catalog: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]catalog.Entry)
	for rows.Next() {
		var name string
		var entryJSON []byte

		if err := rows.Scan(&name, &entryJSON); err != nil {
			return nil, fmt.Errorf("scanning catalog row: %w", err)
		}

		var e catalog.Entry
		if err := json.Unmarshal(entryJSON, &e); err != nil {
			return nil, fmt.Errorf("unmarshaling catalog entry %s: %w", name, err)
		}
		entries[name] = e
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog rows: %w", err)
	}

	return entries, nil
}

// UpsertEntry inserts or replaces the entry for name.
func (r *Repository) UpsertEntry(ctx context.Context, name string, e catalog.Entry) error {
	entryJSON, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling catalog entry %s: %w", name, err)
	}

	const q = `
		INSERT INTO destination_catalog (name, entry, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE
		SET entry      = EXCLUDED.entry,
		    updated_at = EXCLUDED.updated_at
	`

	if _, err := r.q.Exec(ctx, q, name, entryJSON); err != nil {
		return fmt.Errorf("upserting catalog entry %s: %w", name, err)
	}

	return nil
}

// SaveCatalog upserts every entry in name order, stopping at the first error.
func (r *Repository) SaveCatalog(ctx context.Context, entries map[string]catalog.Entry) error {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.UpsertEntry(ctx, name, entries[name]); err != nil {
			return err
		}
	}
	return nil
}
