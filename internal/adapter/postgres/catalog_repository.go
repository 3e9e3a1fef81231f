package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ShakerZed/bjjfanaticsdb/internal/domain"
)

type CatalogRepo struct {
	pool *pgxpool.Pool
}

func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

// ListNames returns all catalog entry names in insertion order.
func (r *CatalogRepo) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT name FROM catalog ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list catalog names: %w", domain.ErrCatalogUnavailable, err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan catalog names: %w", domain.ErrCatalogUnavailable, err)
	}
	return names, nil
}

// Seed inserts the given names, skipping any already present. Insertion order
// of new names follows the slice order, so ListNames keeps a stable ranking
// baseline across reseeds.
func (r *CatalogRepo) Seed(ctx context.Context, names []string) (int, error) {
	inserted := 0
	for _, name := range names {
		tag, err := r.pool.Exec(ctx,
			"INSERT INTO catalog (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name)
		if err != nil {
			return inserted, fmt.Errorf("%w: failed to seed catalog entry %q: %w", domain.ErrStorage, name, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
