package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"quiz-battle-service/internal/catalog"
	"quiz-battle-service/internal/domain"
)

// CatalogStore keeps catalog documents in Postgres. The column is JSON rather
// than JSONB so category order survives the round trip.
type CatalogStore struct {
	pool *pgxpool.Pool
}

func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

func (s *CatalogStore) LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM catalogs WHERE id=$1`, catalogID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Catalog{}, domain.ErrCatalogNotFound
	}
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	c, err := catalog.ParseJSON(raw)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog %q: %w", catalogID, err)
	}
	return c, nil
}

// SaveCatalog validates c and upserts it under catalogID.
func (s *CatalogStore) SaveCatalog(ctx context.Context, catalogID string, c domain.Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := catalog.Encode(c)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO catalogs (id, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		catalogID, string(data))
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

func (s *CatalogStore) ListCatalogs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM catalogs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *CatalogStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
