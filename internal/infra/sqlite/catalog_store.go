package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"quiz-battle-service/internal/catalog"
	"quiz-battle-service/internal/domain"
)

// CatalogStore keeps catalog documents in a local SQLite file.
type CatalogStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewCatalogStore(path string) (*CatalogStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "catalogs.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &CatalogStore{db: db, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *CatalogStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS catalogs (
			catalog_id TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			category_count INTEGER NOT NULL,
			updated_at_unix INTEGER NOT NULL
		);`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *CatalogStore) LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	var document string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM catalogs WHERE catalog_id = ?`, catalogID).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Catalog{}, domain.ErrCatalogNotFound
	}
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	c, err := catalog.ParseJSON([]byte(document))
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog %q: %w", catalogID, err)
	}
	return c, nil
}

// SaveCatalog validates c and replaces any stored document with the same ID.
func (s *CatalogStore) SaveCatalog(ctx context.Context, catalogID string, c domain.Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := catalog.Encode(c)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO catalogs (catalog_id, document, category_count, updated_at_unix)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(catalog_id) DO UPDATE SET
			document = excluded.document,
			category_count = excluded.category_count,
			updated_at_unix = excluded.updated_at_unix`,
		catalogID, string(data), len(c.Categories), s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

func (s *CatalogStore) ListCatalogs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT catalog_id FROM catalogs ORDER BY catalog_id`)
	if err != nil {
		return nil, err
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
	return s.db.PingContext(ctx)
}

func (s *CatalogStore) Close() error {
	return s.db.Close()
}
