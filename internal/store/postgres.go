package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/hariprasanth02/2203031240132/internal/shortener"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS short_links (
		seq         BIGSERIAL,
		code        VARCHAR(15) PRIMARY KEY,
		destination TEXT        NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		expires_at  TIMESTAMPTZ NOT NULL,
		hits        BIGINT      NOT NULL DEFAULT 0,
		CHECK (expires_at > created_at),
		CHECK (hits >= 0)
	)
`

// PostgresStore is a PostgreSQL implementation of shortener.Registry.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed registry.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the short_links table if it does not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	return nil
}

func (p *PostgresStore) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM short_links WHERE code = $1)`,
		string(code),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres exists: %w", err)
	}

	return exists, nil
}

func (p *PostgresStore) Insert(ctx context.Context, shortURL *shortener.ShortURL) error {
	query := `
		INSERT INTO short_links (code, destination, created_at, expires_at, hits)
		VALUES ($1, $2, $3, $4, 0)
		ON CONFLICT (code) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		string(shortURL.Code),
		shortURL.Destination,
		shortURL.CreatedAt,
		shortURL.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("postgres insert: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrDuplicateCode
	}

	return nil
}

func (p *PostgresStore) Get(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	query := `
		SELECT code, destination, created_at, expires_at, hits
		FROM short_links
		WHERE code = $1
	`

	shortURL, err := scanRecord(p.pool.QueryRow(ctx, query, string(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, fmt.Errorf("postgres get: %w", err)
	}

	return shortURL, nil
}

func (p *PostgresStore) IncrementHits(ctx context.Context, code shortener.Code) (int64, error) {
	var hits int64

	err := p.pool.QueryRow(ctx,
		`UPDATE short_links SET hits = hits + 1 WHERE code = $1 RETURNING hits`,
		string(code),
	).Scan(&hits)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shortener.ErrNotFound
		}

		return 0, fmt.Errorf("postgres increment: %w", err)
	}

	return hits, nil
}

func (p *PostgresStore) List(ctx context.Context) ([]shortener.ShortURL, error) {
	query := `
		SELECT code, destination, created_at, expires_at, hits
		FROM short_links
		ORDER BY seq
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres list: %w", err)
	}
	defer rows.Close()

	links := []shortener.ShortURL{}

	for rows.Next() {
		shortURL, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres list: %w", err)
		}

		links = append(links, *shortURL)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres list: %w", err)
	}

	return links, nil
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func scanRecord(row pgx.Row) (*shortener.ShortURL, error) {
	var (
		shortURL shortener.ShortURL
		code     string
	)

	if err := row.Scan(
		&code,
		&shortURL.Destination,
		&shortURL.CreatedAt,
		&shortURL.ExpiresAt,
		&shortURL.Hits,
	); err != nil {
		return nil, err
	}

	shortURL.Code = shortener.Code(code)

	return &shortURL, nil
}

// Compile-time check.
var _ shortener.Registry = (*PostgresStore)(nil)
