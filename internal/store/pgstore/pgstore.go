// Package pgstore persists transactions in PostgreSQL through pgx.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

const columns = `id::text, owner_id, title, amount, type, date, category, description, created_at, updated_at`

type Store struct {
	Pool    *pgxpool.Pool
	Timeout time.Duration
}

// Connect opens a pool against dsn and pings it.
func Connect(ctx context.Context, dsn string, timeout time.Duration) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConnIdleTime = 2 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{Pool: pool, Timeout: timeout}, nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

func (s *Store) Close() { s.Pool.Close() }

func (s *Store) Insert(ctx context.Context, t transactions.Transaction) (transactions.Transaction, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, `
INSERT INTO transactions (id, owner_id, title, amount, type, date, category, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+columns,
		uuid.NewString(), t.OwnerID, t.Title, t.Amount, string(t.Type), t.Date, t.Category, t.Description, t.CreatedAt, t.UpdatedAt,
	)
	return scan(row)
}

func (s *Store) FindByOwner(ctx context.Context, ownerID string) ([]transactions.Transaction, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `
SELECT `+columns+`
FROM transactions
WHERE owner_id = $1
ORDER BY date DESC, seq DESC
`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]transactions.Transaction, 0)
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) FindByID(ctx context.Context, id string) (transactions.Transaction, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return transactions.Transaction{}, transactions.ErrNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, `SELECT `+columns+` FROM transactions WHERE id = $1`, uid.String())
	return notFound(scan(row))
}

func (s *Store) Update(ctx context.Context, id, ownerID string, p transactions.Patch, updatedAt time.Time) (transactions.Transaction, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return transactions.Transaction{}, transactions.ErrNotFound
	}

	sets := []string{"updated_at = $3"}
	args := []any{uid.String(), ownerID, updatedAt}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Amount != nil {
		add("amount", *p.Amount)
	}
	if p.Type != nil {
		add("type", string(*p.Type))
	}
	if p.Date != nil {
		add("date", *p.Date)
	}
	if p.Category != nil {
		add("category", strings.TrimSpace(*p.Category))
	}
	if p.Description != nil {
		add("description", *p.Description)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, `
UPDATE transactions
SET `+strings.Join(sets, ", ")+`
WHERE id = $1 AND owner_id = $2
RETURNING `+columns, args...)
	return notFound(scan(row))
}

func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return transactions.ErrNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ct, err := s.Pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND owner_id = $2`, uid.String(), ownerID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return transactions.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.Pool.Ping(ctx)
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}

func scan(row pgx.Row) (transactions.Transaction, error) {
	var t transactions.Transaction
	var typ string
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Amount, &typ, &t.Date, &t.Category, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return transactions.Transaction{}, err
	}
	t.Type = transactions.Type(typ)
	t.Date = t.Date.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func notFound(t transactions.Transaction, err error) (transactions.Transaction, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return transactions.Transaction{}, transactions.ErrNotFound
	}
	return t, err
}
