package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS statement_transactions (
	position       INTEGER PRIMARY KEY,
	code           TEXT,
	operation_date DATE NOT NULL,
	value_date     DATE NOT NULL,
	description    TEXT NOT NULL,
	amount         NUMERIC(14, 2) NOT NULL,
	direction      TEXT NOT NULL,
	category       TEXT
)`

// PostgresStore keeps one row per record, ordered by position.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects and creates the table if it is missing.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres store: connect: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.TransactionRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT code, to_char(operation_date, 'YYYY-MM-DD'), to_char(value_date, 'YYYY-MM-DD'),
		       description, amount::text, direction, category
		FROM statement_transactions
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("postgres store: query: %w", err)
	}
	defer rows.Close()

	records := []models.TransactionRecord{}
	for rows.Next() {
		var (
			r        models.TransactionRecord
			code     pgtype.Text
			category pgtype.Text
			amount   string
			dir      string
		)
		if err := rows.Scan(&code, &r.OperationDate, &r.ValueDate, &r.Description, &amount, &dir, &category); err != nil {
			return nil, fmt.Errorf("postgres store: scan: %w", err)
		}
		if code.Valid {
			c := code.String
			r.Code = &c
		}
		r.Direction = models.Direction(dir)
		r.Category = category.String
		if r.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("postgres store: amount %q: %w", amount, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres store: rows: %w", err)
	}
	return records, nil
}

// Replace swaps the whole table content inside one transaction.
func (s *PostgresStore) Replace(ctx context.Context, records []models.TransactionRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres store: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM statement_transactions`); err != nil {
		return fmt.Errorf("postgres store: clear: %w", err)
	}

	batch := &pgx.Batch{}
	for i, r := range records {
		batch.Queue(`
			INSERT INTO statement_transactions
				(position, code, operation_date, value_date, description, amount, direction, category)
			VALUES ($1, $2, $3::date, $4::date, $5, $6::numeric, $7, $8)`,
			i, pgtype.Text{String: deref(r.Code), Valid: r.Code != nil}, r.OperationDate, r.ValueDate,
			r.Description, r.Amount.StringFixed(2), string(r.Direction),
			pgtype.Text{String: r.Category, Valid: r.Category != ""})
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres store: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres store: commit: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ Store = (*PostgresStore)(nil)
