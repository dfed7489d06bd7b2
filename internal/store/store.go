// Package store persists the accumulated transaction records.
//
// A Store is a plain read-then-write register: List returns everything,
// Replace overwrites everything. Callers importing concurrently must
// serialize the List/Merge/Replace cycle themselves.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/insightdelivered/dirham-statement-importer/internal/config"
	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

// Store holds the accumulated records in order.
type Store interface {
	List(ctx context.Context) ([]models.TransactionRecord, error)
	Replace(ctx context.Context, records []models.TransactionRecord) error
}

// Open builds the backend named in cfg.Backend.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		s, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		s, err := NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (supported: memory, file, redis, postgres)", cfg.Backend)
	}
}

func copyRecords(records []models.TransactionRecord) []models.TransactionRecord {
	out := make([]models.TransactionRecord, len(records))
	copy(out, records)
	return out
}
