package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis"

	"github.com/insightdelivered/dirham-statement-importer/internal/logger"
	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

const defaultRedisKey = "dirham:transactions"

// RedisOptions configures RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisStore keeps the record list as one JSON value under a single key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.Key == "" {
		opts.Key = defaultRedisKey
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.WithContext(ctx).Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis store: ping %s: %w", opts.Addr, err)
	}
	return &RedisStore{client: client, key: opts.Key}, nil
}

func (s *RedisStore) List(ctx context.Context) ([]models.TransactionRecord, error) {
	val, err := s.client.WithContext(ctx).Get(s.key).Result()
	if err == redis.Nil {
		return []models.TransactionRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis store: get %s: %w", s.key, err)
	}

	var records []models.TransactionRecord
	if err := json.Unmarshal([]byte(val), &records); err != nil {
		return nil, fmt.Errorf("redis store: decode %s: %w", s.key, err)
	}
	if records == nil {
		records = []models.TransactionRecord{}
	}
	return records, nil
}

func (s *RedisStore) Replace(ctx context.Context, records []models.TransactionRecord) error {
	if records == nil {
		records = []models.TransactionRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("redis store: encode: %w", err)
	}

	logger.FromContext(ctx).Debug().Str("key", s.key).Int("records", len(records)).Msg("replacing records in redis")
	if err := s.client.WithContext(ctx).Set(s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis store: set %s: %w", s.key, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
