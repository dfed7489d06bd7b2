package store

import (
	"context"
	"sync"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

// MemoryStore keeps records in process memory. Data is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.TransactionRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) List(ctx context.Context) ([]models.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyRecords(s.records), nil
}

func (s *MemoryStore) Replace(ctx context.Context, records []models.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = copyRecords(records)
	return nil
}

var _ Store = (*MemoryStore)(nil)
