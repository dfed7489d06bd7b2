package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

// FileStore keeps records as one JSON document on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileDocument struct {
	Records []models.TransactionRecord `json:"records"`
}

// NewFileStore uses path, creating its directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("file store: create directory for %s: %w", path, err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) List(ctx context.Context) ([]models.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.TransactionRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file store: read %s: %w", s.path, err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("file store: decode %s: %w", s.path, err)
	}
	if doc.Records == nil {
		doc.Records = []models.TransactionRecord{}
	}
	return doc.Records, nil
}

// Replace writes to a temporary file and renames it over the old one.
func (s *FileStore) Replace(ctx context.Context, records []models.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(fileDocument{Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".records-*.json")
	if err != nil {
		return fmt.Errorf("file store: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("file store: replace %s: %w", s.path, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
