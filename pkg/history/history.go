// Package history records completed export jobs.
//
// Each successful or failed export becomes a [Record] identified by a UUID.
// The [Store] interface has two implementations: [MemoryStore] for the CLI
// and tests, and [MongoStore] for the hosted service. Records carry the
// result metadata but never the encoded buffer; artifacts live in the cache.
package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/draftforge/draftforge/pkg/errors"
	"github.com/draftforge/draftforge/pkg/export"
)

// DefaultLimit caps List results when the caller passes a non-positive limit.
const DefaultLimit = 50

// Record is one completed export job.
type Record struct {
	ID         string          `json:"id" bson:"_id"`
	Format     string          `json:"format" bson:"format"`
	Source     string          `json:"source" bson:"source"`
	Success    bool            `json:"success" bson:"success"`
	Error      string          `json:"error,omitempty" bson:"error,omitempty"`
	FileSize   int             `json:"file_size" bson:"file_size"`
	ExportTime time.Duration   `json:"export_time" bson:"export_time"`
	Metadata   export.Metadata `json:"metadata" bson:"metadata"`
	Warnings   []string        `json:"warnings,omitempty" bson:"warnings,omitempty"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at"`
}

// NewRecord builds a record from an export result. source names the input
// flavor ("model" or "drawings").
func NewRecord(source string, res *export.Result) Record {
	return Record{
		ID:         uuid.NewString(),
		Format:     res.Format,
		Source:     source,
		Success:    res.Success,
		FileSize:   res.FileSize,
		ExportTime: res.ExportTime,
		Metadata:   res.Metadata,
		Warnings:   res.Warnings,
		CreatedAt:  time.Now().UTC(),
	}
}

// NewFailureRecord builds a record for a failed export.
func NewFailureRecord(source, format string, err error) Record {
	return Record{
		ID:        uuid.NewString(),
		Format:    format,
		Source:    source,
		Success:   false,
		Error:     err.Error(),
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists export records.
type Store interface {
	// Put stores a record. The record ID must be unique.
	Put(ctx context.Context, rec Record) error

	// Get retrieves one record by ID.
	Get(ctx context.Context, id string) (Record, error)

	// List returns records newest first, at most limit entries.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases store resources.
	Close(ctx context.Context) error
}

// MemoryStore is an in-process store. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Put stores a record.
func (s *MemoryStore) Put(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

// Get retrieves one record by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, errors.New(errors.ErrCodeNotFound, "export record %s not found", id)
	}
	return rec, nil
}

// List returns records newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }
