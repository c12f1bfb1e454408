package storage

import (
	"sync"
	"time"
)

// Memory keeps catalog records in process memory. It backs tests and any
// deployment that does not need the catalog to outlive the process.
type Memory struct {
	mu     sync.Mutex
	nextID uint
	recs   []MapRecord
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

// SaveMap stores a copy of the record and fills in its id.
func (m *Memory) SaveMap(rec *MapRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = m.nextID
	rec.CreatedAt = time.Now()
	m.nextID++
	m.recs = append(m.recs, *rec)
	return nil
}

// ListMaps returns all records, newest first, matching the sqlite order.
func (m *Memory) ListMaps() ([]MapRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MapRecord, len(m.recs))
	for i, rec := range m.recs {
		out[len(m.recs)-1-i] = rec
	}
	return out, nil
}

// GetMap loads one record by id.
func (m *Memory) GetMap(id uint) (*MapRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.recs {
		if m.recs[i].ID == id {
			rec := m.recs[i]
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

// Close does nothing for the in-memory catalog.
func (m *Memory) Close() error {
	return nil
}
