package session

import (
	"fmt"
	"sync"
)

// InMemoryRepo keeps token records for the life of the process.
type InMemoryRepo struct {
	mu      sync.RWMutex
	records map[string]Record // deviceID -> Record
}

var _ Repo = (*InMemoryRepo)(nil)

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		records: make(map[string]Record),
	}
}

func (r *InMemoryRepo) Upsert(deviceID string, rec Record) error {
	if deviceID == "" {
		return fmt.Errorf("deviceID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[deviceID] = rec
	return nil
}

func (r *InMemoryRepo) Get(deviceID string) (Record, error) {
	if deviceID == "" {
		return Record{}, fmt.Errorf("deviceID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[deviceID]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return rec, nil
}

// Delete removes a record. Deleting a missing record is not an error.
func (r *InMemoryRepo) Delete(deviceID string) error {
	if deviceID == "" {
		return fmt.Errorf("deviceID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, deviceID)
	return nil
}
