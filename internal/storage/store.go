// ABOUTME: Weather history record store over a raw-bytes backend
// ABOUTME: Every mutation is a whole-collection read-modify-write of one slot

package storage

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/harper/wxhistory/internal/models"
)

// DefaultSlot is the slot name holding the serialized record collection.
const DefaultSlot = "weather_history"

// maxIDAttempts bounds regeneration when a new ID collides with a stored one.
const maxIDAttempts = 8

// IDGenerator produces candidate record IDs.
type IDGenerator func() string

// Store persists weather history records in a single backend slot.
// The mutex serializes operations within one process only; there is no
// cross-process coordination.
type Store struct {
	mu      sync.Mutex
	backend Backend
	slot    string
	newID   IDGenerator
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSlot overrides the slot name.
func WithSlot(slot string) Option {
	return func(s *Store) {
		if slot != "" {
			s.slot = slot
		}
	}
}

// WithIDGenerator overrides the random UUID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store on top of backend.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		slot:    DefaultSlot,
		newID:   uuid.NewString,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Slot returns the slot name this store persists into.
func (s *Store) Slot() string {
	return s.slot
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) load() ([]*models.HistoryRecord, error) {
	data, err := s.backend.Read(s.slot)
	if err != nil {
		return nil, &StorageError{Op: "read", Slot: s.slot, Err: err}
	}
	records, err := models.UnmarshalRecords(data)
	if err != nil {
		return nil, &StorageError{Op: "decode", Slot: s.slot, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}
	return records, nil
}

func (s *Store) save(records []*models.HistoryRecord) error {
	data, err := models.MarshalRecords(records, "")
	if err != nil {
		return &StorageError{Op: "encode", Slot: s.slot, Err: err}
	}
	if err := s.backend.Write(s.slot, data); err != nil {
		return &StorageError{Op: "write", Slot: s.slot, Err: err}
	}
	s.logger.Debug("persisted collection", "slot", s.slot, "records", len(records), "bytes", len(data))
	return nil
}

// uniqueID draws IDs until one is non-empty and unused.
func (s *Store) uniqueID(taken map[string]struct{}) (string, error) {
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, dup := taken[id]; !dup {
			return id, nil
		}
		s.logger.Warn("generated id collided with existing record", "id", id, "attempt", attempt)
	}
	return "", ErrIDExhausted
}

func idSet(records []*models.HistoryRecord) map[string]struct{} {
	ids := make(map[string]struct{}, len(records))
	for _, rec := range records {
		ids[rec.ID] = struct{}{}
	}
	return ids
}

// Create assigns a fresh ID, appends the record and persists the collection.
func (s *Store) Create(in models.RecordInput) (*models.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	id, err := s.uniqueID(idSet(records))
	if err != nil {
		return nil, err
	}

	rec := models.NewRecord(id, in)
	records = append(records, rec)
	if err := s.save(records); err != nil {
		return nil, err
	}

	s.logger.Debug("created record", "id", id, "location", rec.Location)
	return rec, nil
}

// GetAll returns records matching filter, most recent search first.
// A nil filter returns every record. The result is never nil.
func (s *Store) GetAll(filter *models.Filter) ([]*models.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	out := ApplyFilter(filter, records)
	SortBySearchDateDesc(out)
	return out, nil
}

// GetByID returns the record with the given ID or ErrNotFound.
func (s *Store) GetByID(id string) (*models.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// Update merges patch onto the stored record and persists the collection.
// Storage is not touched when the ID does not exist.
func (s *Store) Update(id string, patch models.RecordPatch) (*models.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	for i, rec := range records {
		if rec.ID != id {
			continue
		}
		updated := rec.Apply(patch)
		records[i] = updated
		if err := s.save(records); err != nil {
			return nil, err
		}
		s.logger.Debug("updated record", "id", id)
		return updated, nil
	}
	return nil, ErrNotFound
}

// Delete removes the record with the given ID and reports whether one was removed.
// The collection is only persisted when a removal happened.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return false, err
	}

	kept := make([]*models.HistoryRecord, 0, len(records))
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}

	if err := s.save(kept); err != nil {
		return false, err
	}
	s.logger.Debug("deleted record", "id", id)
	return true, nil
}

// ClearAll replaces the collection with an empty one.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save([]*models.HistoryRecord{})
}

// Count returns the number of stored records.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Import restores records, keeping their IDs. With replace the collection is
// swapped wholesale; otherwise records whose ID already exists are skipped.
// Records without an ID get a fresh one. Returns the number of records added.
func (s *Store) Import(records []*models.HistoryRecord, replace bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current []*models.HistoryRecord
	if !replace {
		var err error
		current, err = s.load()
		if err != nil {
			return 0, err
		}
	}

	taken := idSet(current)
	added := 0
	for _, rec := range records {
		if rec == nil {
			continue
		}
		cp := *rec
		if cp.ID == "" {
			id, err := s.uniqueID(taken)
			if err != nil {
				return 0, err
			}
			cp.ID = id
		}
		if _, dup := taken[cp.ID]; dup {
			continue
		}
		taken[cp.ID] = struct{}{}
		current = append(current, &cp)
		added++
	}

	if current == nil {
		current = []*models.HistoryRecord{}
	}
	if err := s.save(current); err != nil {
		return 0, err
	}
	s.logger.Debug("imported records", "added", added, "replace", replace)
	return added, nil
}
