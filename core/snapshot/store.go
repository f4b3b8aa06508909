package snapshot

import (
	"strings"
	"sync/atomic"
	"time"

	deverrors "device-sync/core/errors"
	"device-sync/core/model"
)

// Entry holds the desired state of one category.
type Entry struct {
	Records []model.Device
	// Limit is the desired sizing limit. HasLimit is false when the limit table
	// has no value for the category's key.
	Limit    model.SizingLimit
	HasLimit bool
}

// Snapshot is one load cycle's desired state. It is never modified after it is
// published; a reload publishes a new Snapshot with a higher Version.
type Snapshot struct {
	Version  int64
	LoadedAt time.Time
	entries  map[string]*Entry
	limits   map[string]int
}

// Entry returns the entry of a category, compared case-insensitively.
func (s *Snapshot) Entry(category string) (*Entry, bool) {
	e, ok := s.entries[strings.ToLower(category)]
	return e, ok
}

// Limits returns a copy of the full limit table.
func (s *Snapshot) Limits() map[string]int {
	out := make(map[string]int, len(s.limits))
	for k, v := range s.limits {
		out[k] = v
	}
	return out
}

// Store holds the current Snapshot and swaps it atomically on reload.
type Store struct {
	current atomic.Pointer[Snapshot]
	version atomic.Int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Publish builds a new Snapshot from the given entries and limit table and makes
// it current.
func (s *Store) Publish(entries map[string]*Entry, limits map[string]int) *Snapshot {
	snap := &Snapshot{
		Version:  s.version.Add(1),
		LoadedAt: time.Now(),
		entries:  make(map[string]*Entry, len(entries)),
		limits:   make(map[string]int, len(limits)),
	}
	for name, e := range entries {
		snap.entries[strings.ToLower(name)] = e
	}
	for k, v := range limits {
		snap.limits[k] = v
	}
	s.current.Store(snap)
	return snap
}

// Current returns the current Snapshot, or nil before the first load.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// GetDesiredRecords returns the desired records of a category in sheet order.
func (s *Store) GetDesiredRecords(category string) ([]model.Device, error) {
	e, err := s.entry(category)
	if err != nil {
		return nil, err
	}
	return e.Records, nil
}

// GetSizingLimit returns the desired sizing limit of a category.
func (s *Store) GetSizingLimit(category string) (int, error) {
	e, err := s.entry(category)
	if err != nil {
		return 0, err
	}
	if !e.HasLimit {
		return 0, deverrors.NewNotFoundError("sizing limit", e.Limit.Name)
	}
	return e.Limit.Value, nil
}

func (s *Store) entry(category string) (*Entry, error) {
	snap := s.Current()
	if snap == nil {
		return nil, deverrors.NewNotFoundError("snapshot", "current")
	}
	e, ok := snap.Entry(category)
	if !ok {
		return nil, deverrors.NewNotFoundError("category", category)
	}
	return e, nil
}
