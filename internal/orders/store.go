package orders

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"
)

// Store persists order records as a JSON array keyed by order id. The whole
// file is rewritten on every upsert; concurrent bot runs are not supported,
// so there is no cross-process locking.
type Store struct {
	mu       sync.Mutex
	records  map[string]*Record
	filename string
	logger   *slog.Logger
}

func NewStore(filename string) (*Store, error) {
	s := &Store{
		records:  make(map[string]*Record),
		filename: filename,
		logger:   slog.Default().With("component", "order_store"),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Upsert inserts or replaces the record for its order id and writes the
// store through to disk. Saving the same id twice leaves exactly one record.
// The store keeps its own copy: the caller is free to keep mutating the
// record between attempts while the status API reads the store.
func (s *Store) Upsert(r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		return fmt.Errorf("order id is required")
	}

	r.UpdatedAt = time.Now()
	cp := *r
	s.records[cp.ID] = &cp

	return s.save()
}

// Get returns a copy of the record, detached from the store.
func (s *Store) Get(id string) (*Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return nil, false
	}
	cp := *r
	return &cp, true
}

// All returns copies of the records sorted by order id.
func (s *Store) All() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		cp := *r
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	return all
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Store) save() error {
	all := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first for atomicity
	tmpFile := s.filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, s.filename)
}

// load reads the store file. A missing file starts empty; a corrupted file
// is logged and reset rather than aborting the run.
func (s *Store) load() error {
	data, err := os.ReadFile(s.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var all []*Record
	if err := json.Unmarshal(data, &all); err != nil {
		s.logger.Warn("corrupted orders file, starting fresh", "file", s.filename, "error", err)
		return nil
	}

	for _, r := range all {
		if r.ID != "" {
			s.records[r.ID] = r
		}
	}

	return nil
}
