package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"codeberg.org/miketth/kbddbar/pkg/kbdd"
)

const saveInterval = time.Minute

type journal struct {
	Counts map[string]int     `json:"counts"`
	Last   *kbdd.LayoutChange `json:"last,omitempty"`
}

// LayoutStore keeps per-layout change counters in a JSON file. Changes are
// held in memory and flushed by SaveLooper or Close.
type LayoutStore struct {
	journal journal
	file    *os.File
	lock    sync.Mutex
	dirty   bool
}

func NewLayoutStore(filename string) (*LayoutStore, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	store := &LayoutStore{
		journal: journal{Counts: make(map[string]int)},
		file:    file,
	}

	if err := store.load(); err != nil {
		file.Close()
		return nil, fmt.Errorf("load: %w", err)
	}

	return store, nil
}

func (s *LayoutStore) Close() error {
	saveErr := s.save()
	closeErr := s.file.Close()
	if saveErr != nil {
		return fmt.Errorf("save: %w", saveErr)
	}
	return closeErr
}

func (s *LayoutStore) load() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	_, err := s.file.Seek(0, io.SeekStart)
	if err != nil {
		return fmt.Errorf("seek to start of file: %w", err)
	}

	dec := json.NewDecoder(s.file)
	err = dec.Decode(&s.journal)
	switch {
	case err == io.EOF:
		// fresh file
	case err != nil:
		return fmt.Errorf("decode json: %w", err)
	}

	if s.journal.Counts == nil {
		s.journal.Counts = make(map[string]int)
	}

	return nil
}

func (s *LayoutStore) save() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.dirty {
		return nil
	}

	_, err := s.file.Seek(0, io.SeekStart)
	if err != nil {
		return fmt.Errorf("seek to start of file: %w", err)
	}

	err = s.file.Truncate(0)
	if err != nil {
		return fmt.Errorf("truncate file: %w", err)
	}

	enc := json.NewEncoder(s.file)
	err = enc.Encode(s.journal)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	s.dirty = false

	return nil
}

// SaveLooper flushes the journal every minute and once more when ctx is
// done.
func (s *LayoutStore) SaveLooper(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			err := s.save()
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}

			return ctx.Err()
		case <-time.After(saveInterval):
			err := s.save()
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}
		}
	}
}

func (s *LayoutStore) LayoutChanged(change kbdd.LayoutChange) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.journal.Counts[change.Layout]++
	s.journal.Last = &change
	s.dirty = true
	return nil
}

func (s *LayoutStore) LayoutCounts() (map[string]int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	counts := make(map[string]int, len(s.journal.Counts))
	for layout, n := range s.journal.Counts {
		counts[layout] = n
	}
	return counts, nil
}

// Last returns the most recent change, if any was ever recorded.
func (s *LayoutStore) Last() (kbdd.LayoutChange, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.journal.Last == nil {
		return kbdd.LayoutChange{}, false
	}
	return *s.journal.Last, true
}
