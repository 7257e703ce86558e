package memory

import (
	"sync"

	"codeberg.org/miketth/kbddbar/pkg/kbdd"
)

type LayoutStore struct {
	changes []kbdd.LayoutChange
	lock    sync.Mutex
}

func NewLayoutStore() *LayoutStore {
	return &LayoutStore{}
}

func (s *LayoutStore) LayoutChanged(change kbdd.LayoutChange) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.changes = append(s.changes, change)
	return nil
}

func (s *LayoutStore) LayoutCounts() (map[string]int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	counts := make(map[string]int)
	for _, c := range s.changes {
		counts[c.Layout]++
	}
	return counts, nil
}

// Changes returns a copy of every recorded change in order.
func (s *LayoutStore) Changes() []kbdd.LayoutChange {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]kbdd.LayoutChange(nil), s.changes...)
}

func (s *LayoutStore) Close() error {
	return nil
}
