package db

import (
	"context"
	"sync"
	"time"

	"github.com/jsphweid/harmonycheck/model"
)

// MemoryStore holds reports in process. Reports expire after ttl, and the
// oldest ones are dropped once more than max are held.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	reports map[string]*model.StoredReport
	order   []string
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration, maxReports int) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		max:     maxReports,
		reports: make(map[string]*model.StoredReport),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, r *model.StoredReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expire()
	if _, ok := s.reports[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.reports[r.ID] = r
	for s.max > 0 && len(s.order) > s.max {
		delete(s.reports, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.StoredReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expire()
	r, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

// expire drops reports older than ttl. order is oldest first, so it stops
// at the first one still alive.
func (s *MemoryStore) expire() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	n := 0
	for n < len(s.order) && s.reports[s.order[n]].CreatedAt.Before(cutoff) {
		delete(s.reports, s.order[n])
		n++
	}
	s.order = s.order[n:]
}
