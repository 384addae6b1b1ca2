package search

import (
	"context"
	"sync"
)

type Searcher interface {
	Search(ctx context.Context, term string) (*ResultSet, error)
}

// Session runs one query at a time on behalf of an interactive caller.
// Submitting a new term cancels the query in flight and bumps the
// generation; a result is delivered only while its generation is current.
type Session struct {
	searcher Searcher

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func NewSession(searcher Searcher) *Session {
	return &Session{searcher: searcher}
}

// Submit starts a query for term and returns its generation. deliver is
// called with the session lock held, so it must not call Submit; stale
// results, including those cancelled by a newer Submit, are dropped.
func (s *Session) Submit(ctx context.Context, term string, deliver func(*ResultSet, error)) uint64 {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	qctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		rs, err := s.searcher.Search(qctx, term)

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.generation {
			return
		}
		cancel()
		s.cancel = nil
		deliver(rs, err)
	}()
	return gen
}

func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Wait blocks until every submitted query has finished or been dropped.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels the query in flight, if any, and waits for it to unwind.
func (s *Session) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.mu.Unlock()
	s.wg.Wait()
}
