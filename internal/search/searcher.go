package search

import (
	"slices"
	"sync"
	"time"
)

// Query is one search box state.
type Query struct {
	Term     string
	Category string
}

// Searcher recomputes a filtered view of a source list after the user stops
// typing. Results carries the latest view; slow readers skip stale ones.
type Searcher[T any] struct {
	filter  Filter[T]
	results chan []T
	deb     *Debouncer[Query]

	mu     sync.Mutex
	source []T
	last   Query
}

func NewSearcher[T any](source []T, filter Filter[T], delay time.Duration) *Searcher[T] {
	s := &Searcher[T]{
		filter:  filter,
		results: make(chan []T, 1),
		source:  slices.Clone(source),
		last:    Query{Category: CategoryAll},
	}
	s.deb = NewDebouncer(delay, s.run)
	return s
}

// Query schedules a recomputation for term and category.
func (s *Searcher[T]) Query(term, category string) {
	s.deb.Trigger(Query{Term: term, Category: category})
}

// Flush computes a pending query immediately.
func (s *Searcher[T]) Flush() { s.deb.Flush() }

// SetSource replaces the list and recomputes with the last query.
func (s *Searcher[T]) SetSource(items []T) {
	s.mu.Lock()
	s.source = slices.Clone(items)
	q := s.last
	s.mu.Unlock()
	s.run(q)
}

func (s *Searcher[T]) Results() <-chan []T { return s.results }

// Close stops pending work. Results is not closed.
func (s *Searcher[T]) Close() { s.deb.Stop() }

func (s *Searcher[T]) run(q Query) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = q

	view := s.filter(s.source, q.Term, q.Category)
	select {
	case <-s.results:
	default:
	}
	s.results <- view
}
