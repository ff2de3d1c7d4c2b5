package repositories

import "context"

// Subscription is a live view of a collection. C carries full snapshots in
// the order the store produced them; a reader that falls behind skips to the
// newest one. C is closed after Close or when the parent context ends.
type Subscription[T any] struct {
	C <-chan []T

	cancel context.CancelFunc
	done   chan struct{}
}

// Close stops the subscription and waits for C to be closed.
func (s *Subscription[T]) Close() {
	s.cancel()
	<-s.done
}

// replaceLatest drops any unread snapshot in ch and puts v. Only one
// goroutine may write to ch.
func replaceLatest[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
