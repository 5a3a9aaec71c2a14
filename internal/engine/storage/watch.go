package storage

import "context"

// Watch subscribes to the listings collection. The channel receives the
// current snapshot immediately, then a full replacement snapshot after every
// mutation. Cancelling ctx tears the subscription down and closes the
// channel; store shutdown delivers a terminal ErrClosed snapshot first.
//
// Delivery never blocks mutators: each subscriber channel holds one pending
// snapshot and a newer one displaces it, which is sound because every
// snapshot is a full replacement.
func (s *Store) Watch(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, 1)

	s.watchMu.Lock()
	if s.closed {
		s.watchMu.Unlock()
		ch <- Snapshot{Err: ErrClosed}
		close(ch)
		return ch
	}
	id := s.nextWatch
	s.nextWatch++
	s.watchers[id] = ch
	s.watchMu.Unlock()

	// Initial emission. Re-check registration under the lock: Close or
	// cancellation may have closed ch since it was registered.
	listings, err := s.ListListings(ctx)
	s.watchMu.Lock()
	if _, ok := s.watchers[id]; ok {
		deliver(ch, Snapshot{Listings: listings, Err: err})
	}
	s.watchMu.Unlock()

	go func() {
		<-ctx.Done()
		s.watchMu.Lock()
		if _, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(ch)
		}
		s.watchMu.Unlock()
	}()

	return ch
}

// broadcast pushes the current full collection to every watcher.
func (s *Store) broadcast(ctx context.Context) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.closed || len(s.watchers) == 0 {
		return
	}
	listings, err := s.ListListings(ctx)
	snap := Snapshot{Listings: listings, Err: err}
	for _, ch := range s.watchers {
		deliver(ch, snap)
	}
}

// deliver replaces a pending snapshot rather than blocking: latest wins.
func deliver(ch chan Snapshot, snap Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
