package app

import (
	"context"
	"sync"
	"time"

	"quiz-battle-service/internal/domain"
	"quiz-battle-service/internal/game"
)

// Session serialises actions against one game machine and fans out updates.
type Session struct {
	id        string
	catalogID string
	createdAt time.Time
	now       func() time.Time

	mu          sync.Mutex
	machine     *game.Machine
	pending     []domain.Event
	lastActive  time.Time
	closed      bool
	subscribers map[chan domain.Update]struct{}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id, catalogID string) *Session {
	return NewSessionWithClock(id, catalogID, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id, catalogID string, now func() time.Time) *Session {
	s := &Session{
		id:          id,
		catalogID:   catalogID,
		createdAt:   now(),
		now:         now,
		subscribers: make(map[chan domain.Update]struct{}),
	}
	s.lastActive = s.createdAt
	s.machine = game.NewMachine(game.NotifierFunc(s.collectLocked))
	return s
}

func (s *Session) ID() string        { return s.id }
func (s *Session) CatalogID() string { return s.catalogID }

// LastActive is the time of the most recent action.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Snapshot returns the current machine state.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Snapshot()
}

// load blocks actions until the catalog arrives or fails.
func (s *Session) load(ctx context.Context, fetch game.CatalogFetcher) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.machine.Load(ctx, s.catalogID, fetch)
	s.broadcastLocked()
	return err
}

func (s *Session) dispatch(action domain.Action) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.machine.Apply(action)
	s.lastActive = s.now()
	return s.broadcastLocked(), err
}

// collectLocked runs inside machine calls, which always hold mu.
func (s *Session) collectLocked(e domain.Event) {
	s.pending = append(s.pending, e)
}

func (s *Session) subscribe() (<-chan domain.Update, func()) {
	ch := make(chan domain.Update, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	// The buffer is empty here, so the initial state is always delivered first.
	ch <- domain.Update{SessionID: s.id, Snapshot: s.machine.Snapshot()}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) broadcastLocked() domain.Snapshot {
	update := domain.Update{SessionID: s.id, Snapshot: s.machine.Snapshot(), Events: s.pending}
	s.pending = nil
	for ch := range s.subscribers {
		select {
		case ch <- update:
		default:
			// Slow subscriber: drop its oldest update so broadcast never blocks.
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}
	return update.Snapshot
}
