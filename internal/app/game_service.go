package app

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"quiz-battle-service/internal/domain"
	"quiz-battle-service/internal/game"
)

// SessionRepository abstracts how game sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// sessionToucher is implemented by stores that track session liveness.
type sessionToucher interface {
	Touch(ctx context.Context, sessionID string) error
}

// CatalogRepository loads question catalogs (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// GameService contains the game session use cases.
type GameService struct {
	sessions SessionRepository
	catalogs CatalogRepository
	newID    func() string
}

func NewGameService(store SessionRepository, catalogs CatalogRepository) *GameService {
	return &GameService{sessions: store, catalogs: catalogs, newID: uuid.NewString}
}

// CreateSession starts a game bound to catalogID and awaits the catalog.
// A failed load still registers the session; it stays on the loading state
// and the returned error is a *domain.DataLoadError.
func (s *GameService) CreateSession(ctx context.Context, catalogID string) (string, domain.Snapshot, error) {
	session := NewSession(s.newID(), catalogID)
	s.sessions.Put(session)

	err := session.load(ctx, s.catalogs.GetCatalog)
	return session.ID(), session.Snapshot(), err
}

// Dispatch applies one action. Rejected actions return the unchanged
// snapshot together with the validation error.
func (s *GameService) Dispatch(ctx context.Context, sessionID string, action domain.Action) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	if t, ok := s.sessions.(sessionToucher); ok {
		_ = t.Touch(ctx, sessionID)
	}
	return session.dispatch(action)
}

// Snapshot returns the current state of a session.
func (s *GameService) Snapshot(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Subscribe returns a channel that receives session updates.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, sessionID string) (<-chan domain.Update, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Close ends a session and disconnects its subscribers.
func (s *GameService) Close(_ context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.sessions.Delete(sessionID)
	session.close()
	return nil
}

// Categories lists the categories of a catalog without starting a session.
func (s *GameService) Categories(ctx context.Context, catalogID string) ([]domain.CategorySummary, error) {
	c, err := s.catalogs.GetCatalog(ctx, catalogID)
	if err != nil {
		if errors.Is(err, domain.ErrCatalogNotFound) {
			return nil, err
		}
		return nil, &domain.DataLoadError{CatalogID: catalogID, Err: err}
	}
	if err := c.Validate(); err != nil {
		return nil, &domain.DataLoadError{CatalogID: catalogID, Err: err}
	}
	return game.Summarize(c), nil
}
