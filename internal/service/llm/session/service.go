// Package session keeps agent conversation sessions in process memory.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"tripmitra/internal/domain"
	llmModels "tripmitra/internal/domain/models/llm"
	llmSvc "tripmitra/internal/domain/services/llm"
)

// Service implements the SessionService interface on a go-cache. Sessions
// expire ttl after their last update and keep at most maxTurns user turns.
type Service struct {
	mu       sync.Mutex
	store    *cache.Cache
	ttl      time.Duration
	maxTurns int
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a session store. A zero ttl keeps sessions forever and
// a zero maxTurns keeps the whole history.
func NewService(ttl time.Duration, maxTurns int, logger *slog.Logger) *Service {
	expiration := ttl
	cleanup := ttl / 2
	if ttl <= 0 {
		expiration = cache.NoExpiration
		cleanup = 0
	}
	return &Service{
		store:    cache.New(expiration, cleanup),
		ttl:      expiration,
		maxTurns: maxTurns,
		logger:   logger,
		now:      time.Now,
	}
}

var _ llmSvc.SessionService = (*Service)(nil)

func sessionKey(appName, userID, sessionID string) string {
	return appName + "/" + userID + "/" + sessionID
}

// CreateSession returns the existing session or creates an empty one
func (s *Service) CreateSession(ctx context.Context, appName, userID, sessionID string) (*llmModels.Session, error) {
	if appName == "" || userID == "" || sessionID == "" {
		return nil, fmt.Errorf("%w: app name, user id and session id are required", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(appName, userID, sessionID)
	if v, ok := s.store.Get(key); ok {
		return snapshot(v.(*llmModels.Session)), nil
	}

	now := s.now().UTC()
	sess := &llmModels.Session{
		ID:             sessionID,
		AppName:        appName,
		UserID:         userID,
		Events:         []llmModels.Event{},
		CreatedAt:      now,
		LastUpdateTime: now,
	}
	s.store.Set(key, sess, s.ttl)

	s.logger.Debug("session created",
		"app_name", appName,
		"user_id", userID,
		"session_id", sessionID,
	)
	return snapshot(sess), nil
}

// GetSession returns a copy of the stored session
func (s *Service) GetSession(ctx context.Context, appName, userID, sessionID string) (*llmModels.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.store.Get(sessionKey(appName, userID, sessionID))
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("session %s not found", sessionID)}
	}
	return snapshot(v.(*llmModels.Session)), nil
}

// AppendEvent records event in the stored session and in the caller's copy.
// Partial events are streaming fragments and are not kept.
func (s *Service) AppendEvent(ctx context.Context, sess *llmModels.Session, event *llmModels.Event) error {
	if event.Partial {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(sess.AppName, sess.UserID, sess.ID)
	v, ok := s.store.Get(key)
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("session %s not found", sess.ID)}
	}

	stored := v.(*llmModels.Session)
	before := len(stored.Events) + 1
	stored.Events = trimHistory(append(stored.Events, *event), s.maxTurns)
	stored.LastUpdateTime = event.Timestamp
	// Set again to push the expiry out
	s.store.Set(key, stored, s.ttl)

	if dropped := before - len(stored.Events); dropped > 0 {
		s.logger.Debug("session history trimmed",
			"session_id", sess.ID,
			"dropped_events", dropped,
			"max_turns", s.maxTurns,
		)
	}

	sess.Events = snapshot(stored).Events
	sess.LastUpdateTime = event.Timestamp
	return nil
}

// trimHistory keeps the last maxTurns user events and everything after the
// oldest of them, so history always starts with a user message.
func trimHistory(events []llmModels.Event, maxTurns int) []llmModels.Event {
	if maxTurns <= 0 {
		return events
	}
	turns := 0
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Author != llmModels.AuthorUser {
			continue
		}
		turns++
		if turns == maxTurns {
			if i == 0 {
				return events
			}
			return slices.Clone(events[i:])
		}
	}
	return events
}

func snapshot(sess *llmModels.Session) *llmModels.Session {
	cp := *sess
	cp.Events = slices.Clone(sess.Events)
	return &cp
}
