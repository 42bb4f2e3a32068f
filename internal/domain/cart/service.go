package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BackendFactory binds a Backend to a session credential.
type BackendFactory func(token string) Backend

type session struct {
	token     string
	expiresAt time.Time // zero when the token carries no expiry
	lastUsed  time.Time
	engine    *Engine
}

// Service owns one Engine per signed-in user.
type Service struct {
	newBackend BackendFactory
	cfg        EngineConfig
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*session // userID -> session
}

func NewService(newBackend BackendFactory, cfg EngineConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		newBackend: newBackend,
		cfg:        cfg,
		logger:     logger,
		now:        now,
		sessions:   make(map[string]*session),
	}
}

// Engine returns the engine of userID, creating it on first use. A changed
// token rebinds the existing engine so its cached view survives re-login.
// expiresAt is the token's expiry; the engine is evicted by Sweep once it
// has passed.
func (s *Service) Engine(userID, token string, expiresAt time.Time) *Engine {
	var rebind Backend

	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{
			token:  token,
			engine: NewEngine(s.newBackend(token), s.cfg, s.logger.With(zap.String("user_id", userID))),
		}
		s.sessions[userID] = sess
	} else if sess.token != token {
		rebind = s.newBackend(token)
		sess.token = token
	}
	sess.expiresAt = expiresAt
	sess.lastUsed = s.now()
	engine := sess.engine
	s.mu.Unlock()

	if rebind != nil {
		engine.rebind(rebind)
	}
	return engine
}

// Drop forgets the engine of userID, e.g. after the backend reported the
// session as expired.
func (s *Service) Drop(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[userID]; ok {
		delete(s.sessions, userID)
		s.logger.Info("cart session dropped", zap.String("user_id", userID))
	}
}

// Sessions reports how many engines are live.
func (s *Service) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts engines whose token has expired or that have not been used
// for idle. A non-positive idle only evicts expired tokens. It returns the
// number of engines evicted.
func (s *Service) Sweep(idle time.Duration) int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for userID, sess := range s.sessions {
		expired := !sess.expiresAt.IsZero() && !now.Before(sess.expiresAt)
		stale := idle > 0 && now.Sub(sess.lastUsed) >= idle
		if expired || stale {
			delete(s.sessions, userID)
			evicted++
		}
	}
	return evicted
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(idle); n > 0 {
				s.logger.Info("evicted cart sessions",
					zap.Int("evicted", n),
					zap.Int("live", s.Sessions()),
				)
			}
		}
	}
}
