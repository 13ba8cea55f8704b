package colorize

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"colorizer/internal/domain"
	"colorizer/internal/providers/image"
)

// Registry tracks live workflow sessions in memory. Sessions removed from
// the registry are always closed so their preview handles are released.
type Registry struct {
	previews  PreviewStore
	colorizer image.Colorizer
	logger    zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry constructs an empty registry.
func NewRegistry(previews PreviewStore, colorizer image.Colorizer, logger zerolog.Logger) *Registry {
	return &Registry{
		previews:  previews,
		colorizer: colorizer,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// Create registers a new session and returns it.
func (r *Registry) Create() *Session {
	session := NewSession(uuid.NewString(), r.previews, r.colorizer, r.logger)
	r.mu.Lock()
	r.sessions[session.ID()] = session
	r.mu.Unlock()
	return session
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// Remove closes and forgets the session with the given id.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	return session.Close(ctx)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than maxIdle and returns how many
// were removed. Abandoned sessions would otherwise leak preview files.
func (r *Registry) Sweep(ctx context.Context, maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-maxIdle)
	r.mu.Lock()
	var expired []*Session
	for id, session := range r.sessions {
		if session.IdleSince().Before(cutoff) {
			delete(r.sessions, id)
			expired = append(expired, session)
		}
	}
	r.mu.Unlock()
	for _, session := range expired {
		if err := session.Close(ctx); err != nil {
			r.logger.Warn().Err(err).Str("session_id", session.ID()).Msg("failed to close expired session")
		}
	}
	if len(expired) > 0 {
		r.logger.Info().Int("count", len(expired)).Msg("swept idle sessions")
	}
	return len(expired)
}

// CloseAll tears down every live session, releasing all previews.
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for id, session := range r.sessions {
		delete(r.sessions, id)
		sessions = append(sessions, session)
	}
	r.mu.Unlock()
	for _, session := range sessions {
		if err := session.Close(ctx); err != nil {
			r.logger.Warn().Err(err).Str("session_id", session.ID()).Msg("failed to close session")
		}
	}
}
