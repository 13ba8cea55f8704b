package colorize

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"colorizer/internal/domain"
	"colorizer/internal/providers/image"
)

// Session owns the workflow state for one uploaded image: the source file,
// its preview handle, the prompt, and the request lifecycle. All methods
// are safe for concurrent use; the remote call is the only suspension
// point and runs outside the lock.
type Session struct {
	id        string
	previews  PreviewStore
	colorizer image.Colorizer
	logger    zerolog.Logger

	mu         sync.Mutex
	source     *SourceFile
	preview    *PreviewHandle
	prompt     string
	state      RequestState
	attempt    uint64
	closed     bool
	lastActive time.Time
}

// View is a point-in-time snapshot of the session for rendering.
type View struct {
	ID       string         `json:"id"`
	Prompt   string         `json:"prompt"`
	HasImage bool           `json:"has_image"`
	Preview  *PreviewHandle `json:"preview,omitempty"`
	State    RequestState   `json:"state"`
}

// NewSession constructs a session around the given collaborators.
func NewSession(id string, previews PreviewStore, colorizer image.Colorizer, logger zerolog.Logger) *Session {
	return &Session{
		id:         id,
		previews:   previews,
		colorizer:  colorizer,
		logger:     logger.With().Str("session_id", id).Logger(),
		state:      idleState(),
		lastActive: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SelectImage replaces the current source image. Atomically from the
// caller's perspective it releases the previous preview, stores the file,
// acquires a new preview, and resets the request state to idle, clearing
// any prior result or error. Any in-flight colorization is invalidated so
// a stale completion cannot overwrite the new selection.
func (s *Session) SelectImage(ctx context.Context, file SourceFile) (PreviewHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return PreviewHandle{}, domain.ErrSessionClosed
	}
	s.releasePreviewLocked(ctx)
	s.source = &file
	s.state = idleState()
	s.attempt++
	s.lastActive = time.Now()

	handle, err := s.previews.Acquire(ctx, s.id, file)
	if err != nil {
		return PreviewHandle{}, err
	}
	s.preview = &handle
	return handle, nil
}

// SetPrompt updates the coloring prompt. No validation happens until
// submission.
func (s *Session) SetPrompt(prompt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	s.prompt = prompt
	s.lastActive = time.Now()
	return nil
}

// Submit validates preconditions in order, transitions to loading, invokes
// the colorization provider exactly once, and records the outcome.
// Precondition failures are returned as errors with the state unchanged;
// remote failures are encoded in the returned state as Failed. Completions
// belonging to a superseded attempt are discarded.
func (s *Session) Submit(ctx context.Context) (RequestState, error) {
	s.mu.Lock()
	if s.closed {
		state := s.state
		s.mu.Unlock()
		return state, domain.ErrSessionClosed
	}
	if s.state.Phase == PhaseLoading {
		state := s.state
		s.mu.Unlock()
		return state, domain.ErrBusy
	}
	if s.source == nil {
		state := s.state
		s.mu.Unlock()
		return state, domain.ErrMissingImage
	}
	prompt := strings.TrimSpace(s.prompt)
	if prompt == "" {
		state := s.state
		s.mu.Unlock()
		return state, domain.ErrMissingPrompt
	}

	s.attempt++
	tag := s.attempt
	s.state = RequestState{Phase: PhaseLoading}
	s.lastActive = time.Now()
	req := image.ColorizeRequest{
		Prompt:    prompt,
		RequestID: uuid.NewString(),
		Source: image.SourceImage{
			Data:     s.source.Data,
			MIME:     s.source.MIME,
			Filename: s.source.Name,
		},
	}
	s.mu.Unlock()

	started := time.Now()
	asset, err := s.colorizer.Colorize(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	if s.closed || s.attempt != tag {
		// A newer selection or teardown superseded this attempt.
		s.logger.Debug().Str("request_id", req.RequestID).Msg("discarding stale colorization result")
		return s.state, nil
	}
	if err != nil {
		msg := strings.TrimSpace(err.Error())
		if msg == "" {
			msg = FallbackFailureMessage
		}
		s.state = RequestState{Phase: PhaseFailed, ErrorMessage: msg}
		s.logger.Warn().Err(err).Dur("elapsed", time.Since(started)).Msg("colorization failed")
		return s.state, nil
	}
	result := &Result{
		URI:    asset.DisplayURI(),
		Format: asset.Format,
		Width:  asset.Width,
		Height: asset.Height,
	}
	if result.URI == "" {
		s.state = RequestState{Phase: PhaseFailed, ErrorMessage: FallbackFailureMessage}
		return s.state, nil
	}
	s.state = RequestState{Phase: PhaseSucceeded, Result: result}
	s.logger.Info().Dur("elapsed", time.Since(started)).Msg("colorization succeeded")
	return s.state, nil
}

// Snapshot returns the current view of the session.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := View{
		ID:       s.id,
		Prompt:   s.prompt,
		HasImage: s.source != nil,
		State:    s.state,
	}
	if s.preview != nil {
		handle := *s.preview
		view.Preview = &handle
	}
	return view
}

// Close tears the session down, releasing the live preview handle. Closing
// twice releases at most once.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.attempt++
	s.releasePreviewLocked(ctx)
	s.source = nil
	return nil
}

// IdleSince reports the last time the session was touched.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// releasePreviewLocked frees the current preview handle, if any. Release
// failures are logged rather than propagated; the handle is dropped either
// way so it is never double-released.
func (s *Session) releasePreviewLocked(ctx context.Context) {
	if s.preview == nil {
		return
	}
	handle := *s.preview
	s.preview = nil
	if err := s.previews.Release(ctx, handle); err != nil {
		s.logger.Warn().Err(err).Str("key", handle.Key).Msg("failed to release preview")
	}
}
