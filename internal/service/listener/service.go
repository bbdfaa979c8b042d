package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/truevoice/server/internal/player"
	"github.com/truevoice/server/internal/repository/listener"
)

type iSessionRepo interface {
	SetSession(context.Context, *listener.SetSessionParams) error
	GetSession(context.Context, string) (listener.Session, error)
	RemoveSession(context.Context, string) error
}

type iConnRepo interface {
	Add(*websocket.Conn, string) error
	RemoveByConn(*websocket.Conn) (string, error)
	RemoveBySessionID(string) error
	GetConn(string) (*websocket.Conn, error)
	Send(sessionID string, v any) error
	Broadcast(v any) []string
}

type Config struct {
	Secret  string
	Sources player.Sources
}

type service struct {
	sessionRepo iSessionRepo
	connRepo    iConnRepo
	logger      *slog.Logger
	secret      []byte
	sources     player.Sources
	clock       func() time.Time

	mu               sync.RWMutex
	playing          map[string]bool
	onPlaybackChange []func(context.Context)
}

func NewService(sessionRepo iSessionRepo, connRepo iConnRepo, logger *slog.Logger, cfg *Config) *service {
	return &service{
		sessionRepo: sessionRepo,
		connRepo:    connRepo,
		logger:      logger,
		secret:      []byte(cfg.Secret),
		sources:     cfg.Sources,
		clock:       time.Now,
		playing:     make(map[string]bool),
	}
}

// OnPlaybackChange registers fn to be called whenever the set of playing
// listeners changes between empty and non-empty.
func (s *service) OnPlaybackChange(fn func(context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onPlaybackChange = append(s.onPlaybackChange, fn)
}

func (s *service) AnyPlaying() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.playing) > 0
}

func (s *service) Sources() player.Sources {
	return s.sources
}

// Connect registers conn and resumes the session behind token when it is
// valid and still stored. A resumed session comes back idle. Otherwise a new
// idle session is started.
func (s *service) Connect(ctx context.Context, conn *websocket.Conn, token string) (*ConnectResponse, error) {
	session, resumed := s.resume(ctx, token)
	if !resumed {
		session = Session{ID: uuid.NewString(), Player: player.New()}
		if err := s.save(ctx, &session); err != nil {
			return nil, err
		}
	} else {
		// the new page's audio element starts paused, so the stored state
		// waits for the next native event
		session.Reattach()
		if err := s.save(ctx, &session); err != nil {
			return nil, err
		}
	}

	sessionToken, err := s.generateJWT(session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	if resumed {
		s.takeOver(ctx, session.ID)
	}

	if err := s.connRepo.Add(conn, session.ID); err != nil {
		return nil, fmt.Errorf("failed to add conn: %w", err)
	}

	s.setPlaying(ctx, session.ID, false)

	return &ConnectResponse{
		SessionToken: sessionToken,
		Session:      session,
		Resumed:      resumed,
	}, nil
}

func (s *service) resume(ctx context.Context, token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}

	sessionID, err := s.parseJWT(token)
	if err != nil {
		s.logger.DebugContext(ctx, "ignoring session token", "error", err)
		return Session{}, false
	}

	session, err := s.get(ctx, sessionID)
	if err != nil {
		s.logger.DebugContext(ctx, "failed to resume session", "session_id", sessionID, "error", err)
		return Session{}, false
	}

	if !session.State.Valid() {
		s.logger.InfoContext(ctx, "discarding corrupt session", "session_id", sessionID, "state", session.State)
		if err := s.sessionRepo.RemoveSession(ctx, sessionID); err != nil {
			s.logger.InfoContext(ctx, "failed to remove session", "session_id", sessionID, "error", err)
		}
		return Session{}, false
	}

	return session, true
}

// takeOver closes a connection still holding the session, e.g. a tab that
// reconnected before its old socket was noticed as dead.
func (s *service) takeOver(ctx context.Context, sessionID string) {
	old, err := s.connRepo.GetConn(sessionID)
	if err != nil {
		return
	}

	if err := s.connRepo.RemoveBySessionID(sessionID); err != nil {
		s.logger.DebugContext(ctx, "failed to remove conn", "session_id", sessionID, "error", err)
	}
	old.Close()
	s.logger.InfoContext(ctx, "session taken over by new connection", "session_id", sessionID)
}

// Disconnect drops conn. The stored session stays until it expires so a
// reconnect can resume it.
func (s *service) Disconnect(ctx context.Context, conn *websocket.Conn) error {
	sessionID, err := s.connRepo.RemoveByConn(conn)
	if err != nil {
		return fmt.Errorf("failed to remove conn: %w", err)
	}

	s.setPlaying(ctx, sessionID, false)
	return nil
}

// Alive extends the session's lifetime.
func (s *service) Alive(ctx context.Context, sessionID string) error {
	_, err := s.sessionRepo.GetSession(ctx, sessionID)
	return err
}

func (s *service) RequestPlay(ctx context.Context, sessionID string) (*UpdateResponse, error) {
	return s.update(ctx, sessionID, func(p *player.Player) (player.Transition, error) {
		return p.RequestPlay(s.sources), nil
	})
}

func (s *service) RequestStop(ctx context.Context, sessionID string) (*UpdateResponse, error) {
	return s.update(ctx, sessionID, func(p *player.Player) (player.Transition, error) {
		return p.RequestStop(), nil
	})
}

func (s *service) PlayBlocked(ctx context.Context, sessionID string) (*UpdateResponse, error) {
	return s.update(ctx, sessionID, func(p *player.Player) (player.Transition, error) {
		return p.PlayBlocked(), nil
	})
}

func (s *service) MediaEvent(ctx context.Context, sessionID string, event player.MediaEvent) (*UpdateResponse, error) {
	return s.update(ctx, sessionID, func(p *player.Player) (player.Transition, error) {
		return p.HandleEvent(event, s.sources)
	})
}

func (s *service) update(ctx context.Context, sessionID string, apply func(*player.Player) (player.Transition, error)) (*UpdateResponse, error) {
	session, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	t, err := apply(&session.Player)
	if err != nil {
		return nil, err
	}

	if t.Changed {
		if err := s.save(ctx, &session); err != nil {
			return nil, err
		}
		s.logger.DebugContext(ctx, "session updated", "from", t.From, "to", t.To, "action", t.Action)
	}

	s.setPlaying(ctx, session.ID, session.IsPlaying())

	return &UpdateResponse{
		Session:    session,
		Transition: t,
	}, nil
}

func (s *service) get(ctx context.Context, sessionID string) (Session, error) {
	stored, err := s.sessionRepo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, listener.ErrSessionNotFound) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	return Session{
		ID: stored.ID,
		Player: player.Player{
			State:        player.State(stored.State),
			Source:       stored.Source,
			FallbackUsed: stored.FallbackUsed,
			Prompt:       stored.Prompt,
		},
		UpdatedAt: stored.UpdatedAt,
	}, nil
}

func (s *service) save(ctx context.Context, session *Session) error {
	now := s.now()
	if err := s.sessionRepo.SetSession(ctx, &listener.SetSessionParams{
		ID:           session.ID,
		State:        string(session.State),
		Source:       session.Source,
		FallbackUsed: session.FallbackUsed,
		Prompt:       session.Prompt,
		UpdatedAt:    now,
	}); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	session.UpdatedAt = now.Unix()
	return nil
}

func (s *service) setPlaying(ctx context.Context, sessionID string, playing bool) {
	s.mu.Lock()
	before := len(s.playing) > 0
	if playing {
		s.playing[sessionID] = true
	} else {
		delete(s.playing, sessionID)
	}
	after := len(s.playing) > 0
	hooks := append([]func(context.Context){}, s.onPlaybackChange...)
	s.mu.Unlock()

	if before == after {
		return
	}

	for _, fn := range hooks {
		fn(ctx)
	}
}

// Send writes v to the session's connection.
func (s *service) Send(sessionID string, v any) error {
	return s.connRepo.Send(sessionID, v)
}

// Broadcast writes v to every connection. Connections that fail to take the
// write are dropped.
func (s *service) Broadcast(ctx context.Context, v any) {
	failed := s.connRepo.Broadcast(v)
	for _, sessionID := range failed {
		s.logger.InfoContext(ctx, "dropping unresponsive listener", "session_id", sessionID)
		if err := s.connRepo.RemoveBySessionID(sessionID); err != nil {
			s.logger.DebugContext(ctx, "failed to remove conn", "session_id", sessionID, "error", err)
		}
		s.setPlaying(ctx, sessionID, false)
	}
}
