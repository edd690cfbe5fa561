package service

import (
	"context"
	"errors"

	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/gateway"
	"fitwise/fitness-client/internal/logger"
)

// --- Error Definitions ---
var (
	ErrWrongRole = errors.New("the current session does not have the required role")
)

// SessionStore is the part of the session store the services depend on.
type SessionStore interface {
	Login(ctx context.Context, role domain.Role, email, password string) (domain.Session, error)
	Restore(ctx context.Context) (domain.Session, bool)
	Logout(ctx context.Context) error
	Current() domain.Session
	UpdateIdentity(ctx context.Context, profile domain.Profile) (domain.Session, error)
}

// --- Service Interface ---
type AuthService interface {
	Signup(ctx context.Context, req domain.SignupRequest) error
	Login(ctx context.Context, role domain.Role, email, password string) (domain.Session, error)
	Logout(ctx context.Context) error
	Current() domain.Session
	Restore(ctx context.Context) (domain.Session, bool)
}

// --- Service Implementation ---

// authService implements the AuthService interface.
type authService struct {
	sessions SessionStore
	remote   gateway.Gateway
	log      logger.Logger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(sessions SessionStore, remote gateway.Gateway, log logger.Logger) AuthService {
	if sessions == nil || remote == nil {
		panic("auth service needs a session store and a gateway") // Critical wiring
	}
	if log == nil {
		log = logger.Default()
	}
	return &authService{sessions: sessions, remote: remote, log: log.With("service", "auth")}
}

// Signup registers a member on the backend. It does not log the member in.
func (s *authService) Signup(ctx context.Context, req domain.SignupRequest) error {
	if err := s.remote.Signup(ctx, req); err != nil {
		return err
	}
	s.log.Info("Member signed up", "email", req.Email)
	return nil
}

// Login replaces the current session on success and leaves it untouched on failure.
func (s *authService) Login(ctx context.Context, role domain.Role, email, password string) (domain.Session, error) {
	return s.sessions.Login(ctx, role, email, password)
}

// Logout is idempotent.
func (s *authService) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

func (s *authService) Current() domain.Session {
	return s.sessions.Current()
}

// Restore picks up the session persisted by a previous process, if any.
func (s *authService) Restore(ctx context.Context) (domain.Session, bool) {
	sess, ok := s.sessions.Restore(ctx)
	if ok {
		s.log.Info("Session restored", "role", sess.Role, "session", sess.ID)
	}
	return sess, ok
}

// requireRole returns the current session if it carries role.
func requireRole(sessions SessionStore, role domain.Role) (domain.Session, error) {
	sess := sessions.Current()
	if sess.Role != role || sess.Identity == nil {
		return domain.Session{}, ErrWrongRole
	}
	return sess, nil
}
