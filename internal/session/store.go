// Package session is the single process-wide authority for who is logged in and
// under which role. The Session lives in memory and, write-through, in durable storage
// under one key, so a reload restores exactly what was last committed.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/logger"
	"fitwise/fitness-client/internal/storage"

	"github.com/google/uuid"
)

// Key is the durable storage key of the Session record.
const Key = "session"

// revoked replaces the record when it cannot be deleted. It never decodes to a Session.
const revoked = "revoked"

// ErrNoMemberSession is returned when an operation needs a logged-in member.
var ErrNoMemberSession = errors.New("no member is logged in")

// Config controls signing of the durable record.
type Config struct {
	Secret string
	TTL    time.Duration // 0 means no expiry
}

// Store owns the current Session.
type Store struct {
	mu       sync.Mutex
	kv       storage.Store
	codec    tokenCodec
	checkers Checkers
	current  domain.Session
	log      logger.Logger
	now      func() time.Time
}

// NewStore creates a Store with no active Session. Call Restore to pick up a
// previously persisted one.
func NewStore(kv storage.Store, cfg Config, checkers Checkers, log logger.Logger) (*Store, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session secret cannot be empty")
	}
	if log == nil {
		log = logger.Default()
	}
	return &Store{
		kv:       kv,
		codec:    tokenCodec{secret: []byte(cfg.Secret), ttl: cfg.TTL},
		checkers: checkers,
		current:  domain.Anonymous(),
		log:      log.With("component", "session"),
		now:      time.Now,
	}, nil
}

// Login verifies the credentials for role and, on success, replaces whatever Session
// was active. On failure the active Session is left untouched.
func (s *Store) Login(ctx context.Context, role domain.Role, email, password string) (domain.Session, error) {
	if role == domain.RoleAnonymous || !role.Valid() {
		return domain.Session{}, domain.Invalid("role", "must be user, admin or db_manager")
	}
	checker, ok := s.checkers[role]
	if !ok {
		return domain.Session{}, domain.Invalid("role", fmt.Sprintf("login as %s is not available", role))
	}

	identity, err := checker.Verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.log.Info("Login refused", "role", role)
		}
		return domain.Session{}, err
	}

	next := domain.Session{
		ID:        uuid.NewString(),
		Role:      role,
		Identity:  &identity,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, next); err != nil {
		return domain.Session{}, err
	}
	s.current = next
	s.log.Info("Logged in", "role", role, "session", next.ID)
	return clone(next), nil
}

// Restore loads the persisted Session. Missing, unreadable, tampered or expired records
// yield false; a bad record is removed so it is not tried again.
func (s *Store) Restore(ctx context.Context) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = domain.Anonymous()
	raw, err := s.kv.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.log.Warn("Could not read persisted session", "err", err)
		}
		return domain.Anonymous(), false
	}

	if string(raw) == revoked {
		return domain.Anonymous(), false
	}
	sess, err := s.codec.decode(string(raw))
	if err != nil {
		s.log.Warn("Discarding persisted session", "err", fmt.Errorf("%w: %v", domain.ErrStorageCorrupt, err))
		if delErr := s.kv.Delete(ctx, Key); delErr != nil {
			s.log.Warn("Could not remove persisted session", "err", delErr)
		}
		return domain.Anonymous(), false
	}
	s.current = sess
	return clone(sess), true
}

// Logout ends the Session. It is idempotent. The in-memory Session is always cleared;
// when the record cannot be deleted it is overwritten with a revocation marker, so a
// later Restore still finds no Session. An error means neither write reached storage.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current
	s.current = domain.Anonymous()
	if err := s.kv.Delete(ctx, Key); err != nil {
		s.log.Warn("Could not delete persisted session, revoking it", "err", err)
		if putErr := s.kv.Put(ctx, Key, []byte(revoked)); putErr != nil {
			s.log.Error("Could not clear persisted session", "err", putErr)
			return fmt.Errorf("clear session: %w", errors.Join(err, putErr))
		}
	}
	if prev.IsAuthenticated() {
		s.log.Info("Logged out", "role", prev.Role, "session", prev.ID)
	}
	return nil
}

// Current returns a snapshot of the active Session.
func (s *Store) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.current)
}

// UpdateIdentity replaces the profile of the logged-in member, write-through.
func (s *Store) UpdateIdentity(ctx context.Context, profile domain.Profile) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Role != domain.RoleUser {
		return domain.Session{}, ErrNoMemberSession
	}
	next := s.current
	next.Identity = &profile
	if err := s.persist(ctx, next); err != nil {
		return domain.Session{}, err
	}
	s.current = next
	return clone(next), nil
}

func (s *Store) persist(ctx context.Context, sess domain.Session) error {
	token, err := s.codec.encode(sess)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	if err := s.kv.Put(ctx, Key, []byte(token)); err != nil {
		s.log.Error("Could not persist session", "err", err)
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func clone(s domain.Session) domain.Session {
	if s.Identity != nil {
		p := *s.Identity
		s.Identity = &p
	}
	return s
}
