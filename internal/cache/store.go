// Package cache is the durable local mirror of Users and Plans used by the DB manager.
// It is seeded from bundled fixtures the first time it is opened and never synchronized
// with the remote service.
package cache

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/logger"
	"fitwise/fitness-client/internal/storage"
)

// Durable keys of the two collections.
const (
	UsersKey = "cache.users"
	PlansKey = "cache.plans"
)

// LoadStatus reports how Open obtained the collections.
type LoadStatus string

const (
	StatusRestored  LoadStatus = "restored"  // both collections read back from storage
	StatusSeeded    LoadStatus = "seeded"    // at least one collection was absent and seeded
	StatusRecovered LoadStatus = "recovered" // malformed data was discarded and reseeded
)

//go:embed fixtures/users.json fixtures/plans.json
var fixtures embed.FS

// document is the stored form of one collection.
type document[T any] struct {
	NextID int64 `json:"next_id"`
	Items  []T   `json:"items"`
}

// Store holds both collections in memory and writes every mutation through to storage
// before it becomes visible.
type Store struct {
	mu     sync.Mutex
	kv     storage.Store
	users  document[domain.User]
	plans  document[domain.Plan]
	status LoadStatus
	log    logger.Logger
	now    func() time.Time
}

// Open loads both collections, seeding any that are missing. Malformed data is replaced
// by the fixtures and reported as StatusRecovered. Only storage I/O failures are errors.
func Open(ctx context.Context, kv storage.Store, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Default()
	}
	s := &Store{kv: kv, log: log.With("component", "cache"), now: time.Now}

	userStatus, err := load(ctx, s, UsersKey, "users", userID, &s.users)
	if err != nil {
		return nil, err
	}
	planStatus, err := load(ctx, s, PlansKey, "plans", planID, &s.plans)
	if err != nil {
		return nil, err
	}
	s.status = worst(userStatus, planStatus)
	s.log.Info("Local cache ready", "status", s.status, "users", len(s.users.Items), "plans", len(s.plans.Items))
	return s, nil
}

// Status returns how the cache was loaded.
func (s *Store) Status() LoadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func load[T any](ctx context.Context, s *Store, key, fixture string, id func(T) int64, into *document[T]) (LoadStatus, error) {
	raw, readErr := s.kv.Get(ctx, key)
	switch {
	case readErr == nil:
		doc, decodeErr := decode(raw, id)
		if decodeErr == nil {
			*into = doc
			return StatusRestored, nil
		}
		s.log.Warn("Discarding local cache collection", "key", key, "err", fmt.Errorf("%w: %v", domain.ErrStorageCorrupt, decodeErr))
	case errors.Is(readErr, storage.ErrKeyNotFound):
	default:
		return "", fmt.Errorf("read %s: %w", key, readErr)
	}

	doc, seedErr := seed(fixture, id)
	if seedErr != nil {
		return "", seedErr
	}
	if err := s.persist(ctx, key, doc); err != nil {
		return "", err
	}
	*into = doc
	if readErr == nil {
		return StatusRecovered, nil
	}
	return StatusSeeded, nil
}

func decode[T any](raw []byte, id func(T) int64) (document[T], error) {
	var doc document[T]
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, err
	}
	if doc.NextID < 1 {
		return doc, errors.New("missing next_id")
	}
	seen := make(map[int64]struct{}, len(doc.Items))
	for _, item := range doc.Items {
		n := id(item)
		if n <= 0 {
			return doc, fmt.Errorf("record with id %d", n)
		}
		if _, dup := seen[n]; dup {
			return doc, fmt.Errorf("duplicate id %d", n)
		}
		seen[n] = struct{}{}
		if n >= doc.NextID {
			return doc, fmt.Errorf("next_id %d not above id %d", doc.NextID, n)
		}
	}
	return doc, nil
}

func seed[T any](name string, id func(T) int64) (document[T], error) {
	raw, err := fixtures.ReadFile("fixtures/" + name + ".json")
	if err != nil {
		return document[T]{}, fmt.Errorf("read %s fixture: %w", name, err)
	}
	var wrapper map[string][]T
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return document[T]{}, fmt.Errorf("decode %s fixture: %w", name, err)
	}
	doc := document[T]{NextID: 1, Items: wrapper[name]}
	for _, item := range doc.Items {
		if n := id(item); n >= doc.NextID {
			doc.NextID = n + 1
		}
	}
	return doc, nil
}

// persist writes one collection document. Callers hold mu, except during Open.
func (s *Store) persist(ctx context.Context, key string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, raw); err != nil {
		s.log.Error("Could not persist local cache", "key", key, "err", err)
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func userID(u domain.User) int64 { return u.ID }
func planID(p domain.Plan) int64 { return p.ID }

func worst(a, b LoadStatus) LoadStatus {
	rank := map[LoadStatus]int{StatusRestored: 0, StatusSeeded: 1, StatusRecovered: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
