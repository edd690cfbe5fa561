package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// ListUsers returns every cached user, without password hashes.
func (s *Store) ListUsers() []domain.User {
	return Search(s, UserCollection, nil)
}

// AddUser appends a user with the next id. Name, email and password are required;
// only a bcrypt hash of the password is kept.
func (s *Store) AddUser(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	if err := domain.Validate(nu); err != nil {
		return domain.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := domain.User{
		ID:           s.users.NextID,
		Name:         nu.Name,
		Email:        nu.Email,
		PasswordHash: string(hash),
		Age:          nu.Age,
		Gender:       nu.Gender,
		HeightCM:     nu.HeightCM,
		WeightKG:     nu.WeightKG,
	}
	next := document[domain.User]{
		NextID: user.ID + 1,
		Items:  append(append(make([]domain.User, 0, len(s.users.Items)+1), s.users.Items...), user),
	}
	if err := s.persist(ctx, UsersKey, next); err != nil {
		return domain.User{}, err
	}
	s.users = next
	s.log.Info("User added to local cache", "user_id", user.ID)
	return user.Public(), nil
}

// DeleteUser removes the user with id. Plans referring to it are kept.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := without(s.users.Items, id, userID)
	if !ok {
		return repository.ErrNotFound
	}
	next := document[domain.User]{NextID: s.users.NextID, Items: items}
	if err := s.persist(ctx, UsersKey, next); err != nil {
		return err
	}
	s.users = next
	s.log.Info("User deleted from local cache", "user_id", id)
	return nil
}

// ListPlans returns every cached plan.
func (s *Store) ListPlans() []domain.Plan {
	return Search(s, PlanCollection, nil)
}

// AddPlan appends a plan with the next id.
func (s *Store) AddPlan(ctx context.Context, np domain.NewPlan) (domain.Plan, error) {
	if err := domain.Validate(np); err != nil {
		return domain.Plan{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plan := domain.Plan{
		ID:        s.plans.NextID,
		UserID:    np.UserID,
		Name:      np.Name,
		Goal:      np.Goal,
		CreatedAt: s.now().UTC().Truncate(0),
		Body:      append(json.RawMessage(nil), np.Body...),
	}
	next := document[domain.Plan]{
		NextID: plan.ID + 1,
		Items:  append(append(make([]domain.Plan, 0, len(s.plans.Items)+1), s.plans.Items...), plan),
	}
	if err := s.persist(ctx, PlansKey, next); err != nil {
		return domain.Plan{}, err
	}
	s.plans = next
	s.log.Info("Plan added to local cache", "plan_id", plan.ID)
	return clonePlan(plan), nil
}

// DeletePlan removes the plan with id.
func (s *Store) DeletePlan(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := without(s.plans.Items, id, planID)
	if !ok {
		return repository.ErrNotFound
	}
	next := document[domain.Plan]{NextID: s.plans.NextID, Items: items}
	if err := s.persist(ctx, PlansKey, next); err != nil {
		return err
	}
	s.plans = next
	s.log.Info("Plan deleted from local cache", "plan_id", id)
	return nil
}

// without returns a new slice lacking the item with id, and whether it was present.
func without[T any](items []T, id int64, key func(T) int64) ([]T, bool) {
	out := make([]T, 0, len(items))
	found := false
	for _, item := range items {
		if key(item) == id {
			found = true
			continue
		}
		out = append(out, item)
	}
	return out, found
}

func clonePlan(p domain.Plan) domain.Plan {
	if p.Body != nil {
		p.Body = append(json.RawMessage(nil), p.Body...)
	}
	return p
}
