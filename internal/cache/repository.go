package cache

import (
	"context"

	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/repository"
)

type localUsers struct{ s *Store }

// Users adapts the cache to repository.UserRepository.
func (s *Store) Users() repository.UserRepository { return localUsers{s} }

func (r localUsers) List(context.Context) ([]domain.User, error) { return r.s.ListUsers(), nil }

func (r localUsers) Add(ctx context.Context, u domain.NewUser) (domain.User, error) {
	return r.s.AddUser(ctx, u)
}

func (r localUsers) Delete(ctx context.Context, id int64) error { return r.s.DeleteUser(ctx, id) }

type localPlans struct{ s *Store }

// Plans adapts the cache to repository.PlanRepository.
func (s *Store) Plans() repository.PlanRepository { return localPlans{s} }

func (r localPlans) List(context.Context) ([]domain.Plan, error) { return r.s.ListPlans(), nil }

func (r localPlans) Add(ctx context.Context, p domain.NewPlan) (domain.Plan, error) {
	return r.s.AddPlan(ctx, p)
}

func (r localPlans) Delete(ctx context.Context, id int64) error { return r.s.DeletePlan(ctx, id) }
