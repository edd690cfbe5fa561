package repository

import (
	"context"
	"fitwise/fitness-client/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound    = RepositoryError("not found")
	ErrUnsupported = RepositoryError("operation not supported by this store")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository is implemented by the remote gateway (authoritative) and by the
// local cache (DB-manager snapshot). The two are never reconciled.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	Add(ctx context.Context, user domain.NewUser) (domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// PlanRepository defines the interface for interacting with plan data.
type PlanRepository interface {
	List(ctx context.Context) ([]domain.Plan, error)
	Add(ctx context.Context, plan domain.NewPlan) (domain.Plan, error)
	Delete(ctx context.Context, id int64) error
}
