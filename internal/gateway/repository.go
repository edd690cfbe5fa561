package gateway

import (
	"context"
	"fmt"
	"net/http"

	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/repository"
)

// remoteUsers exposes the backend's user table as a repository.UserRepository.
type remoteUsers struct {
	gw Gateway
}

// NewUserRepository adapts gw to the authoritative user repository.
func NewUserRepository(gw Gateway) repository.UserRepository {
	return &remoteUsers{gw: gw}
}

func (r *remoteUsers) List(ctx context.Context) ([]domain.User, error) {
	return r.gw.ListUsers(ctx)
}

func (r *remoteUsers) Add(ctx context.Context, user domain.NewUser) (domain.User, error) {
	return r.gw.AddUser(ctx, user)
}

func (r *remoteUsers) Delete(ctx context.Context, id int64) error {
	return notFound(r.gw.DeleteUser(ctx, id))
}

// remotePlans exposes the backend's plan table as a repository.PlanRepository.
type remotePlans struct {
	gw Gateway
}

// NewPlanRepository adapts gw to the authoritative plan repository.
func NewPlanRepository(gw Gateway) repository.PlanRepository {
	return &remotePlans{gw: gw}
}

func (r *remotePlans) List(ctx context.Context) ([]domain.Plan, error) {
	return r.gw.ListPlans(ctx)
}

// Add is not offered by the backend's admin API; plans are created by members.
func (r *remotePlans) Add(_ context.Context, _ domain.NewPlan) (domain.Plan, error) {
	return domain.Plan{}, repository.ErrUnsupported
}

func (r *remotePlans) Delete(ctx context.Context, id int64) error {
	return notFound(r.gw.DeletePlan(ctx, id))
}

func notFound(err error) error {
	if IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("%w: %w", repository.ErrNotFound, err)
	}
	return err
}
