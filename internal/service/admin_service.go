package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"fitwise/fitness-client/internal/cache"
	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/logger"
	"fitwise/fitness-client/internal/repository"
)

//go:embed data/feedback.json
var feedbackSnapshot []byte

// LoadFeedbackSnapshot decodes the bundled feedback shown on the admin panel.
func LoadFeedbackSnapshot() ([]domain.Feedback, error) {
	var out []domain.Feedback
	if err := json.Unmarshal(feedbackSnapshot, &out); err != nil {
		return nil, fmt.Errorf("decode feedback snapshot: %w", err)
	}
	return out, nil
}

// AdminService manages the backend's users and plans.
type AdminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	AddUser(ctx context.Context, user domain.NewUser) (domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	DeletePlan(ctx context.Context, id int64) error
	// Stats counts users per gender and plans per goal for the admin charts.
	Stats(ctx context.Context) (cache.Stats, error)
	Feedback() []domain.Feedback
}

type adminService struct {
	users    repository.UserRepository
	plans    repository.PlanRepository
	feedback []domain.Feedback
	log      logger.Logger
}

// NewAdminService creates an AdminService over the remote repositories.
func NewAdminService(users repository.UserRepository, plans repository.PlanRepository, feedback []domain.Feedback, log logger.Logger) AdminService {
	if log == nil {
		log = logger.Default()
	}
	return &adminService{users: users, plans: plans, feedback: feedback, log: log.With("service", "admin")}
}

func (s *adminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *adminService) AddUser(ctx context.Context, user domain.NewUser) (domain.User, error) {
	created, err := s.users.Add(ctx, user)
	if err != nil {
		return domain.User{}, err
	}
	s.log.Info("User added", "email", created.Email)
	return created, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("User deleted", "user_id", id)
	return nil
}

func (s *adminService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return s.plans.List(ctx)
}

func (s *adminService) DeletePlan(ctx context.Context, id int64) error {
	if err := s.plans.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("Plan deleted", "plan_id", id)
	return nil
}

func (s *adminService) Stats(ctx context.Context) (cache.Stats, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return cache.Stats{}, err
	}
	plans, err := s.plans.List(ctx)
	if err != nil {
		return cache.Stats{}, err
	}
	return cache.Summarize(users, plans), nil
}

// Feedback returns a copy of the static snapshot.
func (s *adminService) Feedback() []domain.Feedback {
	return append([]domain.Feedback(nil), s.feedback...)
}
