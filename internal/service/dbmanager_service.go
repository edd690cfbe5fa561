package service

import (
	"context"

	"fitwise/fitness-client/internal/cache"
	"fitwise/fitness-client/internal/config"
	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/logger"
	"fitwise/fitness-client/internal/repository"
)

// DBManagerService is the DB manager panel. It works against whichever repositories
// were chosen at startup; local and remote data are never mixed.
type DBManagerService interface {
	Source() string
	// Notice is a one-line message about how local data was loaded, or empty.
	Notice() string
	ListUsers(ctx context.Context) ([]domain.User, error)
	AddUser(ctx context.Context, user domain.NewUser) (domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	AddPlan(ctx context.Context, plan domain.NewPlan) (domain.Plan, error)
	DeletePlan(ctx context.Context, id int64) error
	SearchUsers(ctx context.Context, query string) ([]domain.User, error)
	SearchPlans(ctx context.Context, query string) ([]domain.Plan, error)
	Stats(ctx context.Context) (cache.Stats, error)
}

type dbManagerService struct {
	source string
	status cache.LoadStatus
	users  repository.UserRepository
	plans  repository.PlanRepository
	log    logger.Logger
}

// NewDBManagerService creates a DBManagerService. status is the local cache load
// status and is ignored for the remote source.
func NewDBManagerService(source string, users repository.UserRepository, plans repository.PlanRepository, status cache.LoadStatus, log logger.Logger) DBManagerService {
	if log == nil {
		log = logger.Default()
	}
	return &dbManagerService{
		source: source,
		status: status,
		users:  users,
		plans:  plans,
		log:    log.With("service", "dbmanager", "source", source),
	}
}

func (s *dbManagerService) Source() string { return s.source }

func (s *dbManagerService) Notice() string {
	if s.source != config.SourceLocal {
		return ""
	}
	switch s.status {
	case cache.StatusSeeded:
		return "Loaded the bundled sample data."
	case cache.StatusRecovered:
		return "Local data could not be read and was reset to the bundled sample data."
	}
	return ""
}

func (s *dbManagerService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *dbManagerService) AddUser(ctx context.Context, user domain.NewUser) (domain.User, error) {
	return s.users.Add(ctx, user)
}

func (s *dbManagerService) DeleteUser(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

func (s *dbManagerService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return s.plans.List(ctx)
}

func (s *dbManagerService) AddPlan(ctx context.Context, plan domain.NewPlan) (domain.Plan, error) {
	return s.plans.Add(ctx, plan)
}

func (s *dbManagerService) DeletePlan(ctx context.Context, id int64) error {
	return s.plans.Delete(ctx, id)
}

func (s *dbManagerService) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return cache.Filter(users, cache.UserMatches(query)), nil
}

func (s *dbManagerService) SearchPlans(ctx context.Context, query string) ([]domain.Plan, error) {
	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, err
	}
	return cache.Filter(plans, cache.PlanMatches(query)), nil
}

func (s *dbManagerService) Stats(ctx context.Context) (cache.Stats, error) {
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
