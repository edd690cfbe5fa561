package service

import (
	"context"

	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/gateway"
	"fitwise/fitness-client/internal/logger"
)

// MemberService holds the dashboard use cases of a logged-in member.
type MemberService interface {
	// Goal returns the member's latest goal, or general fitness when it cannot be looked up.
	Goal(ctx context.Context) (string, error)
	CreatePlan(ctx context.Context, planType, planName string) error
	UpdateProfile(ctx context.Context, heightCM, weightKG float64, goal string) (domain.Session, error)
	GeneratePlan(ctx context.Context, req domain.PlanRequest) (*domain.GeneratedPlan, error)
	// SubmitFeedback is open to every visitor; it never touches the admin snapshot.
	SubmitFeedback(ctx context.Context, req domain.FeedbackRequest) error
}

type memberService struct {
	sessions SessionStore
	remote   gateway.Gateway
	log      logger.Logger
}

// NewMemberService creates a new instance of memberService.
func NewMemberService(sessions SessionStore, remote gateway.Gateway, log logger.Logger) MemberService {
	if log == nil {
		log = logger.Default()
	}
	return &memberService{sessions: sessions, remote: remote, log: log.With("service", "member")}
}

func (s *memberService) Goal(ctx context.Context) (string, error) {
	sess, err := requireRole(s.sessions, domain.RoleUser)
	if err != nil {
		return "", err
	}
	goal, err := s.remote.FetchGoal(ctx, sess.Identity.UserID)
	if err != nil {
		s.log.Warn("Goal lookup failed, using default", "user_id", sess.Identity.UserID, "err", err)
		return domain.GoalGeneralFitness, nil
	}
	if goal == "" {
		return domain.GoalGeneralFitness, nil
	}
	return goal, nil
}

func (s *memberService) CreatePlan(ctx context.Context, planType, planName string) error {
	sess, err := requireRole(s.sessions, domain.RoleUser)
	if err != nil {
		return err
	}
	return s.remote.CreatePlan(ctx, domain.CreatePlanRequest{
		UserID:   sess.Identity.UserID,
		PlanType: planType,
		PlanName: planName,
	})
}

// UpdateProfile sends the new metrics to the backend and, once it accepts them, rewrites
// the identity of the current session.
func (s *memberService) UpdateProfile(ctx context.Context, heightCM, weightKG float64, goal string) (domain.Session, error) {
	sess, err := requireRole(s.sessions, domain.RoleUser)
	if err != nil {
		return domain.Session{}, err
	}
	err = s.remote.UpdateProfile(ctx, domain.UpdateProfileRequest{
		UserID:   sess.Identity.UserID,
		HeightCM: heightCM,
		WeightKG: weightKG,
		Goal:     goal,
	})
	if err != nil {
		return domain.Session{}, err
	}

	profile := *sess.Identity
	profile.HeightCM = heightCM
	profile.WeightKG = weightKG
	profile.Goal = goal
	return s.sessions.UpdateIdentity(ctx, profile)
}

func (s *memberService) GeneratePlan(ctx context.Context, req domain.PlanRequest) (*domain.GeneratedPlan, error) {
	if _, err := requireRole(s.sessions, domain.RoleUser); err != nil {
		return nil, err
	}
	return s.remote.GeneratePlan(ctx, req)
}

func (s *memberService) SubmitFeedback(ctx context.Context, req domain.FeedbackRequest) error {
	return s.remote.SubmitFeedback(ctx, req)
}
