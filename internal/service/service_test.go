package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"fitwise/fitness-client/internal/cache"
	"fitwise/fitness-client/internal/config"
	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/gateway"
	"fitwise/fitness-client/internal/logger"
	"fitwise/fitness-client/internal/session"
	"fitwise/fitness-client/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway answers only the operations a test sets; anything else panics through
// the nil embedded interface.
type fakeGateway struct {
	gateway.Gateway
	profile  *domain.Profile
	goal     string
	goalErr  error
	updErr   error
	updated  []domain.UpdateProfileRequest
	created  []domain.CreatePlanRequest
	feedback []domain.FeedbackRequest
	signups  []domain.SignupRequest
	listErr  error
}

func (f *fakeGateway) Login(_ context.Context, email, _ string) (*domain.Profile, error) {
	if f.profile == nil || f.profile.Email != email {
		return nil, &domain.RemoteError{Op: "login", Kind: domain.ErrRemoteRejected, Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	p := *f.profile
	return &p, nil
}

func (f *fakeGateway) Signup(_ context.Context, req domain.SignupRequest) error {
	if err := domain.Validate(req); err != nil {
		return err
	}
	f.signups = append(f.signups, req)
	return nil
}

func (f *fakeGateway) FetchGoal(context.Context, int64) (string, error) { return f.goal, f.goalErr }

func (f *fakeGateway) CreatePlan(_ context.Context, req domain.CreatePlanRequest) error {
	f.created = append(f.created, req)
	return nil
}

func (f *fakeGateway) UpdateProfile(_ context.Context, req domain.UpdateProfileRequest) error {
	if f.updErr != nil {
		return f.updErr
	}
	f.updated = append(f.updated, req)
	return nil
}

func (f *fakeGateway) SubmitFeedback(_ context.Context, req domain.FeedbackRequest) error {
	f.feedback = append(f.feedback, req)
	return nil
}

func (f *fakeGateway) ListUsers(context.Context) ([]domain.User, error) { return nil, f.listErr }

func newSessions(t *testing.T, gw *fakeGateway) *session.Store {
	t.Helper()
	s, err := session.NewStore(storage.NewMemoryStore(), session.Config{Secret: "test"},
		session.Checkers{domain.RoleUser: session.NewRemoteChecker(gw)}, logger.Discard())
	require.NoError(t, err)
	return s
}

var asha = &domain.Profile{UserID: 7, Name: "Asha", Email: "asha@example.com", HeightCM: 165, WeightKG: 62, Goal: "weight loss"}

func loggedInMember(t *testing.T, gw *fakeGateway) *session.Store {
	t.Helper()
	gw.profile = asha
	sessions := newSessions(t, gw)
	_, err := sessions.Login(context.Background(), domain.RoleUser, asha.Email, "pw")
	require.NoError(t, err)
	return sessions
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("Should sign up without logging in", func(t *testing.T) {
		gw := &fakeGateway{}
		auth := NewAuthService(newSessions(t, gw), gw, logger.Discard())
		err := auth.Signup(ctx, domain.SignupRequest{Name: "A", Email: "a@b.c", Password: "pw", Age: 30, Gender: "Female", HeightCM: 160, WeightKG: 55})
		require.NoError(t, err)
		assert.Len(t, gw.signups, 1)
		assert.False(t, auth.Current().IsAuthenticated())
	})
	t.Run("Should reject an incomplete signup", func(t *testing.T) {
		gw := &fakeGateway{}
		auth := NewAuthService(newSessions(t, gw), gw, logger.Discard())
		err := auth.Signup(ctx, domain.SignupRequest{Name: "A"})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, gw.signups)
	})
	t.Run("Should log in, restore and log out", func(t *testing.T) {
		gw := &fakeGateway{profile: asha}
		sessions := newSessions(t, gw)
		auth := NewAuthService(sessions, gw, logger.Discard())

		sess, err := auth.Login(ctx, domain.RoleUser, asha.Email, "pw")
		require.NoError(t, err)
		assert.Equal(t, sess, auth.Current())

		restored, ok := auth.Restore(ctx)
		require.True(t, ok)
		assert.Equal(t, sess.ID, restored.ID)

		require.NoError(t, auth.Logout(ctx))
		assert.Equal(t, domain.RoleAnonymous, auth.Current().Role)
	})
	t.Run("Should report wrong credentials", func(t *testing.T) {
		gw := &fakeGateway{profile: asha}
		auth := NewAuthService(newSessions(t, gw), gw, logger.Discard())
		_, err := auth.Login(ctx, domain.RoleUser, "nobody@example.com", "pw")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestMemberService(t *testing.T) {
	ctx := context.Background()

	t.Run("Should require a member session", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := NewMemberService(newSessions(t, gw), gw, logger.Discard())
		_, err := svc.Goal(ctx)
		assert.ErrorIs(t, err, ErrWrongRole)
		assert.ErrorIs(t, svc.CreatePlan(ctx, "veg", "Mine"), ErrWrongRole)
		_, err = svc.UpdateProfile(ctx, 170, 60, "muscle gain")
		assert.ErrorIs(t, err, ErrWrongRole)
		_, err = svc.GeneratePlan(ctx, domain.PlanRequest{})
		assert.ErrorIs(t, err, ErrWrongRole)
	})
	t.Run("Should return the stored goal", func(t *testing.T) {
		gw := &fakeGateway{goal: "muscle gain"}
		svc := NewMemberService(loggedInMember(t, gw), gw, logger.Discard())
		goal, err := svc.Goal(ctx)
		require.NoError(t, err)
		assert.Equal(t, "muscle gain", goal)
	})
	t.Run("Should fall back to general fitness", func(t *testing.T) {
		for _, gw := range []*fakeGateway{
			{goalErr: &domain.RemoteError{Op: "fetch-goal", Kind: domain.ErrRemoteUnreachable, Err: errors.New("refused")}},
			{goal: ""},
		} {
			svc := NewMemberService(loggedInMember(t, gw), gw, logger.Discard())
			goal, err := svc.Goal(ctx)
			require.NoError(t, err)
			assert.Equal(t, domain.GoalGeneralFitness, goal)
		}
	})
	t.Run("Should create a plan for the logged-in member", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := NewMemberService(loggedInMember(t, gw), gw, logger.Discard())
		require.NoError(t, svc.CreatePlan(ctx, "veg", "Summer cut"))
		assert.Equal(t, []domain.CreatePlanRequest{{UserID: 7, PlanType: "veg", PlanName: "Summer cut"}}, gw.created)
	})
	t.Run("Should rewrite the session identity after a profile update", func(t *testing.T) {
		gw := &fakeGateway{}
		sessions := loggedInMember(t, gw)
		svc := NewMemberService(sessions, gw, logger.Discard())

		sess, err := svc.UpdateProfile(ctx, 166, 60, "muscle gain")
		require.NoError(t, err)
		assert.Equal(t, []domain.UpdateProfileRequest{{UserID: 7, HeightCM: 166, WeightKG: 60, Goal: "muscle gain"}}, gw.updated)
		assert.Equal(t, "muscle gain", sess.Identity.Goal)
		assert.Equal(t, 60.0, sessions.Current().Identity.WeightKG)
		assert.Equal(t, "Asha", sessions.Current().Identity.Name)
	})
	t.Run("Should keep the identity when the backend refuses the update", func(t *testing.T) {
		gw := &fakeGateway{updErr: &domain.RemoteError{Op: "update-profile", Kind: domain.ErrRemoteRejected, Status: 400, Message: "bad"}}
		sessions := loggedInMember(t, gw)
		svc := NewMemberService(sessions, gw, logger.Discard())

		_, err := svc.UpdateProfile(ctx, 166, 60, "muscle gain")
		assert.ErrorIs(t, err, domain.ErrRemoteRejected)
		assert.Equal(t, *asha, *sessions.Current().Identity)
	})
	t.Run("Should accept feedback from anyone", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := NewMemberService(newSessions(t, gw), gw, logger.Discard())
		require.NoError(t, svc.SubmitFeedback(ctx, domain.FeedbackRequest{Name: "V", Email: "v@example.com", Feedback: "Nice"}))
		assert.Len(t, gw.feedback, 1)
	})
}

func TestAdminService(t *testing.T) {
	ctx := context.Background()
	feedback, err := LoadFeedbackSnapshot()
	require.NoError(t, err)
	require.NotEmpty(t, feedback)
	assert.Equal(t, int64(1), feedback[0].ID)
	assert.False(t, feedback[0].SubmittedAt.IsZero())

	local, err := cache.Open(ctx, storage.NewMemoryStore(), logger.Discard())
	require.NoError(t, err)
	svc := NewAdminService(local.Users(), local.Plans(), feedback, logger.Discard())

	t.Run("Should hand out a copy of the feedback snapshot", func(t *testing.T) {
		got := svc.Feedback()
		got[0].Message = "changed"
		assert.Equal(t, feedback[0].Message, svc.Feedback()[0].Message)
	})
	t.Run("Should manage users and plans through the repositories", func(t *testing.T) {
		u, err := svc.AddUser(ctx, domain.NewUser{Name: "A", Email: "a@b.c", Password: "pw"})
		require.NoError(t, err)
		users, err := svc.ListUsers(ctx)
		require.NoError(t, err)
		assert.Contains(t, users, u)
		require.NoError(t, svc.DeleteUser(ctx, u.ID))
		require.NoError(t, svc.DeletePlan(ctx, 1))
		plans, err := svc.ListPlans(ctx)
		require.NoError(t, err)
		assert.Len(t, plans, 5)
	})
	t.Run("Should count users per gender and plans per goal", func(t *testing.T) {
		st, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 6, st.Users)
		assert.Equal(t, 5, st.Plans)
		assert.Equal(t, map[string]int{"male": 3, "female": 3}, st.UsersPerGender)
		assert.Equal(t, map[string]int{"muscle gain": 1, "weight loss": 2, "general fitness": 2}, st.PlansPerGoal)
	})
	t.Run("Should surface a backend failure from the stats", func(t *testing.T) {
		gw := &fakeGateway{listErr: &domain.RemoteError{Op: "list-users", Kind: domain.ErrRemoteUnreachable}}
		remote := NewAdminService(gateway.NewUserRepository(gw), gateway.NewPlanRepository(gw), feedback, logger.Discard())
		_, err := remote.Stats(ctx)
		assert.ErrorIs(t, err, domain.ErrRemoteUnreachable)
	})
}

func TestDBManagerService(t *testing.T) {
	ctx := context.Background()
	local, err := cache.Open(ctx, storage.NewMemoryStore(), logger.Discard())
	require.NoError(t, err)

	t.Run("Should describe how local data was loaded", func(t *testing.T) {
		assert.Contains(t, NewDBManagerService(config.SourceLocal, local.Users(), local.Plans(), cache.StatusSeeded, nil).Notice(), "sample data")
		assert.Contains(t, NewDBManagerService(config.SourceLocal, local.Users(), local.Plans(), cache.StatusRecovered, nil).Notice(), "reset")
		assert.Empty(t, NewDBManagerService(config.SourceLocal, local.Users(), local.Plans(), cache.StatusRestored, nil).Notice())
		assert.Empty(t, NewDBManagerService(config.SourceRemote, local.Users(), local.Plans(), cache.StatusRecovered, nil).Notice())
	})
	t.Run("Should search and summarize the configured repositories", func(t *testing.T) {
		svc := NewDBManagerService(config.SourceLocal, local.Users(), local.Plans(), local.Status(), logger.Discard())
		assert.Equal(t, config.SourceLocal, svc.Source())

		users, err := svc.SearchUsers(ctx, "rao")
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Ananya Rao", users[0].Name)

		plans, err := svc.SearchPlans(ctx, "MUSCLE")
		require.NoError(t, err)
		assert.Len(t, plans, 2)

		p, err := svc.AddPlan(ctx, domain.NewPlan{Name: "Desk Stretch", Goal: "general fitness"})
		require.NoError(t, err)
		st, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, st.PlansPerGoal["general fitness"])
		require.NoError(t, svc.DeletePlan(ctx, p.ID))
	})
}
