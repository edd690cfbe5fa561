package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fitwise/fitness-client/internal/domain"
)

// validated runs request validation and records local rejections.
func validated(op string, req any) error {
	if err := domain.Validate(req); err != nil {
		observe(op, outcomeInvalid)
		return err
	}
	return nil
}

// FetchGoal returns the user's latest goal.
func (c *client) FetchGoal(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", domain.Invalid("user_id", "is required")
	}
	var out struct {
		GoalType *string `json:"goal_type"`
	}
	if err := c.exchange(ctx, "fetch-goal", http.MethodGet, "/get-goal/"+strconv.FormatInt(userID, 10), nil, &out); err != nil {
		return "", err
	}
	if out.GoalType == nil {
		return "", nil
	}
	return *out.GoalType, nil
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a member and returns their profile.
func (c *client) Login(ctx context.Context, email, password string) (*domain.Profile, error) {
	req := loginRequest{Email: email, Password: password}
	if err := validated("login", req); err != nil {
		return nil, err
	}
	var profile domain.Profile
	if err := c.exchange(ctx, "login", http.MethodPost, "/login", req, &profile); err != nil {
		return nil, err
	}
	if profile.Email == "" && profile.UserID == 0 {
		return nil, &domain.RemoteError{Op: "login", Kind: domain.ErrMalformedResponse, Status: http.StatusOK,
			Err: fmt.Errorf("profile has neither user_id nor email")}
	}
	return &profile, nil
}

// Signup registers a new member.
func (c *client) Signup(ctx context.Context, req domain.SignupRequest) error {
	if err := validated("signup", req); err != nil {
		return err
	}
	return c.exchange(ctx, "signup", http.MethodPost, "/signup", req, nil)
}

// CreatePlan saves a named plan for a member.
func (c *client) CreatePlan(ctx context.Context, req domain.CreatePlanRequest) error {
	if err := validated("create-plan", req); err != nil {
		return err
	}
	return c.exchange(ctx, "create-plan", http.MethodPost, "/create-plan", req, nil)
}

// UpdateProfile stores new body metrics and a goal.
func (c *client) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) error {
	if err := validated("update-profile", req); err != nil {
		return err
	}
	return c.exchange(ctx, "update-profile", http.MethodPost, "/update-profile", req, nil)
}

// GeneratePlan asks the backend to build a personal plan. The plan is returned as produced.
func (c *client) GeneratePlan(ctx context.Context, req domain.PlanRequest) (*domain.GeneratedPlan, error) {
	if err := validated("generate-plan", req); err != nil {
		return nil, err
	}
	if req.HealthConditions == nil {
		req.HealthConditions = []string{}
	}
	var out struct {
		Status string          `json:"status"`
		Error  string          `json:"error"`
		Plan   json.RawMessage `json:"plan"`
	}
	if err := c.exchange(ctx, "generate-plan", http.MethodPost, "/generate-plan", req, &out); err != nil {
		return nil, err
	}
	if out.Status != "success" {
		msg := out.Error
		if msg == "" {
			msg = "Failed to generate plan."
		}
		return nil, &domain.RemoteError{Op: "generate-plan", Kind: domain.ErrRemoteRejected, Status: http.StatusOK, Message: msg}
	}
	if len(out.Plan) == 0 || string(out.Plan) == "null" {
		return nil, &domain.RemoteError{Op: "generate-plan", Kind: domain.ErrMalformedResponse, Status: http.StatusOK,
			Err: fmt.Errorf("response has no plan")}
	}
	var plan domain.GeneratedPlan
	if err := json.Unmarshal(out.Plan, &plan); err != nil {
		return nil, &domain.RemoteError{Op: "generate-plan", Kind: domain.ErrMalformedResponse, Status: http.StatusOK, Err: err}
	}
	return &plan, nil
}

// SubmitFeedback sends a member's feedback. It is never merged into the admin snapshot.
func (c *client) SubmitFeedback(ctx context.Context, req domain.FeedbackRequest) error {
	if err := validated("submit-feedback", req); err != nil {
		return err
	}
	var out struct {
		Status string `json:"status"`
	}
	return c.exchange(ctx, "submit-feedback", http.MethodPost, "/api/feedback", req, &out)
}

// --- Admin operations ---

// ListUsers returns every member known to the backend, without password hashes.
func (c *client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.exchange(ctx, "list-users", http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}

type addUserRequest struct {
	domain.NewUser
	Limitations map[string]int `json:"limitations"`
}

// AddUser creates a member from the admin panel.
func (c *client) AddUser(ctx context.Context, user domain.NewUser) (domain.User, error) {
	if err := validated("add-user", user); err != nil {
		return domain.User{}, err
	}
	req := addUserRequest{NewUser: user, Limitations: map[string]int{"max_searches": 0}}
	var out struct {
		UserID int64 `json:"user_id"`
		ID     int64 `json:"id"`
	}
	if err := c.exchange(ctx, "add-user", http.MethodPost, "/admin/add_user", req, &out); err != nil {
		return domain.User{}, err
	}
	id := out.UserID
	if id == 0 {
		id = out.ID
	}
	return domain.User{
		ID:       id,
		Name:     user.Name,
		Email:    user.Email,
		Age:      user.Age,
		Gender:   user.Gender,
		HeightCM: user.HeightCM,
		WeightKG: user.WeightKG,
	}, nil
}

// DeleteUser removes a member. Plans owned by the member are left alone.
func (c *client) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.Invalid("id", "is required")
	}
	return c.exchange(ctx, "delete-user", http.MethodDelete, "/admin/user/"+strconv.FormatInt(id, 10), nil, nil)
}

// remotePlan tolerates the date formats the backend emits.
type remotePlan struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	PlanName  string `json:"plan_name"`
	Goal      string `json:"goal"`
	PlanType  string `json:"plan_type"`
	CreatedAt string `json:"created_at"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// ListPlans returns every plan known to the backend. The full record is kept as Body.
func (c *client) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	var raw []json.RawMessage
	if err := c.exchange(ctx, "list-plans", http.MethodGet, "/admin/plans", nil, &raw); err != nil {
		return nil, err
	}
	plans := make([]domain.Plan, 0, len(raw))
	for _, r := range raw {
		var rp remotePlan
		if err := json.Unmarshal(r, &rp); err != nil {
			return nil, &domain.RemoteError{Op: "list-plans", Kind: domain.ErrMalformedResponse, Status: http.StatusOK, Err: err}
		}
		p := domain.Plan{
			ID:        rp.ID,
			UserID:    rp.UserID,
			Name:      rp.Name,
			Goal:      rp.Goal,
			CreatedAt: parseTime(rp.CreatedAt),
			Body:      r,
		}
		if p.Name == "" {
			p.Name = rp.PlanName
		}
		if p.Goal == "" {
			p.Goal = rp.PlanType
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// DeletePlan removes a plan.
func (c *client) DeletePlan(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.Invalid("id", "is required")
	}
	return c.exchange(ctx, "delete-plan", http.MethodDelete, "/admin/plan/"+strconv.FormatInt(id, 10), nil, nil)
}
