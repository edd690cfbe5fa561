// Package gateway is the thin, fail-fast boundary to the FitWise backend.
// Each operation is one request/response exchange; failures come back as
// *domain.RemoteError classified as rejected, unreachable or malformed.
// Nothing is retried.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/logger"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is where the backend listens in development.
const DefaultBaseURL = "http://localhost:5000"

// Gateway maps each logical backend operation to one HTTP exchange.
type Gateway interface {
	FetchGoal(ctx context.Context, userID int64) (string, error)
	Login(ctx context.Context, email, password string) (*domain.Profile, error)
	Signup(ctx context.Context, req domain.SignupRequest) error
	CreatePlan(ctx context.Context, req domain.CreatePlanRequest) error
	UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) error
	GeneratePlan(ctx context.Context, req domain.PlanRequest) (*domain.GeneratedPlan, error)
	SubmitFeedback(ctx context.Context, req domain.FeedbackRequest) error

	ListUsers(ctx context.Context) ([]domain.User, error)
	AddUser(ctx context.Context, user domain.NewUser) (domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	DeletePlan(ctx context.Context, id int64) error
}

// Config configures the HTTP client.
type Config struct {
	BaseURL string
	Timeout time.Duration // 0 keeps the platform default
}

type client struct {
	http   *resty.Client
	flight singleflight.Group
	log    logger.Logger
}

// New creates a Gateway talking to cfg.BaseURL.
func New(cfg Config, log logger.Logger) Gateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if log == nil {
		log = logger.Default()
	}
	h := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if cfg.Timeout > 0 {
		h.SetTimeout(cfg.Timeout)
	}
	return &client{http: h, log: log.With("component", "gateway")}
}

// exchange performs one request and classifies the outcome. On success, the body is
// decoded into out when out is non-nil.
func (c *client) exchange(ctx context.Context, op, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		if ctx.Err() != nil {
			// The caller stopped waiting; the result, if any, is discarded.
			observe(op, outcomeCanceled)
		} else {
			observe(op, outcomeUnreachable)
			c.log.Warn("Backend unreachable", "op", op, "err", err)
		}
		return &domain.RemoteError{Op: op, Kind: domain.ErrRemoteUnreachable, Err: err}
	}

	if !resp.IsSuccess() {
		observe(op, outcomeRejected)
		msg := serverMessage(resp.Body())
		c.log.Info("Backend rejected request", "op", op, "status", resp.StatusCode(), "message", msg)
		return &domain.RemoteError{Op: op, Kind: domain.ErrRemoteRejected, Status: resp.StatusCode(), Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			observe(op, outcomeMalformed)
			return &domain.RemoteError{Op: op, Kind: domain.ErrMalformedResponse, Status: resp.StatusCode(), Err: err}
		}
	}
	observe(op, outcomeOK)
	return nil
}

// send executes the request. Identical POSTs in flight at the same time share one
// exchange, so a double submit reaches the backend once. The shared exchange is not
// tied to any one caller; a caller that goes away stops waiting without failing the others.
func (c *client) send(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	execute := func(ctx context.Context) (*resty.Response, error) {
		req := c.http.R().SetContext(ctx)
		if body != nil {
			req.SetBody(body)
		}
		return req.Execute(method, path)
	}
	if method != http.MethodPost || body == nil {
		return execute(ctx)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(method+" "+path+" "+string(payload), func() (any, error) {
		return execute(shared)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		resp, ok := res.Val.(*resty.Response)
		if !ok {
			return nil, fmt.Errorf("unexpected shared result %T", res.Val)
		}
		return resp, nil
	}
}

// serverMessage extracts the reason the backend gave, or a generic fallback.
func serverMessage(body []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return "request failed"
}

// IsStatus reports whether err is a rejection with the given HTTP status.
func IsStatus(err error, status int) bool {
	var re *domain.RemoteError
	return errors.As(err, &re) && errors.Is(re.Kind, domain.ErrRemoteRejected) && re.Status == status
}
