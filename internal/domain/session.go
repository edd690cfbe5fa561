package domain

import "time"

// Session records who is authenticated and under what role.
// The zero value is not used; Anonymous() is the logged-out session.
type Session struct {
	ID        string    `json:"id,omitempty"`
	Role      Role      `json:"role"`
	Identity  *Profile  `json:"identity,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Anonymous returns the session of a visitor who is not logged in.
func Anonymous() Session {
	return Session{Role: RoleAnonymous}
}

// IsAuthenticated reports whether s carries a non-anonymous role.
func (s Session) IsAuthenticated() bool {
	return s.Role != "" && s.Role != RoleAnonymous
}

// Feedback is a member's rating and comment.
type Feedback struct {
	ID          int64     `json:"feedback_id"`
	UserName    string    `json:"user_name"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	Rating      int       `json:"rating"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// FeedbackRequest is what a member submits through the remote service.
type FeedbackRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Feedback string `json:"feedback" validate:"required"`
}

// SignupRequest registers a new member on the remote service.
type SignupRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Age      int     `json:"age" validate:"required,gt=0"`
	Gender   string  `json:"gender" validate:"required"`
	HeightCM float64 `json:"height_cm" validate:"required,gt=0"`
	WeightKG float64 `json:"weight_kg" validate:"required,gt=0"`
}
