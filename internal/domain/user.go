package domain

// Role determines which views a Session may enter.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleDBManager Role = "db_manager"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAnonymous, RoleUser, RoleAdmin, RoleDBManager:
		return true
	}
	return false
}

// User is a member record, owned either by the remote service or by the local cache.
type User struct {
	ID           int64   `json:"user_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`                   // Should be unique, not enforced
	PasswordHash string  `json:"password_hash,omitempty"` // bcrypt; stripped before leaving the core
	Age          int     `json:"age,omitempty"`
	Gender       string  `json:"gender,omitempty"`
	HeightCM     float64 `json:"height_cm,omitempty"`
	WeightKG     float64 `json:"weight_kg,omitempty"`
}

// Public returns a copy of u without the password hash.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// NewUser carries the fields needed to create a User in either store.
type NewUser struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Age      int     `json:"age,omitempty" validate:"gte=0"`
	Gender   string  `json:"gender,omitempty"`
	HeightCM float64 `json:"height_cm,omitempty" validate:"gte=0"`
	WeightKG float64 `json:"weight_kg,omitempty" validate:"gte=0"`
}

// Profile is the identity attached to a logged-in Session.
// For RoleUser it is the record returned by the remote login.
type Profile struct {
	UserID   int64   `json:"user_id,omitempty"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Age      int     `json:"age,omitempty"`
	Gender   string  `json:"gender,omitempty"`
	HeightCM float64 `json:"height_cm,omitempty"`
	WeightKG float64 `json:"weight_kg,omitempty"`
	Goal     string  `json:"goal,omitempty"`
}
