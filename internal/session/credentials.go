package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/gateway"

	"golang.org/x/crypto/bcrypt"
)

// Fixed staff accounts. They exist only in this package.
const (
	adminEmail        = "admin@fitwise.com"
	adminPassword     = "admin123"
	dbManagerEmail    = "dbmanager@gmail.com"
	dbManagerPassword = "db123"
)

// CredentialChecker verifies an email/password pair and returns the identity to attach
// to the new Session. It returns domain.ErrInvalidCredentials on a mismatch.
type CredentialChecker interface {
	Verify(ctx context.Context, email, password string) (domain.Profile, error)
}

// Checkers maps each loginable role to the checker that guards it.
type Checkers map[domain.Role]CredentialChecker

// staticChecker compares against one constant pair, kept as a bcrypt hash.
type staticChecker struct {
	email    string
	hash     []byte
	identity domain.Profile
}

// NewStaticChecker returns a checker accepting exactly email/password.
func NewStaticChecker(email, password string, identity domain.Profile) (CredentialChecker, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash static credential: %w", err)
	}
	return &staticChecker{email: email, hash: hash, identity: identity}, nil
}

func (c *staticChecker) Verify(_ context.Context, email, password string) (domain.Profile, error) {
	if email == "" || password == "" {
		return domain.Profile{}, domain.Invalid("", "email and password cannot be empty")
	}
	// Always pay for the hash comparison so a wrong email costs the same as a wrong password.
	hashErr := bcrypt.CompareHashAndPassword(c.hash, []byte(password))
	if email != c.email || hashErr != nil {
		return domain.Profile{}, domain.ErrInvalidCredentials
	}
	return c.identity, nil
}

// AdminIdentity and DBManagerIdentity are the fixed identities of the staff roles.
var (
	AdminIdentity     = domain.Profile{Name: "Super Admin", Email: adminEmail}
	DBManagerIdentity = domain.Profile{Name: "DB Manager", Email: dbManagerEmail}
)

// Authenticator is the part of the gateway used to log members in.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.Profile, error)
}

// remoteChecker delegates member logins to the backend.
type remoteChecker struct {
	auth Authenticator
}

// NewRemoteChecker returns a checker backed by the remote /login endpoint.
func NewRemoteChecker(auth Authenticator) CredentialChecker {
	return &remoteChecker{auth: auth}
}

func (c *remoteChecker) Verify(ctx context.Context, email, password string) (domain.Profile, error) {
	profile, err := c.auth.Login(ctx, email, password)
	if err != nil {
		var re *domain.RemoteError
		if errors.As(err, &re) && errors.Is(re.Kind, domain.ErrRemoteRejected) &&
			(re.Status == http.StatusUnauthorized || re.Status == http.StatusBadRequest || re.Status == http.StatusNotFound) {
			return domain.Profile{}, fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, re.Message)
		}
		return domain.Profile{}, err
	}
	return *profile, nil
}

// DefaultCheckers wires the member checker to gw and the staff checkers to the fixed accounts.
func DefaultCheckers(gw gateway.Gateway) (Checkers, error) {
	admin, err := NewStaticChecker(adminEmail, adminPassword, AdminIdentity)
	if err != nil {
		return nil, err
	}
	dbm, err := NewStaticChecker(dbManagerEmail, dbManagerPassword, DBManagerIdentity)
	if err != nil {
		return nil, err
	}
	return Checkers{
		domain.RoleUser:      NewRemoteChecker(gw),
		domain.RoleAdmin:     admin,
		domain.RoleDBManager: dbm,
	}, nil
}
