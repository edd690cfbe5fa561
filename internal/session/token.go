package session

import (
	"errors"
	"fmt"
	"time"

	"fitwise/fitness-client/internal/domain"

	"github.com/golang-jwt/jwt/v4"
)

const tokenIssuer = "fitwise-client"

// sessionClaims is the durable form of a Session: one signed, tagged record,
// so there is never more than one role marker in storage.
type sessionClaims struct {
	Role      domain.Role     `json:"role"`
	Identity  *domain.Profile `json:"identity,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	jwt.RegisteredClaims
}

type tokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func (c tokenCodec) encode(s domain.Session) (string, error) {
	claims := &sessionClaims{
		Role:      s.Role,
		Identity:  s.Identity,
		CreatedAt: s.CreatedAt,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       s.ID,
			Subject:  string(s.Role),
			Issuer:   tokenIssuer,
			IssuedAt: jwt.NewNumericDate(s.CreatedAt),
		},
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(s.CreatedAt.Add(c.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c tokenCodec) decode(raw string) (domain.Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	if !token.Valid {
		return domain.Session{}, errors.New("invalid session token")
	}
	if !claims.Role.Valid() || claims.Role == domain.RoleAnonymous {
		return domain.Session{}, fmt.Errorf("session token carries role %q", claims.Role)
	}
	if claims.Identity == nil {
		return domain.Session{}, errors.New("session token has no identity")
	}
	return domain.Session{
		ID:        claims.ID,
		Role:      claims.Role,
		Identity:  claims.Identity,
		CreatedAt: claims.CreatedAt,
	}, nil
}
