// Package token mints and verifies the stateless session tokens carried in
// the session cookie. There is no server-side session table: a token is valid
// until its embedded expiry, and rotating the signing secret invalidates every
// outstanding token.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the single failure mode of Verify. Missing, malformed,
// expired and mis-signed tokens all collapse into it so callers cannot leak
// which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified payload of a session token.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Issuer)

// WithClock replaces the wall clock, so expiry behavior is testable.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

func NewIssuer(secret string, ttl time.Duration, opts ...Option) *Issuer {
	i := &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue signs an identity payload with an expiry ttl from now.
func (i *Issuer) Issue(ident Identity) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":   ident.UserID.String(),
		"email": ident.Email,
		"name":  ident.DisplayName,
		"iat":   now.Unix(),
		"exp":   now.Add(i.ttl).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Verify checks signature and expiry and returns the embedded identity.
// Every failure is ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrInvalidToken
	}

	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !tok.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return Identity{
		UserID:      userID,
		Email:       email,
		DisplayName: name,
	}, nil
}
