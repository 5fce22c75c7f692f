package websocket

import (
	"context"
	"errors"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when a session token fails validation
var ErrInvalidToken = errors.New("invalid token")

// Session is what a validated token grants a connection
type Session struct {
	AccountID uuid.UUID
	// ExpiresAt is zero when the token carries no expiry
	ExpiresAt time.Time
}

// TokenValidator checks session tokens presented on the websocket upgrade
type TokenValidator struct {
	validator *validator.Validator
}

// NewTokenValidator creates a validator for HS256 tokens signed with secret
func NewTokenValidator(secret []byte, issuer, audience string) (*TokenValidator, error) {
	v, err := validator.New(
		func(context.Context) (interface{}, error) { return secret, nil },
		validator.HS256,
		issuer,
		[]string{audience},
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}
	return &TokenValidator{validator: v}, nil
}

// ValidateToken returns the account in the token subject and when the token expires
func (v *TokenValidator) ValidateToken(ctx context.Context, token string) (Session, error) {
	claims, err := v.validator.ValidateToken(ctx, token)
	if err != nil {
		return Session{}, ErrInvalidToken
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return Session{}, ErrInvalidToken
	}

	accountID, err := uuid.Parse(validated.RegisteredClaims.Subject)
	if err != nil {
		return Session{}, ErrInvalidToken
	}

	session := Session{AccountID: accountID}
	if exp := validated.RegisteredClaims.Expiry; exp != 0 {
		session.ExpiresAt = time.Unix(exp, 0)
	}
	return session, nil
}
