// Package auth verifies identity-provider bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/internal/accountcontext"
	"github.com/smallbiznis/garagebook/internal/config"
)

var (
	ErrMissingToken  = errors.New("missing_token")
	ErrInvalidToken  = errors.New("invalid_token")
	ErrNotConfigured = errors.New("auth_not_configured")
)

// Claims are the fields read from an identity-provider access token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Verifier interface {
	Verify(token string) (accountcontext.Identity, error)
}

// Options configures HS256 verification. Issuer and Audience are only
// checked when set.
type Options struct {
	Secret   string
	Issuer   string
	Audience string
	Leeway   time.Duration
}

type hs256Verifier struct {
	opts   Options
	parser *jwt.Parser
	now    func() time.Time
}

func NewVerifier(cfg config.Config) Verifier {
	return NewHS256Verifier(Options{
		Secret:   cfg.AuthJWTSecret,
		Issuer:   cfg.AuthJWTIssuer,
		Audience: cfg.AuthJWTAudience,
		Leeway:   30 * time.Second,
	})
}

func NewHS256Verifier(opts Options) Verifier {
	return &hs256Verifier{
		opts:   opts,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation()),
		now:    time.Now,
	}
}

// Verify checks the signature and standard claims and maps the subject to
// an account id.
func (v *hs256Verifier) Verify(token string) (accountcontext.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return accountcontext.Identity{}, ErrMissingToken
	}
	if v.opts.Secret == "" {
		return accountcontext.Identity{}, ErrNotConfigured
	}

	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(v.opts.Secret), nil
	})
	if err != nil {
		return accountcontext.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if err := v.validate(claims); err != nil {
		return accountcontext.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil || accountID == uuid.Nil {
		return accountcontext.Identity{}, fmt.Errorf("%w: subject is not a uuid", ErrInvalidToken)
	}

	return accountcontext.Identity{
		AccountID: accountID,
		Email:     strings.TrimSpace(claims.Email),
	}, nil
}

func (v *hs256Verifier) validate(claims *Claims) error {
	now := v.now()
	if claims.ExpiresAt == nil {
		return errors.New("token has no expiry")
	}
	if now.After(claims.ExpiresAt.Add(v.opts.Leeway)) {
		return errors.New("token is expired")
	}
	if claims.NotBefore != nil && now.Add(v.opts.Leeway).Before(claims.NotBefore.Time) {
		return errors.New("token is not valid yet")
	}
	if v.opts.Issuer != "" && !claims.VerifyIssuer(v.opts.Issuer, true) {
		return errors.New("unexpected issuer")
	}
	if v.opts.Audience != "" && !claims.VerifyAudience(v.opts.Audience, true) {
		return errors.New("unexpected audience")
	}
	return nil
}
