package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
	ErrEmptySecret  = errors.New("jwtx: empty secret")
)

// DefaultLeeway is the clock skew tolerated on exp/nbf.
const DefaultLeeway = 30 * time.Second

// HS256Verifier validates JWTs signed with a shared HMAC secret.
type HS256Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
}

// NewHS256 returns a verifier for the shared secret. An empty issuer
// disables the issuer check.
func NewHS256(secret []byte, issuer string) (*HS256Verifier, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &HS256Verifier{
		secret: secret,
		issuer: issuer,
		leeway: DefaultLeeway,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	// exp/nbf are checked below with our own clock and leeway.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return Claims{}, ErrMalformed
		}
		return Claims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}
	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiryWithLeeway(v.now(), v.leeway); err != nil {
		return Claims{}, err
	}
	return *claims, nil
}

// SignHS256 signs claims with secret. The API never mints tokens itself;
// this exists for operators' tooling and tests.
func SignHS256(secret []byte, c Claims) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}
