package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken reports any verification failure: malformed token,
// bad signature or expired claims. Callers do not need to distinguish
// the cases; the wrapped cause carries the detail for logging.
var ErrInvalidToken = errors.New("invalid token")

// MinSecretLength is the minimum signing secret length in bytes.
const MinSecretLength = 32

// Claims are the payload carried by every access token.
type Claims struct {
	UserID string   `json:"userId,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Provider signs and verifies access tokens with a shared HMAC secret.
// It holds no mutable state and is safe for unlimited concurrent use.
type Provider struct {
	secret []byte
	ttl    time.Duration
}

// NewProvider creates a Provider. A secret shorter than MinSecretLength
// is rejected so a weak key can never make it past process start.
func NewProvider(secret string, ttl time.Duration) (*Provider, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Provider{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured access token lifetime.
func (p *Provider) TTL() time.Duration {
	return p.ttl
}

// Issue creates a signed access token for the given subject.
func (p *Provider) Issue(subject, userID string, roles []string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the claims. Every
// failure mode collapses into ErrInvalidToken; the cause is wrapped.
func (p *Provider) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return p.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractSubject returns the subject of a verified token. It fails the
// same way Verify does on an invalid token.
func (p *Provider) ExtractSubject(tokenString string) (string, error) {
	claims, err := p.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractRoles returns the roles claim of a verified token.
func (p *Provider) ExtractRoles(tokenString string) ([]string, error) {
	claims, err := p.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	return claims.Roles, nil
}
