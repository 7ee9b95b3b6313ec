package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xactions/a2a-runtime/internal/apperr"
)

const (
	issuer   = "xactions"
	audience = "a2a"
)

// Claims is the JWT payload spec.md §4.6 describes: {sub, iss, aud, iat,
// exp, permissions}.
type Claims struct {
	jwt.RegisteredClaims
	Permissions []Permission `json:"permissions"`
}

// TokenService issues and verifies HMAC-signed JWTs with a single process
// secret.
type TokenService struct {
	secret []byte
}

// NewTokenService wraps a signing secret. Callers obtain the secret via
// LoadOrCreateSecret so it's never an empty key.
func NewTokenService(secret []byte) *TokenService {
	return &TokenService{secret: secret}
}

// Issue mints an HS256 JWT for agentID with the given permissions and ttl.
func (t *TokenService) Issue(agentID string, perms []Permission, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   agentID,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Permissions: perms,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", apperr.New(apperr.ErrCodeInternal, "failed to sign token", err)
	}
	return signed, nil
}

// Verify parses and validates a token, recomputing and constant-time
// comparing the signature (golang-jwt's HS256 verifier uses hmac.Equal
// internally) and rejecting malformed structure or an expired exp, per
// spec.md §4.6.
func (t *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.New(apperr.ErrCodeAuthMalformed, "unexpected signing method", nil)
		}
		return t.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(audience))

	if err != nil {
		return nil, apperr.New(apperr.ErrCodeAuthInvalidToken, "token verification failed", err)
	}
	if !parsed.Valid {
		return nil, apperr.New(apperr.ErrCodeAuthInvalidToken, "token is not valid", nil)
	}
	return claims, nil
}

// Refresh exchanges a valid token for a new one with a fresh expiry and
// the same subject and permissions (spec.md §4.6).
func (t *TokenService) Refresh(tokenString string, ttl time.Duration) (string, error) {
	claims, err := t.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return t.Issue(claims.Subject, claims.Permissions, ttl)
}

// HasPermission returns true iff admin is present in granted, or required
// is present in granted (spec.md §4.6).
func HasPermission(granted []Permission, required Permission) bool {
	for _, p := range granted {
		if p == PermAdmin || p == required {
			return true
		}
	}
	return false
}
