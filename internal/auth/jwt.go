package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoKey        = errors.New("auth: neither JWT secret nor public key configured")
)

// Verifier resolves a bearer credential to a stable owner id.
type Verifier interface {
	Verify(token string) (string, error)
}

type Options struct {
	// Secret enables HS256 verification with a shared secret.
	Secret []byte
	// PublicKeyPEM enables RS256 verification; it wins over Secret.
	PublicKeyPEM []byte
	// Issuer, if set, must match the iss claim.
	Issuer string
	Leeway time.Duration
}

type JWTVerifier struct {
	key     any
	methods []string
	opts    []jwt.ParserOption
}

func NewJWTVerifier(o Options) (*JWTVerifier, error) {
	v := &JWTVerifier{}

	switch {
	case len(o.PublicKeyPEM) > 0:
		key, err := jwt.ParseRSAPublicKeyFromPEM(o.PublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("auth: parse public key: %w", err)
		}
		v.key = key
		v.methods = []string{jwt.SigningMethodRS256.Alg(), jwt.SigningMethodRS384.Alg(), jwt.SigningMethodRS512.Alg()}
	case len(o.Secret) > 0:
		v.key = o.Secret
		v.methods = []string{jwt.SigningMethodHS256.Alg()}
	default:
		return nil, ErrNoKey
	}

	v.opts = []jwt.ParserOption{jwt.WithValidMethods(v.methods), jwt.WithIssuedAt()}
	if o.Issuer != "" {
		v.opts = append(v.opts, jwt.WithIssuer(o.Issuer))
	}
	if o.Leeway > 0 {
		v.opts = append(v.opts, jwt.WithLeeway(o.Leeway))
	}
	return v, nil
}

// Verify checks the signature and time claims and returns the owner id from
// the sub claim, falling back to user_id.
func (v *JWTVerifier) Verify(raw string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, v.opts...)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	for _, name := range []string{"sub", "user_id"} {
		if s, ok := claims[name].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), nil
		}
	}
	return "", fmt.Errorf("%w: no subject", ErrInvalidToken)
}
