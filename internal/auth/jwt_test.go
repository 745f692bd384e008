package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("test-secret")

func sign(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestNewJWTVerifierNeedsKey(t *testing.T) {
	if _, err := NewJWTVerifier(Options{}); !errors.Is(err, ErrNoKey) {
		t.Fatalf("err = %v, want ErrNoKey", err)
	}
	if _, err := NewJWTVerifier(Options{PublicKeyPEM: []byte("not pem")}); err == nil {
		t.Fatal("expected error for a bad public key")
	}
}

func TestVerifyHS256(t *testing.T) {
	v, err := NewJWTVerifier(Options{Secret: secret})
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}

	now := time.Now()
	cases := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{"sub", jwt.MapClaims{"sub": "owner-1", "exp": now.Add(time.Hour).Unix()}, "owner-1"},
		{"user_id fallback", jwt.MapClaims{"user_id": "owner-2"}, "owner-2"},
		{"sub wins", jwt.MapClaims{"sub": "owner-3", "user_id": "other"}, "owner-3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.Verify(sign(t, secret, tc.claims))
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if got != tc.want {
				t.Errorf("owner = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestVerifyRejects(t *testing.T) {
	v, err := NewJWTVerifier(Options{Secret: secret, Issuer: "fintrack"})
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}

	now := time.Now()
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x", "iss": "fintrack"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	cases := map[string]string{
		"garbage":       "not.a.token",
		"wrong secret":  sign(t, []byte("other"), jwt.MapClaims{"sub": "x", "iss": "fintrack"}),
		"expired":       sign(t, secret, jwt.MapClaims{"sub": "x", "iss": "fintrack", "exp": now.Add(-time.Hour).Unix()}),
		"future iat":    sign(t, secret, jwt.MapClaims{"sub": "x", "iss": "fintrack", "iat": now.Add(time.Hour).Unix()}),
		"wrong issuer":  sign(t, secret, jwt.MapClaims{"sub": "x", "iss": "elsewhere"}),
		"no subject":    sign(t, secret, jwt.MapClaims{"iss": "fintrack"}),
		"blank subject": sign(t, secret, jwt.MapClaims{"sub": "  ", "iss": "fintrack"}),
		"alg none":      none,
	}
	for name, tok := range cases {
		if _, err := v.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: err = %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestVerifyRS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("MarshalPKIXPublicKey: %v", err)
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	v, err := NewJWTVerifier(Options{PublicKeyPEM: pemBytes, Secret: secret})
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{"sub": "rsa-owner"}).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	got, err := v.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != "rsa-owner" {
		t.Errorf("owner = %q", got)
	}

	// The public key takes over; HS256 tokens signed with the secret no longer pass.
	if _, err := v.Verify(sign(t, secret, jwt.MapClaims{"sub": "x"})); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("HS256 token accepted by RS256 verifier: %v", err)
	}
}

func TestIssuerRoundTrip(t *testing.T) {
	i := NewIssuer(secret, "fintrack", time.Minute)
	tok, err := i.Issue("owner-9")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	v, err := NewJWTVerifier(Options{Secret: secret, Issuer: "fintrack"})
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}
	got, err := v.Verify(tok)
	if err != nil || got != "owner-9" {
		t.Fatalf("Verify = %q, %v", got, err)
	}

	i.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	stale, err := i.Issue("owner-9")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := v.Verify(stale); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token accepted: %v", err)
	}
}
