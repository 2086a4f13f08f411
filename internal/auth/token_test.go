package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSigningKey = "test-signing-key-at-least-32-bytes!!"

func TestTokenIssuer_RoundTrip(t *testing.T) {
	ti := NewTokenIssuer(testSigningKey, time.Hour)

	token, expiresAt, err := ti.Issue("user-1", "jane@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) <= 59*time.Minute {
		t.Errorf("expiresAt = %v, want about one hour from now", expiresAt)
	}

	claims, err := ti.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want user-1", claims.Subject)
	}
	if claims.Email != "jane@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	ti := NewTokenIssuer(testSigningKey, time.Minute)
	ti.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := ti.Issue("user-1", "jane@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	ti.now = time.Now
	if _, err := ti.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(expired) = %v, want ErrInvalidToken", err)
	}
}

func TestTokenIssuer_WrongKey(t *testing.T) {
	token, _, err := NewTokenIssuer(testSigningKey, time.Hour).Issue("user-1", "a@b.co")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := NewTokenIssuer("another-signing-key-at-least-32-bytes", time.Hour)
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(wrong key) = %v, want ErrInvalidToken", err)
	}
}

func TestTokenIssuer_RejectsNoneAlg(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing none token: %v", err)
	}

	ti := NewTokenIssuer(testSigningKey, time.Hour)
	if _, err := ti.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(alg=none) = %v, want ErrInvalidToken", err)
	}
}

func TestTokenIssuer_Garbage(t *testing.T) {
	ti := NewTokenIssuer(testSigningKey, time.Hour)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := ti.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", tok, err)
		}
	}
}
