package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("test-secret", time.Hour, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", time.Hour, bcrypt.MinCost)
	if !errors.Is(err, ErrMissingSecret) {
		t.Errorf("NewManager(\"\") error = %v, want ErrMissingSecret", err)
	}
}

func TestNewManagerRejectsNonPositiveTTL(t *testing.T) {
	if _, err := NewManager("secret", 0, bcrypt.MinCost); err == nil {
		t.Error("NewManager() with zero ttl succeeded, want error")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	m := newTestManager(t)

	hash, err := m.HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct-horse-battery" {
		t.Fatal("HashPassword() returned the plaintext password")
	}

	if err := m.CheckPassword(hash, "correct-horse-battery"); err != nil {
		t.Errorf("CheckPassword() with correct password error = %v", err)
	}
	if err := m.CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() with wrong password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestHashPasswordRejectsShortPasswords(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.HashPassword("short"); err == nil {
		t.Error("HashPassword() with short password succeeded, want error")
	}
}

func TestIssueAndVerifyToken(t *testing.T) {
	m := newTestManager(t)

	token, err := m.IssueToken("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	claims, err := m.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "alice@example.com")
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	m := newTestManager(t)
	other, err := NewManager("other-secret", time.Hour, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	token, err := other.IssueToken("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	if _, err := m.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyToken() with foreign token error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	m := newTestManager(t)

	claims := Claims{
		UserID: "user-1",
		Email:  "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			Subject:   "user-1",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := m.VerifyToken(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyToken() with expired token error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.VerifyToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyToken() with garbage error = %v, want ErrInvalidToken", err)
	}
}
