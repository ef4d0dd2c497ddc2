package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/config"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
)

func testManager() *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:         "test-secret-test-secret-test-secret",
		AccessTokenTTL: time.Minute,
		Issuer:         "medscript-test",
	})
}

func TestGenerateAndValidate(t *testing.T) {
	m := testManager()
	token, _, err := m.GenerateAccessToken("dr.house", domain.RoleDoctor)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	actor, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if actor.Subject != "dr.house" || actor.Role != domain.RoleDoctor {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestValidateExpired(t *testing.T) {
	m := testManager()
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }
	token, _, err := m.GenerateAccessToken("clerk", domain.RoleClerk)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	m.now = time.Now
	if _, err := m.ValidateAccessToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, _, err := testManager().GenerateAccessToken("clerk", domain.RoleClerk)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := NewJWTManager(config.JWTConfig{Secret: "another-secret", AccessTokenTTL: time.Minute, Issuer: "medscript-test"})
	if _, err := other.ValidateAccessToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestGenerateRejectsUnknownRole(t *testing.T) {
	if _, _, err := testManager().GenerateAccessToken("x", domain.Role("janitor")); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}
