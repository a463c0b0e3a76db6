package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/poker-dream-api/models"
)

func testUser() *models.User {
	return &models.User{ID: "2b0c6c1e-8a43-4d7e-9d5a-1f0f4f2f8c11", Email: "admin@example.com", Role: models.RoleAdmin}
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("access", "refresh", time.Hour, 24*time.Hour)

	pair, err := m.IssuePair(testUser())
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if pair.ExpiresIn != 3600 {
		t.Errorf("ExpiresIn = %d, want 3600", pair.ExpiresIn)
	}

	claims, err := m.ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccess: %v", err)
	}
	if claims.UserID != testUser().ID || claims.Role != models.RoleAdmin || claims.Type != AccessToken {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, err := m.ParseRefresh(pair.RefreshToken); err != nil {
		t.Fatalf("ParseRefresh: %v", err)
	}
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	m := NewTokenManager("access", "refresh", time.Hour, time.Hour)
	pair, err := m.IssuePair(testUser())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.ParseAccess(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token accepted as access token: %v", err)
	}
	if _, err := m.ParseRefresh(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token accepted as refresh token: %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	pair, err := m.IssuePair(testUser())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ParseAccess(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token accepted: %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("access", "refresh", time.Hour, time.Hour)
	verifier := NewTokenManager("other", "refresh", time.Hour, time.Hour)

	pair, err := issuer.IssuePair(testUser())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.ParseAccess(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token with foreign signature accepted: %v", err)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPasswordHash("correct horse", hash) {
		t.Error("matching password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
}
