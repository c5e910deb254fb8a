package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hostelpad/hostel-booking/internal/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	at, err := NewAccessToken("test-secret", 42, model.RoleAgent, 15)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["role"] != "AGENT" {
		t.Fatalf("role claim = %v, want AGENT", claims["role"])
	}
	if sub, ok := claims["sub"].(float64); !ok || uint64(sub) != 42 {
		t.Fatalf("sub claim = %v, want 42", claims["sub"])
	}
}

func TestRefreshTokenHashIsStable(t *testing.T) {
	rt, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Fatalf("raw length = %d, want 96", len(rt.Raw))
	}
	if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) {
		t.Fatalf("hash not deterministic")
	}
	other, _ := NewRefreshToken(7)
	if rt.Raw == other.Raw {
		t.Fatalf("two tokens identical")
	}
}

func TestPasswordHashVerify(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}
}
