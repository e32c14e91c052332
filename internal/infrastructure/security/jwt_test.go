package security

import (
	"testing"
	"time"
)

func TestJWTGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("secret", 1, 24)

	token, expiresAt, err := svc.GenerateAccessToken(42, "alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Error("token already expired at issue")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 || claims.UserName != "alice" {
		t.Errorf("claims = (%d, %q), want (42, alice)", claims.UserID, claims.UserName)
	}
	if claims.Subject != "access" {
		t.Errorf("subject = %q, want access", claims.Subject)
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, _, err := NewJWTService("secret-a", 1, 24).GenerateAccessToken(1, "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewJWTService("secret-b", 1, 24).ValidateToken(token); err == nil {
		t.Error("token signed with a different secret validated")
	}
}

func TestJWTRefreshFlow(t *testing.T) {
	svc := NewJWTService("secret", 1, 24)

	refresh, _, err := svc.GenerateRefreshToken(7, "bob")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	access, _, err := svc.RefreshToken(refresh)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	claims, err := svc.ValidateToken(access)
	if err != nil {
		t.Fatalf("validate refreshed: %v", err)
	}
	if claims.UserID != 7 || claims.Subject != "access" {
		t.Errorf("claims = (%d, %q)", claims.UserID, claims.Subject)
	}

	// An access token must not work as a refresh token.
	if _, _, err := svc.RefreshToken(access); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestBcryptHashAndCompare(t *testing.T) {
	h := NewBcryptHasher()

	hash, err := h.Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plaintext")
	}
	if !h.Compare(hash, "hunter22") {
		t.Error("correct password rejected")
	}
	if h.Compare(hash, "hunter23") {
		t.Error("wrong password accepted")
	}
}

func TestTOTPGenerateAndValidate(t *testing.T) {
	svc := NewTOTPService()

	secret, url, err := svc.GenerateSecret("alice")
	if err != nil {
		t.Fatalf("GenerateSecret: %v", err)
	}
	if secret == "" {
		t.Fatal("empty secret")
	}
	if url == "" {
		t.Fatal("empty provisioning url")
	}
	if svc.Validate("000000", secret) {
		t.Error("bogus code accepted")
	}
}
