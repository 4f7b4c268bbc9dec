package jwt

import (
	"errors"
	"testing"
)

const testSecret = "test-secret"

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateAccessToken(42, "user@biotech.com", "researcher", testSecret, 24)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken returned error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "user@biotech.com" {
		t.Errorf("Email = %q, want user@biotech.com", claims.Email)
	}
	if claims.Role != "researcher" {
		t.Errorf("Role = %q, want researcher", claims.Role)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "user@biotech.com", "admin", testSecret, 24)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("wrong secret: got %v, want ErrTokenInvalid", err)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	token, err := GenerateAccessToken(1, "user@biotech.com", "admin", testSecret, -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired token: got %v, want ErrTokenExpired", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	if _, err := ValidateAccessToken("not-a-token", testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("garbage token: got %v, want ErrTokenInvalid", err)
	}
}
