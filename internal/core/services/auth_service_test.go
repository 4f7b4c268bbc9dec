package services

import (
	"context"
	"errors"
	"testing"

	"labops-backend/internal/adapters/persistence/models"
	"labops-backend/internal/adapters/persistence/repositories"
	"labops-backend/internal/config"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
	}
	return NewAuthService(repositories.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterInput{
		Email:    "Ana@Biotech.com",
		Password: "secret-password",
		FullName: "Ana Researcher",
		Role:     models.RoleResearcher,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if reg.AccessToken == "" {
		t.Error("Register returned empty access token")
	}
	if reg.TokenType != "bearer" {
		t.Errorf("TokenType = %q, want bearer", reg.TokenType)
	}
	if reg.User.Email != "ana@biotech.com" {
		t.Errorf("stored email = %q, want lowercased ana@biotech.com", reg.User.Email)
	}

	// Login is case-insensitive on email.
	login, err := svc.Login(ctx, "ANA@biotech.com", "secret-password")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	claims, err := svc.ValidateAccessToken(login.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken returned error: %v", err)
	}
	if claims.UserID != reg.User.ID {
		t.Errorf("claims.UserID = %d, want %d", claims.UserID, reg.User.ID)
	}
	if claims.Role != models.RoleResearcher {
		t.Errorf("claims.Role = %q, want researcher", claims.Role)
	}
}

func TestRegisterDefaultsRole(t *testing.T) {
	svc := newAuthService(t)

	reg, err := svc.Register(context.Background(), &RegisterInput{
		Email:    "new@biotech.com",
		Password: "secret-password",
		FullName: "New User",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if reg.User.Role != models.RoleResearcher {
		t.Errorf("Role = %q, want researcher", reg.User.Role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	input := &RegisterInput{
		Email:    "dup@biotech.com",
		Password: "secret-password",
		FullName: "First",
	}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// Same address with different casing is still a duplicate.
	_, err := svc.Register(ctx, &RegisterInput{
		Email:    "DUP@biotech.com",
		Password: "other-password",
		FullName: "Second",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("got %v, want ErrEmailTaken", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterInput{
		Email:    "real@biotech.com",
		Password: "secret-password",
		FullName: "Real User",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, unknownErr := svc.Login(ctx, "ghost@biotech.com", "secret-password")
	_, wrongPwErr := svc.Login(ctx, "real@biotech.com", "wrong-password")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", unknownErr)
	}
	if !errors.Is(wrongPwErr, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", wrongPwErr)
	}
}

func TestGetUserByID(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterInput{
		Email:    "who@biotech.com",
		Password: "secret-password",
		FullName: "Who",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	user, err := svc.GetUserByID(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("GetUserByID returned error: %v", err)
	}
	if user.Email != "who@biotech.com" {
		t.Errorf("Email = %q, want who@biotech.com", user.Email)
	}

	if _, err := svc.GetUserByID(ctx, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}
