package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/utils"
)

func newAuthFixture() (AuthService, *fakeUserRepo, *utils.TokenManager) {
	users := newFakeUserRepo()
	tokens := utils.NewTokenManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	return NewAuthService(users, tokens), users, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, tokens := newAuthFixture()
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Email: "Dealer@Example.com", Password: "s3cretpass", Name: ptr("Dealer")})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.User.Role != models.RoleUser || res.User.Email != "dealer@example.com" {
		t.Errorf("user = %+v", res.User)
	}
	claims, err := tokens.ParseAccess(res.Tokens.AccessToken)
	if err != nil || claims.UserID != res.User.ID {
		t.Fatalf("access token claims = %+v, %v", claims, err)
	}

	if _, err := svc.Register(ctx, RegisterInput{Email: "dealer@example.com", Password: "another-pass"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate Register = %v, want ErrEmailTaken", err)
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "dealer@example.com", Password: "s3cretpass"}); err != nil {
		t.Errorf("Login: %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "dealer@example.com", Password: "wrong-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "s3cretpass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthFixture()
	_, err := svc.Register(context.Background(), RegisterInput{Email: "bad", Password: "short"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if _, ok := ve.Fields["email"]; !ok {
		t.Error("email error missing")
	}
	if _, ok := ve.Fields["password"]; !ok {
		t.Error("password error missing")
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()
	res, err := svc.Register(ctx, RegisterInput{Email: "off@example.com", Password: "s3cretpass"})
	if err != nil {
		t.Fatal(err)
	}
	users.items[res.User.ID].IsActive = false

	if _, err := svc.Login(ctx, LoginInput{Email: "off@example.com", Password: "s3cretpass"}); !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("Login = %v, want ErrAccountDisabled", err)
	}
	if _, err := svc.Refresh(ctx, res.Tokens.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh = %v, want ErrInvalidToken", err)
	}
}

func TestRefresh(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()
	res, err := svc.Register(ctx, RegisterInput{Email: "p@example.com", Password: "s3cretpass"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Refresh(ctx, res.Tokens.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token accepted as refresh token: %v", err)
	}
	next, err := svc.Refresh(ctx, res.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.User.ID != res.User.ID {
		t.Errorf("refreshed user = %s, want %s", next.User.ID, res.User.ID)
	}

	delete(users.items, res.User.ID)
	if _, err := svc.Refresh(ctx, res.Tokens.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh for deleted user = %v, want ErrInvalidToken", err)
	}
	if !errors.Is(ErrInvalidToken, ErrUnauthorized) {
		t.Error("ErrInvalidToken should be unauthorized")
	}
}

func TestAdminUserSelfProtection(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAdminUserService(users)
	ctx := context.Background()

	admin := &models.User{Email: "root@example.com", Role: models.RoleSuperAdmin, IsActive: true}
	editor := &models.User{Email: "ed@example.com", Role: models.RoleEditor, IsActive: true}
	for _, u := range []*models.User{admin, editor} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	role := models.RoleUser
	if _, err := svc.UpdateUser(ctx, admin.ID, admin.ID, UserUpdateInput{Role: &role}); !errors.Is(err, ErrSelfModification) {
		t.Errorf("self demotion = %v, want ErrSelfModification", err)
	}
	if err := svc.DeleteUser(ctx, admin.ID, admin.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("self delete = %v, want forbidden", err)
	}

	updated, err := svc.UpdateUser(ctx, admin.ID, editor.ID, UserUpdateInput{Role: &role})
	if err != nil || updated.Role != models.RoleUser {
		t.Fatalf("UpdateUser = %+v, %v", updated, err)
	}
	if err := svc.DeleteUser(ctx, admin.ID, editor.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := svc.GetUser(ctx, editor.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUser after delete = %v", err)
	}
}
