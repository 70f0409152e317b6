package usecase

import (
	"context"
	"testing"
	"time"

	"dcms/internal/data/entity"
	"dcms/internal/dto/request"
	"dcms/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role entity.UserRole) *entity.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	now := time.Now()
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestAuthService_Login(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "admin@x.com", "hunter22", entity.RoleAdmin)
	srv := NewAuthService(users, newTestIssuer(), zaptest.NewLogger(t))

	tests := []struct {
		name     string
		req      request.LoginRequest
		wantKind ErrorKind
		wantErr  bool
	}{
		{name: "valid", req: request.LoginRequest{Email: "admin@x.com", Password: "hunter22"}},
		{name: "wrong password", req: request.LoginRequest{Email: "admin@x.com", Password: "nope"}, wantErr: true, wantKind: KindUnauthorized},
		{name: "unknown email", req: request.LoginRequest{Email: "ghost@x.com", Password: "hunter22"}, wantErr: true, wantKind: KindUnauthorized},
		{name: "invalid email", req: request.LoginRequest{Email: "admin", Password: "hunter22"}, wantErr: true, wantKind: KindBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := srv.Login(context.Background(), &tt.req)
			if tt.wantErr {
				assertKind(t, err, tt.wantKind)
				return
			}
			if err != nil {
				t.Fatalf("Login error = %v", err)
			}
			if resp.User.Role != entity.RoleAdmin {
				t.Errorf("role = %s, want ADMIN", resp.User.Role)
			}
			if resp.AccessToken == "" || resp.RefreshToken == "" {
				t.Error("expected a token pair")
			}
		})
	}
}

func TestAuthService_RefreshRotates(t *testing.T) {
	users := newFakeUserRepo()
	user := seedUser(t, users, "u@x.com", "secret1", entity.RoleUser)
	srv := NewAuthService(users, newTestIssuer(), zaptest.NewLogger(t))
	ctx := context.Background()

	login, err := srv.Login(ctx, &request.LoginRequest{Email: "u@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login error = %v", err)
	}

	rotated, err := srv.Refresh(ctx, user.ID, login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh error = %v", err)
	}
	if rotated.RefreshToken == login.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	_, err = srv.Refresh(ctx, user.ID, login.RefreshToken)
	assertKind(t, err, KindUnauthorized)

	if _, err := srv.Refresh(ctx, user.ID, rotated.RefreshToken); err != nil {
		t.Fatalf("Refresh with rotated token error = %v", err)
	}
}

func TestAuthService_LogoutRevokesRefresh(t *testing.T) {
	users := newFakeUserRepo()
	user := seedUser(t, users, "u@x.com", "secret1", entity.RoleUser)
	srv := NewAuthService(users, newTestIssuer(), zaptest.NewLogger(t))
	ctx := context.Background()

	login, err := srv.Login(ctx, &request.LoginRequest{Email: "u@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login error = %v", err)
	}

	if err := srv.Logout(ctx, user.ID); err != nil {
		t.Fatalf("Logout error = %v", err)
	}

	_, err = srv.Refresh(ctx, user.ID, login.RefreshToken)
	assertKind(t, err, KindUnauthorized)
}

func TestAuthService_RefreshUnknownUser(t *testing.T) {
	srv := NewAuthService(newFakeUserRepo(), newTestIssuer(), zaptest.NewLogger(t))

	_, err := srv.Refresh(context.Background(), uuid.New(), "whatever")
	assertKind(t, err, KindUnauthorized)
}

func TestAuthService_LoginReplacesSession(t *testing.T) {
	users := newFakeUserRepo()
	user := seedUser(t, users, "u@x.com", "secret1", entity.RoleUser)
	srv := NewAuthService(users, newTestIssuer(), zaptest.NewLogger(t))
	ctx := context.Background()

	first, err := srv.Login(ctx, &request.LoginRequest{Email: "u@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("first Login error = %v", err)
	}
	if _, err := srv.Login(ctx, &request.LoginRequest{Email: "u@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("second Login error = %v", err)
	}

	_, err = srv.Refresh(ctx, user.ID, first.RefreshToken)
	assertKind(t, err, KindUnauthorized)
}
