package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	domainErrors "github.com/polkiloo/printdesk/internal/domain/errors"
	pkgAuth "github.com/polkiloo/printdesk/internal/pkg/auth"
	testhelpers "github.com/polkiloo/printdesk/internal/test"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(adminID int64) (string, error) {
			return fmt.Sprintf("token-%d", adminID), nil
		},
		ParseFn: func(token string) (int64, error) {
			var id int64
			if _, err := fmt.Sscanf(token, "token-%d", &id); err != nil {
				return 0, pkgAuth.ErrInvalidToken
			}
			return id, nil
		},
	}
}

func newAuthUseCase(repo *testhelpers.AdminRepositoryStub, hasher testhelpers.HasherStub, strategy pkgAuth.Strategy) *AuthUseCase {
	return NewAuthUseCase(repo, hasher, strategy, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestAuthUseCaseEnsureAdmin(t *testing.T) {
	repo := testhelpers.NewAdminRepositoryStub()
	uc := newAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	ctx := context.Background()

	if err := uc.EnsureAdmin(ctx, " ops ", "secret"); err != nil {
		t.Fatalf("ensure admin returned error: %v", err)
	}
	stored, err := repo.GetByLogin(ctx, "ops")
	if err != nil {
		t.Fatalf("expected admin in repository: %v", err)
	}
	if stored.PasswordHash != "hash:secret" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}

	if err := uc.EnsureAdmin(ctx, "ops", "other"); err != nil {
		t.Fatalf("second ensure returned error: %v", err)
	}
	if len(repo.Admins) != 1 || repo.Admins["ops"].PasswordHash != "hash:secret" {
		t.Fatal("existing admin must be left untouched")
	}
}

func TestAuthUseCaseEnsureAdminDisabled(t *testing.T) {
	repo := testhelpers.NewAdminRepositoryStub()
	uc := newAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	if err := uc.EnsureAdmin(context.Background(), "", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.EnsureAdmin(context.Background(), "ops", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.Admins) != 0 {
		t.Fatal("expected no admin to be created")
	}
}

func TestAuthUseCaseEnsureAdminErrors(t *testing.T) {
	repo := testhelpers.NewAdminRepositoryStub()
	uc := newAuthUseCase(repo, testhelpers.HasherStub{HashFn: func(string) (string, error) {
		return "", fmt.Errorf("hash error")
	}}, newStrategyStub())
	if err := uc.EnsureAdmin(context.Background(), "ops", "secret"); err == nil {
		t.Fatal("expected hashing error")
	}

	repo.Err = fmt.Errorf("db down")
	uc = newAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	if err := uc.EnsureAdmin(context.Background(), "ops", "secret"); err == nil {
		t.Fatal("expected repository error")
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	repo := testhelpers.NewAdminRepositoryStub()
	uc := newAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if err := uc.EnsureAdmin(ctx, "carol", "123456"); err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol", "bad"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}

	admin, token, err := uc.Authenticate(ctx, "  carol  ", "123456")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token-1" || admin.Login != "carol" {
		t.Fatalf("unexpected result %q %+v", token, admin)
	}
}

func TestAuthUseCaseAuthenticateFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		uc := newAuthUseCase(testhelpers.NewAdminRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())
		if _, _, err := uc.Authenticate(ctx, "", "pass"); err != domainErrors.ErrInvalidCredentials {
			t.Fatalf("expected invalid credentials error, got %v", err)
		}
		if _, _, err := uc.Authenticate(ctx, "user", ""); err != domainErrors.ErrInvalidCredentials {
			t.Fatalf("expected invalid credentials error, got %v", err)
		}
	})

	t.Run("unknown login", func(t *testing.T) {
		uc := newAuthUseCase(testhelpers.NewAdminRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())
		if _, _, err := uc.Authenticate(ctx, "absent", "pass"); err != domainErrors.ErrInvalidCredentials {
			t.Fatalf("expected invalid credentials error, got %v", err)
		}
	})

	t.Run("repository error", func(t *testing.T) {
		repo := testhelpers.NewAdminRepositoryStub()
		uc := newAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
		if err := uc.EnsureAdmin(ctx, "user", "pass"); err != nil {
			t.Fatalf("ensure admin returned error: %v", err)
		}
		repo.Err = fmt.Errorf("storage unavailable")
		if _, _, err := uc.Authenticate(ctx, "user", "pass"); err == nil || err.Error() != "storage unavailable" {
			t.Fatalf("expected repository error, got %v", err)
		}
	})

	t.Run("issue token error", func(t *testing.T) {
		repo := testhelpers.NewAdminRepositoryStub()
		uc := newAuthUseCase(repo, testhelpers.HasherStub{}, testhelpers.StrategyStub{
			IssueFn: func(int64) (string, error) { return "", fmt.Errorf("issue error") },
		})
		if err := uc.EnsureAdmin(ctx, "user", "pass"); err != nil {
			t.Fatalf("ensure admin returned error: %v", err)
		}
		if _, _, err := uc.Authenticate(ctx, "user", "pass"); err == nil {
			t.Fatal("expected issue error on authenticate")
		}
	})
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := newAuthUseCase(testhelpers.NewAdminRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	id, err := uc.ParseToken("token-42")
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}

	if _, err := uc.ParseToken("bad-token"); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
	if _, err := uc.ParseToken(""); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestAuthUseCaseGetByID(t *testing.T) {
	repo := testhelpers.NewAdminRepositoryStub()
	uc := newAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	if err := uc.EnsureAdmin(context.Background(), "dave", "pwd"); err != nil {
		t.Fatalf("ensure admin returned error: %v", err)
	}
	fetched, err := uc.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("get by id returned error: %v", err)
	}
	if fetched.Login != "dave" {
		t.Fatalf("expected login dave, got %q", fetched.Login)
	}

	repo.Err = fmt.Errorf("read error")
	if _, err := uc.GetByID(context.Background(), 1); err == nil {
		t.Fatal("expected repository error")
	}
}
