//go:build integration

package repository

import (
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/modelgate/modelgate/internal/model"
)

func TestIntegrationUserRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := seedTestUser(t, ctx, repo, "alice@example.com")

	byID, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Errorf("Email = %q, want alice@example.com", byID.Email)
	}
	if byID.Credits != model.SignupCredits {
		t.Errorf("Credits = %d, want %d", byID.Credits, model.SignupCredits)
	}
	if byID.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	byEmail, err := repo.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("ID mismatch: got %q, want %q", byEmail.ID, user.ID)
	}
}

func TestIntegrationUserRepository_DuplicateEmail(t *testing.T) {
	ctx, repo := newTestEnv(t)

	seedTestUser(t, ctx, repo, "bob@example.com")

	dup := &model.User{
		ID:           ulid.Make().String(),
		Email:        "bob@example.com",
		PasswordHash: "other-hash",
		Credits:      model.SignupCredits,
	}
	err := repo.CreateUser(ctx, dup)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_NotFound(t *testing.T) {
	ctx, repo := newTestEnv(t)

	if _, err := repo.GetUserByID(ctx, "nonexistent-id"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound by ID, got: %v", err)
	}
	if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound by email, got: %v", err)
	}
}
