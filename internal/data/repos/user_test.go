package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pearlapp/pearl-backend/internal/data/repos/testutil"
	"github.com/pearlapp/pearl-backend/internal/domain/user"
)

func TestUserRepo(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))

	ctx := context.Background()
	repo := NewUserRepo(tx, testutil.Logger(t))

	u := &user.User{
		ID:       uuid.New(),
		Email:    "maya@example.com",
		Password: "hashed",
		FullName: "Maya Rivera",
	}
	if err := repo.Create(ctx, nil, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byEmail, err := repo.GetByEmail(ctx, "maya@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID {
		t.Fatalf("GetByEmail: wrong row: %+v", byEmail)
	}

	if err := repo.UpdateAvatarURL(ctx, nil, u.ID, "/media/avatars/x.png"); err != nil {
		t.Fatalf("UpdateAvatarURL: %v", err)
	}
	byID, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.AvatarURL != "/media/avatars/x.png" {
		t.Fatalf("UpdateAvatarURL did not stick: %q", byID.AvatarURL)
	}

	if missing, err := repo.GetByEmail(ctx, "nobody@example.com"); err != nil || missing != nil {
		t.Fatalf("GetByEmail missing: got=%+v err=%v", missing, err)
	}
}

func TestUserTokenRepoRevocation(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))

	ctx := context.Background()
	users := NewUserRepo(tx, testutil.Logger(t))
	tokens := NewUserTokenRepo(tx, testutil.Logger(t))

	u := &user.User{ID: uuid.New(), Email: "theo@example.com", Password: "hashed", FullName: "Theo Park"}
	if err := users.Create(ctx, nil, u); err != nil {
		t.Fatalf("Create user: %v", err)
	}

	tok := &user.UserToken{
		ID:        uuid.New(),
		UserID:    u.ID,
		TokenHash: "hash-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := tokens.Create(ctx, nil, tok); err != nil {
		t.Fatalf("Create token: %v", err)
	}

	got, err := tokens.GetByHash(ctx, "hash-1")
	if err != nil || got == nil {
		t.Fatalf("GetByHash: got=%+v err=%v", got, err)
	}
	if got.Revoked {
		t.Fatal("fresh token should not be revoked")
	}

	if err := tokens.Revoke(ctx, nil, tok.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	got, err = tokens.GetByHash(ctx, "hash-1")
	if err != nil || got == nil {
		t.Fatalf("GetByHash after revoke: got=%+v err=%v", got, err)
	}
	if !got.Revoked {
		t.Fatal("token should be revoked")
	}

	second := &user.UserToken{ID: uuid.New(), UserID: u.ID, TokenHash: "hash-2", ExpiresAt: time.Now().Add(time.Hour)}
	if err := tokens.Create(ctx, nil, second); err != nil {
		t.Fatalf("Create second token: %v", err)
	}
	if err := tokens.RevokeAllForUser(ctx, nil, u.ID); err != nil {
		t.Fatalf("RevokeAllForUser: %v", err)
	}
	got, err = tokens.GetByHash(ctx, "hash-2")
	if err != nil || got == nil || !got.Revoked {
		t.Fatalf("RevokeAllForUser missed a token: got=%+v err=%v", got, err)
	}
}
