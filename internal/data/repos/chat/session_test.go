package chat_test

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/data/repos/chat"
	"github.com/wanderly/wanderly-backend/internal/data/repos/testutil"
	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
)

func TestSessionRepo_SecondActiveSessionRejected(t *testing.T) {
	tx := testutil.Tx(t)
	repo := chat.NewSessionRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	testutil.SeedChatSession(t, tx, u.ID)

	dup := &types.ChatSession{UserID: u.ID, Status: types.ChatStatusActive, MaxTurns: 50}
	_, err := repo.Create(dbc, []*types.ChatSession{dup})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key error, got %v", err)
	}
}

func TestSessionRepo_CompletedSessionFreesTheSlot(t *testing.T) {
	tx := testutil.Tx(t)
	repo := chat.NewSessionRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	first := testutil.SeedChatSession(t, tx, u.ID)
	if err := repo.UpdateFields(dbc, first.ID, map[string]any{
		"status": types.ChatStatusCompleted,
	}); err != nil {
		t.Fatalf("complete first session: %v", err)
	}

	next := &types.ChatSession{UserID: u.ID, Status: types.ChatStatusActive, MaxTurns: 50}
	if _, err := repo.Create(dbc, []*types.ChatSession{next}); err != nil {
		t.Fatalf("create after completion: %v", err)
	}

	active, err := repo.GetActiveByUser(dbc, u.ID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active == nil || active.ID != next.ID {
		t.Fatalf("expected the fresh session to be active, got %+v", active)
	}
}
