package chat_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/data/repos/chat"
	"github.com/wanderly/wanderly-backend/internal/data/repos/testutil"
	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/pagination"
)

func TestMessageRepo_DuplicateSeqRejected(t *testing.T) {
	tx := testutil.Tx(t)
	repo := chat.NewMessageRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	s := testutil.SeedChatSession(t, tx, u.ID)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	first := &types.ChatMessage{SessionID: s.ID, UserID: u.ID, Seq: 1, Role: types.ChatRoleUser, Content: "hi"}
	if _, err := repo.Create(dbc, []*types.ChatMessage{first}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	dup := &types.ChatMessage{SessionID: s.ID, UserID: u.ID, Seq: 1, Role: types.ChatRoleAssistant, Content: "hello"}
	_, err := repo.Create(dbc, []*types.ChatMessage{dup})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key error, got %v", err)
	}
}

func TestMessageRepo_ListBySessionOrdersBySeq(t *testing.T) {
	tx := testutil.Tx(t)
	repo := chat.NewMessageRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	s := testutil.SeedChatSession(t, tx, u.ID)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	var rows []*types.ChatMessage
	for i := int64(1); i <= 5; i++ {
		role := types.ChatRoleUser
		if i%2 == 0 {
			role = types.ChatRoleAssistant
		}
		rows = append(rows, &types.ChatMessage{
			SessionID: s.ID, UserID: u.ID, Seq: i, Role: role,
			Content: fmt.Sprintf("turn %d", i),
		})
	}
	if _, err := repo.Create(dbc, rows); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, total, err := repo.ListBySession(dbc, s.ID, pagination.Normalize(1, 20))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 || len(got) != 5 {
		t.Fatalf("expected 5 messages, got total=%d len=%d", total, len(got))
	}
	for i, m := range got {
		if m.Seq != int64(i+1) {
			t.Fatalf("expected seq %d at position %d, got %d", i+1, i, m.Seq)
		}
	}

	recent, err := repo.ListRecentBySession(dbc, s.ID, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 || recent[0].Seq != 3 || recent[2].Seq != 5 {
		t.Fatalf("expected seqs 3..5 in order, got %d messages", len(recent))
	}
}

func TestMessageRepo_DeleteBySessionClearsAll(t *testing.T) {
	tx := testutil.Tx(t)
	repo := chat.NewMessageRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	s := testutil.SeedChatSession(t, tx, u.ID)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	_, err := repo.Create(dbc, []*types.ChatMessage{
		{SessionID: s.ID, UserID: u.ID, Seq: 1, Role: types.ChatRoleUser, Content: "a"},
		{SessionID: s.ID, UserID: u.ID, Seq: 2, Role: types.ChatRoleAssistant, Content: "b"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := repo.DeleteBySessionID(dbc, s.ID)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 messages cleared, got n=%d err=%v", n, err)
	}
}
