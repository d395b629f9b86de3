package services

import (
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"

	types "github.com/wanderly/wanderly-backend/internal/domain"
)

func TestChatTurnUpdates(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("mid-conversation turn stays active", func(t *testing.T) {
		session := &types.ChatSession{TurnCount: 3, MaxTurns: 50}
		updates := chatTurnUpdates(session, 6, now, nil)
		if _, ok := updates["status"]; ok {
			t.Fatal("mid-conversation turn must not touch status")
		}
		if updates["turn_count"] != 4 {
			t.Fatalf("turn_count = %v, want 4", updates["turn_count"])
		}
		if updates["next_seq"] != int64(8) {
			t.Fatalf("next_seq = %v, want 8", updates["next_seq"])
		}
	})

	t.Run("final turn completes the conversation", func(t *testing.T) {
		session := &types.ChatSession{TurnCount: 49, MaxTurns: 50}
		updates := chatTurnUpdates(session, 98, now, nil)
		if updates["status"] != types.ChatStatusCompleted {
			t.Fatalf("status = %v, want completed", updates["status"])
		}
	})

	t.Run("degraded turn leaves context untouched", func(t *testing.T) {
		session := &types.ChatSession{TurnCount: 1, MaxTurns: 50}
		updates := chatTurnUpdates(session, 2, now, nil)
		if _, ok := updates["context"]; ok {
			t.Fatal("nil context must not overwrite stored constraints")
		}
	})

	t.Run("successful turn carries the new context", func(t *testing.T) {
		session := &types.ChatSession{TurnCount: 1, MaxTurns: 50}
		ctxJSON := datatypes.JSON([]byte(`{"destination":"Lisbon"}`))
		updates := chatTurnUpdates(session, 2, now, ctxJSON)
		if string(updates["context"].(datatypes.JSON)) != `{"destination":"Lisbon"}` {
			t.Fatalf("context = %v", updates["context"])
		}
		if updates["last_message_at"] != now {
			t.Fatalf("last_message_at = %v, want %v", updates["last_message_at"], now)
		}
	})
}

func TestChatTitleFrom(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"short message used verbatim", "Weekend in Rome?", "Weekend in Rome?"},
		{"blank falls back to default", "   ", chatDefaultTitle},
		{"long message truncated", strings.Repeat("a", 80), strings.Repeat("a", chatTitleMaxLen)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := chatTitleFrom(tc.content); got != tc.want {
				t.Fatalf("chatTitleFrom(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}
