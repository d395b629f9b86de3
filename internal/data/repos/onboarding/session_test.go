package onboarding_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/data/repos/onboarding"
	"github.com/wanderly/wanderly-backend/internal/data/repos/testutil"
	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
)

func TestSessionRepo_SecondInProgressInterviewRejected(t *testing.T) {
	tx := testutil.Tx(t)
	repo := onboarding.NewSessionRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	first := &types.OnboardingSession{
		UserID:          u.ID,
		Status:          types.OnboardingStatusActive,
		CurrentStep:     1,
		TotalSteps:      5,
		CurrentQuestion: "What kind of trips do you enjoy?",
		Answers:         datatypes.JSON([]byte(`[]`)),
	}
	if _, err := repo.Create(dbc, []*types.OnboardingSession{first}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	dup := &types.OnboardingSession{
		UserID:          u.ID,
		Status:          types.OnboardingStatusActive,
		CurrentStep:     1,
		TotalSteps:      5,
		CurrentQuestion: "What kind of trips do you enjoy?",
		Answers:         datatypes.JSON([]byte(`[]`)),
	}
	_, err := repo.Create(dbc, []*types.OnboardingSession{dup})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key error, got %v", err)
	}
}

func TestSessionRepo_GetLatestByUserSpansCompleted(t *testing.T) {
	tx := testutil.Tx(t)
	repo := onboarding.NewSessionRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	none, err := repo.GetLatestByUser(dbc, u.ID)
	if err != nil || none != nil {
		t.Fatalf("expected no session, got %+v err=%v", none, err)
	}

	session := &types.OnboardingSession{
		UserID:          u.ID,
		Status:          types.OnboardingStatusActive,
		CurrentStep:     1,
		TotalSteps:      5,
		CurrentQuestion: "What kind of trips do you enjoy?",
		Answers:         datatypes.JSON([]byte(`[]`)),
	}
	if _, err := repo.Create(dbc, []*types.OnboardingSession{session}); err != nil {
		t.Fatalf("create: %v", err)
	}

	now := time.Now().UTC()
	if err := repo.UpdateFields(dbc, session.ID, map[string]any{
		"status":       types.OnboardingStatusCompleted,
		"completed_at": now,
	}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	active, err := repo.GetActiveByUser(dbc, u.ID)
	if err != nil || active != nil {
		t.Fatalf("completed interview must not count as active, got %+v err=%v", active, err)
	}

	latest, err := repo.GetLatestByUser(dbc, u.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.ID != session.ID || latest.Status != types.OnboardingStatusCompleted {
		t.Fatalf("expected the completed interview, got %+v", latest)
	}
}
