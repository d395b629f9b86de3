package travel_test

import (
	"context"
	"testing"

	"gorm.io/datatypes"

	"github.com/wanderly/wanderly-backend/internal/data/repos/testutil"
	"github.com/wanderly/wanderly-backend/internal/data/repos/travel"
	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/pagination"
)

func TestSearchEntryRepo_UpsertMergesDuplicates(t *testing.T) {
	tx := testutil.Tx(t)
	repo := travel.NewSearchEntryRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	params := datatypes.JSON([]byte(`{"from":"TUN","to":"CDG"}`))

	first, err := repo.Upsert(dbc, &types.SearchEntry{
		UserID:     u.ID,
		SearchType: types.SearchTypeFlight,
		ParamsHash: "abc123",
		Params:     params,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if first.Count != 1 {
		t.Fatalf("expected count=1, got %d", first.Count)
	}

	second, err := repo.Upsert(dbc, &types.SearchEntry{
		UserID:     u.ID,
		SearchType: types.SearchTypeFlight,
		ParamsHash: "abc123",
		Params:     params,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.Count != 2 {
		t.Fatalf("expected merged count=2, got %d", second.Count)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same row, got %s then %s", first.ID, second.ID)
	}

	entries, total, err := repo.ListByUser(dbc, u.ID, nil, pagination.Normalize(1, 20))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(entries) != 1 {
		t.Fatalf("expected one merged entry, got total=%d len=%d", total, len(entries))
	}
}

func TestSearchEntryRepo_DistinctParamsStaySeparate(t *testing.T) {
	tx := testutil.Tx(t)
	repo := travel.NewSearchEntryRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	for _, hash := range []string{"h1", "h2"} {
		if _, err := repo.Upsert(dbc, &types.SearchEntry{
			UserID:     u.ID,
			SearchType: types.SearchTypeHotel,
			ParamsHash: hash,
			Params:     datatypes.JSON([]byte(`{}`)),
		}); err != nil {
			t.Fatalf("upsert %s: %v", hash, err)
		}
	}

	hotels := types.SearchTypeHotel
	_, total, err := repo.ListByUser(dbc, u.ID, &hotels, pagination.Normalize(1, 20))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 separate entries, got %d", total)
	}
}

func TestSearchEntryRepo_DeleteAllByUser(t *testing.T) {
	tx := testutil.Tx(t)
	repo := travel.NewSearchEntryRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	for _, hash := range []string{"h1", "h2", "h3"} {
		if _, err := repo.Upsert(dbc, &types.SearchEntry{
			UserID:     u.ID,
			SearchType: types.SearchTypeActivity,
			ParamsHash: hash,
			Params:     datatypes.JSON([]byte(`{}`)),
		}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	n, err := repo.DeleteAllByUser(dbc, u.ID)
	if err != nil || n != 3 {
		t.Fatalf("expected 3 rows cleared, got n=%d err=%v", n, err)
	}
}
