package travel_test

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/data/repos/testutil"
	"github.com/wanderly/wanderly-backend/internal/data/repos/travel"
	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/pagination"
)

func TestFavoriteRepo_DuplicateItemRejected(t *testing.T) {
	tx := testutil.Tx(t)
	repo := travel.NewFavoriteRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	first := &types.Favorite{UserID: u.ID, ItemType: types.ItemTypeHotel, ItemID: "H-100"}
	if _, err := repo.Create(dbc, []*types.Favorite{first}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	dup := &types.Favorite{UserID: u.ID, ItemType: types.ItemTypeHotel, ItemID: "H-100"}
	_, err := repo.Create(dbc, []*types.Favorite{dup})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key error, got %v", err)
	}
}

func TestFavoriteRepo_ListByUserFiltersAndPaginates(t *testing.T) {
	tx := testutil.Tx(t)
	repo := travel.NewFavoriteRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	other := testutil.SeedUser(t, tx)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	rows := []*types.Favorite{
		{UserID: u.ID, ItemType: types.ItemTypeFlight, ItemID: "F-1"},
		{UserID: u.ID, ItemType: types.ItemTypeFlight, ItemID: "F-2"},
		{UserID: u.ID, ItemType: types.ItemTypeHotel, ItemID: "H-1"},
		{UserID: other.ID, ItemType: types.ItemTypeFlight, ItemID: "F-1"},
	}
	if _, err := repo.Create(dbc, rows); err != nil {
		t.Fatalf("create: %v", err)
	}

	flights := types.ItemTypeFlight
	got, total, err := repo.ListByUser(dbc, u.ID, &flights, pagination.Normalize(1, 20))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("expected 2 flight favorites, got total=%d len=%d", total, len(got))
	}
	for _, f := range got {
		if f.UserID != u.ID {
			t.Fatalf("leaked another user's favorite: %s", f.ID)
		}
	}

	all, total, err := repo.ListByUser(dbc, u.ID, nil, pagination.Normalize(1, 2))
	if err != nil {
		t.Fatalf("list unfiltered: %v", err)
	}
	if total != 3 || len(all) != 2 {
		t.Fatalf("expected total=3 with page of 2, got total=%d len=%d", total, len(all))
	}
}

func TestFavoriteRepo_DeleteIsIdempotent(t *testing.T) {
	tx := testutil.Tx(t)
	repo := travel.NewFavoriteRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Create(dbc, []*types.Favorite{
		{UserID: u.ID, ItemType: types.ItemTypeActivity, ItemID: "A-1"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := repo.DeleteByID(dbc, created[0].ID)
	if err != nil || n != 1 {
		t.Fatalf("first delete: n=%d err=%v", n, err)
	}
	n, err = repo.DeleteByID(dbc, created[0].ID)
	if err != nil || n != 0 {
		t.Fatalf("second delete should affect nothing: n=%d err=%v", n, err)
	}
}
