package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/data/repos"
	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/ctxutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/pkg/pagination"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
)

type SearchRecord struct {
	SearchType string          `json:"search_type"`
	Params     json.RawMessage `json:"params"`
}

type SearchHistoryService interface {
	// Record stores a search, merging with an identical earlier one.
	Record(ctx context.Context, in SearchRecord) (*types.SearchEntry, error)
	List(ctx context.Context, searchType string, p pagination.Params) ([]*types.SearchEntry, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Clear(ctx context.Context) (int64, error)
}

type searchHistoryService struct {
	db         *gorm.DB
	log        *logger.Logger
	searchRepo repos.SearchEntryRepo
}

func NewSearchHistoryService(db *gorm.DB, log *logger.Logger, searchRepo repos.SearchEntryRepo) SearchHistoryService {
	return &searchHistoryService{
		db:         db,
		log:        log.With("service", "SearchHistoryService"),
		searchRepo: searchRepo,
	}
}

// CanonicalParamsHash produces a stable hash for a search params object:
// key order and whitespace differences never split history entries.
func CanonicalParamsHash(raw json.RawMessage) (string, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("params must be valid JSON: %w", err)
	}
	var b strings.Builder
	writeCanonical(&b, parsed)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:]), nil
}

func writeCanonical(b *strings.Builder, v any) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			b.Write(kb)
			b.WriteByte(':')
			writeCanonical(b, t[k])
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, item)
		}
		b.WriteByte(']')
	default:
		raw, _ := json.Marshal(t)
		b.Write(raw)
	}
}

func (ss *searchHistoryService) Record(ctx context.Context, in SearchRecord) (*types.SearchEntry, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	searchType, err := types.ParseSearchType(in.SearchType)
	if err != nil {
		return nil, apierr.Validation("search_type: %v", err)
	}
	if len(in.Params) == 0 {
		return nil, apierr.Validation("params required")
	}
	hash, err := CanonicalParamsHash(in.Params)
	if err != nil {
		return nil, apierr.Validation("%v", err)
	}

	var out *types.SearchEntry
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		merged, err := ss.searchRepo.Upsert(dbc, &types.SearchEntry{
			UserID:         rd.UserID,
			SearchType:     searchType,
			ParamsHash:     hash,
			Params:         datatypes.JSON(in.Params),
			Count:          1,
			LastSearchedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("record search: %w", err)
		}
		out = merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ss *searchHistoryService) List(ctx context.Context, searchType string, p pagination.Params) ([]*types.SearchEntry, int64, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, 0, apierr.Unauthorized("no principal in context")
	}
	var filter *types.SearchType
	if searchType != "" {
		parsed, err := types.ParseSearchType(searchType)
		if err != nil {
			return nil, 0, apierr.Validation("search_type: %v", err)
		}
		filter = &parsed
	}
	return ss.searchRepo.ListByUser(dbctx.Context{Ctx: ctx}, rd.UserID, filter, p)
}

func (ss *searchHistoryService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized("no principal in context")
	}
	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := ss.searchRepo.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("load search entry: %w", err)
		}
		if row == nil || row.UserID != rd.UserID {
			return apierr.NotFound("search entry not found")
		}
		if _, err := ss.searchRepo.DeleteByID(dbc, id); err != nil {
			return fmt.Errorf("delete search entry: %w", err)
		}
		return nil
	})
}

func (ss *searchHistoryService) Clear(ctx context.Context) (int64, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return 0, apierr.Unauthorized("no principal in context")
	}
	return ss.searchRepo.DeleteAllByUser(dbctx.Context{Ctx: ctx}, rd.UserID)
}
