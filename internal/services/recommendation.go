package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wanderly/wanderly-backend/internal/data/repos"
	"github.com/wanderly/wanderly-backend/internal/pkg/ctxutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/envutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
	"github.com/wanderly/wanderly-backend/internal/platform/cache"
	"github.com/wanderly/wanderly-backend/internal/platform/openai"
)

const recommendationSystemPrompt = `You are a travel recommendation engine for the Wanderly platform.
Given a destination and traveller preferences, produce a short list of
concrete recommendations. Prices are rough estimates in the requested
currency.`

var recommendationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"recommendations": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":            map[string]any{"type": "string"},
					"type":            map[string]any{"type": "string", "enum": []string{"flight", "hotel", "activity", "destination"}},
					"description":     map[string]any{"type": "string"},
					"estimated_price": map[string]any{"type": "number"},
				},
				"required":             []string{"name", "type", "description", "estimated_price"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"recommendations"},
	"additionalProperties": false,
}

type RecommendationQuery struct {
	Destination string   `json:"destination"`
	Interests   []string `json:"interests"`
	Budget      float64  `json:"budget"`
	Currency    string   `json:"currency"`
}

type Recommendation struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Description    string  `json:"description"`
	EstimatedPrice float64 `json:"estimated_price"`
}

type RecommendationSet struct {
	Recommendations []Recommendation `json:"recommendations"`
	Cached          bool             `json:"cached"`
}

type RecommendationService interface {
	Recommend(ctx context.Context, q RecommendationQuery) (*RecommendationSet, error)
}

type recommendationService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	llm      openai.Client
	cache    cache.Cache
	ttl      time.Duration
}

func NewRecommendationService(log *logger.Logger, userRepo repos.UserRepo, llm openai.Client, c cache.Cache) RecommendationService {
	ttl := time.Duration(envutil.Int("RECOMMENDATION_CACHE_TTL_MINUTES", 60)) * time.Minute
	return &recommendationService{
		log:      log.With("service", "RecommendationService"),
		userRepo: userRepo,
		llm:      llm,
		cache:    c,
		ttl:      ttl,
	}
}

func (rs *recommendationService) Recommend(ctx context.Context, q RecommendationQuery) (*RecommendationSet, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	q.Destination = strings.TrimSpace(q.Destination)
	if q.Destination == "" {
		return nil, apierr.Validation("destination required")
	}
	q.Currency = strings.ToUpper(strings.TrimSpace(q.Currency))
	if q.Currency == "" {
		q.Currency = "USD"
	}

	key, err := rs.cacheKey(rd.UserID, q)
	if err != nil {
		return nil, err
	}

	var cached RecommendationSet
	if rs.cache.GetJSON(ctx, key, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	prompt, err := rs.buildPrompt(ctx, q)
	if err != nil {
		return nil, err
	}
	result, err := rs.llm.GenerateJSON(ctx, recommendationSystemPrompt, prompt, "travel_recommendations", recommendationSchema)
	if err != nil {
		return nil, apierr.Upstream(fmt.Errorf("generate recommendations: %w", err))
	}

	set, err := decodeRecommendations(result)
	if err != nil {
		return nil, apierr.Upstream(fmt.Errorf("decode recommendations: %w", err))
	}

	rs.cache.SetJSON(ctx, key, set, rs.ttl)
	return set, nil
}

// cacheKey hashes the query the same way search params are hashed, so
// equivalent queries share a cache entry. The key carries the owner
// because stored preferences shape the result.
func (rs *recommendationService) cacheKey(userID uuid.UUID, q RecommendationQuery) (string, error) {
	raw, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("marshal query: %w", err)
	}
	hash, err := CanonicalParamsHash(raw)
	if err != nil {
		return "", fmt.Errorf("hash query: %w", err)
	}
	return fmt.Sprintf("rec:%s:%s", userID, hash), nil
}

func (rs *recommendationService) buildPrompt(ctx context.Context, q RecommendationQuery) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Destination: %s\nCurrency: %s\n", q.Destination, q.Currency)
	if q.Budget > 0 {
		fmt.Fprintf(&b, "Budget: %.2f %s\n", q.Budget, q.Currency)
	}
	if len(q.Interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s\n", strings.Join(q.Interests, ", "))
	}

	// Onboarding preferences sharpen the prompt when present.
	rd := ctxutil.GetRequestData(ctx)
	users, err := rs.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{rd.UserID})
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	if len(users) > 0 && len(users[0].Preferences) > 2 {
		fmt.Fprintf(&b, "Traveller preferences: %s\n", string(users[0].Preferences))
	}
	return b.String(), nil
}

func decodeRecommendations(result map[string]any) (*RecommendationSet, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var set RecommendationSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, err
	}
	if len(set.Recommendations) == 0 {
		return nil, fmt.Errorf("model returned no recommendations")
	}
	return &set, nil
}
