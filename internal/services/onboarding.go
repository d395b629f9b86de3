package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/data/repos"
	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/ctxutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/envutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
	"github.com/wanderly/wanderly-backend/internal/platform/openai"
)

const (
	onboardingFirstQuestion = "What kind of trips do you enjoy most: city breaks, beach holidays, nature and hiking, or something else?"

	onboardingQuestionPrompt = `You run a travel preference interview. Based on the answers so far,
ask ONE short follow-up question that helps build a travel profile
(budget band, travel style, interests, pace, accommodation taste).
Do not repeat an earlier question.`

	onboardingProfilePrompt = `You run a travel preference interview. Derive a compact travel profile
from the completed interview below.`
)

var onboardingQuestionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question": map[string]any{"type": "string"},
	},
	"required":             []string{"question"},
	"additionalProperties": false,
}

var onboardingProfileSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"budget_band":   map[string]any{"type": "string", "enum": []string{"budget", "mid_range", "luxury"}},
		"travel_style":  map[string]any{"type": "string"},
		"interests":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"pace":          map[string]any{"type": "string", "enum": []string{"relaxed", "balanced", "packed"}},
		"accommodation": map[string]any{"type": "string"},
	},
	"required":             []string{"budget_band", "travel_style", "interests", "pace", "accommodation"},
	"additionalProperties": false,
}

// onboardingAnswer is one accepted {step, question, answer} record.
type onboardingAnswer struct {
	Step     int    `json:"step"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type OnboardingSubmit struct {
	SessionID uuid.UUID `json:"session_id"`
	Step      int       `json:"step"`
	Answer    string    `json:"answer"`
}

type OnboardingService interface {
	// Start returns the caller's in-progress interview, creating one on
	// first call. Completed interviews are not restarted.
	Start(ctx context.Context) (*types.OnboardingSession, error)

	// Status returns the caller's most recent interview, completed or not.
	Status(ctx context.Context) (*types.OnboardingSession, error)

	// SubmitAnswer accepts the answer for the session's current step
	// only. The final step derives the travel profile and writes it to
	// the user.
	SubmitAnswer(ctx context.Context, in OnboardingSubmit) (*types.OnboardingSession, error)
}

type onboardingService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.OnboardingSessionRepo
	userRepo    repos.UserRepo
	llm         openai.Client
	totalSteps  int
}

func NewOnboardingService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.OnboardingSessionRepo,
	userRepo repos.UserRepo,
	llm openai.Client,
) OnboardingService {
	totalSteps := envutil.Int("ONBOARDING_TOTAL_STEPS", 5)
	if totalSteps < 1 {
		totalSteps = 5
	}
	return &onboardingService{
		db:          db,
		log:         log.With("service", "OnboardingService"),
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		llm:         llm,
		totalSteps:  totalSteps,
	}
}

func (os *onboardingService) Start(ctx context.Context) (*types.OnboardingSession, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}

	var out *types.OnboardingSession
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		active, err := os.sessionRepo.GetActiveByUser(dbc, rd.UserID)
		if err != nil {
			return fmt.Errorf("find active session: %w", err)
		}
		if active != nil {
			out = active
			return nil
		}

		users, err := os.userRepo.GetByIDs(dbc, []uuid.UUID{rd.UserID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 {
			return apierr.NotFound("user not found")
		}
		if users[0].OnboardingCompleted {
			return apierr.Conflict("onboarding already completed")
		}

		session := &types.OnboardingSession{
			UserID:          rd.UserID,
			Status:          types.OnboardingStatusActive,
			CurrentStep:     1,
			TotalSteps:      os.totalSteps,
			CurrentQuestion: onboardingFirstQuestion,
			Answers:         datatypes.JSON([]byte(`[]`)),
		}
		if _, err := os.sessionRepo.Create(dbc, []*types.OnboardingSession{session}); err != nil {
			// The partial unique index arbitrates concurrent starts.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.Conflict("an interview was just started, retry")
			}
			return fmt.Errorf("create session: %w", err)
		}
		out = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (os *onboardingService) Status(ctx context.Context) (*types.OnboardingSession, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	session, err := os.sessionRepo.GetLatestByUser(dbctx.Context{Ctx: ctx}, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, apierr.NotFound("no onboarding session")
	}
	return session, nil
}

func (os *onboardingService) owned(dbc dbctx.Context, userID, id uuid.UUID) (*types.OnboardingSession, error) {
	session, err := os.sessionRepo.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.UserID != userID {
		return nil, apierr.NotFound("onboarding session not found")
	}
	return session, nil
}

// onboardingStepGate accepts an answer only for the interview's current
// step. Stale or out-of-order submissions never touch state.
func onboardingStepGate(session *types.OnboardingSession, step int) error {
	if session.Status != types.OnboardingStatusActive {
		return apierr.Conflict("onboarding already completed")
	}
	if step != session.CurrentStep {
		return apierr.Validation("expected answer for step %d, got step %d", session.CurrentStep, step)
	}
	return nil
}

func (os *onboardingService) SubmitAnswer(ctx context.Context, in OnboardingSubmit) (*types.OnboardingSession, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	if in.SessionID == uuid.Nil {
		return nil, apierr.Validation("session_id required")
	}
	answer := strings.TrimSpace(in.Answer)
	if answer == "" {
		return nil, apierr.Validation("answer required")
	}

	var out *types.OnboardingSession
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		session, err := os.sessionRepo.LockByID(dbc, in.SessionID)
		if err != nil {
			return fmt.Errorf("lock session: %w", err)
		}
		if session == nil || session.UserID != rd.UserID {
			return apierr.NotFound("onboarding session not found")
		}
		if err := onboardingStepGate(session, in.Step); err != nil {
			return err
		}

		var answers []onboardingAnswer
		if len(session.Answers) > 0 {
			if err := json.Unmarshal(session.Answers, &answers); err != nil {
				return fmt.Errorf("decode answers: %w", err)
			}
		}
		answers = append(answers, onboardingAnswer{
			Step:     session.CurrentStep,
			Question: session.CurrentQuestion,
			Answer:   answer,
		})
		rawAnswers, err := json.Marshal(answers)
		if err != nil {
			return fmt.Errorf("encode answers: %w", err)
		}

		if session.CurrentStep >= session.TotalSteps {
			return os.complete(dbc, session, rawAnswers, answers, &out)
		}

		// Provider failure rolls the whole submission back; the stored
		// current question is re-served and the same step retried.
		question, err := os.nextQuestion(dbc.Ctx, answers)
		if err != nil {
			return fmt.Errorf("%w: %v", errQuestionUnavailable, err)
		}

		if err := os.sessionRepo.UpdateFields(dbc, session.ID, map[string]any{
			"answers":          datatypes.JSON(rawAnswers),
			"current_step":     session.CurrentStep + 1,
			"current_question": question,
		}); err != nil {
			return fmt.Errorf("advance session: %w", err)
		}
		fresh, err := os.sessionRepo.GetByID(dbc, session.ID)
		if err != nil {
			return fmt.Errorf("reload session: %w", err)
		}
		out = fresh
		return nil
	})
	if errors.Is(err, errQuestionUnavailable) {
		// Degraded but valid: hand back the untouched session so the
		// client shows the stored question again.
		os.log.Warn("next question generation failed, re-serving current step",
			"session_id", in.SessionID, "error", err)
		return os.owned(dbctx.Context{Ctx: ctx}, rd.UserID, in.SessionID)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// errQuestionUnavailable marks a turn whose follow-up question could not
// be generated. The submission is rolled back rather than surfaced as a
// provider error.
var errQuestionUnavailable = errors.New("next question unavailable")

func (os *onboardingService) complete(dbc dbctx.Context, session *types.OnboardingSession, rawAnswers []byte, answers []onboardingAnswer, out **types.OnboardingSession) error {
	profile, err := os.deriveProfile(dbc.Ctx, answers)
	if err != nil {
		return apierr.Upstream(fmt.Errorf("derive travel profile: %w", err))
	}

	now := time.Now().UTC()
	if err := os.sessionRepo.UpdateFields(dbc, session.ID, map[string]any{
		"answers":      datatypes.JSON(rawAnswers),
		"status":       types.OnboardingStatusCompleted,
		"completed_at": now,
	}); err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if err := os.userRepo.UpdateFields(dbc, session.UserID, map[string]any{
		"preferences":          datatypes.JSON(profile),
		"onboarding_completed": true,
	}); err != nil {
		return fmt.Errorf("store preferences: %w", err)
	}
	fresh, err := os.sessionRepo.GetByID(dbc, session.ID)
	if err != nil {
		return fmt.Errorf("reload session: %w", err)
	}
	*out = fresh
	return nil
}

func transcriptOf(answers []onboardingAnswer) string {
	var b strings.Builder
	for _, a := range answers {
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n", a.Step, a.Question, a.Step, a.Answer)
	}
	return b.String()
}

func (os *onboardingService) nextQuestion(ctx context.Context, answers []onboardingAnswer) (string, error) {
	result, err := os.llm.GenerateJSON(ctx, onboardingQuestionPrompt, transcriptOf(answers), "onboarding_question", onboardingQuestionSchema)
	if err != nil {
		return "", err
	}
	question, _ := result["question"].(string)
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("model returned empty question")
	}
	return question, nil
}

func (os *onboardingService) deriveProfile(ctx context.Context, answers []onboardingAnswer) ([]byte, error) {
	result, err := os.llm.GenerateJSON(ctx, onboardingProfilePrompt, transcriptOf(answers), "travel_profile", onboardingProfileSchema)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}
