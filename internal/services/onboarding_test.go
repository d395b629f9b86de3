package services

import (
	"testing"

	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
)

func TestOnboardingStepGate(t *testing.T) {
	cases := []struct {
		name     string
		session  types.OnboardingSession
		step     int
		wantCode string
	}{
		{
			name:    "current step accepted",
			session: types.OnboardingSession{Status: types.OnboardingStatusActive, CurrentStep: 2},
			step:    2,
		},
		{
			name:     "stale step rejected as validation error",
			session:  types.OnboardingSession{Status: types.OnboardingStatusActive, CurrentStep: 3},
			step:     2,
			wantCode: apierr.CodeValidation,
		},
		{
			name:     "future step rejected as validation error",
			session:  types.OnboardingSession{Status: types.OnboardingStatusActive, CurrentStep: 2},
			step:     4,
			wantCode: apierr.CodeValidation,
		},
		{
			name:     "completed interview rejects any answer",
			session:  types.OnboardingSession{Status: types.OnboardingStatusCompleted, CurrentStep: 5},
			step:     5,
			wantCode: apierr.CodeConflict,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := onboardingStepGate(&tc.session, tc.step)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("expected acceptance, got %v", err)
				}
				return
			}
			if !apierr.IsCode(err, tc.wantCode) {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
		})
	}
}
