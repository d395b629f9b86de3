package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wanderly/wanderly-backend/internal/http/response"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
	"github.com/wanderly/wanderly-backend/internal/services"
)

type OnboardingHandler struct {
	onboardingService services.OnboardingService
}

func NewOnboardingHandler(onboardingService services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

// POST /api/onboarding/start
func (h *OnboardingHandler) Start(c *gin.Context) {
	session, err := h.onboardingService.Start(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

// GET /api/onboarding/status
func (h *OnboardingHandler) Status(c *gin.Context) {
	session, err := h.onboardingService.Status(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

// POST /api/onboarding/answer
func (h *OnboardingHandler) SubmitAnswer(c *gin.Context) {
	var req services.OnboardingSubmit
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	session, err := h.onboardingService.SubmitAnswer(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}
