package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wanderly/wanderly-backend/internal/http/response"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
	"github.com/wanderly/wanderly-backend/internal/services"
)

type PriceAlertHandler struct {
	alertService services.PriceAlertService
}

func NewPriceAlertHandler(alertService services.PriceAlertService) *PriceAlertHandler {
	return &PriceAlertHandler{alertService: alertService}
}

// POST /api/price-alerts
func (h *PriceAlertHandler) Create(c *gin.Context) {
	var req services.PriceAlertCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	alert, err := h.alertService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"alert": alert})
}

// GET /api/price-alerts/:id
func (h *PriceAlertHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	alert, err := h.alertService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"alert": alert})
}

// GET /api/price-alerts?active=&triggered=&page=&limit=
func (h *PriceAlertHandler) List(c *gin.Context) {
	p := pageParams(c)
	filter := services.PriceAlertListFilter{
		Active:    boolQuery(c, "active"),
		Triggered: boolQuery(c, "triggered"),
	}
	rows, total, err := h.alertService.List(c.Request.Context(), filter, p)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondPage(c, rows, p, total)
}

// PATCH /api/price-alerts/:id
func (h *PriceAlertHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.PriceAlertUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	alert, err := h.alertService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"alert": alert})
}

// POST /api/price-alerts/:id/evaluate
func (h *PriceAlertHandler) Evaluate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		ObservedPrice float64 `json:"observed_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	alert, err := h.alertService.Evaluate(c.Request.Context(), id, req.ObservedPrice)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"alert": alert})
}

// DELETE /api/price-alerts/:id
func (h *PriceAlertHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.alertService.Delete(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}
