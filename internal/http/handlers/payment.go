package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wanderly/wanderly-backend/internal/http/response"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
	"github.com/wanderly/wanderly-backend/internal/services"
)

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// POST /api/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req services.PaymentCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	intent, err := h.paymentService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"payment":     intent.Payment,
		"approve_url": intent.ApproveURL,
	})
}

// GET /api/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	payment, err := h.paymentService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"payment": payment})
}

// GET /api/bookings/:id/payments
func (h *PaymentHandler) ListByBooking(c *gin.Context) {
	bookingID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.paymentService.ListByBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"payments": rows})
}

// POST /api/payments/:id/capture
func (h *PaymentHandler) Capture(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	payment, err := h.paymentService.Capture(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"payment": payment})
}
