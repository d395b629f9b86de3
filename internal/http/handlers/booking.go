package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wanderly/wanderly-backend/internal/http/response"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
	"github.com/wanderly/wanderly-backend/internal/services"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req services.BookingCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	booking, err := h.bookingService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"booking": booking})
}

// GET /api/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	booking, err := h.bookingService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"booking": booking})
}

// GET /api/bookings?status=&booking_type=&page=&limit=
func (h *BookingHandler) List(c *gin.Context) {
	p := pageParams(c)
	filter := services.BookingListFilter{
		Status:      c.Query("status"),
		BookingType: c.Query("booking_type"),
	}
	rows, total, err := h.bookingService.List(c.Request.Context(), filter, p)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondPage(c, rows, p, total)
}

// POST /api/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	booking, err := h.bookingService.Cancel(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"booking": booking})
}
