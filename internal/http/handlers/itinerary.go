package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wanderly/wanderly-backend/internal/http/response"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
	"github.com/wanderly/wanderly-backend/internal/services"
)

type ItineraryHandler struct {
	itineraryService services.ItineraryService
}

func NewItineraryHandler(itineraryService services.ItineraryService) *ItineraryHandler {
	return &ItineraryHandler{itineraryService: itineraryService}
}

// POST /api/itineraries
func (h *ItineraryHandler) Create(c *gin.Context) {
	var req services.ItineraryCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	itinerary, err := h.itineraryService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"itinerary": itinerary})
}

// GET /api/itineraries/:id
func (h *ItineraryHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	itinerary, err := h.itineraryService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"itinerary": itinerary})
}

// GET /api/itineraries?page=&limit=
func (h *ItineraryHandler) List(c *gin.Context) {
	p := pageParams(c)
	rows, total, err := h.itineraryService.List(c.Request.Context(), p)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondPage(c, rows, p, total)
}

// PATCH /api/itineraries/:id
func (h *ItineraryHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.ItineraryUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	itinerary, err := h.itineraryService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"itinerary": itinerary})
}

// DELETE /api/itineraries/:id
func (h *ItineraryHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.itineraryService.Delete(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}
