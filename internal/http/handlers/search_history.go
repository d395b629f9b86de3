package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wanderly/wanderly-backend/internal/http/response"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
	"github.com/wanderly/wanderly-backend/internal/services"
)

type SearchHistoryHandler struct {
	searchService services.SearchHistoryService
}

func NewSearchHistoryHandler(searchService services.SearchHistoryService) *SearchHistoryHandler {
	return &SearchHistoryHandler{searchService: searchService}
}

// POST /api/searches
func (h *SearchHistoryHandler) Record(c *gin.Context) {
	var req services.SearchRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	entry, err := h.searchService.Record(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"search": entry})
}

// GET /api/searches?search_type=&page=&limit=
func (h *SearchHistoryHandler) List(c *gin.Context) {
	p := pageParams(c)
	rows, total, err := h.searchService.List(c.Request.Context(), c.Query("search_type"), p)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondPage(c, rows, p, total)
}

// DELETE /api/searches/:id
func (h *SearchHistoryHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.searchService.Delete(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// DELETE /api/searches
func (h *SearchHistoryHandler) Clear(c *gin.Context) {
	n, err := h.searchService.Clear(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": n})
}
