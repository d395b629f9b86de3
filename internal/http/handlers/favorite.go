package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wanderly/wanderly-backend/internal/http/response"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
	"github.com/wanderly/wanderly-backend/internal/services"
)

type FavoriteHandler struct {
	favoriteService services.FavoriteService
}

func NewFavoriteHandler(favoriteService services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// POST /api/favorites
func (h *FavoriteHandler) Add(c *gin.Context) {
	var req services.FavoriteCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	favorite, err := h.favoriteService.Add(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"favorite": favorite})
}

// GET /api/favorites/:id
func (h *FavoriteHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	favorite, err := h.favoriteService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"favorite": favorite})
}

// GET /api/favorites?item_type=&page=&limit=
func (h *FavoriteHandler) List(c *gin.Context) {
	p := pageParams(c)
	rows, total, err := h.favoriteService.List(c.Request.Context(), c.Query("item_type"), p)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondPage(c, rows, p, total)
}

// DELETE /api/favorites/:id
func (h *FavoriteHandler) Remove(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.favoriteService.Remove(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}
