package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wanderly/wanderly-backend/internal/http/response"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
	"github.com/wanderly/wanderly-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/me
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}

// PATCH /api/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req services.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	user, err := h.userService.UpdateMe(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}

// PATCH /api/me/avatar_color
func (h *UserHandler) UpdateAvatarColor(c *gin.Context) {
	var req struct {
		AvatarColor string `json:"avatar_color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	patch := services.UserUpdate{}
	patch.AvatarColor.Set = true
	patch.AvatarColor.Value = &req.AvatarColor
	user, err := h.userService.UpdateMe(c.Request.Context(), patch)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}

// GET /api/me/avatar
func (h *UserHandler) GetAvatar(c *gin.Context) {
	png, err := h.userService.GetAvatarPNG(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	c.Data(200, "image/png", png)
}
