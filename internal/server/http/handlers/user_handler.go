package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gridbill/gridbill/internal/server/http/dto"
)

// UserHandler serves the authenticated user's profile.
type UserHandler struct {
	facade UserFacade
}

// NewUserHandler creates UserHandler instance.
func NewUserHandler(facade UserFacade) *UserHandler {
	return &UserHandler{facade: facade}
}

// Profile handles GET /api/users/profile.
func (h *UserHandler) Profile(c *gin.Context) {
	usr := CurrentUser(c)
	if usr == nil {
		c.Status(http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.NewUserResponse(usr)})
}

// UpdateProfile handles PUT /api/users/profile. Only the allow-listed
// fields are applied; role, email and credentials cannot change here.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	usr := CurrentUser(c)
	if usr == nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	var req dto.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	updated, err := h.facade.UpdateProfile(c.Request.Context(), usr.ID, req.ToProfileUpdate())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile updated successfully",
		"user":    dto.NewUserResponse(updated),
	})
}
