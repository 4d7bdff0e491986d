package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/server/http/dto"
	"github.com/gridbill/gridbill/internal/server/http/middleware"
	"github.com/gridbill/gridbill/internal/usecase"
)

// AuthHandler processes registration, login, verify and logout.
type AuthHandler struct {
	facade    AuthFacade
	cookieTTL time.Duration
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{facade: facade, cookieTTL: cookieTTL}
}

func registrationInput(req dto.RegisterRequest) usecase.RegistrationInput {
	return usecase.RegistrationInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        req.Phone,
		Address:      model.Address(req.Address),
		CustomerType: model.CustomerType(req.CustomerType),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	usr, token, err := h.facade.Register(c.Request.Context(), registrationInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token, int(h.cookieTTL.Seconds()))
	c.JSON(http.StatusCreated, dto.AuthResponse{
		Message: "registration successful",
		User:    dto.NewUserResponse(usr),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	usr, token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token, int(h.cookieTTL.Seconds()))
	c.JSON(http.StatusOK, dto.AuthResponse{
		Message: "login successful",
		User:    dto.NewUserResponse(usr),
	})
}

// Verify handles GET /api/auth/verify. Unlike the route guard it
// reports a vanished account as 404 so clients can distinguish a stale
// token from a deleted user.
func (h *AuthHandler) Verify(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "authentication required"})
		return
	}

	usr, err := h.facade.VerifySession(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{User: dto.NewUserResponse(usr)})
}

// Logout handles POST /api/auth/logout. Always succeeds: the cookie is
// cleared even when the token was already invalid.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.ExtractToken(c); token != "" {
		h.facade.Logout(c.Request.Context(), token)
	}
	middleware.ClearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}
