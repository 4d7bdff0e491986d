package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/gridbill/gridbill/internal/domain/errors"
	"github.com/gridbill/gridbill/internal/domain/model"
	pkgAuth "github.com/gridbill/gridbill/internal/pkg/auth"
	"github.com/gridbill/gridbill/internal/server/http/dto"
	"github.com/gridbill/gridbill/internal/server/http/middleware"
)

// CurrentUser extracts the authenticated account from context. Returns
// nil when AuthRequired did not run.
func CurrentUser(c *gin.Context) *model.User {
	val, ok := c.Get(middleware.UserContextKey)
	if !ok {
		return nil
	}
	usr, _ := val.(*model.User)
	return usr
}

// respondError maps domain errors onto HTTP statuses with a JSON body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "user already exists with this email"})
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid credentials"})
	case errors.Is(err, domainErrors.ErrAccountDeactivated):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "account is deactivated"})
	case errors.Is(err, pkgAuth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid or expired token"})
	case errors.Is(err, domainErrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "insufficient permissions"})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "not found"})
	case errors.Is(err, domainErrors.ErrBillAlreadyPaid):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "bill is already paid"})
	case errors.Is(err, domainErrors.ErrPaymentDeclined):
		c.JSON(http.StatusPaymentRequired, dto.ErrorResponse{Message: "payment was declined"})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal server error"})
	}
}
