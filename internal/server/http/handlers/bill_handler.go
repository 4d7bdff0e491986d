package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/server/http/dto"
)

// BillHandler serves the authenticated user's bills.
type BillHandler struct {
	facade BillFacade
}

// NewBillHandler creates BillHandler instance.
func NewBillHandler(facade BillFacade) *BillHandler {
	return &BillHandler{facade: facade}
}

// List handles GET /api/bills.
func (h *BillHandler) List(c *gin.Context) {
	usr := CurrentUser(c)
	if usr == nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	bills, err := h.facade.Bills(c.Request.Context(), usr.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bills": dto.NewBillResponses(bills)})
}

// Pay handles POST /api/bills/:number/pay. A bill belonging to another
// user is reported as not found.
func (h *BillHandler) Pay(c *gin.Context) {
	usr := CurrentUser(c)
	if usr == nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	var req dto.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	bill, err := h.facade.PayBill(c.Request.Context(), usr.ID, c.Param("number"), model.PaymentMethod(req.PaymentMethod))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "payment successful",
		"bill":    dto.NewBillResponse(bill),
	})
}
