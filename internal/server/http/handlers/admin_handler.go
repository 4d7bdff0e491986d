package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/domain/repository"
	"github.com/gridbill/gridbill/internal/server/http/dto"
	"github.com/gridbill/gridbill/internal/usecase"
)

// AdminHandler serves the admin console endpoints. Route wiring gates
// all of them behind the admin role.
type AdminHandler struct {
	users UserFacade
	bills BillFacade
}

// NewAdminHandler creates AdminHandler instance.
func NewAdminHandler(users UserFacade, bills BillFacade) *AdminHandler {
	return &AdminHandler{users: users, bills: bills}
}

// ListUsers handles GET /api/admin/users with pagination and search.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	filter := repository.UserListFilter{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
	}

	users, total, err := h.users.ListUsers(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.UserListResponse{
		Users: make([]dto.UserResponse, 0, len(users)),
		Pagination: dto.Pagination{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
		},
	}
	if filter.Limit > 0 {
		resp.Pagination.Pages = (total + filter.Limit - 1) / filter.Limit
	}
	for i := range users {
		resp.Users = append(resp.Users, *dto.NewUserResponse(&users[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// CreateUser handles POST /api/admin/users. Reuses the registration
// validation path and additionally accepts role and active flag.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	usr, err := h.users.CreateUser(c.Request.Context(), registrationInput(req.RegisterRequest), model.Role(req.Role), active)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user created successfully",
		"user":    dto.NewUserResponse(usr),
	})
}

// IssueBill handles POST /api/admin/bills.
func (h *AdminHandler) IssueBill(c *gin.Context) {
	var req dto.IssueBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid user id"})
		return
	}

	bill, err := h.bills.IssueBill(c.Request.Context(), usecase.BillInput{
		UserID:          userID,
		PeriodStart:     req.PeriodStart,
		PeriodEnd:       req.PeriodEnd,
		DueDate:         req.DueDate,
		EnergyUsage:     req.EnergyUsage,
		Rate:            req.Rate,
		ServiceFee:      req.ServiceFee,
		Taxes:           req.Taxes,
		PreviousBalance: req.PreviousBalance,
		MeterReadings:   model.MeterReadings{Previous: req.MeterPrevious, Current: req.MeterCurrent},
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "bill issued successfully",
		"bill":    dto.NewBillResponse(bill),
	})
}
