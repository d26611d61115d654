package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/todocollab/backend/internal/dto"
	apierrors "github.com/todocollab/backend/internal/errors"
	"github.com/todocollab/backend/internal/models"
	"github.com/todocollab/backend/internal/services"
	"github.com/todocollab/backend/internal/utils"
)

// AdminHandler serves admin-only account management endpoints. Routes
// using it must sit behind the admin middleware.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListUsers returns every account with per-user task counts, paginated.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.adminService.ListUsersWithCounts(params)
	if err != nil {
		logrus.WithError(err).Error("Failed to list users with counts")
		apierrors.InternalError(c, "")
		return
	}

	result := make([]dto.AdminUserDTO, len(users))
	for i, u := range users {
		result[i] = dto.ToAdminUserDTO(u)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": result,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// SetUserStatus enables or disables an account.
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type SetStatusRequest struct {
		Status models.UserStatus `json:"status" binding:"required"`
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.adminService.SetUserStatus(userID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUserStatus):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, err.Error())
		default:
			logrus.WithError(err).Error("Failed to update user status")
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserDTO(*user)})
}
