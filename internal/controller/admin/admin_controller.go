package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ilamaran/vinavidai/internal/controller"
	"github.com/ilamaran/vinavidai/internal/dto"
	"github.com/ilamaran/vinavidai/internal/service"
)

// AdminController groups account management, notices, and dashboard stats.
type AdminController struct {
	userService   service.UserService
	noticeService service.NoticeService
	scoreService  service.ScoreService
}

func NewAdminController(userService service.UserService, noticeService service.NoticeService, scoreService service.ScoreService) *AdminController {
	return &AdminController{userService: userService, noticeService: noticeService, scoreService: scoreService}
}

// ListUsers godoc
// @Summary (Admin) List all users
// @Tags Admin - Users
// @Produce json
// @Success 200 {array} dto.UserResponseDTO
// @Security BearerAuth
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	resp, err := c.userService.ListUsers()
	if err != nil {
		controller.WriteError(ctx, err, "Failed to retrieve users")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateUser godoc
// @Summary (Admin) Create a user account
// @Description When no password is supplied a random credential is generated, returned once, and the account is flagged to change it on first login.
// @Tags Admin - Users
// @Accept json
// @Produce json
// @Param user body dto.UserCreateDTO true "Account payload"
// @Success 201 {object} dto.CredentialResponseDTO
// @Failure 409 {object} dto.ErrorResponse "Username taken"
// @Security BearerAuth
// @Router /admin/users [post]
func (c *AdminController) CreateUser(ctx *gin.Context) {
	var req dto.UserCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.userService.CreateUser(req)
	if err != nil {
		controller.WriteError(ctx, err, "Failed to create user")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// DeleteUser godoc
// @Summary (Admin) Delete a user account
// @Tags Admin - Users
// @Param id path string true "User ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user ID format"})
		return
	}
	if err := c.userService.DeleteUser(id); err != nil {
		controller.WriteError(ctx, err, "Failed to delete user")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ResetPassword godoc
// @Summary (Admin) Reset a user's password
// @Description Replaces the credential with a generated one, shown in the response exactly once.
// @Tags Admin - Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.CredentialResponseDTO
// @Security BearerAuth
// @Router /admin/users/{id}/reset-password [post]
func (c *AdminController) ResetPassword(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user ID format"})
		return
	}
	resp, err := c.userService.ResetPassword(id)
	if err != nil {
		controller.WriteError(ctx, err, "Failed to reset password")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateNotice godoc
// @Summary (Admin) Post a notice
// @Tags Admin - Notices
// @Accept json
// @Produce json
// @Param notice body dto.NoticeCreateDTO true "Notice payload, recipient is \"global\" or a user ID"
// @Success 201 {object} dto.NoticeResponseDTO
// @Security BearerAuth
// @Router /admin/notices [post]
func (c *AdminController) CreateNotice(ctx *gin.Context) {
	var req dto.NoticeCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.noticeService.CreateNotice(req)
	if err != nil {
		controller.WriteError(ctx, err, "Failed to create notice")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListNotices godoc
// @Summary (Admin) List all notices
// @Tags Admin - Notices
// @Produce json
// @Success 200 {array} dto.NoticeResponseDTO
// @Security BearerAuth
// @Router /admin/notices [get]
func (c *AdminController) ListNotices(ctx *gin.Context) {
	resp, err := c.noticeService.ListAll()
	if err != nil {
		controller.WriteError(ctx, err, "Failed to retrieve notices")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteNotice godoc
// @Summary (Admin) Delete a notice for all recipients
// @Tags Admin - Notices
// @Param id path string true "Notice ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/notices/{id} [delete]
func (c *AdminController) DeleteNotice(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid notice ID format"})
		return
	}
	if err := c.noticeService.DeleteNotice(id); err != nil {
		controller.WriteError(ctx, err, "Failed to delete notice")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// DashboardStats godoc
// @Summary (Admin) Dashboard counters
// @Tags Admin - Dashboard
// @Produce json
// @Success 200 {object} dto.DashboardStatsDTO
// @Security BearerAuth
// @Router /admin/dashboard/stats [get]
func (c *AdminController) DashboardStats(ctx *gin.Context) {
	resp, err := c.scoreService.DashboardStats(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("DashboardStats: service error")
		controller.WriteError(ctx, err, "Failed to compute dashboard stats")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
