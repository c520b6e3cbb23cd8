package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ilamaran/vinavidai/internal/controller"
	"github.com/ilamaran/vinavidai/internal/dto"
	"github.com/ilamaran/vinavidai/internal/middleware"
	"github.com/ilamaran/vinavidai/internal/service"
)

type NoticeController struct {
	noticeService service.NoticeService
}

func NewNoticeController(noticeService service.NoticeService) *NoticeController {
	return &NoticeController{noticeService: noticeService}
}

// ListNotices godoc
// @Summary List notices visible to the caller
// @Description Global notices plus ones addressed to the caller, minus dismissed ones.
// @Tags Notices
// @Produce json
// @Success 200 {array} dto.NoticeResponseDTO
// @Security BearerAuth
// @Router /notices [get]
func (c *NoticeController) ListNotices(ctx *gin.Context) {
	resp, err := c.noticeService.ListForUser(middleware.UserID(ctx))
	if err != nil {
		controller.WriteError(ctx, err, "Failed to retrieve notices")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DismissNotice godoc
// @Summary Dismiss a notice for the caller only
// @Tags Notices
// @Param id path string true "Notice ID"
// @Success 204
// @Security BearerAuth
// @Router /notices/{id}/dismiss [post]
func (c *NoticeController) DismissNotice(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid notice ID format"})
		return
	}
	if err := c.noticeService.Dismiss(id, middleware.UserID(ctx)); err != nil {
		controller.WriteError(ctx, err, "Failed to dismiss notice")
		return
	}
	ctx.Status(http.StatusNoContent)
}
