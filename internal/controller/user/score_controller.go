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

type ScoreController struct {
	scoreService service.ScoreService
}

func NewScoreController(scoreService service.ScoreService) *ScoreController {
	return &ScoreController{scoreService: scoreService}
}

// GetHistory godoc
// @Summary List own score history
// @Tags Scores
// @Produce json
// @Success 200 {array} dto.ScoreRecordSummaryDTO
// @Security BearerAuth
// @Router /scores/history [get]
func (c *ScoreController) GetHistory(ctx *gin.Context) {
	resp, err := c.scoreService.History(middleware.UserID(ctx))
	if err != nil {
		controller.WriteError(ctx, err, "Failed to retrieve score history")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetHistoryDetail godoc
// @Summary Get one scored attempt with per-question breakdown
// @Description Readable by the owning user and by admins.
// @Tags Scores
// @Produce json
// @Param id path string true "Score record ID"
// @Success 200 {object} dto.ScoreRecordDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /scores/history/{id} [get]
func (c *ScoreController) GetHistoryDetail(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid score record ID format"})
		return
	}
	resp, err := c.scoreService.HistoryDetail(id, middleware.UserID(ctx), middleware.IsAdmin(ctx))
	if err != nil {
		controller.WriteError(ctx, err, "Failed to retrieve score record")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetMonthlyAverages godoc
// @Summary Own monthly average percentages
// @Tags Scores
// @Produce json
// @Success 200 {array} dto.MonthlyAverageDTO
// @Security BearerAuth
// @Router /scores/monthly [get]
func (c *ScoreController) GetMonthlyAverages(ctx *gin.Context) {
	resp, err := c.scoreService.MonthlyAverages(middleware.UserID(ctx))
	if err != nil {
		controller.WriteError(ctx, err, "Failed to compute monthly averages")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetLeaderboard godoc
// @Summary Global top-5 leaderboard
// @Tags Scores
// @Produce json
// @Success 200 {array} dto.LeaderboardEntryDTO
// @Security BearerAuth
// @Router /scores/leaderboard [get]
func (c *ScoreController) GetLeaderboard(ctx *gin.Context) {
	resp, err := c.scoreService.Leaderboard()
	if err != nil {
		controller.WriteError(ctx, err, "Failed to compute leaderboard")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
