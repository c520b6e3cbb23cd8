package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ilamaran/vinavidai/internal/controller"
	"github.com/ilamaran/vinavidai/internal/dto"
	"github.com/ilamaran/vinavidai/internal/middleware"
	"github.com/ilamaran/vinavidai/internal/service"
)

type QuestionController struct {
	questionService service.QuestionService
	scheduleService service.ScheduleService
}

func NewQuestionController(questionService service.QuestionService, scheduleService service.ScheduleService) *QuestionController {
	return &QuestionController{questionService: questionService, scheduleService: scheduleService}
}

// CreateQuestion godoc
// @Summary (Admin) Create a draft question
// @Description Creates a bilingual draft question. Both language variants need text, 4 options, and a correct answer that is one of them.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param question body dto.QuestionCreateDTO true "Bilingual question payload"
// @Success 201 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateQuestion: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.questionService.CreateDraft(middleware.UserID(ctx), req)
	if err != nil {
		controller.WriteError(ctx, err, "Failed to create question")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListQuestions godoc
// @Summary (Admin) List all questions
// @Tags Admin - Questions
// @Produce json
// @Success 200 {array} dto.QuestionResponseDTO
// @Security BearerAuth
// @Router /admin/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	resp, err := c.questionService.GetAllQuestions()
	if err != nil {
		controller.WriteError(ctx, err, "Failed to retrieve questions")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetQuestion godoc
// @Summary (Admin) Get one question
// @Tags Admin - Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID format"})
		return
	}
	resp, err := c.questionService.GetQuestion(id)
	if err != nil {
		controller.WriteError(ctx, err, "Failed to retrieve question")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateQuestion godoc
// @Summary (Admin) Update a draft question
// @Description Replaces the bilingual content of a question that is still a draft.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param question body dto.QuestionCreateDTO true "Bilingual question payload"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 409 {object} dto.ErrorResponse "Question already published"
// @Security BearerAuth
// @Router /admin/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID format"})
		return
	}
	var req dto.QuestionUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.questionService.UpdateDraft(id, req)
	if err != nil {
		controller.WriteError(ctx, err, "Failed to update question")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete one question
// @Tags Admin - Questions
// @Param id path string true "Question ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID format"})
		return
	}
	if err := c.questionService.DeleteQuestions([]uuid.UUID{id}); err != nil {
		controller.WriteError(ctx, err, "Failed to delete question")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// BulkDelete godoc
// @Summary (Admin) Delete a set of questions
// @Tags Admin - Questions
// @Accept json
// @Param ids body dto.BulkDeleteDTO true "Question IDs"
// @Success 204
// @Security BearerAuth
// @Router /admin/questions/bulk [delete]
func (c *QuestionController) BulkDelete(ctx *gin.Context) {
	var req dto.BulkDeleteDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.questionService.DeleteQuestions(req.QuestionIDs); err != nil {
		controller.WriteError(ctx, err, "Failed to delete questions")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// PublishQuestion godoc
// @Summary (Admin) Publish one question
// @Description Assigns a visibility window to a single draft, making it eligible to appear in the active quiz.
// @Tags Admin - Questions
// @Accept json
// @Param id path string true "Question ID"
// @Param window body dto.PublishWindowDTO true "Visibility window"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Release date not before disappear date"
// @Security BearerAuth
// @Router /admin/questions/{id}/publish [post]
func (c *QuestionController) PublishQuestion(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID format"})
		return
	}
	var req dto.PublishWindowDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.scheduleService.Schedule([]uuid.UUID{id}, req.ReleaseDate, req.DisappearDate); err != nil {
		controller.WriteError(ctx, err, "Failed to publish question")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// PublishBulk godoc
// @Summary (Admin) Publish a set of drafts
// @Description All-or-nothing: either every listed draft receives the window or none does.
// @Tags Admin - Questions
// @Accept json
// @Param schedule body dto.ScheduleDTO true "Question IDs and visibility window"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "A listed question is not a draft"
// @Security BearerAuth
// @Router /admin/questions/bulk/publish [post]
func (c *QuestionController) PublishBulk(ctx *gin.Context) {
	var req dto.ScheduleDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.scheduleService.Schedule(req.QuestionIDs, req.ReleaseDate, req.DisappearDate); err != nil {
		controller.WriteError(ctx, err, "Failed to publish questions")
		return
	}
	ctx.Status(http.StatusNoContent)
}
