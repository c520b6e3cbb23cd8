package user

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"

	"github.com/ilamaran/vinavidai/internal/controller"
	"github.com/ilamaran/vinavidai/internal/dto"
	"github.com/ilamaran/vinavidai/internal/middleware"
	"github.com/ilamaran/vinavidai/internal/service"
)

type QuizController struct {
	activeQuiz service.ActiveQuizService
	sessions   service.QuizSessionService
}

func NewQuizController(activeQuiz service.ActiveQuizService, sessions service.QuizSessionService) *QuizController {
	return &QuizController{activeQuiz: activeQuiz, sessions: sessions}
}

// GetActiveQuiz godoc
// @Summary List the questions of the currently active quiz
// @Description Returns the published questions whose visibility window contains now, without correct answers. An empty list means no quiz is active; it does not mean the caller already took it.
// @Tags Quiz
// @Produce json
// @Success 200 {array} dto.QuizQuestionDTO
// @Security BearerAuth
// @Router /quizzes/active [get]
func (c *QuizController) GetActiveQuiz(ctx *gin.Context) {
	questions, err := c.activeQuiz.ActiveQuestions(time.Now())
	if err != nil {
		controller.WriteError(ctx, err, "Failed to retrieve active quiz")
		return
	}
	resp := make([]dto.QuizQuestionDTO, 0, len(questions))
	for i := range questions {
		var item dto.QuizQuestionDTO
		copier.Copy(&item, &questions[i])
		resp = append(resp, item)
	}
	ctx.JSON(http.StatusOK, resp)
}

// StartSession godoc
// @Summary Start a quiz session
// @Description Fails with 404 when no quiz is active and with 409 when the caller already completed the current window.
// @Tags Quiz
// @Produce json
// @Success 201 {object} dto.QuizSessionDTO
// @Failure 404 {object} dto.ErrorResponse "No active quiz"
// @Failure 409 {object} dto.ErrorResponse "Already completed or session in progress"
// @Security BearerAuth
// @Router /quizzes/start [post]
func (c *QuizController) StartSession(ctx *gin.Context) {
	resp, err := c.sessions.Start(middleware.UserID(ctx))
	if err != nil {
		controller.WriteError(ctx, err, "Failed to start quiz session")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// AnswerQuestion godoc
// @Summary Record an answer for a question in the session
// @Tags Quiz
// @Accept json
// @Produce json
// @Param answer body dto.AnswerDTO true "Question ID and chosen English option"
// @Success 200 {object} dto.QuizSessionDTO
// @Failure 409 {object} dto.ErrorResponse "No session or already submitted"
// @Security BearerAuth
// @Router /quizzes/answer [post]
func (c *QuizController) AnswerQuestion(ctx *gin.Context) {
	var req dto.AnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.sessions.Answer(middleware.UserID(ctx), req.QuestionID, req.Answer)
	if err != nil {
		controller.WriteError(ctx, err, "Failed to record answer")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// AdvanceSession godoc
// @Summary Move to the next question
// @Description Valid only when the current question has a recorded answer. At the last question, submit instead.
// @Tags Quiz
// @Produce json
// @Success 200 {object} dto.QuizSessionDTO
// @Failure 400 {object} dto.ErrorResponse "Current question unanswered"
// @Security BearerAuth
// @Router /quizzes/advance [post]
func (c *QuizController) AdvanceSession(ctx *gin.Context) {
	resp, err := c.sessions.Advance(middleware.UserID(ctx))
	if err != nil {
		controller.WriteError(ctx, err, "Failed to advance session")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitSession godoc
// @Summary Submit the quiz and receive the scored result
// @Description Requires an answer for every question. On a storage failure the session stays in progress so submission can be retried.
// @Tags Quiz
// @Produce json
// @Success 201 {object} dto.ScoreRecordDetailDTO
// @Failure 409 {object} dto.ErrorResponse "Already submitted"
// @Security BearerAuth
// @Router /quizzes/submit [post]
func (c *QuizController) SubmitSession(ctx *gin.Context) {
	resp, err := c.sessions.Submit(middleware.UserID(ctx))
	if err != nil {
		controller.WriteError(ctx, err, "Failed to submit quiz")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}
