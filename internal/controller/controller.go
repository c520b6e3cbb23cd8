package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ilamaran/vinavidai/internal/dto"
	"github.com/ilamaran/vinavidai/internal/model"
)

// WriteError maps service errors onto HTTP statuses with distinct messages
// per error kind. Unrecognized errors surface as a 500 with the fallback
// message so transport failures never leak internals.
func WriteError(ctx *gin.Context, err error, fallback string) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: ve.Reason})
	case errors.Is(err, model.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Resource not found"})
	case errors.Is(err, model.ErrQuestionPublished):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Published questions cannot be modified"})
	case errors.Is(err, model.ErrUsernameTaken):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Username is already taken"})
	case errors.Is(err, model.ErrInvalidCredentials):
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid credentials"})
	case errors.Is(err, model.ErrNoActiveQuiz):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No quiz is active right now"})
	case errors.Is(err, model.ErrQuizCompleted):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "You have already completed the current quiz"})
	case errors.Is(err, model.ErrSessionActive):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "A quiz session is already in progress"})
	case errors.Is(err, model.ErrNoSession):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "No quiz session in progress"})
	case errors.Is(err, model.ErrSessionSubmitted):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Quiz session already submitted"})
	case errors.Is(err, model.ErrUnanswered):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Answer the current question first"})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: fallback, Details: []string{err.Error()}})
	}
}
