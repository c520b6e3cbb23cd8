package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ilamaran/vinavidai/internal/controller"
	"github.com/ilamaran/vinavidai/internal/dto"
	"github.com/ilamaran/vinavidai/internal/middleware"
	"github.com/ilamaran/vinavidai/internal/service"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.RegisterDTO true "Username and password"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 409 {object} dto.ErrorResponse "Username taken"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.authService.Register(req)
	if err != nil {
		controller.WriteError(ctx, err, "Failed to register")
		return
	}
	log.Info().Str("username", resp.Username).Msg("User registered")
	ctx.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in and receive a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginDTO true "Username and password"
// @Success 200 {object} dto.TokenResponseDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.authService.Login(req)
	if err != nil {
		controller.WriteError(ctx, err, "Failed to log in")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ChangePassword godoc
// @Summary Change own password
// @Tags Auth
// @Accept json
// @Param passwords body dto.ChangePasswordDTO true "Old and new password"
// @Success 204
// @Failure 401 {object} dto.ErrorResponse "Old password wrong"
// @Security BearerAuth
// @Router /auth/change-password [post]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.authService.ChangePassword(middleware.UserID(ctx), req); err != nil {
		controller.WriteError(ctx, err, "Failed to change password")
		return
	}
	ctx.Status(http.StatusNoContent)
}
