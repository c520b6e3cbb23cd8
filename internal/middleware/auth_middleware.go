package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ilamaran/vinavidai/internal/dto"
	"github.com/ilamaran/vinavidai/internal/model"
	"github.com/ilamaran/vinavidai/internal/service"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// RequireAuth validates the bearer token and stores the caller's identity in
// the gin context.
func RequireAuth(auth service.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing bearer token"})
			return
		}
		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Rejected invalid token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}
		ctx.Set(ContextUserID, claims.UserID)
		ctx.Set(ContextRole, claims.Role)
		ctx.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if role, ok := ctx.Get(ContextRole); !ok || role.(model.Role) != model.RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Admin access required"})
			return
		}
		ctx.Next()
	}
}

// UserID returns the authenticated caller's id from the gin context.
func UserID(ctx *gin.Context) uuid.UUID {
	id, _ := ctx.Get(ContextUserID)
	userID, _ := id.(uuid.UUID)
	return userID
}

// IsAdmin reports whether the authenticated caller has the admin role.
func IsAdmin(ctx *gin.Context) bool {
	role, ok := ctx.Get(ContextRole)
	return ok && role.(model.Role) == model.RoleAdmin
}
