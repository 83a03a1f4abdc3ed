package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/IPRP/Peer-Review-Platform-Backend/config"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// Authenticate validates the Bearer token and puts the caller's identity
// into the gin context.
func Authenticate(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			log.Warn().Err(err).Msg("Rejected invalid token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid token claims"})
			return
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid token subject"})
			return
		}
		role, _ := claims["role"].(string)

		ctx.Set(ContextUserID, uint(sub))
		ctx.Set(ContextRole, role)
		ctx.Next()
	}
}

// RequireRole guards a route group to one role. Must run after Authenticate.
func RequireRole(role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetString(ContextRole) != role {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "Insufficient permissions"})
			return
		}
		ctx.Next()
	}
}

// UserID reads the authenticated caller's id from the context.
func UserID(ctx *gin.Context) uint {
	return ctx.GetUint(ContextUserID)
}
