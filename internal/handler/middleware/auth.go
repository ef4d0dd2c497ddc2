package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medscript/pkg/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TokenValidator interface {
	ValidateAccessToken(token string) (domain.Actor, error)
}

// Auth requires a bearer token and attaches the caller to the request context.
func Auth(v TokenValidator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		actor, err := v.ValidateAccessToken(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "token expired"
			}
			log.Debug("rejected bearer token", zap.Error(err), zap.String("request_id", RequestIDFrom(c)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		actor.RequestID = RequestIDFrom(c)
		actor.IPAddress = c.ClientIP()
		c.Request = c.Request.WithContext(domain.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
