package httpserver

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

type ctxKey string

const callerCtxKey ctxKey = "caller"

// identityMiddleware resolves the bearer token into a caller. Requests without
// an Authorization header proceed as guests. Any other scheme, or a token that
// fails verification, is rejected.
func identityMiddleware(resolver CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: errorBody{Code: "invalid_token", Message: "expected a bearer token"}})
			return
		}
		caller, err := resolver.Resolve(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: errorBody{Code: "invalid_token", Message: "invalid or expired token"}})
			return
		}
		ctx := context.WithValue(c.Request.Context(), callerCtxKey, caller)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func callerFrom(c *gin.Context) domain.Caller {
	if caller, ok := c.Request.Context().Value(callerCtxKey).(domain.Caller); ok {
		return caller
	}
	return domain.AnonymousCaller()
}

// bearerToken extracts the token from an Authorization header. An empty
// header yields ("", true); anything but a non-empty bearer token is not ok.
func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	header = strings.TrimSpace(header)
	if header == "" {
		return "", true
	}
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
