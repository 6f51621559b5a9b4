package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vitrine-dev/vitrine/internal/auth"
)

const ContextClaimsKey = "claims"

// Auth guards a route group with bearer-token authentication. A missing or
// unparseable Authorization header is unauthorized; a well-formed header
// carrying an invalid token is forbidden. The two statuses must stay distinct.
func Auth(tokens *auth.Manager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := tokens.Verify(parts[1])

		if err != nil {
			ctx.AbortWithStatus(http.StatusForbidden)
			return
		}

		ctx.Set(ContextClaimsKey, claims)
		ctx.Next()
	}
}

// CurrentUser returns the verified claims Auth stored on the request context.
func CurrentUser(ctx *gin.Context) (auth.Claims, error) {
	value, exists := ctx.Get(ContextClaimsKey)

	if !exists {
		return auth.Claims{}, fmt.Errorf("user not authenticated")
	}

	claims, ok := value.(auth.Claims)

	if !ok {
		return auth.Claims{}, fmt.Errorf("invalid claims type in context")
	}

	return claims, nil
}
