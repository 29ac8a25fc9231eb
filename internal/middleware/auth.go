package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskhub/project-management-api/internal/auth"
	"github.com/taskhub/project-management-api/internal/constants"
	apierrors "github.com/taskhub/project-management-api/internal/errors"
	"github.com/taskhub/project-management-api/internal/models"
)

// RequireAuth verifies the bearer token from the Authorization header and
// stores the decoded claims in the request context.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "No token provided")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apierrors.Unauthorized(c, "Invalid authorization format")
			c.Abort()
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				apierrors.Forbidden(c, "Token has expired")
			} else {
				apierrors.Forbidden(c, "Invalid token")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireRoles rejects requests whose token role is not in the allow list.
// Must run after RequireAuth.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "")
		c.Abort()
	}
}

// CurrentUser retrieves the decoded token claims from the context.
func CurrentUser(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(constants.ContextKeyClaims)
	if !exists {
		return nil, false
	}

	claims, ok := value.(*auth.Claims)
	return claims, ok
}
