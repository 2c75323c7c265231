package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/z12guilherme/gestao-atipicos/internal/models"
	"github.com/z12guilherme/gestao-atipicos/internal/service"
	appErrors "github.com/z12guilherme/gestao-atipicos/pkg/errors"
	"github.com/z12guilherme/gestao-atipicos/pkg/response"
)

// ContextProfileKey is the gin context key storing the caller's profile.
const ContextProfileKey = "currentProfile"

type profileLoader interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
}

// Auth protects routes by requiring a valid access token. The token carries
// the identity id as its subject; the matching profile is loaded and stored
// in the request context, so downstream handlers never re-fetch it. A valid
// token without a profile is rejected: it belongs to an identity this
// application does not manage.
func Auth(authService *service.AuthService, profiles profileLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		profile, err := profiles.Get(c.Request.Context(), claims.Subject)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "no profile for token subject"))
			c.Abort()
			return
		}

		c.Set(ContextProfileKey, profile)
		c.Next()
	}
}

// CurrentProfile returns the authenticated caller's profile, if any.
func CurrentProfile(c *gin.Context) (*models.Profile, bool) {
	value, exists := c.Get(ContextProfileKey)
	if !exists {
		return nil, false
	}
	profile, ok := value.(*models.Profile)
	return profile, ok
}
