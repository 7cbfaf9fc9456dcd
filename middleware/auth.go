package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/Govind-619/ShipSphere/models"
	"github.com/Govind-619/ShipSphere/services"
	"github.com/Govind-619/ShipSphere/utils"
	"github.com/gin-gonic/gin"
)

const (
	// AdminContextKey holds the authenticated *models.Admin
	AdminContextKey = "admin"
	// TokenContextKey holds the raw bearer token
	TokenContextKey = "admin_token"
)

// Authenticator resolves bearer tokens to admins
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Admin, error)
}

// BearerToken extracts the token from an Authorization header
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

// AdminAuthMiddleware requires a valid, unrevoked admin token
func AdminAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			utils.LogError("Missing or malformed Authorization header")
			utils.Unauthorized(c, utils.ErrUnauthorized)
			return
		}

		admin, err := auth.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, services.ErrAdminInactive):
			utils.LogError("Inactive admin attempted access")
			utils.Forbidden(c, "Admin account is inactive")
			return
		case errors.Is(err, services.ErrTokenRevoked), errors.Is(err, services.ErrInvalidCredentials):
			utils.LogError("Rejected admin token: %v", err)
			utils.Unauthorized(c, utils.ErrUnauthorized)
			return
		default:
			if utils.IsAppError(err) {
				utils.RespondError(c, "Failed to authenticate", err)
				return
			}
			utils.LogError("Invalid admin token: %v", err)
			utils.Unauthorized(c, utils.ErrUnauthorized)
			return
		}

		utils.LogDebug("Authenticated admin %d", admin.ID)
		c.Set(AdminContextKey, admin)
		c.Set(TokenContextKey, token)
		c.Next()
	}
}

// RequireRole allows the request only if the authenticated admin holds a
// role in roles that includes required.
func RequireRole(roles *models.RoleTable, required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := CurrentAdmin(c)
		if !ok {
			utils.LogError("Admin not found in context")
			utils.Unauthorized(c, utils.ErrUnauthorized)
			return
		}
		if !roles.Allows(admin.Email, required) {
			utils.LogError("Admin %d lacks role %s", admin.ID, required)
			utils.Forbidden(c, utils.ErrForbidden)
			return
		}
		c.Next()
	}
}

// CurrentAdmin returns the admin set by AdminAuthMiddleware
func CurrentAdmin(c *gin.Context) (*models.Admin, bool) {
	value, exists := c.Get(AdminContextKey)
	if !exists {
		return nil, false
	}
	admin, ok := value.(*models.Admin)
	return admin, ok && admin != nil
}
