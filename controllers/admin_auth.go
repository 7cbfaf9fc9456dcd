package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/Govind-619/ShipSphere/middleware"
	"github.com/Govind-619/ShipSphere/services"
	"github.com/Govind-619/ShipSphere/utils"
	"github.com/gin-gonic/gin"
)

// AdminAuthenticator logs admins in and out
type AdminAuthenticator interface {
	Login(ctx context.Context, email, password string) (*services.AdminSession, error)
	Logout(ctx context.Context, token string) error
}

// AdminAuthController handles admin login and logout
type AdminAuthController struct {
	auth AdminAuthenticator
}

// NewAdminAuthController creates a new AdminAuthController
func NewAdminAuthController(auth AdminAuthenticator) *AdminAuthController {
	return &AdminAuthController{auth: auth}
}

// AdminLoginRequest represents the admin login request
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles admin authentication
func (h *AdminAuthController) AdminLogin(c *gin.Context) {
	utils.LogInfo("AdminLogin called")

	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid login request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.LogError("Failed admin login for %s", req.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	case errors.Is(err, services.ErrAdminInactive):
		utils.LogError("Inactive admin account attempted login: %s", req.Email)
		utils.Forbidden(c, "Admin account is inactive")
		return
	default:
		utils.RespondError(c, "Failed to login", err)
		return
	}

	utils.LogInfo("Admin login successful: %s", session.Admin.Email)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt.Format(time.RFC3339),
		"admin": gin.H{
			"id":        session.Admin.ID,
			"email":     session.Admin.Email,
			"firstName": session.Admin.FirstName,
			"lastName":  session.Admin.LastName,
		},
	})
}

// AdminLogout revokes the caller's token
func (h *AdminAuthController) AdminLogout(c *gin.Context) {
	utils.LogInfo("AdminLogout called")

	token, ok := middleware.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		utils.Success(c, utils.MsgLogoutSuccess, nil)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		utils.LogError("Failed to blacklist token on logout: %v", err)
		utils.InternalServerError(c, "Failed to logout", nil)
		return
	}

	utils.Success(c, utils.MsgLogoutSuccess, nil)
}

// Health reports liveness
func Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": utils.AppName,
		"time":    time.Now().Format(time.RFC3339),
	})
}
