package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timeclock-platform/shift-service/pkg/logging"
)

// HTTP header names for the authenticated principal. These are set by the
// API gateway after it validates the session token.
const (
	HeaderEmployeeID   = "X-Employee-ID"
	HeaderEmployeeRole = "X-Employee-Role"
)

// Context keys for the authenticated principal
const (
	ContextKeyEmployeeID   = "employeeId"
	ContextKeyEmployeeRole = "employeeRole"
)

// Employee roles
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Principal identifies the authenticated employee making the request
type Principal struct {
	EmployeeID string
	Role       string
}

// IsAdmin reports whether the principal has the admin role
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// AuthConfig holds configuration for the principal middleware
type AuthConfig struct {
	// Required when true, requests without an employee ID are rejected
	Required bool

	// DefaultRole is assumed when no role header is provided
	DefaultRole string
}

// DefaultAuthConfig returns the standard configuration: principal required,
// non-admin by default.
func DefaultAuthConfig() *AuthConfig {
	return &AuthConfig{
		Required:    true,
		DefaultRole: RoleEmployee,
	}
}

// EmployeeAuth middleware extracts the authenticated principal from headers
// and adds it to the request context.
func EmployeeAuth(config *AuthConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultAuthConfig()
	}

	return func(c *gin.Context) {
		employeeID := c.GetHeader(HeaderEmployeeID)
		role := c.GetHeader(HeaderEmployeeRole)

		if role == "" {
			role = config.DefaultRole
		}

		if config.Required && employeeID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "MISSING_PRINCIPAL",
				"message": "Employee identity is required",
			})
			return
		}

		principal := &Principal{
			EmployeeID: employeeID,
			Role:       role,
		}

		ctx := logging.ContextWithEmployeeID(c.Request.Context(), employeeID)
		c.Request = c.Request.WithContext(ctx)

		c.Set("principal", principal)
		c.Set(ContextKeyEmployeeID, employeeID)
		c.Set(ContextKeyEmployeeRole, role)

		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from Gin context
func GetPrincipal(c *gin.Context) *Principal {
	if val, exists := c.Get("principal"); exists {
		if p, ok := val.(*Principal); ok {
			return p
		}
	}

	return &Principal{
		EmployeeID: c.GetString(ContextKeyEmployeeID),
		Role:       c.GetString(ContextKeyEmployeeRole),
	}
}

// RequireAdmin is a middleware that restricts an endpoint to admin principals.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil || !p.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "FORBIDDEN",
				"message": "Admin role is required for this endpoint",
			})
			return
		}
		c.Next()
	}
}
