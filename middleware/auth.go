// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"equestrian-entries/logger"
)

// -------------- authentication middleware --------------

// AuthRequired ensures an admin is logged in before admin routes run.
// How it works:
// - Retrieves the session from the request context.
// - Checks the "admin" session variable.
// - Rejects the request with 401 when it is missing.
// Usage:
//
//	admin := router.Group("/admin", middleware.AuthRequired)
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	admin := session.Get("admin")

	if admin == nil {
		logger.Warn.Println("AuthRequired: No admin found in session; rejecting request")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		c.Abort()
		return
	}

	logger.Debug.Println("[AuthRequired] Admin authenticated - proceeding with request")
	c.Next()
}
