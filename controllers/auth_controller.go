// Package controllers handles admin authentication and session management.
// File: controllers/auth_controller.go
package controllers

import (
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"equestrian-entries/logger"
)

// ------------------ authentication utilities ------------------

// checkPasswordHash verifies if the provided plain-text password matches the stored hashed password.
func checkPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ------------------ login handling ------------------

// AdminLogin authenticates the admin user against ADMIN_USERNAME and the
// bcrypt hash in ADMIN_PASSWORD_HASH, then marks the session.
func AdminLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		logger.Warn.Println("AdminLogin: Missing username or password")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please fill in all fields."})
		return
	}

	expectedUser := os.Getenv("ADMIN_USERNAME")
	expectedHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if expectedUser == "" || expectedHash == "" {
		logger.Error.Println("AdminLogin: Admin credentials are not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Admin login is not configured"})
		return
	}

	if username != expectedUser || !checkPasswordHash(password, expectedHash) {
		logger.Warn.Printf("AdminLogin: Invalid login attempt for user %s", username)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid username or password."})
		return
	}

	session := sessions.Default(c)
	session.Set("admin", username)
	if err := session.Save(); err != nil {
		logger.Error.Println("AdminLogin: Failed to save session:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal error, please try again."})
		return
	}

	logger.Info.Printf("AdminLogin: admin %s authenticated", username)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminLogout clears the admin session.
func AdminLogout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Printf("AdminLogout: Error saving session during logout: %v", err)
	} else {
		logger.Info.Println("AdminLogout: Session cleared successfully")
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
