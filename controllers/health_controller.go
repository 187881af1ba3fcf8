// Package controllers file: controllers/health_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"equestrian-entries/logger"
)

var (
	ApplicationURL string
	WebsocketURL   string
)

// Health responds to load-balancer health checks.
func Health(c *gin.Context) {
	logger.Debug.Println("Health: Health check requested")
	c.String(http.StatusOK, "OK")
}

// SetConfig sets global application and WebSocket URLs
func SetConfig(appURL, wsURL string) {
	ApplicationURL = appURL
	WebsocketURL = wsURL
	logger.Info.Printf("SetConfig: Global config updated: ApplicationURL=%s, WebsocketURL=%s", appURL, wsURL)
}
