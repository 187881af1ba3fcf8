// Package controllers provides HTTP handlers for admin operations.
// File: controllers/admin_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"equestrian-entries/logger"
	"equestrian-entries/services"
)

// ---------------- Admin Controller ----------------

// AdminController serves the admin view over completed submissions.
type AdminController struct {
	Archive *services.ArchiveService
}

// NewAdminController creates an AdminController over the given archive.
func NewAdminController(archive *services.ArchiveService) *AdminController {
	return &AdminController{Archive: archive}
}

// ListSubmissions returns one page of completed submissions in the platform's
// standard paginated envelope: {items, pagination:{page,limit,pages,total}}.
func (ac *AdminController) ListSubmissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, pagination := ac.Archive.List(page, limit)
	logger.Debug.Printf("ListSubmissions: page=%d limit=%d -> %d items", page, limit, len(items))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      items,
			"pagination": pagination,
		},
	})
}

// GetSubmission returns one archived submission by reference.
func (ac *AdminController) GetSubmission(c *gin.Context) {
	reference := c.Param("reference")
	item := ac.Archive.Find(reference)
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Submission not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"submission": item}})
}

// SubmissionQR renders a QR code PNG pointing at the public confirmation page
// for an archived submission.
func (ac *AdminController) SubmissionQR(c *gin.Context) {
	reference := c.Param("reference")
	if ac.Archive.Find(reference) == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Submission not found"})
		return
	}

	qrBytes, err := services.GenerateConfirmationQR(reference, 300, services.QRCodeEncoder(qrcode.Encode))
	if err != nil {
		logger.Error.Printf("SubmissionQR: Error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Type", "image/png")
	c.Header("Content-Disposition", "inline; filename=\"confirmation.png\"")
	if _, err := c.Writer.Write(qrBytes); err != nil {
		logger.Error.Printf("SubmissionQR: Error writing QR code bytes: %v", err)
	}
}
