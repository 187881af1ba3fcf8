// Package controllers file: controllers/registration_controller.go
package controllers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"equestrian-entries/logger"
	"equestrian-entries/models"
	"equestrian-entries/services"
	"equestrian-entries/websocket"
)

// maxProfileImageBytes caps rider photo uploads at 5 MB.
const maxProfileImageBytes = 5 << 20

// RegistrationController owns the registration form API: opening sessions
// against upstream event metadata, mutating selection state, and running the
// validate/serialize/submit pipeline.
type RegistrationController struct {
	Events        services.EventServiceInterface
	Registrations services.RegistrationServiceInterface
	Submissions   services.SubmissionServiceInterface
	Archive       *services.ArchiveService
}

// NewRegistrationController wires the controller's service dependencies.
func NewRegistrationController(
	events services.EventServiceInterface,
	registrations services.RegistrationServiceInterface,
	submissions services.SubmissionServiceInterface,
	archive *services.ArchiveService,
) *RegistrationController {
	return &RegistrationController{
		Events:        events,
		Registrations: registrations,
		Submissions:   submissions,
		Archive:       archive,
	}
}

// ------------------ session lifecycle ------------------

// OpenRegistration starts a new form session for an event. The event
// definition is fetched from the upstream platform first; when that fails the
// flow fails closed and no session opens.
func (rc *RegistrationController) OpenRegistration(c *gin.Context) {
	eventID := c.Param("eventID")

	var body struct {
		Mode models.Mode `json:"mode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Mode == "" {
		body.Mode = models.ModeIndividual
	}

	event, err := rc.Events.FetchEvent(c.Request.Context(), eventID)
	if err != nil {
		logger.Error.Printf("OpenRegistration: event %s unavailable: %v", eventID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"message": "Event is unavailable, registration cannot open",
		})
		return
	}

	sessionID, state, err := rc.Registrations.StartSession(event, body.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	go websocket.PublishActiveFormSessions(rc.Registrations.ActiveSessions(), eventID)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"sessionId": sessionID,
			"state":     state,
			"event":     event,
			"total":     services.TotalFee(state),
		},
	})
}

// GetRegistration returns the current state and fee totals of a session.
func (rc *RegistrationController) GetRegistration(c *gin.Context) {
	sessionID := c.Param("sessionID")
	state, event, err := rc.Registrations.GetSession(sessionID)
	if err != nil {
		rc.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"state":     state,
			"event":     event,
			"total":     services.TotalFee(state),
			"riderFees": services.FeeBreakdown(state),
		},
	})
}

// CloseRegistration abandons a session. Any in-flight upstream submission is
// not cancelled; its result is simply discarded with the session.
func (rc *RegistrationController) CloseRegistration(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if !rc.Registrations.EndSession(sessionID) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Registration session not found"})
		return
	}
	websocket.BroadcastSessionClosed(sessionID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ------------------ rider operations ------------------

// AddRider appends a blank rider to a team session.
func (rc *RegistrationController) AddRider(c *gin.Context) {
	sessionID := c.Param("sessionID")
	rider, err := rc.Registrations.AddRider(sessionID)
	if err != nil {
		rc.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"rider": rider}})
}

// RemoveRider removes a rider from a team session.
func (rc *RegistrationController) RemoveRider(c *gin.Context) {
	sessionID := c.Param("sessionID")
	riderID := c.Param("riderID")
	if err := rc.Registrations.RemoveRider(sessionID, riderID); err != nil {
		rc.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateRider sets one field on a rider. Birthdate or gender changes re-derive
// the rider's age and category before the response is built.
func (rc *RegistrationController) UpdateRider(c *gin.Context) {
	sessionID := c.Param("sessionID")
	riderID := c.Param("riderID")

	var body struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Field == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Body must carry field and value"})
		return
	}

	if err := rc.Registrations.UpdateRider(sessionID, riderID, body.Field, body.Value); err != nil {
		rc.respondServiceError(c, err)
		return
	}

	state, _, err := rc.Registrations.GetSession(sessionID)
	if err != nil {
		rc.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"rider": state.Rider(riderID)}})
}

// UpdateTeam sets a team-level field (teamName, parentName, coachName).
func (rc *RegistrationController) UpdateTeam(c *gin.Context) {
	sessionID := c.Param("sessionID")

	var body struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Field == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Body must carry field and value"})
		return
	}

	if err := rc.Registrations.UpdateTeamField(sessionID, body.Field, body.Value); err != nil {
		rc.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadRiderPhoto stores a rider's profile image for the outbound payload.
func (rc *RegistrationController) UploadRiderPhoto(c *gin.Context) {
	sessionID := c.Param("sessionID")
	riderID := c.Param("riderID")

	fileHeader, err := c.FormFile("profile_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "profile_image file is required"})
		return
	}
	if fileHeader.Size > maxProfileImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "message": "Image exceeds the 5MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Could not read uploaded file"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Could not read uploaded file"})
		return
	}

	if err := rc.Registrations.AttachProfileImage(sessionID, riderID, fileHeader.Filename, data); err != nil {
		rc.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ------------------ selection operations ------------------

// ToggleCategory flips a category selection for the session.
func (rc *RegistrationController) ToggleCategory(c *gin.Context) {
	sessionID := c.Param("sessionID")
	categoryID := c.Param("categoryID")
	if err := rc.Registrations.ToggleCategory(sessionID, categoryID); err != nil {
		rc.respondServiceError(c, err)
		return
	}
	rc.respondWithFee(c, sessionID)
}

// ToggleCompetition flips a competition selection: team-wide in team mode,
// per-rider (riderId in the body) in individual mode.
func (rc *RegistrationController) ToggleCompetition(c *gin.Context) {
	sessionID := c.Param("sessionID")
	competitionID := c.Param("competitionID")

	var body struct {
		RiderID string `json:"riderId"`
	}
	_ = c.ShouldBindJSON(&body)

	if err := rc.Registrations.ToggleCompetition(sessionID, competitionID, body.RiderID); err != nil {
		rc.respondServiceError(c, err)
		return
	}
	rc.respondWithFee(c, sessionID)
}

// SwitchMode resets the session to the other registration mode. The reset is
// destructive; the client is expected to confirm with the user first.
func (rc *RegistrationController) SwitchMode(c *gin.Context) {
	sessionID := c.Param("sessionID")

	var body struct {
		Mode models.Mode `json:"mode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Body must carry mode"})
		return
	}

	if err := rc.Registrations.SwitchMode(sessionID, body.Mode); err != nil {
		rc.respondServiceError(c, err)
		return
	}

	state, _, err := rc.Registrations.GetSession(sessionID)
	if err != nil {
		rc.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"state": state}})
}

// OfferedCategories lists the categories open to the session's current mode,
// optionally narrowed to one sub-event via ?subEventId=.
func (rc *RegistrationController) OfferedCategories(c *gin.Context) {
	sessionID := c.Param("sessionID")
	categories, err := rc.Registrations.OfferedCategories(sessionID, c.Query("subEventId"))
	if err != nil {
		rc.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"categories": categories}})
}

// GetFee returns the current totals for a session.
func (rc *RegistrationController) GetFee(c *gin.Context) {
	rc.respondWithFee(c, c.Param("sessionID"))
}

// ------------------ submission ------------------

// SubmitRegistration runs the full validate -> serialize -> submit pipeline.
// Invalid state returns 422 with the complete error map and a pointer to the
// first failing field in form order. Upstream failures leave the session
// untouched so the user may retry.
func (rc *RegistrationController) SubmitRegistration(c *gin.Context) {
	sessionID := c.Param("sessionID")

	result, err := rc.Registrations.ValidateSession(sessionID)
	if err != nil {
		rc.respondServiceError(c, err)
		return
	}
	if !result.Valid {
		logger.Info.Printf("SubmitRegistration: session %s failed validation", sessionID)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Registration has validation errors",
			"errors":  result.Errors,
			"first":   result.First,
		})
		return
	}

	state, _, err := rc.Registrations.GetSession(sessionID)
	if err != nil {
		rc.respondServiceError(c, err)
		return
	}

	started := time.Now()
	receipt, err := rc.Submissions.Submit(c.Request.Context(), state)
	if err != nil {
		logger.Error.Printf("SubmitRegistration: upstream rejected session %s: %v", sessionID, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "Registration could not be submitted. Please try again.",
		})
		return
	}
	go websocket.PublishSubmissionLatency(float64(time.Since(started).Milliseconds()), state.EventID)

	if rc.Archive != nil {
		rc.Archive.Record(state, receipt)
	}
	rc.Registrations.EndSession(sessionID)
	websocket.BroadcastSessionClosed(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reference":   receipt.Reference,
			"total":       receipt.Total,
			"submittedAt": receipt.SubmittedAt,
		},
	})
}

// ------------------ helpers ------------------

// respondWithFee sends the recomputed totals for a session.
func (rc *RegistrationController) respondWithFee(c *gin.Context, sessionID string) {
	state, _, err := rc.Registrations.GetSession(sessionID)
	if err != nil {
		rc.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":     services.TotalFee(state),
			"riderFees": services.FeeBreakdown(state),
			"gstLabel":  "+ GST",
		},
	})
}

// respondServiceError maps state-manager errors onto HTTP statuses.
func (rc *RegistrationController) respondServiceError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrRiderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrTeamFull),
		errors.Is(err, services.ErrTeamAtFloor),
		errors.Is(err, services.ErrSingleRiderMode),
		errors.Is(err, services.ErrCategoryModeSkew):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}
