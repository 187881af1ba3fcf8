// Package services: services/submission_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"equestrian-entries/logger"
	"equestrian-entries/models"
)

// ErrSubmissionRejected is the single opaque failure surfaced when the
// upstream turns a registration down. The session state is left untouched so
// the user can correct and resubmit.
var ErrSubmissionRejected = errors.New("registration could not be submitted")

// SubmissionReceipt is returned on a successful upstream submission.
type SubmissionReceipt struct {
	Reference   string    `json:"reference"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmissionServiceInterface serializes a validated state and posts it
// upstream. MockSubmissionService implements it for handler tests.
type SubmissionServiceInterface interface {
	Submit(ctx context.Context, state *models.RegistrationState) (*SubmissionReceipt, error)
}

// SubmissionService posts multipart registrations to the upstream platform.
type SubmissionService struct {
	BaseURL string
	Client  *http.Client
}

// NewSubmissionService creates a submitter against the upstream base URL.
func NewSubmissionService(baseURL string) *SubmissionService {
	return &SubmissionService{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// BuildSubmission flattens the registration state into the upstream multipart
// body: indexed array keys for riders, categories and competitions, plus each
// rider's image part, in a deterministic part order. It performs no
// validation; callers run Validate first.
func BuildSubmission(state *models.RegistrationState) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	// Parts are written in a fixed order so payloads are stable across runs.
	fields := []struct{ key, value string }{
		{"mode", string(state.Mode)},
	}
	add := func(key, value string) {
		fields = append(fields, struct{ key, value string }{key, value})
	}

	if state.Mode == models.ModeTeam {
		add("team_name", state.TeamName)
	}
	if state.ParentName != "" {
		add("parent_name", state.ParentName)
	}
	if state.CoachName != "" {
		add("coach_name", state.CoachName)
	}
	for j, id := range state.SelectedCategoryIDs {
		add(fmt.Sprintf("categories[%d]", j), id)
	}
	if state.Mode == models.ModeTeam {
		for k, id := range state.TeamCompetitionIDs {
			add(fmt.Sprintf("competitions[%d]", k), id)
		}
	}
	for _, f := range fields {
		if err := writer.WriteField(f.key, f.value); err != nil {
			return nil, "", err
		}
	}

	for i, rider := range state.Riders {
		prefix := fmt.Sprintf("riders[%d]", i)
		scalars := []struct{ key, value string }{
			{prefix + "[id]", rider.ID},
			{prefix + "[name]", rider.Name},
			{prefix + "[date_of_birth]", rider.DateOfBirth.Format(dateOfBirthLayout)},
			{prefix + "[age]", fmt.Sprintf("%d", rider.DerivedAge)},
			{prefix + "[gender]", rider.Gender},
			{prefix + "[category_id]", rider.DerivedCategoryID},
			{prefix + "[phone]", rider.Phone},
			{prefix + "[email]", rider.Email},
		}
		if rider.ExternalID != "" {
			scalars = append(scalars, struct{ key, value string }{prefix + "[external_id]", rider.ExternalID})
		}
		for _, f := range scalars {
			if err := writer.WriteField(f.key, f.value); err != nil {
				return nil, "", err
			}
		}
		if state.Mode == models.ModeIndividual {
			for k, id := range rider.SelectedCompetitionIDs {
				if err := writer.WriteField(fmt.Sprintf("%s[competitions][%d]", prefix, k), id); err != nil {
					return nil, "", err
				}
			}
		}
		if rider.ProfileImage != nil {
			part, err := writer.CreateFormFile(prefix+"[profile_image]", rider.ProfileImage.Filename)
			if err != nil {
				return nil, "", err
			}
			if _, err := part.Write(rider.ProfileImage.Data); err != nil {
				return nil, "", err
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

// submitEnvelope mirrors the upstream submission response.
type submitEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// Submit posts the serialized state to
// POST /event-participants/register/{eventID}. Failures are opaque to the
// caller; a generated reference stands in when the upstream returns none.
func (s *SubmissionService) Submit(ctx context.Context, state *models.RegistrationState) (*SubmissionReceipt, error) {
	body, contentType, err := BuildSubmission(state)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/event-participants/register/%s", s.BaseURL, state.EventID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.Client.Do(req)
	if err != nil {
		logger.Error.Printf("Submit: request to %s failed: %v", url, err)
		return nil, ErrSubmissionRejected
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error.Printf("Submit: upstream returned status %d for event %s", resp.StatusCode, state.EventID)
		return nil, ErrSubmissionRejected
	}

	var envelope submitEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		logger.Error.Printf("Submit: bad response body for event %s: %v", state.EventID, err)
		return nil, ErrSubmissionRejected
	}
	if !envelope.Success {
		logger.Warn.Printf("Submit: upstream rejected registration for event %s: %s", state.EventID, envelope.Message)
		return nil, ErrSubmissionRejected
	}

	reference := envelope.Data.Reference
	if reference == "" {
		reference = uuid.NewString()
	}
	receipt := &SubmissionReceipt{
		Reference:   reference,
		Total:       TotalFee(state),
		SubmittedAt: time.Now(),
	}
	logger.Info.Printf("Submit: registration for event %s accepted (reference=%s, total=%d)",
		state.EventID, receipt.Reference, receipt.Total)
	return receipt, nil
}
