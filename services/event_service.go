// Package services: services/event_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"equestrian-entries/logger"
	"equestrian-entries/models"
)

// ErrEventUnavailable means the upstream platform could not hand us the event
// definition. The registration flow fails closed on it: no session may open
// and no selection controls are offered without loaded event metadata.
var ErrEventUnavailable = errors.New("event is unavailable")

// EventServiceInterface fetches event metadata from the upstream platform.
type EventServiceInterface interface {
	FetchEvent(ctx context.Context, eventID string) (*models.EventDefinition, error)
}

// EventService talks to the platform's registration endpoint.
type EventService struct {
	BaseURL string
	Client  *http.Client
}

// NewEventService creates a client against the given upstream base URL.
func NewEventService(baseURL string) *EventService {
	return &EventService{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// eventEnvelope mirrors the upstream response shape.
type eventEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Event models.EventDefinition `json:"event"`
	} `json:"data"`
}

// FetchEvent does GET /event-participants/register/{eventID} and unwraps the
// {success, data:{event}} envelope. Any transport error, non-2xx status or
// success=false collapses into ErrEventUnavailable.
func (s *EventService) FetchEvent(ctx context.Context, eventID string) (*models.EventDefinition, error) {
	url := fmt.Sprintf("%s/event-participants/register/%s", s.BaseURL, eventID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		logger.Error.Printf("FetchEvent: request to %s failed: %v", url, err)
		return nil, ErrEventUnavailable
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error.Printf("FetchEvent: upstream returned status %d for event %s", resp.StatusCode, eventID)
		return nil, ErrEventUnavailable
	}

	var envelope eventEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		logger.Error.Printf("FetchEvent: bad response body for event %s: %v", eventID, err)
		return nil, ErrEventUnavailable
	}
	if !envelope.Success {
		logger.Warn.Printf("FetchEvent: upstream refused event %s: %s", eventID, envelope.Message)
		return nil, ErrEventUnavailable
	}

	event := envelope.Data.Event
	if event.ID == "" {
		event.ID = eventID
	}
	logger.Info.Printf("FetchEvent: loaded event %s (%d sub-events, %d competitions)",
		event.ID, len(event.SubEvents), len(event.Competitions))
	return &event, nil
}
