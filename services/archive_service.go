// Package services: services/archive_service.go
package services

import (
	"sync"
	"time"

	"equestrian-entries/models"
)

// ArchivedSubmission is the admin-facing record kept for every completed
// registration. Only scalars survive; rider images went upstream and are not
// retained here.
type ArchivedSubmission struct {
	Reference   string    `json:"reference"`
	EventID     string    `json:"event_id"`
	Mode        string    `json:"mode"`
	TeamName    string    `json:"team_name,omitempty"`
	RiderNames  []string  `json:"rider_names"`
	RiderCount  int       `json:"rider_count"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Pagination is the platform's standard list envelope metadata.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
	Total int `json:"total"`
}

// ArchiveService keeps completed submissions in memory, newest first.
type ArchiveService struct {
	mu    sync.Mutex
	items []ArchivedSubmission
}

// NewArchiveService creates an empty archive.
func NewArchiveService() *ArchiveService {
	return &ArchiveService{}
}

// Record stores the receipt of a successful submission.
func (a *ArchiveService) Record(state *models.RegistrationState, receipt *SubmissionReceipt) {
	names := make([]string, 0, len(state.Riders))
	for _, r := range state.Riders {
		names = append(names, r.Name)
	}
	entry := ArchivedSubmission{
		Reference:   receipt.Reference,
		EventID:     state.EventID,
		Mode:        string(state.Mode),
		TeamName:    state.TeamName,
		RiderNames:  names,
		RiderCount:  len(state.Riders),
		Total:       receipt.Total,
		SubmittedAt: receipt.SubmittedAt,
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = append([]ArchivedSubmission{entry}, a.items...)
}

// Find returns the archived submission with the given reference, or nil.
func (a *ArchiveService) Find(reference string) *ArchivedSubmission {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.items {
		if a.items[i].Reference == reference {
			item := a.items[i]
			return &item
		}
	}
	return nil
}

// List returns one page of archived submissions plus the pagination envelope.
// Page numbering starts at 1; out-of-range pages return an empty item slice.
func (a *ArchiveService) List(page, limit int) ([]ArchivedSubmission, Pagination) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	total := len(a.items)
	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}

	start := (page - 1) * limit
	if start >= total {
		return []ArchivedSubmission{}, Pagination{Page: page, Limit: limit, Pages: pages, Total: total}
	}
	end := start + limit
	if end > total {
		end = total
	}

	items := make([]ArchivedSubmission, end-start)
	copy(items, a.items[start:end])
	return items, Pagination{Page: page, Limit: limit, Pages: pages, Total: total}
}
