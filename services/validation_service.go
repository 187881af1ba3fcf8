// Package services: services/validation_service.go
package services

import (
	"fmt"
	"regexp"

	"equestrian-entries/models"
)

// emailPattern is the standard loose shape check: something@something.tld.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// noCategoryMessage is shown when a rider's age resolves to no category.
const noCategoryMessage = "Age does not fall into any competition category."

// Validate runs every submit-time check against the registration state and
// returns the full error map. Checks never short-circuit, so one run reports
// everything that is wrong. The First pointer follows field declaration
// order: aggregate fields before riders, riders in form order, and each
// rider's fields in the order they appear on the form.
func Validate(state *models.RegistrationState, event *models.EventDefinition) models.ValidationResult {
	errs := models.RegistrationErrors{
		Team:   &models.TeamErrors{},
		Riders: make(map[string]*models.RiderErrors),
	}

	if state.Mode == models.ModeTeam {
		validateTeamLevel(state, event, errs.Team)
	} else if len(state.SelectedCategoryIDs) == 0 {
		// Category selection is global even for individual registrations.
		errs.Team.Categories = "Select at least one category"
	}

	for _, rider := range state.Riders {
		re := validateRider(rider, state.Mode)
		if !re.Empty() {
			errs.Riders[rider.ID] = re
		}
	}

	result := models.ValidationResult{Errors: errs, Valid: errs.Empty()}
	if !result.Valid {
		result.First = firstError(state, &errs)
	}
	return result
}

// validateTeamLevel fills in the aggregate checks for a team registration.
func validateTeamLevel(state *models.RegistrationState, event *models.EventDefinition, te *models.TeamErrors) {
	if state.TeamName == "" {
		te.TeamName = "Team name is required"
	}
	if len(state.SelectedCategoryIDs) == 0 {
		te.Categories = "Select at least one category"
	}
	if len(state.TeamCompetitionIDs) == 0 {
		te.Competitions = "Select at least one competition"
	}

	minSize, maxSize := teamSizeBounds(state, event)
	if n := len(state.Riders); n < minSize || n > maxSize {
		te.TeamSize = fmt.Sprintf("Team must have between %d and %d riders", minSize, maxSize)
	}
}

// teamSizeBounds finds the rider-count range the team must satisfy: the
// bounds of the first selected category that defines them, defaulting to 2-4.
func teamSizeBounds(state *models.RegistrationState, event *models.EventDefinition) (int, int) {
	for _, id := range state.SelectedCategoryIDs {
		cat := event.FindCategory(id)
		if cat == nil {
			continue
		}
		if cat.MinTeamSize != nil || cat.MaxTeamSize != nil {
			return cat.TeamSizeBounds()
		}
	}
	return models.DefaultMinTeamSize, models.DefaultMaxTeamSize
}

// validateRider runs the per-rider checks common to both modes.
func validateRider(rider *models.RiderEntry, mode models.Mode) *models.RiderErrors {
	re := &models.RiderErrors{}
	if rider.Name == "" {
		re.Name = "Rider name is required"
	}
	if !rider.HasDateOfBirth() {
		re.DateOfBirth = "Date of birth is required"
	}
	if rider.Gender == "" {
		re.Gender = "Select a gender"
	}
	if rider.Phone == "" {
		re.Phone = "Phone number is required"
	}
	if rider.Email == "" {
		re.Email = "Email is required"
	} else if !emailPattern.MatchString(rider.Email) {
		re.Email = "Enter a valid email address"
	}
	if mode == models.ModeIndividual && len(rider.SelectedCompetitionIDs) == 0 {
		re.Competitions = "Select at least one competition"
	}
	if rider.HasDateOfBirth() && rider.DerivedCategoryID == "" {
		re.Category = noCategoryMessage
	}
	return re
}

// firstError walks the declaration order and returns the first failing field.
func firstError(state *models.RegistrationState, errs *models.RegistrationErrors) *models.ErrorRef {
	if errs.Team != nil {
		for _, field := range models.AggregateFieldOrder {
			if errs.Team.Get(field) != "" {
				return &models.ErrorRef{Scope: models.TeamScope, Field: field}
			}
		}
	}
	for _, rider := range state.Riders {
		re, ok := errs.Riders[rider.ID]
		if !ok || re == nil {
			continue
		}
		for _, field := range models.RiderFieldOrder {
			if re.Get(field) != "" {
				return &models.ErrorRef{Scope: rider.ID, Field: field}
			}
		}
	}
	return nil
}
