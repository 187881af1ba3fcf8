// Package services: services/category_resolver.go
package services

import (
	"time"

	"equestrian-entries/models"
)

// AgeInYears computes a rider's age in whole years at the reference date.
// The count is calendar aware: the year difference is decremented when the
// reference month/day falls before the birthday month/day, so a rider whose
// birthday is tomorrow is still the younger age today.
func AgeInYears(dateOfBirth, today time.Time) int {
	age := today.Year() - dateOfBirth.Year()
	if today.Month() < dateOfBirth.Month() ||
		(today.Month() == dateOfBirth.Month() && today.Day() < dateOfBirth.Day()) {
		age--
	}
	return age
}

// ResolveCategory maps (date of birth, gender) to the id of the matching
// category in the event's sub-events. A category matches when the rider's age
// lies inside its inclusive age band (unset bounds default to 0 and 100) and
// its gender restriction is unset, "mixed" or equal to the rider's gender.
//
// When several categories match, the first one in sub-event/category
// enumeration order wins. That ordering is part of the contract: upstream
// event data with overlapping age bands across sub-events resolves to
// whichever sub-event is listed first.
//
// Returns the empty string when no category matches; callers surface that as
// a field error rather than defaulting.
func ResolveCategory(dateOfBirth time.Time, gender string, today time.Time, subEvents []models.SubEvent) string {
	if dateOfBirth.IsZero() {
		return ""
	}
	age := AgeInYears(dateOfBirth, today)
	for si := range subEvents {
		for ci := range subEvents[si].Categories {
			cat := &subEvents[si].Categories[ci]
			minAge, maxAge := cat.AgeBounds()
			if age < minAge || age > maxAge {
				continue
			}
			if !cat.AcceptsGender(gender) {
				continue
			}
			return cat.ID
		}
	}
	return ""
}
