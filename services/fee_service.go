// Package services: services/fee_service.go
package services

import "equestrian-entries/models"

// BaseEntryFee is the flat per-unit entry fee in currency units. The displayed
// total carries a "+ GST" label; tax itself is never computed here.
const BaseEntryFee = 1000

// RiderFee returns the fee for one rider under the current selections:
// competitions x categories x BaseEntryFee. In team mode the competition count
// comes from the shared team set, so every member of a team is charged for the
// team's competitions independently. That per-member multiplication is the
// platform's pricing rule, kept as-is.
func RiderFee(rider *models.RiderEntry, state *models.RegistrationState) int {
	competitions := len(rider.SelectedCompetitionIDs)
	if state.Mode == models.ModeTeam {
		competitions = len(state.TeamCompetitionIDs)
	}
	return competitions * len(state.SelectedCategoryIDs) * BaseEntryFee
}

// TotalFee sums the per-rider fees across the whole session.
func TotalFee(state *models.RegistrationState) int {
	total := 0
	for _, r := range state.Riders {
		total += RiderFee(r, state)
	}
	return total
}

// FeeBreakdown returns rider id -> fee for the current state, used by the
// live fee broadcast and the fee endpoint.
func FeeBreakdown(state *models.RegistrationState) map[string]int {
	fees := make(map[string]int, len(state.Riders))
	for _, r := range state.Riders {
		fees[r.ID] = RiderFee(r, state)
	}
	return fees
}
