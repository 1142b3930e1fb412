package service

import (
	"strings"

	"github.com/set-night/influnest/internal/domain"
)

// FilterAll disables status filtering.
const FilterAll = "All"

// FilterCampaigns keeps the campaigns whose status matches filter, ignoring
// case. FilterAll and the empty filter keep everything.
func FilterCampaigns(campaigns []domain.Campaign, filter string) []domain.Campaign {
	if filter == "" || strings.EqualFold(filter, FilterAll) {
		return campaigns
	}

	out := make([]domain.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if strings.EqualFold(string(c.Status), filter) {
			out = append(out, c)
		}
	}
	return out
}
