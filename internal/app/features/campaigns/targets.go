// internal/app/features/campaigns/targets.go
package campaigns

import (
	"strings"

	"github.com/dalemusser/evalhub/internal/app/system/roster"
	"github.com/dalemusser/evalhub/internal/domain/models"
)

// resolveTargets maps requested member ids onto eligible roster members,
// in request order and without repeats. Members found inside a team get
// that team's id when their record lacks one. Ids with no eligible
// member are returned as unknown.
func resolveTargets(ids []string, teams []models.Team) (targets []models.Member, unknown []string) {
	byID := make(map[string]models.Member)
	for i := range teams {
		for _, m := range roster.TeamMembers(&teams[i]) {
			if _, ok := byID[m.ID]; ok {
				continue
			}
			if m.TeamID == "" {
				m.TeamID = teams[i].ID
			}
			byID[m.ID] = m
		}
	}

	seen := make(map[string]bool, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if m, ok := byID[id]; ok {
			targets = append(targets, m)
		} else {
			unknown = append(unknown, id)
		}
	}
	return targets, unknown
}
