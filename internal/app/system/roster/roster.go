// Package roster resolves teams, leaders and peer pools from the
// organization chart (teams → parts → members).
//
// Every function here is pure and works on in-memory slices; at
// organizational scale a linear scan is fine.
package roster

import (
	"sort"
	"strings"

	"github.com/dalemusser/evalhub/internal/domain/models"
)

// Normalize returns teams with every member lacking an ID removed, and
// how many were dropped. Stores call it at load time so that the ID is
// the only identity key anywhere downstream.
func Normalize(teams []models.Team) ([]models.Team, int) {
	dropped := 0
	keep := func(in []models.Member) []models.Member {
		if in == nil {
			return nil
		}
		out := make([]models.Member, 0, len(in))
		for _, m := range in {
			m.ID = strings.TrimSpace(m.ID)
			if m.ID == "" {
				dropped++
				continue
			}
			out = append(out, m)
		}
		return out
	}

	out := make([]models.Team, len(teams))
	for i, t := range teams {
		t.Members = keep(t.Members)
		parts := make([]models.Part, len(t.Parts))
		for j, p := range t.Parts {
			p.Members = keep(p.Members)
			parts[j] = p
		}
		t.Parts = parts
		out[i] = t
	}
	return out, dropped
}

// TeamMembers returns the eligible members of a team: direct members
// first, then each part's members, de-duplicated by ID.
func TeamMembers(team *models.Team) []models.Member {
	if team == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []models.Member
	add := func(ms []models.Member) {
		for _, m := range ms {
			if m.ID == "" || seen[m.ID] || !m.Eligible() {
				continue
			}
			seen[m.ID] = true
			out = append(out, m)
		}
	}
	add(team.Members)
	for _, p := range team.Parts {
		add(p.Members)
	}
	return out
}

// AllMembers is the de-duplicated union of TeamMembers over teams.
func AllMembers(teams []models.Team) []models.Member {
	seen := make(map[string]bool)
	var out []models.Member
	for i := range teams {
		for _, m := range TeamMembers(&teams[i]) {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			out = append(out, m)
		}
	}
	return out
}

// ResolveTeamForMember finds the member's team by TeamID, then TeamName,
// then by scanning every roster for the member's ID. It returns nil when
// none match.
func ResolveTeamForMember(member models.Member, teams []models.Team) *models.Team {
	if member.TeamID != "" {
		for i := range teams {
			if teams[i].ID == member.TeamID {
				return &teams[i]
			}
		}
	}
	if member.TeamName != "" {
		for i := range teams {
			if teams[i].Name == member.TeamName {
				return &teams[i]
			}
		}
	}
	for i := range teams {
		for _, m := range TeamMembers(&teams[i]) {
			if m.ID == member.ID {
				return &teams[i]
			}
		}
	}
	return nil
}

// ResolveLeaderID returns the team's LeadID, or the ID of the roster
// member whose name equals Lead. It returns "" when neither resolves.
func ResolveLeaderID(team *models.Team) string {
	if team == nil {
		return ""
	}
	if id := strings.TrimSpace(team.LeadID); id != "" {
		return id
	}
	lead := strings.TrimSpace(team.Lead)
	if lead == "" {
		return ""
	}
	for _, m := range TeamMembers(team) {
		if strings.TrimSpace(m.Name) == lead {
			return m.ID
		}
	}
	return ""
}

// partFor returns the part the member belongs to, by PartID and then by
// roster membership.
func partFor(member models.Member, team *models.Team) *models.Part {
	if member.PartID != "" {
		for i := range team.Parts {
			if team.Parts[i].ID == member.PartID {
				return &team.Parts[i]
			}
		}
	}
	for i := range team.Parts {
		for _, m := range team.Parts[i].Members {
			if m.ID == member.ID {
				return &team.Parts[i]
			}
		}
	}
	return nil
}

// ResolvePeerPool returns the candidate peers for member before any
// exclusions. Scope "all" is the whole organization; "part" is the
// member's part, falling back to the team when no part resolves; "team"
// (and anything else) is the team roster. Without a team, only "all"
// yields candidates.
func ResolvePeerPool(member models.Member, team *models.Team, peerScope string, allMembers []models.Member) []models.Member {
	if peerScope == models.PeerScopeAll {
		return allMembers
	}
	if team == nil {
		return nil
	}
	if peerScope == models.PeerScopePart {
		if p := partFor(member, team); p != nil {
			return TeamMembers(&models.Team{Members: p.Members})
		}
	}
	return TeamMembers(team)
}

// Exclude returns pool without any member whose ID is in ids. Empty ids
// are ignored.
func Exclude(pool []models.Member, ids ...string) []models.Member {
	out := make([]models.Member, 0, len(pool))
outer:
	for _, m := range pool {
		for _, id := range ids {
			if id != "" && m.ID == id {
				continue outer
			}
		}
		out = append(out, m)
	}
	return out
}

// PickPeers sorts a copy of pool by ID and takes count consecutive
// members starting at offset (mod len), wrapping around. count is capped
// at the pool size; the result is deterministic for equal inputs.
func PickPeers(pool []models.Member, count, offset int) []models.Member {
	n := len(pool)
	if n == 0 || count <= 0 {
		return nil
	}
	if count > n {
		count = n
	}
	sorted := make([]models.Member, n)
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	start := offset % n
	if start < 0 {
		start += n
	}
	out := make([]models.Member, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, sorted[(start+i)%n])
	}
	return out
}
