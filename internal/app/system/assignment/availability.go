// Package assignment expands a campaign launch into evaluator/evaluatee
// assignments and reports how many peers each target can draw from.
package assignment

import (
	"math"

	"github.com/dalemusser/evalhub/internal/app/system/roster"
	"github.com/dalemusser/evalhub/internal/domain/models"
)

// Availability summarizes eligible-peer counts across a set of targets.
type Availability struct {
	Min                int `json:"min"`
	Max                int `json:"max"`
	Avg                int `json:"avg"`
	TargetCount        int `json:"target_count"`
	LeaderMissingCount int `json:"leader_missing_count"`
}

// TargetPool is the resolution of one target: its team, its leader (when
// leaders are in play and distinct from the target) and its peer pool
// after exclusions.
type TargetPool struct {
	Target   models.Member
	Team     *models.Team
	LeaderID string
	Pool     []models.Member
}

// LeaderMissing reports whether includeLeader was requested but no
// distinct leader resolved for the target.
func (tp TargetPool) LeaderMissing() bool { return tp.LeaderID == "" }

// PeerPools resolves every target's team, leader and candidate peers.
// The target is always excluded from its own pool; the leader is
// excluded only when includeLeader is set.
func PeerPools(targets []models.Member, teams []models.Team, peerScope string, includeLeader bool) []TargetPool {
	all := roster.AllMembers(teams)
	out := make([]TargetPool, 0, len(targets))
	for _, target := range targets {
		team := roster.ResolveTeamForMember(target, teams)
		tp := TargetPool{Target: target, Team: team}
		if includeLeader {
			if id := roster.ResolveLeaderID(team); id != target.ID {
				tp.LeaderID = id
			}
		}
		pool := roster.ResolvePeerPool(target, team, peerScope, all)
		tp.Pool = roster.Exclude(pool, target.ID, tp.LeaderID)
		out = append(out, tp)
	}
	return out
}

// ComputePeerAvailability reports min/max/rounded-average pool sizes and
// how many targets lack a leader when includeLeader is set. Zero targets
// yield the zero value.
func ComputePeerAvailability(targets []models.Member, teams []models.Team, peerScope string, includeLeader bool) Availability {
	return summarize(PeerPools(targets, teams, peerScope, includeLeader), includeLeader)
}

func summarize(pools []TargetPool, includeLeader bool) Availability {
	if len(pools) == 0 {
		return Availability{}
	}
	a := Availability{TargetCount: len(pools), Min: math.MaxInt}
	sum := 0
	for _, tp := range pools {
		n := len(tp.Pool)
		sum += n
		if n < a.Min {
			a.Min = n
		}
		if n > a.Max {
			a.Max = n
		}
		if includeLeader && tp.LeaderMissing() {
			a.LeaderMissingCount++
		}
	}
	a.Avg = int(math.Round(float64(sum) / float64(len(pools))))
	return a
}
