// internal/app/features/campaigns/availability.go
package campaigns

import (
	"net/http"
	"strings"

	"github.com/dalemusser/evalhub/internal/app/system/assignment"
	"github.com/dalemusser/evalhub/internal/app/system/timeouts"
	"github.com/dalemusser/evalhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServePeerAvailability handles POST /campaigns/peer-availability.
//
// It is read-only: the operator calls it while picking targets to see
// whether the chosen peer scope can supply enough peers.
func (h *Handler) ServePeerAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.PeerScope == "" {
		req.PeerScope = models.PeerScopeTeam
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load teams")
	defer cancel()

	teams, dropped, err := h.Teams.ListAll(ctx)
	if err != nil {
		h.Log.Error("load teams failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load teams")
		return
	}
	if dropped.Any() {
		h.Log.Warn("roster entries ignored",
			zap.Int("members_without_id", dropped.Members),
			zap.Int("undecodable_teams", dropped.Teams))
	}

	targets, unknown := resolveTargets(req.TargetIDs, teams)
	if len(unknown) > 0 {
		writeError(w, http.StatusBadRequest, "unknown or ineligible target ids: "+strings.Join(unknown, ", "))
		return
	}

	writeJSON(w, http.StatusOK, assignment.ComputePeerAvailability(targets, teams, req.PeerScope, req.IncludeLeader))
}
