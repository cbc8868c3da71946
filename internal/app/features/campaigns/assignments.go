// internal/app/features/campaigns/assignments.go
package campaigns

import (
	"errors"
	"net/http"

	"github.com/dalemusser/evalhub/internal/app/system/timeouts"
	"github.com/dalemusser/evalhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeAssignments handles GET /campaigns/{id}/assignments.
func (h *Handler) ServeAssignments(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list assignments")
	defer cancel()

	c, err := h.Campaigns.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		writeError(w, http.StatusNotFound, "campaign not found")
		return
	}
	if err != nil {
		h.Log.Error("load campaign failed", zap.String("campaign_id", id.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load campaign")
		return
	}

	as, err := h.Assignments.ListByCampaign(ctx, id)
	if err != nil {
		h.Log.Error("list assignments failed", zap.String("campaign_id", id.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list assignments")
		return
	}
	if as == nil {
		as = []models.Assignment{}
	}

	writeJSON(w, http.StatusOK, assignmentsResponse{
		CampaignID:  id.Hex(),
		Title:       c.Title,
		Status:      c.Status,
		Count:       len(as),
		Assignments: as,
	})
}
