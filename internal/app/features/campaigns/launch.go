// internal/app/features/campaigns/launch.go
package campaigns

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/evalhub/internal/app/system/assignment"
	"github.com/dalemusser/evalhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/evalhub/internal/app/system/publish"
	"github.com/dalemusser/evalhub/internal/app/system/recurrence"
	"github.com/dalemusser/evalhub/internal/app/system/timeouts"
	"github.com/dalemusser/evalhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeLaunch handles POST /campaigns/launch.
//
//	201  campaign stored and ACTIVE, warnings listed (advisory mode)
//	400  invalid body, unknown targets
//	404  template not found
//	422  strict mode and the launch would be incomplete (warnings in data)
//	500  store failure; a campaign left in DRAFT is named in the message
func (h *Handler) ServeLaunch(w http.ResponseWriter, r *http.Request) {
	log := h.Log.With(zap.String("request_id", uuid.NewString()))

	var req launchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Timing == assignment.TimingScheduled && req.StartDate == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Fields: map[string]string{"start_date": "required_if"},
		})
		return
	}

	title := htmlsanitize.PlainText(req.Title)
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Fields: map[string]string{"title": "required"},
		})
		return
	}
	if req.PeerScope == "" {
		req.PeerScope = models.PeerScopeTeam
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), log, "launch campaign")
	defer cancel()

	teams, dropped, err := h.Teams.ListAll(ctx)
	if err != nil {
		log.Error("load teams failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load teams")
		return
	}
	if dropped.Any() {
		log.Warn("roster entries ignored",
			zap.Int("members_without_id", dropped.Members),
			zap.Int("undecodable_teams", dropped.Teams))
	}

	var templates []models.Template
	tmpl, err := h.Templates.GetByID(ctx, req.TemplateID)
	switch {
	case err == nil:
		templates = append(templates, tmpl)
	case errors.Is(err, mongo.ErrNoDocuments):
		// The builder reports the missing template.
	default:
		log.Error("load template failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load template")
		return
	}

	targets, unknown := resolveTargets(req.TargetIDs, teams)
	if len(unknown) > 0 {
		writeError(w, http.StatusBadRequest, "unknown or ineligible target ids: "+strings.Join(unknown, ", "))
		return
	}

	form := assignment.LaunchForm{
		TemplateID:            req.TemplateID,
		Title:                 title,
		Description:           htmlsanitize.Sanitize(req.Description),
		Timing:                req.Timing,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		PeriodStart:           req.PeriodStart,
		PeriodEnd:             req.PeriodEnd,
		PeerCount:             req.PeerCount,
		PeerScope:             req.PeerScope,
		RatingScale:           req.RatingScale,
		ScoringRule:           req.ScoringRule,
		AllowAdjustment:       req.AllowAdjustment,
		OverridePolicy:        req.OverridePolicy,
		IsRecurring:           req.IsRecurring,
		RecurringType:         req.RecurringType,
		RecurringStartDay:     req.RecurringStartDay,
		RecurringDurationDays: req.RecurringDurationDays,
	}
	today := recurrence.CalculateCampaignPeriod(h.now(), 1).StartDate

	data, err := h.Builder.BuildLaunchData(form, templates, today, teams, req.CycleKey, req.raterGroups(), targets)
	if err != nil {
		var incomplete *assignment.IncompleteError
		switch {
		case errors.Is(err, assignment.ErrTemplateNotFound):
			writeError(w, http.StatusNotFound, "evaluation template not found")
		case errors.As(err, &incomplete):
			log.Info("launch refused: incomplete assignments", zap.Int("shortages", len(incomplete.Warnings)))
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Data: incomplete.Warnings})
		default:
			log.Error("build launch data failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "could not build launch")
		}
		return
	}

	res, err := publish.Publish(ctx, h.Campaigns, h.Assignments, log, data.Campaign, data.Assignments)
	if err != nil {
		var draft *publish.DraftError
		if errors.As(err, &draft) {
			writeError(w, http.StatusInternalServerError, "assignments not stored; campaign "+draft.CampaignID.Hex()+" left in DRAFT")
			return
		}
		log.Error("store campaign failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store campaign")
		return
	}

	log.Info("campaign launched",
		zap.String("campaign_id", res.Campaign.ID.Hex()),
		zap.String("title", res.Campaign.Title),
		zap.Int("targets", len(targets)),
		zap.Int("assignments", len(res.Assignments)),
		zap.Int("warnings", len(data.Warnings)))

	warnings := data.Warnings
	if warnings == nil {
		warnings = []assignment.Warning{}
	}
	writeJSON(w, http.StatusCreated, launchResponse{
		CampaignID:      res.Campaign.ID.Hex(),
		Status:          res.Campaign.Status,
		StartDate:       res.Campaign.StartDate,
		EndDate:         res.Campaign.EndDate,
		AssignmentCount: len(res.Assignments),
		Availability:    data.Availability,
		Warnings:        warnings,
	})
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}
