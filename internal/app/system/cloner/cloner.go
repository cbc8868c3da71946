// Package cloner is the daily driver for recurring campaigns: every ACTIVE
// definition that fires today is copied into a new dated campaign along
// with fresh copies of its assignments.
//
// A run keeps no state. Triggering it twice on the same day creates the
// same campaigns twice; the external trigger owns exactly-once.
package cloner

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/evalhub/internal/app/system/publish"
	"github.com/dalemusser/evalhub/internal/app/system/recurrence"
	"github.com/dalemusser/evalhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProbeDays is the fixed duration used only to learn today's KST date.
const ProbeDays = 14

// DefaultDurationDays applies when a definition has no usable duration.
const DefaultDurationDays = 14

// Skip reasons, as reported in Report.Skipped.
const (
	SkipNotRecurring = "not_recurring"
	SkipIsClone      = "is_clone"
	SkipNoStartDay   = "no_start_day"
	SkipOtherDay     = "other_day"
	SkipOffCycle     = "off_cycle"
	SkipUndecodable  = "undecodable"
)

// CampaignStore is what the cloner needs from campaign storage.
type CampaignStore interface {
	publish.CampaignWriter
	// ListActive returns the decodable ACTIVE definitions and one error
	// per document that could not be decoded.
	ListActive(ctx context.Context) (campaigns []models.Campaign, undecodable []error, err error)
}

// AssignmentStore is what the cloner needs from assignment storage.
type AssignmentStore interface {
	publish.AssignmentWriter
	ListByCampaign(ctx context.Context, campaignID primitive.ObjectID) ([]models.Assignment, error)
}

// ClonedCampaign describes one campaign created (or, in a dry run, one
// that would have been).
type ClonedCampaign struct {
	SourceID    primitive.ObjectID `json:"source_id"`
	CampaignID  primitive.ObjectID `json:"campaign_id"`
	Title       string             `json:"title"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	Assignments int                `json:"assignments"`
}

// Report summarizes a run.
type Report struct {
	RunID      string           `json:"run_id"`
	Today      string           `json:"today"`
	DryRun     bool             `json:"dry_run"`
	Considered int              `json:"considered"`
	Skipped    map[string]int   `json:"skipped"`
	Cloned     []ClonedCampaign `json:"cloned"`
}

type Cloner struct {
	Campaigns   CampaignStore
	Assignments AssignmentStore
	Log         *zap.Logger

	// Now returns the invocation instant. Defaults to time.Now.
	Now func() time.Time

	// DryRun evaluates every definition but writes nothing.
	DryRun bool
}

// Run clones every definition due today. Definitions are processed one at
// a time; the first store error stops the run and is returned together
// with the report of what was done so far. Campaigns cloned earlier in
// the run are not rolled back.
func (c *Cloner) Run(ctx context.Context) (Report, error) {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	instant := now().UTC()

	probe := recurrence.CalculateCampaignPeriod(instant, ProbeDays)
	rep := Report{
		RunID:   uuid.NewString(),
		Today:   probe.StartDate,
		DryRun:  c.DryRun,
		Skipped: map[string]int{},
	}
	log = log.With(zap.String("run_id", rep.RunID), zap.String("today", rep.Today))

	defs, undecodable, err := c.Campaigns.ListActive(ctx)
	if err != nil {
		return rep, fmt.Errorf("list active campaigns: %w", err)
	}
	rep.Considered = len(defs) + len(undecodable)
	for _, derr := range undecodable {
		log.Warn("skipping undecodable campaign definition", zap.Error(derr))
		rep.Skipped[SkipUndecodable]++
	}

	for _, def := range defs {
		if reason := skipReason(def, probe); reason != "" {
			rep.Skipped[reason]++
			continue
		}

		cloned, err := c.cloneOne(ctx, log, def, instant)
		if err != nil {
			log.Error("clone failed; aborting run",
				zap.String("source_id", def.ID.Hex()),
				zap.Int("cloned_so_far", len(rep.Cloned)),
				zap.Error(err))
			return rep, fmt.Errorf("clone campaign %s: %w", def.ID.Hex(), err)
		}
		rep.Cloned = append(rep.Cloned, cloned)
	}

	log.Info("recurring campaign run complete",
		zap.Bool("dry_run", c.DryRun),
		zap.Int("considered", rep.Considered),
		zap.Int("cloned", len(rep.Cloned)),
		zap.Any("skipped", rep.Skipped))
	return rep, nil
}

func (c *Cloner) cloneOne(ctx context.Context, log *zap.Logger, def models.Campaign, instant time.Time) (ClonedCampaign, error) {
	period := recurrence.CalculateCampaignPeriod(instant, def.DurationDays().Or(DefaultDurationDays))
	campaign := NewCampaign(def, period, instant)

	sources, err := c.Assignments.ListByCampaign(ctx, def.ID)
	if err != nil {
		return ClonedCampaign{}, fmt.Errorf("list assignments: %w", err)
	}
	copies := make([]models.Assignment, len(sources))
	for i, a := range sources {
		copies[i] = NewAssignment(a, period.EndDate, instant)
	}

	out := ClonedCampaign{
		SourceID:    def.ID,
		Title:       campaign.Title,
		StartDate:   period.StartDate,
		EndDate:     period.EndDate,
		Assignments: len(copies),
	}
	if c.DryRun {
		log.Info("would clone campaign",
			zap.String("source_id", def.ID.Hex()),
			zap.String("title", campaign.Title),
			zap.Int("assignments", len(copies)))
		return out, nil
	}

	res, err := publish.Publish(ctx, c.Campaigns, c.Assignments, log, campaign, copies)
	if err != nil {
		return ClonedCampaign{}, err
	}
	out.CampaignID = res.Campaign.ID
	log.Info("cloned campaign",
		zap.String("source_id", def.ID.Hex()),
		zap.String("campaign_id", res.Campaign.ID.Hex()),
		zap.String("title", campaign.Title),
		zap.String("start_date", period.StartDate),
		zap.String("end_date", period.EndDate),
		zap.Int("assignments", len(res.Assignments)))
	return out, nil
}

// skipReason returns why def does not fire in probe's day, or "".
func skipReason(def models.Campaign, probe recurrence.Period) string {
	raw := def.RecurringTypeValue()
	kind, typed := recurrence.NormalizeRecurringType(raw)

	recurring := typed
	if def.IsRecurring != nil {
		recurring = *def.IsRecurring
	}
	if !recurring {
		return SkipNotRecurring
	}
	if def.ParentCampaignID != nil {
		return SkipIsClone
	}

	day := def.StartDay()
	if !day.Set {
		return SkipNoStartDay
	}
	if day.Value != probe.CurrentDay {
		return SkipOtherDay
	}

	if !typed {
		kind = recurrence.Type(raw)
	}
	if !recurrence.ShouldRunRecurring(kind, def.StartDate, probe.CurrentYear, probe.CurrentMonth) {
		return SkipOffCycle
	}
	return ""
}

// NewCampaign builds the dated copy of def for period. The copy has no ID
// and points back at def through ParentCampaignID.
func NewCampaign(def models.Campaign, period recurrence.Period, now time.Time) models.Campaign {
	c := def
	c.ID = primitive.NilObjectID
	c.Title = fmt.Sprintf("%s (%04d-%02d)", def.Title, period.CurrentYear, period.CurrentMonth)
	c.StartDate = period.StartDate
	c.EndDate = period.EndDate
	c.Status = models.CampaignActive

	recurring := true
	c.IsRecurring = &recurring
	if kind, ok := recurrence.NormalizeRecurringType(def.RecurringTypeValue()); ok {
		c.RecurringType = string(kind)
	} else if def.RecurringTypeValue() == "" {
		c.RecurringType = string(recurrence.Monthly)
	}

	parent := def.ID
	c.ParentCampaignID = &parent
	c.CreatedAt = now
	c.UpdatedAt = now

	c.RaterGroups = append([]models.RaterGroup(nil), def.RaterGroups...)
	c.Extra = copyExtra(def.Extra)
	if def.Period != nil {
		p := *def.Period
		c.Period = &p
	}
	return c
}

// NewAssignment copies a for a new campaign due on dueDate, reset to
// PENDING with review tracking cleared. Campaign linkage is set on publish.
func NewAssignment(a models.Assignment, dueDate string, now time.Time) models.Assignment {
	out := a
	out.ID = primitive.NilObjectID
	out.CampaignID = primitive.NilObjectID
	out.DueDate = dueDate
	out.Status = models.AssignmentPending
	out.Progress = 0
	out.CreatedAt = now
	out.UpdatedAt = now
	out.ReviewRequestedAt = nil
	out.ReviewRequestedBy = nil
	out.ResubmissionRequestedAt = nil
	out.ResubmissionRequestedBy = nil
	out.Extra = copyExtra(a.Extra)
	return out
}

func copyExtra(m bson.M) bson.M {
	if m == nil {
		return nil
	}
	out := make(bson.M, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
