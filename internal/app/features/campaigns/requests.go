// internal/app/features/campaigns/requests.go
package campaigns

import (
	"github.com/dalemusser/evalhub/internal/app/system/assignment"
	"github.com/dalemusser/evalhub/internal/domain/models"
)

type availabilityRequest struct {
	TargetIDs     []string `json:"target_ids" validate:"required,min=1,dive,required"`
	PeerScope     string   `json:"peer_scope" validate:"omitempty,peerscope"`
	IncludeLeader bool     `json:"include_leader"`
}

type raterGroupInput struct {
	Role     string  `json:"role" validate:"required,relation"`
	Weight   float64 `json:"weight" validate:"min=0,max=100"`
	Required bool    `json:"required"`
}

type launchRequest struct {
	TemplateID  string `json:"template_id" validate:"required,objectid"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	CycleKey    string `json:"cycle_key" validate:"max=64"`

	Timing      string `json:"timing" validate:"required,oneof=now scheduled"`
	StartDate   string `json:"start_date" validate:"omitempty,ymd"`
	EndDate     string `json:"end_date" validate:"required,ymd"`
	PeriodStart string `json:"period_start" validate:"omitempty,ymd"`
	PeriodEnd   string `json:"period_end" validate:"omitempty,ymd"`

	RaterGroups []raterGroupInput `json:"rater_groups" validate:"required,min=1,dive"`
	PeerScope   string            `json:"peer_scope" validate:"omitempty,peerscope"`
	PeerCount   int               `json:"peer_count" validate:"min=0,max=50"`
	RatingScale string            `json:"rating_scale"`
	ScoringRule string            `json:"scoring_rule"`

	AllowAdjustment bool   `json:"allow_adjustment"`
	OverridePolicy  string `json:"override_policy"`

	IsRecurring           bool   `json:"is_recurring"`
	RecurringType         string `json:"recurring_type" validate:"required_if=IsRecurring true"`
	RecurringStartDay     int    `json:"recurring_start_day" validate:"required_if=IsRecurring true,min=0,max=31"`
	RecurringDurationDays int    `json:"recurring_duration_days" validate:"min=0,max=366"`

	TargetIDs []string `json:"target_ids" validate:"required,min=1,dive,required"`
}

func (req launchRequest) raterGroups() []models.RaterGroup {
	out := make([]models.RaterGroup, len(req.RaterGroups))
	for i, g := range req.RaterGroups {
		out[i] = models.RaterGroup{Role: g.Role, Weight: g.Weight, Required: g.Required}
	}
	return out
}

type launchResponse struct {
	CampaignID      string                  `json:"campaign_id"`
	Status          string                  `json:"status"`
	StartDate       string                  `json:"start_date"`
	EndDate         string                  `json:"end_date"`
	AssignmentCount int                     `json:"assignment_count"`
	Availability    assignment.Availability `json:"availability"`
	Warnings        []assignment.Warning    `json:"warnings"`
}

type assignmentsResponse struct {
	CampaignID  string              `json:"campaign_id"`
	Title       string              `json:"title"`
	Status      string              `json:"status"`
	Count       int                 `json:"count"`
	Assignments []models.Assignment `json:"assignments"`
}
