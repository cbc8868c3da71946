// internal/domain/models/campaign.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Campaign statuses.
const (
	CampaignDraft  = "DRAFT"
	CampaignActive = "ACTIVE"
	CampaignClosed = "CLOSED"
)

// Rater relations. A rater group and an assignment share the vocabulary.
const (
	RelationSelf   = "SELF"
	RelationLeader = "LEADER"
	RelationPeer   = "PEER"
)

// Peer scopes.
const (
	PeerScopeTeam = "team"
	PeerScopePart = "part"
	PeerScopeAll  = "all"
)

// RaterGroup configures one evaluator relation. Weights are validated by
// the caller; nothing downstream enforces that they sum to anything.
type RaterGroup struct {
	Role     string  `bson:"role" json:"role"`
	Weight   float64 `bson:"weight" json:"weight"`
	Required bool    `bson:"required,omitempty" json:"required,omitempty"`
}

// EvaluationWeights is the per-half/peer scoring weight split.
type EvaluationWeights struct {
	FirstHalf  float64 `bson:"first_half" json:"first_half"`
	SecondHalf float64 `bson:"second_half" json:"second_half"`
	Peer       float64 `bson:"peer" json:"peer"`
}

// RecurrencePeriod is the legacy nesting of the recurrence fields under
// `period`. Top-level fields win when both are present.
type RecurrencePeriod struct {
	RecurringType         string  `bson:"recurring_type,omitempty" json:"recurring_type,omitempty"`
	RecurringStartDay     FlexInt `bson:"recurring_start_day,omitempty" json:"-"`
	RecurringDurationDays FlexInt `bson:"recurring_duration_days,omitempty" json:"-"`
}

// Campaign models a document in `evaluation_campaigns`: a configuration
// snapshot taken at launch. Recurring definitions are campaigns with the
// recurrence fields populated.
//
// Extra holds every field this type does not name so that cloning a
// document carries it over untouched.
type Campaign struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	TemplateID       string    `bson:"template_id" json:"template_id"`
	TemplateSnapshot *Template `bson:"template_snapshot,omitempty" json:"template_snapshot,omitempty"`

	CycleKey    string `bson:"cycle_key,omitempty" json:"cycle_key,omitempty"`
	PeriodStart string `bson:"period_start,omitempty" json:"period_start,omitempty"`
	PeriodEnd   string `bson:"period_end,omitempty" json:"period_end,omitempty"`
	StartDate   string `bson:"start_date" json:"start_date"`
	EndDate     string `bson:"end_date" json:"end_date"`

	RaterGroups []RaterGroup      `bson:"rater_groups" json:"rater_groups"`
	PeerScope   string            `bson:"peer_scope" json:"peer_scope"`
	PeerCount   int               `bson:"peer_count" json:"peer_count"`
	RatingScale string            `bson:"rating_scale,omitempty" json:"rating_scale,omitempty"`
	ScoringRule string            `bson:"scoring_rule,omitempty" json:"scoring_rule,omitempty"`
	Weights     EvaluationWeights `bson:"weights" json:"weights"`

	AllowAdjustment bool   `bson:"allow_adjustment" json:"allow_adjustment"`
	OverridePolicy  string `bson:"override_policy,omitempty" json:"override_policy,omitempty"`

	IsRecurring           *bool             `bson:"is_recurring,omitempty" json:"is_recurring,omitempty"`
	RecurringType         string            `bson:"recurring_type,omitempty" json:"recurring_type,omitempty"`
	RecurringStartDay     FlexInt           `bson:"recurring_start_day,omitempty" json:"-"`
	RecurringDurationDays FlexInt           `bson:"recurring_duration_days,omitempty" json:"-"`
	Period                *RecurrencePeriod `bson:"period,omitempty" json:"-"`

	// ParentCampaignID is set on campaigns the scheduler cloned.
	ParentCampaignID *primitive.ObjectID `bson:"parent_campaign_id,omitempty" json:"parent_campaign_id,omitempty"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	Extra bson.M `bson:",inline" json:"-"`
}

// RecurringTypeValue returns the recurring type, preferring the top-level
// field over the legacy `period` nesting.
func (c Campaign) RecurringTypeValue() string {
	if c.RecurringType != "" {
		return c.RecurringType
	}
	if c.Period != nil {
		return c.Period.RecurringType
	}
	return ""
}

// StartDay returns recurring_start_day (top-level, then period).
func (c Campaign) StartDay() FlexInt {
	if c.RecurringStartDay.Set {
		return c.RecurringStartDay
	}
	if c.Period != nil {
		return c.Period.RecurringStartDay
	}
	return FlexInt{}
}

// DurationDays returns recurring_duration_days (top-level, then period).
func (c Campaign) DurationDays() FlexInt {
	if c.RecurringDurationDays.Set {
		return c.RecurringDurationDays
	}
	if c.Period != nil {
		return c.Period.RecurringDurationDays
	}
	return FlexInt{}
}

// HasRelation reports whether any rater group uses relation.
func HasRelation(groups []RaterGroup, relation string) bool {
	for _, g := range groups {
		if g.Role == relation {
			return true
		}
	}
	return false
}
