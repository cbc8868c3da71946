package assignment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/evalhub/internal/app/system/recurrence"
	"github.com/dalemusser/evalhub/internal/app/system/roster"
	"github.com/dalemusser/evalhub/internal/domain/models"
)

// Mode decides what happens when a launch cannot produce every
// assignment its configuration asks for.
type Mode string

const (
	// ModeAdvisory launches with the partial set and reports Warnings.
	ModeAdvisory Mode = "advisory"
	// ModeStrict refuses the launch with an *IncompleteError.
	ModeStrict Mode = "strict"
)

// ParseMode maps a config value to a Mode. Empty means advisory.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAdvisory:
		return ModeAdvisory, nil
	case ModeStrict:
		return ModeStrict, nil
	}
	return "", fmt.Errorf("unknown assignment completeness mode %q", s)
}

// DefaultWeights is the evaluation weight split used unless a deployment
// configures another.
var DefaultWeights = models.EvaluationWeights{FirstHalf: 40, SecondHalf: 40, Peer: 20}

// Timing values for LaunchForm.Timing.
const (
	TimingNow       = "now"
	TimingScheduled = "scheduled"
)

var (
	// ErrTemplateNotFound is returned when the form references a template
	// that is not in the provided set. No launch data is produced.
	ErrTemplateNotFound = errors.New("evaluation template not found")

	// ErrIncompleteAssignments is matched by every *IncompleteError.
	ErrIncompleteAssignments = errors.New("launch would leave assignments unfilled")
)

// Shortage reasons.
const (
	ReasonPeerShortage  = "peer_shortage"
	ReasonLeaderMissing = "leader_missing"
)

// Warning describes one target that did not get every assignment the
// configuration asked for.
type Warning struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	Relation   string `json:"relation"`
	Reason     string `json:"reason"`
	Wanted     int    `json:"wanted"`
	Got        int    `json:"got"`
}

// IncompleteError is returned in strict mode.
type IncompleteError struct {
	Warnings []Warning
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%v: %d shortage(s)", ErrIncompleteAssignments, len(e.Warnings))
}

func (e *IncompleteError) Unwrap() error { return ErrIncompleteAssignments }

// LaunchForm is what an operator submits to launch a campaign.
type LaunchForm struct {
	TemplateID  string
	Title       string
	Description string

	Timing      string
	StartDate   string
	EndDate     string
	PeriodStart string
	PeriodEnd   string

	PeerCount   int
	PeerScope   string
	RatingScale string
	ScoringRule string

	AllowAdjustment bool
	OverridePolicy  string

	IsRecurring           bool
	RecurringType         string
	RecurringStartDay     int
	RecurringDurationDays int
}

// LaunchData is a campaign snapshot plus its assignments. Assignments
// carry no CampaignID until the campaign is stored.
type LaunchData struct {
	Campaign     models.Campaign
	Assignments  []models.Assignment
	Availability Availability
	Warnings     []Warning
}

// Builder turns launch forms into LaunchData under a weight policy and a
// completeness mode.
type Builder struct {
	Weights models.EvaluationWeights
	Mode    Mode
	Now     func() time.Time
}

// NewBuilder returns a Builder. A zero weights value selects DefaultWeights.
func NewBuilder(weights models.EvaluationWeights, mode Mode) *Builder {
	if weights == (models.EvaluationWeights{}) {
		weights = DefaultWeights
	}
	if mode == "" {
		mode = ModeAdvisory
	}
	return &Builder{Weights: weights, Mode: mode, Now: func() time.Time { return time.Now().UTC() }}
}

// BuildLaunchData builds the campaign record and its de-duplicated
// assignments for targets. today is the operator's YYYY-MM-DD date and
// becomes the start date when form.Timing is "now".
func (b *Builder) BuildLaunchData(
	form LaunchForm,
	templates []models.Template,
	today string,
	teams []models.Team,
	cycleKey string,
	raterGroups []models.RaterGroup,
	targets []models.Member,
) (*LaunchData, error) {
	tmpl, ok := findTemplate(templates, form.TemplateID)
	if !ok {
		return nil, ErrTemplateNotFound
	}

	startDate := form.StartDate
	if form.Timing == TimingNow {
		startDate = today
	}

	now := b.now()
	snapshot := tmpl.Clone()
	campaign := models.Campaign{
		Title:            form.Title,
		Description:      form.Description,
		TemplateID:       form.TemplateID,
		TemplateSnapshot: &snapshot,
		CycleKey:         cycleKey,
		PeriodStart:      form.PeriodStart,
		PeriodEnd:        form.PeriodEnd,
		StartDate:        startDate,
		EndDate:          form.EndDate,
		RaterGroups:      append([]models.RaterGroup(nil), raterGroups...),
		PeerScope:        form.PeerScope,
		PeerCount:        form.PeerCount,
		RatingScale:      form.RatingScale,
		ScoringRule:      form.ScoringRule,
		Weights:          b.Weights,
		AllowAdjustment:  form.AllowAdjustment,
		OverridePolicy:   form.OverridePolicy,
		Status:           models.CampaignActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if form.IsRecurring {
		recurring := true
		campaign.IsRecurring = &recurring
		campaign.RecurringType = form.RecurringType
		if t, ok := recurrence.NormalizeRecurringType(form.RecurringType); ok {
			campaign.RecurringType = string(t)
		}
		campaign.RecurringStartDay = models.NewFlexInt(form.RecurringStartDay)
		if form.RecurringDurationDays > 0 {
			campaign.RecurringDurationDays = models.NewFlexInt(form.RecurringDurationDays)
		}
	}

	withSelf := models.HasRelation(raterGroups, models.RelationSelf)
	withLeader := models.HasRelation(raterGroups, models.RelationLeader)
	withPeer := models.HasRelation(raterGroups, models.RelationPeer)

	pools := PeerPools(targets, teams, form.PeerScope, withLeader)
	names := make(map[string]string)
	for _, m := range roster.AllMembers(teams) {
		names[m.ID] = m.Name
	}
	for _, m := range targets {
		if _, ok := names[m.ID]; !ok {
			names[m.ID] = m.Name
		}
	}

	out := &LaunchData{Campaign: campaign, Availability: summarize(pools, withLeader)}
	seen := make(map[string]bool)
	add := func(evaluatorID string, evaluatee models.Member, relation string) bool {
		if evaluatorID == "" {
			return false
		}
		a := models.Assignment{
			CampaignTitle: campaign.Title,
			EvaluatorID:   evaluatorID,
			EvaluatorName: names[evaluatorID],
			EvaluateeID:   evaluatee.ID,
			EvaluateeName: evaluatee.Name,
			Relation:      relation,
			DueDate:       campaign.EndDate,
			Status:        models.AssignmentPending,
			Progress:      0,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if seen[a.Key()] {
			return false
		}
		seen[a.Key()] = true
		out.Assignments = append(out.Assignments, a)
		return true
	}

	for i, tp := range pools {
		target := tp.Target
		if withSelf {
			add(target.ID, target, models.RelationSelf)
		}
		if withLeader {
			if tp.LeaderMissing() {
				out.Warnings = append(out.Warnings, Warning{
					MemberID: target.ID, MemberName: target.Name,
					Relation: models.RelationLeader, Reason: ReasonLeaderMissing,
					Wanted: 1, Got: 0,
				})
			} else {
				add(tp.LeaderID, target, models.RelationLeader)
			}
		}
		if withPeer && form.PeerCount > 0 {
			got := 0
			for _, peer := range roster.PickPeers(tp.Pool, form.PeerCount, i) {
				if add(peer.ID, target, models.RelationPeer) {
					got++
				}
			}
			if got < form.PeerCount {
				out.Warnings = append(out.Warnings, Warning{
					MemberID: target.ID, MemberName: target.Name,
					Relation: models.RelationPeer, Reason: ReasonPeerShortage,
					Wanted: form.PeerCount, Got: got,
				})
			}
		}
	}

	if b.Mode == ModeStrict && len(out.Warnings) > 0 {
		return nil, &IncompleteError{Warnings: out.Warnings}
	}
	return out, nil
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now().UTC()
}

func findTemplate(templates []models.Template, id string) (models.Template, bool) {
	if id == "" {
		return models.Template{}, false
	}
	for _, t := range templates {
		if t.ID.Hex() == id {
			return t, true
		}
	}
	return models.Template{}, false
}
