// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment statuses.
const (
	AssignmentPending    = "PENDING"
	AssignmentInProgress = "IN_PROGRESS"
	AssignmentSubmitted  = "SUBMITTED"
)

// Assignment models a document in `evaluation_assignments`: one evaluator
// rating one evaluatee under one relation.
//
// Within a campaign no two assignments share (EvaluatorID, EvaluateeID,
// Relation). The launch builder guarantees it; storage does not.
type Assignment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CampaignID    primitive.ObjectID `bson:"campaign_id" json:"campaign_id"`
	CampaignTitle string             `bson:"campaign_title" json:"campaign_title"`

	EvaluatorID   string `bson:"evaluator_id" json:"evaluator_id"`
	EvaluatorName string `bson:"evaluator_name,omitempty" json:"evaluator_name,omitempty"`
	EvaluateeID   string `bson:"evaluatee_id" json:"evaluatee_id"`
	EvaluateeName string `bson:"evaluatee_name,omitempty" json:"evaluatee_name,omitempty"`
	Relation      string `bson:"relation" json:"relation"`

	DueDate  string `bson:"due_date" json:"due_date"`
	Status   string `bson:"status" json:"status"`
	Progress int    `bson:"progress" json:"progress"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	// Review tracking. Written as explicit nulls when reset.
	ReviewRequestedAt       *time.Time `bson:"review_requested_at" json:"review_requested_at"`
	ReviewRequestedBy       *string    `bson:"review_requested_by" json:"review_requested_by"`
	ResubmissionRequestedAt *time.Time `bson:"resubmission_requested_at" json:"resubmission_requested_at"`
	ResubmissionRequestedBy *string    `bson:"resubmission_requested_by" json:"resubmission_requested_by"`

	Extra bson.M `bson:",inline" json:"-"`
}

// Key is the de-duplication key evaluator:evaluatee:relation.
func (a Assignment) Key() string {
	return a.EvaluatorID + ":" + a.EvaluateeID + ":" + a.Relation
}
