// Package publish stores a campaign together with its assignments so that
// a campaign only becomes ACTIVE once every assignment is written.
//
// The campaign is inserted as DRAFT, the assignments go in as one batch,
// then the campaign is flipped to ACTIVE. If the batch or the flip fails
// the campaign stays DRAFT and is never picked up as live.
package publish

import (
	"context"
	"fmt"

	"github.com/dalemusser/evalhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CampaignWriter is the part of the campaign store a publish needs.
type CampaignWriter interface {
	Create(ctx context.Context, c models.Campaign) (models.Campaign, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

// AssignmentWriter writes a batch of assignments atomically.
type AssignmentWriter interface {
	InsertBatch(ctx context.Context, as []models.Assignment) ([]models.Assignment, error)
}

// Result is what got stored.
type Result struct {
	Campaign    models.Campaign
	Assignments []models.Assignment
}

// DraftError reports a publish that stopped after the campaign was
// inserted. The campaign with ID remains in DRAFT.
type DraftError struct {
	CampaignID primitive.ObjectID
	Err        error
}

func (e *DraftError) Error() string {
	return fmt.Sprintf("campaign %s left in DRAFT: %v", e.CampaignID.Hex(), e.Err)
}

func (e *DraftError) Unwrap() error { return e.Err }

// Publish stores c and as. The campaign's status is overwritten (DRAFT,
// then ACTIVE); each assignment gets the stored campaign's id and title.
func Publish(ctx context.Context, campaigns CampaignWriter, assignments AssignmentWriter, log *zap.Logger, c models.Campaign, as []models.Assignment) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	c.Status = models.CampaignDraft
	stored, err := campaigns.Create(ctx, c)
	if err != nil {
		return Result{}, fmt.Errorf("insert campaign: %w", err)
	}

	batch := make([]models.Assignment, len(as))
	for i, a := range as {
		a.CampaignID = stored.ID
		a.CampaignTitle = stored.Title
		batch[i] = a
	}

	written, err := assignments.InsertBatch(ctx, batch)
	if err != nil {
		log.Error("assignment batch failed; campaign left in DRAFT",
			zap.String("campaign_id", stored.ID.Hex()),
			zap.Int("assignments", len(batch)),
			zap.Error(err))
		return Result{}, &DraftError{CampaignID: stored.ID, Err: fmt.Errorf("insert assignments: %w", err)}
	}

	if err := campaigns.SetStatus(ctx, stored.ID, models.CampaignActive); err != nil {
		log.Error("activating campaign failed; campaign left in DRAFT",
			zap.String("campaign_id", stored.ID.Hex()),
			zap.Error(err))
		return Result{}, &DraftError{CampaignID: stored.ID, Err: fmt.Errorf("activate campaign: %w", err)}
	}
	stored.Status = models.CampaignActive

	return Result{Campaign: stored, Assignments: written}, nil
}
