package cloner

import (
	"context"
	"errors"
	"sort"

	"github.com/dalemusser/evalhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memCampaigns is an in-memory CampaignStore.
type memCampaigns struct {
	docs    map[primitive.ObjectID]models.Campaign
	order   []primitive.ObjectID
	listErr error

	// undecodable is reported by ListActive as documents it could not decode.
	undecodable []error
}

func newMemCampaigns(cs ...models.Campaign) *memCampaigns {
	m := &memCampaigns{docs: map[primitive.ObjectID]models.Campaign{}}
	for _, c := range cs {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		m.put(c)
	}
	return m
}

func (m *memCampaigns) put(c models.Campaign) {
	if _, ok := m.docs[c.ID]; !ok {
		m.order = append(m.order, c.ID)
	}
	m.docs[c.ID] = c
}

func (m *memCampaigns) ListActive(context.Context) ([]models.Campaign, []error, error) {
	if m.listErr != nil {
		return nil, nil, m.listErr
	}
	var out []models.Campaign
	for _, id := range m.order {
		if c := m.docs[id]; c.Status == models.CampaignActive {
			out = append(out, c)
		}
	}
	return out, m.undecodable, nil
}

func (m *memCampaigns) Create(_ context.Context, c models.Campaign) (models.Campaign, error) {
	c.ID = primitive.NewObjectID()
	m.put(c)
	return c, nil
}

func (m *memCampaigns) SetStatus(_ context.Context, id primitive.ObjectID, status string) error {
	c, ok := m.docs[id]
	if !ok {
		return errors.New("not found")
	}
	c.Status = status
	m.docs[id] = c
	return nil
}

// children returns the campaigns cloned from parent.
func (m *memCampaigns) children(parent primitive.ObjectID) []models.Campaign {
	var out []models.Campaign
	for _, id := range m.order {
		c := m.docs[id]
		if c.ParentCampaignID != nil && *c.ParentCampaignID == parent {
			out = append(out, c)
		}
	}
	return out
}

// memAssignments is an in-memory AssignmentStore.
type memAssignments struct {
	docs      []models.Assignment
	listErr   error
	insertErr error
	batches   int
}

func (m *memAssignments) ListByCampaign(_ context.Context, id primitive.ObjectID) ([]models.Assignment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Assignment
	for _, a := range m.docs {
		if a.CampaignID == id {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

func (m *memAssignments) InsertBatch(_ context.Context, as []models.Assignment) ([]models.Assignment, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	m.batches++
	out := make([]models.Assignment, len(as))
	for i, a := range as {
		a.ID = primitive.NewObjectID()
		out[i] = a
	}
	m.docs = append(m.docs, out...)
	return out, nil
}
