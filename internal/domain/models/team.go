// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Part is a sub-unit of a team. Member order is insertion order.
type Part struct {
	ID      string   `bson:"id" json:"id"`
	Title   string   `bson:"title" json:"title"`
	Members []Member `bson:"members" json:"members"`
}

// Team models a document in the `teams` collection.
//
// Members may be held directly on the team and/or nested in Parts; the
// full roster is the de-duplicated union of both. Leadership is LeadID
// when set, otherwise Lead (a display name) matched against the roster.
type Team struct {
	MongoID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID            string             `bson:"id" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Lead          string             `bson:"lead" json:"lead"`
	LeadID        string             `bson:"lead_id,omitempty" json:"lead_id,omitempty"`
	Parts         []Part             `bson:"parts" json:"parts"`
	Members       []Member           `bson:"members,omitempty" json:"members,omitempty"`
	HeadquarterID string             `bson:"headquarter_id,omitempty" json:"headquarter_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
