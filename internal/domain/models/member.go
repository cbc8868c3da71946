// internal/domain/models/member.go
package models

// Member statuses. Only active and intern members take part in evaluations.
const (
	MemberActive   = "active"
	MemberOnLeave  = "on_leave"
	MemberResigned = "resigned"
	MemberIntern   = "intern"
)

// Member is a person in the organization chart.
//
// ID is the one identity key. Records without it are rejected when a
// roster is normalized; Name is display data only.
type Member struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Role     string `bson:"role" json:"role"`
	Status   string `bson:"status" json:"status"`
	TeamID   string `bson:"team_id,omitempty" json:"team_id,omitempty"`
	PartID   string `bson:"part_id,omitempty" json:"part_id,omitempty"`
	TeamName string `bson:"team_name,omitempty" json:"team_name,omitempty"`
	PartName string `bson:"part_name,omitempty" json:"part_name,omitempty"`
}

// Eligible reports whether the member can be an evaluator or evaluatee.
func (m Member) Eligible() bool {
	return m.Status == MemberActive || m.Status == MemberIntern
}
