// internal/domain/models/template.go
package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Template is an evaluation form definition in `evaluation_templates`.
// Question content is opaque here and rides in Content.
type Template struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Title string             `bson:"title" json:"title"`

	Content bson.M `bson:",inline" json:"content,omitempty"`
}

// Clone returns a copy whose Content is independent of t's at every
// depth, so a snapshot taken at launch does not change if the source
// template value is later mutated.
func (t Template) Clone() Template {
	out := Template{ID: t.ID, Title: t.Title}
	if t.Content != nil {
		out.Content = deepCopyValue(t.Content).(bson.M)
	}
	return out
}

// deepCopyValue copies the container shapes the driver decodes into.
// Scalars are returned as is.
func deepCopyValue(v interface{}) interface{} {
	switch x := v.(type) {
	case bson.M:
		out := make(bson.M, len(x))
		for k, e := range x {
			out[k] = deepCopyValue(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, e := range x {
			out[k] = deepCopyValue(e)
		}
		return out
	case bson.D:
		out := make(bson.D, len(x))
		for i, e := range x {
			out[i] = bson.E{Key: e.Key, Value: deepCopyValue(e.Value)}
		}
		return out
	case bson.A:
		out := make(bson.A, len(x))
		for i, e := range x {
			out[i] = deepCopyValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = deepCopyValue(e)
		}
		return out
	case []byte:
		return append([]byte(nil), x...)
	case primitive.Binary:
		return primitive.Binary{Subtype: x.Subtype, Data: append([]byte(nil), x.Data...)}
	default:
		return v
	}
}
