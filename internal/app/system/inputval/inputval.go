// Package inputval validates decoded request payloads with struct tags.
//
// Besides the stock go-playground rules it registers:
//
//	peerscope   one of team, part, all
//	relation    one of SELF, LEADER, PEER
//	ymd         a YYYY-MM-DD calendar date
//	objectid    a 24-character hex ObjectID
package inputval

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/dalemusser/evalhub/internal/domain/models"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("peerscope", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case models.PeerScopeTeam, models.PeerScopePart, models.PeerScopeAll:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("relation", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case models.RelationSelf, models.RelationLeader, models.RelationPeer:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	})
	return v
}

// FieldErrors maps a JSON field path to the rule it failed.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for k, v := range fe {
		parts = append(parts, k+": "+v)
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

// Struct validates v. It returns nil, FieldErrors for rule failures, or
// the validator's own error when v is not a struct.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, e := range verrs {
		ns := e.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		out[ns] = e.Tag()
	}
	return out
}
