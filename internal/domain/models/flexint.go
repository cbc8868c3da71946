// internal/domain/models/flexint.go
package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// FlexInt is an integer field that older documents may hold as int32,
// int64, double or a numeric string. Decoding coerces all of them; an
// absent, null or unparsable value decodes as unset.
type FlexInt struct {
	Value int
	Set   bool
}

// NewFlexInt returns a set FlexInt.
func NewFlexInt(v int) FlexInt { return FlexInt{Value: v, Set: true} }

// Or returns the value, or def when unset.
func (f FlexInt) Or(def int) int {
	if !f.Set {
		return def
	}
	return f.Value
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (f *FlexInt) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*f = FlexInt{}
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Int32:
		f.Value, f.Set = int(rv.Int32()), true
	case bsontype.Int64:
		f.Value, f.Set = int(rv.Int64()), true
	case bsontype.Double:
		d := rv.Double()
		if !math.IsNaN(d) && !math.IsInf(d, 0) {
			f.Value, f.Set = int(d), true
		}
	case bsontype.String:
		s := strings.TrimSpace(rv.StringValue())
		if n, err := strconv.Atoi(s); err == nil {
			f.Value, f.Set = n, true
		} else if d, err := strconv.ParseFloat(s, 64); err == nil {
			f.Value, f.Set = int(d), true
		}
	case bsontype.Null, bsontype.Undefined:
	default:
		return fmt.Errorf("flexint: cannot decode BSON %s", t)
	}
	return nil
}

// MarshalBSONValue implements bson.ValueMarshaler. Unset encodes as null.
func (f FlexInt) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !f.Set {
		return bson.MarshalValue(nil)
	}
	return bson.MarshalValue(int32(f.Value))
}

// IsZero lets omitempty drop unset values.
func (f FlexInt) IsZero() bool { return !f.Set }
