package record

import "strconv"

// FieldValue is the typed wrapper the document store uses for a single field.
// Exactly one member is set; integers arrive as decimal strings on the wire.
type FieldValue struct {
	StringValue  *string  `json:"stringValue,omitempty"`
	BooleanValue *bool    `json:"booleanValue,omitempty"`
	IntegerValue *string  `json:"integerValue,omitempty"`
	DoubleValue  *float64 `json:"doubleValue,omitempty"`
}

// Scalar converts the typed wrapper to a native value. An unrecognized or
// empty wrapper yields nil.
func (v FieldValue) Scalar() any {
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.BooleanValue != nil:
		return *v.BooleanValue
	case v.IntegerValue != nil:
		n, err := strconv.ParseInt(*v.IntegerValue, 10, 64)
		if err != nil {
			return nil
		}
		return n
	case v.DoubleValue != nil:
		return *v.DoubleValue
	default:
		return nil
	}
}

// Flatten converts a document's typed field map into plain scalars.
func Flatten(fields map[string]FieldValue) map[string]any {
	out := make(map[string]any, len(fields))
	for name, v := range fields {
		out[name] = v.Scalar()
	}
	return out
}
