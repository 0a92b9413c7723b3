package record

import (
	"encoding/json"
	"testing"
)

func strPtr(s string) *string   { return &s }
func boolPtr(b bool) *bool      { return &b }
func f64Ptr(f float64) *float64 { return &f }

func TestScalarVariants(t *testing.T) {
	tests := []struct {
		name string
		in   FieldValue
		want any
	}{
		{"string", FieldValue{StringValue: strPtr("hello")}, "hello"},
		{"bool", FieldValue{BooleanValue: boolPtr(true)}, true},
		{"integer string on wire", FieldValue{IntegerValue: strPtr("42")}, int64(42)},
		{"negative integer", FieldValue{IntegerValue: strPtr("-7")}, int64(-7)},
		{"double", FieldValue{DoubleValue: f64Ptr(3.5)}, 3.5},
		{"unrecognized yields nil", FieldValue{}, nil},
		{"garbage integer yields nil", FieldValue{IntegerValue: strPtr("abc")}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Scalar(); got != tt.want {
				t.Fatalf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestScalarFromWireJSON(t *testing.T) {
	var v FieldValue
	if err := json.Unmarshal([]byte(`{"integerValue":"180"}`), &v); err != nil {
		t.Fatal(err)
	}
	if got := v.Scalar(); got != int64(180) {
		t.Fatalf("got %v", got)
	}

	// A value type this decoder does not know about flattens to nil.
	v = FieldValue{}
	if err := json.Unmarshal([]byte(`{"timestampValue":"2024-06-10T00:00:00Z"}`), &v); err != nil {
		t.Fatal(err)
	}
	if got := v.Scalar(); got != nil {
		t.Fatalf("unknown type should yield nil, got %v", got)
	}
}

func TestFlatten(t *testing.T) {
	fields := map[string]FieldValue{
		"student_name": {StringValue: strPtr("田中")},
		"remind_24h":   {BooleanValue: boolPtr(false)},
		"capacity":     {IntegerValue: strPtr("5")},
		"unknown":      {},
	}
	flat := Flatten(fields)
	if flat["student_name"] != "田中" || flat["remind_24h"] != false || flat["capacity"] != int64(5) {
		t.Fatalf("got %v", flat)
	}
	if flat["unknown"] != nil {
		t.Fatalf("unknown field should be nil, got %v", flat["unknown"])
	}
}
