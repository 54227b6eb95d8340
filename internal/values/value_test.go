package values

import (
	"math"
	"testing"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"undefined", Undefined{}, false},
		{"null", Null{}, false},
		{"true", Boolean(true), true},
		{"false", Boolean(false), false},
		{"zero", Number(0), false},
		{"negative zero", Number(0) * -1, false},
		{"nan", Number(nan()), false},
		{"positive number", Number(1), true},
		{"empty string", String(""), false},
		{"non-empty string", String("x"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Truthy(); got != tt.want {
				t.Errorf("Truthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Undefined{}, "undefined"},
		{Null{}, "object"},
		{Boolean(true), "boolean"},
		{Number(1), "number"},
		{String("x"), "string"},
		{nil, "undefined"},
	}
	for _, tt := range tests {
		if got := TypeOf(tt.v); got != tt.want {
			t.Errorf("TypeOf(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestInspectQuotesStrings(t *testing.T) {
	if got := Inspect(String("hi")); got != `"hi"` {
		t.Errorf("Inspect(String) = %q, want %q", got, `"hi"`)
	}
	if got := Inspect(Number(42)); got != "42" {
		t.Errorf("Inspect(Number) = %q, want %q", got, "42")
	}
}

func TestNumberStringSpecialValues(t *testing.T) {
	if got := Number(nan()).String(); got != "NaN" {
		t.Errorf("NaN.String() = %q, want NaN", got)
	}
	if got := Number(math.Inf(1)).String(); got != "Infinity" {
		t.Errorf("Infinity.String() = %q, want Infinity", got)
	}
	if got := Number(math.Inf(-1)).String(); got != "-Infinity" {
		t.Errorf("-Infinity.String() = %q, want -Infinity", got)
	}
}
