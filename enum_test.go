package dt0

import (
	"math"
	"reflect"
	"testing"
)

type color string

const (
	colorRed   color = "red"
	colorGreen color = "green"
)

type level int

const (
	levelLow level = iota + 1
	levelHigh
)

func (l level) String() string {
	switch l {
	case levelLow:
		return "low"
	case levelHigh:
		return "high"
	default:
		return "unknown"
	}
}

func TestEnum_StringBacked(t *testing.T) {
	colors := NewEnum("Color", colorRed, colorGreen)

	tests := []struct {
		name string
		raw  any
		want any
		ok   bool
	}{
		{"case", colorGreen, colorGreen, true},
		{"backing value", "red", colorRed, true},
		{"bytes", []byte("green"), colorGreen, true},
		{"undeclared case", color("blue"), nil, false},
		{"undeclared value", "purple", nil, false},
		{"wrong case", "RED", nil, false},
		{"number", 1, nil, false},
		{"nil", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := colors.Lookup(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Lookup(%v) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEnum_IntBacked(t *testing.T) {
	levels := NewEnum("Level", levelLow, levelHigh)

	tests := []struct {
		name string
		raw  any
		want any
		ok   bool
	}{
		{"case", levelHigh, levelHigh, true},
		{"int", 1, levelLow, true},
		{"int64", int64(2), levelHigh, true},
		{"float", 2.0, levelHigh, true},
		{"numeric string", "2", levelHigh, true},
		{"stringer form", "low", levelLow, true},
		{"fractional float", 1.5, nil, false},
		{"fractional string", "1.5", nil, false},
		{"bool", true, nil, false},
		{"undeclared case", level(9), nil, false},
		{"undeclared value", 3, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := levels.Lookup(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Lookup(%v) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEnum_Metadata(t *testing.T) {
	levels := NewEnum("Level", levelLow, levelHigh)

	if levels.Name() != "Level" {
		t.Errorf("Name() = %q", levels.Name())
	}
	if levels.GoType() != reflect.TypeFor[level]() {
		t.Errorf("GoType() = %v", levels.GoType())
	}
	if b := levels.Backing(levelHigh); b != int64(2) {
		t.Errorf("Backing(levelHigh) = %#v, want int64(2)", b)
	}

	cases := levels.Cases()
	cases[0] = level(7)
	if levels.Cases()[0] != levelLow {
		t.Error("Cases() should return a copy")
	}

	colors := NewEnum("Color", colorRed)
	if b := colors.Backing(colorRed); b != "red" {
		t.Errorf("Backing(colorRed) = %#v, want %q", b, "red")
	}
}

type mask uint64

const (
	maskNone mask = 0
	maskAll  mask = math.MaxUint64
)

func TestEnum_UnsignedAboveInt64(t *testing.T) {
	masks := NewEnum("Mask", maskNone, maskAll)

	if b := masks.Backing(maskAll); b != uint64(math.MaxUint64) {
		t.Errorf("Backing(maskAll) = %#v, want uint64 max", b)
	}
	if got, ok := masks.Lookup(-1); ok {
		t.Errorf("Lookup(-1) = %v, want no match", got)
	}
	if got, ok := masks.Lookup(maskAll); !ok || got != maskAll {
		t.Errorf("Lookup(maskAll) = %v, %v; want maskAll, true", got, ok)
	}
	if got, ok := masks.Lookup(0); !ok || got != maskNone {
		t.Errorf("Lookup(0) = %v, %v; want maskNone, true", got, ok)
	}
}
