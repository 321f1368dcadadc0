package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     Kind
		rendered string
	}{
		{"leading zero digits become int", "042", KindInt, "42"},
		{"plain digits", "1834", KindInt, "1834"},
		{"decimal stays text", "4.2", KindText, "4.2"},
		{"negative stays text", "-5", KindText, "-5"},
		{"empty stays text", "", KindText, ""},
		{"padded digits stay text", " 12", KindText, " 12"},
		{"version string stays text", "118.0.5993.88", KindText, "118.0.5993.88"},
		{"too large for int64 stays text", "99999999999999999999", KindText, "99999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Coerce(tt.input)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.rendered, v.String())
		})
	}
}

func TestToNumber(t *testing.T) {
	assert.Equal(t, 0.0, ToNumber(""))
	assert.Equal(t, 0.0, ToNumber("  "))
	assert.Equal(t, 200.0, ToNumber("200"))
	assert.Equal(t, 4.5, ToNumber(" 4.5 "))
	assert.True(t, math.IsNaN(ToNumber("Ok")))
	assert.True(t, math.IsNaN(ToNumber("NaN")))
	assert.True(t, math.IsNaN(ToNumber("inf")))
	assert.True(t, math.IsInf(ToNumber("-Infinity"), -1))
	assert.Equal(t, 1200.0, ToNumber("1.2e3"))
}

func TestToNumber_RadixLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"0x1A", 26},
		{"0X64", 100},
		{" 0xff ", 255},
		{"0o17", 15},
		{"0b101", 5},
		{"0B11", 3},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ToNumber(tt.input))
		})
	}

	for _, bad := range []string{"0x", "-0x10", "+0x10", "0xg1", "0b102", "0o8", "0x_1", "0x1.8", "0x1p4"} {
		assert.True(t, math.IsNaN(ToNumber(bad)), bad)
	}
}

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"71", 71, true},
		{"71.9", 71, true},
		{"  95%", 95, true},
		{"-3", -3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLeadingInt(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueFloat(t *testing.T) {
	assert.Equal(t, 12.0, Int(12).Float())
	assert.Equal(t, 1.5, Number(1.5).Float())
	assert.Equal(t, 0.0, Text("").Float())
	assert.True(t, math.IsNaN(Text("n/a").Float()))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "NaN", FormatNumber(math.NaN()))
	assert.Equal(t, "57", FormatNumber(57))
	assert.Equal(t, "-3", FormatNumber(-3))
	assert.Equal(t, "0.25", FormatNumber(0.25))
	assert.Equal(t, "Infinity", FormatNumber(math.Inf(1)))
}
