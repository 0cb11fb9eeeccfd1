package passepartout

import (
	"math"
	"strconv"
)

// Kind identifies which field of a Value is set.
type Kind int

const (
	// KindNone marks a missing tag.
	KindNone Kind = iota
	KindInt
	KindRational
	KindText
)

// Value is a single tag value.
type Value struct {
	Kind Kind
	Int  int64
	Num  int64
	Den  int64
	Text string
}

// IntValue returns an integer Value.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// RationalValue returns a rational Value.
func RationalValue(num, den int64) Value { return Value{Kind: KindRational, Num: num, Den: den} }

// TextValue returns a text Value.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// Present reports whether the tag was found.
func (v Value) Present() bool { return v.Kind != KindNone }

// Float returns the numeric value, if any.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindRational:
		if v.Den == 0 {
			return 0, false
		}
		return float64(v.Num) / float64(v.Den), true
	}
	return 0, false
}

// String formats the value the way it appears in captions.
// Rationals always carry a fractional part: 2/1 is "2.0", 28/10 is "2.8".
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindRational:
		f, ok := v.Float()
		if !ok {
			return "nan"
		}
		return formatFloat(f)
	case KindText:
		return v.Text
	}
	return notAvailable
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Metadata maps tag names to values.
type Metadata map[string]Value

// Get returns the named value and whether it exists.
func (m Metadata) Get(name string) (Value, bool) {
	v, ok := m[name]
	return v, ok && v.Present()
}

// Lookup returns the named value, or a Value whose Present() is false.
func (m Metadata) Lookup(name string) Value {
	return m[name]
}

// Orientation returns the orientation tag, defaulting to OrientationNormal.
func (m Metadata) Orientation() Orientation {
	v := m.Lookup("Orientation")
	if v.Kind != KindInt {
		return OrientationNormal
	}
	return Orientation(v.Int)
}
