package fitrec

import "time"

// Value is a decoded field value. It is one of Float32, Float64, Uint16,
// Uint32 or Timestamp.
type Value interface {
	isValue()
}

type (
	Float32   float32
	Float64   float64
	Uint16    uint16
	Uint32    uint32
	Timestamp time.Time
)

func (Float32) isValue()   {}
func (Float64) isValue()   {}
func (Uint16) isValue()    {}
func (Uint32) isValue()    {}
func (Timestamp) isValue() {}

// Time returns the timestamp as a UTC time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t).UTC()
}

// AsFloat widens Float32 and Float64 values. Other kinds report false.
func AsFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case Float32:
		return float64(x), true
	case Float64:
		return float64(x), true
	}
	return 0, false
}

// AsUint16 reports the value when it is a Uint16.
func AsUint16(v Value) (uint16, bool) {
	x, ok := v.(Uint16)
	return uint16(x), ok
}

// AsTime reports the value when it is a Timestamp.
func AsTime(v Value) (time.Time, bool) {
	x, ok := v.(Timestamp)
	if !ok {
		return time.Time{}, false
	}
	return x.Time(), true
}
