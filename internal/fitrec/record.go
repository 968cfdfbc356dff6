package fitrec

import "github.com/tormoder/fit"

// Field names produced by the decoder.
const (
	FieldTimeCreated      = "time_created"
	FieldSerialNumber     = "serial_number"
	FieldProduct          = "product"
	FieldNumber           = "number"
	FieldTimestamp        = "timestamp"
	FieldStartTime        = "start_time"
	FieldTotalDistance    = "total_distance"
	FieldTotalElapsedTime = "total_elapsed_time"
	FieldTotalTimerTime   = "total_timer_time"
	FieldEnhancedAvgSpeed = "enhanced_avg_speed"
	FieldAvgSpeed         = "avg_speed"
	FieldTotalCalories    = "total_calories"
	FieldTotalAscent      = "total_ascent"
	FieldTotalDescent     = "total_descent"
)

// Record is one decoded message: its kind plus the fields that carried valid data.
type Record struct {
	Kind   fit.MesgNum
	fields map[string]Value
}

// NewRecord builds a record of the given kind. Used by decoders and tests.
func NewRecord(kind fit.MesgNum, fields map[string]Value) Record {
	if fields == nil {
		fields = make(map[string]Value)
	}
	return Record{Kind: kind, fields: fields}
}

// Field looks up a field by name.
func (r Record) Field(name string) (Value, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Len returns the number of present fields.
func (r Record) Len() int {
	return len(r.fields)
}

func (r Record) set(name string, v Value) {
	r.fields[name] = v
}

// First returns the first record of the given kind.
func First(records []Record, kind fit.MesgNum) (Record, bool) {
	for _, rec := range records {
		if rec.Kind == kind {
			return rec, true
		}
	}
	return Record{}, false
}
