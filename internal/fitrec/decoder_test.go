package fitrec_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/fitdex/internal/fitrec"
	"github.com/theirongolddev/fitdex/internal/fitrec/fittest"
	"github.com/tormoder/fit"
)

var created = time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)

func sample(t *testing.T) []byte {
	t.Helper()
	return fittest.Encode(t, fittest.Activity{
		Created: created,
		Sessions: []fittest.Session{{
			DistanceM: 5000,
			ElapsedS:  1800,
			SpeedMPS:  2.778,
			Calories:  300,
			AscentM:   42,
		}},
	})
}

func TestDecodePrefix_FileID(t *testing.T) {
	data := sample(t)
	records, err := fitrec.NewDecoder().Decode(bytes.NewReader(data), 2048)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rec, ok := fitrec.First(records, fit.MesgNumFileId)
	if !ok {
		t.Fatal("no file_id record")
	}
	v, ok := rec.Field(fitrec.FieldTimeCreated)
	if !ok {
		t.Fatal("time_created missing")
	}
	got, ok := fitrec.AsTime(v)
	if !ok || !got.Equal(created) {
		t.Errorf("time_created = %v, want %v", got, created)
	}
	if _, ok := fitrec.First(records, fit.MesgNumSession); ok {
		t.Error("prefix decode should not produce session records")
	}
}

func TestDecodePrefix_Incomplete(t *testing.T) {
	data := sample(t)
	_, err := fitrec.NewDecoder().Decode(bytes.NewReader(data), 8)
	if !errors.Is(err, fitrec.ErrIncomplete) {
		t.Fatalf("err = %v, want ErrIncomplete", err)
	}
}

func TestDecodePrefix_ShortGarbageIsTerminal(t *testing.T) {
	_, err := fitrec.NewDecoder().Decode(bytes.NewReader([]byte("not a fit file")), 2048)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, fitrec.ErrIncomplete) {
		t.Errorf("err = %v, should not be ErrIncomplete", err)
	}
}

func TestDecodeFull_Session(t *testing.T) {
	records, err := fitrec.NewDecoder().Decode(bytes.NewReader(sample(t)), 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rec, ok := fitrec.First(records, fit.MesgNumSession)
	if !ok {
		t.Fatal("no session record")
	}

	dist, _ := rec.Field(fitrec.FieldTotalDistance)
	if got, ok := fitrec.AsFloat(dist); !ok || got != 5000 {
		t.Errorf("total_distance = %v, want 5000", got)
	}
	cal, _ := rec.Field(fitrec.FieldTotalCalories)
	if got, ok := fitrec.AsUint16(cal); !ok || got != 300 {
		t.Errorf("total_calories = %v, want 300", got)
	}
	if _, ok := rec.Field(fitrec.FieldTotalDescent); ok {
		t.Error("total_descent was never set and should be absent")
	}
}

func TestAsFloat(t *testing.T) {
	tests := []struct {
		name string
		v    fitrec.Value
		want float64
		ok   bool
	}{
		{"float32", fitrec.Float32(1.5), 1.5, true},
		{"float64", fitrec.Float64(2.25), 2.25, true},
		{"uint16", fitrec.Uint16(7), 0, false},
		{"timestamp", fitrec.Timestamp(created), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fitrec.AsFloat(tt.v)
			if got != tt.want || ok != tt.ok {
				t.Errorf("AsFloat = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}
