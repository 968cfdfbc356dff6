package source

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/fitdex/internal/fitrec"
	"github.com/theirongolddev/fitdex/internal/fitrec/fittest"
	"github.com/theirongolddev/fitdex/internal/model"
	"github.com/tormoder/fit"
)

var created = time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)

// fakeDecoder serves canned results and counts prefix and full decodes.
type fakeDecoder struct {
	prefix    []fitrec.Record
	prefixErr error
	full      []fitrec.Record
	fullErr   error

	prefixCalls atomic.Int32
	fullCalls   atomic.Int32
}

func (d *fakeDecoder) Decode(r io.Reader, limit int64) ([]fitrec.Record, error) {
	if limit > 0 {
		d.prefixCalls.Add(1)
		return d.prefix, d.prefixErr
	}
	d.fullCalls.Add(1)
	return d.full, d.fullErr
}

func fileID(ts time.Time) fitrec.Record {
	return fitrec.NewRecord(fit.MesgNumFileId, map[string]fitrec.Value{
		fitrec.FieldTimeCreated: fitrec.Timestamp(ts),
	})
}

func placeholder(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activity.fit")
	if err := os.WriteFile(path, []byte{0}, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTimestamp_FastPathSkipsFullDecode(t *testing.T) {
	dec := &fakeDecoder{prefix: []fitrec.Record{fileID(created)}}
	ex := NewExtractor(dec, 2048)

	ts, tier, err := ex.TimestampTier(placeholder(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ts.Equal(created) {
		t.Errorf("timestamp = %v, want %v", ts, created)
	}
	if tier != TierPrefix {
		t.Errorf("tier = %v, want prefix", tier)
	}
	if n := dec.fullCalls.Load(); n != 0 {
		t.Errorf("full decodes = %d, want 0", n)
	}
}

func TestTimestamp_FallsBackOnIncomplete(t *testing.T) {
	dec := &fakeDecoder{
		prefixErr: fitrec.ErrIncomplete,
		full:      []fitrec.Record{fileID(created)},
	}
	ex := NewExtractor(dec, 2048)

	ts, tier, err := ex.TimestampTier(placeholder(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ts.Equal(created) || tier != TierFull {
		t.Errorf("got (%v, %v), want (%v, full)", ts, tier, created)
	}
	if n := dec.fullCalls.Load(); n != 1 {
		t.Errorf("full decodes = %d, want 1", n)
	}
}

func TestTimestamp_TerminalPrefixErrorDoesNotRetry(t *testing.T) {
	dec := &fakeDecoder{prefixErr: errors.New("bad header")}
	ex := NewExtractor(dec, 2048)

	if _, err := ex.Timestamp(placeholder(t)); err == nil {
		t.Fatal("expected error")
	}
	if n := dec.fullCalls.Load(); n != 0 {
		t.Errorf("full decodes = %d, want 0", n)
	}
}

func TestTimestamp_NotFound(t *testing.T) {
	rec := fitrec.NewRecord(fit.MesgNumFileId, map[string]fitrec.Value{
		fitrec.FieldTimeCreated: fitrec.Uint32(12345), // wrong kind
	})
	ex := NewExtractor(&fakeDecoder{prefix: []fitrec.Record{rec}}, 2048)

	_, err := ex.Timestamp(placeholder(t))
	if !errors.Is(err, ErrTimestampNotFound) {
		t.Errorf("err = %v, want ErrTimestampNotFound", err)
	}
}

func TestTimestamp_FirstMatchWins(t *testing.T) {
	later := created.Add(time.Hour)
	ex := NewExtractor(&fakeDecoder{prefix: []fitrec.Record{
		fitrec.NewRecord(fit.MesgNumEvent, nil),
		fileID(created),
		fileID(later),
	}}, 2048)

	ts, err := ex.Timestamp(placeholder(t))
	if err != nil {
		t.Fatal(err)
	}
	if !ts.Equal(created) {
		t.Errorf("timestamp = %v, want %v", ts, created)
	}
}

func TestTimestamp_MissingFile(t *testing.T) {
	dec := &fakeDecoder{}
	ex := NewExtractor(dec, 2048)
	if _, err := ex.Timestamp(filepath.Join(t.TempDir(), "missing.fit")); err == nil {
		t.Fatal("expected error")
	}
	if dec.prefixCalls.Load() != 0 {
		t.Error("decoder should not run when the file cannot be opened")
	}
}

func TestTimestamp_RealFile(t *testing.T) {
	path := fittest.Write(t, t.TempDir(), "ride.fit", fittest.Activity{
		Created:  created,
		Sessions: []fittest.Session{{DistanceM: 5000, Calories: 300}},
	})

	ts, tier, err := defaultExtractor.TimestampTier(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ts.Equal(created) {
		t.Errorf("timestamp = %v, want %v", ts, created)
	}
	if tier != TierPrefix {
		t.Errorf("tier = %v, want prefix", tier)
	}
}

func TestTimestamp_TinyPrefixFallsBack(t *testing.T) {
	path := fittest.Write(t, t.TempDir(), "ride.fit", fittest.Activity{Created: created})

	ts, tier, err := NewExtractor(fitrec.NewDecoder(), 6).TimestampTier(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ts.Equal(created) || tier != TierFull {
		t.Errorf("got (%v, %v), want (%v, full)", ts, tier, created)
	}
}

func TestTimestamp_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.fit")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ExtractTimestamp(path); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestSession_RealFile(t *testing.T) {
	path := fittest.Write(t, t.TempDir(), "ride.fit", fittest.Activity{
		Created: created,
		Sessions: []fittest.Session{{
			DistanceM: 5000,
			ElapsedS:  1800,
			SpeedMPS:  2.5,
			Calories:  300,
			AscentM:   40,
			DescentM:  38,
		}},
	})

	got, err := ExtractSession(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.SessionStats{Distance: 5000, Calories: 300, Duration: 1800, AvgSpeed: 2.5, Ascent: 40, Descent: 38}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestSession_NoSessionIsZero(t *testing.T) {
	path := fittest.Write(t, t.TempDir(), "empty-activity.fit", fittest.Activity{Created: created})

	got, err := ExtractSession(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("stats = %+v, want zero", got)
	}
}

func TestSession_CoercesAndZeroFills(t *testing.T) {
	session := fitrec.NewRecord(fit.MesgNumSession, map[string]fitrec.Value{
		fitrec.FieldTotalDistance:    fitrec.Float32(12.5),
		fitrec.FieldTotalElapsedTime: fitrec.Float64(60),
		fitrec.FieldTotalCalories:    fitrec.Float64(99), // wrong kind
		fitrec.FieldTotalAscent:      fitrec.Uint16(7),
	})
	second := fitrec.NewRecord(fit.MesgNumSession, map[string]fitrec.Value{
		fitrec.FieldTotalDistance: fitrec.Float64(1e6),
	})
	dec := &fakeDecoder{full: []fitrec.Record{fileID(created), session, second}}

	got, err := NewExtractor(dec, 0).Session(placeholder(t))
	if err != nil {
		t.Fatal(err)
	}
	want := model.SessionStats{Distance: 12.5, Duration: 60, Ascent: 7}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestSession_DecodeErrorPropagates(t *testing.T) {
	dec := &fakeDecoder{fullErr: errors.New("crc mismatch")}
	got, err := NewExtractor(dec, 0).Session(placeholder(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if !got.IsZero() {
		t.Errorf("stats = %+v, want zero on error", got)
	}
}

func FuzzExtractTimestamp(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte(".FIT"))
	f.Add([]byte{14, 0x20, 0, 0, 0, 0, 0, 0, '.', 'F', 'I', 'T', 0, 0})
	f.Add(fittest.Encode(f, fittest.Activity{Created: created}))

	f.Fuzz(func(t *testing.T, data []byte) {
		path := filepath.Join(t.TempDir(), "fuzz.fit")
		if err := os.WriteFile(path, data, 0o600); err != nil {
			t.Fatal(err)
		}
		// Must not panic.
		_, _ = ExtractTimestamp(path)
		_, _ = ExtractSession(path)
	})
}
