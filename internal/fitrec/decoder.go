// Package fitrec adapts the FIT decoder to a small record/field model:
// decode a byte stream into records, then look fields up by name.
package fitrec

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/tormoder/fit"
)

// ErrIncomplete reports that a prefix decode ran out of bytes before it
// found a complete header and file_id message. Retrying with the whole
// file may succeed.
var ErrIncomplete = errors.New("incomplete data within byte limit")

// Decoder turns a byte stream into an ordered sequence of records.
// A limit > 0 restricts decoding to the first limit bytes.
type Decoder interface {
	Decode(r io.Reader, limit int64) ([]Record, error)
}

// FitDecoder decodes FIT activity files.
//
// With a limit it decodes only the header and the leading file_id message.
// Without one it decodes the whole file and also yields session records.
type FitDecoder struct{}

// NewDecoder returns the FIT decoder.
func NewDecoder() *FitDecoder {
	return &FitDecoder{}
}

// Decode implements Decoder.
func (d *FitDecoder) Decode(r io.Reader, limit int64) ([]Record, error) {
	if limit > 0 {
		return d.decodePrefix(r, limit)
	}
	return d.decodeFull(r)
}

func (d *FitDecoder) decodePrefix(r io.Reader, limit int64) ([]Record, error) {
	cr := &countingReader{r: io.LimitReader(r, limit)}
	_, id, err := fit.DecodeHeaderAndFileID(cr)
	if err != nil {
		// Running into the limit means the file is longer than what we saw.
		if cr.n >= limit {
			return nil, fmt.Errorf("%w: %v", ErrIncomplete, err)
		}
		return nil, fmt.Errorf("decoding file_id: %w", err)
	}
	return []Record{fileIDRecord(&id)}, nil
}

func (d *FitDecoder) decodeFull(r io.Reader) ([]Record, error) {
	file, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding fit file: %w", err)
	}

	records := []Record{fileIDRecord(&file.FileId)}

	activity, err := file.Activity()
	if err != nil {
		// Not an activity file: only file_id is meaningful.
		return records, nil //nolint:nilerr
	}
	for _, s := range activity.Sessions {
		if s == nil {
			continue
		}
		records = append(records, sessionRecord(s))
	}
	return records, nil
}

func fileIDRecord(id *fit.FileIdMsg) Record {
	rec := NewRecord(fit.MesgNumFileId, nil)
	setTime(rec, FieldTimeCreated, id.TimeCreated)
	if id.SerialNumber != 0 {
		rec.set(FieldSerialNumber, Uint32(id.SerialNumber))
	}
	setUint16(rec, FieldProduct, id.Product)
	setUint16(rec, FieldNumber, id.Number)
	return rec
}

func sessionRecord(s *fit.SessionMsg) Record {
	rec := NewRecord(fit.MesgNumSession, nil)
	setTime(rec, FieldTimestamp, s.Timestamp)
	setTime(rec, FieldStartTime, s.StartTime)
	setFloat(rec, FieldTotalDistance, s.GetTotalDistanceScaled())
	setFloat(rec, FieldTotalElapsedTime, s.GetTotalElapsedTimeScaled())
	setFloat(rec, FieldTotalTimerTime, s.GetTotalTimerTimeScaled())
	setFloat(rec, FieldEnhancedAvgSpeed, s.GetEnhancedAvgSpeedScaled())
	setFloat(rec, FieldAvgSpeed, s.GetAvgSpeedScaled())
	setUint16(rec, FieldTotalCalories, s.TotalCalories)
	setUint16(rec, FieldTotalAscent, s.TotalAscent)
	setUint16(rec, FieldTotalDescent, s.TotalDescent)
	return rec
}

func setFloat(rec Record, name string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	rec.set(name, Float64(v))
}

func setUint16(rec Record, name string, v uint16) {
	if v == 0xFFFF {
		return
	}
	rec.set(name, Uint16(v))
}

func setTime(rec Record, name string, t time.Time) {
	if t.IsZero() || fit.IsBaseTime(t) {
		return
	}
	rec.set(name, Timestamp(t.UTC()))
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
