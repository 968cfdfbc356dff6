package source

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/theirongolddev/fitdex/internal/fitrec"
	"github.com/theirongolddev/fitdex/internal/model"
	"github.com/tormoder/fit"
)

// ErrTimestampNotFound is returned when a file decodes but carries no time_created field.
var ErrTimestampNotFound = errors.New("timestamp not found")

// Tier identifies which decode produced a timestamp.
type Tier int

const (
	TierPrefix Tier = iota
	TierFull
)

func (t Tier) String() string {
	if t == TierFull {
		return "full"
	}
	return "prefix"
}

// Extractor reads timestamps and session summaries from activity files.
// It holds no per-file state and is safe for concurrent use when its
// Decoder is.
type Extractor struct {
	dec    fitrec.Decoder
	prefix int64
}

// NewExtractor builds an extractor. prefixBytes <= 0 selects DefaultPrefixBytes.
func NewExtractor(dec fitrec.Decoder, prefixBytes int64) *Extractor {
	if prefixBytes <= 0 {
		prefixBytes = DefaultPrefixBytes
	}
	return &Extractor{dec: dec, prefix: prefixBytes}
}

var defaultExtractor = NewExtractor(fitrec.NewDecoder(), DefaultPrefixBytes)

// DefaultExtractor returns the shared extractor using the FIT decoder.
func DefaultExtractor() *Extractor {
	return defaultExtractor
}

// ExtractTimestamp returns the creation timestamp of the file at path.
func ExtractTimestamp(path string) (time.Time, error) {
	return defaultExtractor.Timestamp(path)
}

// ExtractSession returns the session summary of the file at path.
func ExtractSession(path string) (model.SessionStats, error) {
	return defaultExtractor.Session(path)
}

// Timestamp returns the creation timestamp of the file at path, in UTC.
func (e *Extractor) Timestamp(path string) (time.Time, error) {
	ts, _, err := e.TimestampTier(path)
	return ts, err
}

// TimestampTier is Timestamp but also reports whether the prefix decode
// was enough or the whole file had to be decoded.
func (e *Extractor) TimestampTier(path string) (time.Time, Tier, error) {
	records, err := e.decodeFile(path, e.prefix)
	if err == nil {
		ts, err := findTimestamp(records)
		return ts, TierPrefix, err
	}
	if !errors.Is(err, fitrec.ErrIncomplete) {
		return time.Time{}, TierPrefix, err
	}

	log.Trace().Str("path", path).Int64("prefix", e.prefix).Msg("prefix incomplete, decoding full file")

	records, err = e.decodeFile(path, 0)
	if err != nil {
		return time.Time{}, TierFull, err
	}
	ts, err := findTimestamp(records)
	return ts, TierFull, err
}

// Session decodes the whole file and summarizes its first session record.
// A file without a session yields zero stats and no error.
func (e *Extractor) Session(path string) (model.SessionStats, error) {
	records, err := e.decodeFile(path, 0)
	if err != nil {
		return model.SessionStats{}, err
	}
	rec, ok := fitrec.First(records, fit.MesgNumSession)
	if !ok {
		return model.SessionStats{}, nil
	}
	return statsFromRecord(rec), nil
}

func (e *Extractor) decodeFile(path string, limit int64) ([]fitrec.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := e.dec.Decode(f, limit)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return records, nil
}

func findTimestamp(records []fitrec.Record) (time.Time, error) {
	for _, rec := range records {
		v, ok := rec.Field(fitrec.FieldTimeCreated)
		if !ok {
			continue
		}
		if ts, ok := fitrec.AsTime(v); ok {
			return ts, nil
		}
	}
	return time.Time{}, ErrTimestampNotFound
}

func statsFromRecord(rec fitrec.Record) model.SessionStats {
	return model.SessionStats{
		Distance: floatField(rec, fitrec.FieldTotalDistance),
		Calories: uint16Field(rec, fitrec.FieldTotalCalories),
		Duration: floatField(rec, fitrec.FieldTotalElapsedTime),
		AvgSpeed: floatField(rec, fitrec.FieldEnhancedAvgSpeed),
		Ascent:   uint16Field(rec, fitrec.FieldTotalAscent),
		Descent:  uint16Field(rec, fitrec.FieldTotalDescent),
	}
}

func floatField(rec fitrec.Record, name string) float64 {
	v, ok := rec.Field(name)
	if !ok {
		return 0
	}
	f, _ := fitrec.AsFloat(v)
	return f
}

func uint16Field(rec fitrec.Record, name string) uint16 {
	v, ok := rec.Field(name)
	if !ok {
		return 0
	}
	u, _ := fitrec.AsUint16(v)
	return u
}
