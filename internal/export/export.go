// Package export writes activity summaries to CSV and Parquet.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/fitdex/internal/model"
)

// Format is an output file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatSQLite  Format = "sqlite"
)

// ParseFormat accepts csv, parquet or sqlite.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatParquet, FormatSQLite:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, parquet or sqlite)", s)
}

// Columns is the header shared by every export format.
var Columns = []string{
	"timestamp", "path", "distance_m", "calories", "duration_s",
	"avg_speed_mps", "ascent_m", "descent_m",
}

// WriteCSV writes one row per activity, timestamps in RFC 3339 UTC.
func WriteCSV(w io.Writer, activities []model.Activity) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, a := range activities {
		s := a.Stats
		rec := []string{
			a.Time.UTC().Format(time.RFC3339),
			a.Path,
			strconv.FormatFloat(s.Distance, 'f', -1, 64),
			strconv.Itoa(int(s.Calories)),
			strconv.FormatFloat(s.Duration, 'f', -1, 64),
			strconv.FormatFloat(s.AvgSpeed, 'f', -1, 64),
			strconv.Itoa(int(s.Ascent)),
			strconv.Itoa(int(s.Descent)),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes activities to path in a file format (csv or parquet).
func WriteFile(path string, format Format, activities []model.Activity) error {
	switch format {
	case FormatCSV:
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := WriteCSV(f, activities); err != nil {
			_ = f.Close()
			return fmt.Errorf("writing csv: %w", err)
		}
		return f.Close()
	case FormatParquet:
		data, err := MarshalParquet(activities)
		if err != nil {
			return fmt.Errorf("encoding parquet: %w", err)
		}
		return os.WriteFile(path, data, 0o644)
	}
	return fmt.Errorf("format %q is not a flat file format", format)
}
