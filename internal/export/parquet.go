package export

import (
	"time"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/theirongolddev/fitdex/internal/model"
)

type activityRow struct {
	Timestamp   string  `parquet:"name=timestamp, type=BYTE_ARRAY, convertedtype=UTF8"`
	Path        string  `parquet:"name=path, type=BYTE_ARRAY, convertedtype=UTF8"`
	DistanceM   float64 `parquet:"name=distance_m, type=DOUBLE"`
	Calories    int32   `parquet:"name=calories, type=INT32"`
	DurationS   float64 `parquet:"name=duration_s, type=DOUBLE"`
	AvgSpeedMPS float64 `parquet:"name=avg_speed_mps, type=DOUBLE"`
	AscentM     int32   `parquet:"name=ascent_m, type=INT32"`
	DescentM    int32   `parquet:"name=descent_m, type=INT32"`
}

// MarshalParquet encodes activities as a SNAPPY-compressed Parquet file.
func MarshalParquet(activities []model.Activity) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(activityRow), 4)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, a := range activities {
		s := a.Stats
		row := activityRow{
			Timestamp:   a.Time.UTC().Format(time.RFC3339),
			Path:        a.Path,
			DistanceM:   s.Distance,
			Calories:    int32(s.Calories),
			DurationS:   s.Duration,
			AvgSpeedMPS: s.AvgSpeed,
			AscentM:     int32(s.Ascent),
			DescentM:    int32(s.Descent),
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}
