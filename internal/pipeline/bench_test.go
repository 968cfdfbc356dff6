package pipeline

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/fitdex/internal/fitrec/fittest"
	"github.com/theirongolddev/fitdex/internal/source"
)

func benchTree(b *testing.B, n int) string {
	b.Helper()
	root := b.TempDir()
	start := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		fittest.Write(b, root, filepath.Join(fmt.Sprintf("%02d", i%12), fmt.Sprintf("a%04d.fit", i)), fittest.Activity{
			Created:  start.Add(time.Duration(i) * time.Hour),
			Sessions: []fittest.Session{{DistanceM: float64(1000 + i), ElapsedS: 600, Calories: 100}},
		})
	}
	return root
}

func BenchmarkBuildIndex(b *testing.B) {
	root := benchTree(b, 200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result := BuildIndex(root, Options{}, nil)
		if result.Indexed != 200 {
			b.Fatalf("Indexed = %d, want 200", result.Indexed)
		}
	}
}

func BenchmarkTimestampPrefixVsFull(b *testing.B) {
	root := benchTree(b, 1)
	files, err := source.ScanDir(root)
	if err != nil || len(files) != 1 {
		b.Fatalf("ScanDir: %v (%d files)", err, len(files))
	}
	path := files[0].Path

	b.Run("prefix", func(b *testing.B) {
		ex := source.DefaultExtractor()
		for i := 0; i < b.N; i++ {
			if _, err := ex.Timestamp(path); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("session", func(b *testing.B) {
		ex := source.DefaultExtractor()
		for i := 0; i < b.N; i++ {
			if _, err := ex.Session(path); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkScanDir(b *testing.B) {
	root := benchTree(b, 200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		files, err := source.ScanDir(root)
		if err != nil {
			b.Fatal(err)
		}
		_ = files
	}
}
