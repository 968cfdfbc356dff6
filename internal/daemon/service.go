// Package daemon rebuilds the activity index on an interval and serves
// range queries over HTTP.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/theirongolddev/fitdex/internal/bucket"
	"github.com/theirongolddev/fitdex/internal/index"
	"github.com/theirongolddev/fitdex/internal/model"
	"github.com/theirongolddev/fitdex/internal/pipeline"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DataDir      string
	Scan         pipeline.Options
	Interval     time.Duration
	Addr         string
	EventsBuffer int

	// Watch also rescans when activity files change, once changes have
	// been quiet for Debounce, at most once per MinRescanGap.
	Watch        bool
	Debounce     time.Duration
	MinRescanGap time.Duration
}

// Snapshot is a compact index state for status and event payloads.
type Snapshot struct {
	At         time.Time `json:"at"`
	Files      int       `json:"files"`
	Indexed    int       `json:"indexed"`
	Skipped    int       `json:"skipped"`
	FullReads  int       `json:"full_reads"`
	Oldest     time.Time `json:"oldest,omitzero"`
	Newest     time.Time `json:"newest,omitzero"`
	ScanMillis int64     `json:"scan_ms"`
}

// Delta captures snapshot changes between scans.
type Delta struct {
	Files   int `json:"files"`
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
}

func (d Delta) isZero() bool {
	return d.Files == 0 && d.Indexed == 0 && d.Skipped == 0
}

// Event is emitted whenever a scan changes the index.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastScanAt      time.Time `json:"last_scan_at"`
	IntervalSec     int       `json:"interval_sec"`
	ScanCount       int64     `json:"scan_count"`
	DataDir         string    `json:"data_dir"`
	Index           Snapshot  `json:"index"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// FileEntry is one range query hit.
type FileEntry struct {
	Time time.Time `json:"time"`
	Path string    `json:"path"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config

	mu          sync.RWMutex
	startedAt   time.Time
	lastScanAt  time.Time
	scanCount   int64
	index       *index.Index
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event

	now func() time.Time
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}
	if cfg.MinRescanGap <= 0 {
		cfg.MinRescanGap = 10 * time.Second
	}

	return &Service{
		cfg:       cfg,
		startedAt: time.Now(),
		index:     index.New(),
		subs:      make(map[int]chan Event),
		now:       time.Now,
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/files", s.handleFiles)
	mux.HandleFunc("/v1/summary", s.handleSummary)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	return mux
}

// Run serves HTTP and rescans on every tick, and on file changes when
// watching, until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info().Str("addr", s.cfg.Addr).Str("dir", s.cfg.DataDir).Msg("daemon listening")

	s.scanOnce()

	rescan := make(chan struct{}, 1)
	if s.cfg.Watch {
		go func() {
			if err := s.watch(ctx, rescan); err != nil {
				log.Warn().Err(err).Msg("file watching disabled, rescanning on the interval only")
			}
		}()
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.scanOnce()
		case <-rescan:
			s.scanOnce()
			ticker.Reset(s.cfg.Interval)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// scanOnce rebuilds the index from scratch and swaps it in.
func (s *Service) scanOnce() {
	result := pipeline.BuildIndex(s.cfg.DataDir, s.cfg.Scan, nil)
	now := s.now()
	snap := snapshotFromScan(result, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.index = result.Index
	s.hasSnapshot = true
	s.snapshot = snap
	s.lastScanAt = now
	s.scanCount++

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "snapshot", Timestamp: now, Snapshot: snap}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "index_delta", Timestamp: now, Snapshot: snap, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func snapshotFromScan(r *pipeline.ScanResult, at time.Time) Snapshot {
	snap := Snapshot{
		At:         at,
		Files:      r.TotalFiles,
		Indexed:    r.Index.Len(),
		Skipped:    r.Skipped,
		FullReads:  r.FullReads,
		ScanMillis: r.Elapsed.Milliseconds(),
	}
	if oldest, newest, ok := index.Bounds(r.Index.Entries()); ok {
		snap.Oldest, snap.Newest = oldest, newest
	}
	return snap
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Files:   curr.Files - prev.Files,
		Indexed: curr.Indexed - prev.Indexed,
		Skipped: curr.Skipped - prev.Skipped,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastScanAt:      s.lastScanAt,
		IntervalSec:     int(s.cfg.Interval.Seconds()),
		ScanCount:       s.scanCount,
		DataDir:         s.cfg.DataDir,
		Index:           s.snapshot,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) currentIndex() *index.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// queryRange reads ?bucket=KEY or ?since=&until= (RFC 3339). With neither,
// the whole index is selected.
func (s *Service) queryRange(r *http.Request) (start, end time.Time, err error) {
	q := r.URL.Query()
	if key := q.Get("bucket"); key != "" {
		b, err := bucket.Parse(key)
		if err != nil {
			return start, end, err
		}
		rng := b.RangeAt(s.now())
		return rng.Start, rng.End, nil
	}

	end = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	if v := q.Get("since"); v != "" {
		if start, err = time.Parse(time.RFC3339, v); err != nil {
			return start, end, fmt.Errorf("invalid since: %w", err)
		}
	}
	if v := q.Get("until"); v != "" {
		if end, err = time.Parse(time.RFC3339, v); err != nil {
			return start, end, fmt.Errorf("invalid until: %w", err)
		}
	}
	return start, end, nil
}

func (s *Service) entriesFor(w http.ResponseWriter, r *http.Request) ([]index.Entry, bool) {
	start, end, err := s.queryRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	entries := s.currentIndex().InRange(start, end)
	index.SortByTime(entries)
	return entries, true
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

func (s *Service) handleFiles(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.entriesFor(w, r)
	if !ok {
		return
	}
	out := make([]FileEntry, len(entries))
	for i, e := range entries {
		out[i] = FileEntry{Time: e.Time, Path: e.Path}
	}
	writeJSON(w, out)
}

func (s *Service) handleSummary(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.entriesFor(w, r)
	if !ok {
		return
	}
	acts := pipeline.CollectStats(entries, s.cfg.Scan.Extractor(), s.cfg.Scan.Workers)
	writeJSON(w, summaryJSON(pipeline.Aggregate(acts)))
}

// summaryJSON flattens SummaryStats with explicit units in the keys.
func summaryJSON(st model.SummaryStats) map[string]any {
	return map[string]any{
		"activities":         st.Activities,
		"active_days":        st.ActiveDays,
		"failed_reads":       st.FailedReads,
		"distance_m":         st.Distance,
		"calories":           st.Calories,
		"duration_s":         st.Duration,
		"ascent_m":           st.Ascent,
		"descent_m":          st.Descent,
		"avg_speed_mps":      st.AvgSpeed,
		"longest_distance_m": st.LongestDistance,
		"longest_duration_s": st.LongestDuration,
	}
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{
		Type:      "snapshot",
		Timestamp: s.now(),
		Snapshot:  s.snapshotStatus().Index,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("writing response")
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
