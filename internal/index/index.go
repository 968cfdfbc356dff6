// Package index holds the timestamp -> file path map built by a scan.
package index

import (
	"encoding/binary"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const numShards = 32

// Entry is one indexed activity.
type Entry struct {
	Time time.Time
	Path string
}

// Index maps activity timestamps to file paths. It is safe for concurrent
// use: inserts lock only the shard that owns the key, so inserts of
// distinct keys in different shards never contend. A duplicate key
// overwrites the previous path.
type Index struct {
	shards [numShards]shard
}

type shard struct {
	mu sync.RWMutex
	m  map[int64]Entry
}

// New returns an empty index.
func New() *Index {
	ix := &Index{}
	for i := range ix.shards {
		ix.shards[i].m = make(map[int64]Entry)
	}
	return ix
}

func key(ts time.Time) int64 {
	return ts.UnixNano()
}

func (ix *Index) shardFor(k int64) *shard {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(k))
	return &ix.shards[xxhash.Sum64(buf[:])%numShards]
}

// Put records path under ts. It reports whether an existing entry was replaced.
func (ix *Index) Put(ts time.Time, path string) bool {
	k := key(ts)
	s := ix.shardFor(k)
	s.mu.Lock()
	_, replaced := s.m[k]
	s.m[k] = Entry{Time: ts.UTC(), Path: path}
	s.mu.Unlock()
	return replaced
}

// Get returns the path indexed under ts.
func (ix *Index) Get(ts time.Time) (string, bool) {
	k := key(ts)
	s := ix.shardFor(k)
	s.mu.RLock()
	e, ok := s.m[k]
	s.mu.RUnlock()
	return e.Path, ok
}

// Len returns the number of entries.
func (ix *Index) Len() int {
	n := 0
	for i := range ix.shards {
		s := &ix.shards[i]
		s.mu.RLock()
		n += len(s.m)
		s.mu.RUnlock()
	}
	return n
}

// Entries returns every entry in no particular order.
func (ix *Index) Entries() []Entry {
	return ix.filter(func(Entry) bool { return true })
}

// InRange returns the entries with start <= timestamp <= end, in no
// particular order. Use SortByTime for chronological output.
func (ix *Index) InRange(start, end time.Time) []Entry {
	return ix.filter(func(e Entry) bool {
		return !e.Time.Before(start) && !e.Time.After(end)
	})
}

func (ix *Index) filter(keep func(Entry) bool) []Entry {
	var out []Entry
	for i := range ix.shards {
		s := &ix.shards[i]
		s.mu.RLock()
		for _, e := range s.m {
			if keep(e) {
				out = append(out, e)
			}
		}
		s.mu.RUnlock()
	}
	return out
}

// SortByTime orders entries oldest first, breaking ties by path.
func SortByTime(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Time.Equal(entries[j].Time) {
			return entries[i].Time.Before(entries[j].Time)
		}
		return entries[i].Path < entries[j].Path
	})
}

// Bounds returns the oldest and newest timestamps in entries.
func Bounds(entries []Entry) (oldest, newest time.Time, ok bool) {
	if len(entries) == 0 {
		return time.Time{}, time.Time{}, false
	}
	oldest, newest = entries[0].Time, entries[0].Time
	for _, e := range entries[1:] {
		if e.Time.Before(oldest) {
			oldest = e.Time
		}
		if e.Time.After(newest) {
			newest = e.Time
		}
	}
	return oldest, newest, true
}
