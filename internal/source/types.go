package source

import "time"

// Extension is the activity file suffix, matched case-insensitively.
const Extension = ".fit"

// DefaultPrefixBytes is how much of a file the fast timestamp path decodes.
const DefaultPrefixBytes = 2048

// DiscoveredFile is an activity file found by ScanDir.
type DiscoveredFile struct {
	Path    string
	Size    int64
	ModTime time.Time
}
