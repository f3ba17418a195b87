// shared/types/types.go
package shared

import "strings"

// FileEntry represents one tracked open document inside a project's
// persisted manifest. For modified named documents DiffHash references a
// path-keyed diff blob and OriginalHash fingerprints the on-disk content
// at save time. Unnamed documents carry ContentHash instead.
type FileEntry struct {
	Path         string `json:"path"`
	IsUnnamed    bool   `json:"is_unnamed"`
	Modified     bool   `json:"modified"`
	DiffHash     string `json:"diff_hash,omitempty"`
	ContentHash  string `json:"content_hash,omitempty"`
	OriginalHash string `json:"original_hash,omitempty"`
}

// UI holds the sidebar layout persisted alongside the file manifest.
type UI struct {
	ExplorerOpen  bool `json:"explorer_open"`
	ExplorerWidth int  `json:"explorer_width,omitempty"`
}

// ProjectConfig is the whole persisted record for one project. The order
// of Files reflects the order documents were open at save time.
type ProjectConfig struct {
	Files      []FileEntry `json:"files"`
	ActiveFile string      `json:"active_file,omitempty"`
	UI         UI          `json:"ui"`
}

// UnnamedPrefix marks synthetic identifiers for documents with no backing
// path. The remainder of the identifier is the document's content hash.
const UnnamedPrefix = "unnamed:"

// UnnamedID builds the synthetic identifier for an unnamed document from
// its content hash.
func UnnamedID(contentHash string) string {
	return UnnamedPrefix + contentHash
}

// IsUnnamedID reports whether id is a synthetic unnamed-document identifier.
func IsUnnamedID(id string) bool {
	return strings.HasPrefix(id, UnnamedPrefix)
}

// Conflict classifies a tracked file at restore time by comparing the
// fingerprint recorded at save time against current disk state.
type Conflict int

const (
	ConflictNone Conflict = iota
	ConflictModified
	ConflictDeleted
)

func (c Conflict) String() string {
	switch c {
	case ConflictModified:
		return "modified"
	case ConflictDeleted:
		return "deleted"
	default:
		return "none"
	}
}

// Resolution is a per-file decision produced by the conflict resolution
// protocol and consumed immediately by the restore engine. Never persisted.
type Resolution int

const (
	// ResolveSkip leaves the file untouched and does not open it.
	ResolveSkip Resolution = iota
	// ResolveDisk opens the file as it currently exists on disk.
	ResolveDisk
	// ResolveStashed applies the stashed diff on top of current disk content.
	ResolveStashed
)

func (r Resolution) String() string {
	switch r {
	case ResolveDisk:
		return "disk"
	case ResolveStashed:
		return "stashed"
	default:
		return "skip"
	}
}
