// internal/session/surface.go
package session

import (
	"fmt"
	"os"

	"easy/internal/diff"

	"github.com/google/uuid"
)

// DocumentInfo describes one open document as seen by the host surface.
// Path is the absolute backing path, empty for unnamed scratch documents.
type DocumentInfo struct {
	ID       string
	Path     string
	Unnamed  bool
	Modified bool
	Lines    []string
}

// DocumentSurface is the capability interface the host editor supplies.
// The core never walks editor internals; everything it needs from the
// buffer layer goes through this.
type DocumentSurface interface {
	// Documents returns all open documents in display order, excluding
	// special or protected ones.
	Documents() []DocumentInfo

	// ActiveID returns the ID of the currently focused document, or "".
	ActiveID() string

	// OpenFile opens a document backed by the given absolute path with
	// its on-disk content and no pending changes.
	OpenFile(absPath string) (id string, err error)

	// OpenFileWithLines opens a document backed by the given absolute
	// path but populated with the given lines, marked as having unsaved
	// changes.
	OpenFileWithLines(absPath string, lines []string) (id string, err error)

	// OpenBuffer creates a fresh unnamed document populated with the
	// given lines, marked as having unsaved changes.
	OpenBuffer(lines []string) (id string, err error)

	// Activate focuses the document with the given ID.
	Activate(id string) error
}

// MemorySurface is an in-memory DocumentSurface. The CLI uses it for
// dry-run restores and the tests use it as the host stand-in.
type MemorySurface struct {
	docs   []DocumentInfo
	active string
}

func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

// AddFile opens a document for absPath with the given lines. When
// modified is false the lines should match disk content.
func (m *MemorySurface) AddFile(absPath string, lines []string, modified bool) string {
	doc := DocumentInfo{
		ID:       absPath,
		Path:     absPath,
		Modified: modified,
		Lines:    lines,
	}
	m.docs = append(m.docs, doc)
	return doc.ID
}

// AddBuffer opens an unnamed document with the given lines.
func (m *MemorySurface) AddBuffer(lines []string) string {
	doc := DocumentInfo{
		ID:       uuid.New().String(),
		Unnamed:  true,
		Modified: true,
		Lines:    lines,
	}
	m.docs = append(m.docs, doc)
	return doc.ID
}

// SetActive marks the document with the given ID as focused.
func (m *MemorySurface) SetActive(id string) {
	m.active = id
}

func (m *MemorySurface) Documents() []DocumentInfo {
	return append([]DocumentInfo(nil), m.docs...)
}

func (m *MemorySurface) ActiveID() string {
	return m.active
}

func (m *MemorySurface) OpenFile(absPath string) (string, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", absPath, err)
	}
	return m.AddFile(absPath, diff.SplitLines(data), false), nil
}

func (m *MemorySurface) OpenFileWithLines(absPath string, lines []string) (string, error) {
	return m.AddFile(absPath, lines, true), nil
}

func (m *MemorySurface) OpenBuffer(lines []string) (string, error) {
	return m.AddBuffer(lines), nil
}

func (m *MemorySurface) Activate(id string) error {
	for _, doc := range m.docs {
		if doc.ID == id {
			m.active = id
			return nil
		}
	}
	return fmt.Errorf("no document with id %s", id)
}

// Find returns the document with the given ID.
func (m *MemorySurface) Find(id string) (DocumentInfo, bool) {
	for _, doc := range m.docs {
		if doc.ID == id {
			return doc, true
		}
	}
	return DocumentInfo{}, false
}
