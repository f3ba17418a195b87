// internal/blob/store.go
package blob

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"easy/internal/hash"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/zstd"
)

var ErrBlobNotFound = errors.New("blob not found")

const (
	diffExt    = ".diff"
	contentExt = ".content"

	// Content blobs below this size are stored uncompressed.
	minCompressSize = 1024

	cacheSize = 256
)

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Store holds a project's diff and content blobs in a single flat
// directory. Diff blobs are path-keyed and overwritten by later saves;
// only the latest diff per path is retained. Content blobs are
// content-keyed and deduplicate naturally. Diff blobs stay plain text so
// they remain inspectable; large content blobs are zstd compressed.
type Store struct {
	root  string
	cache *lru.Cache[string, []byte]
	enc   *zstd.Encoder
	dec   *zstd.Decoder
	mu    sync.Mutex
}

// NewStore creates the blob directory if needed and returns a store.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}

	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("creating encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("creating decoder: %w", err)
	}

	return &Store{
		root:  root,
		cache: cache,
		enc:   enc,
		dec:   dec,
	}, nil
}

// Root returns the blob directory path.
func (s *Store) Root() string {
	return s.root
}

// PutDiff writes a diff blob under the given path key, replacing any
// earlier diff for the same path.
func (s *Store) PutDiff(key string, diffText []byte) error {
	name := key + diffExt
	if err := os.WriteFile(filepath.Join(s.root, name), diffText, 0644); err != nil {
		return fmt.Errorf("writing diff blob %s: %w", name, err)
	}
	s.cache.Add(name, diffText)
	return nil
}

// GetDiff reads a diff blob by its path key.
func (s *Store) GetDiff(key string) ([]byte, error) {
	return s.read(key + diffExt)
}

// PutContent writes a content blob and returns its content key. Existing
// blobs are left alone; identical content always maps to the same key.
func (s *Store) PutContent(content []byte) (string, error) {
	key := hash.ContentKey(content)
	name := key + contentExt
	path := filepath.Join(s.root, name)

	if _, err := os.Stat(path); err == nil {
		s.cache.Add(name, content)
		return key, nil
	}

	data := content
	if len(content) >= minCompressSize {
		s.mu.Lock()
		data = s.enc.EncodeAll(content, nil)
		s.mu.Unlock()
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing content blob %s: %w", name, err)
	}

	s.cache.Add(name, content)
	return key, nil
}

// GetContent reads a content blob by its content key.
func (s *Store) GetContent(key string) ([]byte, error) {
	return s.read(key + contentExt)
}

// HasContent reports whether a content blob exists for the given key.
func (s *Store) HasContent(key string) bool {
	if s.cache.Contains(key + contentExt) {
		return true
	}
	_, err := os.Stat(filepath.Join(s.root, key+contentExt))
	return err == nil
}

func (s *Store) read(name string) ([]byte, error) {
	if data, ok := s.cache.Get(name); ok {
		return data, nil
	}

	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("reading blob %s: %w", name, err)
	}

	if bytes.HasPrefix(data, zstdMagic) {
		s.mu.Lock()
		data, err = s.dec.DecodeAll(data, nil)
		s.mu.Unlock()
		if err != nil {
			return nil, fmt.Errorf("decompressing blob %s: %w", name, err)
		}
	}

	s.cache.Add(name, data)
	return data, nil
}

// Sweep removes content blobs whose keys are not in live. Diff blobs are
// path-keyed and self-limiting, so only content blobs can accumulate
// orphans. Returns the number of blobs removed.
func (s *Store) Sweep(live map[string]bool) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("listing blob directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, contentExt) {
			continue
		}
		key := strings.TrimSuffix(name, contentExt)
		if live[key] {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, name)); err != nil {
			return removed, fmt.Errorf("removing orphan blob %s: %w", name, err)
		}
		s.cache.Remove(name)
		removed++
	}
	return removed, nil
}

// Close releases the compression codecs.
func (s *Store) Close() {
	s.enc.Close()
	s.dec.Close()
}
