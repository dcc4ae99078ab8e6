package strongmotion

import (
	"io/fs"
	"path/filepath"
)

// Reader is the pluggable capability a format-specific file reader
// implements (COSMOS, DMG, KNET, ...); those concrete implementations
// are out of scope but the dispatch facade around
// this interface is not. Decouples byte-source concerns from
// the thing consuming them.
type Reader interface {
	// Name identifies the reader for provenance/logging.
	Name() string
	// IsFormat reports whether this reader recognizes the file at path.
	IsFormat(path string) bool
	// Read parses the file into zero or more Streams. No exceptions
	// escape; all failures return a classified error.
	Read(path string) ([]*Stream, error)
}

// ReaderFacade tries each registered Reader in priority order and
// returns the first match's result.
type ReaderFacade struct {
	readers []Reader
}

// NewReaderFacade builds a facade trying readers in the given order.
func NewReaderFacade(readers ...Reader) *ReaderFacade {
	return &ReaderFacade{readers: readers}
}

// Register appends a reader to the end of the priority list.
func (f *ReaderFacade) Register(r Reader) { f.readers = append(f.readers, r) }

// Read dispatches path to the first matching reader. Returns a
// MalformedInput-classified error if no reader claims the file or the
// matching reader fails.
func (f *ReaderFacade) Read(path string) ([]*Stream, error) {
	for _, r := range f.readers {
		if !r.IsFormat(path) {
			continue
		}
		streams, err := r.Read(path)
		if err != nil {
			return nil, NewClassifiedError(ClassMalformedInput, "ReaderFacade.Read:"+r.Name(), err)
		}
		for _, s := range streams {
			normalizeLocationCodes(s)
		}
		return streams, nil
	}
	return nil, NewClassifiedError(ClassMalformedInput, "ReaderFacade.Read", ErrCodeEmpty)
}

// normalizeLocationCodes enforces the facade contract that an absent
// location code is represented as "", never a
// reader-specific placeholder like "--" or "  ".
func normalizeLocationCodes(s *Stream) {
	for _, t := range s.Traces() {
		switch t.Location {
		case "--", "  ", "??":
			t.Location = ""
		}
	}
}

// DiscoverFiles walks root for files whose basename matches pattern.
// Raw waveform inputs here are always local/plain files (object-store
// discovery is reserved for the workspace container, which still uses
// TileDB VFS in workspace/), so a plain filepath.WalkDir suffices.
func DiscoverFiles(root, pattern string) ([]string, error) {
	var items []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		match, mErr := filepath.Match(pattern, filepath.Base(path))
		if mErr != nil {
			return mErr
		}
		if match {
			items = append(items, path)
		}
		return nil
	})
	if err != nil {
		return nil, NewClassifiedError(ClassMalformedInput, "DiscoverFiles", err)
	}
	return items, nil
}
