// Package manifest reads and writes YAML files describing a set of excerpts.
//
// A manifest lists files and the parts of each to show:
//
//	version: 1
//	excerpts:
//	  - path: main.go
//	    lines: ["1-3", "10-12"]
//	  - path: README.md
//	    bytes: ["0-120"]
//
// Line ranges are 1-based and inclusive. Byte ranges are 0-based and
// half-open. Relative paths are taken relative to the manifest's directory.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/multibuffer"
	"github.com/hupe1980/multibuffer/internal/fs"
)

// CurrentVersion is the manifest format version written by Save and
// accepted by Decode.
const CurrentVersion = 1

var (
	// ErrInvalidRange is returned for a range that does not parse as "a-b"
	// with a <= b.
	ErrInvalidRange = errors.New("manifest: invalid range")

	// ErrNoExcerpts is returned for a manifest without entries.
	ErrNoExcerpts = errors.New("manifest: no excerpts")
)

// RangeError records a malformed range in an entry.
type RangeError struct {
	Path  string
	Range string
	Err   error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("manifest: %s: range %q: %v", e.Path, e.Range, e.Err)
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// Manifest describes the excerpts of a multi-buffer.
type Manifest struct {
	Version  int     `yaml:"version"`
	Excerpts []Entry `yaml:"excerpts"`

	// Dir is the directory relative paths are resolved against.
	Dir string `yaml:"-"`
}

// Entry selects ranges of one file.
type Entry struct {
	Path  string   `yaml:"path"`
	Bytes []string `yaml:"bytes,omitempty"`
	Lines []string `yaml:"lines,omitempty"`
}

// Span is a parsed range. For line ranges Start and End are 1-based rows,
// both inclusive.
type Span struct {
	Start, End int
}

// Load reads the manifest at path.
func Load(path string) (*Manifest, error) {
	return load(fs.Default, path)
}

func load(fsys fs.FileSystem, path string) (*Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Dir = filepath.Dir(path)
	return m, nil
}

// Decode reads a manifest from r and validates it.
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoExcerpts
		}
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	if m.Version == 0 {
		m.Version = CurrentVersion
	}
	if m.Version != CurrentVersion {
		return nil, fmt.Errorf("manifest: unsupported version: %d (expected %d)", m.Version, CurrentVersion)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that every entry names a path and parses.
func (m *Manifest) Validate() error {
	if len(m.Excerpts) == 0 {
		return ErrNoExcerpts
	}
	for i, e := range m.Excerpts {
		if e.Path == "" {
			return fmt.Errorf("manifest: entry %d: missing path", i)
		}
		if _, err := e.ByteSpans(); err != nil {
			return err
		}
		if _, err := e.LineSpans(); err != nil {
			return err
		}
	}
	return nil
}

// Paths returns the resolved path of every entry, in manifest order.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Excerpts))
	for _, e := range m.Excerpts {
		paths = append(paths, m.Resolve(e.Path))
	}
	return paths
}

// Resolve returns path relative to the manifest's directory.
func (m *Manifest) Resolve(path string) string {
	if filepath.IsAbs(path) || m.Dir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(m.Dir, path)
}

// Ranges turns the manifest into excerpt ranges over the sources returned
// by lookup. An entry without ranges covers its whole file.
func (m *Manifest) Ranges(lookup func(path string) (multibuffer.Source, error)) ([]multibuffer.ExcerptRange, error) {
	var ranges []multibuffer.ExcerptRange
	for _, e := range m.Excerpts {
		src, err := lookup(m.Resolve(e.Path))
		if err != nil {
			return nil, err
		}

		byteSpans, _ := e.ByteSpans()
		lineSpans, _ := e.LineSpans()
		if len(byteSpans) == 0 && len(lineSpans) == 0 {
			ranges = append(ranges, multibuffer.Range(src, 0, src.Snapshot().Len()))
			continue
		}
		for _, s := range byteSpans {
			n := src.Snapshot().Len()
			ranges = append(ranges, multibuffer.Range(src, min(s.Start, n), min(s.End, n)))
		}
		for _, s := range lineSpans {
			last := src.Snapshot().MaxPoint().Row
			if s.Start-1 > last {
				continue
			}
			ranges = append(ranges, multibuffer.Lines(src, s.Start-1, min(s.End-1, last)))
		}
	}
	return ranges, nil
}

// ByteSpans parses the byte ranges of e.
func (e Entry) ByteSpans() ([]Span, error) {
	return parseSpans(e.Path, e.Bytes, 0)
}

// LineSpans parses the line ranges of e.
func (e Entry) LineSpans() ([]Span, error) {
	return parseSpans(e.Path, e.Lines, 1)
}

func parseSpans(path string, specs []string, minStart int) ([]Span, error) {
	spans := make([]Span, 0, len(specs))
	for _, spec := range specs {
		s, err := parseSpan(spec, minStart)
		if err != nil {
			return nil, &RangeError{Path: path, Range: spec, Err: err}
		}
		spans = append(spans, s)
	}
	return spans, nil
}

// parseSpan accepts "a-b" or a single number "a", meaning "a-a".
func parseSpan(spec string, minStart int) (Span, error) {
	lo, hi, found := strings.Cut(strings.TrimSpace(spec), "-")
	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return Span{}, err
	}
	end := start
	if found {
		if end, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
			return Span{}, err
		}
	}
	if start < minStart {
		return Span{}, fmt.Errorf("start %d below %d", start, minStart)
	}
	if end < start {
		return Span{}, fmt.Errorf("end %d before start %d", end, start)
	}
	return Span{Start: start, End: end}, nil
}

// Save writes m to path, replacing any existing file atomically.
func Save(path string, m *Manifest) error {
	return save(fs.Default, path, m)
}

func save(fsys fs.FileSystem, path string, m *Manifest) error {
	if m.Version == 0 {
		m.Version = CurrentVersion
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return fs.WriteFileAtomic(fsys, path, buf.Bytes(), 0o644)
}
