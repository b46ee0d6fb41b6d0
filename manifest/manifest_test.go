package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/multibuffer"
	"github.com/hupe1980/multibuffer/buffer"
	"github.com/hupe1980/multibuffer/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	m, err := Decode(strings.NewReader(`
excerpts:
  - path: a.go
    lines: ["1-2", "5"]
  - path: b.md
    bytes: ["0-10"]
  - path: c.txt
`))
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, m.Version)
	require.Len(t, m.Excerpts, 3)

	spans, err := m.Excerpts[0].LineSpans()
	require.NoError(t, err)
	assert.Equal(t, []Span{{1, 2}, {5, 5}}, spans)

	spans, err = m.Excerpts[1].ByteSpans()
	require.NoError(t, err)
	assert.Equal(t, []Span{{0, 10}}, spans)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", ``, ErrNoExcerpts},
		{"no entries", `excerpts: []`, ErrNoExcerpts},
		{"reversed", "excerpts:\n  - path: a\n    bytes: [\"5-2\"]", ErrInvalidRange},
		{"line zero", "excerpts:\n  - path: a\n    lines: [\"0-2\"]", ErrInvalidRange},
		{"not a number", "excerpts:\n  - path: a\n    lines: [\"x-2\"]", ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Decode(strings.NewReader("excerpts:\n  - path: a\n    lines: [\"4-1\"]"))
	var re *RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "a", re.Path)
	assert.Equal(t, "4-1", re.Range)

	_, err = Decode(strings.NewReader("version: 2\nexcerpts:\n  - path: a"))
	assert.ErrorContains(t, err, "unsupported version")

	_, err = Decode(strings.NewReader("excerpts:\n  - file: a"))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("excerpts:\n  - lines: [\"1\"]"))
	assert.ErrorContains(t, err, "missing path")
}

func TestRanges(t *testing.T) {
	dir := t.TempDir()
	a := buffer.New("line one\nline two\nline three\n", buffer.WithPath(filepath.Join(dir, "a.txt")))
	b := buffer.New("0123456789", buffer.WithPath(filepath.Join(dir, "b.txt")))
	sources := map[string]multibuffer.Source{a.Path(): a, b.Path(): b}

	m := &Manifest{
		Dir: dir,
		Excerpts: []Entry{
			{Path: "a.txt", Lines: []string{"2-2", "9-12"}},
			{Path: "b.txt", Bytes: []string{"2-4", "8-20"}},
		},
	}
	ranges, err := m.Ranges(func(path string) (multibuffer.Source, error) {
		return sources[path], nil
	})
	require.NoError(t, err)
	assert.Len(t, ranges, 3)

	mb := multibuffer.New(multibuffer.WithInvariantChecks(true))
	mb.InsertExcerpts(ranges...)
	assert.Equal(t, "\nline two\n23\n89", mb.Snapshot().Text())
}

func TestRanges_WholeFile(t *testing.T) {
	a := buffer.New("whole", buffer.WithPath("a"))
	m := &Manifest{Excerpts: []Entry{{Path: "a"}}}

	ranges, err := m.Ranges(func(string) (multibuffer.Source, error) { return a, nil })
	require.NoError(t, err)

	mb := multibuffer.New()
	mb.InsertExcerpts(ranges...)
	assert.Equal(t, "\nwhole", mb.Snapshot().Text())
}

func TestRanges_LookupError(t *testing.T) {
	m := &Manifest{Excerpts: []Entry{{Path: "a"}}}
	_, err := m.Ranges(func(string) (multibuffer.Source, error) { return nil, os.ErrNotExist })
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "excerpts.yaml")

	m := &Manifest{Excerpts: []Entry{
		{Path: "main.go", Lines: []string{"1-3"}},
		{Path: "/abs/README.md", Bytes: []string{"0-10"}},
	}}
	require.NoError(t, Save(path, m))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Excerpts, got.Excerpts)
	assert.Equal(t, dir, got.Dir)
	assert.Equal(t, []string{filepath.Join(dir, "main.go"), "/abs/README.md"}, got.Paths())

	_, err = os.Stat(path + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave_Fault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excerpts.yaml")
	m := &Manifest{Excerpts: []Entry{{Path: "a"}}}
	require.NoError(t, Save(path, m))

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(".tmp", fs.Fault{FailOnSync: true})

	m.Excerpts = append(m.Excerpts, Entry{Path: "b"})
	assert.ErrorIs(t, save(ffs, path, m), fs.ErrInjected)

	got, err := load(ffs, path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Path: "a"}}, got.Excerpts)
	assert.Equal(t, 1, ffs.Reads())
}
