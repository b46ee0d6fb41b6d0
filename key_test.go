package multibuffer

import (
	"testing"

	"github.com/hupe1980/multibuffer/buffer"
	"github.com/stretchr/testify/assert"
)

func key(path string, id uint64, start, end int) ExcerptKey {
	return ExcerptKey{Path: path, BufferID: buffer.ID{RemoteID: id}, Range: buffer.Range{Start: start, End: end}}
}

func TestExcerptKey_Compare(t *testing.T) {
	tests := []struct {
		name string
		a, b ExcerptKey
		want int
	}{
		{"equal", key("a", 1, 0, 5), key("a", 1, 0, 5), 0},
		{"no path first", key("", 9, 0, 5), key("a", 1, 0, 5), -1},
		{"path", key("b", 1, 0, 5), key("a", 1, 0, 5), 1},
		{"buffer", key("a", 1, 9, 10), key("a", 2, 0, 1), -1},
		{"start", key("a", 1, 3, 4), key("a", 1, 2, 9), 1},
		{"wider first", key("a", 1, 2, 9), key("a", 1, 2, 4), -1},
		{"replica", ExcerptKey{BufferID: buffer.ID{RemoteID: 1, ReplicaID: 2}}, ExcerptKey{BufferID: buffer.ID{RemoteID: 1, ReplicaID: 1}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
			assert.Equal(t, -tt.want, tt.b.Compare(tt.a))
		})
	}
}

func TestExcerptKey_Intersects(t *testing.T) {
	tests := []struct {
		name string
		a, b ExcerptKey
		want bool
	}{
		{"overlap", key("a", 1, 0, 5), key("a", 1, 3, 8), true},
		{"touching", key("a", 1, 0, 5), key("a", 1, 5, 8), true},
		{"contained", key("a", 1, 0, 10), key("a", 1, 3, 4), true},
		{"gap", key("a", 1, 0, 5), key("a", 1, 6, 8), false},
		{"other buffer", key("a", 1, 0, 5), key("a", 2, 0, 5), false},
		{"path ignored", key("a", 1, 0, 5), key("b", 1, 5, 8), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Intersects(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersects(tt.a))
		})
	}
}

func TestExcerptOffset_Compare(t *testing.T) {
	k := key("src/a.go", 2, 10, 20)
	at := func(path string, id uint64, offset int) ExcerptOffset {
		return ExcerptOffset{Path: path, BufferID: buffer.ID{RemoteID: id}, Offset: offset}
	}

	assert.Equal(t, -1, at("src/a.go", 2, 9).Compare(&k))
	assert.Equal(t, 0, at("src/a.go", 2, 10).Compare(&k))
	assert.Equal(t, 0, at("src/a.go", 2, 15).Compare(&k))
	assert.Equal(t, 0, at("src/a.go", 2, 20).Compare(&k))
	assert.Equal(t, 1, at("src/a.go", 2, 21).Compare(&k))
	assert.Equal(t, -1, at("src/a.go", 1, 50).Compare(&k))
	assert.Equal(t, 1, at("src/b.go", 0, 0).Compare(&k))
	assert.Equal(t, -1, at("", 9, 99).Compare(&k))
	assert.Equal(t, 1, at("", 0, 0).Compare(nil))
}

func TestExcerptKey_String(t *testing.T) {
	assert.Equal(t, "main.go Buf(3:0) [1,4)", key("main.go", 3, 1, 4).String())
	assert.Equal(t, "<untitled> Buf(3:0) [1,4)", key("", 3, 1, 4).String())
}
