package buffer

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Points(t *testing.T) {
	s := New("ab\ncde\n\nf").Snapshot()

	tests := []struct {
		offset int
		point  Point
	}{
		{0, Point{0, 0}},
		{2, Point{0, 2}},
		{3, Point{1, 0}},
		{6, Point{1, 3}},
		{7, Point{2, 0}},
		{8, Point{3, 0}},
		{9, Point{3, 1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.point, s.OffsetToPoint(tt.offset), "offset %d", tt.offset)
		assert.Equal(t, tt.offset, s.PointToOffset(tt.point), "point %v", tt.point)
		assert.Equal(t, tt.offset, tt.point.ToOffset(s))
	}
	assert.Equal(t, Point{3, 1}, s.MaxPoint())
}

func TestSnapshot_PointOutOfRange(t *testing.T) {
	s := New("ab\ncd").Snapshot()

	for _, p := range []Point{{0, 3}, {2, 0}, {-1, 0}, {1, 3}} {
		err := recoverError(func() { s.PointToOffset(p) })
		assert.ErrorIs(t, err, ErrOutOfRange, "point %v", p)
	}
	assert.Panics(t, func() { Offset(6).ToOffset(s) })
	assert.Panics(t, func() { Offset(-1).ToOffset(s) })
	assert.NotPanics(t, func() { Offset(5).ToOffset(s) })
}

func recoverError(f func()) (err error) {
	defer func() {
		err, _ = recover().(error)
	}()
	f()
	return nil
}

func TestSnapshot_TextForRange(t *testing.T) {
	s := New("héllo\nworld").Snapshot()

	assert.Equal(t, "héllo", s.TextForRange(Range{0, 6}))
	assert.Equal(t, TextSummary{Len: 6, Chars: 5, Lines: 0, LastLineLen: 6}, s.TextSummaryForRange(Range{0, 6}))
	assert.Equal(t, TextSummary{Len: 8, Chars: 7, Lines: 1, LastLineLen: 2}, s.TextSummaryForRange(Range{1, 9}))
	assert.Panics(t, func() { s.TextForRange(Range{4, 2}) })
}

func TestTextSummary_Add(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	alphabet := []string{"a", "b", "\n", "ç"}

	random := func() string {
		var sb strings.Builder
		for range rng.Intn(12) {
			sb.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		return sb.String()
	}

	for range 200 {
		a, b, c := random(), random(), random()
		sa, sb, sc := SummarizeText(a), SummarizeText(b), SummarizeText(c)

		require.Equal(t, SummarizeText(a+b), sa.Add(sb))
		require.Equal(t, sa.Add(sb).Add(sc), sa.Add(sb.Add(sc)))
		require.Equal(t, sa, TextSummary{}.Add(sa))
		require.Equal(t, sa, sa.Add(TextSummary{}))
	}
}

func TestRange(t *testing.T) {
	assert.True(t, Range{3, 3}.IsEmpty())
	assert.True(t, Range{4, 3}.IsEmpty())
	assert.Equal(t, 0, Range{4, 3}.Len())
	assert.Equal(t, 2, Range{1, 3}.Len())
	assert.Equal(t, "[1,3)", Range{1, 3}.String())
}

func TestLineEnd(t *testing.T) {
	s := New("ab\n\ncde").Snapshot()

	assert.Equal(t, 2, LineEnd(0).ToOffset(s))
	assert.Equal(t, 3, LineEnd(1).ToOffset(s))
	assert.Equal(t, 7, LineEnd(2).ToOffset(s))
	assert.ErrorIs(t, recoverError(func() { LineEnd(3).ToOffset(s) }), ErrOutOfRange)
}
