package buffer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the length of the range, or zero if it is reversed.
func (r Range) Len() int { return max(0, r.End-r.Start) }

// IsEmpty reports whether the range covers no bytes. Reversed ranges are
// empty.
func (r Range) IsEmpty() bool { return r.Start >= r.End }

// String returns a string representation of the Range.
func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// TextSummary aggregates statistics over a span of text.
// The zero value summarizes the empty string.
type TextSummary struct {
	Len         int // bytes
	Chars       int // runes
	Lines       int // newline characters
	LastLineLen int // bytes after the last newline
}

// SummarizeText computes the summary of s.
func SummarizeText(s string) TextSummary {
	sum := TextSummary{
		Len:         len(s),
		Chars:       utf8.RuneCountInString(s),
		Lines:       strings.Count(s, "\n"),
		LastLineLen: len(s),
	}
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		sum.LastLineLen = len(s) - i - 1
	}
	return sum
}

// Add returns the summary of the concatenation of both spans.
func (s TextSummary) Add(other TextSummary) TextSummary {
	out := TextSummary{
		Len:         s.Len + other.Len,
		Chars:       s.Chars + other.Chars,
		Lines:       s.Lines + other.Lines,
		LastLineLen: s.LastLineLen + other.LastLineLen,
	}
	if other.Lines > 0 {
		out.LastLineLen = other.LastLineLen
	}
	return out
}
