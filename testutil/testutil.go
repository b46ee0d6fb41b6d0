package testutil

import (
	"cmp"
	"math/rand"
	"slices"
	"strings"
	"sync"

	"github.com/hupe1980/multibuffer/buffer"
)

// Words is a fixed vocabulary for generating buffer contents.
var Words = []string{
	"apple", "banana", "cherry", "date", "elderberry", "fig", "grape",
	"honeydew", "kiwi", "lemon", "mango", "nectarine", "orange", "papaya",
	"quince", "raspberry", "strawberry", "tangerine", "ugli", "vanilla",
	"watermelon", "xigua", "yuzu", "zucchini", "apricot", "blackberry",
	"coconut", "dragonfruit", "eggplant", "feijoa", "guava", "hazelnut",
	"jackfruit", "kumquat", "lime", "mulberry", "nance", "olive", "peach",
	"rambutan",
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Between returns a pseudo-random number in [lo,hi].
func (r *RNG) Between(lo, hi int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.rand.Intn(hi-lo+1)
}

// Sentence joins n distinct words picked from Words with spaces.
func (r *RNG) Sentence(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	picked := slices.Clone(Words)
	r.rand.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	return strings.Join(picked[:min(n, len(picked))], " ")
}

// Lines returns n lines of words, each terminated by a newline.
func (r *RNG) Lines(n, wordsPerLine int) string {
	var sb strings.Builder
	for range n {
		sb.WriteString(r.Sentence(wordsPerLine))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Ranges returns n random ranges within [0, length]. Ranges may be empty
// and may overlap.
func (r *RNG) Ranges(n, length int) []buffer.Range {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]buffer.Range, n)
	for i := range out {
		start := r.rand.Intn(length + 1)
		end := start + r.rand.Intn(length-start+1)
		out[i] = buffer.Range{Start: start, End: end}
	}
	return out
}

// Edit returns a random edit of text: a replacement of a random range with
// a few words, or a deletion.
func (r *RNG) Edit(text string) (buffer.Range, string) {
	rng := r.Ranges(1, len(text))[0]
	if rng.Len() > 8 {
		rng.End = rng.Start + 8
	}
	switch r.Intn(3) {
	case 0:
		return rng, ""
	default:
		return rng, r.Sentence(1 + r.Intn(2))
	}
}

// Union sorts ranges and merges those that overlap or touch. Empty ranges
// do not contribute to the result.
func Union(ranges ...[]buffer.Range) []buffer.Range {
	all := slices.Concat(ranges...)
	slices.SortFunc(all, func(a, b buffer.Range) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(a.End, b.End))
	})

	var out []buffer.Range
	for _, rng := range all {
		if n := len(out); n > 0 && rng.Start <= out[n-1].End {
			out[n-1].End = max(out[n-1].End, rng.End)
			continue
		}
		out = append(out, rng)
	}
	return slices.DeleteFunc(out, buffer.Range.IsEmpty)
}

// ExcerptText renders ranges of text the way a multi-buffer snapshot does:
// every range preceded by a newline.
func ExcerptText(text string, ranges []buffer.Range) string {
	var sb strings.Builder
	for _, rng := range ranges {
		sb.WriteByte('\n')
		sb.WriteString(text[rng.Start:rng.End])
	}
	return sb.String()
}
