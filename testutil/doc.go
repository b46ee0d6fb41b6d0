// Package testutil provides testing utilities for multibuffer.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source for generating buffer contents,
// ranges and edits, and a reference model of the excerpt union.
//
// # Random Inputs
//
//	rng := testutil.NewRNG(seed)
//	text := rng.Sentence(10)               // ten distinct words
//	ranges := rng.Ranges(5, len(text))     // possibly empty, overlapping
//
// # Reference Model
//
//	want := testutil.ExcerptText(text, testutil.Union(batch1, batch2))
package testutil
