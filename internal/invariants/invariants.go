// Package invariants exposes whether expensive consistency checks are
// compiled in.
//
// Checks are enabled by building with the 'invariants' tag, and also in
// race-enabled builds. Code guarded by `if invariants.Enabled` is eliminated
// statically otherwise.
package invariants
