//go:build invariants || race

package invariants

// Enabled is true when built with the invariants or race build tags. It turns
// on the expensive slot bookkeeping checks in package arrayvec.
const Enabled = true
