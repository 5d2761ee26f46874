// Package emu provides the architectural state and a functional reference
// model for the accelerator's scalar control core.
package emu

// NumRegisters is the size of the general-purpose register file.
const NumRegisters = 32

// RegFile holds the 32 general-purpose integer registers. Register 0 is
// hardwired to zero: reads always return 0 and writes are suppressed.
type RegFile struct {
	x [NumRegisters]int64
}

// Read returns the value of register i. Register 0 always reads 0, and
// out-of-range indices read 0 rather than faulting.
func (r *RegFile) Read(i int) int64 {
	if i <= 0 || i >= NumRegisters {
		return 0
	}
	return r.x[i]
}

// Write sets register i to v. Writes to register 0 and to out-of-range
// indices are dropped.
func (r *RegFile) Write(i int, v int64) {
	if i <= 0 || i >= NumRegisters {
		return
	}
	r.x[i] = v
}

// Clear zeroes every register.
func (r *RegFile) Clear() {
	r.x = [NumRegisters]int64{}
}

// Snapshot returns a copy of all 32 registers for display and tests.
func (r *RegFile) Snapshot() [NumRegisters]int64 {
	return r.x
}
