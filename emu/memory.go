package emu

// Memory is a sparse, word-addressable data memory. Any integer address is
// valid; unset addresses read as zero. No alignment checking is performed,
// matching the visualizer's permissive memory model.
type Memory struct {
	words map[int64]int64
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{
		words: map[int64]int64{},
	}
}

// ReadWord returns the word at addr, or 0 when the address was never written.
func (m *Memory) ReadWord(addr int64) int64 {
	return m.words[addr]
}

// WriteWord stores v at addr.
func (m *Memory) WriteWord(addr int64, v int64) {
	m.words[addr] = v
}

// Clear removes all stored words.
func (m *Memory) Clear() {
	m.words = map[int64]int64{}
}

// Snapshot returns a copy of all populated addresses for display and tests.
func (m *Memory) Snapshot() map[int64]int64 {
	out := make(map[int64]int64, len(m.words))
	for addr, v := range m.words {
		out[addr] = v
	}
	return out
}
