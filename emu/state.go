package emu

// Demo seed constants used by the example program shipped with the UI:
// x1 points at a base address whose word holds a known value.
const (
	DemoBaseAddress int64 = 256
	DemoSeedValue   int64 = 42
)

// State bundles the register file and data memory owned by one simulation
// session. Reset reapplies the seed options the state was created with, so
// a session restart reproduces the same initial architectural state.
type State struct {
	Regs *RegFile
	Mem  *Memory

	seeds []StateOption
}

// StateOption seeds part of the initial architectural state.
type StateOption func(*State)

// WithRegisterSeed seeds register reg with value on reset. Seeding register
// 0 has no effect.
func WithRegisterSeed(reg int, value int64) StateOption {
	return func(s *State) {
		s.Regs.Write(reg, value)
	}
}

// WithMemorySeed seeds the word at addr with value on reset.
func WithMemorySeed(addr, value int64) StateOption {
	return func(s *State) {
		s.Mem.WriteWord(addr, value)
	}
}

// WithDemoSeed seeds the state for the UI's example program: x1 holds the
// demo base address and the word at that address holds the demo value.
func WithDemoSeed() StateOption {
	return func(s *State) {
		s.Regs.Write(1, DemoBaseAddress)
		s.Mem.WriteWord(DemoBaseAddress, DemoSeedValue)
	}
}

// NewState creates a zeroed state and applies the given seed options.
func NewState(opts ...StateOption) *State {
	s := &State{
		Regs:  &RegFile{},
		Mem:   NewMemory(),
		seeds: opts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reset zeroes all registers and memory, then reapplies the seed options
// recorded at construction time.
func (s *State) Reset() {
	s.Regs.Clear()
	s.Mem.Clear()
	for _, opt := range s.seeds {
		opt(s)
	}
}
