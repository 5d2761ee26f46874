package emu

import (
	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/insts"
)

// Emulator executes a program functionally, one instruction per step,
// without pipeline timing. It is the architectural reference the pipeline
// engine is validated against: after both drain, register and memory
// contents must match.
type Emulator struct {
	program *insts.Program
	state   *State

	pc               int
	instructionCount uint64
	maxSteps         uint64 // 0 means no limit
}

// StepResult reports the outcome of executing one instruction.
type StepResult struct {
	// Done is true once the program counter has run past the program.
	Done bool

	// Stalled is true when the step limit was reached before completion.
	Stalled bool
}

// EmulatorOption configures an Emulator.
type EmulatorOption func(*Emulator)

// WithMaxSteps caps the number of instructions Run will execute. A value of
// 0 means no limit.
func WithMaxSteps(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxSteps = max
	}
}

// NewEmulator creates a functional emulator over the given program and
// architectural state.
func NewEmulator(program *insts.Program, state *State, opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		program: program,
		state:   state,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PC returns the current program counter (instruction index).
func (e *Emulator) PC() int {
	return e.pc
}

// InstructionCount returns the number of instructions executed so far.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// State returns the emulator's architectural state.
func (e *Emulator) State() *State {
	return e.state
}

// Step executes the instruction at the current program counter.
func (e *Emulator) Step() StepResult {
	inst := e.program.At(e.pc)
	if inst == nil {
		return StepResult{Done: true}
	}
	if e.maxSteps > 0 && e.instructionCount >= e.maxSteps {
		return StepResult{Stalled: true}
	}

	regs := e.state.Regs
	mem := e.state.Mem
	nextPC := e.pc + 1

	switch inst.Op {
	case insts.OpADD:
		regs.Write(int(inst.Rd), regs.Read(int(inst.Rs1))+regs.Read(int(inst.Rs2)))
	case insts.OpSUB:
		regs.Write(int(inst.Rd), regs.Read(int(inst.Rs1))-regs.Read(int(inst.Rs2)))
	case insts.OpADDI:
		regs.Write(int(inst.Rd), regs.Read(int(inst.Rs1))+inst.Imm)
	case insts.OpLW:
		addr := regs.Read(int(inst.Rs1)) + inst.Imm
		regs.Write(int(inst.Rd), mem.ReadWord(addr))
	case insts.OpSW:
		addr := regs.Read(int(inst.Rs1)) + inst.Imm
		mem.WriteWord(addr, regs.Read(int(inst.Rs2)))
	case insts.OpBEQ:
		if regs.Read(int(inst.Rs1)) == regs.Read(int(inst.Rs2)) {
			// An undefined label leaves the branch inert: execution
			// continues sequentially. Same policy as the pipeline.
			if target, ok := e.program.LabelTarget(inst.Label); ok {
				nextPC = target
			}
		}
	case insts.OpJAL:
		regs.Write(int(inst.Rd), int64(e.pc+1))
		if target, ok := e.program.LabelTarget(inst.Label); ok {
			nextPC = target
		}
	default:
		// Unknown instructions are architectural no-ops.
	}

	e.pc = nextPC
	e.instructionCount++

	return StepResult{Done: e.program.At(e.pc) == nil}
}

// Run executes until the program completes or the step limit is hit.
// It reports whether the program ran to completion.
func (e *Emulator) Run() bool {
	for {
		result := e.Step()
		if result.Done {
			return true
		}
		if result.Stalled {
			return false
		}
	}
}

// Reset rewinds the program counter and instruction count and restores the
// architectural state to its seeded initial contents.
func (e *Emulator) Reset() {
	e.pc = 0
	e.instructionCount = 0
	e.state.Reset()
}
