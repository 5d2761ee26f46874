// Package pipeline implements the 5-stage pipeline engine behind the
// visualizer: Fetch -> Decode -> Execute -> Memory -> Writeback, with
// load-use stalling, operand forwarding, and branch flushing.
package pipeline

import (
	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/insts"
)

// Stage names the five pipeline stages.
type Stage int

// Pipeline stages in program order.
const (
	StageIF Stage = iota
	StageID
	StageEX
	StageMEM
	StageWB
)

// String returns the conventional stage abbreviation.
func (s Stage) String() string {
	switch s {
	case StageIF:
		return "IF"
	case StageID:
		return "ID"
	case StageEX:
		return "EX"
	case StageMEM:
		return "MEM"
	case StageWB:
		return "WB"
	default:
		return "?"
	}
}

// StageRegister is the pipeline register feeding one stage. All five
// registers are fully replaced on every clock tick, which makes each cycle's
// transition a pure function of the previous cycle's registers plus the
// architectural state.
type StageRegister struct {
	// Valid indicates the register holds an in-flight instruction. A
	// register can be invalid but still carry a Stall or Flush marker,
	// representing a bubble or a squashed slot for display.
	Valid bool

	// Inst is the in-flight instruction.
	Inst *insts.Instruction

	// PC is the instruction's index in the program.
	PC int

	// Stall marks an instruction held in place by a load-use hazard, or
	// the bubble inserted in its stead.
	Stall bool

	// Flush marks a slot squashed by a taken branch.
	Flush bool

	// Result is the computed value carried down the pipeline: the ALU
	// result, the JAL return address, the value loaded by LW once it has
	// passed MEM, or the value SW will store. HasResult reports whether
	// Result has been populated yet.
	Result    int64
	HasResult bool

	// Addr is the effective address computed in EX for LW/SW.
	Addr int64
}

// Clear resets the register to an empty slot.
func (r *StageRegister) Clear() {
	*r = StageRegister{}
}

// StageSnapshot is the externally visible content of one stage, as shown by
// the visualizer.
type StageSnapshot struct {
	Stage     Stage
	Inst      *insts.Instruction
	PC        int
	Stall     bool
	Flush     bool
	Result    int64
	HasResult bool
	Addr      int64
}

func (r *StageRegister) snapshot(stage Stage) StageSnapshot {
	snap := StageSnapshot{
		Stage: stage,
		PC:    r.PC,
		Stall: r.Stall,
		Flush: r.Flush,
	}
	if r.Valid {
		snap.Inst = r.Inst
		snap.Result = r.Result
		snap.HasResult = r.HasResult
		snap.Addr = r.Addr
	}
	return snap
}
