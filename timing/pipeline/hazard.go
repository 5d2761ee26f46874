package pipeline

import (
	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/emu"
)

// Hazard classifies the pipeline condition observed during one clock cycle.
// The values are ordered by reporting priority: when several conditions
// coincide, the lowest-numbered nonzero one is reported.
type Hazard int

// Hazard classifications.
const (
	// HazardNone means no hazard was detected this cycle.
	HazardNone Hazard = iota
	// HazardLoadUse means a load-use hazard stalled the pipeline.
	HazardLoadUse
	// HazardForwardEXToID means an operand was forwarded from the EX stage.
	HazardForwardEXToID
	// HazardForwardMEMToID means an operand was forwarded from the MEM stage.
	HazardForwardMEMToID
	// HazardControl means a branch resolved taken in EX and flushed the
	// front of the pipeline.
	HazardControl
)

// String returns the message the visualizer displays for the hazard.
func (h Hazard) String() string {
	switch h {
	case HazardLoadUse:
		return "load-use hazard detected"
	case HazardForwardEXToID:
		return "EX->ID forward"
	case HazardForwardMEMToID:
		return "MEM->ID forward"
	case HazardControl:
		return "control hazard in EX"
	default:
		return "no hazard"
	}
}

// ForwardSource indicates where an operand value came from.
type ForwardSource int

// Forwarding sources, in the order the chain consults them.
const (
	// ForwardNone means the committed register file value was used.
	ForwardNone ForwardSource = iota
	// ForwardFromMEM means the value came from the MEM stage register.
	ForwardFromMEM
	// ForwardFromEX means the value came from the EX stage register.
	ForwardFromEX
	// ForwardFromWB means the value came from the result committing at
	// writeback this cycle.
	ForwardFromWB
)

// HazardUnit detects load-use hazards and resolves operands through the
// forwarding chain.
type HazardUnit struct{}

// NewHazardUnit creates a hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// DetectLoadUse reports a load-use hazard: the instruction in EX is a load
// whose destination is read by the instruction in ID. Register 0 never
// hazards. Such a hazard cannot be resolved by forwarding, because the
// loaded value only becomes available after MEM; the consumer must stall
// one cycle.
func (h *HazardUnit) DetectLoadUse(ex, id *StageRegister) bool {
	if !ex.Valid || !ex.Inst.Op.IsLoad() {
		return false
	}
	if !id.Valid {
		return false
	}

	loadRd := ex.Inst.Rd
	if loadRd == 0 {
		return false
	}

	op := id.Inst.Op
	if op.ReadsRs1() && id.Inst.Rs1 == loadRd {
		return true
	}
	if op.ReadsRs2() && id.Inst.Rs2 == loadRd {
		return true
	}
	return false
}

// ForwardOperand resolves one source register for the instruction leaving
// Decode. The chain is consulted in this exact order: the MEM stage result,
// the EX stage in-flight result, the value committing at writeback, and
// finally the committed register file.
func (h *HazardUnit) ForwardOperand(
	reg uint8,
	mem, ex, wb *StageRegister,
	regs *emu.RegFile,
) (int64, ForwardSource) {
	if reg == 0 {
		return 0, ForwardNone
	}

	if forwards(mem, reg) {
		return mem.Result, ForwardFromMEM
	}
	if forwards(ex, reg) {
		return ex.Result, ForwardFromEX
	}
	if forwards(wb, reg) {
		return wb.Result, ForwardFromWB
	}

	return regs.Read(int(reg)), ForwardNone
}

// Classify reports the hazard for a cycle from its observed conditions.
// When several coincide, the highest-priority one wins: load-use, then an
// EX forward, then a MEM forward, then a control hazard.
func (h *HazardUnit) Classify(loadUse, forwardedEX, forwardedMEM, branchTaken bool) Hazard {
	switch {
	case loadUse:
		return HazardLoadUse
	case forwardedEX:
		return HazardForwardEXToID
	case forwardedMEM:
		return HazardForwardMEMToID
	case branchTaken:
		return HazardControl
	default:
		return HazardNone
	}
}

// forwards reports whether the stage register holds a committed-to-be value
// for the given register.
func forwards(r *StageRegister, reg uint8) bool {
	return r.Valid && r.HasResult && r.Inst.Op.WritesDest() && r.Inst.Rd == reg
}
