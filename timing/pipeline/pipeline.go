package pipeline

import (
	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/emu"
	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/insts"
	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/timing/cache"
)

// Statistics holds pipeline performance counters for one simulation session.
type Statistics struct {
	// Cycles is the total number of clock cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired at writeback.
	Instructions uint64
	// Stalls is the number of stall cycles (bubbles inserted).
	Stalls uint64
	// Flushes is the number of taken-branch flushes.
	Flushes uint64
	// LoadUseHazards is the number of load-use hazards detected.
	LoadUseHazards uint64
	// ForwardsFromEX counts operands forwarded from the EX stage.
	ForwardsFromEX uint64
	// ForwardsFromMEM counts operands forwarded from the MEM stage.
	ForwardsFromMEM uint64
	// Branches is the number of branch instructions executed.
	Branches uint64
	// BranchesTaken is the number of branches that redirected the PC.
	BranchesTaken uint64
}

// CPI returns the cycles per retired instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Option is a functional option for configuring the Pipeline.
type Option func(*Pipeline)

// WithDCache attaches an L1 data cache model that observes MEM-stage
// accesses. The cache is purely observational: it classifies hits and
// misses for the energy model but does not add pipeline stalls.
func WithDCache(c *cache.Cache) Option {
	return func(p *Pipeline) {
		p.dcache = c
	}
}

// Pipeline is the 5-stage in-order pipeline engine. It is purely reactive:
// one call to StepClock advances the machine exactly one clock cycle, and
// the engine keeps no timers of its own, so callers may drive it at any
// cadence. Each session owns its program and architectural state
// exclusively; the type is not safe for concurrent use.
type Pipeline struct {
	program *insts.Program
	state   *emu.State

	// The five stage registers, latched at the end of every cycle.
	ifReg  StageRegister
	idReg  StageRegister
	exReg  StageRegister
	memReg StageRegister
	wbReg  StageRegister

	hazardUnit *HazardUnit
	dcache     *cache.Cache

	// pc is the fetch program counter, an instruction index.
	pc int

	// lastWritten is the register index committed this cycle, -1 if none.
	lastWritten int

	// hazard is the classification computed for the most recent cycle.
	hazard Hazard

	stats Statistics
}

// NewPipeline creates a pipeline over the given program and architectural
// state.
func NewPipeline(program *insts.Program, state *emu.State, opts ...Option) *Pipeline {
	p := &Pipeline{
		program:     program,
		state:       state,
		hazardUnit:  NewHazardUnit(),
		lastWritten: -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PC returns the fetch program counter.
func (p *Pipeline) PC() int {
	return p.pc
}

// State returns the architectural state the pipeline mutates.
func (p *Pipeline) State() *emu.State {
	return p.state
}

// Stats returns the statistics accumulated so far.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Hazard returns the hazard classification for the most recent cycle.
func (p *Pipeline) Hazard() Hazard {
	return p.hazard
}

// LastWrittenRegister returns the register index committed during the most
// recent cycle, or -1 when nothing was written. The UI uses it for
// highlighting.
func (p *Pipeline) LastWrittenRegister() int {
	return p.lastWritten
}

// GetIF returns the Fetch stage register.
func (p *Pipeline) GetIF() *StageRegister { return &p.ifReg }

// GetID returns the Decode stage register.
func (p *Pipeline) GetID() *StageRegister { return &p.idReg }

// GetEX returns the Execute stage register.
func (p *Pipeline) GetEX() *StageRegister { return &p.exReg }

// GetMEM returns the Memory stage register.
func (p *Pipeline) GetMEM() *StageRegister { return &p.memReg }

// GetWB returns the Writeback stage register.
func (p *Pipeline) GetWB() *StageRegister { return &p.wbReg }

// Snapshot returns the externally visible contents of all five stages in
// program order (IF first).
func (p *Pipeline) Snapshot() [5]StageSnapshot {
	return [5]StageSnapshot{
		p.ifReg.snapshot(StageIF),
		p.idReg.snapshot(StageID),
		p.exReg.snapshot(StageEX),
		p.memReg.snapshot(StageMEM),
		p.wbReg.snapshot(StageWB),
	}
}

// Finished reports whether the simulation has drained: the fetch PC is past
// the end of the program and no instruction remains in flight.
func (p *Pipeline) Finished() bool {
	return p.pc >= p.program.Len() &&
		!p.ifReg.Valid && !p.idReg.Valid && !p.exReg.Valid &&
		!p.memReg.Valid && !p.wbReg.Valid
}

// Reset clears the pipeline, rewinds the PC, zeroes the statistics, and
// restores the architectural state to its seeded initial contents.
func (p *Pipeline) Reset() {
	p.ifReg.Clear()
	p.idReg.Clear()
	p.exReg.Clear()
	p.memReg.Clear()
	p.wbReg.Clear()
	p.pc = 0
	p.lastWritten = -1
	p.hazard = HazardNone
	p.stats = Statistics{}
	p.state.Reset()
	if p.dcache != nil {
		p.dcache.ResetStats()
	}
}

// Run advances the clock until the pipeline drains or maxCycles elapse.
// It reports whether the simulation finished.
func (p *Pipeline) Run(maxCycles uint64) bool {
	for i := uint64(0); i < maxCycles && !p.Finished(); i++ {
		p.StepClock()
	}
	return p.Finished()
}

// StepClock advances the pipeline one clock cycle. Once the simulation has
// finished, further calls are no-ops.
//
// Stages are evaluated in reverse order (WB, MEM, EX, ID, IF) against the
// registers saved at the start of the cycle, and all five registers are
// latched together at the end, so the transition is a pure function of the
// previous cycle's pipeline state plus register-file and memory reads.
func (p *Pipeline) StepClock() {
	if p.Finished() {
		return
	}

	p.stats.Cycles++
	p.lastWritten = -1

	savedIF := p.ifReg
	savedID := p.idReg
	savedEX := p.exReg
	savedMEM := p.memReg

	// Writeback: the instruction leaving MEM commits its result now.
	nextWB := p.writeback(savedMEM)

	// Memory: the instruction leaving EX touches data memory.
	nextMEM := p.memoryAccess(savedEX)

	// Execute: hazard check, then operand resolution and the ALU.
	loadUse := p.hazardUnit.DetectLoadUse(&savedEX, &savedID)

	var nextEX StageRegister
	var forwardedEX, forwardedMEM bool
	branchTaken := false
	branchTarget := 0

	if loadUse {
		p.stats.Stalls++
		p.stats.LoadUseHazards++
		// A bubble enters EX; the consumer is held in ID below.
		nextEX = StageRegister{Stall: true}
	} else if savedID.Valid {
		var ex execOutcome
		nextEX, ex = p.execute(savedID, &savedMEM, &savedEX, &nextWB)
		forwardedEX = ex.forwardedFromEX
		forwardedMEM = ex.forwardedFromMEM
		branchTaken = ex.branchTaken
		branchTarget = ex.branchTarget
	}

	// Decode and Fetch: squash on a taken branch, hold on a stall,
	// otherwise shift down and fetch the next instruction.
	var nextID, nextIF StageRegister
	switch {
	case branchTaken:
		// The sequentially fetched instructions are wrong-path.
		nextID = StageRegister{Flush: true}
		nextIF = StageRegister{Flush: true}
		p.pc = branchTarget
		p.stats.Flushes++

	case loadUse:
		nextID = savedID
		nextID.Stall = true
		nextIF = savedIF // fetch holds; PC does not advance

	default:
		nextID = savedIF
		nextID.Stall = false
		if inst := p.program.At(p.pc); inst != nil {
			nextIF = StageRegister{Valid: true, Inst: inst, PC: p.pc}
			p.pc++
		}
	}

	// Classify the cycle for the visualizer.
	p.hazard = p.hazardUnit.Classify(loadUse, forwardedEX, forwardedMEM, branchTaken)

	// Latch all five registers together.
	p.wbReg = nextWB
	p.memReg = nextMEM
	p.exReg = nextEX
	p.idReg = nextID
	p.ifReg = nextIF
}

// writeback commits the instruction leaving MEM to the register file.
func (p *Pipeline) writeback(mem StageRegister) StageRegister {
	if !mem.Valid {
		return StageRegister{}
	}

	nextWB := mem
	p.stats.Instructions++

	if nextWB.Inst.Op.WritesDest() && nextWB.HasResult {
		rd := int(nextWB.Inst.Rd)
		p.state.Regs.Write(rd, nextWB.Result)
		if rd != 0 {
			p.lastWritten = rd
		}
	}

	return nextWB
}

// memoryAccess performs the data-memory side of the instruction leaving EX:
// LW reads the word at the address computed in EX, SW writes the value
// computed in EX. Everything else passes through unchanged.
func (p *Pipeline) memoryAccess(ex StageRegister) StageRegister {
	if !ex.Valid {
		return StageRegister{}
	}

	nextMEM := ex
	switch ex.Inst.Op {
	case insts.OpLW:
		nextMEM.Result = p.state.Mem.ReadWord(ex.Addr)
		nextMEM.HasResult = true
		if p.dcache != nil {
			p.dcache.Read(ex.Addr)
		}
	case insts.OpSW:
		p.state.Mem.WriteWord(ex.Addr, ex.Result)
		if p.dcache != nil {
			p.dcache.Write(ex.Addr)
		}
	}

	return nextMEM
}

// execOutcome carries the side signals of one execute step.
type execOutcome struct {
	forwardedFromEX  bool
	forwardedFromMEM bool
	branchTaken      bool
	branchTarget     int
}

// execute resolves the operands of the instruction leaving Decode through
// the forwarding chain and performs its ALU operation. Branches resolve
// here: a taken BEQ or a JAL raises branchTaken with the label's
// instruction index. An undefined label leaves the branch inert (no
// redirect, no flush), the documented fallback for unknown targets.
func (p *Pipeline) execute(
	id StageRegister,
	savedMEM, savedEX, nextWB *StageRegister,
) (StageRegister, execOutcome) {
	inst := id.Inst
	outcome := execOutcome{}

	nextEX := StageRegister{
		Valid: true,
		Inst:  inst,
		PC:    id.PC,
	}

	var rs1, rs2 int64
	if inst.Op.ReadsRs1() {
		v, src := p.hazardUnit.ForwardOperand(inst.Rs1, savedMEM, savedEX, nextWB, p.state.Regs)
		rs1 = v
		p.noteForward(src, &outcome)
	}
	if inst.Op.ReadsRs2() {
		v, src := p.hazardUnit.ForwardOperand(inst.Rs2, savedMEM, savedEX, nextWB, p.state.Regs)
		rs2 = v
		p.noteForward(src, &outcome)
	}

	switch inst.Op {
	case insts.OpADD:
		nextEX.Result = rs1 + rs2
		nextEX.HasResult = true

	case insts.OpSUB:
		nextEX.Result = rs1 - rs2
		nextEX.HasResult = true

	case insts.OpADDI:
		nextEX.Result = rs1 + inst.Imm
		nextEX.HasResult = true

	case insts.OpLW:
		nextEX.Addr = rs1 + inst.Imm

	case insts.OpSW:
		nextEX.Addr = rs1 + inst.Imm
		nextEX.Result = rs2
		nextEX.HasResult = true

	case insts.OpBEQ:
		p.stats.Branches++
		if rs1 == rs2 {
			if target, ok := p.program.LabelTarget(inst.Label); ok {
				outcome.branchTaken = true
				outcome.branchTarget = target
				p.stats.BranchesTaken++
			}
		}

	case insts.OpJAL:
		p.stats.Branches++
		nextEX.Result = int64(id.PC + 1)
		nextEX.HasResult = true
		if target, ok := p.program.LabelTarget(inst.Label); ok {
			outcome.branchTaken = true
			outcome.branchTarget = target
			p.stats.BranchesTaken++
		}

	default:
		// Unknown instructions execute as no-ops.
	}

	return nextEX, outcome
}

func (p *Pipeline) noteForward(src ForwardSource, outcome *execOutcome) {
	switch src {
	case ForwardFromEX:
		outcome.forwardedFromEX = true
		p.stats.ForwardsFromEX++
	case ForwardFromMEM:
		outcome.forwardedFromMEM = true
		p.stats.ForwardsFromMEM++
	}
}
