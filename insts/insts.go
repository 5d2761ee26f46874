// Package insts provides instruction definitions and the textual assembler
// for the accelerator's scalar control ISA.
//
// The supported subset covers the instructions the pipeline visualizer
// simulates: ADD, SUB, ADDI, LW, SW, BEQ, and JAL. Anything else assembles
// to an OpUnknown record that flows through the pipeline as a no-op.
package insts

import "fmt"

// Op identifies an instruction in the scalar control ISA.
type Op uint8

// Scalar control opcodes.
const (
	OpUnknown Op = iota
	OpADD
	OpSUB
	OpADDI
	OpLW
	OpSW
	OpBEQ
	OpJAL
)

// String returns the assembly mnemonic for the opcode.
func (op Op) String() string {
	switch op {
	case OpADD:
		return "add"
	case OpSUB:
		return "sub"
	case OpADDI:
		return "addi"
	case OpLW:
		return "lw"
	case OpSW:
		return "sw"
	case OpBEQ:
		return "beq"
	case OpJAL:
		return "jal"
	default:
		return "unknown"
	}
}

// WritesDest reports whether the opcode commits a result to its destination
// register at writeback. SW stores to memory only and BEQ writes nothing;
// JAL writes its return address.
func (op Op) WritesDest() bool {
	switch op {
	case OpADD, OpSUB, OpADDI, OpLW, OpJAL:
		return true
	default:
		return false
	}
}

// ReadsRs1 reports whether the opcode consumes its first source register.
func (op Op) ReadsRs1() bool {
	switch op {
	case OpADD, OpSUB, OpADDI, OpLW, OpSW, OpBEQ:
		return true
	default:
		return false
	}
}

// ReadsRs2 reports whether the opcode consumes its second source register.
// For SW this is the register whose value is stored.
func (op Op) ReadsRs2() bool {
	switch op {
	case OpADD, OpSUB, OpSW, OpBEQ:
		return true
	default:
		return false
	}
}

// IsLoad reports whether the opcode reads data memory.
func (op Op) IsLoad() bool { return op == OpLW }

// IsStore reports whether the opcode writes data memory.
func (op Op) IsStore() bool { return op == OpSW }

// IsMemory reports whether the opcode accesses data memory.
func (op Op) IsMemory() bool { return op == OpLW || op == OpSW }

// IsBranch reports whether the opcode can redirect the program counter.
func (op Op) IsBranch() bool { return op == OpBEQ || op == OpJAL }

// IsConditionalBranch reports whether the opcode branches on a condition.
func (op Op) IsConditionalBranch() bool { return op == OpBEQ }

// Instruction is one parsed instruction. Instances are immutable once the
// assembler produces them; the pipeline only ever reads them.
//
// Operand fields are meaningful only when the opcode's predicates say so
// (e.g. Rs2 is the store source for SW). Malformed source lines leave the
// unparsed fields at their zero values, which the pipeline treats safely:
// register 0 is the hardwired zero register.
type Instruction struct {
	Op  Op
	Rd  uint8
	Rs1 uint8
	Rs2 uint8
	Imm int64

	// Label is the branch target name for BEQ/JAL.
	Label string

	// PC is the instruction's index in the program.
	PC int

	// Raw is the source line this instruction was assembled from.
	Raw string
}

// String renders the instruction for traces and snapshots.
func (i *Instruction) String() string {
	switch i.Op {
	case OpADD, OpSUB:
		return fmt.Sprintf("%s x%d, x%d, x%d", i.Op, i.Rd, i.Rs1, i.Rs2)
	case OpADDI:
		return fmt.Sprintf("%s x%d, x%d, %d", i.Op, i.Rd, i.Rs1, i.Imm)
	case OpLW:
		return fmt.Sprintf("%s x%d, %d(x%d)", i.Op, i.Rd, i.Imm, i.Rs1)
	case OpSW:
		return fmt.Sprintf("%s x%d, %d(x%d)", i.Op, i.Rs2, i.Imm, i.Rs1)
	case OpBEQ:
		return fmt.Sprintf("%s x%d, x%d, %s", i.Op, i.Rs1, i.Rs2, i.Label)
	case OpJAL:
		return fmt.Sprintf("%s x%d, %s", i.Op, i.Rd, i.Label)
	default:
		return i.Raw
	}
}

// Program is an assembled instruction sequence with its label table.
// Labels map a name to the index of the instruction that follows it.
type Program struct {
	Insts  []Instruction
	Labels map[string]int
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int {
	return len(p.Insts)
}

// At returns the instruction at the given index, or nil when the index is
// outside the program.
func (p *Program) At(pc int) *Instruction {
	if pc < 0 || pc >= len(p.Insts) {
		return nil
	}
	return &p.Insts[pc]
}

// LabelTarget resolves a label to its instruction index. The second return
// value is false when the label is not defined.
func (p *Program) LabelTarget(name string) (int, bool) {
	target, ok := p.Labels[name]
	return target, ok
}
