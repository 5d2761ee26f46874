package insts

import (
	"regexp"
	"strconv"
	"strings"
)

// The assembler is deliberately permissive: the UI feeds it partially typed
// programs on every keystroke, so malformed lines must never fail. Operands
// that cannot be parsed are left at their zero values and the resulting
// instruction behaves as safely as possible downstream.

var (
	labelPattern   = regexp.MustCompile(`^([A-Za-z_]\w*):(.*)$`)
	memOperandRe   = regexp.MustCompile(`^(-?\d+)\((x?\d+)\)$`)
	registerPrefix = "x"
)

// Parse assembles multi-line source text into a Program. It never fails;
// see the package comment for the degradation policy. Comments start with
// '#', labels are lines of the form "name:", and commas are treated as
// whitespace.
func Parse(text string) *Program {
	prog := &Program{
		Labels: map[string]int{},
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := rawLine
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := labelPattern.FindStringSubmatch(line); m != nil {
			// Label binds to the next instruction slot. The labeled
			// instruction may share the line.
			prog.Labels[m[1]] = len(prog.Insts)
			line = strings.TrimSpace(m[2])
			if line == "" {
				continue
			}
		}

		inst := parseLine(line)
		inst.PC = len(prog.Insts)
		prog.Insts = append(prog.Insts, inst)
	}

	return prog
}

// parseLine tokenizes one instruction line and fills operand fields
// according to the opcode's layout.
func parseLine(line string) Instruction {
	tokens := strings.Fields(strings.ReplaceAll(line, ",", " "))
	inst := Instruction{Raw: line}
	if len(tokens) == 0 {
		return inst
	}

	mnemonic := strings.ToLower(tokens[0])
	operands := tokens[1:]

	switch mnemonic {
	case "add", "sub":
		if mnemonic == "add" {
			inst.Op = OpADD
		} else {
			inst.Op = OpSUB
		}
		inst.Rd = parseRegister(operand(operands, 0))
		inst.Rs1 = parseRegister(operand(operands, 1))
		inst.Rs2 = parseRegister(operand(operands, 2))

	case "addi":
		inst.Op = OpADDI
		inst.Rd = parseRegister(operand(operands, 0))
		inst.Rs1 = parseRegister(operand(operands, 1))
		inst.Imm = parseImmediate(operand(operands, 2))

	case "lw":
		inst.Op = OpLW
		inst.Rd = parseRegister(operand(operands, 0))
		inst.Imm, inst.Rs1 = parseMemOperand(operand(operands, 1))

	case "sw":
		// The first operand is the store source, not a destination. It
		// parses straight into Rs2; SW never writes a register.
		inst.Op = OpSW
		inst.Rs2 = parseRegister(operand(operands, 0))
		inst.Imm, inst.Rs1 = parseMemOperand(operand(operands, 1))

	case "beq":
		inst.Op = OpBEQ
		inst.Rs1 = parseRegister(operand(operands, 0))
		inst.Rs2 = parseRegister(operand(operands, 1))
		inst.Label = operand(operands, 2)

	case "jal":
		inst.Op = OpJAL
		inst.Rd = parseRegister(operand(operands, 0))
		inst.Label = operand(operands, 1)

	default:
		inst.Op = OpUnknown
	}

	return inst
}

// operand returns the i-th operand token or "" when the line is short.
func operand(operands []string, i int) string {
	if i >= len(operands) {
		return ""
	}
	return operands[i]
}

// parseRegister accepts "x7" or bare "7" and clamps the index to 0..31.
// Anything unparsable maps to register 0.
func parseRegister(tok string) uint8 {
	tok = strings.ToLower(strings.TrimSpace(tok))
	tok = strings.TrimPrefix(tok, registerPrefix)
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0
	}
	if n > 31 {
		return 31
	}
	return uint8(n)
}

// parseImmediate parses a signed decimal immediate, defaulting to 0.
func parseImmediate(tok string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseMemOperand splits the "imm(rs1)" base+offset form used by LW and SW.
func parseMemOperand(tok string) (imm int64, rs1 uint8) {
	m := memOperandRe.FindStringSubmatch(strings.TrimSpace(tok))
	if m == nil {
		return 0, 0
	}
	return parseImmediate(m[1]), parseRegister(m[2])
}
