package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/insts"
)

var _ = Describe("Assembler", func() {
	Describe("Parse", func() {
		It("should parse a three-register ALU instruction", func() {
			prog := insts.Parse("add x5, x4, x1")

			Expect(prog.Len()).To(Equal(1))
			inst := prog.At(0)
			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.Rd).To(Equal(uint8(5)))
			Expect(inst.Rs1).To(Equal(uint8(4)))
			Expect(inst.Rs2).To(Equal(uint8(1)))
		})

		It("should parse ADDI with a negative immediate", func() {
			prog := insts.Parse("addi x3, x2, -4")

			inst := prog.At(0)
			Expect(inst.Op).To(Equal(insts.OpADDI))
			Expect(inst.Rd).To(Equal(uint8(3)))
			Expect(inst.Rs1).To(Equal(uint8(2)))
			Expect(inst.Imm).To(Equal(int64(-4)))
		})

		It("should parse LW base+offset addressing", func() {
			prog := insts.Parse("lw x2, 8(x1)")

			inst := prog.At(0)
			Expect(inst.Op).To(Equal(insts.OpLW))
			Expect(inst.Rd).To(Equal(uint8(2)))
			Expect(inst.Rs1).To(Equal(uint8(1)))
			Expect(inst.Imm).To(Equal(int64(8)))
		})

		It("should parse SW with the store source in Rs2 and no destination", func() {
			prog := insts.Parse("sw x3, 4(x1)")

			inst := prog.At(0)
			Expect(inst.Op).To(Equal(insts.OpSW))
			Expect(inst.Rs2).To(Equal(uint8(3)))
			Expect(inst.Rs1).To(Equal(uint8(1)))
			Expect(inst.Imm).To(Equal(int64(4)))
			Expect(inst.Rd).To(Equal(uint8(0)))
			Expect(inst.Op.WritesDest()).To(BeFalse())
		})

		It("should parse BEQ with a label target", func() {
			prog := insts.Parse("beq x4, x0, end")

			inst := prog.At(0)
			Expect(inst.Op).To(Equal(insts.OpBEQ))
			Expect(inst.Rs1).To(Equal(uint8(4)))
			Expect(inst.Rs2).To(Equal(uint8(0)))
			Expect(inst.Label).To(Equal("end"))
		})

		It("should parse JAL with a destination and a label", func() {
			prog := insts.Parse("jal x1, loop")

			inst := prog.At(0)
			Expect(inst.Op).To(Equal(insts.OpJAL))
			Expect(inst.Rd).To(Equal(uint8(1)))
			Expect(inst.Label).To(Equal("loop"))
		})

		It("should bind labels to the next instruction index", func() {
			prog := insts.Parse("addi x1, x0, 1\nloop:\nadd x2, x2, x1\nbeq x2, x3, loop")

			Expect(prog.Len()).To(Equal(3))
			target, ok := prog.LabelTarget("loop")
			Expect(ok).To(BeTrue())
			Expect(target).To(Equal(1))
		})

		It("should accept a label sharing a line with its instruction", func() {
			prog := insts.Parse("beq x0, x0, skip\naddi x2, x0, 99\nskip: addi x3, x1, 1")

			Expect(prog.Len()).To(Equal(3))
			target, ok := prog.LabelTarget("skip")
			Expect(ok).To(BeTrue())
			Expect(target).To(Equal(2))

			inst := prog.At(2)
			Expect(inst.Op).To(Equal(insts.OpADDI))
			Expect(inst.Rd).To(Equal(uint8(3)))
			Expect(inst.Rs1).To(Equal(uint8(1)))
			Expect(inst.Imm).To(Equal(int64(1)))
		})

		It("should strip comments and blank lines", func() {
			prog := insts.Parse("# header comment\n\nadd x1, x2, x3 # trailing\n\n")

			Expect(prog.Len()).To(Equal(1))
			Expect(prog.At(0).Op).To(Equal(insts.OpADD))
		})

		It("should lowercase mnemonics", func() {
			prog := insts.Parse("ADD x1, x2, x3")

			Expect(prog.At(0).Op).To(Equal(insts.OpADD))
		})

		It("should accept bare register numbers", func() {
			prog := insts.Parse("add 1, 2, 3")

			inst := prog.At(0)
			Expect(inst.Rd).To(Equal(uint8(1)))
			Expect(inst.Rs1).To(Equal(uint8(2)))
			Expect(inst.Rs2).To(Equal(uint8(3)))
		})

		It("should clamp out-of-range register indices", func() {
			prog := insts.Parse("add x99, x1, x2")

			Expect(prog.At(0).Rd).To(Equal(uint8(31)))
		})

		It("should keep unknown mnemonics as no-op records", func() {
			prog := insts.Parse("conv2d.3x3 v0, v1, v2")

			inst := prog.At(0)
			Expect(inst.Op).To(Equal(insts.OpUnknown))
			Expect(inst.Raw).To(Equal("conv2d.3x3 v0, v1, v2"))
			Expect(inst.Op.WritesDest()).To(BeFalse())
		})

		It("should not fail on malformed operands", func() {
			prog := insts.Parse("lw x2\naddi\nsw x3, garbage\nbeq x1")

			Expect(prog.Len()).To(Equal(4))
			Expect(prog.At(0).Op).To(Equal(insts.OpLW))
			Expect(prog.At(0).Rs1).To(Equal(uint8(0)))
			Expect(prog.At(2).Rs1).To(Equal(uint8(0)))
			Expect(prog.At(3).Label).To(Equal(""))
		})

		It("should return an empty program for empty input", func() {
			prog := insts.Parse("")

			Expect(prog.Len()).To(Equal(0))
			Expect(prog.At(0)).To(BeNil())
		})
	})
})
