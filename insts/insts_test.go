package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/insts"
)

var _ = Describe("Insts Package", func() {
	Describe("Op predicates", func() {
		It("should report destination writers", func() {
			Expect(insts.OpADD.WritesDest()).To(BeTrue())
			Expect(insts.OpADDI.WritesDest()).To(BeTrue())
			Expect(insts.OpLW.WritesDest()).To(BeTrue())
			Expect(insts.OpJAL.WritesDest()).To(BeTrue())
			Expect(insts.OpSW.WritesDest()).To(BeFalse())
			Expect(insts.OpBEQ.WritesDest()).To(BeFalse())
			Expect(insts.OpUnknown.WritesDest()).To(BeFalse())
		})

		It("should report source register usage", func() {
			Expect(insts.OpSW.ReadsRs2()).To(BeTrue())
			Expect(insts.OpADDI.ReadsRs2()).To(BeFalse())
			Expect(insts.OpJAL.ReadsRs1()).To(BeFalse())
			Expect(insts.OpBEQ.ReadsRs1()).To(BeTrue())
			Expect(insts.OpBEQ.ReadsRs2()).To(BeTrue())
		})

		It("should classify memory and branch instructions", func() {
			Expect(insts.OpLW.IsLoad()).To(BeTrue())
			Expect(insts.OpSW.IsStore()).To(BeTrue())
			Expect(insts.OpLW.IsMemory()).To(BeTrue())
			Expect(insts.OpSW.IsMemory()).To(BeTrue())
			Expect(insts.OpBEQ.IsBranch()).To(BeTrue())
			Expect(insts.OpJAL.IsBranch()).To(BeTrue())
			Expect(insts.OpBEQ.IsConditionalBranch()).To(BeTrue())
			Expect(insts.OpJAL.IsConditionalBranch()).To(BeFalse())
		})
	})

	Describe("Instruction String", func() {
		It("should render each opcode in assembly form", func() {
			prog := insts.Parse("add x1, x2, x3\nlw x2, 0(x1)\nsw x3, 4(x1)\nbeq x1, x2, end\njal x1, end\nend:")

			Expect(prog.At(0).String()).To(Equal("add x1, x2, x3"))
			Expect(prog.At(1).String()).To(Equal("lw x2, 0(x1)"))
			Expect(prog.At(2).String()).To(Equal("sw x3, 4(x1)"))
			Expect(prog.At(3).String()).To(Equal("beq x1, x2, end"))
			Expect(prog.At(4).String()).To(Equal("jal x1, end"))
		})
	})
})
