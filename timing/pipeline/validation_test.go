package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/emu"
	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/insts"
	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/timing/pipeline"
)

// The pipeline must retire to the same architectural state the functional
// emulator produces, whatever stalls, forwards, and flushes happen on the
// way there.
var _ = Describe("Pipeline vs emulator validation", func() {
	programs := map[string]string{
		"alu chain": `
			addi x1, x0, 5
			addi x2, x0, 7
			add x3, x1, x2
			sub x4, x3, x1
			add x5, x4, x4`,
		"memory round trip": `
			lw x2, 0(x1)
			addi x3, x2, 4
			sw x3, 4(x1)
			lw x4, 4(x1)`,
		"taken branch": `
			addi x1, x0, 3
			beq x0, x0, skip
			addi x2, x0, 99
			skip: addi x3, x1, 1`,
		"not-taken branch": `
			addi x1, x0, 3
			beq x1, x0, skip
			addi x2, x0, 99
			skip: addi x3, x1, 1`,
		"counted loop": `
			addi x1, x0, 4
			loop: add x2, x2, x1
			addi x1, x1, -1
			beq x1, x0, done
			jal x0, loop
			done: addi x3, x2, 0`,
		"jal link register": `
			jal x5, target
			addi x2, x0, 99
			target: addi x3, x5, 0`,
		"unknown label stays inert": `
			addi x1, x0, 1
			beq x0, x0, nowhere
			addi x2, x0, 2`,
		"unknown opcode is a no-op": `
			addi x1, x0, 1
			mul x2, x1, x1
			addi x3, x1, 2`,
	}

	It("should really branch in the branching programs", func() {
		taken := pipeline.NewPipeline(
			insts.Parse(programs["taken branch"]), emu.NewState())
		Expect(taken.Run(1000)).To(BeTrue())
		Expect(taken.Stats().BranchesTaken).To(BeNumerically(">", uint64(0)))

		loop := insts.Parse(programs["counted loop"])
		looped := pipeline.NewPipeline(loop, emu.NewState())
		Expect(looped.Run(1000)).To(BeTrue())
		Expect(looped.Stats().Instructions).
			To(BeNumerically(">", uint64(loop.Len())))
	})

	for name, source := range programs {
		source := source

		It("should match on the "+name+" program", func() {
			program := insts.Parse(source)

			emulator := emu.NewEmulator(program, emu.NewState(emu.WithDemoSeed()))
			Expect(emulator.Run()).To(BeTrue())

			p := pipeline.NewPipeline(program, emu.NewState(emu.WithDemoSeed()))
			Expect(p.Run(1000)).To(BeTrue())

			Expect(p.State().Regs.Snapshot()).To(
				Equal(emulator.State().Regs.Snapshot()))
			Expect(p.State().Mem.Snapshot()).To(
				Equal(emulator.State().Mem.Snapshot()))
			Expect(p.Stats().Instructions).To(Equal(emulator.InstructionCount()))
		})
	}
})
