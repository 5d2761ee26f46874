package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/emu"
	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/insts"
)

var _ = Describe("Emulator", func() {
	run := func(source string, opts ...emu.StateOption) *emu.State {
		state := emu.NewState(opts...)
		e := emu.NewEmulator(insts.Parse(source), state, emu.WithMaxSteps(10000))
		Expect(e.Run()).To(BeTrue())
		return state
	}

	It("should execute ALU instructions", func() {
		state := run("addi x1, x0, 10\naddi x2, x0, 3\nadd x3, x1, x2\nsub x4, x1, x2")

		Expect(state.Regs.Read(3)).To(Equal(int64(13)))
		Expect(state.Regs.Read(4)).To(Equal(int64(7)))
	})

	It("should execute loads and stores", func() {
		state := run("lw x2, 0(x1)\naddi x3, x2, 4\nsw x3, 4(x1)",
			emu.WithRegisterSeed(1, 256),
			emu.WithMemorySeed(256, 42),
		)

		Expect(state.Regs.Read(2)).To(Equal(int64(42)))
		Expect(state.Mem.ReadWord(260)).To(Equal(int64(46)))
	})

	It("should take equal branches", func() {
		state := run("beq x0, x0, skip\naddi x1, x0, 1\nskip:\naddi x2, x0, 2")

		Expect(state.Regs.Read(1)).To(Equal(int64(0)))
		Expect(state.Regs.Read(2)).To(Equal(int64(2)))
	})

	It("should fall through unequal branches", func() {
		state := run("addi x1, x0, 1\nbeq x1, x0, skip\naddi x2, x0, 2\nskip:")

		Expect(state.Regs.Read(2)).To(Equal(int64(2)))
	})

	It("should treat branches to undefined labels as inert", func() {
		state := run("beq x0, x0, nowhere\naddi x1, x0, 1")

		Expect(state.Regs.Read(1)).To(Equal(int64(1)))
	})

	It("should write the return address for JAL", func() {
		state := run("jal x5, target\naddi x1, x0, 1\ntarget:\naddi x2, x0, 2")

		Expect(state.Regs.Read(5)).To(Equal(int64(1)))
		Expect(state.Regs.Read(1)).To(Equal(int64(0)))
		Expect(state.Regs.Read(2)).To(Equal(int64(2)))
	})

	It("should skip unknown instructions as no-ops", func() {
		state := run("conv2d.3x3 v0, v1\naddi x1, x0, 9")

		Expect(state.Regs.Read(1)).To(Equal(int64(9)))
	})

	It("should count executed instructions", func() {
		state := emu.NewState()
		e := emu.NewEmulator(insts.Parse("addi x1, x0, 1\naddi x2, x0, 2"), state)
		e.Run()

		Expect(e.InstructionCount()).To(Equal(uint64(2)))
	})

	It("should stop at the step limit on infinite loops", func() {
		state := emu.NewState()
		e := emu.NewEmulator(insts.Parse("loop:\nbeq x0, x0, loop"), state, emu.WithMaxSteps(50))

		Expect(e.Run()).To(BeFalse())
		Expect(e.InstructionCount()).To(Equal(uint64(50)))
	})

	It("should rewind on Reset", func() {
		state := emu.NewState(emu.WithDemoSeed())
		e := emu.NewEmulator(insts.Parse("addi x2, x1, 1"), state)
		e.Run()
		e.Reset()

		Expect(e.PC()).To(Equal(0))
		Expect(e.InstructionCount()).To(Equal(uint64(0)))
		Expect(state.Regs.Read(2)).To(Equal(int64(0)))
		Expect(state.Regs.Read(1)).To(Equal(emu.DemoBaseAddress))
	})
})
