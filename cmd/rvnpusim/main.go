// Package main provides the full rvnpusim command line.
//
// rvnpusim drives the two analyses of the accelerator demo: cycle-by-cycle
// pipeline simulation of an assembly program, and analytical latency/energy
// estimation of a workload mix against a DVFS profile.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/emu"
	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/insts"
	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/timing/cache"
	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/timing/energy"
	"github.com/AryaP-1243/AI-Accelerated-RISC-V-Processor-Externsion/timing/pipeline"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: rvnpusim <command> [options]\n")
	fmt.Fprintf(os.Stderr, "\nCommands:\n")
	fmt.Fprintf(os.Stderr, "  run       Simulate an assembly program on the 5-stage pipeline\n")
	fmt.Fprintf(os.Stderr, "  estimate  Project latency and energy for a workload mix\n")
	fmt.Fprintf(os.Stderr, "\nRun 'rvnpusim <command> -h' for command options.\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		atexit.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		atexit.Exit(runCmd(os.Args[2:]))
	case "estimate":
		atexit.Exit(estimateCmd(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", os.Args[1])
		usage()
		atexit.Exit(1)
	}
}

// runCmd simulates one assembly program and prints the final state.
func runCmd(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	trace := fs.Bool("trace", false, "Print stage contents every cycle")
	funcMode := fs.Bool("func", false, "Use the functional emulator instead of the pipeline")
	useCache := fs.Bool("cache", false, "Attach an L1 D-cache model and report its hit rate")
	maxCycles := fs.Uint64("max-cycles", 10000, "Cycle limit before giving up")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rvnpusim run [options] <program.s>\n")
		return 1
	}

	source, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading program: %v\n", err)
		return 1
	}

	program := insts.Parse(string(source))
	state := emu.NewState(emu.WithDemoSeed())

	if *funcMode {
		return runFunctional(program, state, *maxCycles)
	}
	return runPipeline(program, state, *trace, *useCache, *maxCycles)
}

func runFunctional(program *insts.Program, state *emu.State, maxSteps uint64) int {
	emulator := emu.NewEmulator(program, state, emu.WithMaxSteps(maxSteps))

	if !emulator.Run() {
		fmt.Fprintf(os.Stderr, "Step limit reached after %d instructions\n",
			emulator.InstructionCount())
		return 1
	}

	fmt.Printf("Instructions executed: %d\n", emulator.InstructionCount())
	printState(state)
	return 0
}

func runPipeline(
	program *insts.Program,
	state *emu.State,
	trace, useCache bool,
	maxCycles uint64,
) int {
	var opts []pipeline.Option
	var dcache *cache.Cache
	if useCache {
		dcache = cache.New(cache.DefaultL1Config())
		opts = append(opts, pipeline.WithDCache(dcache))
	}

	p := pipeline.NewPipeline(program, state, opts...)

	for cycle := uint64(1); !p.Finished(); cycle++ {
		if cycle > maxCycles {
			fmt.Fprintf(os.Stderr, "Cycle limit reached at cycle %d\n", maxCycles)
			return 1
		}
		p.StepClock()
		if trace {
			printCycle(p)
		}
	}

	stats := p.Stats()
	fmt.Printf("Cycles: %d\n", stats.Cycles)
	fmt.Printf("Instructions retired: %d\n", stats.Instructions)
	fmt.Printf("CPI: %.3f\n", stats.CPI())
	fmt.Printf("Stalls: %d  Flushes: %d\n", stats.Stalls, stats.Flushes)
	fmt.Printf("Forwards: %d from EX, %d from MEM\n",
		stats.ForwardsFromEX, stats.ForwardsFromMEM)
	fmt.Printf("Branches: %d taken of %d\n", stats.BranchesTaken, stats.Branches)

	if dcache != nil {
		cs := dcache.Stats()
		fmt.Printf("D-cache: %d reads, %d writes, hit rate %.2f\n",
			cs.Reads, cs.Writes, dcache.HitRate())
	}

	printState(state)
	return 0
}

// printCycle renders one cycle of the trace: stage occupancy and the
// hazard classification for the cycle.
func printCycle(p *pipeline.Pipeline) {
	fmt.Printf("cycle %4d |", p.Stats().Cycles)
	for _, snap := range p.Snapshot() {
		fmt.Printf(" %s: %-18s |", snap.Stage, describeSlot(snap))
	}
	fmt.Printf(" %s\n", p.Hazard())
}

func describeSlot(snap pipeline.StageSnapshot) string {
	switch {
	case snap.Inst != nil:
		return snap.Inst.String()
	case snap.Stall:
		return "(bubble)"
	case snap.Flush:
		return "(flushed)"
	default:
		return "-"
	}
}

func printState(state *emu.State) {
	fmt.Println("Registers:")
	for i, v := range state.Regs.Snapshot() {
		if v != 0 {
			fmt.Printf("  x%-2d = %d\n", i, v)
		}
	}

	mem := state.Mem.Snapshot()
	if len(mem) > 0 {
		fmt.Println("Memory:")
		for addr, v := range mem {
			fmt.Printf("  [%d] = %d\n", addr, v)
		}
	}
}

// defaultMix approximates one inference pass of the demo CNN workload.
func defaultMix() energy.Mix {
	return energy.Mix{
		"conv2d.3x3":  1000000,
		"matmul.4x4":  50000,
		"maxpool.2x2": 60000,
		"relu":        250000,
		"lw":          400000,
		"sw":          150000,
		"beq":         80000,
	}
}

// estimateCmd projects latency and energy for a workload mix.
func estimateCmd(args []string) int {
	fs := flag.NewFlagSet("estimate", flag.ExitOnError)
	preset := fs.String("preset", "balanced",
		"Built-in DVFS profile: performance, balanced, or lowpower")
	profilePath := fs.String("profile", "", "Path to a profile JSON file")
	mixPath := fs.String("mix", "", "Path to an instruction-mix JSON file")
	fs.Parse(args)

	var profile *energy.Profile
	var err error
	if *profilePath != "" {
		profile, err = energy.LoadProfile(*profilePath)
	} else {
		profile, err = energy.PresetProfile(*preset)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profile: %v\n", err)
		return 1
	}
	if err := profile.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid profile: %v\n", err)
		return 1
	}

	mix := defaultMix()
	if *mixPath != "" {
		data, err := os.ReadFile(*mixPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading mix: %v\n", err)
			return 1
		}
		mix = energy.Mix{}
		if err := json.Unmarshal(data, &mix); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing mix: %v\n", err)
			return 1
		}
	}

	c := energy.Compare(mix, profile)

	fmt.Printf("Profile: %s (%.0f MHz accel, %.0f MHz baseline)\n",
		profile.Name, profile.RISCVClockMHz, profile.ARMClockMHz)
	fmt.Println()
	printMetrics("Accelerated", c.Accelerated)
	printMetrics("Baseline", c.Baseline)
	fmt.Printf("Speedup:            %.2fx\n", c.Speedup)
	fmt.Printf("Energy efficiency:  %.2fx\n", c.EnergyEfficiencyGain)
	return 0
}

func printMetrics(label string, m energy.Metrics) {
	fmt.Printf("%s:\n", label)
	fmt.Printf("  Cycles:     %.0f\n", m.TotalCycles)
	fmt.Printf("  Latency:    %.3f ms\n", m.LatencyMs)
	fmt.Printf("  Energy:     %.3f mJ (%.3f dynamic + %.3f static)\n",
		m.TotalEnergyMJ, m.DynamicEnergyMJ, m.StaticEnergyMJ)
	fmt.Printf("  Throughput: %.0f ops/s\n", m.ThroughputOpsPerSec)
	fmt.Println()
}
