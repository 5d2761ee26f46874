package energy

import "math"

// Mix is a dynamic instruction-mix histogram: operation mnemonic to
// execution count. Counts are dynamic occurrences, not static code size.
type Mix map[string]uint64

// baselineCycles holds software-equivalent cycle costs for running an
// operation on the baseline core. Operations not listed cost
// defaultBaselineCycles.
var baselineCycles = map[string]float64{
	"conv2d.3x3":  18,
	"matmul.4x4":  128,
	"maxpool.2x2": 8,
	"relu":        2,
	"lw":          4,
	"sw":          4,
	"flw":         4,
	"fsw":         4,
	"beq":         3,
	"jal":         2,
}

const defaultBaselineCycles = 2

// memoryOps are the operations that reference data memory and are
// therefore exposed to L1 miss penalties.
var memoryOps = map[string]bool{
	"lw":  true,
	"sw":  true,
	"flw": true,
	"fsw": true,
}

// conditionalBranchOps are the operations exposed to branch
// misprediction penalties.
var conditionalBranchOps = map[string]bool{
	"beq": true,
}

// Metrics is the projected behavior of one core on one workload.
type Metrics struct {
	// LatencyMs is the projected wall-clock time in milliseconds.
	LatencyMs float64

	// TotalEnergyMJ is dynamic plus static energy in millijoules.
	TotalEnergyMJ float64

	// TotalCycles includes expected cache-miss and mispredict penalties,
	// so it is generally fractional.
	TotalCycles float64

	// DynamicEnergyMJ is the switching energy component in millijoules.
	DynamicEnergyMJ float64

	// StaticEnergyMJ is the leakage energy component in millijoules.
	StaticEnergyMJ float64

	// TotalOps is the total operation count of the mix.
	TotalOps uint64

	// ThroughputOpsPerSec is TotalOps over latency. Zero latency with a
	// nonzero op count yields +Inf.
	ThroughputOpsPerSec float64
}

// Estimate projects latency, energy, and cycle count for running the
// given mix on the given profile. With accelerated set, the per-operation
// cost table of the accelerated core applies; otherwise the baseline
// core's software cycle table and flat per-cycle energy apply.
func Estimate(mix Mix, profile *Profile, accelerated bool) Metrics {
	var (
		totalCycles float64
		dynamicPJ   float64
		totalOps    uint64
		memOps      float64
		condBranch  float64
	)

	for op, count := range mix {
		if count == 0 {
			continue
		}
		n := float64(count)
		totalOps += count

		if accelerated {
			cost, ok := profile.OpCosts[op]
			if !ok {
				cost = profile.DefaultCost
			}
			totalCycles += n * cost.Cycles
			dynamicPJ += n * cost.Cycles * cost.EnergyPerCyclePJ
		} else {
			cycles, ok := baselineCycles[op]
			if !ok {
				cycles = defaultBaselineCycles
			}
			totalCycles += n * cycles
		}

		if memoryOps[op] {
			memOps += n
		}
		if conditionalBranchOps[op] {
			condBranch += n
		}
	}

	expectedMisses := memOps * (1 - profile.L1HitRate)
	totalCycles += expectedMisses * profile.L1MissPenaltyCycles

	expectedMispredicts := condBranch * (1 - profile.BranchPredictorAccuracy)
	totalCycles += expectedMispredicts * profile.BranchMispredictPenaltyCycles

	// The baseline core draws a flat per-cycle energy, including the
	// penalty cycles just added.
	if !accelerated {
		dynamicPJ = totalCycles * profile.BaselineEnergyPerCyclePJ
	}

	clockMHz := profile.ARMClockMHz
	staticPowerMW := profile.BaselineStaticPowerMW
	if accelerated {
		clockMHz = profile.RISCVClockMHz
		staticPowerMW = profile.AccelStaticPowerMW
	}

	// Guarded like every other ratio here: a zero clock must surface as a
	// sentinel, not as NaN, even on profiles nobody validated.
	latencySeconds := safeRatio(totalCycles, clockMHz*1e6)
	staticMJ := 0.0
	if staticPowerMW != 0 {
		// Skipping the multiply when power is zero avoids 0 x Inf.
		staticMJ = staticPowerMW * latencySeconds
	}
	dynamicMJ := dynamicPJ * 1e-9

	return Metrics{
		LatencyMs:           latencySeconds * 1000,
		TotalEnergyMJ:       dynamicMJ + staticMJ,
		TotalCycles:         totalCycles,
		DynamicEnergyMJ:     dynamicMJ,
		StaticEnergyMJ:      staticMJ,
		TotalOps:            totalOps,
		ThroughputOpsPerSec: safeRatio(float64(totalOps), latencySeconds),
	}
}

// Comparison pairs the accelerated and baseline projections for one mix
// with the derived ratio metrics.
type Comparison struct {
	Accelerated Metrics
	Baseline    Metrics

	// Speedup is baseline latency over accelerated latency.
	Speedup float64

	// EnergyEfficiencyGain is baseline energy over accelerated energy.
	EnergyEfficiencyGain float64
}

// Compare runs Estimate for both cores and derives the ratio metrics.
func Compare(mix Mix, profile *Profile) Comparison {
	accel := Estimate(mix, profile, true)
	base := Estimate(mix, profile, false)

	return Comparison{
		Accelerated:          accel,
		Baseline:             base,
		Speedup:              safeRatio(base.LatencyMs, accel.LatencyMs),
		EnergyEfficiencyGain: safeRatio(base.TotalEnergyMJ, accel.TotalEnergyMJ),
	}
}

// safeRatio divides a by b without ever producing NaN. A zero
// denominator yields 0 when the numerator is also zero and +Inf
// otherwise.
func safeRatio(a, b float64) float64 {
	if b == 0 {
		if a == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return a / b
}
