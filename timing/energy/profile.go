package energy

import (
	"encoding/json"
	"fmt"
	"os"
)

// OpCost describes how one operation behaves on the accelerated core.
type OpCost struct {
	// Cycles is the per-operation cycle count on the accelerated core.
	Cycles float64 `json:"cycles"`

	// EnergyPerCyclePJ is the dynamic energy drawn per cycle, in picojoules.
	EnergyPerCyclePJ float64 `json:"energy_per_cycle_pj"`
}

// Profile is one DVFS operating point of the board: clock frequencies,
// per-operation cost tables, static power draw, and the cache and branch
// predictor statistics the model folds into cycle counts.
type Profile struct {
	// Name identifies the operating point, e.g. "balanced".
	Name string `json:"name"`

	// RISCVClockMHz is the accelerated core clock in MHz.
	RISCVClockMHz float64 `json:"riscv_clock_mhz"`

	// ARMClockMHz is the software baseline core clock in MHz.
	ARMClockMHz float64 `json:"arm_clock_mhz"`

	// OpCosts maps operation mnemonics to accelerated-core costs.
	// Operations absent from the map fall back to DefaultCost.
	OpCosts map[string]OpCost `json:"op_costs"`

	// DefaultCost applies to any operation not listed in OpCosts.
	DefaultCost OpCost `json:"default_cost"`

	// BaselineEnergyPerCyclePJ is the flat per-cycle dynamic energy of the
	// baseline core, in picojoules. The baseline has no per-operation table.
	BaselineEnergyPerCyclePJ float64 `json:"baseline_energy_per_cycle_pj"`

	// AccelStaticPowerMW is the accelerated core's static power in milliwatts.
	AccelStaticPowerMW float64 `json:"accel_static_power_mw"`

	// BaselineStaticPowerMW is the baseline core's static power in milliwatts.
	BaselineStaticPowerMW float64 `json:"baseline_static_power_mw"`

	// L1HitRate is the expected L1 data cache hit rate, in [0, 1].
	L1HitRate float64 `json:"l1_hit_rate"`

	// L1MissPenaltyCycles is the cycle penalty per expected L1 miss.
	L1MissPenaltyCycles float64 `json:"l1_miss_penalty_cycles"`

	// BranchPredictorAccuracy is the predictor hit rate, in [0, 1].
	BranchPredictorAccuracy float64 `json:"branch_predictor_accuracy"`

	// BranchMispredictPenaltyCycles is the cycle penalty per misprediction.
	BranchMispredictPenaltyCycles float64 `json:"branch_mispredict_penalty_cycles"`
}

// PerformanceProfile returns the highest-clock operating point.
func PerformanceProfile() *Profile {
	return &Profile{
		Name:          "performance",
		RISCVClockMHz: 400,
		ARMClockMHz:   1500,
		OpCosts: map[string]OpCost{
			"conv2d.3x3":  {Cycles: 1, EnergyPerCyclePJ: 48},
			"matmul.4x4":  {Cycles: 4, EnergyPerCyclePJ: 64},
			"maxpool.2x2": {Cycles: 1, EnergyPerCyclePJ: 22},
			"relu":        {Cycles: 1, EnergyPerCyclePJ: 12},
			"lw":          {Cycles: 2, EnergyPerCyclePJ: 18},
			"sw":          {Cycles: 2, EnergyPerCyclePJ: 18},
			"flw":         {Cycles: 2, EnergyPerCyclePJ: 20},
			"fsw":         {Cycles: 2, EnergyPerCyclePJ: 20},
			"beq":         {Cycles: 1, EnergyPerCyclePJ: 10},
		},
		DefaultCost:                   OpCost{Cycles: 1, EnergyPerCyclePJ: 15},
		BaselineEnergyPerCyclePJ:      95,
		AccelStaticPowerMW:            180,
		BaselineStaticPowerMW:         420,
		L1HitRate:                     0.95,
		L1MissPenaltyCycles:           40,
		BranchPredictorAccuracy:       0.92,
		BranchMispredictPenaltyCycles: 3,
	}
}

// BalancedProfile returns the default mid-range operating point.
func BalancedProfile() *Profile {
	return &Profile{
		Name:          "balanced",
		RISCVClockMHz: 250,
		ARMClockMHz:   1000,
		OpCosts: map[string]OpCost{
			"conv2d.3x3":  {Cycles: 1, EnergyPerCyclePJ: 32},
			"matmul.4x4":  {Cycles: 4, EnergyPerCyclePJ: 44},
			"maxpool.2x2": {Cycles: 1, EnergyPerCyclePJ: 15},
			"relu":        {Cycles: 1, EnergyPerCyclePJ: 8},
			"lw":          {Cycles: 2, EnergyPerCyclePJ: 12},
			"sw":          {Cycles: 2, EnergyPerCyclePJ: 12},
			"flw":         {Cycles: 2, EnergyPerCyclePJ: 14},
			"fsw":         {Cycles: 2, EnergyPerCyclePJ: 14},
			"beq":         {Cycles: 1, EnergyPerCyclePJ: 7},
		},
		DefaultCost:                   OpCost{Cycles: 1, EnergyPerCyclePJ: 10},
		BaselineEnergyPerCyclePJ:      70,
		AccelStaticPowerMW:            95,
		BaselineStaticPowerMW:         310,
		L1HitRate:                     0.93,
		L1MissPenaltyCycles:           40,
		BranchPredictorAccuracy:       0.90,
		BranchMispredictPenaltyCycles: 3,
	}
}

// LowPowerProfile returns the lowest-clock operating point.
func LowPowerProfile() *Profile {
	return &Profile{
		Name:          "lowpower",
		RISCVClockMHz: 100,
		ARMClockMHz:   600,
		OpCosts: map[string]OpCost{
			"conv2d.3x3":  {Cycles: 2, EnergyPerCyclePJ: 18},
			"matmul.4x4":  {Cycles: 6, EnergyPerCyclePJ: 26},
			"maxpool.2x2": {Cycles: 2, EnergyPerCyclePJ: 9},
			"relu":        {Cycles: 1, EnergyPerCyclePJ: 5},
			"lw":          {Cycles: 3, EnergyPerCyclePJ: 8},
			"sw":          {Cycles: 3, EnergyPerCyclePJ: 8},
			"flw":         {Cycles: 3, EnergyPerCyclePJ: 9},
			"fsw":         {Cycles: 3, EnergyPerCyclePJ: 9},
			"beq":         {Cycles: 1, EnergyPerCyclePJ: 4},
		},
		DefaultCost:                   OpCost{Cycles: 2, EnergyPerCyclePJ: 6},
		BaselineEnergyPerCyclePJ:      45,
		AccelStaticPowerMW:            35,
		BaselineStaticPowerMW:         190,
		L1HitRate:                     0.90,
		L1MissPenaltyCycles:           40,
		BranchPredictorAccuracy:       0.88,
		BranchMispredictPenaltyCycles: 3,
	}
}

// PresetProfile returns the named built-in profile.
func PresetProfile(name string) (*Profile, error) {
	switch name {
	case "performance":
		return PerformanceProfile(), nil
	case "balanced":
		return BalancedProfile(), nil
	case "lowpower":
		return LowPowerProfile(), nil
	}
	return nil, fmt.Errorf("unknown profile preset %q", name)
}

// LoadProfile loads a Profile from a JSON file. Fields absent from the
// file keep the balanced-profile defaults.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	profile := BalancedProfile()
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	return profile, nil
}

// SaveProfile writes a Profile to a JSON file.
func (p *Profile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}

	return nil
}

// Validate checks that the profile describes a usable operating point.
func (p *Profile) Validate() error {
	if p.RISCVClockMHz <= 0 {
		return fmt.Errorf("riscv_clock_mhz must be > 0")
	}
	if p.ARMClockMHz <= 0 {
		return fmt.Errorf("arm_clock_mhz must be > 0")
	}
	if p.DefaultCost.Cycles <= 0 {
		return fmt.Errorf("default_cost.cycles must be > 0")
	}
	if p.L1HitRate < 0 || p.L1HitRate > 1 {
		return fmt.Errorf("l1_hit_rate must be in [0, 1]")
	}
	if p.BranchPredictorAccuracy < 0 || p.BranchPredictorAccuracy > 1 {
		return fmt.Errorf("branch_predictor_accuracy must be in [0, 1]")
	}
	if p.L1MissPenaltyCycles < 0 {
		return fmt.Errorf("l1_miss_penalty_cycles must be >= 0")
	}
	if p.BranchMispredictPenaltyCycles < 0 {
		return fmt.Errorf("branch_mispredict_penalty_cycles must be >= 0")
	}
	for name, cost := range p.OpCosts {
		if cost.Cycles <= 0 {
			return fmt.Errorf("op_costs[%q].cycles must be > 0", name)
		}
	}
	return nil
}

// Clone returns a deep copy of the Profile.
func (p *Profile) Clone() *Profile {
	clone := *p
	clone.OpCosts = make(map[string]OpCost, len(p.OpCosts))
	for name, cost := range p.OpCosts {
		clone.OpCosts[name] = cost
	}
	return &clone
}
