// Package main provides the entry point for rvnpusim.
// rvnpusim simulates the RISC-V NN-accelerator demo core: a 5-stage
// pipeline with hazard detection and forwarding, plus an analytical
// latency/energy model.
//
// For the full CLI, use: go run ./cmd/rvnpusim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rvnpusim - RISC-V NN Accelerator Simulator")
	fmt.Println("")
	fmt.Println("Usage: rvnpusim <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  run       Simulate an assembly program on the 5-stage pipeline")
	fmt.Println("  estimate  Project latency and energy for a workload mix")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rvnpusim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rvnpusim' instead.")
	}
}
