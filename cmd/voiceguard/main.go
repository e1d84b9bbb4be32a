// Package main provides the voiceguard CLI tool.
//
// Usage:
//
//	voiceguard [flags] <command> [args]
//
// Commands:
//
//	attack   - Run and inspect spoofing-robustness evaluations
//	dataset  - Inspect evaluation corpora
//	channel  - Degrade audio through channel simulators
//	config   - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.voiceguard/
//	Use 'voiceguard config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/voiceguard/cmd/voiceguard/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
