// Package main provides the sonido-eeg CLI.
//
// Usage:
//
//	sonido-eeg [flags] <command> [args]
//
// Commands:
//
//	synthesize  - Generate a preset or custom synthetic EEG recording
//	analyze     - Filter, clean and classify a recording (or a synthesized preset)
//	batch       - Analyze many recordings concurrently
package main

import (
	"fmt"
	"os"

	"github.com/RyanBlaney/sonido-eeg/cmd/sonido-eeg/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
