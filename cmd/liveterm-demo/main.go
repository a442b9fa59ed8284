// Package main runs small interactive demos of liveterm sections.
//
// Usage:
//
//	liveterm-demo counter [flags]   Timer-driven counter with a progress bar
//	liveterm-demo prompt [flags]    Line editor that logs entries above it
//	liveterm-demo tasks [flags]     Background jobs reporting into a live map
//	liveterm-demo help              Show help
//
// Set LIVETERM_DEBUG=/path/to/file to write a debug log.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/grindlemire/liveterm"
)

const version = "0.1.0"

const usage = `liveterm-demo - interactive demos of in-place terminal sections

Usage:
  liveterm-demo <command> [options]

Commands:
  counter     Count up on a timer with a progress bar
  prompt      Edit a line of input; entries scroll above the prompt
  tasks       Run background jobs that report progress
  version     Print version information
  help        Show this help message

Options (all demos):
  --fps int          Maximum repaints per second (default 60)
  --profile string   Color profile: auto, ascii, ansi, ansi256, truecolor (default auto)

Press Ctrl+C to leave any demo.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "counter":
		err = runCounter(args)
	case "prompt":
		err = runPrompt(args)
	case "tasks":
		err = runTasks(args)
	case "version":
		fmt.Printf("liveterm-demo version %s\n", version)
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}

	switch {
	case err == nil:
	case errors.Is(err, liveterm.ErrInterrupted):
		os.Exit(130)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
