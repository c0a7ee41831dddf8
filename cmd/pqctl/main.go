// pqctl is a small operational front-end over pqueue: put/get/peek/len/flush
// against a queue file from the shell, or an interactive REPL for exploring
// one.
//
// Usage:
//
//	pqctl put   <file> <value>   Append value (read as a line of text)
//	pqctl get   <file>           Pop and print the oldest value
//	pqctl peek  <file>           Print the oldest value without popping
//	pqctl len   <file>           Print queue length
//	pqctl flush <file>           Force compaction
//	pqctl repl  <file>           Interactive REPL
//
// Flags (put/get/peek/flush):
//
//	--max-size int          Bounded capacity (0 = unbounded)
//	--flush-threshold int   Head offset (header + dead bytes) at which Flush compacts
//	--block                 Block instead of failing immediately (get/put/peek)
//	--timeout duration      Give up blocking after this long (0 = forever)
//
// A `.pqctl.json` file (JSONC, comments allowed) beside the queue file
// supplies defaults for --max-size/--flush-threshold; CLI flags win over it.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	if len(args) < 2 { //nolint:mnd // subcommand + path is the minimum shape
		printUsage(stderr)
		return 1
	}

	sub, path, rest := args[0], args[1], args[2:]

	cfg, err := loadFileConfig(path)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	cmd, ok := commands[sub]
	if !ok {
		fmt.Fprintln(stderr, "error: unknown command:", sub)
		printUsage(stderr)

		return 1
	}

	if err := cmd(context.Background(), stdout, stderr, path, cfg, rest); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	return 0
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, "Usage: pqctl <put|get|peek|len|flush|repl> <file> [args] [flags]")
}
