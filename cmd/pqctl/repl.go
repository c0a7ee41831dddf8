package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/calvinalkan/pqueue"
)

// repl is the interactive command loop: a liner.State for history and tab
// completion, dispatching on the first whitespace-separated word of each
// line.
type repl struct {
	q      *pqueue.Queue
	path   string
	stdout io.Writer
	stderr io.Writer
	liner  *liner.State
}

func runREPL(q *pqueue.Queue, path string, stdout, stderr io.Writer) error {
	r := &repl{q: q, path: path, stdout: stdout, stderr: stderr}

	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(r.historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(r.stdout, "pqctl - pqueue REPL (%s)\n", path)
	fmt.Fprintln(r.stdout, "Type 'help' for available commands.")

	for {
		line, err := r.liner.Prompt("pqctl> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Fprintln(r.stdout, "\nBye!")
				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		fields := strings.Fields(line)
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		if cmd == "exit" || cmd == "quit" || cmd == "q" {
			fmt.Fprintln(r.stdout, "Bye!")
			break
		}

		r.dispatch(cmd, args)
	}

	r.saveHistory()

	return nil
}

func (r *repl) dispatch(cmd string, args []string) {
	switch cmd {
	case "help", "?":
		r.printHelp()
	case "put":
		r.cmdPut(args)
	case "get":
		r.cmdGet(args)
	case "peek":
		r.cmdPeek(args)
	case "len", "count":
		r.cmdLen()
	case "flush":
		r.cmdFlush()
	case "stats":
		r.cmdStats()
	default:
		fmt.Fprintf(r.stdout, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
}

func (r *repl) historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".pqctl_history")
}

func (r *repl) saveHistory() {
	path := r.historyFile()
	if path == "" {
		return
	}

	if f, err := os.Create(path); err == nil {
		r.liner.WriteHistory(f)
		f.Close()
	}
}

func (r *repl) completer(line string) []string {
	commands := []string{"put", "get", "peek", "len", "count", "flush", "stats", "help", "exit", "quit", "q"}

	var completions []string

	lower := strings.ToLower(line)

	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.stdout, "Commands:")
	fmt.Fprintln(r.stdout, "  put <value>    Append value")
	fmt.Fprintln(r.stdout, "  get            Pop and print the oldest value")
	fmt.Fprintln(r.stdout, "  peek           Print the oldest value without popping")
	fmt.Fprintln(r.stdout, "  len            Print queue length")
	fmt.Fprintln(r.stdout, "  flush          Force compaction")
	fmt.Fprintln(r.stdout, "  stats          Show queue statistics")
	fmt.Fprintln(r.stdout, "  help           Show this help")
	fmt.Fprintln(r.stdout, "  exit / quit / q")
}

func (r *repl) cmdPut(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.stdout, "Usage: put <value>")
		return
	}

	value := strings.Join(args, " ")

	if err := r.q.PutNowait([]byte(value)); err != nil {
		fmt.Fprintf(r.stdout, "Error: %v\n", err)
		return
	}

	fmt.Fprintln(r.stdout, "OK")
}

func (r *repl) cmdGet(_ []string) {
	value, err := r.q.GetNowait()
	if err != nil {
		fmt.Fprintf(r.stdout, "Error: %v\n", err)
		return
	}

	fmt.Fprintln(r.stdout, string(value.([]byte)))
}

func (r *repl) cmdPeek(_ []string) {
	value, err := r.q.PeekNowait()
	if err != nil {
		fmt.Fprintf(r.stdout, "Error: %v\n", err)
		return
	}

	fmt.Fprintln(r.stdout, string(value.([]byte)))
}

func (r *repl) cmdLen() {
	fmt.Fprintln(r.stdout, r.q.Len())
}

func (r *repl) cmdFlush() {
	if err := r.q.Flush(); err != nil {
		fmt.Fprintf(r.stdout, "Error: %v\n", err)
		return
	}

	fmt.Fprintln(r.stdout, "OK")
}

func (r *repl) cmdStats() {
	stats := r.q.Stats()
	fmt.Fprintf(r.stdout, "Qsize:       %d\n", stats.Qsize)
	fmt.Fprintf(r.stdout, "File size:   %d bytes\n", stats.FileSize)
	fmt.Fprintf(r.stdout, "Dead bytes:  %d\n", stats.DeadBytes)
	fmt.Fprintf(r.stdout, "Flush count: %d\n", stats.FlushCount)
	fmt.Fprintf(r.stdout, "Last flush:  %s\n", stats.LastFlush)
}
