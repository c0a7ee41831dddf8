package main

import (
	"context"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pqueue"
)

// commandFunc runs one pqctl subcommand against the queue file at path.
type commandFunc func(ctx context.Context, stdout, stderr io.Writer, path string, cfg fileConfig, args []string) error

var commands = map[string]commandFunc{
	"put":   cmdPut,
	"get":   cmdGet,
	"peek":  cmdPeek,
	"len":   cmdLen,
	"flush": cmdFlush,
	"repl":  cmdRepl,
}

// sharedFlags are the flags every put/get/peek/flush subcommand accepts.
type sharedFlags struct {
	maxSize        int
	flushThreshold int64
	block          bool
	timeout        time.Duration
}

func parseSharedFlags(name string, cfg fileConfig, args []string) (*sharedFlags, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	f := &sharedFlags{}

	fs.IntVar(&f.maxSize, "max-size", cfg.MaxSize, "bounded capacity (0 = unbounded)")
	fs.Int64Var(&f.flushThreshold, "flush-threshold", cfg.FlushThreshold, "head offset (header + dead bytes) at which Flush compacts")
	fs.BoolVar(&f.block, "block", false, "block instead of failing immediately")
	fs.DurationVar(&f.timeout, "timeout", 0, "give up blocking after this long (0 = forever)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

func (f *sharedFlags) options() pqueue.Options {
	return pqueue.Options{
		MaxSize:        f.maxSize,
		FlushThreshold: f.flushThreshold,
	}
}

func (f *sharedFlags) context(parent context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return parent, func() {}
	}

	return context.WithTimeout(parent, f.timeout)
}

func cmdPut(ctx context.Context, stdout, stderr io.Writer, path string, cfg fileConfig, args []string) error {
	f, rest, err := parseSharedFlags("put", cfg, args)
	if err != nil {
		return err
	}

	if len(rest) < 1 {
		return fmt.Errorf("usage: pqctl put <file> <value>")
	}

	q, err := pqueue.Open(path, pqueue.BytesCodec{}, f.options())
	if err != nil {
		return err
	}
	defer q.Close()

	waitCtx, cancel := f.context(ctx)
	defer cancel()

	if f.block {
		err = q.Put(waitCtx, []byte(rest[0]))
	} else {
		err = q.PutNowait([]byte(rest[0]))
	}

	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "ok")

	return nil
}

func cmdGet(ctx context.Context, stdout, _ io.Writer, path string, cfg fileConfig, args []string) error {
	f, _, err := parseSharedFlags("get", cfg, args)
	if err != nil {
		return err
	}

	q, err := pqueue.Open(path, pqueue.BytesCodec{}, f.options())
	if err != nil {
		return err
	}
	defer q.Close()

	waitCtx, cancel := f.context(ctx)
	defer cancel()

	var value any
	if f.block {
		value, err = q.Get(waitCtx)
	} else {
		value, err = q.GetNowait()
	}

	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, string(value.([]byte)))

	return nil
}

func cmdPeek(ctx context.Context, stdout, _ io.Writer, path string, cfg fileConfig, args []string) error {
	f, _, err := parseSharedFlags("peek", cfg, args)
	if err != nil {
		return err
	}

	q, err := pqueue.Open(path, pqueue.BytesCodec{}, f.options())
	if err != nil {
		return err
	}
	defer q.Close()

	waitCtx, cancel := f.context(ctx)
	defer cancel()

	var value any
	if f.block {
		value, err = q.Peek(waitCtx)
	} else {
		value, err = q.PeekNowait()
	}

	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, string(value.([]byte)))

	return nil
}

func cmdLen(_ context.Context, stdout, _ io.Writer, path string, cfg fileConfig, args []string) error {
	f, _, err := parseSharedFlags("len", cfg, args)
	if err != nil {
		return err
	}

	q, err := pqueue.Open(path, pqueue.BytesCodec{}, f.options())
	if err != nil {
		return err
	}
	defer q.Close()

	fmt.Fprintln(stdout, q.Len())

	return nil
}

func cmdFlush(_ context.Context, stdout, _ io.Writer, path string, cfg fileConfig, args []string) error {
	f, _, err := parseSharedFlags("flush", cfg, args)
	if err != nil {
		return err
	}

	q, err := pqueue.Open(path, pqueue.BytesCodec{}, f.options())
	if err != nil {
		return err
	}
	defer q.Close()

	if err := q.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "ok")

	return nil
}

func cmdRepl(_ context.Context, stdout, stderr io.Writer, path string, cfg fileConfig, _ []string) error {
	q, err := pqueue.Open(path, pqueue.BytesCodec{}, pqueue.Options{
		MaxSize:        cfg.MaxSize,
		FlushThreshold: cfg.FlushThreshold,
	})
	if err != nil {
		return err
	}
	defer q.Close()

	return runREPL(q, path, stdout, stderr)
}
