// wwtool inspects and converts wordwire messages: packing, unpacking, sealing
// and opening envelopes, and printing the object tree of a message.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"go.uber.org/zap"
)

type command struct {
	usage   string
	summary string
	run     func(a *app, args []string) error
}

var commands = map[string]command{
	"inspect": {"inspect [-in framed|packed|sealed] [-type name] [-max-elements n] <file>", "print the object tree of a message", runInspect},
	"pack":    {"pack <in> <out>", "pack a framed message stream", runPack},
	"unpack":  {"unpack <in> <out>", "unpack a packed stream", runUnpack},
	"seal":    {"seal [-compression none|zstd|s2|lz4] [-packed=true] <in> <out>", "seal a framed message into an envelope", runSeal},
	"open":    {"open <in> <out>", "verify an envelope and write the framed message", runOpen},
	"sample":  {"sample [-entries n] <out>", "write a sample address book message", runSample},
	"layouts": {"layouts", "list the layouts declared in the config file", runLayouts},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wwtool", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "TOML configuration file")
	verbose := fs.Bool("v", false, "Verbose logging to stderr")
	traversal := fs.Uint64("traversal-limit", 0, "Traversal limit in words (overrides config)")
	nesting := fs.Int("nesting-limit", 0, "Nesting limit (overrides config)")
	maxSegments := fs.Int("max-segments", 0, "Segment count limit (overrides config)")
	maxWords := fs.Uint64("max-message-words", 0, "Message size ceiling in words, defaults to the traversal limit (overrides config)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: wwtool [options] <command> [arguments]\n\n")
		fmt.Fprintf(stderr, "Use - as a file name for stdin or stdout.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nCommands:\n")
		names := make([]string, 0, len(commands))
		for name := range commands {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			fmt.Fprintf(stderr, "  %-8s %s\n", name, commands[name].summary)
		}
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *verbose {
		l := newVerboseLogger(stderr)
		prev := SetLogger(l)
		defer func() {
			_ = l.Sync()
			SetLogger(prev)
		}()
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "wwtool: %v\n", err)
		return 1
	}
	if *traversal > 0 {
		cfg.Reader.TraversalLimitWords = *traversal
	}
	if *nesting > 0 {
		cfg.Reader.NestingLimit = *nesting
	}
	if *maxSegments > 0 {
		cfg.Reader.MaxSegments = *maxSegments
	}
	if *maxWords > 0 {
		cfg.Reader.MaxMessageWords = *maxWords
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "wwtool: unknown command %q\n", name)
		fs.Usage()
		return 2
	}

	a := &app{cfg: cfg, stdin: stdin, stdout: stdout}
	if err := cmd.run(a, fs.Args()[1:]); err != nil {
		Logger().Error("command failed", zap.String("command", name), zap.Error(err))
		fmt.Fprintf(stderr, "wwtool %s: %v\n", name, err)
		if isUsage(err) {
			fmt.Fprintf(stderr, "usage: wwtool %s\n", cmd.usage)
			return 2
		}
		return 1
	}

	return 0
}
