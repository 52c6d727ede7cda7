package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/arloliu/wordwire/compress"
	"github.com/arloliu/wordwire/envelope"
	"github.com/arloliu/wordwire/format"
	"github.com/arloliu/wordwire/message"
	"github.com/arloliu/wordwire/packed"
	"github.com/arloliu/wordwire/section"
	"github.com/arloliu/wordwire/serialize"
)

var errUsage = errors.New("invalid arguments")

func isUsage(err error) bool {
	return errors.Is(err, errUsage)
}

type app struct {
	cfg    *Config
	stdin  io.Reader
	stdout io.Writer
}

func (a *app) readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(a.stdin)
	}

	return os.ReadFile(path)
}

func (a *app) writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := a.stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func (a *app) openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(a.stdin), nil
	}

	return os.Open(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func (a *app) createOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{a.stdout}, nil
	}

	return os.Create(path)
}

func parseArgs(fs *flag.FlagSet, args []string, want int) ([]string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != want {
		return nil, fmt.Errorf("%w: want %d file arguments, got %d", errUsage, want, fs.NArg())
	}

	return fs.Args(), nil
}

func runPack(a *app, args []string) error {
	files, err := parseArgs(flag.NewFlagSet("pack", flag.ContinueOnError), args, 2)
	if err != nil {
		return err
	}

	in, err := a.openInput(files[0])
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := a.createOutput(files[1])
	if err != nil {
		return err
	}
	defer out.Close()

	pw := packed.NewWriter(out)
	n, err := io.Copy(pw, in)
	if err != nil {
		return err
	}
	if err := pw.Close(); err != nil {
		return err
	}

	Logger().Info("packed stream", zap.String("in", files[0]), zap.Int64("bytes", n))

	return out.Close()
}

func runUnpack(a *app, args []string) error {
	files, err := parseArgs(flag.NewFlagSet("unpack", flag.ContinueOnError), args, 2)
	if err != nil {
		return err
	}

	in, err := a.openInput(files[0])
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := a.createOutput(files[1])
	if err != nil {
		return err
	}
	defer out.Close()

	n, err := io.Copy(out, packed.NewReader(in))
	if err != nil {
		return err
	}

	Logger().Info("unpacked stream", zap.String("in", files[0]), zap.Int64("bytes", n))

	return out.Close()
}

func runSeal(a *app, args []string) error {
	fs := flag.NewFlagSet("seal", flag.ContinueOnError)
	compression := fs.String("compression", "", "Payload compression: none, zstd, s2 or lz4")
	isPacked := fs.Bool("packed", true, "Pack the stream before compression")
	files, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}

	opts, err := a.cfg.SealOptions()
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "packed" {
			opts = append(opts, envelope.WithPacking(*isPacked))
		}
	})
	if *compression != "" {
		ct, ok := format.ParseCompressionType(*compression)
		if !ok {
			return fmt.Errorf("%w: unknown compression %q", errUsage, *compression)
		}
		opts = append(opts, envelope.WithCompression(ct))
	}

	data, err := a.readInput(files[0])
	if err != nil {
		return err
	}
	msg, err := serialize.Unmarshal(data, a.cfg.ReaderOptions()...)
	if err != nil {
		return err
	}

	sealed, err := envelope.Seal(msg, opts...)
	if err != nil {
		return err
	}

	header, err := section.ParseEnvelopeHeader(sealed)
	if err != nil {
		return err
	}
	stats := compress.CompressionStats{
		Algorithm:      header.Compression,
		OriginalSize:   int64(len(data)),
		CompressedSize: int64(len(sealed)),
	}
	Logger().Info("sealed message",
		zap.Stringer("compression", stats.Algorithm),
		zap.Bool("packed", header.IsPacked()),
		zap.Int64("framed_bytes", stats.OriginalSize),
		zap.Int64("sealed_bytes", stats.CompressedSize),
		zap.Float64("savings_pct", stats.SpaceSavings()),
	)

	return a.writeOutput(files[1], sealed)
}

func runOpen(a *app, args []string) error {
	files, err := parseArgs(flag.NewFlagSet("open", flag.ContinueOnError), args, 2)
	if err != nil {
		return err
	}

	data, err := a.readInput(files[0])
	if err != nil {
		return err
	}
	msg, err := envelope.Open(data, a.cfg.ReaderOptions()...)
	if err != nil {
		return err
	}
	framed, err := serialize.Marshal(msg)
	if err != nil {
		return err
	}

	Logger().Info("opened envelope", zap.Int("segments", msg.NumSegments()), zap.Int("words", msg.SizeWords()))

	return a.writeOutput(files[1], framed)
}

func runInspect(a *app, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	inFormat := fs.String("in", "framed", "Input format: framed, packed or sealed")
	typeName := fs.String("type", "", "Registered type of the root struct")
	maxElements := fs.Int("max-elements", 16, "Elements printed per list")
	files, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}

	data, err := a.readInput(files[0])
	if err != nil {
		return err
	}

	opts := a.cfg.ReaderOptions()
	var msg *message.Reader
	switch *inFormat {
	case "framed":
		msg, err = serialize.Unmarshal(data, opts...)
	case "packed":
		msg, err = serialize.UnmarshalPacked(data, opts...)
	case "sealed":
		msg, err = envelope.Open(data, opts...)
	default:
		return fmt.Errorf("%w: unknown input format %q", errUsage, *inFormat)
	}
	if err != nil {
		return err
	}

	if *typeName != "" {
		reg, err := a.cfg.Registry()
		if err != nil {
			return err
		}
		typ, err := reg.Lookup(*typeName)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "type: %s %s %s\n", typ.Name, typ.ID, typ.Layout)

		root, err := msg.Root()
		if err != nil {
			return err
		}
		if got := root.Layout(); got != typ.Layout {
			fmt.Fprintf(a.stdout, "note: root is %s, declared %s\n", got, typ.Layout)
		}
	}

	wk := &walker{w: a.stdout, maxElements: max(*maxElements, 0)}

	return wk.message(msg)
}

func runLayouts(a *app, args []string) error {
	if _, err := parseArgs(flag.NewFlagSet("layouts", flag.ContinueOnError), args, 0); err != nil {
		return err
	}

	reg, err := a.cfg.Registry()
	if err != nil {
		return err
	}
	for typ := range reg.All() {
		fmt.Fprintf(a.stdout, "%s %s %s\n", typ.ID, typ.Name, typ.Layout)
	}

	return nil
}
