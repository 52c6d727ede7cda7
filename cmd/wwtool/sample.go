package main

import (
	"flag"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/arloliu/wordwire/message"
	"github.com/arloliu/wordwire/serialize"
)

var (
	sampleBookLayout   = message.StructLayout{DataWords: 1, PointerCount: 2}
	samplePersonLayout = message.StructLayout{DataWords: 1, PointerCount: 2}
)

func runSample(a *app, args []string) error {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	entries := fs.Int("entries", 3, "Number of people in the address book")
	files, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}
	if *entries < 0 {
		return fmt.Errorf("%w: negative entry count", errUsage)
	}

	opts, err := a.cfg.BuilderOptions()
	if err != nil {
		return err
	}
	msg, err := buildSample(*entries, opts...)
	if err != nil {
		return err
	}

	data, err := serialize.Marshal(msg)
	if err != nil {
		return err
	}

	Logger().Info("built sample", zap.Int("entries", *entries), zap.Int("segments", msg.NumSegments()))

	return a.writeOutput(files[0], data)
}

// buildSample writes an address book: a title, a count and a list of people, each
// with an id, a name and a list of phone numbers.
func buildSample(n int, opts ...message.BuilderOption) (*message.Builder, error) {
	b, err := message.NewBuilder(opts...)
	if err != nil {
		return nil, err
	}

	book, err := b.InitRoot(sampleBookLayout)
	if err != nil {
		return nil, err
	}
	book.SetUint32(0, uint32(n))
	if err := book.SetText(0, "sample address book"); err != nil {
		return nil, err
	}

	people, err := book.NewCompositeList(1, samplePersonLayout, n)
	if err != nil {
		return nil, err
	}
	for i := range n {
		person := people.Struct(i)
		person.SetUint32(0, uint32(1000+i))
		person.SetBool(32, i%2 == 0)
		if err := person.SetText(0, "person-"+strconv.Itoa(i)); err != nil {
			return nil, err
		}

		phones, err := message.NewPrimitiveList[uint64](person, 1, i%3+1)
		if err != nil {
			return nil, err
		}
		for j := range phones.Len() {
			phones.Set(j, 5550000+uint64(i*10+j))
		}
	}

	return b, nil
}
