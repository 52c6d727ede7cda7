package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/wordwire/errs"
	"github.com/arloliu/wordwire/packed"
	"github.com/arloliu/wordwire/section"
	"github.com/arloliu/wordwire/serialize"
)

func runTool(t *testing.T, stdin []byte, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, bytes.NewReader(stdin), &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func writeSample(t *testing.T, dir string, entries int) string {
	t.Helper()

	path := filepath.Join(dir, "book.bin")
	code, _, stderr := runTool(t, nil, "sample", "-entries", strconv.Itoa(entries), path)
	require.Equal(t, 0, code, stderr)

	return path
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runTool(t, nil)
	require.Equal(t, 2, code)
	require.Contains(t, stderr, "Usage: wwtool")
	require.Contains(t, stderr, "inspect")

	code, _, stderr = runTool(t, nil, "frobnicate")
	require.Equal(t, 2, code)
	require.Contains(t, stderr, `unknown command "frobnicate"`)

	code, _, stderr = runTool(t, nil, "pack", "only-one")
	require.Equal(t, 2, code)
	require.Contains(t, stderr, "usage: wwtool pack")
}

func TestRun_SampleAndInspect(t *testing.T) {
	path := writeSample(t, t.TempDir(), 3)

	code, stdout, stderr := runTool(t, nil, "inspect", path)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "segments: 1")
	require.Contains(t, stdout, `text "sample address book"`)
	require.Contains(t, stdout, "list<Composite {data=1 ptrs=2}> len 3")
	require.Contains(t, stdout, `text "person-2"`)
	require.Contains(t, stdout, "values [5550020 5550021 5550022]")
}

func TestRun_PackUnpack(t *testing.T) {
	dir := t.TempDir()
	path := writeSample(t, dir, 10)
	packedPath := filepath.Join(dir, "book.packed")
	unpackedPath := filepath.Join(dir, "book.unpacked")

	code, _, stderr := runTool(t, nil, "pack", path, packedPath)
	require.Equal(t, 0, code, stderr)
	code, _, stderr = runTool(t, nil, "unpack", packedPath, unpackedPath)
	require.Equal(t, 0, code, stderr)

	original, err := os.ReadFile(path)
	require.NoError(t, err)
	packedData, err := os.ReadFile(packedPath)
	require.NoError(t, err)
	roundTrip, err := os.ReadFile(unpackedPath)
	require.NoError(t, err)

	require.Equal(t, original, roundTrip)
	want, err := packed.Pack(nil, original)
	require.NoError(t, err)
	require.Equal(t, want, packedData)

	code, stdout, stderr := runTool(t, nil, "inspect", "-in", "packed", packedPath)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, `text "person-9"`)
}

func TestRun_Stdio(t *testing.T) {
	path := writeSample(t, t.TempDir(), 2)
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	code, packedOut, stderr := runTool(t, original, "pack", "-", "-")
	require.Equal(t, 0, code, stderr)

	code, unpackedOut, stderr := runTool(t, []byte(packedOut), "unpack", "-", "-")
	require.Equal(t, 0, code, stderr)
	require.Equal(t, original, []byte(unpackedOut))
}

func TestRun_SealOpen(t *testing.T) {
	dir := t.TempDir()
	path := writeSample(t, dir, 50)
	sealedPath := filepath.Join(dir, "book.sealed")
	openedPath := filepath.Join(dir, "book.opened")

	code, _, stderr := runTool(t, nil, "-v", "seal", "-compression", "zstd", path, sealedPath)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stderr, "sealed message")
	require.Same(t, nopLogger, Logger())

	sealed, err := os.ReadFile(sealedPath)
	require.NoError(t, err)
	header, err := section.ParseEnvelopeHeader(sealed)
	require.NoError(t, err)
	require.True(t, header.IsPacked())

	code, _, stderr = runTool(t, nil, "open", sealedPath, openedPath)
	require.Equal(t, 0, code, stderr)

	original, err := os.ReadFile(path)
	require.NoError(t, err)
	opened, err := os.ReadFile(openedPath)
	require.NoError(t, err)
	require.Equal(t, original, opened)

	code, stdout, stderr := runTool(t, nil, "inspect", "-in", "sealed", "-max-elements", "2", sealedPath)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "... 48 more")

	sealed[len(sealed)-1] ^= 0xff
	require.NoError(t, os.WriteFile(sealedPath, sealed, 0o644))
	code, _, stderr = runTool(t, nil, "open", sealedPath, openedPath)
	require.Equal(t, 1, code)
	require.NotEmpty(t, stderr)
}

func TestRun_ReaderLimitFlags(t *testing.T) {
	path := writeSample(t, t.TempDir(), 20)

	t.Run("traversal", func(t *testing.T) {
		code, _, stderr := runTool(t, nil, "-traversal-limit", "8", "-max-message-words", "1048576", "inspect", path)
		require.Equal(t, 1, code)
		require.Contains(t, stderr, errs.ErrTraversalLimit.Error())
	})

	t.Run("ceiling follows traversal limit", func(t *testing.T) {
		code, _, stderr := runTool(t, nil, "-traversal-limit", "8", "inspect", path)
		require.Equal(t, 1, code)
		require.Contains(t, stderr, errs.ErrMessageTooLarge.Error())
	})

	t.Run("explicit ceiling", func(t *testing.T) {
		code, _, stderr := runTool(t, nil, "-max-message-words", "8", "inspect", path)
		require.Equal(t, 1, code)
		require.Contains(t, stderr, errs.ErrMessageTooLarge.Error())
	})

	t.Run("within limits", func(t *testing.T) {
		code, _, stderr := runTool(t, nil, "-max-message-words", "1048576", "inspect", path)
		require.Equal(t, 0, code, stderr)
	})
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "wwtool.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[builder]
initial_segment_words = 8
allocation = "fixed"

[seal]
compression = "lz4"
packed = false

[[layouts]]
name = "sample.AddressBook"
data_words = 1
pointer_count = 2

[[layouts]]
name = "sample.Person"
data_words = 1
pointer_count = 3
`), 0o644))

	path := filepath.Join(dir, "book.bin")
	code, _, stderr := runTool(t, nil, "-config", cfgPath, "sample", "-entries", "5", path)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	msg, err := serialize.Unmarshal(data)
	require.NoError(t, err)
	require.Greater(t, msg.NumSegments(), 1)

	code, stdout, stderr := runTool(t, nil, "-config", cfgPath, "layouts")
	require.Equal(t, 0, code, stderr)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "sample.AddressBook {data=1 ptrs=2}")

	code, stdout, stderr = runTool(t, nil, "-config", cfgPath, "inspect", "-type", "sample.AddressBook", path)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "type: sample.AddressBook")
	require.NotContains(t, stdout, "note:")

	sealedPath := filepath.Join(dir, "book.sealed")
	code, _, stderr = runTool(t, nil, "-config", cfgPath, "seal", path, sealedPath)
	require.Equal(t, 0, code, stderr)
	sealed, err := os.ReadFile(sealedPath)
	require.NoError(t, err)
	header, err := section.ParseEnvelopeHeader(sealed)
	require.NoError(t, err)
	require.False(t, header.IsPacked())
}
