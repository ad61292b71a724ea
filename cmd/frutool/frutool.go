// Package frutool implements the "frutool" standalone converter: it
// reads a FRU image (binary or a whitespace-separated hex dump), can
// re-emit it in the other format, and prints the decoded fields, all
// without touching any hardware or the running daemon.
package frutool

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"frud/internal/fru"
)

var whitespace = regexp.MustCompile(`\s+`)

// Run implements the frutool entry point. args is os.Args[1:].
func Run(args []string) error {
	fs := flag.NewFlagSet("frutool", flag.ContinueOnError)
	inPath := fs.String("in", "", "FRU file to read (binary unless -ascii is set)")
	outPath := fs.String("out", "", "file to write the converted output to")
	ascii := fs.Bool("ascii", false, "treat -in as a whitespace-separated hex dump instead of binary")
	toAscii := fs.Bool("to-ascii", false, "write -out as a hex dump instead of binary")
	decode := fs.Bool("decode", true, "print the decoded field map")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *inPath == "" {
		return fmt.Errorf("usage: frutool -in <file> [-ascii] [-out <file>] [-to-ascii] [-decode=false]")
	}

	raw, err := os.ReadFile(*inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *inPath, err)
	}

	var data []byte
	if *ascii {
		data, err = parseHexDump(raw)
		if err != nil {
			return fmt.Errorf("parsing hex dump: %w", err)
		}
	} else {
		data = raw
	}

	if *outPath != "" {
		var out []byte
		if *toAscii {
			out = []byte(formatHexDump(data))
		} else {
			out = data
		}
		if err := os.WriteFile(*outPath, out, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", *outPath, err)
		}
	}

	fmt.Print(hex.Dump(data))

	if *decode {
		decoded, err := fru.Decode(fru.RawFru(data))
		if err != nil {
			return fmt.Errorf("decoding fru: %w", err)
		}
		printDecoded(decoded)
	}

	return nil
}

// parseHexDump turns a whitespace-separated stream of hex byte pairs
// back into binary, mirroring the retrieval pack's "-ascii" fru tool
// input mode.
func parseHexDump(text []byte) ([]byte, error) {
	fields := whitespace.Split(strings.TrimSpace(string(text)), -1)
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		v, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("byte %q: %w", f, err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

// formatHexDump renders data as one hex byte per token, sixteen per
// line, editable by hand and re-readable by parseHexDump.
func formatHexDump(data []byte) string {
	var b strings.Builder
	for i, v := range data {
		fmt.Fprintf(&b, "%02x ", v)
		if i%16 == 15 {
			b.WriteByte('\n')
		}
	}
	if len(data)%16 != 0 {
		b.WriteByte('\n')
	}
	return b.String()
}

func printDecoded(decoded fru.DecodedFru) {
	keys := make([]string, 0, len(decoded))
	for k := range decoded {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-28s %s\n", k, decoded[k])
	}
}
