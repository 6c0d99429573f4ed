/*
Command bidigen generates the bracket and mirroring tables of package bidi.

Tables are generated from the UCD files "BidiBrackets.txt" and
"BidiMirroring.txt". The generator looks for them in the directory given
with -ucd, which defaults to internal/testdata/ucd (see
internal/testdata/download.go).

# Usage

	go run ./internal/gen [-trace D|I|E] [-o tables.go] [-pkg bidi] [-ucd dir]

It is designed to be called from the "bidi" directory.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/uax9/internal/testdata"
	"github.com/npillmayer/uax9/internal/ucdparse"
)

const unicodeVersion = "15.0.0"

func main() {
	tlevel := flag.String("trace", "I", "Trace level [D|I|E]")
	outf := flag.String("o", "tables.go", "Output file name")
	pkg := flag.String("pkg", "bidi", "Package name to use in output file")
	ucdDir := flag.String("ucd", filepath.Dir(testdata.UCDPath("BidiBrackets.txt")),
		"Directory containing the UCD files")
	flag.Parse()
	logAdapter := gologadapter.GetAdapter()
	trace := logAdapter()
	trace.SetTraceLevel(traceLevel(*tlevel))
	tracing.SetTraceSelector(mytrace{tracer: trace})
	tracing.Infof("Generating bidi tables from %s", *ucdDir)
	pairs, err := readBrackets(filepath.Join(*ucdDir, "BidiBrackets.txt"))
	if err != nil {
		tracing.Errorf(err.Error())
		os.Exit(1)
	}
	tracing.Infof("Read %d bracket pairs", pairs.Size())
	mirrors, err := readMirrors(filepath.Join(*ucdDir, "BidiMirroring.txt"))
	if err != nil {
		tracing.Errorf(err.Error())
		os.Exit(1)
	}
	tracing.Infof("Read %d mirroring pairs", mirrors.Size())
	if pairs.Size() == 0 || mirrors.Size() == 0 {
		tracing.Errorf("Did not read any pairs, exiting")
		os.Exit(1)
	}
	f, err := os.Create(*outf)
	if err != nil {
		tracing.Errorf(err.Error())
		os.Exit(2)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	writeTables(w, *pkg, pairs, mirrors)
	if err = w.Flush(); err != nil {
		tracing.Errorf(err.Error())
		os.Exit(2)
	}
	tracing.Infof("Wrote %s", *outf)
}

type pair struct {
	a, b rune
}

// byFirst and bySecond order pairs by one of their runes.
func byFirst(x, y interface{}) int {
	return utils.IntComparator(int(x.(pair).a), int(y.(pair).a))
}

func bySecond(x, y interface{}) int {
	return utils.IntComparator(int(x.(pair).b), int(y.(pair).b))
}

// readBrackets collects pairs of opening and closing brackets.
func readBrackets(filename string) (*arraylist.List, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	tracing.Infof("Found file %s ...", filename)
	brackets := arraylist.New()
	err = ucdparse.Parse(file, func(t *ucdparse.Token) {
		if t.Field(2) != "o" {
			return
		}
		o, _ := t.Range()
		brackets.Add(pair{a: o, b: readHexRune(t.Field(1))})
		tracing.Debugf(t.Comment)
	})
	brackets.Sort(byFirst)
	return brackets, err
}

// readMirrors collects characters and their mirror glyphs.
func readMirrors(filename string) (*arraylist.List, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	tracing.Infof("Found file %s ...", filename)
	mirrors := arraylist.New()
	err = ucdparse.Parse(file, func(t *ucdparse.Token) {
		r, _ := t.Range()
		mirrors.Add(pair{a: r, b: readHexRune(t.Field(1))})
	})
	mirrors.Sort(byFirst)
	return mirrors, err
}

func writeTables(w *bufio.Writer, pkg string, brackets, mirrors *arraylist.List) {
	fmt.Fprintf(w, "// Code generated by bidigen from BidiBrackets.txt and BidiMirroring.txt. DO NOT EDIT.\n\n")
	fmt.Fprintf(w, "package %s\n\n", pkg)
	fmt.Fprintf(w, "// Unicode version of the tables\nconst tablesVersion = %q\n\n", unicodeVersion)
	fmt.Fprintf(w, "// bracketPairs holds the opening and closing brackets of Bidi_Paired_Bracket pairs,\n")
	fmt.Fprintf(w, "// sorted by opening bracket.\n")
	writePairs(w, "bracketPairs", "bracketPair", brackets)
	closers := arraylist.New(brackets.Values()...)
	closers.Sort(bySecond)
	fmt.Fprintf(w, "\n// bracketClosers holds the same pairs, sorted by closing bracket.\n")
	writePairs(w, "bracketClosers", "bracketPair", closers)
	fmt.Fprintf(w, "\n// mirrorPairs maps characters to their Bidi_Mirroring_Glyph, sorted by character.\n")
	writePairs(w, "mirrorPairs", "mirrorPair", mirrors)
}

func writePairs(w *bufio.Writer, name, typ string, list *arraylist.List) {
	fmt.Fprintf(w, "var %s = [...]%s{ // %d entries\n", name, typ, list.Size())
	it := list.Iterator()
	for it.Next() {
		p := it.Value().(pair)
		fmt.Fprintf(w, "\t{0x%04X, 0x%04X},\n", p.a, p.b)
	}
	fmt.Fprintf(w, "}\n")
}

func readHexRune(inp string) rune {
	inp = strings.TrimSpace(inp)
	n, err := strconv.ParseUint(inp, 16, 32)
	if err != nil {
		tracing.Errorf("cannot read hex rune %q: %v", inp, err)
		return 0
	}
	return rune(n)
}

func traceLevel(l string) tracing.TraceLevel {
	switch l {
	case "D":
		return tracing.LevelDebug
	case "I":
		return tracing.LevelInfo
	case "E":
		return tracing.LevelError
	}
	return tracing.LevelDebug
}

type mytrace struct {
	tracer tracing.Trace
}

func (t mytrace) Select(string) tracing.Trace {
	return t.tracer
}
