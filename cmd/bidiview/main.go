/*
Command bidiview displays text in visual order, as resolved by the Unicode
Bidirectional Algorithm.

Text is taken from the command line arguments or, if there are none, from
stdin. Each line of input is treated as a paragraph.

# Usage

	bidiview [flags] [text ...]

Flags:

	-level ltr|rtl|auto|locale   base paragraph level (default auto)
	-mode name                   reordering mode, e.g. runs-only
	-html                        input is an HTML fragment
	-mirror                      mirror characters in RTL runs (default true)
	-marks                       insert LRM/RLM marks (inverse modes)
	-strip                       remove bidi controls from the output
	-runs                        color directional runs
	-trace D|I|E                 trace level

With -html, the dir attribute of the first element carrying one selects the
base level, unless -level is given explicitly. With -level locale, the base
level is derived from the user's locale.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/uax9/bidi"
	"golang.org/x/term"
)

func main() {
	tlevel := flag.String("trace", "E", "Trace level [D|I|E]")
	level := flag.String("level", "auto", "Paragraph level [ltr|rtl|auto|locale]")
	mode := flag.String("mode", "default", "Reordering mode")
	isHTML := flag.Bool("html", false, "Input is an HTML fragment")
	mirror := flag.Bool("mirror", true, "Mirror characters in RTL runs")
	marks := flag.Bool("marks", false, "Insert LRM/RLM marks")
	strip := flag.Bool("strip", false, "Remove bidi controls")
	runs := flag.Bool("runs", false, "Color directional runs")
	flag.Parse()
	logAdapter := gologadapter.GetAdapter()
	trace := logAdapter()
	trace.SetTraceLevel(traceLevel(*tlevel))
	tracing.SetTraceSelector(mytrace{tracer: trace})
	levelSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "level" {
			levelSet = true
		}
	})
	//
	v := &viewer{runs: *runs}
	var err error
	if v.level, err = parseLevel(*level); err != nil {
		tracing.Errorf(err.Error())
		os.Exit(1)
	}
	m, ok := bidi.ModeFromString(*mode)
	if !ok {
		tracing.Errorf("unknown reordering mode %q", *mode)
		os.Exit(1)
	}
	var options bidi.ReorderingOption
	if *marks {
		options |= bidi.OptionInsertMarks
	}
	if *strip {
		options |= bidi.OptionRemoveControls
		v.writeOptions |= bidi.RemoveBidiControls
	}
	if *mirror {
		v.writeOptions |= bidi.DoMirroring
	}
	v.para = bidi.NewParagraph(bidi.ReorderMode(m), bidi.ReorderOptions(options))
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil {
			v.width = w
		}
	}
	//
	var input io.Reader = os.Stdin
	if flag.NArg() > 0 {
		input = strings.NewReader(strings.Join(flag.Args(), " "))
	}
	var text string
	if *isHTML {
		var dir bidi.Level
		if text, dir, err = textFromHTML(input); err != nil {
			tracing.Errorf(err.Error())
			os.Exit(2)
		}
		if !levelSet {
			v.level = dir
		}
	} else {
		b, err := io.ReadAll(input)
		if err != nil {
			tracing.Errorf(err.Error())
			os.Exit(2)
		}
		text = string(b)
	}
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if err = v.display(w, line); err != nil {
			tracing.Errorf(err.Error())
			w.Flush()
			os.Exit(3)
		}
	}
}

func parseLevel(s string) (bidi.Level, error) {
	switch strings.ToLower(s) {
	case "ltr":
		return 0, nil
	case "rtl":
		return 1, nil
	case "auto":
		return bidi.LevelDefaultLTR, nil
	case "locale":
		return bidi.ContextFromEnvironment().ParaLevel(), nil
	}
	return 0, fmt.Errorf("unknown paragraph level %q", s)
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
