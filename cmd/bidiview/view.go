package main

import (
	"io"
	"unicode/utf16"

	"github.com/fatih/color"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/uax9/bidi"
)

// viewer writes paragraphs in visual order.
type viewer struct {
	para         *bidi.Paragraph
	level        bidi.Level
	writeOptions bidi.WriteOption
	runs         bool // color runs by direction
	width        int  // truncate output lines, if > 0
}

var (
	ltrColor = color.New(color.FgBlue)
	rtlColor = color.New(color.FgRed)
)

// display resolves a single paragraph and writes it to w, followed by a newline.
func (v *viewer) display(w io.Writer, text string) error {
	if err := v.para.SetText(text, v.level); err != nil {
		return err
	}
	tracing.Debugf("paragraph level %d, direction %s, %d runs",
		v.para.ParaLevel(), v.para.Direction(), v.para.CountRuns())
	if !v.runs {
		visual, err := v.para.WriteReordered(v.writeOptions)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, truncate(visual, v.width)+"\n")
		return err
	}
	for _, r := range visualRuns(v.para, v.writeOptions) {
		c := ltrColor
		if r.level.IsRTL() {
			c = rtlColor
		}
		if _, err := c.Fprint(w, r.text); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// coloredRun is the visual text of a directional run.
type coloredRun struct {
	text  string
	level bidi.Level
}

// visualRuns splits the resolved text into runs in visual order, with RTL
// runs reversed.
func visualRuns(p *bidi.Paragraph, options bidi.WriteOption) []coloredRun {
	units := utf16.Encode([]rune(p.Text()))
	runs := make([]coloredRun, 0, p.CountRuns())
	for i := 0; i < p.CountRuns(); i++ {
		start, length, level := p.VisualRun(i)
		s := string(utf16.Decode(units[start : start+length]))
		if level.IsRTL() {
			s = bidi.WriteReverse(s, options|bidi.KeepBaseCombining)
		}
		runs = append(runs, coloredRun{text: s, level: level})
	}
	return runs
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == width {
			return s[:i]
		}
		n++
	}
	return s
}
