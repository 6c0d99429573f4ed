package bidi

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/uax9/internal/testdata"
	"github.com/npillmayer/uax9/internal/ucdparse"
)

// TestCharacterTestfile runs the test cases of BidiCharacterTest.txt.
// Fields are: code points; paragraph direction (0=LTR, 1=RTL, 2=auto);
// resolved paragraph level; resolved levels; visual ordering.
func TestCharacterTestfile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelInfo)
	//
	tf := ucdparse.OpenTestFile(testdata.UCDPath("BidiCharacterTest.txt"), t)
	defer tf.Close()
	runCharacterTests(t, tf)
}

// TestCharacterTestSubset runs a small set of test cases in the format of
// BidiCharacterTest.txt, which is part of the repository.
func TestCharacterTestSubset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	tf := ucdparse.OpenTestFile(filepath.Join("testdata", "BidiCharacterTest.txt"), t)
	defer tf.Close()
	if count := runCharacterTests(t, tf); count < 19 {
		t.Errorf("expected at least 19 test cases, found %d", count)
	}
}

func runCharacterTests(t *testing.T, tf *ucdparse.TestFile) int {
	p := NewParagraph()
	count, failures := 0, 0
	for tf.Scan() {
		fields := strings.Split(tf.Text(), ";")
		if len(fields) < 5 {
			continue
		}
		count++
		if !executeCharacterTest(t, p, fields, tf.LineNo()) {
			failures++
		}
		if failures > 50 {
			t.Fatalf("too many failures, giving up at line %d", tf.LineNo())
		}
	}
	if err := tf.Err(); err != nil {
		t.Fatal(err)
	}
	t.Logf("%d of %d test cases passed", count-failures, count)
	return count
}

func executeCharacterTest(t *testing.T, p *Paragraph, fields []string, lineno int) bool {
	var runes []rune
	for _, f := range strings.Fields(fields[0]) {
		r, err := strconv.ParseUint(f, 16, 32)
		if err != nil {
			t.Fatalf("line %d: cannot parse code point %q", lineno, f)
		}
		runes = append(runes, rune(r))
	}
	var level Level
	switch strings.TrimSpace(fields[1]) {
	case "0":
		level = 0
	case "1":
		level = 1
	default:
		level = LevelDefaultLTR
	}
	// the level of a code point is the level of its last code unit
	units := make([]uint16, 0, len(runes))
	positions := make([]int, len(runes))
	for i, r := range runes {
		if r >= 0x10000 {
			r1, r2 := encodeSurrogates(r)
			units = append(units, r1, r2)
		} else {
			units = append(units, uint16(r))
		}
		positions[i] = len(units) - 1
	}
	if err := p.SetUTF16(units, level); err != nil {
		t.Errorf("line %d: %v", lineno, err)
		return false
	}
	paraLevel, _ := strconv.Atoi(strings.TrimSpace(fields[2]))
	if p.ParaLevel() != Level(paraLevel) {
		t.Errorf("line %d: expected paragraph level %d, is %d", lineno, paraLevel, p.ParaLevel())
		return false
	}
	expected := strings.Fields(fields[3])
	if len(expected) != len(runes) {
		t.Fatalf("line %d: %d levels for %d code points", lineno, len(expected), len(runes))
	}
	var levels []Level
	for i, e := range expected {
		if e == "x" {
			continue
		}
		l := p.LevelAt(positions[i])
		if n, _ := strconv.Atoi(e); Level(n) != l {
			t.Errorf("line %d: expected level %d at position %d, is %d", lineno, n, i, l)
			return false
		}
		levels = append(levels, l)
	}
	order := strings.Fields(fields[4])
	if len(order) != len(levels) {
		t.Fatalf("line %d: %d positions in ordering for %d levels", lineno, len(order), len(levels))
	}
	if len(levels) == 0 {
		return true
	}
	// map indexes of the filtered levels back to code point indexes
	indexes := make([]int, 0, len(levels))
	for i, e := range expected {
		if e != "x" {
			indexes = append(indexes, i)
		}
	}
	for v, l := range ReorderVisual(levels) {
		if n, _ := strconv.Atoi(order[v]); indexes[l] != n {
			t.Errorf("line %d: expected %d at visual position %d, is %d", lineno, n, v, indexes[l])
			return false
		}
	}
	return true
}
