package bidi

import (
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestRunsOnly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(Testing(true), ReorderMode(ModeRunsOnly))
	if err := p.SetText("abc DEF ghi", 0); err != nil {
		t.Fatal(err)
	}
	if p.ReorderingMode() != ModeRunsOnly {
		t.Errorf("expected mode to be restored to runs-only, is %s", p.ReorderingMode())
	}
	if p.Text() != "abc DEF ghi" {
		t.Errorf("expected original text to be restored, is %q", p.Text())
	}
	if p.CountRuns() != 5 {
		t.Errorf("expected 5 runs, have %d", p.CountRuns())
	}
	if visual, _ := p.WriteReordered(0); visual != "ghi DEF abc" {
		t.Errorf("expected 'ghi DEF abc', have %q", visual)
	}
	for i := 0; i < p.CountRuns(); i++ {
		if _, _, level := p.VisualRun(i); level > 1 {
			t.Errorf("expected run levels 0 or 1, run #%d has %d", i, level)
		}
	}
}

func TestModeNames(t *testing.T) {
	for m := ModeDefault; m <= ModeInverseForNumbersSpecial; m++ {
		if mode, ok := ModeFromString(m.String()); !ok || mode != m {
			t.Errorf("mode %d does not round-trip through its name %q", m, m.String())
		}
	}
	if _, ok := ModeFromString("sideways"); ok {
		t.Errorf("unknown mode name should not be recognized")
	}
}

func TestOptionsExclusive(t *testing.T) {
	p := NewParagraph(ReorderOptions(OptionInsertMarks | OptionRemoveControls))
	if p.ReorderingOptions() != OptionRemoveControls {
		t.Errorf("expected removal of controls to win over marks, options are %b", p.ReorderingOptions())
	}
}

func TestNumbersSpecial(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(Testing(true), ReorderMode(ModeNumbersSpecial))
	if err := p.SetText("ab 12", 1); err != nil {
		t.Fatal(err)
	}
	if p.ClassAt(3) != EN {
		t.Errorf("expected class EN for digit, is %s", p.ClassAt(3))
	}
	if p.LevelAt(3) != 2 || p.LevelAt(0) != 2 {
		t.Errorf("expected numbers after L at level 2, are %d", p.LevelAt(3))
	}
}

func TestInverseRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(Testing(true))
	if err := p.SetText("abc DEF ghi", 0); err != nil {
		t.Fatal(err)
	}
	visual, _ := p.WriteReordered(0)
	inv := NewParagraph(Testing(true), ReorderMode(ModeInverseLikeDirect))
	if err := inv.SetText(visual, 0); err != nil {
		t.Fatal(err)
	}
	if logical, _ := inv.WriteReordered(0); logical != "abc DEF ghi" {
		t.Errorf("expected round trip to 'abc DEF ghi', have %q (visual %q)", logical, visual)
	}
}

func TestRunsOnlyMaps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(ReorderMode(ModeRunsOnly))
	for i, test := range []struct {
		text  string
		level Level
	}{
		{"\u0301א\u0301א", 1},
		{"\u202Dב]", 0},
		{"abc אבג def", 0},
		{"abc אבג def", 1},
		{"123 א", LevelDefaultLTR},
	} {
		if err := p.SetText(test.text, test.level); err != nil {
			t.Fatalf("test #%d: %v", i, err)
		}
		checkMaps(t, fmt.Sprintf("test #%d", i), &p.resolution, true)
	}
}

func TestRunsOnlyWithControls(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	for _, o := range []ReorderingOption{OptionInsertMarks, OptionRemoveControls} {
		p := NewParagraph(ReorderMode(ModeRunsOnly), ReorderOptions(o))
		for i, text := range []string{
			"a\u202Bbc\u202C d",
			"\u202Bאב\u202C cd",
			"\u202A\u202C",
			"ab \u2067גד\u2069 ef",
		} {
			if err := p.SetText(text, 0); err != nil {
				t.Fatalf("test #%d: %v", i, err)
			}
			covered := 0
			for r := 0; r < p.CountRuns(); r++ {
				_, length, _ := p.VisualRun(r)
				covered += length
			}
			if covered != p.Len() {
				t.Errorf("test #%d with options %d: runs cover %d of %d code units", i, o, covered, p.Len())
			}
			checkMaps(t, fmt.Sprintf("test #%d with options %d", i, o), &p.resolution, true)
		}
	}
}
