package bidi

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestLine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(Testing(true))
	if err := p.SetText("abc DEF ghi", 0); err != nil {
		t.Fatal(err)
	}
	line, err := p.SetLine(4, 8)
	if err != nil {
		t.Fatal(err)
	}
	if line.Start() != 4 || line.Len() != 4 {
		t.Errorf("expected line at 4 with length 4, is at %d with length %d", line.Start(), line.Len())
	}
	if line.Direction() != Mixed {
		t.Errorf("expected line to be mixed, is %s", line.Direction())
	}
	if line.CountRuns() != 2 {
		t.Errorf("expected 2 runs, have %d", line.CountRuns())
	}
	if visual, _ := line.WriteReordered(0); visual != "FED " {
		t.Errorf("expected 'FED ', have %q", visual)
	}
	if line.LevelAt(3) != 0 {
		t.Errorf("expected trailing whitespace at paragraph level, is %d", line.LevelAt(3))
	}
	line, err = p.SetLine(0, 4)
	if err != nil {
		t.Fatal(err)
	}
	if line.Direction() != LeftToRight || line.CountRuns() != 1 {
		t.Errorf("expected LTR line with 1 run, is %s with %d runs", line.Direction(), line.CountRuns())
	}
	// the line keeps its own copy of the text
	if err = p.SetText("xyz", 0); err != nil {
		t.Fatal(err)
	}
	if line.Text() != "abc " {
		t.Errorf("expected line text 'abc ', is %q", line.Text())
	}
}

func TestLineErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(Testing(true))
	if err := p.SetText("abc DEF ghi", 0); err != nil {
		t.Fatal(err)
	}
	for _, r := range [][2]int{{5, 5}, {-1, 3}, {0, 100}} {
		if _, err := p.SetLine(r[0], r[1]); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("expected invalid range for [%d,%d), have %v", r[0], r[1], err)
		}
	}
	if err := p.SetText("abc\ndef", 0); err != nil {
		t.Fatal(err)
	}
	if _, err := p.SetLine(2, 6); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected line crossing paragraphs to fail, have %v", err)
	}
}

func TestLineDirection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	for i, test := range []struct {
		text        string
		level       Level
		start       int
		limit       int
		direction   Direction
		visual      string
		description string
	}{
		{"abc\ndef", LevelDefaultRTL, 4, 7, LeftToRight, "def", "LTR paragraphs"},
		{"אב\nגד", LevelDefaultLTR, 3, 5, RightToLeft, "דג", "RTL paragraphs"},
		{"abc\nגד", LevelDefaultLTR, 4, 6, RightToLeft, "דג", "paragraphs of different direction"},
	} {
		p := NewParagraph()
		if err := p.SetText(test.text, test.level); err != nil {
			t.Fatalf("test #%d: %v", i, err)
		}
		line, err := p.SetLine(test.start, test.limit)
		if err != nil {
			t.Fatalf("test #%d: %v", i, err)
		}
		if line.Direction() != test.direction {
			t.Errorf("test #%d (%s): expected line direction %s, is %s",
				i, test.description, test.direction, line.Direction())
		}
		if visual, _ := line.WriteReordered(0); visual != test.visual {
			t.Errorf("test #%d (%s): expected visual %q, have %q", i, test.description, test.visual, visual)
		}
		checkMaps(t, test.description, &line.resolution, true)
	}
	// override in a paragraph following an LTR paragraph
	p := NewParagraph(ReorderMode(ModeGroupNumbersWithR))
	if err := p.SetText("\n(\u202Dב$", LevelDefaultLTR); err != nil {
		t.Fatal(err)
	}
	line, err := p.SetLine(1, 5)
	if err != nil {
		t.Fatal(err)
	}
	if line.ParaLevel() != 1 || line.Direction() != Mixed {
		t.Errorf("expected mixed line at level 1, is %s at level %d", line.Direction(), line.ParaLevel())
	}
	if line.LevelAt(0) != 1 || line.LevelAt(2) != 2 || line.LevelAt(3) != 2 {
		t.Errorf("expected levels 1, 2, 2 at 0, 2, 3, have %v", line.Levels())
	}
	checkMaps(t, "override after LTR paragraph", &line.resolution, true)
}
