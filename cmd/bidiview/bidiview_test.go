package main

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/uax9/bidi"
)

func TestHTMLText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	text, level, err := textFromHTML(strings.NewReader(`<p dir="rtl">car <b>means</b> CAR</p>`))
	if err != nil {
		t.Fatal(err)
	}
	if text != "car means CAR" {
		t.Errorf("expected inner text 'car means CAR', have %q", text)
	}
	if level != 1 {
		t.Errorf("expected level 1 from dir attribute, is %d", level)
	}
	_, level, _ = textFromHTML(strings.NewReader(`<span>hello</span>`))
	if level != bidi.LevelDefaultLTR {
		t.Errorf("expected default level without dir attribute, is %d", level)
	}
}

func TestVisualRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := bidi.NewParagraph(bidi.Testing(true))
	if err := p.SetText("car means CAR", 0); err != nil {
		t.Fatal(err)
	}
	runs := visualRuns(p, bidi.DoMirroring)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, have %d", len(runs))
	}
	if runs[0].text != "car means " || runs[1].text != "RAC" || !runs[1].level.IsRTL() {
		t.Errorf("unexpected runs %v", runs)
	}
}

func TestLevelFlags(t *testing.T) {
	for s, expected := range map[string]bidi.Level{"ltr": 0, "RTL": 1, "auto": bidi.LevelDefaultLTR} {
		if l, err := parseLevel(s); err != nil || l != expected {
			t.Errorf("expected level %d for %q, have %d (%v)", expected, s, l, err)
		}
	}
	if _, err := parseLevel("sideways"); err == nil {
		t.Errorf("expected error for unknown level")
	}
	if truncate("abcdef", 3) != "abc" || truncate("abc", 0) != "abc" {
		t.Errorf("unexpected truncation")
	}
}
