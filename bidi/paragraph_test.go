package bidi

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func levelsEqual(a, b []Level) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCarMeansCAR(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelDebug)
	//
	p := NewParagraph(Testing(true))
	if err := p.SetText("car means CAR", LevelDefaultLTR); err != nil {
		t.Fatal(err)
	}
	if p.ParaLevel() != 0 {
		t.Errorf("expected paragraph level 0, is %d", p.ParaLevel())
	}
	if p.Direction() != Mixed {
		t.Errorf("expected direction to be mixed, is %s", p.Direction())
	}
	if p.CountRuns() != 2 {
		t.Fatalf("expected 2 runs, have %d", p.CountRuns())
	}
	start, length, level := p.VisualRun(1)
	if start != 10 || length != 3 || level != 1 {
		t.Errorf("expected run (10,3,1), is (%d,%d,%d)", start, length, level)
	}
	visual, err := p.WriteReordered(0)
	if err != nil {
		t.Fatal(err)
	}
	if visual != "car means RAC" {
		t.Errorf("expected 'car means RAC', is %q", visual)
	}
}

func TestLevels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	for i, test := range []struct {
		text   string
		level  Level
		levels []Level
		visual string
	}{
		{"car means CAR.", 0, []Level{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 0}, "car means RAC."},
		{"car means CAR.", 1, []Level{2, 2, 2, 2, 2, 2, 2, 2, 2, 1, 1, 1, 1, 1}, ".RAC car means"},
		{"ABC 123", LevelDefaultLTR, []Level{1, 1, 1, 1, 2, 2, 2}, "123 CBA"},
		{"hello", 1, []Level{2, 2, 2, 2, 2}, "hello"},
		{"AB(CD[&ef]!)gh", 0, []Level{1, 1, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0}, "BA(DC[&ef]!)gh"},
		{"AB(CD[&ef]!)gh", 1, []Level{1, 1, 1, 1, 1, 1, 1, 2, 2, 1, 1, 1, 2, 2}, "gh(![ef&]DC)BA"},
		{"a\u2067BC\u2069d", 0, []Level{0, 0, 1, 1, 0, 0}, "a\u2067CB\u2069d"},
		{"ا 123", LevelDefaultLTR, []Level{1, 1, 2, 2, 2}, "123 ا"},
	} {
		p := NewParagraph(Testing(true))
		if err := p.SetText(test.text, test.level); err != nil {
			t.Fatalf("test #%d: %v", i, err)
		}
		if levels := p.Levels(); !levelsEqual(levels, test.levels) {
			t.Errorf("test #%d: expected levels %v, have %v", i, test.levels, levels)
		}
		if visual, _ := p.WriteReordered(DoMirroring); visual != test.visual {
			t.Errorf("test #%d: expected visual %q, have %q", i, test.visual, visual)
		}
	}
}

func TestExplicitEmbedding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(Testing(true))
	if err := p.SetText("a\u202BBC\u202Cd", 0); err != nil {
		t.Fatal(err)
	}
	for _, c := range []struct {
		pos   int
		level Level
	}{{0, 0}, {2, 1}, {3, 1}, {5, 0}} {
		if l := p.LevelAt(c.pos); l != c.level {
			t.Errorf("expected level %d at %d, is %d", c.level, c.pos, l)
		}
	}
	if p.ClassAt(1) != RLE {
		t.Errorf("expected class RLE at 1, is %s", p.ClassAt(1))
	}
}

func TestEmbeddingLevels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	embeddings := []Embedding{{}, {}, {Level: 1, Override: true}, {Level: 1, Override: true}, {}, {}}
	p := NewParagraph(WithEmbeddings(embeddings))
	if err := p.SetText("abcdef", 0); err != nil {
		t.Fatal(err)
	}
	if levels := p.Levels(); !levelsEqual(levels, []Level{0, 0, 1, 1, 0, 0}) {
		t.Errorf("expected levels [0 0 1 1 0 0], have %v", levels)
	}
	if visual, _ := p.WriteReordered(0); visual != "abdcef" {
		t.Errorf("expected 'abdcef', have %q", visual)
	}
	p = NewParagraph(WithEmbeddings(embeddings[:3]))
	if err := p.SetText("abcdef", 0); !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("expected illegal argument error for short embeddings, have %v", err)
	}
	p = NewParagraph(WithEmbeddings([]Embedding{{Level: MaxExplicitLevel + 1}}))
	if err := p.SetText("a", 0); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("expected invalid level error, have %v", err)
	}
}

func TestInvalidParaLevel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph()
	if err := p.SetText("abc", 200); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("expected invalid level error, have %v", err)
	}
	if _, err := p.VisualIndex(0); !errors.Is(err, ErrNotResolved) {
		t.Errorf("expected not-resolved error, have %v", err)
	}
	if _, err := p.WriteReordered(0); !errors.Is(err, ErrNotResolved) {
		t.Errorf("expected not-resolved error, have %v", err)
	}
	if _, err := p.SetLine(0, 1); !errors.Is(err, ErrNotResolved) {
		t.Errorf("expected not-resolved error, have %v", err)
	}
}

func TestEmptyText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph()
	if err := p.SetText("", LevelDefaultRTL); err != nil {
		t.Fatal(err)
	}
	if p.Len() != 0 || p.CountRuns() != 0 {
		t.Errorf("expected empty paragraph without runs, have length %d and %d runs", p.Len(), p.CountRuns())
	}
	if p.ParaLevel() != 1 {
		t.Errorf("expected paragraph level 1, is %d", p.ParaLevel())
	}
	if visual, err := p.WriteReordered(DoMirroring); err != nil || visual != "" {
		t.Errorf("expected empty output, have %q, %v", visual, err)
	}
	if len(p.VisualMap()) != 0 {
		t.Errorf("expected empty visual map")
	}
}

func TestMultipleParagraphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(Testing(true))
	if err := p.SetText("abc\nDEF", LevelDefaultLTR); err != nil {
		t.Fatal(err)
	}
	if p.ParagraphCount() != 2 {
		t.Fatalf("expected 2 paragraphs, have %d", p.ParagraphCount())
	}
	start, limit, level, err := p.ParagraphAt(1)
	if err != nil {
		t.Fatal(err)
	}
	if start != 4 || limit != 7 || level != 1 {
		t.Errorf("expected paragraph (4,7,1), is (%d,%d,%d)", start, limit, level)
	}
	if p.LevelAt(5) != 1 || p.LevelAt(1) != 0 {
		t.Errorf("expected levels 0 and 1 for paragraphs, have %d and %d", p.LevelAt(1), p.LevelAt(5))
	}
	if _, _, _, err = p.ParagraphAt(2); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected invalid range for paragraph #2, have %v", err)
	}
}

func TestStreaming(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(ReorderOptions(OptionStreaming))
	if err := p.SetText("abc\ndef", 0); err != nil {
		t.Fatal(err)
	}
	if p.ProcessedLength() != 4 {
		t.Errorf("expected processed length 4, is %d", p.ProcessedLength())
	}
	if p.ParagraphCount() != 1 {
		t.Errorf("expected 1 complete paragraph, have %d", p.ParagraphCount())
	}
	if visual, _ := p.WriteReordered(0); visual != "abc\n" {
		t.Errorf("expected first paragraph only, have %q", visual)
	}
	if err := p.SetText("def", 0); err != nil {
		t.Fatal(err)
	}
	if p.ProcessedLength() != 0 {
		t.Errorf("expected nothing processed without paragraph separator, is %d", p.ProcessedLength())
	}
}

func TestRequiresBidi(t *testing.T) {
	if RequiresBidi("hello world 123") {
		t.Errorf("plain Latin text should not require bidi")
	}
	if !RequiresBidi("hello א") {
		t.Errorf("Hebrew text should require bidi")
	}
	if !requiresBidi("hello WORLD", TestingClassifier()) {
		t.Errorf("uppercase text should require bidi for testing classifier")
	}
}

func TestSupplementaryCharacters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph()
	// U+10900 PHOENICIAN LETTER ALF is R
	if err := p.SetText("a\U00010900b", 0); err != nil {
		t.Fatal(err)
	}
	if p.Len() != 4 {
		t.Fatalf("expected 4 code units, have %d", p.Len())
	}
	if p.ClassAt(2) != R || p.ClassAt(1) != BN {
		t.Errorf("expected classes BN R for surrogate pair, have %s %s", p.ClassAt(1), p.ClassAt(2))
	}
	if visual, _ := p.WriteReordered(0); visual != "a\U00010900b" {
		t.Errorf("expected surrogate pair to stay intact, have %q", visual)
	}
}

func TestParagraphsWithOverride(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph()
	if err := p.SetText("!\n( \u202Ecd", LevelDefaultRTL); err != nil {
		t.Fatal(err)
	}
	if p.Direction() != Mixed {
		t.Errorf("expected text to be mixed, is %s", p.Direction())
	}
	for _, c := range []struct {
		pos   int
		level Level
	}{{0, 1}, {1, 1}, {2, 0}, {3, 0}, {5, 1}, {6, 1}} {
		if l := p.LevelAt(c.pos); l != c.level {
			t.Errorf("expected level %d at %d, is %d", c.level, c.pos, l)
		}
	}
	if visual, _ := p.WriteReordered(0); visual != "\n!( dc\u202E" {
		t.Errorf("expected visual %+q, have %+q", "\n!( dc\u202E", visual)
	}
	checkMaps(t, "paragraphs with override", &p.resolution, true)
}

func TestMarkAfterBracket(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	for i, test := range []struct {
		text   string
		level  Level
		levels []Level
	}{
		{"ab(c)\u0301", 1, []Level{2, 2, 2, 2, 2, 2}},
		{"ab(c)\u0301\u0301", 1, []Level{2, 2, 2, 2, 2, 2, 2}},
		{"א(ב)\u0301", 0, []Level{1, 1, 1, 1, 1}},
		{"ab(c\u0301)", 1, []Level{2, 2, 2, 2, 2, 2}},
	} {
		p := NewParagraph()
		if err := p.SetText(test.text, test.level); err != nil {
			t.Fatalf("test #%d: %v", i, err)
		}
		if levels := p.Levels(); !levelsEqual(levels, test.levels) {
			t.Errorf("test #%d: expected levels %v, have %v", i, test.levels, levels)
		}
	}
}
