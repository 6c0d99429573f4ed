package bidi

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestClassifier(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	c := DefaultClassifier()
	for _, test := range []struct {
		r     rune
		class Class
	}{
		{'a', L}, {'A', L}, {'א', R}, {'ا', AL}, {'1', EN},
		{'١', AN}, {' ', WS}, {'\u2067', RLI}, {'\u202E', RLO}, {'\n', B},
	} {
		if cl := c.Class(test.r); cl != test.class {
			t.Errorf("expected class %s for %U, is %s", test.class, test.r, cl)
		}
	}
	if TestingClassifier().Class('A') != R {
		t.Errorf("expected testing classifier to treat uppercase as R")
	}
	if c.Mirror('(') != ')' || c.Mirror('a') != 'a' {
		t.Errorf("expected '(' to mirror to ')' and 'a' to itself")
	}
	if m, typ := c.PairedBracket('('); m != ')' || typ != BracketOpen {
		t.Errorf("expected ')' as opening pair of '(', have %q/%d", m, typ)
	}
	if m, typ := c.PairedBracket(')'); m != '(' || typ != BracketClose {
		t.Errorf("expected '(' as closing pair of ')', have %q/%d", m, typ)
	}
	if _, typ := c.PairedBracket('a'); typ != BracketNone {
		t.Errorf("expected 'a' not to be a bracket")
	}
	if !c.IsCombiningMark('\u0301') || c.IsCombiningMark('e') {
		t.Errorf("expected U+0301 to be a combining mark, and 'e' not")
	}
	if ClassString(PDI) != "PDI" || ClassString(enl) != "ENL" {
		t.Errorf("unexpected class names %s and %s", ClassString(PDI), ClassString(enl))
	}
	if !IsBidiControl(charLRM) || IsBidiControl(charALM) || IsBidiControl('a') {
		t.Errorf("unexpected classification of bidi controls")
	}
}

func TestContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	for _, test := range []struct {
		locale string
		level  Level
	}{
		{"he-IL", LevelDefaultRTL},
		{"ar", LevelDefaultRTL},
		{"fa-IR", LevelDefaultRTL},
		{"en-US", LevelDefaultLTR},
		{"de", LevelDefaultLTR},
	} {
		ctx := ContextForLocale(test.locale)
		if ctx.ParaLevel() != test.level {
			t.Errorf("expected level %#x for locale %s, is %#x", test.level, test.locale, ctx.ParaLevel())
		}
	}
	var ctx *Context
	if ctx.IsRTL() {
		t.Errorf("nil context should not be RTL")
	}
	ctx = ContextFromEnvironment()
	if ctx == nil || ctx.Locale == "" {
		t.Errorf("expected context with locale from environment")
	}
}

func TestPooledParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewPooledParagraph(Testing(true))
	if err := p.SetText("abc DEF", 0); err != nil {
		t.Fatal(err)
	}
	if visual, _ := p.WriteReordered(0); visual != "abc FED" {
		t.Errorf("expected 'abc FED', have %q", visual)
	}
	p.Release()
	if p.pool != nil || p.resolved {
		t.Errorf("expected released paragraph to be reset")
	}
	p = NewPooledParagraph()
	defer p.Release()
	if err := p.SetText("ABC", LevelDefaultRTL); err != nil {
		t.Fatal(err)
	}
	if p.ParaLevel() != 0 {
		t.Errorf("expected default classifier after release, paragraph level is %d", p.ParaLevel())
	}
	NewParagraph().Release() // no-op
}
