package bidi

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestWriteReverse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	for i, test := range []struct {
		text    string
		options WriteOption
		result  string
	}{
		{"abc", 0, "cba"},
		{"a😀b", 0, "b😀a"},
		{"ae\u0301", KeepBaseCombining, "e\u0301a"},
		{"ae\u0301", 0, "\u0301ea"},
		{"(a)", DoMirroring, "(a)"},
		{"(a)", 0, ")a("},
		{"a\u200Eb", RemoveBidiControls, "ba"},
	} {
		if result := WriteReverse(test.text, test.options); result != test.result {
			t.Errorf("test #%d: expected %q, have %q", i, test.result, result)
		}
	}
}

func TestWriteMirrored(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(Testing(true))
	if err := p.SetText("A(B)", 1); err != nil {
		t.Fatal(err)
	}
	if visual, _ := p.WriteReordered(DoMirroring); visual != "(B)A" {
		t.Errorf("expected '(B)A' with mirroring, have %q", visual)
	}
	if visual, _ := p.WriteReordered(0); visual != ")B(A" {
		t.Errorf("expected ')B(A' without mirroring, have %q", visual)
	}
	units, err := p.WriteReorderedUTF16(DoMirroring)
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 4 || units[0] != '(' {
		t.Errorf("expected UTF-16 output starting with '(', have %v", units)
	}
}

func TestWriteOutputReverse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(Testing(true))
	if err := p.SetText("car means CAR", 0); err != nil {
		t.Fatal(err)
	}
	if visual, _ := p.WriteReordered(OutputReverse); visual != "CAR snaem rac" {
		t.Errorf("expected 'CAR snaem rac', have %q", visual)
	}
}

func TestInverseWithMarks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(Testing(true), ReorderMode(ModeInverseNumbersAsL),
		ReorderOptions(OptionInsertMarks))
	if err := p.SetText("abc DEF", 0); err != nil {
		t.Fatal(err)
	}
	if visual, _ := p.WriteReordered(0); visual != "abc \u200EFED" {
		t.Errorf("expected 'abc \\u200EFED', have %q", visual)
	}
}
