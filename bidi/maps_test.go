package bidi

import (
	"fmt"
	"math/rand"
	"testing"
	"unicode/utf16"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func intsEqual(a, b []int) bool {
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

func TestIndexMaps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(Testing(true))
	if err := p.SetText("ABC 123", LevelDefaultLTR); err != nil {
		t.Fatal(err)
	}
	if m := p.VisualMap(); !intsEqual(m, []int{4, 5, 6, 3, 2, 1, 0}) {
		t.Errorf("expected visual map [4 5 6 3 2 1 0], have %v", m)
	}
	if m := p.LogicalMap(); !intsEqual(m, []int{6, 5, 4, 3, 0, 1, 2}) {
		t.Errorf("expected logical map [6 5 4 3 0 1 2], have %v", m)
	}
	if !intsEqual(InvertMap(p.VisualMap()), p.LogicalMap()) {
		t.Errorf("expected inverted visual map to be the logical map")
	}
	for logical := 0; logical < p.Len(); logical++ {
		visual, err := p.VisualIndex(logical)
		if err != nil {
			t.Fatal(err)
		}
		back, err := p.LogicalIndex(visual)
		if err != nil {
			t.Fatal(err)
		}
		if back != logical {
			t.Errorf("logical %d maps to visual %d, which maps back to %d", logical, visual, back)
		}
	}
	if _, err := p.VisualIndex(7); err == nil {
		t.Errorf("expected error for visual index out of range")
	}
}

func TestIndexOfRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(Testing(true))
	if err := p.SetText("car means CAR", 0); err != nil {
		t.Fatal(err)
	}
	if v, _ := p.VisualIndex(12); v != 10 {
		t.Errorf("expected visual index 10 for logical 12, is %d", v)
	}
	if l, _ := p.LogicalIndex(10); l != 12 {
		t.Errorf("expected logical index 12 for visual 10, is %d", l)
	}
	if limit, level := p.RunAt(11); limit != 13 || level != 1 {
		t.Errorf("expected run at 11 to be (13,1), is (%d,%d)", limit, level)
	}
	if limit, level := p.RunAt(3); limit != 10 || level != 0 {
		t.Errorf("expected run at 3 to be (10,0), is (%d,%d)", limit, level)
	}
}

func TestRemovedControlsMaps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(ReorderOptions(OptionRemoveControls))
	if err := p.SetText("a\u200Eb", 0); err != nil {
		t.Fatal(err)
	}
	if p.ResultLength() != 2 {
		t.Errorf("expected result length 2, is %d", p.ResultLength())
	}
	if visual, _ := p.WriteReordered(0); visual != "ab" {
		t.Errorf("expected 'ab', have %q", visual)
	}
	if m := p.VisualMap(); !intsEqual(m, []int{0, 2}) {
		t.Errorf("expected visual map [0 2], have %v", m)
	}
	if m := p.LogicalMap(); !intsEqual(m, []int{0, MapNowhere, 1}) {
		t.Errorf("expected logical map [0 -1 1], have %v", m)
	}
	if v, _ := p.VisualIndex(2); v != 1 {
		t.Errorf("expected visual index 1 for logical 2, is %d", v)
	}
	if v, _ := p.VisualIndex(1); v != MapNowhere {
		t.Errorf("expected removed control to map nowhere, is %d", v)
	}
	if l, _ := p.LogicalIndex(1); l != 2 {
		t.Errorf("expected logical index 2 for visual 1, is %d", l)
	}
}

func TestReorderLevels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	levels := []Level{0, 1, 1, 2, 2, 1, 0}
	visual := ReorderVisual(levels)
	if !intsEqual(visual, []int{0, 5, 3, 4, 2, 1, 6}) {
		t.Errorf("expected visual map [0 5 3 4 2 1 6], have %v", visual)
	}
	logical := ReorderLogical(levels)
	if !intsEqual(logical, []int{0, 5, 4, 2, 3, 1, 6}) {
		t.Errorf("expected logical map [0 5 4 2 3 1 6], have %v", logical)
	}
	if !intsEqual(InvertMap(visual), logical) {
		t.Errorf("expected visual and logical maps to be inverse")
	}
	if ReorderVisual([]Level{0, 127}) != nil || ReorderLogical([]Level{127}) != nil {
		t.Errorf("expected nil maps for invalid levels")
	}
	if m := ReorderVisual([]Level{2, 2}); !intsEqual(m, []int{0, 1}) {
		t.Errorf("expected identity for even levels, have %v", m)
	}
	if m := InvertMap([]int{2, MapNowhere, 0}); !intsEqual(m, []int{2, MapNowhere, 0}) {
		t.Errorf("expected [2 -1 0], have %v", m)
	}
}

func TestReorderVisually(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	glyphs, err := ReorderVisually([]Level{0, 1, 1}, []string{"run1", "run2", "run3"})
	if err != nil {
		t.Fatal(err)
	}
	if glyphs[0] != "run1" || glyphs[1] != "run3" || glyphs[2] != "run2" {
		t.Errorf("expected runs 1,3,2, have %v", glyphs)
	}
	if _, err = ReorderVisually([]Level{0}, []int{1, 2}); err == nil {
		t.Errorf("expected error for mismatched lengths")
	}
}

// checkMaps verifies that the index maps, single index lookups, runs and,
// if exact is set, the written output of a resolution agree.
func checkMaps(t *testing.T, name string, r *resolution, exact bool) {
	t.Helper()
	vmap, lmap := r.VisualMap(), r.LogicalMap()
	if len(vmap) != r.ResultLength() || len(lmap) != r.Len() {
		t.Errorf("%s: maps have lengths %d and %d, expected %d and %d",
			name, len(vmap), len(lmap), r.ResultLength(), r.Len())
		return
	}
	seen := make([]bool, r.Len())
	for v, l := range vmap {
		if i, err := r.LogicalIndex(v); err != nil || i != l {
			t.Errorf("%s: logical index of %d is %d, visual map %v has %d", name, v, i, vmap, l)
		}
		if l == MapNowhere {
			continue
		}
		if seen[l] {
			t.Errorf("%s: position %d occurs twice in visual map %v", name, l, vmap)
			continue
		}
		seen[l] = true
		if lmap[l] != v {
			t.Errorf("%s: visual map %v and logical map %v disagree at %d", name, vmap, lmap, v)
		}
	}
	removeControls := r.options&OptionRemoveControls != 0
	for l, v := range lmap {
		if i, err := r.VisualIndex(l); err != nil || i != v {
			t.Errorf("%s: visual index of %d is %d, logical map %v has %d", name, l, i, lmap, v)
		}
		if v == MapNowhere && !(removeControls && IsBidiControl(rune(r.text[l]))) {
			t.Errorf("%s: position %d is missing from the visual map %v", name, l, vmap)
		}
	}
	covered := 0
	for i := 0; i < r.CountRuns(); i++ {
		_, length, level := r.VisualRun(i)
		covered += length
		if d := r.Direction(); d != Mixed && directionForLevel(level) != d {
			t.Errorf("%s: direction is %s, but run #%d has level %d", name, d, i, level)
		}
	}
	if covered != r.Len() {
		t.Errorf("%s: runs cover %d of %d code units", name, covered, r.Len())
	}
	if !exact {
		return
	}
	out, err := r.WriteReorderedUTF16(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != r.ResultLength() {
		t.Errorf("%s: output %q has length %d, result length is %d",
			name, string(utf16.Decode(out)), len(out), r.ResultLength())
		return
	}
	for v, l := range vmap {
		if l == MapNowhere {
			if rune(out[v]) != charLRM && rune(out[v]) != charRLM {
				t.Errorf("%s: expected a mark at visual position %d, have %U", name, v, out[v])
			}
		} else if out[v] != r.text[l] {
			t.Errorf("%s: visual position %d has %U, expected %U from position %d",
				name, v, out[v], r.text[l], l)
		}
	}
}

func TestMapsConsistency(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	alphabet := []rune("aZ1\u0661\u05D0\u0627 \t,$()[]\u0301\u00AD\n" +
		"\u200E\u200F\u202A\u202B\u202C\u202D\u202E\u2066\u2067\u2068\u2069")
	rnd := rand.New(rand.NewSource(9))
	p := NewParagraph()
	failures := 0
	for n := 0; n < 200 && failures == 0; n++ {
		text := make([]rune, 1+rnd.Intn(12))
		for i := range text {
			text[i] = alphabet[rnd.Intn(len(alphabet))]
		}
		for m := ModeDefault; m <= ModeInverseForNumbersSpecial; m++ {
			for _, o := range []ReorderingOption{0, OptionInsertMarks, OptionRemoveControls} {
				for _, level := range []Level{0, 1, LevelDefaultLTR, LevelDefaultRTL} {
					p.SetReorderingMode(m)
					p.SetReorderingOptions(o)
					if err := p.SetText(string(text), level); err != nil {
						t.Fatal(err)
					}
					// in this mode the writer adds marks of its own
					exact := m != ModeInverseNumbersAsL || o != OptionInsertMarks
					name := fmt.Sprintf("%+q in %s with options %d at level %d", string(text), m, o, level)
					checkMaps(t, name, &p.resolution, exact)
					if m != ModeRunsOnly {
						start, limit := randomLine(rnd, p)
						line, err := p.SetLine(start, limit)
						if err != nil {
							t.Fatalf("%s: line [%d,%d): %v", name, start, limit, err)
						}
						name = fmt.Sprintf("%s, line [%d,%d)", name, start, limit)
						checkMaps(t, name, &line.resolution, exact)
					}
					if t.Failed() {
						failures++
					}
				}
			}
		}
	}
}

// randomLine selects a random range of code units within one paragraph.
func randomLine(rnd *rand.Rand, p *Paragraph) (int, int) {
	text := p.text[:p.Len()]
	pos := rnd.Intn(len(text))
	paraStart, paraLimit := pos, pos+1
	for paraStart > 0 && text[paraStart-1] != '\n' {
		paraStart--
	}
	for paraLimit < len(text) && text[paraLimit-1] != '\n' {
		paraLimit++
	}
	start := paraStart + rnd.Intn(paraLimit-paraStart)
	limit := start + 1 + rnd.Intn(paraLimit-start)
	return start, limit
}

func TestMarksCountedPerRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uax.bidi")
	defer teardown()
	//
	p := NewParagraph(ReorderMode(ModeInverseForNumbersSpecial), ReorderOptions(OptionInsertMarks))
	for _, text := range []string{
		"]\u2067]\u202E,\u200B(\u200E!\t$",
		"abc 123 אב 456",
		"א 1 2 3",
	} {
		for _, level := range []Level{0, 1, LevelDefaultLTR, LevelDefaultRTL} {
			if err := p.SetText(text, level); err != nil {
				t.Fatal(err)
			}
			checkMaps(t, fmt.Sprintf("%+q at level %d", text, level), &p.resolution, true)
		}
	}
}
