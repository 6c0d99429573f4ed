package bidi

import (
	"fmt"
	"unicode/utf16"
)

// resolution holds the outcome of the bidi algorithm for a paragraph or a
// line: the text, its bidi classes, the resolved levels and the runs.
type resolution struct {
	text             []uint16
	dirProps         []Class
	levels           []Level
	length           int // processed length in code units
	resultLength     int // length of the output, including marks, excluding removed controls
	paraLevel        Level
	defaultParaLevel Level // paraLevel as requested if it was a default level, else 0
	direction        Direction
	paras            []paraInfo
	trailingWSStart  int // start of trailing whitespace, which is at paraLevel
	controlCount     int
	insertPoints     insertPoints
	runs             []run
	runCount         int // -1 if runs are not computed yet
	mode             Mode
	options          ReorderingOption
	resolved         bool
	classifier       Classifier // source of character properties
}

// paraLevelAt returns the level of the paragraph containing position pos.
func (r *resolution) paraLevelAt(pos int) Level {
	if r.defaultParaLevel == 0 || len(r.paras) == 0 || pos < r.paras[0].limit {
		return r.paraLevel
	}
	i := 1
	for ; i < len(r.paras)-1; i++ {
		if pos < r.paras[i].limit {
			break
		}
	}
	return r.paras[i].level
}

// Direction returns the overall direction of the text.
func (r *resolution) Direction() Direction {
	return r.direction
}

// ParaLevel returns the paragraph level. With more than one paragraph and a
// default level, this is the level of the first paragraph.
func (r *resolution) ParaLevel() Level {
	return r.paraLevel
}

// Len returns the number of UTF-16 code units which have been resolved.
func (r *resolution) Len() int {
	return r.length
}

// ResultLength returns the length of the reordered output in code units,
// taking inserted marks and removed controls into account.
//
// In ModeInverseNumbersAsL the writer adds marks around runs on its own
// when marks are written, i.e. with OptionInsertMarks or InsertLRMForNumeric.
// These are not counted, and the output may be longer. VisualMap and
// LogicalMap do not account for them either.
func (r *resolution) ResultLength() int {
	return r.resultLength
}

// Text returns the resolved text.
func (r *resolution) Text() string {
	return string(utf16.Decode(r.text[:r.length]))
}

// ClassAt returns the bidi class of the code unit at position i, as used by
// the algorithm. FSI is reported as LRI or RLI, depending on its resolution.
func (r *resolution) ClassAt(i int) Class {
	if i < 0 || i >= r.length {
		return ON
	}
	switch c := r.dirProps[i]; c {
	case enl, enr:
		return EN
	default:
		return c
	}
}

// LevelAt returns the level of the code unit at position i. For positions
// out of range, the paragraph level is returned.
func (r *resolution) LevelAt(i int) Level {
	if r.direction != Mixed || i < 0 || i >= r.trailingWSStart {
		return r.paraLevelAt(i)
	}
	return r.levels[i]
}

// Levels returns the levels of all code units of the text. The slice is
// a copy and may be modified by the caller.
func (r *resolution) Levels() []Level {
	levels := make([]Level, r.length)
	for i := range levels {
		levels[i] = r.LevelAt(i)
	}
	return levels
}

// --- Insert points ---------------------------------------------------------

// insertPoint is a position where an LRM or RLM has to be inserted.
type insertPoint struct {
	pos  int
	flag uint8 // lrmBefore, lrmAfter, rlmBefore, rlmAfter
}

// insertPoints collects marks for inverse reordering. Points beyond the
// confirmed count are tentative.
type insertPoints struct {
	points    []insertPoint
	confirmed int
}

func (ip *insertPoints) add(pos int, flag uint8) {
	ip.points = append(ip.points, insertPoint{pos: pos, flag: flag})
}

func (ip *insertPoints) confirm() {
	ip.confirmed = len(ip.points)
}

func (ip *insertPoints) discard() {
	ip.points = ip.points[:ip.confirmed]
}

func (ip *insertPoints) reset() {
	ip.points = ip.points[:0]
	ip.confirmed = 0
}

func (ip *insertPoints) clone() insertPoints {
	return insertPoints{
		points:    append([]insertPoint(nil), ip.points...),
		confirmed: ip.confirmed,
	}
}

func (r *resolution) checkIndex(i, limit int) error {
	if !r.resolved {
		return ErrNotResolved
	}
	if i < 0 || i >= limit {
		return fmt.Errorf("index %d not in [0,%d): %w", i, limit, ErrInvalidRange)
	}
	return nil
}
