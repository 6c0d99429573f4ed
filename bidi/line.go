package bidi

import "fmt"

// Line is a section of a resolved paragraph, usually a line of text after
// line breaking. Trailing whitespace of a line is at the paragraph level
// (rule L1), which may change its runs compared to the paragraph.
//
// A Line holds copies of the paragraph data it needs. The paragraph it is
// derived from may be re-used after SetLine returns.
type Line struct {
	resolution
	start int // start within the paragraph
}

// SetLine creates a line for the text range [start, limit) of a resolved
// paragraph. The range must not cross a paragraph boundary.
func (p *Paragraph) SetLine(start, limit int) (*Line, error) {
	if !p.resolved {
		return nil, ErrNotResolved
	}
	if start < 0 || limit > p.length || start >= limit {
		return nil, fmt.Errorf("line [%d,%d) of text with length %d: %w",
			start, limit, p.length, ErrInvalidRange)
	}
	if p.paragraphIndex(start) != p.paragraphIndex(limit-1) {
		return nil, fmt.Errorf("line [%d,%d) crosses a paragraph boundary: %w",
			start, limit, ErrInvalidRange)
	}
	length := limit - start
	line := &Line{start: start}
	r := &line.resolution
	r.classifier = p.classifier
	r.mode = p.mode
	r.options = p.options
	r.text = append([]uint16(nil), p.text[start:limit]...)
	r.dirProps = append([]Class(nil), p.dirProps[start:limit]...)
	r.length = length
	r.paraLevel = p.paraLevelAt(start)
	r.runCount = -1
	if p.controlCount > 0 {
		for _, u := range r.text {
			if IsBidiControl(rune(u)) {
				r.controlCount++
			}
		}
	}
	for _, point := range p.insertPoints.points {
		if point.pos >= start && point.pos < limit {
			r.insertPoints.add(point.pos-start, point.flag)
		}
	}
	r.insertPoints.confirm()
	if p.direction != Mixed {
		// all levels are at paraLevel
		r.direction = directionForLevel(r.paraLevel)
		switch {
		case p.trailingWSStart <= start:
			r.trailingWSStart = 0
		case p.trailingWSStart < limit:
			r.trailingWSStart = p.trailingWSStart - start
		default:
			r.trailingWSStart = length
		}
		r.levels = r.Levels()
	} else {
		r.levels = make([]Level, length)
		for i := range r.levels {
			r.levels[i] = p.LevelAt(start + i)
		}
		r.setTrailingWSStart()
		r.direction = r.lineDirection()
		switch r.direction {
		case LeftToRight:
			r.paraLevel = (r.paraLevel + 1) &^ 1 // make paraLevel even
			r.trailingWSStart = 0                // all levels are at paraLevel
		case RightToLeft:
			r.paraLevel |= 1 // make paraLevel odd
			r.trailingWSStart = 0
		}
	}
	r.computeRuns()
	r.setResultLength()
	r.resolved = true
	tracer().Debugf("bidi: line [%d,%d) has direction %s and %d run(s)",
		start, limit, r.direction, r.runCount)
	return line, nil
}

// Start returns the start position of the line within its paragraph.
func (l *Line) Start() int {
	return l.start
}

// setTrailingWSStart finds the start of trailing whitespace, BN and
// explicit codes of a line, which will be at the paragraph level (L1).
func (r *resolution) setTrailingWSStart() {
	start := r.length
	// a line terminated by B already has its whitespace at paragraph level
	if r.dirProps[start-1] == B {
		r.trailingWSStart = start
		return
	}
	for start > 0 && bit(r.dirProps[start-1])&maskWS != 0 {
		start--
	}
	// merge the WS run with a preceding run at paraLevel
	for start > 0 && r.levels[start-1] == r.paraLevel {
		start--
	}
	r.trailingWSStart = start
}

func (r *resolution) lineDirection() Direction {
	if r.trailingWSStart == 0 { // all whitespace
		return directionForLevel(r.paraLevel)
	}
	level := r.levels[0] & 1
	// trailing WS at an opposite paraLevel makes the line mixed
	if r.trailingWSStart < r.length && r.paraLevel&1 != level {
		return Mixed
	}
	for i := 1; i < r.trailingWSStart; i++ {
		if r.levels[i]&1 != level {
			return Mixed
		}
	}
	return directionForLevel(level)
}
