package bidi

// --- Brackets --------------------------------------------------------------

// Brackets require a disproportionate amount of work in UAX#9. BD16
// identifies bracket pairs within an isolating run sequence, and rule N0
// resolves each pair to the embedding direction or to the direction of the
// preceding context:
//
//	N0b  a strong type matching the embedding direction is found between
//	     the brackets: the pair takes the embedding direction
//	N0c  only strong types opposite to the embedding direction are found:
//	     the pair takes the direction of the preceding context if that is
//	     opposite as well (c1), else the embedding direction (c2)
//	N0d  no strong types are found: the brackets are left alone
//
// Examples of bracket pairs:
//
//	Text                Pairings
//	1 2 3 4 5 6 7 8
//	a ) b ( c           None
//	a ( b ] c           None
//	a ( b ) c           2-4
//	a ( b [ c ) d ]     2-6
//	a ( b ] c ) d       2-6
//	a ( b ) c ) d       2-4
//	a ( b ( c ) d       4-6
//	a ( b ( c ) d )     2-8, 4-6
//	a ( b { c } d )     2-8, 4-6
//
// We resolve pairs on the fly while the explicit levels are computed, i.e.
// in a single pass over the text. Pending opening brackets are kept in a
// list. Whenever a closing bracket matches one of them, N0 is applied. As
// later text may change the context of brackets resolved by N0c, such
// pairs are remembered and fixed up if needed.
//
// Each level run of an isolating run sequence gets an isoRun entry, holding
// the range of pending openings it contains, its level, and the last strong
// character encountered. Isolates nest, so isoRun entries form a stack.

// opening is a pending opening bracket.
type opening struct {
	position   int      // position of opening bracket
	match      int      // matching char, or -position of closing bracket after N0c
	contextPos int      // position of last strong char before opening
	flags      classSet // L or R found within the pair
	contextDir Class    // L or R according to last strong char before opening
}

type isoRun struct {
	contextPos int   // position of char determining context
	start      int   // index of first opening entry for this run
	limit      int   // index after last opening entry for this run
	level      Level // level of this run
	lastStrong Class // class of last strong char found in this run
	lastBase   Class // class of last base char found in this run
	contextDir Class // L or R to use as context for following openings
}

func (run *isoRun) reset(level Level, contextPos int) {
	run.level = level
	dir := Class(level & 1)
	run.lastStrong, run.lastBase, run.contextDir = dir, dir, dir
	run.contextPos = contextPos
}

// bracketData tracks bracket pairs during resolution of explicit levels.
type bracketData struct {
	p                *Paragraph
	openings         []opening
	isoRuns          [MaxExplicitLevel + 2]isoRun
	isoRunLast       int // index of last used isoRun entry
	isNumbersSpecial bool
	resolved         []int // positions of brackets resolved by N0b or N0c
}

const initialOpenings = 20

// newBracketData prepares bracket processing for the first paragraph.
func (p *Paragraph) newBracketData() *bracketData {
	bd := &bracketData{
		p:        p,
		openings: make([]opening, initialOpenings),
		isNumbersSpecial: p.mode == ModeNumbersSpecial ||
			p.mode == ModeInverseForNumbersSpecial,
	}
	bd.isoRuns[0].reset(p.paraLevelAt(0), 0)
	return bd
}

func (bd *bracketData) last() *isoRun {
	return &bd.isoRuns[bd.isoRunLast]
}

// processB starts a new paragraph.
func (bd *bracketData) processB(level Level) {
	bd.isoRunLast = 0
	bd.isoRuns[0].limit = 0
	bd.isoRuns[0].reset(level, 0)
}

// processBoundary starts a new level run after LRE, LRO, RLE, RLO or PDF.
func (bd *bracketData) processBoundary(lastCcPos int, contextLevel, embeddingLevel Level) {
	run := bd.last()
	if bit(bd.p.dirProps[lastCcPos])&maskIsolate != 0 { // after an isolate
		return
	}
	if embeddingLevel.noOverride() > contextLevel.noOverride() { // not a PDF
		contextLevel = embeddingLevel
	}
	run.limit = run.start
	run.level = embeddingLevel
	dir := Class(contextLevel & 1)
	run.lastStrong, run.lastBase, run.contextDir = dir, dir, dir
	run.contextPos = lastCcPos
}

// processIsolateStart opens a nested isoRun for LRI or RLI.
func (bd *bracketData) processIsolateStart(level Level) {
	run := bd.last()
	run.lastBase = ON
	lastLimit := run.limit
	bd.isoRunLast++
	run = bd.last()
	run.start, run.limit = lastLimit, lastLimit
	run.reset(level, 0)
}

// processIsolateEnd returns to the enclosing isoRun for PDI.
func (bd *bracketData) processIsolateEnd() {
	bd.isoRunLast--
	bd.last().lastBase = ON
}

// addOpening creates an openings entry for a newly found opening bracket.
func (bd *bracketData) addOpening(match rune, position int) {
	run := bd.last()
	if run.limit >= len(bd.openings) {
		openings := make([]opening, 2*len(bd.openings))
		copy(openings, bd.openings)
		bd.openings = openings
	}
	bd.openings[run.limit] = opening{
		position:   position,
		match:      int(match),
		contextDir: run.contextDir,
		contextPos: run.contextPos,
	}
	run.limit++
}

// fixN0c changes N0c1 to N0c2 when a preceding bracket is assigned the
// embedding level.
func (bd *bracketData) fixN0c(openingIndex, newPropPosition int, newProp Class) {
	run := bd.last()
	for k := openingIndex + 1; k < run.limit; k++ {
		q := &bd.openings[k]
		if q.match >= 0 { // not an N0c match
			continue
		}
		if newPropPosition < q.contextPos {
			break
		}
		if newPropPosition >= q.position {
			continue
		}
		if newProp == q.contextDir {
			break
		}
		openingPosition, closingPosition := q.position, -q.match
		bd.p.dirProps[openingPosition] = newProp
		bd.p.dirProps[closingPosition] = newProp
		q.match = 0 // prevent further changes
		bd.fixN0c(k, openingPosition, newProp)
		bd.fixN0c(k, closingPosition, newProp)
	}
}

// processClosing resolves a bracket pair. It returns L or R for N0b and N0c,
// and ON for N0d.
//
// A pair is stable if its level cannot be changed by text found later on.
// An unstable match may occur only for N0c, where the resolved level depends
// on the preceding context, which in turn may be affected by later text.
// Example: RTL paragraph containing  abc[(latin) HEBREW]. At the closing
// parenthesis N0c1 seems to apply, but at the closing square bracket N0b
// applies. This changes the context of the parentheses to N0c2.
func (bd *bracketData) processClosing(openIdx, position int) Class {
	run := bd.last()
	o := &bd.openings[openIdx]
	direction := Class(run.level & 1)
	stable := true
	var newProp Class
	if (direction == L && o.flags.has(L)) || (direction == R && o.flags.has(R)) { // N0b
		newProp = direction
	} else if o.flags&(bit(L)|bit(R)) != 0 { // N0c
		stable = openIdx == run.start
		if direction != o.contextDir {
			newProp = o.contextDir // N0c1
		} else {
			newProp = direction // N0c2
		}
	} else { // N0d: forget this and any brackets nested within
		run.limit = openIdx
		return ON
	}
	bd.p.dirProps[o.position] = newProp
	bd.p.dirProps[position] = newProp
	bd.resolved = append(bd.resolved, o.position, position)
	bd.fixN0c(openIdx, o.position, newProp)
	if stable {
		run.limit = openIdx // forget brackets nested within this pair
		for run.limit > run.start && bd.openings[run.limit-1].position == o.position {
			run.limit-- // remove lower located synonyms
		}
		return newProp
	}
	o.match = -position
	for k := openIdx - 1; k >= run.start && bd.openings[k].position == o.position; k-- {
		bd.openings[k].match = 0 // neutralize lower located synonyms
	}
	// neutralize unmatched openings within the current pair, including
	// higher located synonyms
	for k := openIdx + 1; k < run.limit; k++ {
		q := &bd.openings[k]
		if q.position >= position {
			break
		}
		if q.match > 0 {
			q.match = 0
		}
	}
	return newProp
}

// processChar handles strong characters, digits and candidates for brackets.
func (bd *bracketData) processChar(position int) {
	p := bd.p
	run := bd.last()
	dirProp := p.dirProps[position]
	var newProp Class
	if dirProp == ON {
		c := rune(p.text[position])
		// first see if it is a matching closing bracket
		for idx := run.limit - 1; idx >= run.start; idx-- {
			if bd.openings[idx].match != int(c) {
				continue
			}
			newProp = bd.processClosing(idx, position)
			if newProp == ON { // N0d
				c = 0 // prevent handling as an opening
				break
			}
			run.lastBase = ON
			run.contextDir = newProp
			run.contextPos = position
			if level := p.levels[position]; level&LevelOverride != 0 { // X4, X5
				newProp = Class(level & 1)
				run.lastStrong = newProp
				for i := run.start; i < idx; i++ {
					bd.openings[i].flags |= bit(newProp)
				}
				p.levels[position] &^= LevelOverride
			}
			// matching brackets are not overridden by LRO/RLO
			p.levels[bd.openings[idx].position] &^= LevelOverride
			return
		}
		// not a matching closing bracket, or a case of N0d
		if c != 0 {
			if match, typ := p.classifier.PairedBracket(c); match != c && typ == BracketOpen {
				// create an opening entry for each synonym
				if match == 0x232a { // RIGHT-POINTING ANGLE BRACKET
					bd.addOpening(0x3009, position)
				} else if match == 0x3009 { // RIGHT ANGLE BRACKET
					bd.addOpening(0x232a, position)
				}
				bd.addOpening(match, position)
			}
		}
	}
	if level := p.levels[position]; level&LevelOverride != 0 { // X4, X5
		newProp = Class(level & 1)
		if dirProp != S && dirProp != WS && dirProp != ON {
			p.dirProps[position] = newProp
		}
		run.lastBase, run.lastStrong, run.contextDir = newProp, newProp, newProp
		run.contextPos = position
	} else if dirProp <= R || dirProp == AL {
		newProp = strongDirFromClass(dirProp)
		run.lastBase, run.lastStrong = dirProp, dirProp
		run.contextDir = newProp
		run.contextPos = position
	} else if dirProp == EN {
		run.lastBase = EN
		if run.lastStrong == L {
			newProp = L // W7
			if !bd.isNumbersSpecial {
				p.dirProps[position] = enl
			}
			run.contextDir = L
		} else {
			newProp = R // N0
			if run.lastStrong == AL {
				p.dirProps[position] = AN // W2
			} else {
				p.dirProps[position] = enr
			}
			run.contextDir = R
		}
		run.contextPos = position
	} else if dirProp == AN {
		newProp = R // N0
		run.lastBase = AN
		run.contextDir = R
		run.contextPos = position
	} else if dirProp == NSM {
		// if the last real char was ON, change NSM to ON so that it will stay
		// ON even if the last real char is a bracket changed to L or R
		newProp = run.lastBase
		if newProp == ON {
			p.dirProps[position] = ON
		}
	} else {
		newProp = dirProp
		run.lastBase = dirProp
	}
	if newProp <= R || newProp == AL {
		flag := bit(strongDirFromClass(newProp))
		for i := run.start; i < run.limit; i++ {
			if position > bd.openings[i].position {
				bd.openings[i].flags |= flag
			}
		}
	}
}

// resolveMarks gives NSMs following a bracket resolved by N0 the class of
// the bracket. The NSMs were set to ON while the class of the bracket was
// still pending. Only NSMs in the level run of the bracket are affected.
func (bd *bracketData) resolveMarks() {
	p := bd.p
	for _, pos := range bd.resolved {
		class := p.dirProps[pos]
		if class != L && class != R {
			continue
		}
		level := p.levels[pos].noOverride()
		for j := pos + 1; j < p.length; j++ {
			if bit(p.dirProps[j])&maskBNExpl != 0 {
				continue
			}
			if p.dirProps[j] != ON || p.levels[j].noOverride() != level {
				break
			}
			c, _ := codePointBefore(p.text, j+1)
			if p.classifier.Class(c) != NSM {
				break
			}
			p.dirProps[j] = class
		}
	}
}
