package bidi

import "fmt"

// isolateEntry flags a stack entry pushed for an isolate initiator.
const isolateEntry = 0x100

// directionFromFlags determines whether a text is unidirectional. If the
// text contains AN and neutrals, some neutrals may become RTL.
func (p *Paragraph) directionFromFlags() Direction {
	if !(p.flags&maskRTL != 0 || (p.flags.has(AN) && p.flags&maskNeutral != 0)) {
		return LeftToRight
	}
	if p.flags&maskLTR == 0 {
		return RightToLeft
	}
	return Mixed
}

// setParagraphLevels sets all levels to the level of their paragraph.
// It reports bracket pairs to bd, if bd is non-nil.
func (p *Paragraph) setParagraphLevels(bd *bracketData) {
	start := 0
	for _, para := range p.paras {
		for i := start; i < para.limit; i++ {
			p.levels[i] = para.level
			if bd == nil {
				continue
			}
			switch p.dirProps[i] {
			case BN:
			case B:
				if i+1 < p.length {
					if p.text[i] == uint16(charCR) && p.text[i+1] == uint16(charLF) {
						continue
					}
					bd.processB(para.level)
				}
			default:
				bd.processChar(i)
			}
		}
		start = para.limit
	}
}

// resolveExplicitLevels applies rules X1–X8, recalculates the class flags
// and returns the direction of the text. Bracket pairs are resolved along
// the way (N0), as are the level runs boundaries needed for isolating run
// sequences.
func (p *Paragraph) resolveExplicitLevels() Direction {
	p.isolateCount = 0
	dir := p.directionFromFlags()
	if dir != Mixed { // levels don't matter, trailingWSStart will be 0
		return dir
	}
	if p.mode.isInverse() {
		// mixed, but all characters are at the same embedding level
		p.setParagraphLevels(nil)
		return dir
	}
	bd := p.newBracketData()
	if p.flags&(maskExplicit|maskIsolate) == 0 {
		p.setParagraphLevels(bd)
		bd.resolveMarks()
		return dir
	}
	// X1: embeddingLevel tracks push/pop operations. Both levels may
	// carry LevelOverride.
	level := p.paraLevelAt(0)
	embeddingLevel, previousLevel := level, level
	var newLevel Level
	lastCcPos := 0 // index of last effective LRx, RLx, PDx
	var stack [MaxExplicitLevel + 2]uint16
	stackLast := 0
	overflowIsolates, overflowEmbeddings, validIsolates := 0, 0, 0
	stack[0] = uint16(level)
	p.flags = 0
	for i := 0; i < p.length; i++ {
		switch dirProp := p.dirProps[i]; dirProp {
		case LRE, RLE, LRO, RLO: // X2–X5
			p.flags |= bit(BN)
			p.levels[i] = previousLevel
			if dirProp == LRE || dirProp == LRO {
				newLevel = (embeddingLevel + 2) &^ (LevelOverride | 1)
			} else {
				newLevel = (embeddingLevel.noOverride() + 1) | 1
			}
			if newLevel <= MaxExplicitLevel && overflowIsolates == 0 && overflowEmbeddings == 0 {
				lastCcPos = i
				embeddingLevel = newLevel
				if dirProp == LRO || dirProp == RLO {
					embeddingLevel |= LevelOverride
				}
				stackLast++
				stack[stackLast] = uint16(embeddingLevel)
			} else if overflowIsolates == 0 {
				overflowEmbeddings++
			}
		case PDF: // X7
			p.flags |= bit(BN)
			p.levels[i] = previousLevel
			if overflowIsolates > 0 {
				break
			}
			if overflowEmbeddings > 0 {
				overflowEmbeddings--
				break
			}
			if stackLast > 0 && stack[stackLast] < isolateEntry {
				lastCcPos = i
				stackLast--
				embeddingLevel = Level(stack[stackLast])
			}
		case LRI, RLI: // X5a, X5b
			p.flags |= bit(ON) | flagForLevel(embeddingLevel)
			p.levels[i] = embeddingLevel.noOverride()
			if embeddingLevel.noOverride() != previousLevel.noOverride() {
				bd.processBoundary(lastCcPos, previousLevel, embeddingLevel)
				p.flags |= flagMultiRuns
			}
			previousLevel = embeddingLevel
			if dirProp == LRI {
				newLevel = (embeddingLevel + 2) &^ (LevelOverride | 1)
			} else {
				newLevel = (embeddingLevel.noOverride() + 1) | 1
			}
			if newLevel <= MaxExplicitLevel && overflowIsolates == 0 && overflowEmbeddings == 0 {
				p.flags |= bit(dirProp)
				lastCcPos = i
				validIsolates++
				if validIsolates > p.isolateCount {
					p.isolateCount = validIsolates
				}
				embeddingLevel = newLevel
				stackLast++
				stack[stackLast] = uint16(embeddingLevel) + isolateEntry
				bd.processIsolateStart(embeddingLevel)
			} else {
				p.dirProps[i] = WS // will be handled by adjustWSLevels
				overflowIsolates++
			}
		case PDI: // X6a
			if embeddingLevel.noOverride() != previousLevel.noOverride() {
				bd.processBoundary(lastCcPos, previousLevel, embeddingLevel)
				p.flags |= flagMultiRuns
			}
			if overflowIsolates > 0 {
				overflowIsolates--
				p.dirProps[i] = WS
			} else if validIsolates > 0 {
				p.flags |= bit(PDI)
				lastCcPos = i
				overflowEmbeddings = 0
				for stack[stackLast] < isolateEntry { // pop embeddings up to the isolate entry
					stackLast--
				}
				stackLast--
				validIsolates--
				bd.processIsolateEnd()
			} else {
				p.dirProps[i] = WS
			}
			embeddingLevel = Level(stack[stackLast] &^ isolateEntry)
			p.flags |= bit(ON) | flagForLevel(embeddingLevel)
			previousLevel = embeddingLevel
			p.levels[i] = embeddingLevel.noOverride()
		case B:
			p.flags |= bit(B)
			p.levels[i] = p.paraLevelAt(i)
			if i+1 < p.length {
				if p.text[i] == uint16(charCR) && p.text[i+1] == uint16(charLF) {
					break
				}
				overflowEmbeddings, overflowIsolates, validIsolates = 0, 0, 0
				stackLast = 0
				embeddingLevel = p.paraLevelAt(i + 1)
				previousLevel = embeddingLevel
				stack[0] = uint16(embeddingLevel)
				bd.processB(embeddingLevel)
			}
		case BN: // X9: BN gets its level in adjustWSLevels
			p.levels[i] = previousLevel
			p.flags |= bit(BN)
		default:
			if embeddingLevel.noOverride() != previousLevel.noOverride() {
				bd.processBoundary(lastCcPos, previousLevel, embeddingLevel)
				p.flags |= flagMultiRuns
				if embeddingLevel&LevelOverride != 0 {
					p.flags |= flagO[embeddingLevel&1]
				} else {
					p.flags |= flagE[embeddingLevel&1]
				}
			}
			previousLevel = embeddingLevel
			p.levels[i] = embeddingLevel
			bd.processChar(i)
			// class may have been changed by bracket processing
			p.flags |= bit(p.dirProps[i])
		}
	}
	bd.resolveMarks()
	if p.flags&maskEmbed != 0 {
		for _, para := range p.paras {
			p.flags |= flagForLevel(para.level)
		}
	}
	if p.orderParagraphsLTR && p.flags.has(B) {
		p.flags |= bit(L)
	}
	return p.directionFromFlags()
}

// checkExplicitLevels validates levels supplied by the client, ignoring
// all explicit codes (X9). Flags are recalculated to reflect the real
// properties after taking the embeddings into account.
func (p *Paragraph) checkExplicitLevels() (Direction, error) {
	p.flags = 0
	p.isolateCount = 0
	isolates := 0
	for i := 0; i < p.length; i++ {
		if p.levels[i] == 0 {
			p.levels[i] = p.paraLevel
		}
		level := p.levels[i]
		dirProp := p.dirProps[i]
		switch dirProp {
		case LRI, RLI:
			isolates++
			if isolates > p.isolateCount {
				p.isolateCount = isolates
			}
		case PDI:
			isolates--
		case B:
			isolates = 0
		}
		if level&LevelOverride != 0 {
			level = level.noOverride()
			p.flags |= flagO[level&1]
		} else {
			p.flags |= flagE[level&1] | bit(dirProp)
		}
		if level < p.paraLevelAt(i) || level > MaxExplicitLevel {
			return Neutral, fmt.Errorf("level %d at position %d: %w", level, i, ErrInvalidLevel)
		}
	}
	if p.flags&maskEmbed != 0 {
		for _, para := range p.paras {
			p.flags |= flagForLevel(para.level)
		}
	}
	return p.directionFromFlags(), nil
}
