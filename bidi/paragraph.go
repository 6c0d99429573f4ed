package bidi

import (
	"fmt"
	"unicode/utf16"
)

// Paragraph resolves the embedding levels for a piece of text, which may
// consist of one or more paragraphs in the sense of UAX#9.
//
// A Paragraph is created once and may be re-used for many texts; its
// internal buffers will be recycled. It must not be used concurrently
// while SetText is running. After resolution, read-only queries may be
// issued from multiple goroutines.
type Paragraph struct {
	resolution                     // resolved levels, runs and text
	embeddings         []Embedding // explicit levels supplied by the client
	orderParagraphsLTR bool        // resolve B to level 0
	originalLength     int         // length of the text in code units
	flags              classSet    // all classes found in the text
	lastArabicPos      int         // position of the last AL, for inverse modes
	isolateCount       int         // current isolate stack entry
	isolates           []isoState  // state stack for suspended isolating runs
	impTabPair         *impTabPair // state tables for the current mode
	textBuf            []uint16    // arena for the text
	pool               *paragraphPool
}

// paraInfo holds the limit and level of a paragraph within the text.
type paraInfo struct {
	limit int
	level Level
}

// NewParagraph creates a paragraph resolver.
func NewParagraph(opts ...Option) *Paragraph {
	p := &Paragraph{}
	p.classifier = DefaultClassifier()
	p.runCount = -1
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetReorderingMode sets the reordering mode for subsequent calls to SetText.
func (p *Paragraph) SetReorderingMode(m Mode) {
	if m > ModeInverseForNumbersSpecial {
		return
	}
	p.mode = m
}

// ReorderingMode returns the current reordering mode.
func (p *Paragraph) ReorderingMode() Mode {
	return p.mode
}

// SetReorderingOptions sets the reordering options for subsequent calls to SetText.
// OptionInsertMarks and OptionRemoveControls are mutually exclusive; the
// latter wins.
func (p *Paragraph) SetReorderingOptions(o ReorderingOption) {
	if o&OptionRemoveControls != 0 {
		o &^= OptionInsertMarks
	}
	p.options = o
}

// ReorderingOptions returns the current reordering options.
func (p *Paragraph) ReorderingOptions() ReorderingOption {
	return p.options
}

// SetText resolves the embedding levels of a text.
//
// level is the paragraph level for the text. It is either between 0 and
// MaxExplicitLevel, or one of LevelDefaultLTR and LevelDefaultRTL. In the
// latter case, each paragraph of the text will get a level derived from
// its first strong character (rules P2, P3).
func (p *Paragraph) SetText(text string, level Level) error {
	n := 0
	for _, r := range text {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	p.textBuf = resize(p.textBuf, n)
	i := 0
	for _, r := range text {
		if r >= 0x10000 {
			p.textBuf[i], p.textBuf[i+1] = encodeSurrogates(r)
			i += 2
		} else {
			p.textBuf[i] = uint16(r)
			i++
		}
	}
	return p.setPara(p.textBuf, level)
}

// SetUTF16 resolves the embedding levels of a text given as UTF-16 code units.
// The paragraph keeps its own copy of the text.
func (p *Paragraph) SetUTF16(text []uint16, level Level) error {
	p.textBuf = resize(p.textBuf, len(text))
	copy(p.textBuf, text)
	return p.setPara(p.textBuf, level)
}

func encodeSurrogates(r rune) (uint16, uint16) {
	r1, r2 := utf16.EncodeRune(r)
	return uint16(r1), uint16(r2)
}

// setPara performs the bidi algorithm on a text. It is the equivalent of
// resolving all the rules P2–I2 of UAX#9.
func (p *Paragraph) setPara(text []uint16, paraLevel Level) error {
	if paraLevel > MaxExplicitLevel && paraLevel != LevelDefaultLTR && paraLevel != LevelDefaultRTL {
		return fmt.Errorf("paragraph level %d: %w", paraLevel, ErrInvalidLevel)
	}
	if p.embeddings != nil && len(p.embeddings) != len(text) {
		return fmt.Errorf("%d embedding levels for text of length %d: %w",
			len(p.embeddings), len(text), ErrIllegalArgument)
	}
	if p.mode == ModeRunsOnly {
		return p.setParaRunsOnly(text, paraLevel)
	}
	p.resolved = false
	p.text = text
	p.length, p.originalLength, p.resultLength = len(text), len(text), len(text)
	p.paraLevel = paraLevel
	p.direction = directionForLevel(paraLevel)
	p.paras = resize(p.paras, 1)
	p.paras[0] = paraInfo{}
	p.runs = p.runs[:0]
	p.insertPoints.reset()
	p.controlCount = 0
	p.trailingWSStart = 0
	p.defaultParaLevel = 0
	if paraLevel.IsDefault() {
		p.defaultParaLevel = paraLevel
	}
	if p.length == 0 {
		if paraLevel.IsDefault() {
			p.paraLevel &= 1
			p.defaultParaLevel = 0
		}
		p.flags = flagForLevel(p.paraLevel)
		p.runCount = 0
		p.paras = p.paras[:0]
		p.dirProps = p.dirProps[:0]
		p.levels = p.levels[:0]
		p.resolved = true
		return nil
	}
	p.runCount = -1
	p.dirProps = resize(p.dirProps, p.originalLength)
	p.prescan()
	if p.length == 0 { // streaming without a complete paragraph
		if p.paraLevel.IsDefault() {
			p.paraLevel &= 1
			p.defaultParaLevel = 0
		}
		p.direction = directionForLevel(p.paraLevel)
		p.runCount, p.resultLength = 0, 0
		p.resolved = true
		return nil
	}
	// the processed length may have changed if OptionStreaming is set
	p.trailingWSStart = p.length
	p.resultLength = p.length
	p.levels = resize(p.levels, p.originalLength)
	if p.embeddings == nil {
		p.direction = p.resolveExplicitLevels()
	} else {
		for i, e := range p.embeddings {
			p.levels[i] = e.level()
		}
		var err error
		if p.direction, err = p.checkExplicitLevels(); err != nil {
			return err
		}
	}
	if p.isolateCount > 0 && len(p.isolates) < p.isolateCount {
		p.isolates = make([]isoState, p.isolateCount+3)
	}
	p.isolateCount = -1
	switch p.direction {
	case LeftToRight, RightToLeft:
		// all levels are implicitly at paraLevel
		p.trailingWSStart = 0
	default:
		p.impTabPair = p.selectImpTabPair()
		p.resolveLevelRuns()
		p.adjustWSLevels()
	}
	if p.defaultParaLevel > 0 && p.options&OptionInsertMarks != 0 &&
		(p.mode == ModeInverseLikeDirect || p.mode == ModeInverseForNumbersSpecial) {
		p.markRTLParagraphs()
	}
	p.computeRuns()
	p.setResultLength()
	p.resolved = true
	tracer().Debugf("bidi: resolved %d code units in %d paragraph(s), direction %s",
		p.length, len(p.paras), p.direction)
	return nil
}

// resolveLevelRuns applies the implicit rules to each run of characters at the
// same level.
func (p *Paragraph) resolveLevelRuns() {
	if p.embeddings == nil && len(p.paras) <= 1 && p.flags&flagMultiRuns == 0 {
		p.resolveImplicitLevels(0, p.length,
			Class(p.paraLevelAt(0)&1), Class(p.paraLevelAt(p.length-1)&1))
		return
	}
	// sor and eor are the start and end types of a level run
	var sor, eor Class
	level, nextLevel := p.paraLevelAt(0), p.levels[0]
	if level < nextLevel {
		eor = Class(nextLevel & 1)
	} else {
		eor = Class(level & 1)
	}
	limit := 0
	for limit < p.length {
		start := limit
		level = nextLevel
		if start > 0 && p.dirProps[start-1] == B {
			sor = Class(p.paraLevelAt(start) & 1) // new paragraph
		} else {
			sor = eor
		}
		for limit++; limit < p.length &&
			(p.levels[limit] == level || bit(p.dirProps[limit])&maskBNExpl != 0); limit++ {
		}
		if limit < p.length {
			nextLevel = p.levels[limit]
		} else {
			nextLevel = p.paraLevelAt(p.length - 1)
		}
		if level.noOverride() < nextLevel.noOverride() {
			eor = Class(nextLevel & 1)
		} else {
			eor = Class(level & 1)
		}
		if level&LevelOverride == 0 {
			p.resolveImplicitLevels(start, limit, sor, eor)
		} else { // overridden runs have no implicit types to resolve
			for ; start < limit; start++ {
				p.levels[start] &^= LevelOverride
			}
		}
	}
}

// markRTLParagraphs adds an RLM for inverse bidi with contextual orientation,
// to ensure a round trip for RTL paragraphs ending with L text.
func (p *Paragraph) markRTLParagraphs() {
	for i, para := range p.paras {
		if para.level == 0 {
			continue
		}
		last := para.limit - 1
		start := 0
		if i > 0 {
			start = p.paras[i-1].limit
		}
		for j := last; j >= start; j-- {
			dirProp := p.dirProps[j]
			if dirProp == L {
				if j < last {
					for p.dirProps[last] == B {
						last--
					}
				}
				p.insertPoints.add(last, rlmBefore)
				break
			}
			if bit(dirProp)&maskRAL != 0 {
				break
			}
		}
	}
}

// --- Prescan (P2, P3) ------------------------------------------------------

// states of the search for strong characters
const (
	notSeekingStrong     = iota // not a contextual paragraph level, not after FSI
	seekingStrongForPara        // looking for the first strong character of a paragraph
	seekingStrongForFSI         // looking for the first strong character after FSI
	lookingForPDI               // found a strong character after FSI, looking for PDI
)

// prescan gets the bidi classes of the text, collects them in a class set,
// and determines the paragraphs and their levels. FSIs are resolved to LRI
// or RLI, depending on the first strong character within their scope.
func (p *Paragraph) prescan() {
	p.flags = 0
	p.lastArabicPos = -1
	isDefaultLevel := p.paraLevel.IsDefault()
	isDefaultLevelInverse := isDefaultLevel &&
		(p.mode == ModeInverseLikeDirect || p.mode == ModeInverseForNumbersSpecial)
	removeControls := p.options&OptionRemoveControls != 0
	streaming := p.options&OptionStreaming != 0
	controlCount := 0
	var isolateStartStack [MaxExplicitLevel + 1]int
	var previousStateStack [MaxExplicitLevel + 1]int
	stackLast := -1
	if streaming {
		p.length = 0
	}
	defaultParaLevel := p.paraLevel & 1
	var state int
	lastStrong := ON // for default level and inverse bidi
	if isDefaultLevel {
		p.paras[0].level = defaultParaLevel
		lastStrong = Class(defaultParaLevel)
		state = seekingStrongForPara
	} else {
		p.paras[0].level = p.paraLevel
		state = notSeekingStrong
	}
	current := func() *paraInfo {
		return &p.paras[len(p.paras)-1]
	}
	for i := 0; i < p.originalLength; {
		i0 := i
		r := rune(p.text[i])
		i++
		if utf16.IsSurrogate(r) && r < 0xdc00 && i < p.originalLength {
			if r2 := rune(p.text[i]); r2 >= 0xdc00 && r2 < 0xe000 {
				r = utf16.DecodeRune(r, r2)
				i++
			}
		}
		i1 := i - 1 // index of last code unit, gets the bidi class
		dirProp := p.classifier.Class(r)
		if dirProp >= enl {
			dirProp = ON
		}
		p.flags |= bit(dirProp)
		p.dirProps[i1] = dirProp
		if i1 > i0 { // leading surrogate gets BN
			p.flags |= bit(BN)
			p.dirProps[i0] = BN
		}
		if removeControls && IsBidiControl(r) {
			controlCount++
		}
		switch {
		case dirProp == L:
			if state == seekingStrongForPara {
				current().level = 0
				state = notSeekingStrong
			} else if state == seekingStrongForFSI {
				if stackLast <= int(MaxExplicitLevel) {
					p.flags |= bit(LRI)
				}
				state = lookingForPDI
			}
			lastStrong = L
		case dirProp == R || dirProp == AL:
			if state == seekingStrongForPara {
				current().level = 1
				state = notSeekingStrong
			} else if state == seekingStrongForFSI {
				if stackLast <= int(MaxExplicitLevel) {
					p.dirProps[isolateStartStack[stackLast]] = RLI
					p.flags |= bit(RLI)
				}
				state = lookingForPDI
			}
			lastStrong = R
			if dirProp == AL {
				p.lastArabicPos = i - 1
			}
		case dirProp >= FSI && dirProp <= RLI:
			stackLast++
			if stackLast <= int(MaxExplicitLevel) {
				isolateStartStack[stackLast] = i - 1
				previousStateStack[stackLast] = state
			}
			if dirProp == FSI {
				p.dirProps[i-1] = LRI // default if no strong char
				state = seekingStrongForFSI
			} else {
				state = lookingForPDI
			}
		case dirProp == PDI:
			if state == seekingStrongForFSI && stackLast <= int(MaxExplicitLevel) {
				p.flags |= bit(LRI)
			}
			if stackLast >= 0 {
				if stackLast <= int(MaxExplicitLevel) {
					state = previousStateStack[stackLast]
				}
				stackLast--
			}
		case dirProp == B:
			if i < p.originalLength && r == charCR && rune(p.text[i]) == charLF {
				continue // CR+LF is a single paragraph separator
			}
			current().limit = i
			if isDefaultLevelInverse && lastStrong == R {
				current().level = 1
			}
			if streaming {
				p.length = i
				p.controlCount = controlCount
			}
			if i < p.originalLength { // B is not the last character
				if isDefaultLevel {
					p.paras = append(p.paras, paraInfo{level: defaultParaLevel})
					state = seekingStrongForPara
					lastStrong = Class(defaultParaLevel)
				} else {
					p.paras = append(p.paras, paraInfo{level: p.paraLevel})
					state = notSeekingStrong
				}
				stackLast = -1
			}
		}
	}
	// ignore still open isolate sequences with overflow
	if stackLast > int(MaxExplicitLevel) {
		stackLast = int(MaxExplicitLevel)
		state = seekingStrongForFSI
	}
	// resolve the direction of still unresolved open FSI sequences
	for stackLast >= 0 {
		if state == seekingStrongForFSI {
			p.flags |= bit(LRI)
			break
		}
		state = previousStateStack[stackLast]
		stackLast--
	}
	if streaming {
		// ignore text after the last paragraph separator
		if p.length < p.originalLength {
			p.paras = p.paras[:len(p.paras)-1]
		}
	} else {
		current().limit = p.originalLength
		p.controlCount = controlCount
	}
	// for inverse bidi, the default paragraph level is RTL if there is
	// a strong R or AL at either end of the paragraph
	if isDefaultLevelInverse && lastStrong == R && len(p.paras) > 0 {
		current().level = 1
	}
	if isDefaultLevel && len(p.paras) > 0 {
		p.paraLevel = p.paras[0].level
	}
	// resolve the text direction for paragraphs without strong characters
	for _, para := range p.paras {
		p.flags |= flagForLevel(para.level)
	}
	if p.orderParagraphsLTR && p.flags.has(B) {
		p.flags |= bit(L)
	}
}

// ProcessedLength returns the number of code units which have been processed.
// It differs from the length of the text only if OptionStreaming is set, in
// which case text after the last paragraph separator is not processed.
func (p *Paragraph) ProcessedLength() int {
	return p.length
}

// ParagraphCount returns the number of paragraphs in the text.
func (p *Paragraph) ParagraphCount() int {
	return len(p.paras)
}

// ParagraphAt returns the start, limit and level of paragraph number i.
func (p *Paragraph) ParagraphAt(i int) (start, limit int, level Level, err error) {
	if !p.resolved {
		return 0, 0, 0, ErrNotResolved
	}
	if i < 0 || i >= len(p.paras) {
		return 0, 0, 0, fmt.Errorf("paragraph %d of %d: %w", i, len(p.paras), ErrInvalidRange)
	}
	if i > 0 {
		start = p.paras[i-1].limit
	}
	return start, p.paras[i].limit, p.paras[i].level, nil
}

// paragraphIndex returns the index of the paragraph containing position pos.
func (p *Paragraph) paragraphIndex(pos int) int {
	for i, para := range p.paras {
		if pos < para.limit {
			return i
		}
	}
	return len(p.paras) - 1
}

// RequiresBidi checks if a text contains characters which require running
// the bidi algorithm, i.e. strong RTL characters, Arabic numbers or RTL
// embeddings and overrides.
func RequiresBidi(text string) bool {
	return requiresBidi(text, defaultClassifier)
}

func requiresBidi(text string, c Classifier) bool {
	for _, r := range text {
		if bit(c.Class(r))&maskRTLBidi != 0 {
			return true
		}
	}
	return false
}

func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	s = s[:n]
	clear(s)
	return s
}
