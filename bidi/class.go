package bidi

import "strconv"

// Class is a bidi character type (Bidi_Class property value).
//
// The order of the values is significant: state tables and bit masks
// are indexed by it.
type Class uint8

// Bidi classes as defined by UAX#9.
const (
	L   Class = iota // Left-to-Right
	R                // Right-to-Left
	EN               // European Number
	ES               // European Number Separator
	ET               // European Number Terminator
	AN               // Arabic Number
	CS               // Common Number Separator
	B                // Paragraph Separator
	S                // Segment Separator
	WS               // Whitespace
	ON               // Other Neutrals
	LRE              // Left-to-Right Embedding
	LRO              // Left-to-Right Override
	AL               // Right-to-Left Arabic
	RLE              // Right-to-Left Embedding
	RLO              // Right-to-Left Override
	PDF              // Pop Directional Format
	NSM              // Non-Spacing Mark
	BN               // Boundary Neutral
	FSI              // First Strong Isolate
	LRI              // Left-to-Right Isolate
	RLI              // Right-to-Left Isolate
	PDI              // Pop Directional Isolate

	// internal classes for european numbers in numbers-special mode
	enl // EN after L
	enr // EN after R or AL

	classCount
)

const classNames = "LRENESETANCSBSWSONLRELROALRLERLOPDFNSMBNFSILRIRLIPDIENLENR"

var classIndex = [...]uint8{0, 1, 2, 4, 6, 8, 10, 12, 13, 14, 16, 18, 21, 24, 26, 29, 32, 35, 38, 40, 43, 46, 49, 52, 55, 58}

// ClassString returns a bidi class as a string.
func ClassString(c Class) string {
	if c >= classCount {
		return "bidi_class(" + strconv.FormatInt(int64(c), 10) + ")"
	}
	return classNames[classIndex[c]:classIndex[c+1]]
}

func (c Class) String() string {
	return ClassString(c)
}

// --- Class sets ------------------------------------------------------------

// classSet is a bit set of bidi classes. A paragraph collects the classes
// of all its characters in a classSet, which enables fast paths for
// unidirectional text.
type classSet uint32

func bit(c Class) classSet {
	return 1 << c
}

func (cs classSet) has(c Class) bool {
	return cs&bit(c) != 0
}

// flagMultiRuns marks a paragraph whose levels may vary.
const flagMultiRuns classSet = 1 << 31

const (
	maskLTR      classSet = 1<<L | 1<<EN | 1<<enl | 1<<enr | 1<<AN | 1<<LRE | 1<<LRO | 1<<LRI
	maskRTL      classSet = 1<<R | 1<<AL | 1<<RLE | 1<<RLO | 1<<RLI
	maskRAL      classSet = 1<<R | 1<<AL
	maskRTLBidi  classSet = 1<<R | 1<<AL | 1<<RLE | 1<<RLO | 1<<AN
	maskExplicit classSet = 1<<LRE | 1<<LRO | 1<<RLE | 1<<RLO | 1<<PDF
	maskBNExpl   classSet = 1<<BN | maskExplicit
	maskIsolate  classSet = 1<<LRI | 1<<RLI | 1<<FSI | 1<<PDI
	maskBS       classSet = 1<<B | 1<<S
	maskWS       classSet = maskBS | 1<<WS | maskBNExpl | maskIsolate
	maskNeutral  classSet = 1<<ON | 1<<CS | 1<<ES | 1<<ET | maskWS
	maskEmbed    classSet = 1<<NSM | maskNeutral
)

var (
	flagLR = [2]classSet{bit(L), bit(R)}
	flagE  = [2]classSet{bit(LRE), bit(RLE)}
	flagO  = [2]classSet{bit(LRO), bit(RLO)}
)

// flagForLevel returns the strong class bit matching the direction of a level.
func flagForLevel(l Level) classSet {
	return flagLR[l&1]
}

func strongDirFromClass(c Class) Class {
	if c == L {
		return L
	}
	return R
}

// --- Levels ----------------------------------------------------------------

// Level is an embedding level. Odd levels are right-to-left, even levels
// left-to-right. Levels supplied by clients may carry LevelOverride.
type Level uint8

const (
	// LevelDefaultLTR lets the first strong character determine the paragraph
	// level, defaulting to 0 if there is none.
	LevelDefaultLTR Level = 0x7e
	// LevelDefaultRTL lets the first strong character determine the paragraph
	// level, defaulting to 1 if there is none.
	LevelDefaultRTL Level = 0x7f
	// MaxExplicitLevel is the maximum explicit embedding level.
	MaxExplicitLevel Level = 125
	// LevelOverride flags a level as directional override.
	LevelOverride Level = 0x80
)

// MapNowhere is the index map value for characters without counterpart,
// i.e. inserted marks or removed controls.
const MapNowhere = -1

// IsDefault is true for LevelDefaultLTR and LevelDefaultRTL.
func (l Level) IsDefault() bool {
	return l&LevelDefaultLTR == LevelDefaultLTR
}

// IsRTL is true for odd levels.
func (l Level) IsRTL() bool {
	return l&1 == 1
}

func (l Level) noOverride() Level {
	return l &^ LevelOverride
}

// Direction is the overall direction of a paragraph or line.
type Direction uint8

// Paragraphs and lines are either unidirectional or mixed.
const (
	LeftToRight Direction = iota
	RightToLeft
	Mixed
	Neutral
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "LTR"
	case RightToLeft:
		return "RTL"
	case Mixed:
		return "mixed"
	}
	return "neutral"
}

func directionForLevel(l Level) Direction {
	return Direction(l & 1)
}

// --- Special characters ----------------------------------------------------

const (
	charLRM rune = 0x200e
	charRLM rune = 0x200f
	charALM rune = 0x061c
	charLRE rune = 0x202a
	charRLE rune = 0x202b
	charPDF rune = 0x202c
	charLRO rune = 0x202d
	charRLO rune = 0x202e
	charLRI rune = 0x2066
	charRLI rune = 0x2067
	charFSI rune = 0x2068
	charPDI rune = 0x2069
	charCR  rune = 0x000d
	charLF  rune = 0x000a
)

// IsBidiControl is true for the bidi format characters (ZWJ, ZWNJ, LRM,
// RLM, embeddings, overrides and isolates). ALM is not considered a control.
func IsBidiControl(r rune) bool {
	return r&^3 == 0x200c || (r >= charLRE && r <= charRLO) || (r >= charLRI && r <= charPDI)
}
