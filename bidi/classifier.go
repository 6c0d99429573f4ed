package bidi

import (
	"sort"
	"unicode"

	xbidi "golang.org/x/text/unicode/bidi"
)

// Classifier provides the Unicode character properties the bidi algorithm
// depends on. Clients may supply their own classifier to customize bidi
// classes, e.g., for testing or for private use characters.
type Classifier interface {
	Class(r rune) Class                       // Bidi_Class
	Mirror(r rune) rune                       // Bidi_Mirroring_Glyph, or r
	PairedBracket(r rune) (rune, BracketType) // Bidi_Paired_Bracket and its type
	IsCombiningMark(r rune) bool              // general category Mn, Mc or Me
}

// BracketType is the Bidi_Paired_Bracket_Type property.
type BracketType uint8

// Bracket types
const (
	BracketNone BracketType = iota
	BracketOpen
	BracketClose
)

type bracketPair struct {
	o rune
	c rune
}

type mirrorPair struct {
	r rune
	m rune
}

// mapping of x/text bidi classes to ours
var xtextClasses = [...]Class{
	xbidi.L:   L,
	xbidi.R:   R,
	xbidi.EN:  EN,
	xbidi.ES:  ES,
	xbidi.ET:  ET,
	xbidi.AN:  AN,
	xbidi.CS:  CS,
	xbidi.B:   B,
	xbidi.S:   S,
	xbidi.WS:  WS,
	xbidi.ON:  ON,
	xbidi.BN:  BN,
	xbidi.NSM: NSM,
	xbidi.AL:  AL,
	xbidi.LRO: LRO,
	xbidi.RLO: RLO,
	xbidi.LRE: LRE,
	xbidi.RLE: RLE,
	xbidi.PDF: PDF,
	xbidi.LRI: LRI,
	xbidi.RLI: RLI,
	xbidi.FSI: FSI,
	xbidi.PDI: PDI,
}

type unicodeClassifier struct {
	testing bool
}

var (
	defaultClassifier = unicodeClassifier{}
	testingClassifier = unicodeClassifier{testing: true}
)

// DefaultClassifier returns a classifier backed by the Unicode Character Database.
func DefaultClassifier() Classifier {
	return defaultClassifier
}

// TestingClassifier returns a classifier which treats ASCII uppercase letters
// as having class R. This is a common pattern in bidi algorithm development.
func TestingClassifier() Classifier {
	return testingClassifier
}

func (uc unicodeClassifier) Class(r rune) Class {
	if uc.testing && r >= 'A' && r <= 'Z' {
		return R
	}
	props, sz := xbidi.LookupRune(r)
	if sz == 0 {
		return ON
	}
	c := props.Class()
	if int(c) >= len(xtextClasses) {
		return ON
	}
	return xtextClasses[c]
}

func (uc unicodeClassifier) Mirror(r rune) rune {
	i := sort.Search(len(mirrorPairs), func(i int) bool {
		return mirrorPairs[i].r >= r
	})
	if i < len(mirrorPairs) && mirrorPairs[i].r == r {
		return mirrorPairs[i].m
	}
	return r
}

func (uc unicodeClassifier) PairedBracket(r rune) (rune, BracketType) {
	i := sort.Search(len(bracketPairs), func(i int) bool {
		return bracketPairs[i].o >= r
	})
	if i < len(bracketPairs) && bracketPairs[i].o == r {
		return bracketPairs[i].c, BracketOpen
	}
	i = sort.Search(len(bracketClosers), func(i int) bool {
		return bracketClosers[i].c >= r
	})
	if i < len(bracketClosers) && bracketClosers[i].c == r {
		return bracketClosers[i].o, BracketClose
	}
	return r, BracketNone
}

func (uc unicodeClassifier) IsCombiningMark(r rune) bool {
	return unicode.In(r, unicode.Mn, unicode.Mc, unicode.Me)
}
