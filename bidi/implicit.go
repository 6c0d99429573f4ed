package bidi

import "fmt"

// --- Implicit levels -------------------------------------------------------

// The implicit rules (W1–W7, N1–N2, I1–I2) are applied in a single pass
// over a level run, using two state machines. The first one groups
// characters into sequences of equal reduced properties (properties table).
// The second one assigns levels to these sequences (levels tables). Both
// need a look-ahead of typically one sequence, except for W5 (sequences of
// ET). Changes by a rule Wp affecting a later Wq (p<q) are tracked in the
// states.

// reduced properties
const (
	propL uint8 = iota
	propR
	propEN
	propAN
	propON
	propS
	propB
)

// groupProp maps classes to columns of the properties table.
var groupProp = [classCount]uint8{
	//  L  R  EN ES ET AN CS B  S  WS ON LRE LRO AL RLE RLO PDF NSM BN FSI LRI RLI PDI ENL ENR
	0, 1, 2, 7, 8, 3, 9, 6, 5, 4, 4, 10, 10, 12, 10, 10, 10, 11, 10, 4, 4, 4, 4, 13, 14,
}

const propsRes = 15 // column of the reduced property assigned to a sequence

// Cells of the properties table hold the next state in bits 0..4 and an
// action in bits 5..7:
//
//	1  process current sequence 1, init new sequence 1
//	2  init new sequence 2
//	3  process sequence 1, process sequence 2, init new sequence 1
//	4  process sequence 1, set sequence 1 to sequence 2, init new sequence 2
//
// The ON column groups ON, WS, FSI, LRI, RLI and PDI. The BN column groups
// BN, LRE, RLE, LRO, RLO and PDF. Numbers are assembled as one sequence,
// undefined situations (like CS following digits) are held until following
// characters define them.
var impTabProps = [24][16]uint8{
	/*                       L       R      EN      AN      ON       S       B      ES      ET      CS      BN     NSM      AL     ENL     ENR     Res */
	/*  0 Init        */ {1, 2, 4, 5, 7, 15, 17, 7, 9, 7, 0, 7, 3, 18, 21, propON},
	/*  1 L           */ {1, 32 + 2, 32 + 4, 32 + 5, 32 + 7, 32 + 15, 32 + 17, 32 + 7, 32 + 9, 32 + 7, 1, 1, 32 + 3, 32 + 18, 32 + 21, propL},
	/*  2 R           */ {32 + 1, 2, 32 + 4, 32 + 5, 32 + 7, 32 + 15, 32 + 17, 32 + 7, 32 + 9, 32 + 7, 2, 2, 32 + 3, 32 + 18, 32 + 21, propR},
	/*  3 AL          */ {32 + 1, 32 + 2, 32 + 6, 32 + 6, 32 + 8, 32 + 16, 32 + 17, 32 + 8, 32 + 8, 32 + 8, 3, 3, 3, 32 + 18, 32 + 21, propR},
	/*  4 EN          */ {32 + 1, 32 + 2, 4, 32 + 5, 32 + 7, 32 + 15, 32 + 17, 64 + 10, 11, 64 + 10, 4, 4, 32 + 3, 18, 21, propEN},
	/*  5 AN          */ {32 + 1, 32 + 2, 32 + 4, 5, 32 + 7, 32 + 15, 32 + 17, 32 + 7, 32 + 9, 64 + 12, 5, 5, 32 + 3, 32 + 18, 32 + 21, propAN},
	/*  6 AL:EN/AN    */ {32 + 1, 32 + 2, 6, 6, 32 + 8, 32 + 16, 32 + 17, 32 + 8, 32 + 8, 64 + 13, 6, 6, 32 + 3, 18, 21, propAN},
	/*  7 ON          */ {32 + 1, 32 + 2, 32 + 4, 32 + 5, 7, 32 + 15, 32 + 17, 7, 64 + 14, 7, 7, 7, 32 + 3, 32 + 18, 32 + 21, propON},
	/*  8 AL:ON       */ {32 + 1, 32 + 2, 32 + 6, 32 + 6, 8, 32 + 16, 32 + 17, 8, 8, 8, 8, 8, 32 + 3, 32 + 18, 32 + 21, propON},
	/*  9 ET          */ {32 + 1, 32 + 2, 4, 32 + 5, 7, 32 + 15, 32 + 17, 7, 9, 7, 9, 9, 32 + 3, 18, 21, propON},
	/* 10 EN+ES/CS    */ {96 + 1, 96 + 2, 4, 96 + 5, 128 + 7, 96 + 15, 96 + 17, 128 + 7, 128 + 14, 128 + 7, 10, 128 + 7, 96 + 3, 18, 21, propEN},
	/* 11 EN+ET       */ {32 + 1, 32 + 2, 4, 32 + 5, 32 + 7, 32 + 15, 32 + 17, 32 + 7, 11, 32 + 7, 11, 11, 32 + 3, 18, 21, propEN},
	/* 12 AN+CS       */ {96 + 1, 96 + 2, 96 + 4, 5, 128 + 7, 96 + 15, 96 + 17, 128 + 7, 128 + 14, 128 + 7, 12, 128 + 7, 96 + 3, 96 + 18, 96 + 21, propAN},
	/* 13 AL:EN/AN+CS */ {96 + 1, 96 + 2, 6, 6, 128 + 8, 96 + 16, 96 + 17, 128 + 8, 128 + 8, 128 + 8, 13, 128 + 8, 96 + 3, 18, 21, propAN},
	/* 14 ON+ET       */ {32 + 1, 32 + 2, 128 + 4, 32 + 5, 7, 32 + 15, 32 + 17, 7, 14, 7, 14, 14, 32 + 3, 128 + 18, 128 + 21, propON},
	/* 15 S           */ {32 + 1, 32 + 2, 32 + 4, 32 + 5, 32 + 7, 15, 32 + 17, 32 + 7, 32 + 9, 32 + 7, 15, 32 + 7, 32 + 3, 32 + 18, 32 + 21, propS},
	/* 16 AL:S        */ {32 + 1, 32 + 2, 32 + 6, 32 + 6, 32 + 8, 16, 32 + 17, 32 + 8, 32 + 8, 32 + 8, 16, 32 + 8, 32 + 3, 32 + 18, 32 + 21, propS},
	/* 17 B           */ {32 + 1, 32 + 2, 32 + 4, 32 + 5, 32 + 7, 32 + 15, 17, 32 + 7, 32 + 9, 32 + 7, 17, 32 + 7, 32 + 3, 32 + 18, 32 + 21, propB},
	/* 18 ENL         */ {32 + 1, 32 + 2, 18, 32 + 5, 32 + 7, 32 + 15, 32 + 17, 64 + 19, 20, 64 + 19, 18, 18, 32 + 3, 18, 21, propL},
	/* 19 ENL+ES/CS   */ {96 + 1, 96 + 2, 18, 96 + 5, 128 + 7, 96 + 15, 96 + 17, 128 + 7, 128 + 14, 128 + 7, 19, 128 + 7, 96 + 3, 18, 21, propL},
	/* 20 ENL+ET      */ {32 + 1, 32 + 2, 18, 32 + 5, 32 + 7, 32 + 15, 32 + 17, 32 + 7, 20, 32 + 7, 20, 20, 32 + 3, 18, 21, propL},
	/* 21 ENR         */ {32 + 1, 32 + 2, 21, 32 + 5, 32 + 7, 32 + 15, 32 + 17, 64 + 22, 23, 64 + 22, 21, 21, 32 + 3, 18, 21, propAN},
	/* 22 ENR+ES/CS   */ {96 + 1, 96 + 2, 21, 96 + 5, 128 + 7, 96 + 15, 96 + 17, 128 + 7, 128 + 14, 128 + 7, 22, 128 + 7, 96 + 3, 18, 21, propAN},
	/* 23 ENR+ET      */ {32 + 1, 32 + 2, 21, 32 + 5, 32 + 7, 32 + 15, 32 + 17, 32 + 7, 23, 32 + 7, 23, 23, 32 + 3, 18, 21, propAN},
}

// Cells of the levels tables hold the next state in bits 0..3 and an action
// in bits 4..7. State 0 is the initial state. The Res column is the
// increment to add to the run level for a sequence. Sequences which cannot
// be assigned a final level until following sequences are known (e.g., ON
// after R in an even-level paragraph) are held in a conditional state.
// S is handled like ON, as its level will be fixed by adjustWSLevels.
type impTab [][8]uint8

const levelsRes = 7

// impTabPair holds the tables for even and odd run levels. impact maps the
// local action numbers of a table to the list of actions in processPropertySeq.
type impTabPair struct {
	imptab [2]impTab
	impact [2][]uint8
}

// even paragraph level; conditional sequences receive the lower possible level until proven otherwise
var impTabLDefault = impTab{
	/*                   L     R    EN    AN    ON     S     B  Res */
	/* 0 init       */ {0, 1, 0, 2, 0, 0, 0, 0},
	/* 1 R          */ {0, 1, 3, 3, 0x14, 0x14, 0, 1},
	/* 2 AN         */ {0, 1, 0, 2, 0x15, 0x15, 0, 2},
	/* 3 R+EN/AN    */ {0, 1, 3, 3, 0x14, 0x14, 0, 2},
	/* 4 R+ON       */ {0, 0x21, 0x33, 0x33, 4, 4, 0, 0},
	/* 5 AN+ON      */ {0, 0x21, 0, 0x32, 5, 5, 0, 0},
}

// odd paragraph level
var impTabRDefault = impTab{
	/*                   L     R    EN    AN    ON     S     B  Res */
	/* 0 init       */ {1, 0, 2, 2, 0, 0, 0, 0},
	/* 1 L          */ {1, 0, 1, 3, 0x14, 0x14, 0, 1},
	/* 2 EN/AN      */ {1, 0, 2, 2, 0, 0, 0, 1},
	/* 3 L+AN       */ {1, 0, 1, 3, 5, 5, 0, 1},
	/* 4 L+ON       */ {0x21, 0, 0x21, 3, 4, 4, 0, 0},
	/* 5 L+AN+ON    */ {1, 0, 1, 3, 5, 5, 0, 0},
}

var impTabLNumbersSpecial = impTab{
	/*                   L     R    EN    AN    ON     S     B  Res */
	/* 0 init       */ {0, 2, 0x11, 0x11, 0, 0, 0, 0},
	/* 1 L+EN/AN    */ {0, 0x42, 1, 1, 0, 0, 0, 0},
	/* 2 R          */ {0, 2, 4, 4, 0x13, 0x13, 0, 1},
	/* 3 R+ON       */ {0, 0x22, 0x34, 0x34, 3, 3, 0, 0},
	/* 4 R+EN/AN    */ {0, 2, 4, 4, 0x13, 0x13, 0, 2},
}

// EN/AN+ON sequences receive levels as if associated with R until proven that there is L or sor/eor on both sides
var impTabLGroupNumbersWithR = impTab{
	/*                   L     R    EN    AN    ON     S     B  Res */
	/* 0 init       */ {0, 3, 0x11, 0x11, 0, 0, 0, 0},
	/* 1 EN/AN      */ {0x20, 3, 1, 1, 2, 0x20, 0x20, 2},
	/* 2 EN/AN+ON   */ {0x20, 3, 1, 1, 2, 0x20, 0x20, 1},
	/* 3 R          */ {0, 3, 5, 5, 0x14, 0, 0, 1},
	/* 4 R+ON       */ {0x20, 3, 5, 5, 4, 0x20, 0x20, 1},
	/* 5 R+EN/AN    */ {0, 3, 5, 5, 0x14, 0, 0, 2},
}

var impTabRGroupNumbersWithR = impTab{
	/*                   L     R    EN    AN    ON     S     B  Res */
	/* 0 init       */ {2, 0, 1, 1, 0, 0, 0, 0},
	/* 1 EN/AN      */ {2, 0, 1, 1, 0, 0, 0, 1},
	/* 2 L          */ {2, 0, 0x14, 0x14, 0x13, 0, 0, 1},
	/* 3 L+ON       */ {0x22, 0, 4, 4, 3, 0, 0, 0},
	/* 4 L+EN/AN    */ {0x22, 0, 4, 4, 3, 0, 0, 1},
}

// like the default tables, but EN and AN are handled like L
var impTabLInverseNumbersAsL = impTab{
	/*                   L     R    EN    AN    ON     S     B  Res */
	/* 0 init       */ {0, 1, 0, 0, 0, 0, 0, 0},
	/* 1 R          */ {0, 1, 0, 0, 0x14, 0x14, 0, 1},
	/* 2 AN         */ {0, 1, 0, 0, 0x15, 0x15, 0, 2},
	/* 3 R+EN/AN    */ {0, 1, 0, 0, 0x14, 0x14, 0, 2},
	/* 4 R+ON       */ {0x20, 1, 0x20, 0x20, 4, 4, 0x20, 1},
	/* 5 AN+ON      */ {0x20, 1, 0x20, 0x20, 5, 5, 0x20, 1},
}

var impTabRInverseNumbersAsL = impTab{
	/*                   L     R    EN    AN    ON     S     B  Res */
	/* 0 init       */ {1, 0, 1, 1, 0, 0, 0, 0},
	/* 1 L          */ {1, 0, 1, 1, 0x14, 0x14, 0, 1},
	/* 2 EN/AN      */ {1, 0, 1, 1, 0, 0, 0, 1},
	/* 3 L+AN       */ {1, 0, 1, 1, 5, 5, 0, 1},
	/* 4 L+ON       */ {0x21, 0, 0x21, 0x21, 4, 4, 0, 0},
	/* 5 L+AN+ON    */ {1, 0, 1, 1, 5, 5, 0, 0},
}

var impTabRInverseLikeDirect = impTab{
	/*                   L     R    EN    AN    ON     S     B  Res */
	/* 0 init       */ {1, 0, 2, 2, 0, 0, 0, 0},
	/* 1 L          */ {1, 0, 1, 2, 0x13, 0x13, 0, 1},
	/* 2 EN/AN      */ {1, 0, 2, 2, 0, 0, 0, 1},
	/* 3 L+ON       */ {0x21, 0x30, 6, 4, 3, 3, 0x30, 0},
	/* 4 L+ON+AN    */ {0x21, 0x30, 6, 4, 5, 5, 0x30, 3},
	/* 5 L+AN+ON    */ {0x21, 0x30, 6, 4, 5, 5, 0x30, 2},
	/* 6 L+ON+EN    */ {0x21, 0x30, 6, 4, 3, 3, 0x30, 1},
}

// handles (visually) R EN L
var impTabLInverseLikeDirectWithMarks = impTab{
	/*                   L     R    EN    AN    ON     S     B  Res */
	/* 0 init       */ {0, 0x63, 0, 1, 0, 0, 0, 0},
	/* 1 L+AN       */ {0, 0x63, 0, 1, 0x12, 0x30, 0, 4},
	/* 2 L+AN+ON    */ {0x20, 0x63, 0x20, 1, 2, 0x30, 0x20, 3},
	/* 3 R          */ {0, 0x63, 0x55, 0x56, 0x14, 0x30, 0, 3},
	/* 4 R+ON       */ {0x30, 0x43, 0x55, 0x56, 4, 0x30, 0x30, 3},
	/* 5 R+EN       */ {0x30, 0x43, 5, 0x56, 0x14, 0x30, 0x30, 4},
	/* 6 R+AN       */ {0x30, 0x43, 0x55, 6, 0x14, 0x30, 0x30, 4},
}

// handles (visually) R EN L and R L AN L
var impTabRInverseLikeDirectWithMarks = impTab{
	/*                   L     R    EN    AN    ON     S     B  Res */
	/* 0 init       */ {0x13, 0, 1, 1, 0, 0, 0, 0},
	/* 1 R+EN/AN    */ {0x23, 0, 1, 1, 2, 0x40, 0, 1},
	/* 2 R+EN/AN+ON */ {0x23, 0, 1, 1, 2, 0x40, 0, 0},
	/* 3 L          */ {3, 0, 3, 0x36, 0x14, 0x40, 0, 1},
	/* 4 L+ON       */ {0x53, 0x40, 5, 0x36, 4, 0x40, 0x40, 0},
	/* 5 L+ON+EN    */ {0x53, 0x40, 5, 0x36, 4, 0x40, 0x40, 1},
	/* 6 L+AN       */ {0x53, 0x40, 6, 6, 4, 0x40, 0x40, 3},
}

// handles (visually) R EN L
var impTabLInverseForNumbersSpecialWithMarks = impTab{
	/*                   L     R    EN    AN    ON     S     B  Res */
	/* 0 init       */ {0, 0x62, 1, 1, 0, 0, 0, 0},
	/* 1 L+EN/AN    */ {0, 0x62, 1, 1, 0, 0x30, 0, 4},
	/* 2 R          */ {0, 0x62, 0x54, 0x54, 0x13, 0x30, 0, 3},
	/* 3 R+ON       */ {0x30, 0x42, 0x54, 0x54, 3, 0x30, 0x30, 3},
	/* 4 R+EN/AN    */ {0x30, 0x42, 4, 4, 0x13, 0x30, 0x30, 4},
}

var (
	impAct0 = []uint8{0, 1, 2, 3, 4}
	impAct1 = []uint8{0, 1, 13, 14}
	impAct2 = []uint8{0, 1, 2, 5, 6, 7, 8}
	impAct3 = []uint8{0, 1, 9, 10, 11, 12}
)

var (
	impTabDefault = &impTabPair{
		imptab: [2]impTab{impTabLDefault, impTabRDefault},
		impact: [2][]uint8{impAct0, impAct0},
	}
	impTabNumbersSpecial = &impTabPair{
		imptab: [2]impTab{impTabLNumbersSpecial, impTabRDefault},
		impact: [2][]uint8{impAct0, impAct0},
	}
	impTabGroupNumbersWithR = &impTabPair{
		imptab: [2]impTab{impTabLGroupNumbersWithR, impTabRGroupNumbersWithR},
		impact: [2][]uint8{impAct0, impAct0},
	}
	impTabInverseNumbersAsL = &impTabPair{
		imptab: [2]impTab{impTabLInverseNumbersAsL, impTabRInverseNumbersAsL},
		impact: [2][]uint8{impAct0, impAct0},
	}
	impTabInverseLikeDirect = &impTabPair{
		imptab: [2]impTab{impTabLDefault, impTabRInverseLikeDirect},
		impact: [2][]uint8{impAct0, impAct1},
	}
	impTabInverseLikeDirectWithMarks = &impTabPair{
		imptab: [2]impTab{impTabLInverseLikeDirectWithMarks, impTabRInverseLikeDirectWithMarks},
		impact: [2][]uint8{impAct2, impAct3},
	}
	impTabInverseForNumbersSpecial = &impTabPair{
		imptab: [2]impTab{impTabLNumbersSpecial, impTabRInverseLikeDirect},
		impact: [2][]uint8{impAct0, impAct1},
	}
	impTabInverseForNumbersSpecialWithMarks = &impTabPair{
		imptab: [2]impTab{impTabLInverseForNumbersSpecialWithMarks, impTabRInverseLikeDirectWithMarks},
		impact: [2][]uint8{impAct2, impAct3},
	}
)

// selectImpTabPair chooses the levels tables for the current reordering mode.
func (p *Paragraph) selectImpTabPair() *impTabPair {
	marks := p.options&OptionInsertMarks != 0
	switch p.mode {
	case ModeNumbersSpecial:
		return impTabNumbersSpecial
	case ModeGroupNumbersWithR:
		return impTabGroupNumbersWithR
	case ModeInverseNumbersAsL:
		return impTabInverseNumbersAsL
	case ModeInverseLikeDirect:
		if marks {
			return impTabInverseLikeDirectWithMarks
		}
		return impTabInverseLikeDirect
	case ModeInverseForNumbersSpecial:
		if marks {
			return impTabInverseForNumbersSpecialWithMarks
		}
		return impTabInverseForNumbersSpecial
	}
	return impTabDefault
}

// levState is the state of the levels state machine.
type levState struct {
	impTab        impTab
	impAct        []uint8
	startON       int   // start of ON sequence
	startL2EN     int   // start of level 2 sequence
	lastStrongRTL int   // index of last found R or AL
	runStart      int   // start position of the run
	state         uint8 // current state
	runLevel      Level // run level before implicit solving
}

// isoState holds the state of the implicit resolution when it is
// interrupted by an isolate sequence, in order to resume it at the
// matching PDI.
type isoState struct {
	startON  int
	start1   int
	stateImp uint8
	state    uint8
}

// setLevelsOutsideIsolates sets the level of characters in [start, limit)
// which are not enclosed in an isolate.
func (p *Paragraph) setLevelsOutsideIsolates(start, limit int, level Level) {
	isolates := 0
	for k := start; k < limit; k++ {
		dirProp := p.dirProps[k]
		if dirProp == PDI {
			isolates--
		}
		if isolates == 0 {
			p.levels[k] = level
		}
		if dirProp == LRI || dirProp == RLI {
			isolates++
		}
	}
}

// processPropertySeq feeds a sequence of characters with a common reduced
// property into the levels state machine.
func (p *Paragraph) processPropertySeq(ls *levState, prop uint8, start, limit int) {
	start0 := start // original start position
	oldStateSeq := ls.state
	cell := ls.impTab[oldStateSeq][prop]
	ls.state = cell & 0x0f
	actionSeq := ls.impAct[cell>>4]
	addLevel := ls.impTab[ls.state][levelsRes]
	ip := &p.insertPoints
	switch actionSeq {
	case 0:
	case 1: // init ON sequence
		ls.startON = start0
	case 2: // prepend ON sequence to current sequence
		start = ls.startON
	case 3: // EN/AN after R+ON
		p.setLevelsOutsideIsolates(ls.startON, start0, ls.runLevel+1)
	case 4: // EN/AN before R for numbers-special
		p.setLevelsOutsideIsolates(ls.startON, start0, ls.runLevel+2)
	case 5: // L or S after possible relevant EN/AN
		if ls.startL2EN >= 0 { // EN after R/AL
			ip.add(ls.startL2EN, lrmBefore)
		}
		ls.startL2EN = -1
		if len(ip.points) <= ip.confirmed { // no relevant EN/AN after R/AL
			ls.lastStrongRTL = -1
			// check for a pending conditional segment
			if level := ls.impTab[oldStateSeq][levelsRes]; level&1 != 0 && ls.startON > 0 {
				start = ls.startON // reset to basic run level
			}
			if prop == propS { // add LRM before S
				ip.add(start0, lrmBefore)
				ip.confirm()
			}
			break
		}
		// reset previous RTL continuation to level for LTR text
		for k := ls.lastStrongRTL + 1; k < start0; k++ {
			p.levels[k] = (p.levels[k] - 2) &^ 1 // leave runLevel+2 as is
		}
		ip.confirm()
		ls.lastStrongRTL = -1
		if prop == propS {
			ip.add(start0, lrmBefore)
			ip.confirm()
		}
	case 6: // R/AL after possible relevant EN/AN
		ip.discard()
		ls.startON = -1
		ls.startL2EN = -1
		ls.lastStrongRTL = limit - 1
	case 7: // EN/AN after R/AL + possible continuation
		if prop == propAN && p.dirProps[start0] == AN && p.mode != ModeInverseForNumbersSpecial {
			// real AN
			if ls.startL2EN == -1 { // no relevant EN found yet
				ls.lastStrongRTL = limit - 1 // note the rightmost digit as strong RTL
				break
			}
			if ls.startL2EN >= 0 { // after EN, no AN
				ip.add(ls.startL2EN, lrmBefore)
				ls.startL2EN = -2
			}
			ip.add(start0, lrmBefore)
			break
		}
		if ls.startL2EN == -1 { // first EN/AN after R/AL
			ls.startL2EN = start0
		}
	case 8: // note location of latest R/AL
		ls.lastStrongRTL = limit - 1
		ls.startON = -1
	case 9: // L after R+ON/EN/AN
		// include possible adjacent number on the left
		k := start0 - 1
		for k >= 0 && p.levels[k]&1 == 0 {
			k--
		}
		if k >= 0 {
			ip.add(k, rlmBefore)
			ip.confirm()
		}
		ls.startON = start0
	case 10: // AN after L
		// AN numbers between L text on both sides may be trouble; tentatively
		// bracket with LRMs, to be confirmed if followed by L
		ip.add(start0, lrmBefore)
		ip.add(start0, lrmAfter)
	case 11: // R after L+ON/EN/AN
		ip.discard() // false alert
		if prop == propS {
			ip.add(start0, rlmBefore)
			ip.confirm()
		}
	case 12: // L after L+ON/AN
		level := ls.runLevel + Level(addLevel)
		for k := ls.startON; k < start0; k++ {
			if p.levels[k] < level {
				p.levels[k] = level
			}
		}
		ip.confirm()
		ls.startON = start0
	case 13: // L after L+ON+EN/AN/ON
		level := ls.runLevel
		for k := start0 - 1; k >= ls.startON && k >= 0; k-- {
			if p.levels[k] == level+3 {
				for k >= 0 && p.levels[k] == level+3 {
					p.levels[k] -= 2
					k--
				}
				for k >= 0 && p.levels[k] == level {
					k--
				}
			}
			if k < 0 {
				break
			}
			if p.levels[k] == level+2 {
				p.levels[k] = level
				continue
			}
			p.levels[k] = level + 1
		}
	case 14: // R after L+ON+EN/AN/ON
		level := ls.runLevel + 1
		for k := start0 - 1; k >= ls.startON; k-- {
			if p.levels[k] > level {
				p.levels[k] -= 2
			}
		}
	default:
		panic(fmt.Sprintf("bidi: undefined action %d in levels table", actionSeq))
	}
	if addLevel != 0 || start < start0 {
		level := ls.runLevel + Level(addLevel)
		if start >= ls.runStart {
			for k := start; k < limit; k++ {
				p.levels[k] = level
			}
		} else {
			p.setLevelsOutsideIsolates(start, limit, level)
		}
	}
}

// lastNonBN returns the index of the last character in (start, limit) not
// removed by X9, or start.
func (p *Paragraph) lastNonBN(start, limit int) int {
	k := limit - 1
	for k > start && bit(p.dirProps[k])&maskBNExpl != 0 {
		k--
	}
	return k
}

// resolveImplicitLevels applies the rules W1–I2 to a level run. sor and eor
// are the classes at the start and end of the run (L or R).
func (p *Paragraph) resolveImplicitLevels(start, limit int, sor, eor Class) {
	// for RTL inverse bidi, AL before EN does not make it AN
	inverseRTL := start < p.lastArabicPos && p.paraLevelAt(start)&1 != 0 &&
		(p.mode == ModeInverseLikeDirect || p.mode == ModeInverseForNumbersSpecial)
	runLevel := p.levels[start]
	ls := levState{
		startL2EN:     -1, // used for inverse-like-direct with marks
		lastStrongRTL: -1,
		runStart:      start,
		runLevel:      runLevel,
		impTab:        p.impTabPair.imptab[runLevel&1],
		impAct:        p.impTabPair.impact[runLevel&1],
	}
	var start1, start2 int
	var stateImp uint8
	if p.dirProps[start] == PDI && p.isolateCount >= 0 {
		// resume in the state interrupted by the isolate sequence
		iso := p.isolates[p.isolateCount]
		ls.startON = iso.startON
		start1 = iso.start1
		stateImp = iso.stateImp
		ls.state = iso.state
		p.isolateCount--
	} else {
		ls.startON = -1
		start1 = start
		if p.dirProps[start] == NSM {
			stateImp = 1 + uint8(sor)
		}
		p.processPropertySeq(&ls, uint8(sor), start, start)
	}
	start2 = start
	nextStrongProp, nextStrongPos := R, -1
	for i := start; i <= limit; i++ {
		var gprop uint8
		if i >= limit {
			if k := p.lastNonBN(start, limit); p.dirProps[k] == LRI || p.dirProps[k] == RLI {
				break // no forced closing for sequence ending with LRI/RLI
			}
			gprop = uint8(eor)
		} else {
			prop := p.dirProps[i]
			if prop == B {
				p.isolateCount = -1 // no current isolates stack entry
			}
			if inverseRTL {
				if prop == AL {
					prop = R
				} else if prop == EN {
					if nextStrongPos <= i { // look for next strong char
						nextStrongProp, nextStrongPos = R, limit
						for j := i + 1; j < limit; j++ {
							if c := p.dirProps[j]; c == L || c == R || c == AL {
								nextStrongProp, nextStrongPos = c, j
								break
							}
						}
					}
					if nextStrongProp == AL {
						prop = AN
					}
				}
			}
			gprop = groupProp[prop]
		}
		oldStateImp := stateImp
		cell := impTabProps[oldStateImp][gprop]
		stateImp = cell & 0x1f
		actionImp := cell >> 5
		if i == limit && actionImp == 0 {
			actionImp = 1 // process the last sequence
		}
		if actionImp == 0 {
			continue
		}
		resProp := impTabProps[oldStateImp][propsRes]
		switch actionImp {
		case 1: // process current sequence 1, init new sequence 1
			p.processPropertySeq(&ls, resProp, start1, i)
			start1 = i
		case 2: // init new sequence 2
			start2 = i
		case 3: // process sequence 1, process sequence 2, init new sequence 1
			p.processPropertySeq(&ls, resProp, start1, start2)
			p.processPropertySeq(&ls, propON, start2, i)
			start1 = i
		case 4: // process sequence 1, set sequence 1 to sequence 2, init new sequence 2
			p.processPropertySeq(&ls, resProp, start1, start2)
			start1 = start2
			start2 = i
		}
	}
	k := p.lastNonBN(start, limit)
	if dirProp := p.dirProps[k]; (dirProp == LRI || dirProp == RLI) && limit < p.length {
		p.isolateCount++
		if p.isolateCount >= len(p.isolates) {
			p.isolates = append(p.isolates, make([]isoState, p.isolateCount+1-len(p.isolates))...)
		}
		p.isolates[p.isolateCount] = isoState{
			startON:  ls.startON,
			start1:   start1,
			stateImp: stateImp,
			state:    ls.state,
		}
		return
	}
	p.processPropertySeq(&ls, uint8(eor), limit, limit)
}

// adjustWSLevels resets the embedding levels of whitespace and some
// non-graphic characters (L1). It also sets the levels of BN and of
// explicit embedding codes, which have been removed from the paragraph
// by X9.
func (p *Paragraph) adjustWSLevels() {
	if p.flags&maskWS == 0 {
		return
	}
	i := p.trailingWSStart
	for i > 0 {
		// reset a sequence of WS/BN before end of paragraph and B/S to the paragraph level
		for i > 0 {
			i--
			flag := bit(p.dirProps[i])
			if flag&maskWS == 0 {
				break
			}
			if p.orderParagraphsLTR && flag.has(B) {
				p.levels[i] = 0
			} else {
				p.levels[i] = p.paraLevelAt(i)
			}
		}
		// reset BN to the next character's level until B/S, which restarts
		// the loop above
		for i > 0 {
			i--
			flag := bit(p.dirProps[i])
			if flag&maskBNExpl != 0 {
				p.levels[i] = p.levels[i+1]
			} else if p.orderParagraphsLTR && flag.has(B) {
				p.levels[i] = 0
				break
			} else if flag&maskBS != 0 {
				p.levels[i] = p.paraLevelAt(i)
				break
			}
		}
	}
}
