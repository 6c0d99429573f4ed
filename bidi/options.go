package bidi

// Option configures a Paragraph.
type Option func(p *Paragraph)

// Testing will set up the paragraph to recognize UPPERCASE letters as having
// class R. This is a common pattern in bidi algorithm development.
func Testing(b bool) Option {
	return func(p *Paragraph) {
		if b {
			p.classifier = TestingClassifier()
		} else {
			p.classifier = DefaultClassifier()
		}
	}
}

// WithClassifier sets the source of character properties.
func WithClassifier(c Classifier) Option {
	return func(p *Paragraph) {
		if c != nil {
			p.classifier = c
		}
	}
}

// ReorderMode selects a variant of the reordering algorithm.
func ReorderMode(m Mode) Option {
	return func(p *Paragraph) {
		p.SetReorderingMode(m)
	}
}

// ReorderOptions sets additional reordering options, like inserting marks.
func ReorderOptions(o ReorderingOption) Option {
	return func(p *Paragraph) {
		p.SetReorderingOptions(o)
	}
}

// OrderParagraphsLTR makes paragraph separators resolve to level 0, keeping
// multiple paragraphs in logical order relative to each other.
func OrderParagraphsLTR(b bool) Option {
	return func(p *Paragraph) {
		p.orderParagraphsLTR = b
	}
}

// WithEmbeddings supplies explicit embedding levels, one per UTF-16 code unit
// of the text. Explicit embedding codes in the text are then ignored.
// Each level must be between the paragraph level and MaxExplicitLevel,
// with an optional override flag. A level of 0 stands for the paragraph level.
// The slice is not copied and may be modified by the resolver.
func WithEmbeddings(levels []Embedding) Option {
	return func(p *Paragraph) {
		p.embeddings = levels
	}
}

// Embedding is an explicit embedding level supplied by a client.
type Embedding struct {
	Level    Level
	Override bool
}

func (e Embedding) level() Level {
	if e.Override {
		return e.Level | LevelOverride
	}
	return e.Level
}

// --- Reordering modes and options ------------------------------------------

// Mode is a reordering mode.
type Mode uint8

const (
	// ModeDefault is the standard algorithm.
	ModeDefault Mode = iota
	// ModeNumbersSpecial approximates the behaviour of Windows XP: numbers
	// following L stay with the L text.
	ModeNumbersSpecial
	// ModeGroupNumbersWithR keeps numbers next to R text grouped with it.
	ModeGroupNumbersWithR
	// ModeRunsOnly reorders complete runs, but not characters within them.
	ModeRunsOnly
	// ModeInverseNumbersAsL treats numbers like L text when reordering
	// visual text into logical order.
	ModeInverseNumbersAsL
	// ModeInverseLikeDirect applies the regular algorithm to visual text.
	ModeInverseLikeDirect
	// ModeInverseForNumbersSpecial is the inverse of ModeNumbersSpecial.
	ModeInverseForNumbersSpecial
)

func (m Mode) isInverse() bool {
	return m > ModeGroupNumbersWithR
}

var modeNames = [...]string{"default", "numbers-special", "group-numbers-with-r",
	"runs-only", "inverse-numbers-as-l", "inverse-like-direct", "inverse-for-numbers-special"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "mode(?)"
}

// ModeFromString returns the mode with the given name, as reported by Mode.String.
func ModeFromString(s string) (Mode, bool) {
	for i, n := range modeNames {
		if n == s {
			return Mode(i), true
		}
	}
	return ModeDefault, false
}

// ReorderingOption is a bit set of options for the reordering process.
type ReorderingOption uint8

const (
	// OptionInsertMarks inserts LRM and RLM marks where needed to preserve
	// the visual order during inverse reordering.
	OptionInsertMarks ReorderingOption = 1 << iota
	// OptionRemoveControls removes bidi controls from the output.
	OptionRemoveControls
	// OptionStreaming processes text up to the last paragraph separator only.
	OptionStreaming
)

// WriteOption is a bit set of options for WriteReordered.
type WriteOption uint16

const (
	// KeepBaseCombining keeps combining marks after their base character.
	KeepBaseCombining WriteOption = 1 << iota
	// DoMirroring replaces characters in RTL runs by their mirror images.
	DoMirroring
	// InsertLRMForNumeric surrounds runs of numeric characters with LRM marks.
	InsertLRMForNumeric
	// RemoveBidiControls drops bidi control characters from the output.
	RemoveBidiControls
	// OutputReverse writes the result in reverse order.
	OutputReverse
)

// insertion points for marks
const (
	lrmBefore uint8 = 1 << iota
	lrmAfter
	rlmBefore
	rlmAfter
)
