/*
Package ucdparse provides a parser for Unicode Character Database files.

The format of UCD files is defined in http://www.unicode.org/reports/tr44/.
See http://www.unicode.org/Public/UCD/latest/ucd/ for example files. Each
data line starts with a code point or a range of code points, followed by
fields separated by ';' and an optional comment:

	0028; 0029; o # LEFT PARENTHESIS
	000E..001F;CM # Cc [18] <control-000E>..<control-001F>

Test files of the UCD have a different layout. They may be read line by line
with OpenTestFile.
*/
package ucdparse

import "fmt"

// Token is a type for communicating between the line-level scanner and the
// client. The scanner will read lines and wrap the content of data lines into
// tokens.
type Token struct {
	LineNo    int       // line of the item within the input source
	TokenType TokenType // type of token
	runeFrom  rune      // first/single rune
	runeTo    rune      // final rune of range (may be identical to runeFrom)
	Fields    []string  // content of the line after the code point(s), trimmed
	Comment   string    // rest-of-line comment of data item lines
	Error     error     // error condition, if any
}

// TokenType is the type of a data line.
type TokenType int8

// Token types
const (
	Undefined TokenType = iota
	SingleDataItem
	RangeDataItem
)

func (tt TokenType) String() string {
	switch tt {
	case SingleDataItem:
		return "single"
	case RangeDataItem:
		return "range"
	}
	return "undefined"
}

// newToken creates a token initialized with a line number.
func newToken(line int) *Token {
	return &Token{
		LineNo: line,
		Fields: []string{},
	}
}

func (token *Token) String() string {
	return fmt.Sprintf("token[at %d %#U..%#U type=%s %#v]", token.LineNo,
		token.runeFrom, token.runeTo, token.TokenType, token.Fields)
}

// Field gets field #i (1…n) from the current data item. Field #0 is the
// code point or range at the start of the line, and is available through
// Range.
func (token *Token) Field(i int) string {
	if i > 0 && i <= len(token.Fields) {
		return token.Fields[i-1]
	}
	return ""
}

// Range gets the character range from the current data item.
func (token *Token) Range() (from, to rune) {
	return token.runeFrom, token.runeTo
}
