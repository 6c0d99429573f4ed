package ucdparse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// --- Line level scanner ----------------------------------------------------

// Scanner is a line-level scanner for UCD data files.
//
// The scanner operates by calling scanning steps in a chain, iteratively.
// Each step function tests for valid lookahead and then possibly branches out
// to a subsequent step function. Step functions may consume input characters.
type Scanner struct {
	buf       *lineBuffer // line buffer abstracts away properties of input readers
	LastError error       // last error, if any
	Token     *Token      // last token produced by scanner
}

// We're building up a scanner from chains of scanner step functions.
// Tokens may be modified by a step function.
// A scanner step will return the next step in the chain, or nil to stop/accept.
type scannerStep func(*Token) (*Token, scannerStep)

// New creates a scanner for an input reader.
func New(inputReader io.Reader) (*Scanner, error) {
	if inputReader == nil {
		return nil, errors.New("no input present")
	}
	return &Scanner{buf: newLineBuffer(inputReader)}, nil
}

// Parse iterates over each data line of the input and calls callback f on it.
func Parse(r io.Reader, f func(token *Token)) error {
	sc, err := New(r)
	if err != nil {
		return err
	}
	for sc.Next() {
		f(sc.Token)
	}
	return sc.LastError
}

// Next is called to receive the next line-level token. A token subsumes the
// properties of a data line of UCD input. Empty lines and comment lines are
// skipped.
//
// Next iterates over a chain of step functions until it reaches an accepting
// state. Acceptance is signalled by getting a nil-step return value from a
// step function. If a step function returns an error-signalling token, Next
// returns false and the error is available as LastError.
func (sc *Scanner) Next() bool {
	for sc.buf.advanceLine() {
		if sc.buf.isBlank() {
			continue
		}
		sc.Token = newToken(sc.buf.lineNo)
		var step scannerStep = sc.scanRuneRange
		for step != nil {
			sc.Token, step = step(sc.Token)
		}
		if sc.Token.Error != nil {
			sc.LastError = fmt.Errorf("line %d: %w", sc.buf.lineNo, sc.Token.Error)
			return false
		}
		return true
	}
	if err := sc.buf.err(); err != nil {
		sc.LastError = err
	}
	return false
}

// scanRuneRange matches a single code point or a range of code points.
//
//	0041       -> SingleDataItem
//	0041..005A -> RangeDataItem
func (sc *Scanner) scanRuneRange(token *Token) (*Token, scannerStep) {
	hex := sc.buf.matchWhile(isHexDigit)
	if hex == "" {
		token.Error = fmt.Errorf("expected code point, found %q", sc.buf.remainder())
		return token, nil
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		token.Error = fmt.Errorf("hex decoding error: %w", err)
		return token, nil
	}
	token.runeFrom, token.runeTo = rune(n), rune(n)
	if sc.buf.matchWhile(isDot) == "" {
		token.TokenType = SingleDataItem
		return token, sc.scanItemBody
	}
	if hex = sc.buf.matchWhile(isHexDigit); hex == "" {
		token.Error = fmt.Errorf("incomplete code point range at %#U", token.runeFrom)
		return token, nil
	}
	if n, err = strconv.ParseUint(hex, 16, 32); err != nil {
		token.Error = fmt.Errorf("hex decoding error: %w", err)
		return token, nil
	}
	token.runeTo = rune(n)
	token.TokenType = RangeDataItem
	return token, sc.scanItemBody
}

// scanItemBody splits the rest of the line into fields and a comment.
func (sc *Scanner) scanItemBody(token *Token) (*Token, scannerStep) {
	rest := sc.buf.remainder()
	a := strings.SplitN(rest, "#", 2)
	if len(a) > 1 {
		token.Comment = strings.TrimSpace(a[1])
	}
	body := strings.TrimSpace(a[0])
	body = strings.TrimPrefix(body, ";")
	if body == "" {
		return token, nil
	}
	for _, field := range strings.Split(body, ";") {
		token.Fields = append(token.Fields, strings.TrimSpace(field))
	}
	return token, nil
}

func isHexDigit(r byte) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isDot(r byte) bool {
	return r == '.'
}

// --- Line buffer -----------------------------------------------------------

// lineBuffer reads input line by line and keeps a cursor within the
// current line. UCD data lines are ASCII, apart from comments.
type lineBuffer struct {
	input  *bufio.Scanner
	line   string
	cursor int
	lineNo int
}

func newLineBuffer(r io.Reader) *lineBuffer {
	return &lineBuffer{input: bufio.NewScanner(r)}
}

func (buf *lineBuffer) advanceLine() bool {
	if !buf.input.Scan() {
		return false
	}
	buf.line = buf.input.Text()
	buf.cursor = 0
	buf.lineNo++
	return true
}

// isBlank is true for empty lines and comment lines.
func (buf *lineBuffer) isBlank() bool {
	l := strings.TrimSpace(buf.line)
	return l == "" || l[0] == '#'
}

func (buf *lineBuffer) skipSpace() {
	for buf.cursor < len(buf.line) && (buf.line[buf.cursor] == ' ' || buf.line[buf.cursor] == '\t') {
		buf.cursor++
	}
}

// matchWhile consumes characters as long as pred holds and returns them.
// Leading blanks are skipped.
func (buf *lineBuffer) matchWhile(pred func(byte) bool) string {
	buf.skipSpace()
	start := buf.cursor
	for buf.cursor < len(buf.line) && pred(buf.line[buf.cursor]) {
		buf.cursor++
	}
	return buf.line[start:buf.cursor]
}

func (buf *lineBuffer) remainder() string {
	rest := buf.line[buf.cursor:]
	buf.cursor = len(buf.line)
	return rest
}

func (buf *lineBuffer) err() error {
	return buf.input.Err()
}
