package ucdparse

import (
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	input := strings.NewReader("000E..001F;CM     # Cc    [18] <control-000E>..<control-001F>")
	sc, err := New(input)
	if err != nil {
		t.Fatal(err)
	}
	if !sc.Next() {
		t.Fatalf("expected a data line, error is %v", sc.LastError)
	}
	t.Logf("token = %v", sc.Token)
	if sc.Token.Field(1) != "CM" {
		t.Errorf("expected field #1 to be 'CM', is %q", sc.Token.Field(1))
	}
	from, to := sc.Token.Range()
	if from != 0x0e || to != 0x1f {
		t.Errorf("expected range to be 0E..1F, is %02X..%02X", from, to)
	}
	if sc.Token.TokenType != RangeDataItem {
		t.Errorf("expected range item, is %s", sc.Token.TokenType)
	}
	if sc.Next() {
		t.Errorf("expected end of input, have %v", sc.Token)
	}
}

func TestParseBrackets(t *testing.T) {
	input := `# BidiBrackets-15.0.0.txt

0028; 0029; o # LEFT PARENTHESIS
0029; 0028; c # RIGHT PARENTHESIS
`
	var opening, closing int
	err := Parse(strings.NewReader(input), func(token *Token) {
		from, _ := token.Range()
		switch token.Field(2) {
		case "o":
			opening++
			if from != '(' || token.Field(1) != "0029" {
				t.Errorf("unexpected opening bracket %v", token)
			}
		case "c":
			closing++
		}
		if token.TokenType != SingleDataItem {
			t.Errorf("expected single item, is %s", token.TokenType)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if opening != 1 || closing != 1 {
		t.Errorf("expected 1 opening and 1 closing bracket, have %d and %d", opening, closing)
	}
}

func TestParseError(t *testing.T) {
	err := Parse(strings.NewReader("XYZ; foo\n"), func(*Token) {})
	if err == nil {
		t.Errorf("expected error for malformed line")
	}
}
