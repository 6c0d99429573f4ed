package ucdparse

import (
	"bufio"
	"os"
	"strings"
	"testing"
)

// TestFile reads UCD test files line by line, skipping comment lines.
type TestFile struct {
	in      *os.File
	scanner *bufio.Scanner
	text    string
	comment string
	lineNo  int
}

// OpenTestFile opens a UCD test file. If the file does not exist, the test
// is skipped: UCD test files are large and are not part of the repository.
// Use internal/testdata/download.go to fetch them.
func OpenTestFile(filename string, t *testing.T) *TestFile {
	t.Helper()
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			t.Skipf("test file %s not present", filename)
		}
		t.Fatalf("loading %s: %v", filename, err)
	}
	tf := &TestFile{in: f}
	tf.scanner = bufio.NewScanner(f)
	tf.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return tf
}

// Scan advances to the next non-comment line.
func (tf *TestFile) Scan() bool {
	for tf.scanner.Scan() {
		tf.lineNo++
		line := strings.TrimSpace(tf.scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		parts := strings.SplitN(line, "#", 2)
		tf.text, tf.comment = strings.TrimSpace(parts[0]), ""
		if len(parts) > 1 {
			tf.comment = strings.TrimSpace(parts[1])
		}
		return true
	}
	return false
}

// Text returns the current line without its comment.
func (tf *TestFile) Text() string {
	return tf.text
}

// Comment returns the comment of the current line.
func (tf *TestFile) Comment() string {
	return tf.comment
}

// LineNo returns the line number of the current line.
func (tf *TestFile) LineNo() int {
	return tf.lineNo
}

// Err returns the first non-EOF error encountered while scanning.
func (tf *TestFile) Err() error {
	return tf.scanner.Err()
}

// Close closes the underlying file.
func (tf *TestFile) Close() {
	tf.in.Close()
}
