package bidi

// BidiError is the error type for errors reported by this package.
type BidiError string

func (e BidiError) Error() string {
	return string(e)
}

const (
	// ErrInvalidLevel is returned for paragraph or embedding levels out of range.
	ErrInvalidLevel = BidiError("bidi: invalid embedding level")
	// ErrInvalidRange is returned for index ranges outside of the text or crossing
	// paragraph boundaries.
	ErrInvalidRange = BidiError("bidi: invalid index range")
	// ErrIllegalArgument is returned for malformed arguments, e.g., index maps.
	ErrIllegalArgument = BidiError("bidi: illegal argument")
	// ErrNotResolved is returned for queries on a paragraph without text.
	ErrNotResolved = BidiError("bidi: no text has been resolved")
)
