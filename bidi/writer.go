package bidi

import (
	"unicode/utf16"
)

// WriteReordered returns the text in visual order. Runs at an odd level are
// reversed, optionally mirroring characters and keeping combining marks
// after their base characters. Depending on the reordering mode and
// options, LRM and RLM marks are inserted or bidi controls are removed.
func (r *resolution) WriteReordered(options WriteOption) (string, error) {
	if !r.resolved {
		return "", ErrNotResolved
	}
	return string(utf16.Decode(r.writeReordered(options))), nil
}

// WriteReorderedUTF16 is like WriteReordered, but returns UTF-16 code units.
func (r *resolution) WriteReorderedUTF16(options WriteOption) ([]uint16, error) {
	if !r.resolved {
		return nil, ErrNotResolved
	}
	return r.writeReordered(options), nil
}

func (r *resolution) writeReordered(options WriteOption) []uint16 {
	if r.length == 0 {
		return []uint16{}
	}
	if r.options&OptionInsertMarks != 0 {
		options |= InsertLRMForNumeric
		options &^= RemoveBidiControls
	}
	if r.options&OptionRemoveControls != 0 {
		options |= RemoveBidiControls
		options &^= InsertLRMForNumeric
	}
	switch r.mode {
	case ModeInverseNumbersAsL, ModeInverseLikeDirect, ModeInverseForNumbersSpecial, ModeRunsOnly:
	default:
		options &^= InsertLRMForNumeric
	}
	capacity := r.length
	if options&InsertLRMForNumeric != 0 {
		capacity += 2 * r.CountRuns()
	}
	dest := make([]uint16, 0, capacity)
	text := r.text
	runs := r.runs[:r.CountRuns()]
	runText := func(i int) ([]uint16, bool) {
		start, length, level := r.VisualRun(i)
		return text[start : start+length], level&1 == 0
	}
	if options&OutputReverse == 0 {
		if options&InsertLRMForNumeric == 0 {
			for i := range runs {
				src, even := runText(i)
				if even {
					dest = r.writeForward(dest, src, options&^DoMirroring)
				} else {
					dest = writeReverse(dest, src, options, r.classifier)
				}
			}
			return dest
		}
		// forward output with marks
		isInverse := r.mode == ModeInverseNumbersAsL
		for i := range runs {
			start, length, _ := r.VisualRun(i)
			src, even := runText(i)
			markFlag := runs[i].insertRemove
			if markFlag < 0 { // controls to remove
				markFlag = 0
			}
			if even {
				if isInverse && r.dirProps[start] != L {
					markFlag |= int(lrmBefore)
				}
				dest = appendMarkBefore(dest, markFlag)
				dest = r.writeForward(dest, src, options&^DoMirroring)
				if isInverse && r.dirProps[start+length-1] != L {
					markFlag |= int(lrmAfter)
				}
				dest = appendMarkAfter(dest, markFlag)
				continue
			}
			if isInverse && bit(r.dirProps[start+length-1])&maskRAL == 0 {
				markFlag |= int(rlmBefore)
			}
			dest = appendMarkBefore(dest, markFlag)
			dest = writeReverse(dest, src, options, r.classifier)
			if isInverse && bit(r.dirProps[start])&maskRAL == 0 {
				markFlag |= int(rlmAfter)
			}
			dest = appendMarkAfter(dest, markFlag)
		}
		return dest
	}
	// reverse output
	if options&InsertLRMForNumeric == 0 {
		for i := len(runs) - 1; i >= 0; i-- {
			src, even := runText(i)
			if even {
				dest = writeReverse(dest, src, options&^DoMirroring, r.classifier)
			} else {
				dest = r.writeForward(dest, src, options)
			}
		}
		return dest
	}
	for i := len(runs) - 1; i >= 0; i-- {
		start, length, _ := r.VisualRun(i)
		src, even := runText(i)
		if even {
			if r.dirProps[start+length-1] != L {
				dest = append(dest, uint16(charLRM))
			}
			dest = writeReverse(dest, src, options&^DoMirroring, r.classifier)
			if r.dirProps[start] != L {
				dest = append(dest, uint16(charLRM))
			}
			continue
		}
		if bit(r.dirProps[start])&maskRAL == 0 {
			dest = append(dest, uint16(charRLM))
		}
		dest = r.writeForward(dest, src, options)
		if bit(r.dirProps[start+length-1])&maskRAL == 0 {
			dest = append(dest, uint16(charRLM))
		}
	}
	return dest
}

func appendMarkBefore(dest []uint16, markFlag int) []uint16 {
	if markFlag&int(lrmBefore) != 0 {
		return append(dest, uint16(charLRM))
	} else if markFlag&int(rlmBefore) != 0 {
		return append(dest, uint16(charRLM))
	}
	return dest
}

func appendMarkAfter(dest []uint16, markFlag int) []uint16 {
	if markFlag&int(lrmAfter) != 0 {
		return append(dest, uint16(charLRM))
	} else if markFlag&int(rlmAfter) != 0 {
		return append(dest, uint16(charRLM))
	}
	return dest
}

// writeForward appends src in logical order, optionally removing bidi
// controls and mirroring characters.
func (r *resolution) writeForward(dest, src []uint16, options WriteOption) []uint16 {
	options &= RemoveBidiControls | DoMirroring
	if options == 0 {
		return append(dest, src...)
	}
	for i := 0; i < len(src); {
		c, n := codePointAt(src, i)
		i += n
		if options&RemoveBidiControls != 0 && IsBidiControl(c) {
			continue
		}
		if options&DoMirroring != 0 {
			c = r.classifier.Mirror(c)
		}
		dest = appendRune(dest, c)
	}
	return dest
}

// WriteReverse reverses a string by code points, independently of bidi
// resolution. Options may request mirroring, keeping combining marks with
// their base characters, and removal of bidi controls.
func WriteReverse(text string, options WriteOption) string {
	src := utf16.Encode([]rune(text))
	dest := writeReverse(make([]uint16, 0, len(src)), src, options, defaultClassifier)
	return string(utf16.Decode(dest))
}

// writeReverse appends src in reverse order. Surrogate pairs are kept
// intact, and with KeepBaseCombining combining marks stay behind their
// base characters.
func writeReverse(dest, src []uint16, options WriteOption, cl Classifier) []uint16 {
	switch options & (RemoveBidiControls | DoMirroring | KeepBaseCombining) {
	case 0:
		for i := len(src); i > 0; {
			_, n := codePointBefore(src, i)
			i -= n
			dest = append(dest, src[i:i+n]...)
		}
		return dest
	case KeepBaseCombining:
		for i := len(src); i > 0; {
			j := i
			for {
				c, n := codePointBefore(src, i)
				i -= n
				if i <= 0 || !cl.IsCombiningMark(c) {
					break
				}
			}
			dest = append(dest, src[i:j]...)
		}
		return dest
	}
	for i := len(src); i > 0; {
		j := i
		c, n := codePointBefore(src, i)
		i -= n
		if options&KeepBaseCombining != 0 {
			for i > 0 && cl.IsCombiningMark(c) {
				c, n = codePointBefore(src, i)
				i -= n
			}
		}
		if options&RemoveBidiControls != 0 && IsBidiControl(c) {
			continue
		}
		k := i
		if options&DoMirroring != 0 {
			// mirror only the base character
			_, n = codePointAt(src, k)
			dest = appendRune(dest, cl.Mirror(c))
			k += n
		}
		dest = append(dest, src[k:j]...)
	}
	return dest
}

// --- UTF-16 helpers --------------------------------------------------------

func codePointAt(s []uint16, i int) (rune, int) {
	c := rune(s[i])
	if utf16.IsSurrogate(c) && c < 0xdc00 && i+1 < len(s) {
		if r := utf16.DecodeRune(c, rune(s[i+1])); r != 0xfffd {
			return r, 2
		}
	}
	return c, 1
}

func codePointBefore(s []uint16, i int) (rune, int) {
	c := rune(s[i-1])
	if c >= 0xdc00 && c <= 0xdfff && i >= 2 {
		if r := utf16.DecodeRune(rune(s[i-2]), c); r != 0xfffd {
			return r, 2
		}
	}
	return c, 1
}

func appendRune(dest []uint16, c rune) []uint16 {
	if c >= 0x10000 {
		r1, r2 := utf16.EncodeRune(c)
		return append(dest, uint16(r1), uint16(r2))
	}
	return append(dest, uint16(c))
}
