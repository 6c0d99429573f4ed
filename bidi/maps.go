package bidi

import (
	"fmt"
	"sort"
)

// VisualIndex returns the visual position of the character at a logical
// position. If the character has been removed (OptionRemoveControls), it
// returns MapNowhere.
func (r *resolution) VisualIndex(logical int) (int, error) {
	if err := r.checkIndex(logical, r.length); err != nil {
		return MapNowhere, err
	}
	visual := MapNowhere
	switch r.direction {
	case LeftToRight:
		visual = logical
	case RightToLeft:
		visual = r.length - logical - 1
	default:
		visualStart := 0
		i := 0
		for ; i < r.runCount; i++ {
			rn := r.runs[i]
			length := rn.limit - visualStart
			offset := logical - rn.start
			if offset >= 0 && offset < length {
				if rn.level&1 == 0 {
					visual = visualStart + offset
				} else {
					visual = visualStart + length - offset - 1
				}
				break
			}
			visualStart += length
		}
		if i >= r.runCount {
			return MapNowhere, nil
		}
	}
	if len(r.insertPoints.points) > 0 {
		// add the number of marks inserted before the visual index
		markFound := 0
		for _, rn := range r.runs[:r.runCount] {
			if rn.insertRemove&int(lrmBefore|rlmBefore) != 0 {
				markFound++
			}
			if visual < rn.limit {
				return visual + markFound, nil
			}
			if rn.insertRemove&int(lrmAfter|rlmAfter) != 0 {
				markFound++
			}
		}
		return visual + markFound, nil
	}
	if r.controlCount > 0 {
		if IsBidiControl(rune(r.text[logical])) {
			return MapNowhere, nil
		}
		// subtract the number of controls before the visual index
		controlFound := 0
		visualStart := 0
		for _, rn := range r.runs[:r.runCount] {
			length := rn.limit - visualStart
			if visual >= rn.limit {
				controlFound -= rn.insertRemove
				visualStart += length
				continue
			}
			if rn.insertRemove == 0 {
				return visual - controlFound, nil
			}
			var start, limit int
			if rn.level&1 == 0 { // LTR: check from run start to logical index
				start, limit = rn.start, logical
			} else { // RTL: check from logical index to run end
				start, limit = logical+1, rn.start+length
			}
			for j := start; j < limit; j++ {
				if IsBidiControl(rune(r.text[j])) {
					controlFound++
				}
			}
			return visual - controlFound, nil
		}
	}
	return visual, nil
}

// LogicalIndex returns the logical position of the character at a visual
// position. For inserted marks, it returns MapNowhere.
func (r *resolution) LogicalIndex(visual int) (int, error) {
	if err := r.checkIndex(visual, r.resultLength); err != nil {
		return MapNowhere, err
	}
	if len(r.insertPoints.points) == 0 && r.controlCount == 0 {
		switch r.direction {
		case LeftToRight:
			return visual, nil
		case RightToLeft:
			return r.length - visual - 1, nil
		}
	}
	runs := r.runs[:r.runCount]
	if len(r.insertPoints.points) > 0 {
		// subtract the number of marks up to the visual index
		markFound, visualStart := 0, 0
		for _, rn := range runs {
			length := rn.limit - visualStart
			if rn.insertRemove&int(lrmBefore|rlmBefore) != 0 {
				if visual <= visualStart+markFound {
					return MapNowhere, nil
				}
				markFound++
			}
			if visual < rn.limit+markFound { // within this run
				visual -= markFound
				break
			}
			if rn.insertRemove&int(lrmAfter|rlmAfter) != 0 {
				if visual == visualStart+length+markFound {
					return MapNowhere, nil
				}
				markFound++
			}
			visualStart += length
		}
	} else if r.controlCount > 0 {
		// add the number of controls up to the visual index
		controlFound, visualStart := 0, 0
		for _, rn := range runs {
			length := rn.limit - visualStart
			if visual >= rn.limit-controlFound+rn.insertRemove {
				controlFound -= rn.insertRemove
				visualStart += length
				continue
			}
			if rn.insertRemove == 0 {
				visual += controlFound
				break
			}
			// count non-control chars up to the visual index
			logicalEnd := rn.start + length - 1
			for j := 0; j < length; j++ {
				k := rn.start + j
				if rn.level&1 != 0 {
					k = logicalEnd - j
				}
				if IsBidiControl(rune(r.text[k])) {
					controlFound++
				}
				if visual+controlFound == visualStart+j {
					break
				}
			}
			visual += controlFound
			break
		}
	}
	i := sort.Search(len(runs), func(i int) bool {
		return visual < runs[i].limit
	})
	if i >= len(runs) {
		return MapNowhere, fmt.Errorf("visual index %d beyond runs: %w", visual, ErrInvalidRange)
	}
	rn := runs[i]
	if rn.level&1 == 0 {
		if i > 0 {
			visual -= runs[i-1].limit
		}
		return rn.start + visual, nil
	}
	return rn.start + rn.limit - visual - 1, nil
}

// LogicalMap returns a map from logical positions to visual positions.
// Removed controls map to MapNowhere.
func (r *resolution) LogicalMap() []int {
	if !r.resolved || r.length == 0 {
		return []int{}
	}
	indexMap := make([]int, r.length)
	for i := range indexMap {
		indexMap[i] = MapNowhere
	}
	runs := r.runs[:r.runCount]
	visualStart := 0
	for _, rn := range runs {
		if rn.level&1 == 0 {
			for logical := rn.start; visualStart < rn.limit; logical++ {
				indexMap[logical] = visualStart
				visualStart++
			}
		} else {
			for logical := rn.start + rn.limit - visualStart; visualStart < rn.limit; {
				logical--
				indexMap[logical] = visualStart
				visualStart++
			}
		}
	}
	if len(r.insertPoints.points) > 0 {
		markFound := 0
		visualStart = 0
		for _, rn := range runs {
			length := rn.limit - visualStart
			if rn.insertRemove&int(lrmBefore|rlmBefore) != 0 {
				markFound++
			}
			if markFound > 0 {
				for j := rn.start; j < rn.start+length; j++ {
					indexMap[j] += markFound
				}
			}
			if rn.insertRemove&int(lrmAfter|rlmAfter) != 0 {
				markFound++
			}
			visualStart += length
		}
	} else if r.controlCount > 0 {
		controlFound := 0
		visualStart = 0
		for _, rn := range runs {
			length := rn.limit - visualStart
			visualStart += length
			if controlFound-rn.insertRemove == 0 { // no controls so far, nor within this run
				continue
			}
			logicalLimit := rn.start + length
			if rn.insertRemove == 0 {
				for j := rn.start; j < logicalLimit; j++ {
					indexMap[j] -= controlFound
				}
				continue
			}
			for j := 0; j < length; j++ {
				k := rn.start + j
				if rn.level&1 != 0 {
					k = logicalLimit - j - 1
				}
				if IsBidiControl(rune(r.text[k])) {
					controlFound++
					indexMap[k] = MapNowhere
					continue
				}
				indexMap[k] -= controlFound
			}
		}
	}
	return indexMap
}

// VisualMap returns a map from visual positions to logical positions.
// Inserted marks map to MapNowhere.
func (r *resolution) VisualMap() []int {
	if !r.resolved || r.resultLength <= 0 {
		return []int{}
	}
	n := r.length
	if r.resultLength > n {
		n = r.resultLength
	}
	indexMap := make([]int, n)
	runs := r.runs[:r.runCount]
	k, visualStart := 0, 0
	for _, rn := range runs {
		if rn.level&1 == 0 {
			for logical := rn.start; visualStart < rn.limit; visualStart++ {
				indexMap[k] = logical
				logical++
				k++
			}
		} else {
			for logical := rn.start + rn.limit - visualStart; visualStart < rn.limit; visualStart++ {
				logical--
				indexMap[k] = logical
				k++
			}
		}
	}
	if len(r.insertPoints.points) > 0 {
		markFound := 0
		for _, rn := range runs {
			if rn.insertRemove&int(lrmBefore|rlmBefore) != 0 {
				markFound++
			}
			if rn.insertRemove&int(lrmAfter|rlmAfter) != 0 {
				markFound++
			}
		}
		// move back indexes by the number of preceding marks
		k = r.resultLength
		for i := len(runs) - 1; i >= 0 && markFound > 0; i-- {
			insertRemove := runs[i].insertRemove
			if insertRemove&int(lrmAfter|rlmAfter) != 0 {
				k--
				indexMap[k] = MapNowhere
				markFound--
			}
			visualStart = 0
			if i > 0 {
				visualStart = runs[i-1].limit
			}
			for j := runs[i].limit - 1; j >= visualStart && markFound > 0; j-- {
				k--
				indexMap[k] = indexMap[j]
			}
			if insertRemove&int(lrmBefore|rlmBefore) != 0 {
				k--
				indexMap[k] = MapNowhere
				markFound--
			}
		}
	} else if r.controlCount > 0 {
		// move forward indexes by the number of preceding controls
		k, visualStart = 0, 0
		for _, rn := range runs {
			length := rn.limit - visualStart
			if rn.insertRemove == 0 && k == visualStart { // no control found yet
				k += length
				visualStart += length
				continue
			}
			if rn.insertRemove == 0 { // no control in this run
				for j := visualStart; j < rn.limit; j++ {
					indexMap[k] = indexMap[j]
					k++
				}
				visualStart += length
				continue
			}
			logicalEnd := rn.start + length - 1
			for j := 0; j < length; j++ {
				m := rn.start + j
				if rn.level&1 != 0 {
					m = logicalEnd - j
				}
				if !IsBidiControl(rune(r.text[m])) {
					indexMap[k] = m
					k++
				}
			}
			visualStart += length
		}
	}
	return indexMap[:r.resultLength]
}

// --- Reordering of level arrays --------------------------------------------

// prepareReorder checks levels and returns their range together with an
// identity map. Levels may not exceed MaxExplicitLevel+1.
func prepareReorder(levels []Level) (indexMap []int, minLevel, maxLevel Level, ok bool) {
	if len(levels) == 0 {
		return nil, 0, 0, false
	}
	minLevel = MaxExplicitLevel + 1
	for _, level := range levels {
		if level > MaxExplicitLevel+1 {
			return nil, 0, 0, false
		}
		if level < minLevel {
			minLevel = level
		}
		if level > maxLevel {
			maxLevel = level
		}
	}
	indexMap = make([]int, len(levels))
	for i := range indexMap {
		indexMap[i] = i
	}
	return indexMap, minLevel, maxLevel, true
}

// ReorderLogical computes a logical-to-visual map from an array of levels,
// e.g. the levels of the runs of styled text. It returns nil if a level is
// out of range.
func ReorderLogical(levels []Level) []int {
	indexMap, minLevel, maxLevel, ok := prepareReorder(levels)
	if !ok {
		return nil
	}
	if minLevel == maxLevel && minLevel&1 == 0 { // nothing to do
		return indexMap
	}
	minLevel |= 1 // reorder only down to the lowest odd level
	length := len(levels)
	for ; maxLevel >= minLevel; maxLevel-- {
		for start := 0; ; {
			// look for a sequence of levels that are all at >= maxLevel
			for start < length && levels[start] < maxLevel {
				start++
			}
			if start >= length {
				break
			}
			limit := start + 1
			for limit < length && levels[limit] >= maxLevel {
				limit++
			}
			// the visual index of sequences at maxLevel are reversed
			sumOfSosEos := start + limit - 1
			for ; start < limit; start++ {
				indexMap[start] = sumOfSosEos - indexMap[start]
			}
			if limit == length {
				break
			}
			start = limit + 1
		}
	}
	return indexMap
}

// ReorderVisual computes a visual-to-logical map from an array of levels.
// It returns nil if a level is out of range.
func ReorderVisual(levels []Level) []int {
	indexMap, minLevel, maxLevel, ok := prepareReorder(levels)
	if !ok {
		return nil
	}
	if minLevel == maxLevel && minLevel&1 == 0 {
		return indexMap
	}
	minLevel |= 1
	length := len(levels)
	for ; maxLevel >= minLevel; maxLevel-- {
		for start := 0; ; {
			for start < length && levels[start] < maxLevel {
				start++
			}
			if start >= length {
				break
			}
			limit := start + 1
			for limit < length && levels[limit] >= maxLevel {
				limit++
			}
			for i, j := start, limit-1; i < j; i, j = i+1, j-1 {
				indexMap[i], indexMap[j] = indexMap[j], indexMap[i]
			}
			if limit == length {
				break
			}
			start = limit + 1
		}
	}
	return indexMap
}

// InvertMap inverts an index map. The map may contain MapNowhere entries,
// and the result will contain MapNowhere for positions which are not
// mapped to.
func InvertMap(srcMap []int) []int {
	destLength, count := -1, 0
	for _, v := range srcMap {
		if v > destLength {
			destLength = v
		}
		if v >= 0 {
			count++
		}
	}
	destLength++
	destMap := make([]int, destLength)
	if count < destLength {
		for i := range destMap {
			destMap[i] = MapNowhere
		}
	}
	for i, v := range srcMap {
		if v >= 0 {
			destMap[v] = i
		}
	}
	return destMap
}

// ReorderVisually reorders objects, e.g. glyph runs, from logical to visual
// order, given their levels.
func ReorderVisually[T any](levels []Level, objects []T) ([]T, error) {
	if len(levels) != len(objects) {
		return nil, fmt.Errorf("%d levels for %d objects: %w", len(levels), len(objects), ErrIllegalArgument)
	}
	if len(levels) == 0 {
		return []T{}, nil
	}
	indexMap := ReorderVisual(levels)
	if indexMap == nil {
		return nil, ErrInvalidLevel
	}
	visual := make([]T, len(objects))
	for i, j := range indexMap {
		visual[i] = objects[j]
	}
	return visual, nil
}
