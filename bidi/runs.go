package bidi

// run is a sequence of characters at the same level. Runs are stored in
// visual order; limit is the visual limit of a run, i.e. the sum of the
// lengths of the run and all runs visually before it.
type run struct {
	start        int // logical start
	limit        int // visual limit
	level        Level
	insertRemove int // marks to insert (flags), or negative count of controls to remove
}

// computeRuns splits the text into runs and reorders them visually (L2).
func (r *resolution) computeRuns() {
	if r.runCount >= 0 {
		return
	}
	if r.direction != Mixed {
		r.singleRun(r.paraLevel)
	} else {
		limit := r.trailingWSStart
		// count the runs; there is at least one non-WS run, and limit > 0
		runCount := 0
		level := LevelDefaultLTR // no valid level
		for i := 0; i < limit; i++ {
			if r.levels[i] != level {
				runCount++
				level = r.levels[i]
			}
		}
		if runCount == 1 && limit == r.length {
			r.singleRun(r.levels[0])
		} else {
			r.splitRuns(runCount, limit)
		}
	}
	// insert LRM/RLM before/after runs
	for _, point := range r.insertPoints.points {
		if i := r.runIndexFromLogical(point.pos); i >= 0 {
			r.runs[i].insertRemove |= int(point.flag)
		}
	}
	r.countRemovedControls()
	tracer().Debugf("bidi: %d run(s)", r.runCount)
}

// countRemovedControls records in each run the number of bidi controls
// which will be removed from it.
func (r *resolution) countRemovedControls() {
	if r.controlCount == 0 {
		return
	}
	for k := 0; k < r.length; k++ {
		if IsBidiControl(rune(r.text[k])) {
			if i := r.runIndexFromLogical(k); i >= 0 {
				r.runs[i].insertRemove--
			}
		}
	}
}

// setResultLength computes the length of the output. Marks are counted per
// run, as at most one mark is written before and one after a run, no matter
// how many insert points fall into it.
func (r *resolution) setResultLength() {
	r.resultLength = r.length
	if r.options&OptionRemoveControls != 0 {
		r.resultLength -= r.controlCount
		return
	}
	if len(r.insertPoints.points) == 0 {
		return
	}
	for _, rn := range r.runs[:r.runCount] {
		if rn.insertRemove&int(lrmBefore|rlmBefore) != 0 {
			r.resultLength++
		}
		if rn.insertRemove&int(lrmAfter|rlmAfter) != 0 {
			r.resultLength++
		}
	}
}

func (r *resolution) singleRun(level Level) {
	r.runs = append(r.runs[:0], run{start: 0, limit: r.length, level: level})
	r.runCount = 1
}

// splitRuns creates runs for the text up to limit, plus a run for trailing
// whitespace.
func (r *resolution) splitRuns(runCount, limit int) {
	minLevel, maxLevel := MaxExplicitLevel+1, Level(0)
	if limit < r.length {
		runCount++
	}
	r.runs = resize(r.runs, runCount)
	runIndex := 0
	for i := 0; i < limit; runIndex++ {
		start := i
		level := r.levels[i]
		if level < minLevel {
			minLevel = level
		}
		if level > maxLevel {
			maxLevel = level
		}
		for i++; i < limit && r.levels[i] == level; i++ {
		}
		r.runs[runIndex] = run{start: start, limit: i - start} // limit is the length for now
	}
	if limit < r.length {
		r.runs[runIndex] = run{start: limit, limit: r.length - limit}
		if r.paraLevel < minLevel {
			minLevel = r.paraLevel
		}
	}
	r.runCount = runCount
	r.reorderLine(minLevel, maxLevel)
	// set the levels and accumulate the visual limits
	visualLimit := 0
	for i := range r.runs {
		r.runs[i].level = r.levels[r.runs[i].start]
		visualLimit += r.runs[i].limit
		r.runs[i].limit = visualLimit
	}
	if runIndex < runCount { // trailing WS run is at paraLevel
		for i := range r.runs {
			if r.runs[i].start == limit {
				r.runs[i].level = r.paraLevel
				break
			}
		}
	}
}

// reorderLine reorders the runs of a line (L2). From the highest level to
// the lowest odd level, any contiguous sequence of runs at that level or
// higher is reversed. The trailing WS run is at paraLevel and is only
// reversed if the lowest level is odd.
func (r *resolution) reorderLine(minLevel, maxLevel Level) {
	if maxLevel <= minLevel|1 { // nothing to do, as there are no levels above the lowest odd level
		return
	}
	minLevel++
	runs := r.runs
	runCount := r.runCount
	if r.trailingWSStart < r.length {
		runCount-- // do not include the WS run at paraLevel
	}
	for maxLevel--; maxLevel >= minLevel; maxLevel-- {
		firstRun := 0
		for {
			// look for a sequence of runs that are all at >= maxLevel
			for firstRun < runCount && r.levels[runs[firstRun].start] < maxLevel {
				firstRun++
			}
			if firstRun >= runCount {
				break
			}
			limitRun := firstRun + 1
			for limitRun < runCount && r.levels[runs[limitRun].start] >= maxLevel {
				limitRun++
			}
			reverseRuns(runs[firstRun:limitRun])
			if limitRun == runCount {
				break
			}
			firstRun = limitRun + 1
		}
	}
	// now do maxLevel==old minLevel (==odd!), see above
	if minLevel&1 == 0 {
		if r.trailingWSStart == r.length {
			runCount--
		}
		reverseRuns(runs[:runCount+1]) // include the WS run, if any
	}
}

func reverseRuns(runs []run) {
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
}

// runIndexFromLogical returns the index of the run containing a logical
// position, or -1.
func (r *resolution) runIndexFromLogical(pos int) int {
	visualStart := 0
	for i, rn := range r.runs[:r.runCount] {
		length := rn.limit - visualStart
		if pos >= rn.start && pos < rn.start+length {
			return i
		}
		visualStart = rn.limit
	}
	return -1
}

// CountRuns returns the number of runs, i.e. sequences of characters at the
// same level, after visual reordering.
func (r *resolution) CountRuns() int {
	if r.runCount < 0 {
		return 0
	}
	return r.runCount
}

// VisualRun returns the logical start, length and level of the run at
// visual index i. For an invalid index, length is 0.
//
// Runs may be used to render a line run by run:
//
//	for i := 0; i < line.CountRuns(); i++ {
//	    start, length, level := line.VisualRun(i)
//	    if level.IsRTL() {
//	        // render text[start:start+length] right-to-left
//	    }
//	}
func (r *resolution) VisualRun(i int) (start, length int, level Level) {
	if i < 0 || i >= r.CountRuns() {
		return 0, 0, r.paraLevel
	}
	rn := r.runs[i]
	visualStart := 0
	if i > 0 {
		visualStart = r.runs[i-1].limit
	}
	if r.mode == ModeRunsOnly {
		return rn.start, rn.limit - visualStart, rn.level & 1
	}
	return rn.start, rn.limit - visualStart, rn.level
}

// RunAt returns the limit of the logical run containing position pos and
// its level. A logical run is a sequence of characters at the same level.
// For an invalid position, limit is -1.
func (r *resolution) RunAt(pos int) (limit int, level Level) {
	if pos < 0 || pos >= r.length || r.CountRuns() == 0 {
		return -1, r.paraLevel
	}
	i := r.runIndexFromLogical(pos)
	if i < 0 {
		return -1, r.paraLevel
	}
	visualStart := 0
	if i > 0 {
		visualStart = r.runs[i-1].limit
	}
	rn := r.runs[i]
	limit = rn.start + rn.limit - visualStart
	switch {
	case r.mode == ModeRunsOnly:
		level = rn.level & 1
	case r.direction != Mixed || pos >= r.trailingWSStart:
		level = r.paraLevelAt(pos)
	default:
		level = r.levels[pos]
	}
	return limit, level
}
