package bidi

// setParaRunsOnly resolves a text in ModeRunsOnly: runs are reordered, but
// the characters within each run keep their logical order.
//
// The text is resolved twice. The first pass applies the default algorithm
// and produces the visual text. The second pass applies the inverse
// algorithm to the visual text, with the opposite paragraph level. Runs of
// the second pass are split wherever the characters of the first pass were
// not adjacent or had different levels. Explicit embedding levels are
// ignored in this mode.
func (p *Paragraph) setParaRunsOnly(text []uint16, paraLevel Level) (err error) {
	p.mode = ModeDefault
	embeddings := p.embeddings
	p.embeddings = nil
	saveOptions := p.options
	defer func() {
		p.mode = ModeRunsOnly
		p.embeddings = embeddings
		p.options = saveOptions
	}()
	if len(text) == 0 {
		return p.setPara(text, paraLevel)
	}
	// bidi controls are kept out of the visual text
	if saveOptions&OptionInsertMarks != 0 {
		p.options = p.options&^OptionInsertMarks | OptionRemoveControls
	}
	paraLevel &= 1
	if err = p.setPara(text, paraLevel); err != nil {
		return err
	}
	// save the first pass
	saveLevels := p.Levels()
	saveDirProps := append([]Class(nil), p.dirProps[:p.length]...)
	saveTrailingWSStart := p.trailingWSStart
	saveParas := append([]paraInfo(nil), p.paras...)
	visualText := p.writeReordered(DoMirroring)
	visualMap := p.VisualMap()
	saveLength := p.length
	saveDirection := p.direction
	// second pass on the visual text, which holds complete paragraphs only
	p.options = saveOptions &^ OptionStreaming
	p.mode = ModeInverseLikeDirect
	paraLevel ^= 1
	if err = p.setPara(visualText, paraLevel); err != nil {
		return err
	}
	p.splitRunsOnly(visualMap, saveLevels)
	// restore the first pass, keeping the runs of the second pass
	p.options = saveOptions
	p.paraLevel ^= 1
	p.text = text
	p.length = saveLength
	p.originalLength = len(text)
	p.levels = saveLevels
	p.dirProps = saveDirProps
	p.trailingWSStart = saveTrailingWSStart
	p.paras = append(p.paras[:0], saveParas...)
	p.coverControls()
	p.controlCount = 0
	if p.options&OptionRemoveControls != 0 {
		for _, u := range p.text[:p.length] {
			if IsBidiControl(rune(u)) {
				p.controlCount++
			}
		}
		p.countRemovedControls()
	}
	// the direction of the first pass holds only for a single run of the
	// same parity
	p.direction = saveDirection
	if p.runCount > 1 || p.runCount == 1 && directionForLevel(p.runs[0].level) != saveDirection {
		p.direction = Mixed
	}
	p.setResultLength()
	return nil
}

// coverControls adds the bidi controls missing from the visual text to the
// runs, so that the runs cover the whole text. A control joins the run of
// the character logically before it; leading controls join the run of the
// first character which is not a control.
func (p *Paragraph) coverControls() {
	owner := make([]int, p.length)
	for i := range owner {
		owner[i] = -1
	}
	lengths := make([]int, p.runCount)
	covered, visualStart := 0, 0
	for i, rn := range p.runs[:p.runCount] {
		lengths[i] = rn.limit - visualStart
		visualStart = rn.limit
		for k := rn.start; k < rn.start+lengths[i]; k++ {
			owner[k] = i
		}
		covered += lengths[i]
	}
	if covered == p.length {
		return
	}
	if covered == 0 { // nothing but controls
		p.singleRun(p.paraLevel)
		return
	}
	for k := 0; k < p.length; k++ {
		if owner[k] >= 0 {
			continue
		}
		if k == 0 {
			first := 1
			for owner[first] < 0 {
				first++
			}
			i := owner[first]
			p.runs[i].start = 0
			lengths[i] += first
			for j := 0; j < first; j++ {
				owner[j] = i
			}
			k = first
			continue
		}
		i := owner[k-1]
		lengths[i]++
		owner[k] = i
	}
	limit := 0
	for i := range p.runs[:p.runCount] {
		limit += lengths[i]
		p.runs[i].limit = limit
	}
}

// splitRunsOnly splits the runs of the second pass wherever the
// characters of the first pass are not adjacent or differ in level. Run
// starts are mapped back to positions in the original text.
func (p *Paragraph) splitRunsOnly(visualMap []int, saveLevels []Level) {
	runs := p.runs[:p.runCount]
	addedRuns := 0
	visualStart := 0
	for i := range runs {
		runLength := runs[i].limit - visualStart
		visualStart = runs[i].limit
		if runLength < 2 {
			continue
		}
		logicalStart := runs[i].start
		for j := logicalStart + 1; j < logicalStart+runLength; j++ {
			index, index1 := visualMap[j], visualMap[j-1]
			if abs(index-index1) != 1 || saveLevels[index] != saveLevels[index1] {
				addedRuns++
			}
		}
	}
	oldRunCount := p.runCount
	if addedRuns > 0 {
		p.runs = append(p.runs[:oldRunCount], make([]run, addedRuns)...)
		p.runCount += addedRuns
	}
	runs = p.runs
	for i := oldRunCount - 1; i >= 0; i-- {
		newI := i + addedRuns
		runLength := runs[i].limit
		if i > 0 {
			runLength -= runs[i-1].limit
		}
		logicalStart := runs[i].start
		indexOddBit := runs[i].level & 1
		if runLength < 2 {
			if addedRuns > 0 {
				runs[newI] = runs[i]
			}
			logicalPos := visualMap[logicalStart]
			runs[newI].start = logicalPos
			runs[newI].level = saveLevels[logicalPos] ^ indexOddBit
			continue
		}
		var start, limit, step int
		if indexOddBit != 0 {
			start, limit, step = logicalStart, logicalStart+runLength-1, 1
		} else {
			start, limit, step = logicalStart+runLength-1, logicalStart, -1
		}
		for j := start; j != limit; j += step {
			index, index1 := visualMap[j], visualMap[j+step]
			if abs(index-index1) == 1 && saveLevels[index] == saveLevels[index1] {
				continue
			}
			logicalPos := min(visualMap[start], index)
			runs[newI].start = logicalPos
			runs[newI].level = saveLevels[logicalPos] ^ indexOddBit
			runs[newI].limit = runs[i].limit
			runs[i].limit -= abs(j-start) + 1
			insertRemove := runs[i].insertRemove & int(lrmAfter|rlmAfter)
			runs[newI].insertRemove = insertRemove
			runs[i].insertRemove &^= insertRemove
			start = j + step
			addedRuns--
			newI--
		}
		if addedRuns > 0 {
			runs[newI] = runs[i]
		}
		logicalPos := min(visualMap[start], visualMap[limit])
		runs[newI].start = logicalPos
		runs[newI].level = saveLevels[logicalPos] ^ indexOddBit
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
