/*
Package bidi implements the Unicode Bidirectional Algorithm (UAX#9).

Clients create a Paragraph, hand it some text and a base paragraph level,
and then query resolved embedding levels, directional runs in visual order,
index maps, or simply the reordered text:

	p := bidi.NewParagraph()
	if err := p.SetText("car means CAR.", bidi.LevelDefaultLTR); err != nil {
		...
	}
	visual, err := p.WriteReordered(bidi.DoMirroring)

Resolution proceeds in passes, mirroring the rules of UAX#9: a prescan
determines paragraph boundaries and the default paragraph level (P2, P3),
a stack machine resolves explicit embeddings and isolates (X1–X10),
bracket pairs are identified and resolved (BD16, N0), weak and neutral
types are resolved by a pair of state tables (W1–W7, N1, N2, I1, I2),
and finally whitespace levels are adjusted (L1) and runs are
reordered (L2).

Besides the standard algorithm, a Paragraph supports the reordering
variants known from ICU, selected by ReorderMode: numbers-special handling,
grouping numbers with R, inverse reordering of visual text, and
runs-only reordering.

Lines are derived from a resolved paragraph with SetLine. A Line owns its
level data, so a paragraph may be re-used while lines derived from it are
still in use.

# License

BSD License. Copyright (c) 2017–2021, Norbert Pillmayer.
All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/
package bidi

import (
	"github.com/npillmayer/schuko/tracing"
)

//go:generate go run ./internal/gen -o tables.go

// tracer traces with key 'uax.bidi'.
func tracer() tracing.Trace {
	return tracing.Select("uax.bidi")
}

// UnicodeVersion is the UAX#9 version this implementation follows.
const UnicodeVersion = "15.0.0"
