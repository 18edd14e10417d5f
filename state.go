package nrl

import (
	"bytes"

	"github.com/zhubert/nrl/internal/coord"
)

// editor is the buffer, cursor and screen bookkeeping of one session. All
// output goes to out and is written to the terminal by the Handle once per
// event.
//
// Screen coordinates are relative to (initialCol, initialRow), the 1-based
// position where the prompt starts. posX includes the prompt on row 0.
type editor struct {
	out bytes.Buffer

	buf        []byte
	lineOffset []int
	offset     int
	posX, posY int
	// requestedPosX is the column vertical moves aim for.
	requestedPosX int
	// first is the left edge of the visible window in single-line mode.
	first int

	prompt    string
	promptLen int

	termCols, termRows     int
	initialCol, initialRow int

	multiline bool
	insert    bool

	frame         Frame
	curFrameLines int
	// drawnRows is the number of text rows reserved on screen; the bottom
	// frame sits right below them.
	drawnRows int
	frameSGR  string
	textSGR   string

	hint      string
	hintSGR   string
	hintShown bool
}

// reset empties the buffer and puts the cursor behind the prompt.
func (e *editor) reset(prompt string) {
	e.out.Reset()
	e.buf = e.buf[:0]
	e.lineOffset = append(e.lineOffset[:0], 0)
	e.offset = 0
	e.first = 0
	e.prompt = prompt
	e.promptLen = visibleLen(prompt)
	e.posX = e.promptLen
	e.posY = 0
	e.requestedPosX = e.posX
	e.insert = true
	e.drawnRows = 1
	e.hintShown = false
}

// text returns the buffer contents.
func (e *editor) text() string {
	return string(e.buf)
}

// rowStart is the column where text begins on row y.
func (e *editor) rowStart(y int) int {
	if y == 0 {
		return e.promptLen
	}
	return 0
}

// recomputeFrom regenerates the line table from row on.
func (e *editor) recomputeFrom(row int) {
	if !e.multiline {
		e.lineOffset = append(e.lineOffset[:0], 0)
		return
	}
	e.lineOffset = coord.RecomputeWrap(e.buf, e.lineOffset, row, e.lineOffset[row],
		e.termCols-e.promptLen, e.termCols)
}

// syncCursor derives posX and posY from offset.
func (e *editor) syncCursor() {
	if !e.multiline {
		e.posY = 0
		e.posX = e.singlePosX()
		return
	}
	e.posY = coord.RowOf(e.lineOffset, e.offset)
	start := e.lineOffset[e.posY]
	e.posX = e.rowStart(e.posY) + coord.CharCount(e.buf[start:e.offset])
}

// singlePosX is the cursor column in single-line mode. Column 0 holds the
// continuation marker once the window has scrolled.
func (e *editor) singlePosX() int {
	if e.first == 0 {
		return e.promptLen + coord.CharCount(e.buf[:e.offset])
	}
	return 1 + coord.CharCount(e.buf[e.first:e.offset])
}

// scrollLimit is the last absolute column the cursor may reach before the
// single-line window scrolls.
func (e *editor) scrollLimit() int {
	return max(1, int(0.9*float64(e.termCols)))
}

// scrollStep is how many characters the window moves at a time.
func (e *editor) scrollStep() int {
	return max(1, int(0.1*float64(e.termCols)))
}

// fitWindow moves the single-line window so the cursor is visible and
// reports whether it moved.
func (e *editor) fitWindow() bool {
	old := e.first
	if e.offset < e.first {
		p := e.offset
		for i := 0; i < e.scrollStep() && p > 0; i++ {
			_, p = coord.DecodePrev(e.buf, p)
		}
		e.first = p
		if e.initialCol+e.promptLen+coord.CharCount(e.buf[:e.offset]) <= e.scrollLimit() {
			e.first = 0
		}
	}
	for e.first < e.offset && e.initialCol+e.singlePosX() > e.scrollLimit() {
		next, _ := coord.AdvanceByChars(e.buf, e.first, e.scrollStep())
		e.first = min(next, e.offset)
	}
	e.posY = 0
	e.posX = e.singlePosX()
	return e.first != old
}

// lastCol is the relative column of the terminal's right edge. Single-line
// mode stops short of it so no write ends in the pending-wrap state.
func (e *editor) lastCol() int {
	return e.termCols - e.initialCol
}
