package nrl

import (
	"slices"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/nrl/internal/coord"
)

// Editing operations. Each one leaves the buffer valid UTF-8, the cursor
// fields consistent with the line table and the terminal cursor at
// (posX, posY). Operations that would change nothing emit nothing.

func (e *editor) insertRune(r rune) {
	var enc [utf8.UTFMax]byte
	l := utf8.EncodeRune(enc[:], r)
	if !e.insert && e.offset < len(e.buf) {
		e.overwrite(enc[:l])
		return
	}

	at := e.offset
	if len(e.buf) == 0 {
		e.eraseHint()
	}
	e.buf = slices.Insert(e.buf, at, enc[:l]...)
	if !e.multiline {
		e.insertSingle(at, l)
		return
	}

	appending := at+l == len(e.buf)
	e.recomputeFrom(e.posY)
	if appending && e.posX == 0 && e.posY > 0 {
		// Rewrite the previous row's last character together with the new
		// one so the terminal records the row as soft-wrapped.
		_, prev := coord.DecodePrev(e.buf, at)
		e.moveTo(e.termCols-1, e.posY-1)
		e.out.Write(e.buf[prev:])
	} else {
		e.out.Write(e.buf[at:])
	}
	grew := len(e.lineOffset) > e.drawnRows
	if grew {
		e.makeRoom()
	}
	e.offset = at + l
	e.syncCursor()
	e.requestedPosX = e.posX
	if !appending || grew || e.posX == 0 {
		e.moveToCursor()
	}
}

func (e *editor) insertSingle(at, l int) {
	x := e.posX
	e.offset = at + l
	if e.fitWindow() {
		e.redrawSingle()
	} else {
		end := e.visibleEnd(at, x)
		e.out.Write(e.buf[at:end])
		if end != e.offset {
			e.moveToCursor()
		}
	}
	e.requestedPosX = e.posX
}

// overwrite replaces the codepoint under the cursor with enc.
func (e *editor) overwrite(enc []byte) {
	_, next := coord.DecodeNext(e.buf, e.offset)
	e.buf = slices.Replace(e.buf, e.offset, next, enc...)
	e.out.Write(enc)
	e.offset += len(enc)
	if e.multiline {
		e.recomputeFrom(0)
		e.syncCursor()
		if e.posX == 0 {
			e.moveToCursor()
		}
	} else if e.fitWindow() {
		e.redrawSingle()
	}
	e.requestedPosX = e.posX
}

func (e *editor) deleteBackward() {
	if e.offset == 0 {
		return
	}
	_, prev := coord.DecodePrev(e.buf, e.offset)
	e.remove(prev, e.offset)
}

func (e *editor) deleteForward() {
	if e.offset >= len(e.buf) {
		return
	}
	_, next := coord.DecodeNext(e.buf, e.offset)
	e.remove(e.offset, next)
}

// remove deletes buf[from:to] and leaves the cursor at from.
func (e *editor) remove(from, to int) {
	row := coord.RowOf(e.lineOffset, from)
	moved := from != e.offset
	e.buf = slices.Delete(e.buf, from, to)
	e.offset = from

	if !e.multiline {
		if e.fitWindow() {
			e.redrawSingle()
		} else {
			if moved {
				e.moveToCursor()
			}
			e.redrawSingleTail()
		}
		e.requestedPosX = e.posX
		return
	}

	e.recomputeFrom(row)
	e.syncCursor()
	if moved {
		e.moveToCursor()
	}
	e.out.Write(e.buf[e.offset:])
	e.out.WriteByte(' ')
	e.moveToCursor()
	e.requestedPosX = e.posX
	e.drawHint()
}

// cursorMoved updates the screen after offset changed.
func (e *editor) cursorMoved() {
	if e.multiline {
		e.syncCursor()
		e.moveToCursor()
	} else if e.fitWindow() {
		e.redrawSingle()
	} else {
		e.moveToCursor()
	}
	e.requestedPosX = e.posX
}

func (e *editor) backwardChar() {
	if e.offset == 0 {
		return
	}
	_, e.offset = coord.DecodePrev(e.buf, e.offset)
	e.cursorMoved()
}

func (e *editor) forwardChar() {
	if e.offset >= len(e.buf) {
		return
	}
	_, e.offset = coord.DecodeNext(e.buf, e.offset)
	e.cursorMoved()
}

func (e *editor) backwardWord() {
	off := coord.WordStart(e.buf, e.offset)
	if off == e.offset {
		return
	}
	e.offset = off
	e.cursorMoved()
}

func (e *editor) forwardWord() {
	off := coord.WordEnd(e.buf, e.offset)
	if off == e.offset {
		return
	}
	e.offset = off
	e.cursorMoved()
}

func (e *editor) beginningOfLine() {
	if e.offset == 0 {
		return
	}
	e.offset = 0
	e.cursorMoved()
}

func (e *editor) endOfLine() {
	if e.offset == len(e.buf) {
		return
	}
	e.offset = len(e.buf)
	e.cursorMoved()
}

// verticalMove goes dy screen rows up or down, aiming for requestedPosX.
func (e *editor) verticalMove(dy int) {
	y := e.posY + dy
	if !e.multiline || y < 0 || y >= len(e.lineOffset) {
		return
	}
	start := e.rowStart(y)
	off, n := coord.AdvanceByChars(e.buf, e.lineOffset[y], max(e.requestedPosX-start, 0))
	e.offset, e.posX, e.posY = off, start+n, y
	e.moveToCursor()
}

func (e *editor) toggleInsert() {
	e.insert = !e.insert
}

func (e *editor) killLine() {
	if e.offset >= len(e.buf) {
		return
	}
	e.buf = e.buf[:e.offset]
	e.out.WriteString(ansi.EraseLineRight)
	if e.multiline {
		e.recomputeFrom(e.posY)
		if e.drawnRows > e.posY+1 {
			e.clearRows(e.posY + 1)
			e.moveToCursor()
		}
	}
	e.drawHint()
}

func (e *editor) discardLine() {
	if e.offset == 0 {
		return
	}
	e.buf = slices.Delete(e.buf, 0, e.offset)
	e.offset = 0

	if !e.multiline {
		e.first = 0
		e.fitWindow()
		e.redrawSingle()
		e.requestedPosX = e.posX
		return
	}

	e.clearRows(0)
	e.recomputeFrom(0)
	e.moveTo(e.promptLen, 0)
	e.out.Write(e.buf)
	e.syncCursor()
	e.moveToCursor()
	e.requestedPosX = e.posX
	e.drawHint()
}

// finish ends editing: a highlighted frame goes back to the default color
// and the cursor moves below the input.
func (e *editor) finish() {
	e.undoHighlight()
	e.leave()
}
