package nrl

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/nrl/internal/coord"
)

// Semantic prompt markers (OSC 133).
const (
	oscFreshLine   = "\x1b]133;L\a"
	oscPromptStart = "\x1b]133;A\a"
	oscPromptEnd   = "\x1b]133;B\a"
	oscCommand     = "\x1b]133;C\a"
)

const continuationMarker = "«"

// moveTo positions the terminal cursor at (x, y) relative to the origin.
func (e *editor) moveTo(x, y int) {
	e.out.WriteString(ansi.CursorPosition(e.initialCol+x, e.initialRow+y))
}

// moveToCursor positions the terminal cursor at the editing cursor.
func (e *editor) moveToCursor() {
	e.moveTo(e.posX, e.posY)
}

func (e *editor) rule(glyph string) string {
	return strings.Repeat(glyph, max(e.termCols, 0))
}

// drawFrame draws the decoration above and below the input row and leaves
// the cursor at the start of the input row. It relies on output processing
// turning "\n" into CR LF.
func (e *editor) drawFrame() {
	if e.frame == FrameNone {
		e.curFrameLines = 0
		return
	}
	top, bottom := "─", "─"
	if e.frame == FrameBackground {
		top, bottom = "▄", "▀"
	}
	e.out.WriteString(e.frameSGR)
	e.out.WriteString(e.rule(top))
	e.out.WriteString("\n\n")
	e.out.WriteString(e.rule(bottom))
	if e.frameSGR != "" {
		e.out.WriteString(ansi.ResetStyle)
	}
	e.out.WriteString(ansi.CursorPreviousLine(1))
	e.curFrameLines = 1
	e.out.WriteString(e.textSGR)
}

// undoHighlight redraws highlighted rules in the default color.
func (e *editor) undoHighlight() {
	if e.frame != FrameLine || e.frameSGR == "" {
		return
	}
	r := e.rule("─")
	if e.initialRow-1 >= 1 {
		e.moveTo(0, -1)
		e.out.WriteString(r)
	}
	e.moveTo(0, e.drawnRows)
	e.out.WriteString(r)
}

// leave moves the cursor to the last cell of the input area, below the
// bottom frame if there is one.
func (e *editor) leave() {
	e.drawnRows = max(e.drawnRows, len(e.lineOffset))
	e.moveTo(e.termCols-1, e.drawnRows-1+e.curFrameLines)
}

// drawHint shows the empty-buffer hint behind the prompt.
func (e *editor) drawHint() {
	if e.hint == "" || len(e.buf) != 0 {
		return
	}
	width := e.termCols - (e.initialCol - 1) - e.promptLen - 1
	if width <= 0 {
		return
	}
	e.out.WriteString(e.hintSGR)
	e.out.WriteString(runewidth.Truncate(e.hint, width, ""))
	e.out.WriteString(ansi.ResetStyle)
	e.out.WriteString(e.textSGR)
	e.hintShown = true
	e.moveToCursor()
}

// eraseHint clears the hint; the cursor must be at the end of the prompt.
func (e *editor) eraseHint() {
	if !e.hintShown {
		return
	}
	e.out.WriteString(ansi.EraseLineRight)
	e.hintShown = false
}

// clearRows blanks the text area from row from on. Row 0 keeps the prompt.
func (e *editor) clearRows(from int) {
	e.drawnRows = max(e.drawnRows, len(e.lineOffset))
	for y := from; y < e.drawnRows; y++ {
		e.moveTo(e.rowStart(y), y)
		e.out.WriteString(ansi.EraseLineRight)
	}
}

// makeRoom is called after the line table grew past the reserved rows. The
// cursor sits on the last reserved row, which ended exactly at the right
// edge, so the new row is still blank.
func (e *editor) makeRoom() {
	rows := len(e.lineOffset)
	for e.drawnRows < rows {
		e.drawnRows++
		if e.initialRow+e.drawnRows-1+e.curFrameLines > e.termRows {
			e.initialRow--
			e.out.WriteString(ansi.ScrollUp(1))
			e.out.WriteString("\r")
			e.out.WriteString(ansi.InsertLine(1))
		} else if e.curFrameLines > 0 {
			e.out.WriteString("\n")
			e.out.WriteString(ansi.InsertLine(1))
		}
	}
}

// visibleEnd returns the offset of the last character that fits between
// column x and the right edge in single-line mode, starting at from.
func (e *editor) visibleEnd(from, x int) int {
	end, _ := coord.AdvanceByChars(e.buf, from, max(e.lastCol()-x, 0))
	return end
}

// redrawSingle repaints the whole single-line window.
func (e *editor) redrawSingle() {
	e.moveTo(0, 0)
	x := 1
	if e.first == 0 {
		e.out.WriteString(e.prompt)
		e.out.WriteString(e.textSGR)
		x = e.promptLen
	} else {
		e.out.WriteString(continuationMarker)
	}
	e.out.Write(e.buf[e.first:e.visibleEnd(e.first, x)])
	e.out.WriteString(ansi.EraseLineRight)
	e.hintShown = false
	e.moveToCursor()
	e.drawHint()
}

// redrawSingleTail repaints from the cursor to the right edge.
func (e *editor) redrawSingleTail() {
	e.out.Write(e.buf[e.offset:e.visibleEnd(e.offset, e.posX)])
	e.out.WriteString(ansi.EraseLineRight)
	e.hintShown = false
	e.moveToCursor()
	e.drawHint()
}
