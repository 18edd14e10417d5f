package nrl

import "github.com/zhubert/nrl/internal/keymap"

// outcome is what a key press did to the session.
type outcome int

const (
	outcomeContinue outcome = iota
	outcomeIgnored
	outcomeAccept
	outcomeInterrupt
	outcomeEOF
)

// onKey handles one key press. Control-C and control-D on an empty buffer
// end the session before the table is consulted; printable keys are
// inserted directly.
func (e *editor) onKey(k keymap.Key, table *keymap.Table) outcome {
	if keymap.IsInterrupt(k) {
		return outcomeInterrupt
	}
	if keymap.IsEOF(k) && len(e.buf) == 0 {
		return outcomeEOF
	}
	if k.Printable() {
		e.insertRune(k.Rune)
		return outcomeContinue
	}
	op, ok := table.Lookup(k)
	if !ok {
		return outcomeIgnored
	}
	if e.apply(op) {
		return outcomeAccept
	}
	return outcomeContinue
}

// apply runs op and reports whether it ends the session.
func (e *editor) apply(op keymap.Op) bool {
	switch op {
	case keymap.OpBeginningOfLine:
		e.beginningOfLine()
	case keymap.OpEndOfLine:
		e.endOfLine()
	case keymap.OpToggleInsert:
		e.toggleInsert()
	case keymap.OpAccept:
		e.finish()
		return true
	case keymap.OpBackwardChar:
		e.backwardChar()
	case keymap.OpForwardChar:
		e.forwardChar()
	case keymap.OpPreviousLine:
		e.verticalMove(-1)
	case keymap.OpNextLine:
		e.verticalMove(1)
	case keymap.OpDeleteBackward:
		e.deleteBackward()
	case keymap.OpDeleteForward:
		e.deleteForward()
	case keymap.OpBackwardWord:
		e.backwardWord()
	case keymap.OpForwardWord:
		e.forwardWord()
	case keymap.OpKillLine:
		e.killLine()
	case keymap.OpDiscardLine:
		e.discardLine()
	}
	return false
}
