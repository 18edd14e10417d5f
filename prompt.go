package nrl

import (
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/nrl/internal/coord"
)

// Prompt is either a fixed string or a function producing one. Functions
// are called once per session.
type Prompt struct {
	text string
	fn   func() string
}

// LiteralPrompt returns a fixed prompt.
func LiteralPrompt(s string) Prompt {
	return Prompt{text: s}
}

// FuncPrompt returns a prompt computed at the start of every session.
func FuncPrompt(fn func() string) Prompt {
	return Prompt{fn: fn}
}

// Resolve returns the prompt text for a new session.
func (p Prompt) Resolve() string {
	if p.fn != nil {
		return p.fn()
	}
	return p.text
}

// visibleLen counts the codepoints of s that take up a cell, skipping
// escape sequences.
func visibleLen(s string) int {
	return coord.CharCount([]byte(ansi.Strip(s)))
}
