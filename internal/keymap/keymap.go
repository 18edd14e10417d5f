// Package keymap maps decoded key presses to editing operations.
//
// The default table is built once and never mutated, so it can be shared by
// every session in the process.
package keymap

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"
)

// Mod is a bit set of key modifiers.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModAlt
	ModCtrl
	ModMeta
	ModSuper

	// ModMask holds the modifiers that take part in lookups.
	ModMask = ModShift | ModAlt | ModCtrl
)

// Sym identifies a non-printable key. SymNone marks a codepoint key.
type Sym int

const (
	SymNone Sym = iota
	SymBackspace
	SymTab
	SymEnter
	SymEscape
	SymUp
	SymDown
	SymLeft
	SymRight
	SymHome
	SymEnd
	SymInsert
	SymDelete
	SymPgUp
	SymPgDown
	SymFunction // F1..F63 and anything else without a binding
)

var symNames = map[Sym]string{
	SymBackspace: "backspace",
	SymTab:       "tab",
	SymEnter:     "enter",
	SymEscape:    "esc",
	SymUp:        "up",
	SymDown:      "down",
	SymLeft:      "left",
	SymRight:     "right",
	SymHome:      "home",
	SymEnd:       "end",
	SymInsert:    "insert",
	SymDelete:    "delete",
	SymPgUp:      "pgup",
	SymPgDown:    "pgdown",
	SymFunction:  "fn",
}

// Key is one decoded key press.
type Key struct {
	Sym  Sym
	Rune rune
	Mod  Mod
}

// Symbolic reports whether k names a key rather than a codepoint.
func (k Key) Symbolic() bool {
	return k.Sym != SymNone
}

// Printable reports whether k should be inserted into the buffer as text.
func (k Key) Printable() bool {
	return !k.Symbolic() && k.Mod&(ModAlt|ModCtrl) == 0 && k.Rune >= ' ' && utf8.ValidRune(k.Rune) && k.Rune != 0x7f
}

// String renders k the way key bindings are usually written, e.g. "ctrl+a".
func (k Key) String() string {
	var sb strings.Builder
	if k.Mod&ModCtrl != 0 {
		sb.WriteString("ctrl+")
	}
	if k.Mod&ModAlt != 0 {
		sb.WriteString("alt+")
	}
	if k.Mod&ModShift != 0 {
		sb.WriteString("shift+")
	}
	switch {
	case k.Symbolic():
		sb.WriteString(symNames[k.Sym])
	case k.Rune == ' ':
		sb.WriteString("space")
	default:
		sb.WriteRune(k.Rune)
	}
	return sb.String()
}

// Op is an editing operation.
type Op uint8

const (
	OpNone Op = iota
	OpBeginningOfLine
	OpEndOfLine
	OpToggleInsert
	OpAccept
	OpBackwardChar
	OpForwardChar
	OpPreviousLine
	OpNextLine
	OpDeleteBackward
	OpDeleteForward
	OpBackwardWord
	OpForwardWord
	OpKillLine
	OpDiscardLine
)

var opNames = [...]string{
	OpNone:            "none",
	OpBeginningOfLine: "beginning-of-line",
	OpEndOfLine:       "end-of-line",
	OpToggleInsert:    "toggle-insert",
	OpAccept:          "accept-line",
	OpBackwardChar:    "backward-char",
	OpForwardChar:     "forward-char",
	OpPreviousLine:    "previous-screen-line",
	OpNextLine:        "next-screen-line",
	OpDeleteBackward:  "backward-delete-char",
	OpDeleteForward:   "delete-char",
	OpBackwardWord:    "backward-word",
	OpForwardWord:     "forward-word",
	OpKillLine:        "kill-line",
	OpDiscardLine:     "unix-line-discard",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Binding is the lookup key of the table. Code is a Sym for symbolic
// bindings and a codepoint otherwise.
type Binding struct {
	Symbolic bool
	Mod      Mod
	Code     int
}

// BindingOf returns the lookup key for k.
func BindingOf(k Key) Binding {
	if k.Symbolic() {
		return Binding{Symbolic: true, Mod: k.Mod & ModMask, Code: int(k.Sym)}
	}
	return Binding{Mod: k.Mod & ModMask, Code: int(k.Rune)}
}

// Key returns a key press matching b.
func (b Binding) Key() Key {
	if b.Symbolic {
		return Key{Sym: Sym(b.Code), Mod: b.Mod}
	}
	return Key{Rune: rune(b.Code), Mod: b.Mod}
}

func (b Binding) String() string {
	return b.Key().String()
}

// Ctrl is shorthand for a control-modified codepoint binding.
func Ctrl(r rune) Binding { return Binding{Mod: ModCtrl, Code: int(r)} }

// Alt is shorthand for an alt-modified codepoint binding.
func Alt(r rune) Binding { return Binding{Mod: ModAlt, Code: int(r)} }

// Symbol is shorthand for a symbolic binding.
func Symbol(mod Mod, s Sym) Binding { return Binding{Symbolic: true, Mod: mod, Code: int(s)} }

// compareBindings orders by modifier, then symbolic flag, then code.
func compareBindings(a, b Binding) int {
	if c := cmp.Compare(a.Mod, b.Mod); c != 0 {
		return c
	}
	if a.Symbolic != b.Symbolic {
		if a.Symbolic {
			return 1
		}
		return -1
	}
	return cmp.Compare(a.Code, b.Code)
}

type entry struct {
	b  Binding
	op Op
}

// Table is an immutable, sorted binding table.
type Table struct {
	entries []entry
}

// NewTable builds a table from m. Modifiers outside ModMask are dropped.
func NewTable(m map[Binding]Op) *Table {
	t := &Table{entries: make([]entry, 0, len(m))}
	for b, op := range m {
		b.Mod &= ModMask
		t.entries = append(t.entries, entry{b, op})
	}
	slices.SortFunc(t.entries, func(x, y entry) int { return compareBindings(x.b, y.b) })
	t.entries = slices.CompactFunc(t.entries, func(x, y entry) bool { return x.b == y.b })
	return t
}

// Lookup returns the operation bound to k.
func (t *Table) Lookup(k Key) (Op, bool) {
	b := BindingOf(k)
	i, found := slices.BinarySearchFunc(t.entries, b, func(e entry, b Binding) int {
		return compareBindings(e.b, b)
	})
	if !found {
		return OpNone, false
	}
	return t.entries[i].op, true
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	return len(t.entries)
}

// Bindings returns the bindings in lookup order.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.b
	}
	return out
}

// Default returns the shared emacs-style table.
var Default = sync.OnceValue(func() *Table {
	return NewTable(map[Binding]Op{
		Ctrl('a'):                     OpBeginningOfLine,
		Symbol(0, SymHome):            OpBeginningOfLine,
		Ctrl('e'):                     OpEndOfLine,
		Symbol(0, SymEnd):             OpEndOfLine,
		Symbol(0, SymInsert):          OpToggleInsert,
		Symbol(0, SymEnter):           OpAccept,
		Ctrl('j'):                     OpAccept,
		Ctrl('m'):                     OpAccept,
		Symbol(0, SymLeft):            OpBackwardChar,
		Ctrl('b'):                     OpBackwardChar,
		Symbol(0, SymRight):           OpForwardChar,
		Ctrl('f'):                     OpForwardChar,
		Symbol(0, SymUp):              OpPreviousLine,
		Ctrl('p'):                     OpPreviousLine,
		Symbol(0, SymDown):            OpNextLine,
		Ctrl('n'):                     OpNextLine,
		Symbol(0, SymBackspace):       OpDeleteBackward,
		Symbol(ModCtrl, SymBackspace): OpDeleteBackward,
		Ctrl('h'):                     OpDeleteBackward,
		Symbol(0, SymDelete):          OpDeleteForward,
		Ctrl('d'):                     OpDeleteForward,
		Alt('b'):                      OpBackwardWord,
		Symbol(ModCtrl, SymLeft):      OpBackwardWord,
		Alt('f'):                      OpForwardWord,
		Symbol(ModCtrl, SymRight):     OpForwardWord,
		Ctrl('k'):                     OpKillLine,
		Ctrl('u'):                     OpDiscardLine,
	})
})

// IsInterrupt reports whether k is control-C.
func IsInterrupt(k Key) bool {
	return !k.Symbolic() && k.Mod&ModMask == ModCtrl && (k.Rune == 'c' || k.Rune == 'C')
}

// IsEOF reports whether k is control-D. It only ends a session when the
// buffer is empty.
func IsEOF(k Key) bool {
	return !k.Symbolic() && k.Mod&ModMask == ModCtrl && (k.Rune == 'd' || k.Rune == 'D')
}
