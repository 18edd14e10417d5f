// Package keysource turns raw terminal input into key presses.
//
// A Source never blocks: AdviseReadable drains whatever the descriptor has
// ready, Next hands out decoded keys one at a time. A byte sequence that may
// still be the prefix of a longer escape sequence is held back until more
// input arrives or the caller gives up waiting and calls Force.
package keysource

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/sys/unix"

	"github.com/zhubert/nrl/internal/keymap"
	"github.com/zhubert/nrl/internal/logger"
)

// Result tells what Next or Force produced.
type Result int

const (
	ResultNone Result = iota // nothing decodable right now
	ResultKey                // a key was returned
	ResultEOF                // the descriptor reached end of input
)

func (r Result) String() string {
	switch r {
	case ResultKey:
		return "key"
	case ResultEOF:
		return "eof"
	default:
		return "none"
	}
}

const readChunk = 256

// Source decodes keys read from one descriptor.
type Source struct {
	fd      int
	dec     uv.EventDecoder
	pending []byte
	queue   []keymap.Key
	eof     bool
	closed  bool
}

// New returns a Source reading from fd. The descriptor is not owned.
func New(fd int) *Source {
	return &Source{fd: fd}
}

// Fd returns the descriptor to watch for readability.
func (s *Source) Fd() int {
	return s.fd
}

// AdviseReadable reads everything currently available on the descriptor.
// It stops at EAGAIN or after a short read so it is safe on a blocking
// descriptor that has just been reported readable.
func (s *Source) AdviseReadable() error {
	if s.closed || s.eof {
		return nil
	}
	var chunk [readChunk]byte
	for {
		n, err := unix.Read(s.fd, chunk[:])
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return nil
		case err != nil:
			return err
		case n == 0:
			s.eof = true
			return nil
		}
		s.pending = append(s.pending, chunk[:n]...)
		if n < len(chunk) {
			return nil
		}
	}
}

// Feed appends input that was read from the descriptor by someone else,
// e.g. typeahead consumed while waiting for a cursor position report.
func (s *Source) Feed(b []byte) {
	s.pending = append(s.pending, b...)
}

// Pending reports whether undecoded input is being held back.
func (s *Source) Pending() bool {
	return len(s.pending) > 0
}

// Next returns the next complete key.
func (s *Source) Next() (keymap.Key, Result) {
	if k, ok := s.pop(); ok {
		return k, ResultKey
	}
	for len(s.queue) == 0 && len(s.pending) > 0 && !incomplete(s.pending) {
		if !s.decode() {
			break
		}
	}
	if k, ok := s.pop(); ok {
		return k, ResultKey
	}
	if s.eof && len(s.pending) == 0 {
		return keymap.Key{}, ResultEOF
	}
	return keymap.Key{}, ResultNone
}

// Force decodes held-back input as it is. A lone ESC becomes the escape
// key; an unfinished UTF-8 sequence is dropped.
func (s *Source) Force() (keymap.Key, Result) {
	if k, ok := s.pop(); ok {
		return k, ResultKey
	}
	for len(s.queue) == 0 && len(s.pending) > 0 {
		if !s.decode() {
			logger.ComponentLogger("keysource").Debug("dropping undecodable input", "bytes", len(s.pending))
			s.pending = s.pending[:0]
		}
	}
	if k, ok := s.pop(); ok {
		return k, ResultKey
	}
	if s.eof {
		return keymap.Key{}, ResultEOF
	}
	return keymap.Key{}, ResultNone
}

// Close releases the Source. The descriptor stays open.
func (s *Source) Close() {
	s.closed = true
	s.pending = nil
	s.queue = nil
}

func (s *Source) pop() (keymap.Key, bool) {
	if len(s.queue) == 0 {
		return keymap.Key{}, false
	}
	k := s.queue[0]
	s.queue = s.queue[1:]
	return k, true
}

// decode consumes one event from pending and queues the keys it carries.
func (s *Source) decode() bool {
	n, ev := s.dec.Decode(s.pending)
	if n == 0 {
		return false
	}
	s.pending = s.pending[n:]
	if kp, ok := ev.(uv.KeyPressEvent); ok {
		s.queue = append(s.queue, translate(uv.Key(kp))...)
	} else if ev != nil {
		logger.ComponentLogger("keysource").Debug("ignoring event", "type", fmt.Sprintf("%T", ev))
	}
	return true
}

// incomplete reports whether b could be the start of a longer sequence.
func incomplete(b []byte) bool {
	if b[0] == 0x1b {
		if len(b) == 1 {
			return true
		}
		switch b[1] {
		case '[':
			for _, c := range b[2:] {
				if c >= 0x40 && c <= 0x7e {
					return false
				}
			}
			return true
		case 'O':
			return len(b) < 3
		}
		return b[1] >= utf8.RuneSelf && !utf8.FullRune(b[1:])
	}
	return b[0] >= utf8.RuneSelf && !utf8.FullRune(b)
}

var symbols = map[rune]keymap.Sym{
	uv.KeyBackspace: keymap.SymBackspace,
	uv.KeyTab:       keymap.SymTab,
	uv.KeyEnter:     keymap.SymEnter,
	uv.KeyEscape:    keymap.SymEscape,
	uv.KeyUp:        keymap.SymUp,
	uv.KeyDown:      keymap.SymDown,
	uv.KeyLeft:      keymap.SymLeft,
	uv.KeyRight:     keymap.SymRight,
	uv.KeyHome:      keymap.SymHome,
	uv.KeyEnd:       keymap.SymEnd,
	uv.KeyInsert:    keymap.SymInsert,
	uv.KeyDelete:    keymap.SymDelete,
	uv.KeyPgUp:      keymap.SymPgUp,
	uv.KeyPgDown:    keymap.SymPgDown,
}

func translateMod(m uv.KeyMod) keymap.Mod {
	var out keymap.Mod
	if m&uv.ModShift != 0 {
		out |= keymap.ModShift
	}
	if m&uv.ModAlt != 0 {
		out |= keymap.ModAlt
	}
	if m&uv.ModCtrl != 0 {
		out |= keymap.ModCtrl
	}
	if m&uv.ModMeta != 0 {
		out |= keymap.ModMeta
	}
	if m&uv.ModSuper != 0 {
		out |= keymap.ModSuper
	}
	return out
}

// translate converts a decoded key. Plain text yields one key per rune.
func translate(k uv.Key) []keymap.Key {
	mod := translateMod(k.Mod)
	if sym, ok := symbols[k.Code]; ok {
		return []keymap.Key{{Sym: sym, Mod: mod}}
	}
	if k.Code > unicode.MaxRune {
		return []keymap.Key{{Sym: keymap.SymFunction, Mod: mod}}
	}
	if k.Text != "" && mod&(keymap.ModAlt|keymap.ModCtrl) == 0 {
		keys := make([]keymap.Key, 0, utf8.RuneCountInString(k.Text))
		for _, r := range k.Text {
			keys = append(keys, keymap.Key{Rune: r, Mod: mod})
		}
		return keys
	}
	return []keymap.Key{{Rune: k.Code, Mod: mod}}
}
