// Package nrl is a terminal line editor that can either block until a line
// is entered or be driven one readiness event at a time from an external
// epoll loop.
//
// A Handle edits one line per session:
//
//	h, err := nrl.New(int(os.Stdin.Fd()), nrl.FrameNone)
//	if err != nil {
//		return err
//	}
//	defer h.Close()
//	h.SetPrompt("> ")
//	line, err := h.Read()
//
// Cooperative callers register the descriptors from Fds with their own
// epoll instance (or pass it to NewWithEpoll), call Prepare before waiting
// and hand every event to Process.
//
// When the descriptor is not a terminal the Handle falls back to reading
// plain lines without any rendering.
package nrl

import "errors"

// Frame selects the decoration drawn around the input.
type Frame int

const (
	// FrameNone draws nothing.
	FrameNone Frame = iota
	// FrameLine draws a rule above and below the input.
	FrameLine
	// FrameBackground draws half-block bands and tints the input area.
	FrameBackground
)

func (f Frame) String() string {
	switch f {
	case FrameLine:
		return "line"
	case FrameBackground:
		return "background"
	default:
		return "none"
	}
}

// ParseFrame converts "none", "line" or "background".
func ParseFrame(s string) (Frame, bool) {
	switch s {
	case "", "none":
		return FrameNone, true
	case "line":
		return FrameLine, true
	case "background":
		return FrameBackground, true
	}
	return FrameNone, false
}

// Status is the outcome of Process.
type Status int

const (
	// StatusForeign means the event was for a descriptor this Handle does
	// not own.
	StatusForeign Status = iota
	// StatusPending means the event was consumed and the line is not
	// finished.
	StatusPending
	// StatusDone means the session ended; the line (or error) is returned.
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDone:
		return "done"
	default:
		return "foreign"
	}
}

var (
	// ErrInterrupt is returned when the user presses control-C. The text
	// typed so far is returned with it.
	ErrInterrupt = errors.New("nrl: interrupted")

	// ErrClosed is returned by operations on a closed Handle.
	ErrClosed = errors.New("nrl: handle closed")
)
