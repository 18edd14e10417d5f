package nrl

import (
	stdcolor "image/color"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
	"golang.org/x/sys/unix"

	"github.com/zhubert/nrl/internal/color"
	"github.com/zhubert/nrl/internal/config"
	"github.com/zhubert/nrl/internal/keymap"
	"github.com/zhubert/nrl/internal/keysource"
	"github.com/zhubert/nrl/internal/logger"
	"github.com/zhubert/nrl/internal/poll"
	"github.com/zhubert/nrl/internal/termcaps"
)

// Color adjustments applied to the terminal defaults.
const (
	backgroundShift = 32
	hintShift       = 80
)

type lifecycle int

const (
	stateIdle lifecycle = iota
	stateOpen
	stateClosed
)

func (l lifecycle) String() string {
	switch l {
	case stateOpen:
		return "open"
	case stateClosed:
		return "closed"
	default:
		return "idle"
	}
}

// Handle edits lines on one terminal descriptor. A Handle is not safe for
// concurrent use.
type Handle struct {
	id     string
	fd     int
	frame  Frame
	caps   *termcaps.Info
	table  *keymap.Table
	poller *poll.Poller
	winch  *poll.Winch
	keys   *keysource.Source
	w      *poll.Writer

	state       lifecycle
	passthrough bool
	pend        []byte
	eof         bool

	prompt      Prompt
	hint        string
	multiline   bool
	frameColor  *color.RGB
	semantic    bool
	semanticSet bool
	escTimeout  time.Duration

	saved       *unix.Termios
	wasNonblock bool

	ed editor
}

// New returns a Handle for fd that owns its epoll instance.
func New(fd int, frame Frame) (*Handle, error) {
	p, err := poll.New()
	if err != nil {
		return nil, err
	}
	h, err := newHandle(p, fd, frame)
	if err != nil {
		p.Close()
		return nil, err
	}
	return h, nil
}

// NewWithEpoll returns a Handle that registers its descriptors with the
// caller's epoll instance epfd. The instance is never closed by the Handle.
func NewWithEpoll(epfd, fd int, frame Frame) (*Handle, error) {
	return newHandle(poll.Borrow(epfd), fd, frame)
}

func newHandle(p *poll.Poller, fd int, frame Frame) (*Handle, error) {
	h := &Handle{
		id:         uuid.New().String(),
		fd:         fd,
		frame:      frame,
		table:      keymap.Default(),
		poller:     p,
		keys:       keysource.New(fd),
		w:          poll.NewWriter(fd),
		prompt:     LiteralPrompt(""),
		multiline:  true,
		escTimeout: time.Duration(config.DefaultEscapeTimeoutMS) * time.Millisecond,
	}
	if !poll.IsTerminal(fd) {
		h.passthrough = true
		h.log().Debug("descriptor is not a terminal, reading plain lines", "fd", fd)
		return h, nil
	}
	winch, err := poll.NewWinch()
	if err != nil {
		return nil, err
	}
	h.winch = winch
	h.caps = termcaps.Describe(fd)
	h.log().Debug("handle created", "fd", fd, "frame", frame, "epoll", p.Ownership())
	return h, nil
}

func (h *Handle) log() *slog.Logger {
	return logger.WithSession(h.id)
}

// SetPrompt sets a fixed prompt. It takes effect at the next session.
func (h *Handle) SetPrompt(s string) {
	h.prompt = LiteralPrompt(s)
}

// SetPromptFunc sets a function called at the start of every session to
// produce the prompt.
func (h *Handle) SetPromptFunc(fn func() string) {
	h.prompt = FuncPrompt(fn)
}

// SetHint sets the text shown while the buffer is empty.
func (h *Handle) SetHint(s string) {
	h.hint = s
}

// SetMultiline selects wrapping (true, the default) or horizontal
// scrolling on one row.
func (h *Handle) SetMultiline(on bool) {
	h.multiline = on
}

// SetFrameColor highlights a FrameLine frame while editing. A nil color
// removes the highlight.
func (h *Handle) SetFrameColor(c stdcolor.Color) {
	if c == nil {
		h.frameColor = nil
		return
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		h.frameColor = nil
		return
	}
	rgb := color.FromColorful(cc)
	h.frameColor = &rgb
}

// SetSemanticPrompts forces OSC 133 prompt marking on or off. By default
// it is used on terminals known to support it.
func (h *Handle) SetSemanticPrompts(on bool) {
	h.semantic = on
	h.semanticSet = true
}

// SetEscapeTimeout sets how long an incomplete escape sequence is held
// back before it is decoded as is.
func (h *Handle) SetEscapeTimeout(d time.Duration) {
	if d > 0 {
		h.escTimeout = d
	}
}

// Passthrough reports whether the descriptor is read as plain lines.
func (h *Handle) Passthrough() bool {
	return h.passthrough
}

// Fds returns the descriptors registered while a session is open.
// Cooperative callers using their own epoll instance should route events
// for these to Process.
func (h *Handle) Fds() []int {
	if h.state != stateOpen || h.passthrough {
		return nil
	}
	return []int{h.fd, h.winch.Fd()}
}

// WaitTimeout is the timeout in milliseconds for the caller's next
// epoll_wait: -1 to wait indefinitely, otherwise call ProcessTimeout when
// the wait times out.
func (h *Handle) WaitTimeout() int {
	switch {
	case h.passthrough:
		return 0
	case h.state == stateOpen && h.keys.Pending():
		return int(h.escTimeout.Milliseconds())
	default:
		return -1
	}
}

func (h *Handle) useSemantic() bool {
	if h.semanticSet {
		return h.semantic
	}
	return h.caps.Features.Has(termcaps.FeatureSemanticPrompts)
}

// setupColors derives the escape sequences for the frame, text and hint
// from the terminal's default colors.
func (h *Handle) setupColors() {
	e := &h.ed
	e.frameSGR, e.textSGR, e.hintSGR = "", "", ""
	if h.caps.Profile == termenv.Ascii {
		return
	}
	fg, bg := h.caps.DefaultFG, h.caps.DefaultBG
	switch h.frame {
	case FrameBackground:
		fg, bg = color.Adjust(fg, bg, backgroundShift)
		e.frameSGR = color.Foreground(bg)
		e.textSGR = color.Pair(fg, bg)
	case FrameLine:
		if h.frameColor != nil && *h.frameColor != fg {
			e.frameSGR = color.Foreground(*h.frameColor)
		}
	}
	_, hint := color.Adjust(bg, bg, hintShift)
	e.hintSGR = color.Foreground(hint)
}

// Close ends any open session and releases the Handle's resources. The
// terminal descriptor itself stays open.
func (h *Handle) Close() error {
	if h.state == stateClosed {
		return nil
	}
	if h.state == stateOpen {
		h.finalize()
	}
	h.state = stateClosed
	h.keys.Close()
	var err error
	if h.winch != nil {
		err = h.winch.Close()
		// The descriptor number may be reused for another terminal.
		termcaps.Forget(h.fd)
	}
	if cerr := h.poller.Close(); err == nil {
		err = cerr
	}
	h.log().Debug("handle closed")
	return err
}
