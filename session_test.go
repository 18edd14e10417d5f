package nrl

import (
	stderrors "errors"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// newPipeHandle returns a Handle reading input from a pipe whose write end
// is already closed.
func newPipeHandle(t *testing.T, input string) *Handle {
	t.Helper()
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() { unix.Close(p[0]) })
	if _, err := unix.Write(p[1], []byte(input)); err != nil {
		t.Fatal(err)
	}
	unix.Close(p[1])

	h, err := New(p[0], FrameLine)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestPassthroughRead(t *testing.T) {
	h := newPipeHandle(t, "one\r\ntwo\n\nthree")
	if !h.Passthrough() {
		t.Fatal("pipe not read in passthrough mode")
	}
	for _, want := range []string{"one", "two", "", "three"} {
		got, err := h.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if got != want {
			t.Errorf("Read = %q, want %q", got, want)
		}
	}
	if _, err := h.Read(); err != io.EOF {
		t.Errorf("Read at end = %v, want io.EOF", err)
	}
}

func TestPassthroughRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input")
	if err := os.WriteFile(path, []byte("first\nsecond\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	h, err := New(int(f.Fd()), FrameNone)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer h.Close()

	for _, want := range []string{"first", "second"} {
		if got, err := h.Read(); err != nil || got != want {
			t.Errorf("Read = %q, %v, want %q", got, err, want)
		}
	}
	if _, err := h.Read(); err != io.EOF {
		t.Errorf("Read at end = %v, want io.EOF", err)
	}
}

func TestPassthroughCooperative(t *testing.T) {
	h := newPipeHandle(t, "line\n")
	if err := h.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if fds := h.Fds(); len(fds) != 0 {
		t.Errorf("Fds = %v, want none", fds)
	}
	if got := h.WaitTimeout(); got != 0 {
		t.Errorf("WaitTimeout = %d, want 0", got)
	}
	if _, st, _ := h.Process(unix.EpollEvent{Fd: 1234}); st != StatusForeign {
		t.Errorf("Process status = %v, want %v", st, StatusForeign)
	}
	line, st, err := h.ProcessTimeout()
	if line != "line" || st != StatusDone || err != nil {
		t.Errorf("ProcessTimeout = %q, %v, %v", line, st, err)
	}
	if _, st, err := h.ProcessTimeout(); st != StatusDone || err != io.EOF {
		t.Errorf("ProcessTimeout at end = %v, %v", st, err)
	}
}

func TestClosedHandle(t *testing.T) {
	h := newPipeHandle(t, "x\n")
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := h.Read(); !stderrors.Is(err, ErrClosed) {
		t.Errorf("Read after Close = %v, want ErrClosed", err)
	}
	if err := h.Prepare(); !stderrors.Is(err, ErrClosed) {
		t.Errorf("Prepare after Close = %v, want ErrClosed", err)
	}
	if _, st, err := h.ProcessTimeout(); st != StatusDone || !stderrors.Is(err, ErrClosed) {
		t.Errorf("ProcessTimeout after Close = %v, %v", st, err)
	}
}

func TestBorrowedEpollStaysOpen(t *testing.T) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		t.Fatal(err)
	}
	defer unix.Close(epfd)

	r, _ := newPipe(t)
	h, err := NewWithEpoll(epfd, r, FrameNone)
	if err != nil {
		t.Fatalf("NewWithEpoll: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	events := make([]unix.EpollEvent, 1)
	if _, err := unix.EpollWait(epfd, events, 0); err != nil {
		t.Errorf("borrowed epoll instance unusable after Close: %v", err)
	}
}

func TestSetters(t *testing.T) {
	h := newPipeHandle(t, "")

	h.SetPrompt("> ")
	if got := h.prompt.Resolve(); got != "> " {
		t.Errorf("prompt = %q", got)
	}
	calls := 0
	h.SetPromptFunc(func() string { calls++; return "$ " })
	if got := h.prompt.Resolve(); got != "$ " || calls != 1 {
		t.Errorf("prompt func = %q after %d calls", got, calls)
	}

	h.SetFrameColor(color.RGBA{R: 255, G: 128, A: 255})
	if h.frameColor == nil || h.frameColor.R != 255 || h.frameColor.G != 128 || h.frameColor.B != 0 {
		t.Errorf("frame color = %v", h.frameColor)
	}
	h.SetFrameColor(nil)
	if h.frameColor != nil {
		t.Errorf("frame color not cleared: %v", h.frameColor)
	}

	h.SetEscapeTimeout(0)
	if h.escTimeout != 50*time.Millisecond {
		t.Errorf("zero timeout accepted: %v", h.escTimeout)
	}
	h.SetEscapeTimeout(20 * time.Millisecond)
	if h.escTimeout != 20*time.Millisecond {
		t.Errorf("escape timeout = %v", h.escTimeout)
	}

	h.SetMultiline(false)
	h.SetHint("hint")
	h.SetSemanticPrompts(true)
	if h.multiline || h.hint != "hint" || !h.semantic || !h.semanticSet {
		t.Error("setters did not store their values")
	}
}
