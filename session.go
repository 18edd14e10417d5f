package nrl

import (
	"bytes"
	"io"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/sys/unix"

	"github.com/zhubert/nrl/internal/errors"
	"github.com/zhubert/nrl/internal/keymap"
	"github.com/zhubert/nrl/internal/keysource"
	"github.com/zhubert/nrl/internal/poll"
)

const passthroughChunk = 4096

// Prepare opens a session: it switches the terminal to raw mode, registers
// the descriptors, draws the frame and prompt and resets the buffer. It
// does nothing if a session is already open, so cooperative callers can
// call it before every wait.
func (h *Handle) Prepare() error {
	switch {
	case h.state == stateClosed:
		return ErrClosed
	case h.state == stateOpen, h.passthrough:
		return nil
	}

	saved, err := poll.MakeRaw(h.fd)
	if err != nil {
		return err
	}
	h.saved = saved
	h.wasNonblock, _ = poll.Nonblocking(h.fd)
	if err := poll.SetNonblock(h.fd, true); err != nil {
		h.restoreMode()
		return errors.TerminalModeFailed(h.fd, err)
	}
	if err := h.poller.Add(h.fd); err != nil {
		h.restoreMode()
		if poll.NotPollable(err) {
			h.passthrough = true
			h.log().Debug("descriptor cannot be polled, reading plain lines", "fd", h.fd)
			return nil
		}
		return err
	}
	if err := h.poller.Add(h.winch.Fd()); err != nil {
		h.poller.Remove(h.fd)
		h.restoreMode()
		return err
	}
	h.winch.Start()
	h.state = stateOpen

	e := &h.ed
	e.out.Reset()
	e.termCols, e.termRows = poll.WindowSize(h.fd)
	e.multiline = h.multiline
	e.frame = h.frame
	e.hint = h.hint
	h.setupColors()

	semantic := h.useSemantic()
	if semantic {
		e.out.WriteString(oscFreshLine)
	} else {
		e.out.WriteString("\r")
	}
	e.drawFrame()
	if err := h.flush(); err != nil {
		h.finalize()
		return err
	}

	col, row, err := queryCursorPosition(h.fd, h.w, h.keys.Feed, originTimeout)
	if err != nil {
		col, row = 1, max(1, e.termRows-e.curFrameLines)
		h.log().Warn("cursor position unknown, assuming bottom row", "error", err, "row", row)
	}
	e.initialCol, e.initialRow = col, row

	e.reset(h.prompt.Resolve())
	if e.prompt != "" {
		if semantic {
			e.out.WriteString(oscPromptStart)
		}
		e.out.WriteString(e.prompt)
	}
	if semantic {
		e.out.WriteString(oscPromptEnd)
	}
	e.out.WriteString(e.textSGR)
	e.out.WriteString(ansi.EraseLineRight)
	e.drawHint()
	h.log().Debug("session opened", "cols", e.termCols, "rows", e.termRows,
		"origin_col", col, "origin_row", row, "multiline", e.multiline)
	return h.flush()
}

// Process handles one readiness event. For descriptors the Handle does not
// own it returns StatusForeign. When the status is StatusDone the session
// is over and the line, possibly together with ErrInterrupt or io.EOF, is
// returned.
func (h *Handle) Process(ev unix.EpollEvent) (string, Status, error) {
	if h.state != stateOpen {
		if h.state == stateClosed {
			return "", StatusDone, ErrClosed
		}
		return "", StatusForeign, nil
	}
	switch int(ev.Fd) {
	case h.fd:
		if err := h.keys.AdviseReadable(); err != nil {
			h.finalize()
			return "", StatusDone, errors.E(errors.Op("nrl.Process"), errors.KindIO, err)
		}
		return h.drain(false)
	case h.winch.Fd():
		if h.winch.Drain() {
			h.resize()
		}
		return "", StatusPending, nil
	}
	return "", StatusForeign, nil
}

// ProcessTimeout is called when a wait bounded by WaitTimeout expired. Held
// back input is decoded as is; in passthrough mode the next line is read.
func (h *Handle) ProcessTimeout() (string, Status, error) {
	switch {
	case h.state == stateClosed:
		return "", StatusDone, ErrClosed
	case h.passthrough:
		line, err := h.readLine()
		return line, StatusDone, err
	case h.state != stateOpen:
		return "", StatusPending, nil
	}
	return h.drain(true)
}

// drain feeds decoded keys to the editor until input runs out or the
// session ends. Output is written once at the end.
func (h *Handle) drain(force bool) (string, Status, error) {
	e := &h.ed
	for {
		var k keymap.Key
		var res keysource.Result
		if force {
			k, res = h.keys.Force()
			force = false
		} else {
			k, res = h.keys.Next()
		}
		switch res {
		case keysource.ResultNone:
			if err := h.flush(); err != nil {
				h.finalize()
				return "", StatusDone, err
			}
			return "", StatusPending, nil
		case keysource.ResultEOF:
			e.finish()
			return h.end(io.EOF)
		}

		switch e.onKey(k, h.table) {
		case outcomeAccept:
			return h.end(nil)
		case outcomeInterrupt:
			e.finish()
			return h.end(ErrInterrupt)
		case outcomeEOF:
			e.finish()
			return h.end(io.EOF)
		case outcomeIgnored:
			h.log().Debug("unbound key", "key", k.String())
		}
	}
}

// end finalizes the session and returns its result.
func (h *Handle) end(reason error) (string, Status, error) {
	line := h.ed.text()
	h.finalize()
	h.log().Debug("session ended", "bytes", len(line), "reason", reason)
	if reason == io.EOF {
		return "", StatusDone, io.EOF
	}
	return line, StatusDone, reason
}

// Read edits one line and returns it. It returns io.EOF at end of input or
// when control-D is pressed on an empty line, and ErrInterrupt together
// with the text typed so far on control-C.
func (h *Handle) Read() (string, error) {
	if h.state == stateClosed {
		return "", ErrClosed
	}
	if h.passthrough {
		return h.readLine()
	}
	if err := h.Prepare(); err != nil {
		return "", err
	}
	if h.passthrough {
		return h.readLine()
	}
	defer func() {
		if r := recover(); r != nil {
			if h.state == stateOpen {
				h.finalize()
			}
			panic(r)
		}
	}()

	events := make([]unix.EpollEvent, 4)
	for {
		n, err := h.poller.Wait(events, h.WaitTimeout())
		if err != nil {
			h.finalize()
			return "", errors.E(errors.Op("nrl.Read"), errors.KindPoll, err)
		}
		if n == 0 {
			if line, st, err := h.ProcessTimeout(); st == StatusDone {
				return line, err
			}
			continue
		}
		for _, ev := range events[:n] {
			line, st, err := h.Process(ev)
			if st == StatusDone {
				return line, err
			}
		}
	}
}

// finalize closes the open session and restores the terminal.
func (h *Handle) finalize() {
	e := &h.ed
	if e.textSGR != "" {
		e.out.WriteString(ansi.ResetStyle)
	}
	if h.useSemantic() {
		e.out.WriteString(oscCommand)
	}
	if err := h.flush(); err != nil {
		h.log().Warn("cannot write final output", "error", err)
	}
	h.poller.Remove(h.fd)
	h.poller.Remove(h.winch.Fd())
	h.winch.Stop()
	h.restoreMode()
	h.state = stateIdle
}

func (h *Handle) restoreMode() {
	if err := poll.SetNonblock(h.fd, h.wasNonblock); err != nil {
		h.log().Warn("cannot restore blocking mode", "error", err)
	}
	if err := poll.Restore(h.fd, h.saved); err != nil {
		h.log().Warn("cannot restore terminal mode", "error", err)
	}
	h.saved = nil
}

// resize picks up the new window size. Text already on screen is not
// reflowed.
func (h *Handle) resize() {
	e := &h.ed
	cols, rows := poll.WindowSize(h.fd)
	if cols == e.termCols && rows == e.termRows {
		return
	}
	h.log().Debug("window resized", "cols", cols, "rows", rows)
	e.termCols, e.termRows = cols, rows
}

// flush writes the accumulated output.
func (h *Handle) flush() error {
	e := &h.ed
	if e.out.Len() == 0 {
		return nil
	}
	_, err := h.w.Write(e.out.Bytes())
	e.out.Reset()
	if err != nil {
		return errors.E(errors.Op("nrl.flush"), errors.KindIO, err)
	}
	return nil
}

// readLine returns the next line of a descriptor that is not a terminal.
// Input after the line is kept for the next call. A final line without a
// newline is returned before io.EOF.
func (h *Handle) readLine() (string, error) {
	var chunk [passthroughChunk]byte
	for {
		if i := bytes.IndexByte(h.pend, '\n'); i >= 0 {
			line := string(bytes.TrimSuffix(h.pend[:i], []byte{'\r'}))
			h.pend = append(h.pend[:0], h.pend[i+1:]...)
			return line, nil
		}
		if h.eof {
			if len(h.pend) == 0 {
				return "", io.EOF
			}
			line := string(h.pend)
			h.pend = h.pend[:0]
			return line, nil
		}
		n, err := unix.Read(h.fd, chunk[:])
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			pfd := []unix.PollFd{{Fd: int32(h.fd), Events: unix.POLLIN}}
			if _, err := unix.Poll(pfd, -1); err != nil && err != unix.EINTR {
				return "", errors.E(errors.Op("nrl.readLine"), errors.KindIO, err)
			}
		case err != nil:
			return "", errors.E(errors.Op("nrl.readLine"), errors.KindIO, err)
		case n == 0:
			h.eof = true
		default:
			h.pend = append(h.pend, chunk[:n]...)
		}
	}
}
