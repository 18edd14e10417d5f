package poll

import (
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/zhubert/nrl/internal/errors"
)

// Fallback geometry for descriptors that are not terminals.
const (
	DefaultCols = 80
	DefaultRows = 25
)

// WindowSize returns the terminal's columns and rows.
func WindowSize(fd int) (cols, rows int) {
	cols, rows, err := term.GetSize(fd)
	if err != nil || cols <= 0 || rows <= 0 {
		return DefaultCols, DefaultRows
	}
	return cols, rows
}

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// SetNonblock switches O_NONBLOCK on fd.
func SetNonblock(fd int, on bool) error {
	if err := unix.SetNonblock(fd, on); err != nil {
		return errors.E(errors.Op("poll.SetNonblock"), errors.KindIO, err)
	}
	return nil
}

// Nonblocking reports whether O_NONBLOCK is set on fd.
func Nonblocking(fd int) (bool, error) {
	fl, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return false, errors.E(errors.Op("poll.Nonblocking"), errors.KindIO, err)
	}
	return fl&unix.O_NONBLOCK != 0, nil
}

// MakeRaw puts the terminal into raw input mode and returns the previous
// settings. Output processing stays on so "\n" still returns the carriage.
func MakeRaw(fd int) (*unix.Termios, error) {
	orig, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, errors.TerminalModeFailed(fd, err)
	}
	raw := *orig
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &raw); err != nil {
		return nil, errors.TerminalModeFailed(fd, err)
	}
	return orig, nil
}

// Restore reinstates settings saved by MakeRaw.
func Restore(fd int, saved *unix.Termios) error {
	if saved == nil {
		return nil
	}
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, saved); err != nil {
		return errors.TerminalModeFailed(fd, err)
	}
	return nil
}
