package poll

import (
	"golang.org/x/sys/unix"

	"github.com/zhubert/nrl/internal/errors"
)

// Writer writes to a raw descriptor without taking ownership of it. Writes
// to a nonblocking descriptor wait for room instead of failing.
type Writer struct {
	fd int
}

// NewWriter returns a Writer for fd.
func NewWriter(fd int) *Writer {
	return &Writer{fd: fd}
}

// Write writes all of p.
func (w *Writer) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := unix.Write(w.fd, p[written:])
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			pfd := []unix.PollFd{{Fd: int32(w.fd), Events: unix.POLLOUT}}
			if _, perr := unix.Poll(pfd, -1); perr != nil && perr != unix.EINTR {
				return written, errors.E(errors.Op("poll.Writer"), errors.KindIO, perr)
			}
			continue
		case err != nil:
			return written, errors.E(errors.Op("poll.Writer"), errors.KindIO, err)
		}
		written += n
	}
	return written, nil
}

// WriteString writes s.
func (w *Writer) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}
