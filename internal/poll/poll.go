// Package poll wraps the Linux readiness and terminal primitives a line
// editing session sits on: an epoll instance that may belong to someone
// else, resize notification through a pollable pipe, terminal modes and a
// raw descriptor writer.
package poll

import (
	stderrors "errors"

	"golang.org/x/sys/unix"

	"github.com/zhubert/nrl/internal/errors"
)

// Ownership records who closes an epoll descriptor.
type Ownership int

const (
	// Owned instances were created by New and are closed by Close.
	Owned Ownership = iota
	// Borrowed instances were handed in by the caller and stay open.
	Borrowed
)

func (o Ownership) String() string {
	if o == Borrowed {
		return "borrowed"
	}
	return "owned"
}

// Poller is an epoll instance watching descriptors for readability.
type Poller struct {
	fd  int
	own Ownership
}

// New creates a private epoll instance.
func New() (*Poller, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, errors.PollCreateFailed(err)
	}
	return &Poller{fd: fd, own: Owned}, nil
}

// Borrow wraps an epoll descriptor owned by the caller.
func Borrow(epfd int) *Poller {
	return &Poller{fd: epfd, own: Borrowed}
}

// Fd returns the epoll descriptor.
func (p *Poller) Fd() int { return p.fd }

// Ownership reports whether Close will close the descriptor.
func (p *Poller) Ownership() Ownership { return p.own }

// Add registers fd for input readiness. The event carries fd in its Fd
// field.
func (p *Poller) Add(fd int) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN | unix.EPOLLERR, Fd: int32(fd)}
	if err := unix.EpollCtl(p.fd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return errors.PollRegisterFailed(fd, err)
	}
	return nil
}

// Remove deregisters fd. Descriptors that were never added are ignored.
func (p *Poller) Remove(fd int) error {
	err := unix.EpollCtl(p.fd, unix.EPOLL_CTL_DEL, fd, nil)
	if err != nil && err != unix.ENOENT && err != unix.EBADF {
		return errors.E(errors.Op("poll.Remove"), errors.KindPoll, err)
	}
	return nil
}

// Wait blocks for up to timeout milliseconds (-1 forever) and fills events.
// Interrupted waits are restarted.
func (p *Poller) Wait(events []unix.EpollEvent, timeout int) (int, error) {
	for {
		n, err := unix.EpollWait(p.fd, events, timeout)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, errors.E(errors.Op("poll.Wait"), errors.KindPoll, err)
		}
		return n, nil
	}
}

// Close closes the epoll descriptor if it is owned.
func (p *Poller) Close() error {
	if p.own != Owned || p.fd < 0 {
		return nil
	}
	err := unix.Close(p.fd)
	p.fd = -1
	return err
}

// NotPollable reports whether err says the descriptor cannot be watched by
// epoll at all, as is the case for regular files.
func NotPollable(err error) bool {
	var errno unix.Errno
	return stderrors.As(err, &errno) && errno == unix.EPERM
}
