package nrl

import (
	"io"
	"time"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/sys/unix"

	"github.com/zhubert/nrl/internal/errors"
	"github.com/zhubert/nrl/internal/poll"
)

const originTimeout = 2 * time.Second

// parseCursorReport finds a cursor position report "ESC [ row ; col R" in b
// and returns it with the byte range it occupies.
func parseCursorReport(b []byte) (row, col, start, end int, ok bool) {
	for i := 0; i+1 < len(b); i++ {
		if b[i] != 0x1b || b[i+1] != '[' {
			continue
		}
		j := i + 2
		r, j, okr := parseNumber(b, j)
		if !okr || j >= len(b) || b[j] != ';' {
			continue
		}
		c, j, okc := parseNumber(b, j+1)
		if !okc || j >= len(b) || b[j] != 'R' {
			continue
		}
		return r, c, i, j + 1, true
	}
	return 0, 0, 0, 0, false
}

func parseNumber(b []byte, i int) (int, int, bool) {
	n, start := 0, i
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		n = n*10 + int(b[i]-'0')
		i++
	}
	return n, i, i > start
}

// queryCursorPosition asks the terminal on fd where the cursor is. The
// request goes to w; anything else read while waiting for the reply is
// handed to feed so no typeahead is lost. The descriptor is switched to
// blocking mode for the round trip.
func queryCursorPosition(fd int, w io.Writer, feed func([]byte), timeout time.Duration) (col, row int, err error) {
	if _, err := io.WriteString(w, ansi.RequestCursorPositionReport); err != nil {
		return 0, 0, err
	}
	if nb, _ := poll.Nonblocking(fd); nb {
		if err := poll.SetNonblock(fd, false); err != nil {
			return 0, 0, err
		}
		defer poll.SetNonblock(fd, true)
	}

	var acc []byte
	var chunk [256]byte
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(pfd, int(remaining.Milliseconds())+1)
		if err == unix.EINTR {
			continue
		}
		if err != nil || n == 0 {
			break
		}
		n, err = unix.Read(fd, chunk[:])
		if err == unix.EINTR {
			continue
		}
		if err != nil || n == 0 {
			break
		}
		acc = append(acc, chunk[:n]...)
		if r, c, start, end, ok := parseCursorReport(acc); ok {
			feed(acc[:start])
			feed(acc[end:])
			return c, r, nil
		}
	}
	feed(acc)
	return 0, 0, errors.E(errors.Op("nrl.queryCursorPosition"), errors.KindTerminal, "no cursor position report")
}
