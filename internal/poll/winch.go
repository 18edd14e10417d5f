package poll

import (
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/zhubert/nrl/internal/errors"
)

// Winch turns SIGWINCH into readability of a pipe so window size changes
// show up in the same epoll wait as key presses.
type Winch struct {
	r, w int

	mu   sync.Mutex
	sig  chan os.Signal
	done chan struct{}
	wg   sync.WaitGroup
}

// NewWinch creates the pipe. Notification starts with Start.
func NewWinch() (*Winch, error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, errors.WinchSetupFailed(err)
	}
	return &Winch{r: p[0], w: p[1]}, nil
}

// Fd returns the descriptor to register with a Poller.
func (w *Winch) Fd() int { return w.r }

// Start begins relaying SIGWINCH. Calling it twice is harmless.
func (w *Winch) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		return
	}
	w.sig = make(chan os.Signal, 1)
	w.done = make(chan struct{})
	signal.Notify(w.sig, unix.SIGWINCH)

	w.wg.Add(1)
	go func(sig <-chan os.Signal, done <-chan struct{}) {
		defer w.wg.Done()
		one := []byte{0}
		for {
			select {
			case <-sig:
				// A full pipe already signals readability.
				_, _ = unix.Write(w.w, one)
			case <-done:
				return
			}
		}
	}(w.sig, w.done)
}

// Stop ends relaying. Pending notifications stay in the pipe.
func (w *Winch) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done == nil {
		return
	}
	signal.Stop(w.sig)
	close(w.done)
	w.wg.Wait()
	w.sig, w.done = nil, nil
}

// Drain empties the pipe and reports whether any notification was pending.
func (w *Winch) Drain() bool {
	var buf [64]byte
	got := false
	for {
		n, err := unix.Read(w.r, buf[:])
		if err == unix.EINTR {
			continue
		}
		if n <= 0 || err != nil {
			return got
		}
		got = true
	}
}

// Close stops relaying and closes the pipe.
func (w *Winch) Close() error {
	w.Stop()
	err := unix.Close(w.r)
	if cerr := unix.Close(w.w); err == nil {
		err = cerr
	}
	return err
}
