package cmd

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/zhubert/nrl"
	"github.com/zhubert/nrl/internal/logger"
)

var extCmd = &cobra.Command{
	Use:   "ext",
	Short: "Read lines from an externally owned epoll loop",
	Long: `Runs the editor cooperatively: the command owns the epoll instance, asks the
editor to prepare before every wait and hands it each event. Events for
descriptors the editor does not own are reported. An empty line stops.`,
	RunE: runExt,
}

func init() {
	rootCmd.AddCommand(extCmd)
}

func runExt(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return fmt.Errorf("cannot open epoll: %w", err)
	}
	defer unix.Close(epfd)

	h, err := nrl.NewWithEpoll(epfd, int(os.Stdin.Fd()), frameOf(cfg))
	if err != nil {
		return fmt.Errorf("error opening terminal: %w", err)
	}
	defer h.Close()
	if err := configure(h, cfg); err != nil {
		return err
	}
	return extLoop(epfd, h, cmd.OutOrStdout())
}

// extLoop drives h from the caller's epoll instance until an empty line,
// end of input or an interrupt.
func extLoop(epfd int, h *nrl.Handle, out io.Writer) error {
	events := make([]unix.EpollEvent, 1)
	for {
		if err := h.Prepare(); err != nil {
			return fmt.Errorf("error preparing terminal: %w", err)
		}

		var (
			line string
			st   nrl.Status
			err  error
		)
		n, werr := unix.EpollWait(epfd, events, h.WaitTimeout())
		switch {
		case werr == unix.EINTR:
			continue
		case werr != nil:
			return fmt.Errorf("epoll_wait: %w", werr)
		case n == 0:
			line, st, err = h.ProcessTimeout()
		default:
			line, st, err = h.Process(events[0])
		}

		switch {
		case st == nrl.StatusForeign:
			logger.Debug("event for foreign descriptor %d", events[0].Fd)
			fmt.Fprintf(out, "unhandled file descriptor %d\n", events[0].Fd)
		case st == nrl.StatusPending:
		case err == io.EOF:
			return nil
		case stderrors.Is(err, nrl.ErrInterrupt):
			printInterrupted(out, line)
			return nil
		case err != nil:
			logger.Error("process failed: %v", err)
			return fmt.Errorf("error reading input: %w", err)
		case line == "":
			return nil
		default:
			printLine(out, line)
		}
	}
}
