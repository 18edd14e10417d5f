package cmd

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/nrl"
	"github.com/zhubert/nrl/internal/logger"
)

var (
	configPath            string
	debugMode             bool
	frameFlag             string
	promptFlag            string
	hintFlag              string
	frameColorFlag        string
	singleLine            bool
	version, commit, date string
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "nrl",
	Short: "Read lines with an in-place terminal line editor",
	Long: `nrl reads lines from the terminal with an editor drawn in place below the
cursor, optionally inside a frame, and prints every line it gets.

Press Enter to accept a line, control-D on an empty line or end of input to
stop, control-C to abandon the current line.`,
	RunE:          runBlocking,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initLogging)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/nrl/config.yaml)")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.StringVar(&frameFlag, "frame", "", "Frame around the input: none, line or background")
	flags.StringVar(&promptFlag, "prompt", "", "Prompt shown before the input")
	flags.StringVar(&hintFlag, "hint", "", "Text shown while the input is empty")
	flags.StringVar(&frameColorFlag, "frame-color", "", "Highlight color for the line frame, e.g. #ffd700")
	flags.BoolVar(&singleLine, "single-line", false, "Scroll horizontally instead of wrapping")
}

func initLogging() {
	if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("nrl %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("nrl %s\n", version)
}

// runBlocking reads lines with Handle.Read until end of input.
func runBlocking(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	h, err := nrl.New(int(os.Stdin.Fd()), frameOf(cfg))
	if err != nil {
		return fmt.Errorf("error opening terminal: %w", err)
	}
	defer h.Close()
	if err := configure(h, cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for {
		line, err := h.Read()
		switch {
		case err == io.EOF:
			return nil
		case stderrors.Is(err, nrl.ErrInterrupt):
			printInterrupted(out, line)
			return nil
		case err != nil:
			logger.Error("read failed: %v", err)
			return fmt.Errorf("error reading input: %w", err)
		}
		logger.Debug("line read (%d bytes)", len(line))
		printLine(out, line)
	}
}

func printLine(w io.Writer, line string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, labelStyle.Render("input =")+" "+valueStyle.Render(line))
}

func printInterrupted(w io.Writer, line string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, noteStyle.Render(fmt.Sprintf("interrupted (%d bytes discarded)", len(line))))
}
