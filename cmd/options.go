package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhubert/nrl"
	"github.com/zhubert/nrl/internal/color"
	"github.com/zhubert/nrl/internal/config"
	"github.com/zhubert/nrl/internal/logger"
)

// loadSettings merges the config file, the defaults and any flags given on
// the command line, and starts file logging if asked to.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			logger.Warn("cannot locate config directory: %v", err)
		}
		path = p
	}

	cfg, err := config.LoadAndMerge(path)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if err := config.Check(cfg); err != nil {
		return nil, err
	}

	if cfg.LogFile != "" || debugMode {
		logPath := cfg.LogFile
		if logPath == "" {
			logPath = logger.DefaultLogPath
		}
		if err := logger.Init(logPath); err != nil {
			return nil, fmt.Errorf("error opening log file: %w", err)
		}
		if debugMode {
			fmt.Fprintf(cmd.ErrOrStderr(), "debug log: %s\n", logger.Path())
		}
		logger.Info("nrl %s: frame=%s multiline=%v config=%s", version, cfg.Frame, cfg.IsMultiline(), path)
	}
	return cfg, nil
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("prompt") {
		prompt := promptFlag
		cfg.Prompt = &prompt
	}
	if flags.Changed("hint") {
		hint := hintFlag
		cfg.Hint = &hint
	}
	if flags.Changed("frame") {
		cfg.Frame = frameFlag
	}
	if flags.Changed("frame-color") {
		cfg.FrameColor = frameColorFlag
	}
	if flags.Changed("single-line") {
		multiline := !singleLine
		cfg.Multiline = &multiline
	}
}

func frameOf(cfg *config.Config) nrl.Frame {
	f, _ := nrl.ParseFrame(cfg.Frame)
	return f
}

// configure applies the validated settings to h.
func configure(h *nrl.Handle, cfg *config.Config) error {
	h.SetPrompt(cfg.PromptText())
	h.SetHint(cfg.HintText())
	h.SetMultiline(cfg.IsMultiline())
	h.SetEscapeTimeout(cfg.EscapeTimeout())
	switch cfg.SemanticPrompts {
	case config.SemanticOn:
		h.SetSemanticPrompts(true)
	case config.SemanticOff:
		h.SetSemanticPrompts(false)
	}
	if cfg.FrameColor != "" {
		c, err := color.ParseHex(cfg.FrameColor)
		if err != nil {
			return err
		}
		h.SetFrameColor(c)
	}
	return nil
}
