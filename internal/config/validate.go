package config

import (
	"fmt"
	"strings"

	"github.com/zhubert/nrl/internal/color"
	"github.com/zhubert/nrl/internal/errors"
)

// ValidationError describes a single validation problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a Config for errors and returns all problems found.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	switch cfg.Frame {
	case "", FrameNone, FrameLine, FrameBackground:
		// valid
	default:
		errs = append(errs, ValidationError{
			Field:   "frame",
			Message: fmt.Sprintf("unknown frame %q (must be none, line, or background)", cfg.Frame),
		})
	}

	if cfg.FrameColor != "" {
		if _, err := color.ParseHex(cfg.FrameColor); err != nil {
			errs = append(errs, ValidationError{
				Field:   "frame_color",
				Message: fmt.Sprintf("invalid color %q (expected #rrggbb)", cfg.FrameColor),
			})
		} else if cfg.Frame != FrameLine {
			errs = append(errs, ValidationError{
				Field:   "frame_color",
				Message: "only applies to the line frame",
			})
		}
	}

	switch cfg.SemanticPrompts {
	case "", SemanticAuto, SemanticOn, SemanticOff:
		// valid
	default:
		errs = append(errs, ValidationError{
			Field:   "semantic_prompts",
			Message: fmt.Sprintf("unknown value %q (must be auto, on, or off)", cfg.SemanticPrompts),
		})
	}

	if cfg.EscapeTimeoutMS != nil && (*cfg.EscapeTimeoutMS < 1 || *cfg.EscapeTimeoutMS > 5000) {
		errs = append(errs, ValidationError{
			Field:   "escape_timeout_ms",
			Message: fmt.Sprintf("%d is out of range (1-5000)", *cfg.EscapeTimeoutMS),
		})
	}

	if strings.ContainsAny(cfg.PromptText(), "\n\r") {
		errs = append(errs, ValidationError{
			Field:   "prompt",
			Message: "must be a single line",
		})
	}
	if strings.ContainsAny(cfg.HintText(), "\n\r\x1b") {
		errs = append(errs, ValidationError{
			Field:   "hint",
			Message: "must be a single line of plain text",
		})
	}

	return errs
}

// Check runs Validate and folds the problems into one error.
func Check(cfg *Config) error {
	errs := Validate(cfg)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return errors.ConfigInvalid(strings.Join(msgs, "; "))
}
