// Package termcaps describes what a terminal can do: its default colors and
// whether it understands semantic prompt markers.
package termcaps

import (
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/zhubert/nrl/internal/color"
	"github.com/zhubert/nrl/internal/logger"
)

// Feature is a terminal capability flag.
type Feature uint

const (
	// FeatureSemanticPrompts marks support for OSC 133 prompt markers.
	FeatureSemanticPrompts Feature = 1 << iota
	// FeatureTrueColor marks support for 24-bit SGR colors.
	FeatureTrueColor
)

// Features is a set of Feature flags.
type Features uint

// Has reports whether f is in the set.
func (fs Features) Has(f Feature) bool {
	return Features(f)&fs != 0
}

// With returns the set with f added.
func (fs Features) With(f Feature) Features {
	return fs | Features(f)
}

// Info is the capability descriptor of one terminal. It is shared and must
// not be modified after Describe returns it.
type Info struct {
	DefaultFG color.RGB
	DefaultBG color.RGB
	Profile   termenv.Profile
	Features  Features
}

var (
	fallbackFG = color.RGB{R: 0xe5, G: 0xe5, B: 0xe5}
	fallbackBG = color.RGB{}

	cache sync.Map // int -> *Info
)

// Describe returns the descriptor for fd, querying the terminal on first use.
func Describe(fd int) *Info {
	if v, ok := cache.Load(fd); ok {
		return v.(*Info)
	}
	info := query(fd)
	v, _ := cache.LoadOrStore(fd, info)
	return v.(*Info)
}

// Set installs info as the descriptor for fd.
func Set(fd int, info *Info) {
	cache.Store(fd, info)
}

// Forget drops the cached descriptor for fd.
func Forget(fd int) {
	cache.Delete(fd)
}

func query(fd int) *Info {
	log := logger.ComponentLogger("termcaps")
	info := &Info{
		DefaultFG: fallbackFG,
		DefaultBG: fallbackBG,
		Profile:   termenv.Ascii,
		Features:  detectFeatures(os.Getenv),
	}
	if !term.IsTerminal(fd) {
		return info
	}

	// termenv wants an *os.File; hand it a duplicate so closing it leaves
	// fd alone.
	dup, err := unix.Dup(fd)
	if err != nil {
		log.Warn("cannot duplicate descriptor", "fd", fd, "error", err)
		return info
	}
	f := os.NewFile(uintptr(dup), "tty")
	defer f.Close()

	out := termenv.NewOutput(f)
	info.Profile = out.Profile
	if info.Profile == termenv.TrueColor {
		info.Features = info.Features.With(FeatureTrueColor)
	}
	if c := out.ForegroundColor(); c != nil {
		info.DefaultFG = color.FromColorful(termenv.ConvertToRGB(c))
	}
	if c := out.BackgroundColor(); c != nil {
		info.DefaultBG = color.FromColorful(termenv.ConvertToRGB(c))
	}
	log.Debug("terminal described", "fd", fd, "fg", info.DefaultFG.Hex(), "bg", info.DefaultBG.Hex(),
		"profile", info.Profile, "features", info.Features)
	return info
}

// detectFeatures guesses capabilities from the environment.
func detectFeatures(getenv func(string) string) Features {
	var fs Features
	switch getenv("TERM_PROGRAM") {
	case "WezTerm", "iTerm.app", "ghostty", "vscode", "kitty":
		fs = fs.With(FeatureSemanticPrompts)
	}
	if getenv("KITTY_WINDOW_ID") != "" || getenv("VTE_VERSION") != "" {
		fs = fs.With(FeatureSemanticPrompts)
	}
	if t := getenv("TERM"); strings.HasPrefix(t, "foot") || strings.HasPrefix(t, "xterm-ghostty") {
		fs = fs.With(FeatureSemanticPrompts)
	}
	if ct := getenv("COLORTERM"); ct == "truecolor" || ct == "24bit" {
		fs = fs.With(FeatureTrueColor)
	}
	return fs
}
