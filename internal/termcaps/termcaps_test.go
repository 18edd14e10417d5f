package termcaps

import (
	"os"
	"testing"

	"github.com/zhubert/nrl/internal/color"
)

func envFunc(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDetectFeatures(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		semantic bool
		truecol  bool
	}{
		{"empty", nil, false, false},
		{"wezterm", map[string]string{"TERM_PROGRAM": "WezTerm"}, true, false},
		{"iterm", map[string]string{"TERM_PROGRAM": "iTerm.app"}, true, false},
		{"vscode", map[string]string{"TERM_PROGRAM": "vscode"}, true, false},
		{"kitty", map[string]string{"KITTY_WINDOW_ID": "3"}, true, false},
		{"vte", map[string]string{"VTE_VERSION": "7600"}, true, false},
		{"foot", map[string]string{"TERM": "foot-extra"}, true, false},
		{"apple terminal", map[string]string{"TERM_PROGRAM": "Apple_Terminal"}, false, false},
		{"truecolor", map[string]string{"COLORTERM": "truecolor"}, false, true},
		{"24bit vte", map[string]string{"COLORTERM": "24bit", "VTE_VERSION": "1"}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := detectFeatures(envFunc(tt.env))
			if got := fs.Has(FeatureSemanticPrompts); got != tt.semantic {
				t.Errorf("semantic prompts = %v, want %v", got, tt.semantic)
			}
			if got := fs.Has(FeatureTrueColor); got != tt.truecol {
				t.Errorf("true color = %v, want %v", got, tt.truecol)
			}
		})
	}
}

func TestDescribe_NonTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "caps")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	fd := int(f.Fd())
	t.Cleanup(func() { Forget(fd) })

	info := Describe(fd)
	if info.DefaultFG != fallbackFG || info.DefaultBG != fallbackBG {
		t.Errorf("Describe() colors = %v/%v, want fallbacks", info.DefaultFG, info.DefaultBG)
	}
	if Describe(fd) != info {
		t.Error("Describe() did not cache the descriptor")
	}
}

func TestSet(t *testing.T) {
	const fd = 987654
	t.Cleanup(func() { Forget(fd) })

	want := &Info{DefaultFG: color.RGB{R: 1}, DefaultBG: color.RGB{B: 2}}
	Set(fd, want)
	if got := Describe(fd); got != want {
		t.Errorf("Describe() = %+v, want the installed descriptor", got)
	}
	Forget(fd)
	if got := Describe(fd); got == want {
		t.Error("Forget() kept the descriptor")
	}
}
