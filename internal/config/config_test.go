package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zhubert/nrl/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected nil error for missing file, got: %v", err)
	}
	if cfg != nil {
		t.Error("expected nil config for missing file")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeConfig(t, `
prompt: "> "
hint: "say something"
frame: line
frame_color: "#ffd700"
multiline: false
escape_timeout_ms: 25
semantic_prompts: "off"
log_file: /tmp/nrl.log
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.PromptText() != "> " {
		t.Errorf("prompt: got %q, want %q", cfg.PromptText(), "> ")
	}
	if cfg.Frame != FrameLine {
		t.Errorf("frame: got %q, want line", cfg.Frame)
	}
	if cfg.Multiline == nil || *cfg.Multiline {
		t.Error("multiline: expected explicit false")
	}
	if cfg.EscapeTimeout() != 25*time.Millisecond {
		t.Errorf("escape timeout: got %v", cfg.EscapeTimeout())
	}
	if cfg.SemanticPrompts != SemanticOff {
		t.Errorf("semantic_prompts: got %q, want off", cfg.SemanticPrompts)
	}
	if cfg.LogFile != "/tmp/nrl.log" {
		t.Errorf("log_file: got %q", cfg.LogFile)
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("unexpected validation errors: %v", errs)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "prompt: [unclosed")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !errors.Is(err, errors.KindConfig) {
		t.Errorf("error kind = %v, want KindConfig", errors.GetKind(err))
	}
}

func TestLoadAndMerge_Missing(t *testing.T) {
	cfg, err := LoadAndMerge(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if cfg.PromptText() != def.PromptText() || cfg.Frame != def.Frame || !cfg.IsMultiline() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadAndMerge_Partial(t *testing.T) {
	path := writeConfig(t, "frame: background\n")
	cfg, err := LoadAndMerge(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Frame != FrameBackground {
		t.Errorf("frame: got %q, want background", cfg.Frame)
	}
	if cfg.PromptText() != Default().PromptText() {
		t.Errorf("prompt not defaulted: %q", cfg.PromptText())
	}
	if cfg.EscapeTimeout() != DefaultEscapeTimeoutMS*time.Millisecond {
		t.Errorf("escape timeout not defaulted: %v", cfg.EscapeTimeout())
	}
}

func TestMerge_KeepsExplicitFalse(t *testing.T) {
	off := false
	got := Merge(&Config{Multiline: &off}, Default())
	if got.IsMultiline() {
		t.Error("explicit multiline: false was overwritten")
	}
}

func TestMerge_KeepsExplicitEmptyPrompt(t *testing.T) {
	path := writeConfig(t, "prompt: \"\"\nhint: \"\"\n")
	cfg, err := LoadAndMerge(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PromptText() != "" {
		t.Errorf("prompt: got %q, want empty", cfg.PromptText())
	}
	if cfg.HintText() != "" {
		t.Errorf("hint: got %q, want empty", cfg.HintText())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		fields []string
	}{
		{"defaults", *Default(), nil},
		{"bad frame", Config{Frame: "box"}, []string{"frame"}},
		{"bad color", Config{Frame: FrameLine, FrameColor: "gold"}, []string{"frame_color"}},
		{"color without line frame", Config{Frame: FrameBackground, FrameColor: "#ffffff"}, []string{"frame_color"}},
		{"bad semantic", Config{SemanticPrompts: "maybe"}, []string{"semantic_prompts"}},
		{"timeout too small", Config{EscapeTimeoutMS: intPtr(0)}, []string{"escape_timeout_ms"}},
		{"timeout too large", Config{EscapeTimeoutMS: intPtr(9000)}, []string{"escape_timeout_ms"}},
		{"multiline prompt", Config{Prompt: strPtr("a\nb")}, []string{"prompt"}},
		{"escaped hint", Config{Hint: strPtr("\x1b[1mbold")}, []string{"hint"}},
		{"several", Config{Frame: "x", SemanticPrompts: "y"}, []string{"frame", "semantic_prompts"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.cfg)
			if len(errs) != len(tt.fields) {
				t.Fatalf("Validate() = %v, want problems in %v", errs, tt.fields)
			}
			for i, e := range errs {
				if e.Field != tt.fields[i] {
					t.Errorf("problem %d field = %q, want %q", i, e.Field, tt.fields[i])
				}
			}
		})
	}
}

func TestCheck(t *testing.T) {
	if err := Check(Default()); err != nil {
		t.Errorf("Check(Default()) = %v", err)
	}
	err := Check(&Config{Frame: "x"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, errors.KindInvalid) {
		t.Errorf("error kind = %v, want KindInvalid", errors.GetKind(err))
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/xdg", "nrl", "config.yaml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/someone")
	got, err = DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/home/someone", ".config", "nrl", "config.yaml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
