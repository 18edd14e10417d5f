package nrl

import "testing"

func TestParseFrame(t *testing.T) {
	tests := []struct {
		in   string
		want Frame
		ok   bool
	}{
		{"", FrameNone, true},
		{"none", FrameNone, true},
		{"line", FrameLine, true},
		{"background", FrameBackground, true},
		{"box", FrameNone, false},
	}
	for _, tt := range tests {
		got, ok := ParseFrame(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseFrame(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
		if ok && tt.in != "" && got.String() != tt.in {
			t.Errorf("Frame(%d).String() = %q, want %q", got, got.String(), tt.in)
		}
	}
}

func TestStatusString(t *testing.T) {
	for st, want := range map[Status]string{
		StatusForeign: "foreign",
		StatusPending: "pending",
		StatusDone:    "done",
	} {
		if got := st.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", st, got, want)
		}
	}
}

func TestPromptResolve(t *testing.T) {
	if got := LiteralPrompt("> ").Resolve(); got != "> " {
		t.Errorf("literal = %q", got)
	}
	n := 0
	p := FuncPrompt(func() string {
		n++
		return "#"
	})
	p.Resolve()
	p.Resolve()
	if n != 2 {
		t.Errorf("prompt function called %d times, want 2", n)
	}
	if got := (Prompt{}).Resolve(); got != "" {
		t.Errorf("zero prompt = %q", got)
	}
}

func TestVisibleLen(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"> ", 2},
		{"\x1b[1;32mok\x1b[0m> ", 4},
		{"日本> ", 4},
	}
	for _, tt := range tests {
		if got := visibleLen(tt.in); got != tt.want {
			t.Errorf("visibleLen(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPromptInEditor(t *testing.T) {
	e := newTestEditor(80, "\x1b[1mnrl\x1b[0m> ", true)
	if e.promptLen != 5 || e.posX != 5 {
		t.Errorf("promptLen = %d, posX = %d, want 5, 5", e.promptLen, e.posX)
	}
}
