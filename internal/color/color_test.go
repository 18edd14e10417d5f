package color

import (
	"testing"

	"github.com/zhubert/nrl/internal/errors"
)

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name string
		in   RGB
		want HSV
	}{
		{"black", RGB{0, 0, 0}, HSV{0, 0, 0}},
		{"white", RGB{255, 255, 255}, HSV{0, 0, 255}},
		{"gray", RGB{128, 128, 128}, HSV{0, 0, 128}},
		{"red", RGB{255, 0, 0}, HSV{0, 255, 255}},
		{"green", RGB{0, 255, 0}, HSV{85, 255, 255}},
		{"blue", RGB{0, 0, 255}, HSV{171, 255, 255}},
		// 43*(0-255)/255 = -43, wrapped into a byte.
		{"magenta", RGB{255, 0, 255}, HSV{213, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RGBToHSV(tt.in); got != tt.want {
				t.Errorf("RGBToHSV(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHSVToRGB(t *testing.T) {
	tests := []struct {
		name string
		in   HSV
		want RGB
	}{
		{"unsaturated", HSV{100, 0, 77}, RGB{77, 77, 77}},
		{"red", HSV{0, 255, 255}, RGB{255, 0, 0}},
		{"green drifts", HSV{85, 255, 255}, RGB{3, 255, 0}},
		{"black", HSV{0, 255, 0}, RGB{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HSVToRGB(tt.in); got != tt.want {
				t.Errorf("HSVToRGB(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundTrip_PreservesValue(t *testing.T) {
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				in := RGB{uint8(r), uint8(g), uint8(b)}
				out := HSVToRGB(RGBToHSV(in))
				if max(out.R, out.G, out.B) != max(in.R, in.G, in.B) {
					t.Fatalf("%v -> %v changed the value channel", in, out)
				}
			}
		}
	}
}

func TestRoundTrip_GraysExact(t *testing.T) {
	for v := 0; v < 256; v++ {
		in := RGB{uint8(v), uint8(v), uint8(v)}
		if out := HSVToRGB(RGBToHSV(in)); out != in {
			t.Fatalf("gray %v round-tripped to %v", in, out)
		}
	}
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		name           string
		fg, bg         RGB
		amount         uint8
		wantFG, wantBG RGB
	}{
		{
			name: "dark background lightens",
			fg:   RGB{255, 255, 255}, bg: RGB{0, 0, 0}, amount: 32,
			wantFG: RGB{255, 255, 255}, wantBG: RGB{32, 32, 32},
		},
		{
			name: "light background darkens",
			fg:   RGB{0, 0, 0}, bg: RGB{255, 255, 255}, amount: 32,
			wantFG: RGB{0, 0, 0}, wantBG: RGB{223, 223, 223},
		},
		{
			name: "gray foreground on dark",
			fg:   RGB{200, 200, 200}, bg: RGB{20, 20, 20}, amount: 32,
			wantFG: RGB{232, 232, 232}, wantBG: RGB{52, 52, 52},
		},
		{
			name: "threshold counts as light",
			fg:   RGB{10, 10, 10}, bg: RGB{128, 128, 128}, amount: 80,
			wantFG: RGB{0, 0, 0}, wantBG: RGB{48, 48, 48},
		},
		{
			name: "light background saturates at zero",
			fg:   RGB{200, 200, 200}, bg: RGB{250, 250, 250}, amount: 255,
			wantFG: RGB{0, 0, 0}, wantBG: RGB{0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fg, bg := Adjust(tt.fg, tt.bg, tt.amount)
			if fg != tt.wantFG || bg != tt.wantBG {
				t.Errorf("Adjust() = (%v, %v), want (%v, %v)", fg, bg, tt.wantFG, tt.wantBG)
			}
		})
	}
}

func TestAdjust_NeverWraps(t *testing.T) {
	amounts := []uint8{0, 1, 32, 80, 128, 200, 255}
	for v := 0; v < 256; v += 5 {
		c := RGB{uint8(v), uint8(v / 2), uint8(255 - v)}
		for _, a := range amounts {
			fg, bg := Adjust(c, c, a)
			in := RGBToHSV(c).V
			for _, out := range []RGB{fg, bg} {
				ov := RGBToHSV(out).V
				if in >= 128 && ov > in {
					t.Fatalf("Adjust(%v, %d) brightened a light color to %v", c, a, out)
				}
				if in < 128 && ov < in {
					t.Fatalf("Adjust(%v, %d) darkened a dark color to %v", c, a, out)
				}
			}
		}
	}
}

func TestParseHex(t *testing.T) {
	got, err := ParseHex("#ffd700")
	if err != nil {
		t.Fatalf("ParseHex() error = %v", err)
	}
	if want := (RGB{255, 215, 0}); got != want {
		t.Errorf("ParseHex() = %v, want %v", got, want)
	}
	if got.Hex() != "#ffd700" {
		t.Errorf("Hex() = %q", got.Hex())
	}

	_, err = ParseHex("gold")
	if err == nil {
		t.Fatal("ParseHex(gold) succeeded")
	}
	if !errors.Is(err, errors.KindInvalid) {
		t.Errorf("ParseHex(gold) kind = %v, want KindInvalid", errors.GetKind(err))
	}
}

func TestSGR(t *testing.T) {
	if got, want := Foreground(RGB{255, 215, 0}), "\x1b[38;2;255;215;0m"; got != want {
		t.Errorf("Foreground() = %q, want %q", got, want)
	}
	if got, want := Pair(RGB{1, 2, 3}, RGB{4, 5, 6}), "\x1b[38;2;1;2;3;48;2;4;5;6m"; got != want {
		t.Errorf("Pair() = %q, want %q", got, want)
	}
}
