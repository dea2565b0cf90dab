package theme

import "testing"

func TestParseRGB(t *testing.T) {
	tests := []struct {
		in   string
		want rgb
		ok   bool
	}{
		{"#000000", rgb{}, true},
		{"#FF8000", rgb{255, 128, 0}, true},
		{"#1e1e2e", rgb{30, 30, 46}, true},
		{"1e1e2e", rgb{}, false},
		{"#fff", rgb{}, false},
		{"#gggggg", rgb{}, false},
	}
	for _, tt := range tests {
		got, ok := parseRGB(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseRGB(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestShade_PassesThroughInvalid(t *testing.T) {
	if got := shade("red", func(c rgb) rgb { return white }); got != "red" {
		t.Errorf("shade(red) = %q, want unchanged", got)
	}
	if got := mixHex("#000000", "blue", 0.5); got != "#000000" {
		t.Errorf("mixHex with bad target = %q, want first color", got)
	}
}

func TestMix(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{-1, "#000000"},
		{0, "#000000"},
		{0.5, "#7f7f7f"},
		{1, "#ffffff"},
		{2, "#ffffff"},
	}
	for _, tt := range tests {
		if got := black.mix(white, tt.ratio).hex(); got != tt.want {
			t.Errorf("mix(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestContrast(t *testing.T) {
	if got := contrast("#000000", "#ffffff"); got < 20.9 || got > 21.1 {
		t.Errorf("contrast(black, white) = %f, want 21", got)
	}
	if got := contrast("#ffffff", "#000000"); got < 20.9 {
		t.Errorf("contrast is not symmetric: %f", got)
	}
}

func TestReadableOn(t *testing.T) {
	tests := []struct {
		bg         string
		candidates []string
		want       string
	}{
		{"#f0f0f0", []string{"#ffffff", "#111111"}, "#111111"},
		{"#101010", []string{"#ffffff", "#111111"}, "#ffffff"},
		{"#808080", []string{"#808080", "#808080"}, "#808080"},
	}
	for _, tt := range tests {
		if got := readableOn(tt.bg, tt.candidates...); got != tt.want {
			t.Errorf("readableOn(%q, %v) = %q, want %q", tt.bg, tt.candidates, got, tt.want)
		}
	}
}
