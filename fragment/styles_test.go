package fragment

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#FF0000", "FF0000", true},
		{"#ff0000", "FF0000", true},
		{"#f00", "FF0000", true},
		{"red", "FF0000", true},
		{" Blue ", "0000FF", true},
		{"#12345", "", false},
		{"#zzzzzz", "", false},
		{"chartreuse", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseColor(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseColor(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseFontSize(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"24pt", 24, true},
		{"32px", 24, true},
		{"2em", 24, true},
		{" 18pt ", 18, true},
		{"0pt", 0, false},
		{"-4pt", 0, false},
		{"large", 0, false},
		{"24", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseFontSize(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseFontSize(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseInlineStyle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Style
	}{
		{"all supported", "color: green; text-align: right; font-size: 20pt", Style{Color: "008000", Align: "r", SizePt: 20}},
		{"unknown properties ignored", "border: 1px solid black; color: #333333", Style{Color: "333333"}},
		{"align start", "text-align: start", Style{Align: "l"}},
		{"align end", "text-align: end", Style{Align: "r"}},
		{"broken declaration", "color red", Style{}},
		{"empty", "", Style{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseInlineStyle(tt.in); got != tt.want {
				t.Errorf("parseInlineStyle(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
