package hunlint

import (
	"slices"
	"testing"
)

func TestFlagFormatParse(t *testing.T) {
	tests := []struct {
		format  FlagFormat
		raw     string
		want    []string
		wantErr bool
	}{
		{FlagASCII, "", nil, false},
		{FlagASCII, "ABA", []string{"A", "B"}, false},
		{FlagASCII, "Aé", []string{"A", "é"}, false},
		{FlagASCII, "A\xff", nil, true},
		{FlagUTF8, "éA", []string{"é", "A"}, false},
		{FlagLong, "AaBb", []string{"Aa", "Bb"}, false},
		{FlagLong, "AaB", nil, true},
		{FlagNumeric, "1,22, 333", []string{"1", "22", "333"}, false},
		{FlagNumeric, "01,1", []string{"1"}, false},
		{FlagNumeric, "0", nil, true},
		{FlagNumeric, "65001", nil, true},
		{FlagNumeric, "a", nil, true},
	}
	for _, tt := range tests {
		got, err := tt.format.Parse(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s.Parse(%q) error = %v, wantErr %v", tt.format, tt.raw, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !slices.Equal(got, tt.want) {
			t.Errorf("%s.Parse(%q) = %q, want %q", tt.format, tt.raw, got, tt.want)
		}
	}
}

func TestFlagFormatRender(t *testing.T) {
	tests := []struct {
		format FlagFormat
		flags  []string
		render string
		wrap   string
	}{
		{FlagASCII, []string{"A", "B"}, "AB", "/AB"},
		{FlagLong, []string{"Aa", "Bb"}, "AaBb", "/AaBb"},
		{FlagNumeric, []string{"1", "22"}, "1,22", "/1,22"},
		{FlagUTF8, nil, "", ""},
	}
	for _, tt := range tests {
		if got := tt.format.Render(tt.flags); got != tt.render {
			t.Errorf("%s.Render(%q) = %q, want %q", tt.format, tt.flags, got, tt.render)
		}
		if got := tt.format.Wrap(tt.flags); got != tt.wrap {
			t.Errorf("%s.Wrap(%q) = %q, want %q", tt.format, tt.flags, got, tt.wrap)
		}
	}
}

func TestParseFlagFormat(t *testing.T) {
	tests := []struct {
		in   string
		want FlagFormat
	}{
		{"", FlagASCII},
		{"long", FlagLong},
		{"num", FlagNumeric},
		{"UTF-8", FlagUTF8},
	}
	for _, tt := range tests {
		got, err := ParseFlagFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFlagFormat(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseFlagFormat("octal"); err == nil {
		t.Error("ParseFlagFormat(\"octal\") should fail")
	}
}

func TestFlagFormatValid(t *testing.T) {
	tests := []struct {
		format FlagFormat
		flag   string
		want   bool
	}{
		{FlagASCII, "A", true},
		{FlagASCII, "AB", false},
		{FlagLong, "AB", true},
		{FlagNumeric, "12", true},
		{FlagNumeric, "012", false},
	}
	for _, tt := range tests {
		if got := tt.format.Valid(tt.flag); got != tt.want {
			t.Errorf("%s.Valid(%q) = %v, want %v", tt.format, tt.flag, got, tt.want)
		}
	}
}
