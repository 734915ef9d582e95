package hunlint

import (
	"slices"
	"testing"
)

func TestParseDictionaryEntry(t *testing.T) {
	tests := []struct {
		line    string
		format  FlagFormat
		stem    string
		flags   []string
		fields  []string
		wantErr bool
	}{
		{"foo", FlagASCII, "foo", nil, nil, false},
		{"foo/AB", FlagASCII, "foo", []string{"A", "B"}, nil, false},
		{"foo/AB\tpo:noun st:foo", FlagASCII, "foo", []string{"A", "B"}, []string{"po:noun", "st:foo"}, false},
		{"foo/AB po:noun", FlagASCII, "foo", []string{"A", "B"}, []string{"po:noun"}, false},
		{"and\\/or/A", FlagASCII, "and/or", []string{"A"}, nil, false},
		{"ice cream/A", FlagASCII, "ice cream", []string{"A"}, nil, false},
		{"bar/Aa1,2", FlagLong, "", nil, nil, true},
		{"/A", FlagASCII, "", nil, nil, true},
		{"baz/1,22", FlagNumeric, "baz", []string{"1", "22"}, nil, false},
	}
	for _, tt := range tests {
		e, err := ParseDictionaryEntry(tt.line, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDictionaryEntry(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if e.Stem != tt.stem || !slices.Equal(e.ContinuationFlags, tt.flags) || !slices.Equal(e.DataFields, tt.fields) {
			t.Errorf("ParseDictionaryEntry(%q) = %q %q %q, want %q %q %q",
				tt.line, e.Stem, e.ContinuationFlags, e.DataFields, tt.stem, tt.flags, tt.fields)
		}
	}
}

func TestDictionaryEntryFormat(t *testing.T) {
	for _, line := range []string{"foo/AB", "and\\/or/A", "foo\tpo:noun"} {
		e, err := ParseDictionaryEntry(line, FlagASCII)
		if err != nil {
			t.Fatalf("ParseDictionaryEntry(%q): %v", line, err)
		}
		if got := e.Format(FlagASCII); got != line {
			t.Errorf("Format() = %q, want %q", got, line)
		}
	}
}
