package hunlint

import (
	"slices"
	"strings"
	"testing"
)

func TestParseAffixEntry(t *testing.T) {
	tests := []struct {
		line      string
		typ       AffixType
		removal   string
		addition  string
		condition string
		flags     []string
		morph     []string
	}{
		{"SFX A 0 s .", Suffix, "", "s", ".", nil, nil},
		{"SFX A a la/BC [^rx]a", Suffix, "a", "la", "[^rx]a", []string{"B", "C"}, nil},
		{"PFX B 0 un", Prefix, "", "un", ".", nil, nil},
		{"SFX A y ies [^aeiou]y po:noun is:plural", Suffix, "y", "ies", "[^aeiou]y", nil, []string{"po:noun", "is:plural"}},
	}
	for _, tt := range tests {
		e, err := ParseAffixEntry(tt.line, FlagASCII, nil)
		if err != nil {
			t.Errorf("ParseAffixEntry(%q): %v", tt.line, err)
			continue
		}
		if e.Type != tt.typ || e.Removal != tt.removal || e.Addition != tt.addition || e.Condition.String() != tt.condition {
			t.Errorf("ParseAffixEntry(%q) = %s %q %q %s", tt.line, e.Type, e.Removal, e.Addition, e.Condition)
		}
		if !slices.Equal(e.ContinuationFlags, tt.flags) || !slices.Equal(e.MorphFields, tt.morph) {
			t.Errorf("ParseAffixEntry(%q) flags %q morph %q, want %q %q", tt.line, e.ContinuationFlags, e.MorphFields, tt.flags, tt.morph)
		}
	}

	for _, bad := range []string{"SFX A 0", "XFX A 0 s .", "SFX A 0 s [a"} {
		if _, err := ParseAffixEntry(bad, FlagASCII, nil); err == nil {
			t.Errorf("ParseAffixEntry(%q) should fail", bad)
		}
	}
}

func TestAffixEntryApplyUndo(t *testing.T) {
	tests := []struct {
		line   string
		word   string
		apply  bool
		result string
	}{
		{"SFX A a la [^rx]a", "casa", true, "casla"},
		{"SFX A a la [^rx]a", "mora", false, ""},
		{"SFX A y ies [^aeiou]y", "fly", true, "flies"},
		{"SFX A y ies [^aeiou]y", "day", false, ""},
		{"PFX B 0 un .", "do", true, "undo"},
		{"PFX B e a e", "eat", true, "aat"},
	}
	for _, tt := range tests {
		e, err := ParseAffixEntry(tt.line, FlagASCII, nil)
		if err != nil {
			t.Fatalf("ParseAffixEntry(%q): %v", tt.line, err)
		}
		if got := e.CanApplyTo(tt.word); got != tt.apply {
			t.Errorf("%q CanApplyTo(%q) = %v, want %v", tt.line, tt.word, got, tt.apply)
			continue
		}
		if !tt.apply {
			continue
		}
		got := e.Apply(tt.word)
		if got != tt.result {
			t.Errorf("%q Apply(%q) = %q, want %q", tt.line, tt.word, got, tt.result)
		}
		if back := e.Undo(got); back != tt.word {
			t.Errorf("%q Undo(%q) = %q, want %q", tt.line, got, back, tt.word)
		}
	}
}

func TestAffixEntryLint(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"SFX A a la [^rx]a", ""},
		{"SFX A a ab .", "share a character"},
		{"SFX A o i a", "does not cover removal"},
		{"SFX A 0 s . noun", "malformed morphological field"},
	}
	for _, tt := range tests {
		e, err := ParseAffixEntry(tt.line, FlagASCII, nil)
		if err != nil {
			t.Fatalf("ParseAffixEntry(%q): %v", tt.line, err)
		}
		warnings := e.Lint()
		if tt.want == "" {
			if len(warnings) != 0 {
				t.Errorf("%q Lint() = %q, want none", tt.line, warnings)
			}
			continue
		}
		if len(warnings) != 1 || !strings.Contains(warnings[0], tt.want) {
			t.Errorf("%q Lint() = %q, want one warning containing %q", tt.line, warnings, tt.want)
		}
	}
}

func TestAffixEntryFormat(t *testing.T) {
	for _, line := range []string{
		"SFX A 0 s/B .",
		"SFX A a la [^rx]a",
		"PFX B 0 un . dp:un",
	} {
		e, err := ParseAffixEntry(line, FlagASCII, nil)
		if err != nil {
			t.Fatalf("ParseAffixEntry(%q): %v", line, err)
		}
		if got := e.Format(FlagASCII); got != line {
			t.Errorf("Format() = %q, want %q", got, line)
		}
	}
}

func TestParseRule(t *testing.T) {
	lines := []string{
		"SFX A Y 2",
		"SFX A 0 s .",
		"SFX A y ies [^aeiou]y",
	}
	r, err := ParseRule(lines, FlagASCII, nil)
	if err != nil {
		t.Fatalf("ParseRule: %v", err)
	}
	if r.Flag != "A" || r.Type != Suffix || !r.Combinable || len(r.Entries) != 2 {
		t.Errorf("ParseRule = %+v", r)
	}
	if got := r.Header(2); got != lines[0] {
		t.Errorf("Header(2) = %q, want %q", got, lines[0])
	}
	if got := len(r.ApplicableEntries("fly")); got != 2 {
		t.Errorf("ApplicableEntries(fly) = %d entries, want 2", got)
	}

	bad := [][]string{
		{"SFX A Y 2", "SFX A 0 s ."},
		{"SFX A Y 1", "SFX B 0 s ."},
		{"SFX A Q 1", "SFX A 0 s ."},
		{"SFX A Y 1", "PFX A 0 s ."},
	}
	for _, b := range bad {
		if _, err := ParseRule(b, FlagASCII, nil); err == nil {
			t.Errorf("ParseRule(%q) should fail", b)
		}
	}
}
