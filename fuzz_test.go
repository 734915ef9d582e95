package hunlint

import (
	"testing"
	"unicode/utf8"
)

func FuzzParseCondition(f *testing.F) {
	f.Add("[^rx]a")
	f.Add(".")
	f.Add("[.][[]b")
	f.Add("[a^]c")
	f.Add("ab[")

	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			return
		}
		c, err := ParseCondition(s, AnchorEnd)
		if err != nil {
			return
		}
		again, err := ParseCondition(c.String(), AnchorEnd)
		if err != nil {
			t.Fatalf("ParseCondition(%q) rendered %q which does not parse: %v", s, c.String(), err)
		}
		if !again.Equal(c) {
			t.Fatalf("ParseCondition(%q) = %s, reparsed as %s", s, c, again)
		}
	})
}

func FuzzParseFlags(f *testing.F) {
	f.Add("AB", 0)
	f.Add("AaBb", 1)
	f.Add("1,2,3", 2)
	f.Add("éü", 3)

	f.Fuzz(func(t *testing.T, raw string, n int) {
		format := FlagFormat(((n % 4) + 4) % 4)
		flags, err := format.Parse(raw)
		if err != nil {
			return
		}
		again, err := format.Parse(format.Render(flags))
		if err != nil {
			t.Fatalf("%s: Render(%q) does not parse: %v", format, flags, err)
		}
		if len(again) != len(flags) {
			t.Fatalf("%s: %q reparsed as %q", format, flags, again)
		}
		for _, fl := range flags {
			if !format.Valid(fl) {
				t.Fatalf("%s: flag %q from %q is not valid", format, fl, raw)
			}
		}
	})
}
