package hunlint

import (
	"testing"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		len     int
		groups  int
		wantErr bool
	}{
		{".", ".", 0, 0, false},
		{"", ".", 0, 0, false},
		{"a", "a", 1, 0, false},
		{"[^rx]a", "[^rx]a", 2, 1, false},
		{"[xr]a", "[rx]a", 2, 1, false},
		{"[a]b", "ab", 2, 0, false},
		{".a", ".a", 2, 0, false},
		{"[.]", "[.]", 1, 0, false},
		{"[a^]", "[a^]", 1, 1, false},
		{"[ab", "", 0, 0, true},
		{"a]", "", 0, 0, true},
		{"[]", "", 0, 0, true},
		{"[^]", "", 0, 0, true},
	}
	for _, tt := range tests {
		c, err := ParseCondition(tt.in, AnchorEnd)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCondition(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if got := c.String(); got != tt.want {
			t.Errorf("ParseCondition(%q).String() = %q, want %q", tt.in, got, tt.want)
		}
		if c.Len() != tt.len || c.Groups() != tt.groups {
			t.Errorf("ParseCondition(%q): len %d groups %d, want %d %d", tt.in, c.Len(), c.Groups(), tt.len, tt.groups)
		}
	}
}

func TestConditionMatch(t *testing.T) {
	tests := []struct {
		cond   string
		anchor Anchor
		word   string
		want   bool
	}{
		{".", AnchorEnd, "", true},
		{"a", AnchorEnd, "casa", true},
		{"[^rx]a", AnchorEnd, "casa", true},
		{"[^rx]a", AnchorEnd, "mora", false},
		{"[^rx]a", AnchorEnd, "a", false},
		{"ra", AnchorEnd, "mora", true},
		{"c.s", AnchorStart, "casa", true},
		{"c.s", AnchorStart, "cosa", true},
		{"c.s", AnchorStart, "ca", false},
		{"[ab]", AnchorStart, "bat", true},
		{"[ab]", AnchorStart, "cat", false},
	}
	for _, tt := range tests {
		c := MustParseCondition(tt.cond, tt.anchor)
		if got := c.Match(tt.word); got != tt.want {
			t.Errorf("Condition(%q).Match(%q) = %v, want %v", tt.cond, tt.word, got, tt.want)
		}
	}
}

func TestUnionElements(t *testing.T) {
	tests := []struct {
		a, b ConditionElement
		want string
	}{
		{Literal('b'), Literal('d'), "[bd]"},
		{Class('a', 'b'), Literal('c'), "[abc]"},
		{NegatedClass('a', 'b'), Literal('a'), "[^b]"},
		{Literal('a'), NegatedClass('a'), "."},
		{NegatedClass('a', 'b'), NegatedClass('b', 'c'), "[^b]"},
		{Wildcard(), Literal('x'), "."},
	}
	for _, tt := range tests {
		if got := unionElements(tt.a, tt.b).String(); got != tt.want {
			t.Errorf("unionElements(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMergeConditions(t *testing.T) {
	tests := []struct {
		a, b string
		want string
		ok   bool
	}{
		{"[^a]bc", "[^a]dc", "[^a][bd]c", true},
		{"ab", "ab", "ab", true},
		{"ab", "cd", "", false},
		{"ab", "b", "", false},
	}
	for _, tt := range tests {
		got, ok := mergeConditions(MustParseCondition(tt.a, AnchorEnd), MustParseCondition(tt.b, AnchorEnd))
		if ok != tt.ok || (ok && got.String() != tt.want) {
			t.Errorf("mergeConditions(%q, %q) = %q, %v, want %q, %v", tt.a, tt.b, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConditionCache(t *testing.T) {
	cc := NewConditionCache(2)
	a, err := cc.Parse("[^x]a", AnchorEnd)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, _ := cc.Parse("[^x]a", AnchorEnd)
	if !a.Equal(b) {
		t.Errorf("cached condition %s differs from %s", b, a)
	}
	p, _ := cc.Parse("[^x]a", AnchorStart)
	if p.Anchor != AnchorStart {
		t.Error("prefix condition served from the suffix cache entry")
	}
	var nilCache *ConditionCache
	if _, err := nilCache.Parse("a", AnchorEnd); err != nil {
		t.Errorf("nil cache Parse: %v", err)
	}
}
