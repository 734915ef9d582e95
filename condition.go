package hunlint

import (
	"fmt"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Anchor tells which end of a word a condition is tested against.
type Anchor int

const (
	// AnchorEnd anchors the condition at the end of the word (suffixes).
	AnchorEnd Anchor = iota
	// AnchorStart anchors the condition at the start of the word (prefixes).
	AnchorStart
)

// ElementKind classifies a single condition position.
type ElementKind int

const (
	ElemLiteral ElementKind = iota
	ElemClass
	ElemNegatedClass
	ElemWildcard
)

// ConditionElement is one position of a condition.
type ConditionElement struct {
	Kind ElementKind
	// Chars holds the sorted distinct characters of a literal or (negated)
	// class; it is empty for a wildcard.
	Chars []rune
}

// Literal returns the element matching exactly r.
func Literal(r rune) ConditionElement {
	return ConditionElement{Kind: ElemLiteral, Chars: []rune{r}}
}

// Class returns the element matching any of chars. A single char collapses
// to a literal.
func Class(chars ...rune) ConditionElement {
	cs := sortedRunes(chars)
	if len(cs) == 1 {
		return Literal(cs[0])
	}
	return ConditionElement{Kind: ElemClass, Chars: cs}
}

// NegatedClass returns the element matching any char not in chars. An empty
// set collapses to a wildcard.
func NegatedClass(chars ...rune) ConditionElement {
	cs := sortedRunes(chars)
	if len(cs) == 0 {
		return Wildcard()
	}
	return ConditionElement{Kind: ElemNegatedClass, Chars: cs}
}

// Wildcard returns the element matching any char.
func Wildcard() ConditionElement {
	return ConditionElement{Kind: ElemWildcard}
}

// Matches reports whether r satisfies the element.
func (e ConditionElement) Matches(r rune) bool {
	switch e.Kind {
	case ElemWildcard:
		return true
	case ElemNegatedClass:
		return !containsRune(e.Chars, r)
	default:
		return containsRune(e.Chars, r)
	}
}

// IsGroup reports whether the element is a (negated) class.
func (e ConditionElement) IsGroup() bool {
	return e.Kind == ElemClass || e.Kind == ElemNegatedClass
}

// Equal reports structural equality.
func (e ConditionElement) Equal(o ConditionElement) bool {
	return e.Kind == o.Kind && slices.Equal(e.Chars, o.Chars)
}

func (e ConditionElement) String() string {
	switch e.Kind {
	case ElemWildcard:
		return "."
	case ElemLiteral:
		// A bare "." or "[" would read back as syntax.
		if e.Chars[0] == '.' || e.Chars[0] == '[' {
			return "[" + string(e.Chars) + "]"
		}
		return string(e.Chars)
	case ElemNegatedClass:
		return "[^" + string(e.Chars) + "]"
	default:
		chars := e.Chars
		if chars[0] == '^' {
			chars = append(slices.Clone(chars[1:]), '^')
		}
		return "[" + string(chars) + "]"
	}
}

// unionElements returns the element matching exactly what a or b match.
func unionElements(a, b ConditionElement) ConditionElement {
	aNeg, bNeg := a.Kind == ElemNegatedClass, b.Kind == ElemNegatedClass
	switch {
	case a.Kind == ElemWildcard || b.Kind == ElemWildcard:
		return Wildcard()
	case aNeg && bNeg:
		return NegatedClass(intersectRunes(a.Chars, b.Chars)...)
	case aNeg:
		return NegatedClass(subtractRunes(a.Chars, b.Chars)...)
	case bNeg:
		return NegatedClass(subtractRunes(b.Chars, a.Chars)...)
	default:
		return Class(append(slices.Clone(a.Chars), b.Chars...)...)
	}
}

// Condition is an anchored sequence of elements. Elements are always stored
// in reading order (left to right).
type Condition struct {
	Anchor   Anchor
	Elements []ConditionElement
}

// ParseCondition parses the textual condition s ("." means no condition).
func ParseCondition(s string, anchor Anchor) (Condition, error) {
	c := Condition{Anchor: anchor}
	if s == "" || s == "." {
		return c, nil
	}
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.':
			c.Elements = append(c.Elements, Wildcard())
		case ']':
			return Condition{}, fmt.Errorf("condition %q: unbalanced ']' at %d", s, i)
		case '[':
			end := i + 1
			for end < len(runes) && runes[end] != ']' {
				end++
			}
			if end == len(runes) {
				return Condition{}, fmt.Errorf("condition %q: unterminated class at %d", s, i)
			}
			body := runes[i+1 : end]
			negated := len(body) > 0 && body[0] == '^'
			if negated {
				body = body[1:]
			}
			if len(body) == 0 {
				return Condition{}, fmt.Errorf("condition %q: empty class at %d", s, i)
			}
			if negated {
				c.Elements = append(c.Elements, NegatedClass(body...))
			} else {
				c.Elements = append(c.Elements, Class(body...))
			}
			i = end
		default:
			c.Elements = append(c.Elements, Literal(runes[i]))
		}
	}
	return c, nil
}

// MustParseCondition is ParseCondition that panics on error; for tests and
// literals.
func MustParseCondition(s string, anchor Anchor) Condition {
	c, err := ParseCondition(s, anchor)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of positions the condition tests.
func (c Condition) Len() int {
	return len(c.Elements)
}

// Groups returns the number of (negated) class positions.
func (c Condition) Groups() int {
	n := 0
	for _, e := range c.Elements {
		if e.IsGroup() {
			n++
		}
	}
	return n
}

// Match tests the condition against the anchored end of word.
func (c Condition) Match(word string) bool {
	if len(c.Elements) == 0 {
		return true
	}
	return c.matchRunes([]rune(word))
}

func (c Condition) matchRunes(runes []rune) bool {
	n := len(c.Elements)
	if len(runes) < n {
		return false
	}
	offset := 0
	if c.Anchor == AnchorEnd {
		offset = len(runes) - n
	}
	for i, e := range c.Elements {
		if !e.Matches(runes[offset+i]) {
			return false
		}
	}
	return true
}

// Equal reports structural equality.
func (c Condition) Equal(o Condition) bool {
	return c.Anchor == o.Anchor && slices.EqualFunc(c.Elements, o.Elements, ConditionElement.Equal)
}

// String renders the condition in affix-file syntax.
func (c Condition) String() string {
	if len(c.Elements) == 0 {
		return "."
	}
	var sb strings.Builder
	for _, e := range c.Elements {
		sb.WriteString(e.String())
	}
	return sb.String()
}

// literalCondition builds a condition made of the literal characters of s.
func literalCondition(s string, anchor Anchor) Condition {
	c := Condition{Anchor: anchor}
	for _, r := range s {
		c.Elements = append(c.Elements, Literal(r))
	}
	return c
}

// endsWithLiteral reports whether the anchored tail (head for prefixes) of c
// is made of the literal characters of s.
func (c Condition) endsWithLiteral(s string) bool {
	rs := []rune(s)
	if len(rs) > len(c.Elements) {
		return false
	}
	offset := 0
	if c.Anchor == AnchorEnd {
		offset = len(c.Elements) - len(rs)
	}
	for i, r := range rs {
		e := c.Elements[offset+i]
		if e.Kind != ElemLiteral || e.Chars[0] != r {
			return false
		}
	}
	return true
}

// conditionCacheSize bounds the number of parsed conditions kept around.
const conditionCacheSize = 4096

// ConditionCache memoizes ParseCondition. It is safe for concurrent use.
type ConditionCache struct {
	cache *lru.Cache[string, Condition]
}

// NewConditionCache returns a cache holding up to size conditions.
func NewConditionCache(size int) *ConditionCache {
	if size <= 0 {
		size = conditionCacheSize
	}
	cache, _ := lru.New[string, Condition](size)
	return &ConditionCache{cache: cache}
}

// Parse returns the parsed condition, reusing a cached one when possible.
// The returned Condition must be treated as read-only.
func (cc *ConditionCache) Parse(s string, anchor Anchor) (Condition, error) {
	if cc == nil || cc.cache == nil {
		return ParseCondition(s, anchor)
	}
	key := s
	if anchor == AnchorStart {
		key = "^" + s
	}
	if c, ok := cc.cache.Get(key); ok {
		return c, nil
	}
	c, err := ParseCondition(s, anchor)
	if err != nil {
		return Condition{}, err
	}
	cc.cache.Add(key, c)
	return c, nil
}

func sortedRunes(rs []rune) []rune {
	out := slices.Clone(rs)
	slices.Sort(out)
	return slices.Compact(out)
}

func containsRune(sorted []rune, r rune) bool {
	_, ok := slices.BinarySearch(sorted, r)
	return ok
}

func intersectRunes(a, b []rune) []rune {
	var out []rune
	for _, r := range a {
		if containsRune(b, r) {
			out = append(out, r)
		}
	}
	return out
}

func subtractRunes(a, b []rune) []rune {
	var out []rune
	for _, r := range a {
		if !containsRune(b, r) {
			out = append(out, r)
		}
	}
	return out
}
