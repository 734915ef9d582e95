package hunlint

import (
	"slices"
	"strings"
)

// Addition is what a reduced rule line appends: the affix, its
// continuation flags and its morphological fields.
type Addition struct {
	// Affix is the added string ("" for "0").
	Affix string
	// Flags are the rendered continuation flags, without the slash.
	Flags string
	// Morph holds the space-separated morphological fields.
	Morph string
}

func (a Addition) key() string {
	return a.Affix + "/" + a.Flags + "\t" + a.Morph
}

func compareAdditions(a, b Addition) int {
	return strings.Compare(a.key(), b.key())
}

// LineEntry is a candidate affix rule: one removal, the additions it
// supports, the condition selecting its stems and the stems themselves.
// LineEntries are values; reducer steps always build new ones.
type LineEntry struct {
	Removal   string
	Additions []Addition
	Condition string
	// From lists the parent stems, sorted.
	From []string
}

// newLineEntry returns an entry with normalized (sorted, distinct) sets.
func newLineEntry(removal string, additions []Addition, condition string, from []string) LineEntry {
	adds := slices.Clone(additions)
	slices.SortFunc(adds, compareAdditions)
	adds = slices.CompactFunc(adds, func(a, b Addition) bool { return a == b })
	stems := slices.Clone(from)
	slices.Sort(stems)
	stems = slices.Compact(stems)
	if condition == "" {
		condition = "."
	}
	return LineEntry{Removal: removal, Additions: adds, Condition: condition, From: stems}
}

// IsNegative reports whether the entry only records stems that received
// nothing.
func (e LineEntry) IsNegative() bool {
	return len(e.Additions) == 0
}

func (e LineEntry) additionsKey() string {
	keys := make([]string, len(e.Additions))
	for i, a := range e.Additions {
		keys[i] = a.key()
	}
	return strings.Join(keys, "\x00")
}

func (e LineEntry) fromKey() string {
	return strings.Join(e.From, "\x00")
}

func (e LineEntry) String() string {
	affixes := make([]string, len(e.Additions))
	for i, a := range e.Additions {
		affixes[i] = emptyToZero(a.Affix)
		if a.Flags != "" {
			affixes[i] += "/" + a.Flags
		}
	}
	return emptyToZero(e.Removal) + " {" + strings.Join(affixes, ",") + "} " + e.Condition +
		" from {" + strings.Join(e.From, ",") + "}"
}

func compareLineEntries(a, b LineEntry) int {
	if c := strings.Compare(a.Removal, b.Removal); c != 0 {
		return c
	}
	if c := strings.Compare(a.Condition, b.Condition); c != 0 {
		return c
	}
	if c := strings.Compare(a.additionsKey(), b.additionsKey()); c != 0 {
		return c
	}
	return strings.Compare(a.fromKey(), b.fromKey())
}

// reverseRunes returns the runes of s in reverse order.
func reverseRunes(s string) []rune {
	rs := []rune(s)
	slices.Reverse(rs)
	return rs
}

func reverseString(s string) string {
	return string(reverseRunes(s))
}

// commonPrefixLen returns the length in runes of the common prefix of a
// and b.
func commonPrefixLen(a, b []rune) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// longestCommonPrefix returns the common prefix of all words.
func longestCommonPrefix(words []string) string {
	if len(words) == 0 {
		return ""
	}
	prefix := []rune(words[0])
	for _, w := range words[1:] {
		prefix = prefix[:commonPrefixLen(prefix, []rune(w))]
	}
	return string(prefix)
}

// longestCommonSuffix returns the common suffix of all words.
func longestCommonSuffix(words []string) string {
	rev := make([]string, len(words))
	for i, w := range words {
		rev[i] = reverseString(w)
	}
	return reverseString(longestCommonPrefix(rev))
}
