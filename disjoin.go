package hunlint

import (
	"cmp"
	"slices"
)

// Conditions are grown in "key" space: stems of suffix rules are reversed so
// that, for both sides, position 0 is the anchored character and the
// condition extends by appending.

func stemKey(word string, typ AffixType) []rune {
	if typ == Prefix {
		return []rune(word)
	}
	return reverseRunes(word)
}

func keyStem(key []rune, typ AffixType) string {
	if typ == Prefix {
		return string(key)
	}
	rs := slices.Clone(key)
	slices.Reverse(rs)
	return string(rs)
}

// keyCondition converts key-ordered elements to a Condition of side typ.
func keyCondition(elems []ConditionElement, typ AffixType) Condition {
	els := slices.Clone(elems)
	if typ == Suffix {
		slices.Reverse(els)
	}
	return Condition{Anchor: typ.anchor(), Elements: els}
}

func hasKeyPrefix(key, prefix []rune) bool {
	return len(key) >= len(prefix) && slices.Equal(key[:len(prefix)], prefix)
}

// branch is one condition produced by disjoin with the stems it selects.
type branch struct {
	elems []ConditionElement
	in    [][]rune
	// conflicts are competing stems the condition could not exclude
	// because some selected stem ends where they do.
	conflicts [][]rune
}

// disjoin extends elems one position at a time until no stem of out
// matches, splitting on characters shared by both sides. in and out match
// elems on entry. first tells whether this is the first extension past the
// removal.
func disjoin(elems []ConditionElement, in, out [][]rune, first bool) []branch {
	if len(out) == 0 {
		return []branch{{elems: elems, in: in}}
	}
	p := len(elems)
	for _, k := range in {
		if len(k) == p {
			return []branch{{elems: elems, in: in, conflicts: out}}
		}
	}

	var inChars, outChars []rune
	for _, k := range in {
		inChars = append(inChars, k[p])
	}
	for _, k := range out {
		if len(k) > p {
			outChars = append(outChars, k[p])
		}
	}
	inChars, outChars = sortedRunes(inChars), sortedRunes(outChars)
	pure := subtractRunes(inChars, outChars)
	shared := intersectRunes(inChars, outChars)

	var branches []branch
	if len(pure) > 0 {
		var el ConditionElement
		ratify := preferRatifyingGroup(len(pure), len(outChars), p == 0, len(shared) > 0)
		if first {
			ratify = chooseRatifyingOverNegated(len(pure), len(outChars), p == 0, len(shared) > 0)
		}
		if ratify {
			el = Class(pure...)
		} else {
			el = NegatedClass(outChars...)
		}
		var selected [][]rune
		for _, k := range in {
			if containsRune(pure, k[p]) {
				selected = append(selected, k)
			}
		}
		branches = append(branches, branch{elems: extend(elems, el), in: selected})
	}

	for _, c := range shared {
		var subIn, subOut [][]rune
		for _, k := range in {
			if k[p] == c {
				subIn = append(subIn, k)
			}
		}
		for _, k := range out {
			if len(k) > p && k[p] == c {
				subOut = append(subOut, k)
			}
		}
		branches = append(branches, disjoin(extend(elems, Literal(c)), subIn, subOut, false)...)
	}
	return branches
}

func extend(elems []ConditionElement, el ConditionElement) []ConditionElement {
	out := make([]ConditionElement, len(elems), len(elems)+1)
	copy(out, elems)
	return append(out, el)
}

// chooseRatifyingOverNegated picks the form of the first extension past the
// removal: the smaller of the ratifying set (ratifying characters) and the
// negated set (competing characters); on a tie the ratifying form wins when
// the parent condition is empty or the two groups do not intersect.
func chooseRatifyingOverNegated(ratifying, negated int, parentEmpty, intersect bool) bool {
	switch {
	case ratifying > 0 && ratifying < negated:
		return true
	case negated > 0 && negated < ratifying:
		return false
	case ratifying == negated:
		return parentEmpty || !intersect
	}
	return false
}

// preferRatifyingGroup picks the form of the deeper extensions: the
// ratifying form when it is not larger than the negated one and either the
// parent condition is empty or the groups do not intersect.
func preferRatifyingGroup(ratifying, negated int, parentEmpty, intersect bool) bool {
	if (parentEmpty || !intersect) && ratifying > 0 && ratifying <= negated {
		return true
	}
	return negated == 0
}

// mergeConditions returns the condition matching exactly what a or b
// match, when they have the same length and differ in at most one
// position.
func mergeConditions(a, b Condition) (Condition, bool) {
	if a.Anchor != b.Anchor || a.Len() != b.Len() {
		return Condition{}, false
	}
	diff := -1
	for i := range a.Elements {
		if a.Elements[i].Equal(b.Elements[i]) {
			continue
		}
		if diff >= 0 {
			return Condition{}, false
		}
		diff = i
	}
	if diff < 0 {
		return a, true
	}
	els := slices.Clone(a.Elements)
	els[diff] = unionElements(a.Elements[diff], b.Elements[diff])
	return Condition{Anchor: a.Anchor, Elements: els}, true
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func sortedValues[V any](m map[string]V) []V {
	out := make([]V, 0, len(m))
	for _, k := range sortedKeys(m) {
		out = append(out, m[k])
	}
	return out
}
