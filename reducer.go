package hunlint

import (
	"slices"
	"strings"
)

// Reducer rebuilds an affix rule from the forms it produces: it collects
// the removal/addition pairs behind every form, generalizes their
// conditions and renders the smallest rule reproducing the same forms.
type Reducer struct {
	data *AffixData
	gen  *Generator
	settings
}

// NewReducer returns a Reducer over data.
func NewReducer(data *AffixData, opts ...Option) *Reducer {
	r := &Reducer{data: data, settings: newSettings(opts)}
	r.gen = &Generator{data: data, settings: r.settings}
	return r
}

// CollectByFlag turns the productions of flag back into line entries, one
// per derived form, relative to the parent the form was derived from.
// Parents the rule could have applied to but that received nothing are
// returned as negative entries (no additions).
func (r *Reducer) CollectByFlag(productions []Production, flag string, typ AffixType) ([]LineEntry, error) {
	rule := r.data.Rule(flag)
	if rule == nil || rule.Type != typ {
		return nil, &NonExistentRuleError{Flag: flag}
	}

	var out []LineEntry
	candidates := make(map[string]bool)
	derived := make(map[string]bool)
	for _, q := range productions {
		if q.HasContinuationFlag(flag) && r.gen.canFold(q, rule) {
			candidates[q.Word] = true
		}

		e := q.LastAppliedRule(typ)
		if e == nil || e.Flag != flag {
			continue
		}
		// On the primary side the entry is the last step only if no
		// secondary affix wraps it.
		if typ == r.gen.primary() && q.countApplied(typ.opposite()) > 0 {
			continue
		}
		parent := e.Undo(q.Word)
		removal, affix := splitDerivation(parent, q.Word, typ)
		add := Addition{
			Affix: affix,
			Flags: r.data.opts.FlagFormat.Render(e.ContinuationFlags),
			Morph: strings.Join(e.MorphFields, " "),
		}
		out = append(out, newLineEntry(removal, []Addition{add}, removal, []string{parent}))
		derived[parent] = true
	}

	for _, w := range sortedKeys(candidates) {
		if !derived[w] {
			out = append(out, newLineEntry("", nil, ".", []string{w}))
		}
	}
	return out, nil
}

// splitDerivation derives removal and addition from the divergence point of
// parent and word, reading from the start for suffixes and from the end
// for prefixes.
func splitDerivation(parent, word string, typ AffixType) (string, string) {
	if typ == Prefix {
		p, w := reverseRunes(parent), reverseRunes(word)
		n := commonPrefixLen(p, w)
		return reverseString(string(p[n:])), reverseString(string(w[n:]))
	}
	p, w := []rune(parent), []rune(word)
	n := commonPrefixLen(p, w)
	return string(p[n:]), string(w[n:])
}

// Reduce generalizes entries into a minimal set of line entries for a rule
// of side typ. The result is sorted and contains no negative entries.
func (r *Reducer) Reduce(entries []LineEntry, typ AffixType) []LineEntry {
	var universe []string
	var positive []LineEntry
	for _, e := range entries {
		universe = append(universe, e.From...)
		if !e.IsNegative() {
			positive = append(positive, e)
		}
	}
	slices.Sort(universe)
	universe = slices.Compact(universe)

	positive = redistribute(positive)
	positive = disjoinAdditions(positive)
	positive = r.disjoinConditions(positive, universe, typ)
	positive = mergeSimilar(positive, typ)

	r.logger.Printf("reduce %s: %d entries, %d stems, reduced to %d", typ, len(entries), len(universe), len(positive))
	return positive
}

// redistribute merges identical removal+addition+condition entries, then
// coalesces the additions of entries sharing removal and stems.
func redistribute(entries []LineEntry) []LineEntry {
	byRule := make(map[string]LineEntry)
	for _, e := range entries {
		k := e.Removal + "\x01" + e.additionsKey() + "\x01" + e.Condition
		if prev, ok := byRule[k]; ok {
			e = newLineEntry(e.Removal, e.Additions, e.Condition, append(slices.Clone(prev.From), e.From...))
		}
		byRule[k] = e
	}

	byFrom := make(map[string]LineEntry)
	for _, k := range sortedKeys(byRule) {
		e := byRule[k]
		fk := e.Removal + "\x01" + e.fromKey()
		if prev, ok := byFrom[fk]; ok {
			e = newLineEntry(e.Removal, append(slices.Clone(prev.Additions), e.Additions...), e.Removal, e.From)
		}
		byFrom[fk] = e
	}
	return sortedValues(byFrom)
}

// disjoinAdditions regroups the entries of each removal by the complete
// set of additions every stem receives. Stems sharing only part of their
// additions are split apart, so the stems of one removal end up in exactly
// one entry each.
func disjoinAdditions(entries []LineEntry) []LineEntry {
	byRemoval := make(map[string]map[string][]Addition)
	for _, e := range entries {
		stems := byRemoval[e.Removal]
		if stems == nil {
			stems = make(map[string][]Addition)
			byRemoval[e.Removal] = stems
		}
		for _, w := range e.From {
			stems[w] = append(stems[w], e.Additions...)
		}
	}

	var out []LineEntry
	for _, removal := range sortedKeys(byRemoval) {
		stems := byRemoval[removal]
		byAdditions := make(map[string]LineEntry)
		for _, w := range sortedKeys(stems) {
			e := newLineEntry(removal, stems[w], removal, []string{w})
			k := e.additionsKey()
			if prev, ok := byAdditions[k]; ok {
				e = newLineEntry(removal, e.Additions, removal, append(slices.Clone(prev.From), w))
			}
			byAdditions[k] = e
		}
		out = append(out, sortedValues(byAdditions)...)
	}
	return out
}

// disjoinConditions grows the condition of every entry until it selects
// exactly the entry's stems among universe. An entry is split when its
// stems need several conditions.
func (r *Reducer) disjoinConditions(entries []LineEntry, universe []string, typ AffixType) []LineEntry {
	keys := make([][]rune, len(universe))
	for i, w := range universe {
		keys[i] = stemKey(w, typ)
	}

	var out []LineEntry
	for _, e := range entries {
		in := make([][]rune, len(e.From))
		for i, w := range e.From {
			in[i] = stemKey(w, typ)
		}
		removal := stemKey(e.Removal, typ)
		var outside [][]rune
		for i, w := range universe {
			if _, found := slices.BinarySearch(e.From, w); found {
				continue
			}
			if hasKeyPrefix(keys[i], removal) {
				outside = append(outside, keys[i])
			}
		}

		base := make([]ConditionElement, len(removal))
		for i, c := range removal {
			base[i] = Literal(c)
		}
		for _, b := range disjoin(base, in, outside, true) {
			from := make([]string, len(b.in))
			for i, k := range b.in {
				from[i] = keyStem(k, typ)
			}
			cond := keyCondition(b.elems, typ)
			if len(b.conflicts) > 0 {
				r.logger.Printf("reduce: condition %s of %s cannot exclude %d stems", cond, e.Removal, len(b.conflicts))
			}
			out = append(out, newLineEntry(e.Removal, e.Additions, cond.String(), from))
		}
	}
	slices.SortFunc(out, compareLineEntries)
	return out
}

// mergeSimilar merges entries that share removal and additions and whose
// conditions differ in exactly one position, until no such pair remains.
func mergeSimilar(entries []LineEntry, typ AffixType) []LineEntry {
	anchor := typ.anchor()
	for {
		merged := false
	search:
		for i := 0; i < len(entries); i++ {
			for j := i + 1; j < len(entries); j++ {
				a, b := entries[i], entries[j]
				if a.Removal != b.Removal || a.additionsKey() != b.additionsKey() {
					continue
				}
				ca, errA := ParseCondition(a.Condition, anchor)
				cb, errB := ParseCondition(b.Condition, anchor)
				if errA != nil || errB != nil {
					continue
				}
				c, ok := mergeConditions(ca, cb)
				if !ok {
					continue
				}
				e := newLineEntry(a.Removal, a.Additions, c.String(), append(slices.Clone(a.From), b.From...))
				next := make([]LineEntry, 0, len(entries)-1)
				next = append(next, entries[:i]...)
				next = append(next, e)
				next = append(next, entries[i+1:j]...)
				next = append(next, entries[j+1:]...)
				entries = next
				merged = true
				break search
			}
		}
		if !merged {
			break
		}
	}
	slices.SortFunc(entries, compareLineEntries)
	return slices.CompactFunc(entries, func(a, b LineEntry) bool { return compareLineEntries(a, b) == 0 })
}
