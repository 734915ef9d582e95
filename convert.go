package hunlint

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
)

// ruleLine is one rendered entry of a reduced rule.
type ruleLine struct {
	cond     Condition
	condText string
	removal  string
	add      Addition
	text     string
}

// ConvertFormat renders entries as the lines of rule flag: the header line,
// then one line per addition in a stable order. With keepLongestCommonAffix
// a condition is replaced by the longest ending (beginning for prefixes)
// shared by its stems when that is longer.
func (r *Reducer) ConvertFormat(flag string, keepLongestCommonAffix bool, entries []LineEntry) ([]string, error) {
	rule := r.data.Rule(flag)
	if rule == nil {
		return nil, &NonExistentRuleError{Flag: flag}
	}
	anchor := rule.Type.anchor()

	var lines []ruleLine
	for _, e := range entries {
		if e.IsNegative() {
			continue
		}
		cond, err := r.data.conditions.Parse(e.Condition, anchor)
		if err != nil {
			return nil, fmt.Errorf("convert rule %s: %w", flag, err)
		}
		if keepLongestCommonAffix {
			lca := longestCommonSuffix(e.From)
			if rule.Type == Prefix {
				lca = longestCommonPrefix(e.From)
			}
			if utf8.RuneCountInString(lca) > cond.Len() {
				cond = literalCondition(lca, anchor)
			}
		}
		for _, a := range e.Additions {
			l := ruleLine{cond: cond, condText: cond.String(), removal: e.Removal, add: a}
			l.text = formatRuleLine(rule.Type, flag, l)
			lines = append(lines, l)
		}
	}

	coll := collate.New(r.data.opts.Language)
	reversed := rule.Type == Suffix
	slices.SortFunc(lines, func(a, b ruleLine) int {
		if c := a.cond.Len() - b.cond.Len(); c != 0 {
			return c
		}
		if c := a.cond.Groups() - b.cond.Groups(); c != 0 {
			return c
		}
		if c := utf8.RuneCountInString(a.removal) - utf8.RuneCountInString(b.removal); c != 0 {
			return c
		}
		ca, cb := a.condText, b.condText
		if reversed {
			ca, cb = reverseString(ca), reverseString(cb)
		}
		if c := coll.CompareString(ca, cb); c != 0 {
			return c
		}
		if c := coll.CompareString(a.removal, b.removal); c != 0 {
			return c
		}
		if c := utf8.RuneCountInString(a.add.Affix) - utf8.RuneCountInString(b.add.Affix); c != 0 {
			return c
		}
		if c := coll.CompareString(a.add.Affix, b.add.Affix); c != 0 {
			return c
		}
		return strings.Compare(a.text, b.text)
	})
	lines = slices.CompactFunc(lines, func(a, b ruleLine) bool { return a.text == b.text })

	out := make([]string, 0, len(lines)+1)
	out = append(out, rule.Header(len(lines)))
	for _, l := range lines {
		out = append(out, l.text)
	}
	return out, nil
}

func formatRuleLine(typ AffixType, flag string, l ruleLine) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s %s", typ, flag, emptyToZero(l.removal), emptyToZero(l.add.Affix))
	if l.add.Flags != "" {
		sb.WriteByte('/')
		sb.WriteString(l.add.Flags)
	}
	sb.WriteByte(' ')
	sb.WriteString(l.condText)
	if l.add.Morph != "" {
		sb.WriteByte(' ')
		sb.WriteString(l.add.Morph)
	}
	return sb.String()
}
