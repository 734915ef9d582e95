package hunlint

import "strings"

// BaseProductionIndex is the position of the stem itself in a generation
// result.
const BaseProductionIndex = 0

// Production is one generated word form plus its provenance.
type Production struct {
	// Word is the generated form.
	Word string
	// ContinuationFlags are the flags still attached to the form.
	ContinuationFlags []string
	// DataFields are the morphological fields of the form.
	DataFields []string
	// AppliedRules lists the applied entries, outermost prefix first,
	// suffixes in application order.
	AppliedRules []*AffixEntry
}

// newBaseProduction returns the production of the stem itself.
func newBaseProduction(entry *DictionaryEntry) Production {
	return Production{
		Word:              entry.Stem,
		ContinuationFlags: append([]string(nil), entry.ContinuationFlags...),
		DataFields:        append([]string(nil), entry.DataFields...),
	}
}

// IsBase reports whether no affix was applied.
func (p Production) IsBase() bool {
	return len(p.AppliedRules) == 0
}

// HasContinuationFlag reports whether the form still carries flag.
func (p Production) HasContinuationFlag(flag string) bool {
	return hasFlag(p.ContinuationFlags, flag)
}

// HasAppliedFlag reports whether an entry of rule flag was applied.
func (p Production) HasAppliedFlag(flag string) bool {
	for _, e := range p.AppliedRules {
		if e.Flag == flag {
			return true
		}
	}
	return false
}

// LastAppliedRule returns the outermost applied entry of the given side:
// the last suffix, or the first prefix. It returns nil when none was applied.
func (p Production) LastAppliedRule(typ AffixType) *AffixEntry {
	if typ == Prefix {
		for _, e := range p.AppliedRules {
			if e.Type == Prefix {
				return e
			}
		}
		return nil
	}
	for i := len(p.AppliedRules) - 1; i >= 0; i-- {
		if p.AppliedRules[i].Type == Suffix {
			return p.AppliedRules[i]
		}
	}
	return nil
}

// countApplied returns how many entries of side typ were applied.
func (p Production) countApplied(typ AffixType) int {
	n := 0
	for _, e := range p.AppliedRules {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// Key identifies the production by word and data fields, the identity used
// when comparing generation results.
func (p Production) Key() string {
	if len(p.DataFields) == 0 {
		return p.Word
	}
	return p.Word + "\t" + strings.Join(p.DataFields, " ")
}

// Format renders the production in dictionary line syntax.
func (p Production) Format(format FlagFormat) string {
	var sb strings.Builder
	sb.WriteString(p.Word)
	sb.WriteString(format.Wrap(p.ContinuationFlags))
	if len(p.DataFields) > 0 {
		sb.WriteByte('\t')
		sb.WriteString(strings.Join(p.DataFields, " "))
	}
	return sb.String()
}

func (p Production) String() string {
	return p.Format(FlagASCII)
}

// Words returns the words of productions, in order.
func Words(productions []Production) []string {
	out := make([]string, len(productions))
	for i, p := range productions {
		out[i] = p.Word
	}
	return out
}
