package hunlint

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// AffixType is the side of the word an affix attaches to.
type AffixType int

const (
	Suffix AffixType = iota
	Prefix
)

// ParseAffixType maps "SFX"/"PFX" to an AffixType.
func ParseAffixType(tag string) (AffixType, bool) {
	switch tag {
	case "SFX":
		return Suffix, true
	case "PFX":
		return Prefix, true
	}
	return Suffix, false
}

// String returns the affix-file tag, "SFX" or "PFX".
func (t AffixType) String() string {
	if t == Prefix {
		return "PFX"
	}
	return "SFX"
}

// anchor returns the condition anchor used by affixes of type t.
func (t AffixType) anchor() Anchor {
	if t == Prefix {
		return AnchorStart
	}
	return AnchorEnd
}

// opposite returns the other side.
func (t AffixType) opposite() AffixType {
	if t == Prefix {
		return Suffix
	}
	return Prefix
}

// AffixEntry is one line of an affix rule.
type AffixEntry struct {
	// Type is the rule side.
	Type AffixType
	// Flag is the flag of the owning rule.
	Flag string
	// Removal is the string stripped at the anchor ("" for "0").
	Removal string
	// Addition is the string added at the anchor ("" for "0").
	Addition string
	// Condition gates which words the entry applies to.
	Condition Condition
	// ContinuationFlags are the flags after the slash of the addition.
	ContinuationFlags []string
	// MorphFields are the trailing morphological fields.
	MorphFields []string
}

// ParseAffixEntry parses "SFX A 0 s/B . po:noun". The condition may be
// omitted, in which case it is ".".
func ParseAffixEntry(line string, format FlagFormat, cache *ConditionCache) (*AffixEntry, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, fmt.Errorf("affix entry %q: expected at least 4 fields", line)
	}
	typ, ok := ParseAffixType(fields[0])
	if !ok {
		return nil, fmt.Errorf("affix entry %q: unknown type %q", line, fields[0])
	}
	e := &AffixEntry{
		Type:    typ,
		Flag:    fields[1],
		Removal: zeroToEmpty(fields[2]),
	}

	addition, rawFlags, _ := strings.Cut(fields[3], "/")
	e.Addition = zeroToEmpty(addition)
	flags, err := format.Parse(rawFlags)
	if err != nil {
		return nil, fmt.Errorf("affix entry %q: %w", line, err)
	}
	e.ContinuationFlags = flags

	cond := "."
	if len(fields) > 4 {
		cond = fields[4]
	}
	e.Condition, err = cache.Parse(cond, typ.anchor())
	if err != nil {
		return nil, fmt.Errorf("affix entry %q: %w", line, err)
	}
	if len(fields) > 5 {
		e.MorphFields = append([]string(nil), fields[5:]...)
	}
	return e, nil
}

// zeroToEmpty maps the affix-file placeholder "0" to "".
func zeroToEmpty(s string) string {
	if s == "0" {
		return ""
	}
	return s
}

// emptyToZero maps "" to the affix-file placeholder "0".
func emptyToZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// CanApplyTo reports whether the entry's condition and removal fit word.
func (e *AffixEntry) CanApplyTo(word string) bool {
	if e.Type == Prefix {
		if !strings.HasPrefix(word, e.Removal) {
			return false
		}
	} else if !strings.HasSuffix(word, e.Removal) {
		return false
	}
	return e.Condition.Match(word)
}

// IsFullstrip reports whether applying the entry would remove all of word.
func (e *AffixEntry) IsFullstrip(word string) bool {
	return e.Removal != "" && len(e.Removal) == len(word)
}

// Apply produces the derived word. The caller must have checked CanApplyTo.
func (e *AffixEntry) Apply(word string) string {
	if e.Type == Prefix {
		return e.Addition + word[len(e.Removal):]
	}
	return word[:len(word)-len(e.Removal)] + e.Addition
}

// Undo recovers the word the entry was applied to.
func (e *AffixEntry) Undo(word string) string {
	if e.Type == Prefix {
		return e.Removal + strings.TrimPrefix(word, e.Addition)
	}
	return strings.TrimSuffix(word, e.Addition) + e.Removal
}

// HasContinuationFlag reports whether flag chains from this entry.
func (e *AffixEntry) HasContinuationFlag(flag string) bool {
	return hasFlag(e.ContinuationFlags, flag)
}

// Lint returns warnings about suspicious but legal entries.
func (e *AffixEntry) Lint() []string {
	var warnings []string
	if e.Removal != "" && e.Addition != "" {
		r1, _ := utf8.DecodeRuneInString(e.Removal)
		r2, _ := utf8.DecodeRuneInString(e.Addition)
		if e.Type == Prefix {
			r1, _ = utf8.DecodeLastRuneInString(e.Removal)
			r2, _ = utf8.DecodeLastRuneInString(e.Addition)
		}
		shared := r1 == r2
		if shared {
			warnings = append(warnings, fmt.Sprintf("%s %s: removal %q and addition %q share a character at the boundary",
				e.Type, e.Flag, e.Removal, e.Addition))
		}
	}
	if e.Condition.Len() > 0 && e.Removal != "" && !removalSatisfiesCondition(e) {
		warnings = append(warnings, fmt.Sprintf("%s %s: condition %s does not cover removal %q",
			e.Type, e.Flag, e.Condition, e.Removal))
	}
	for _, f := range e.MorphFields {
		if !isMorphField(f) {
			warnings = append(warnings, fmt.Sprintf("%s %s: malformed morphological field %q", e.Type, e.Flag, f))
		}
	}
	return warnings
}

// removalSatisfiesCondition checks that the anchored positions shared by
// removal and condition agree.
func removalSatisfiesCondition(e *AffixEntry) bool {
	rem := []rune(e.Removal)
	n := min(len(rem), e.Condition.Len())
	for i := 0; i < n; i++ {
		var r rune
		var el ConditionElement
		if e.Type == Prefix {
			r, el = rem[i], e.Condition.Elements[i]
		} else {
			r, el = rem[len(rem)-1-i], e.Condition.Elements[e.Condition.Len()-1-i]
		}
		if !el.Matches(r) {
			return false
		}
	}
	return true
}

// Format renders the entry as an affix-file line.
func (e *AffixEntry) Format(format FlagFormat) string {
	var sb strings.Builder
	sb.WriteString(e.Type.String())
	sb.WriteByte(' ')
	sb.WriteString(e.Flag)
	sb.WriteByte(' ')
	sb.WriteString(emptyToZero(e.Removal))
	sb.WriteByte(' ')
	sb.WriteString(emptyToZero(e.Addition))
	sb.WriteString(format.Wrap(e.ContinuationFlags))
	sb.WriteByte(' ')
	sb.WriteString(e.Condition.String())
	for _, f := range e.MorphFields {
		sb.WriteByte(' ')
		sb.WriteString(f)
	}
	return sb.String()
}

func (e *AffixEntry) String() string {
	return e.Format(FlagASCII)
}

// RuleEntry is a complete affix rule: a header and its entries.
type RuleEntry struct {
	// Flag identifies the rule.
	Flag string
	// Type is the rule side.
	Type AffixType
	// Combinable tells whether productions may take an affix of the other side.
	Combinable bool
	// Entries are the rule lines in file order.
	Entries []*AffixEntry
}

// ParseRuleHeader parses "SFX A Y 3" and returns the rule (without entries)
// and the declared entry count.
func ParseRuleHeader(line string) (*RuleEntry, int, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, 0, fmt.Errorf("rule header %q: expected 4 fields", line)
	}
	typ, ok := ParseAffixType(fields[0])
	if !ok {
		return nil, 0, fmt.Errorf("rule header %q: unknown type %q", line, fields[0])
	}
	r := &RuleEntry{Flag: fields[1], Type: typ}
	switch fields[2] {
	case "Y":
		r.Combinable = true
	case "N":
	default:
		// Some dictionaries put a count here; any positive count combines.
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, 0, fmt.Errorf("rule header %q: combinable must be Y, N or a count", line)
		}
		r.Combinable = n > 0
	}
	count, err := strconv.Atoi(fields[3])
	if err != nil || count < 0 {
		return nil, 0, fmt.Errorf("rule header %q: bad entry count %q", line, fields[3])
	}
	return r, count, nil
}

// Header renders the rule header line for count entries.
func (r *RuleEntry) Header(count int) string {
	combinable := "N"
	if r.Combinable {
		combinable = "Y"
	}
	return fmt.Sprintf("%s %s %s %d", r.Type, r.Flag, combinable, count)
}

// ApplicableEntries returns the entries whose condition fits word.
func (r *RuleEntry) ApplicableEntries(word string) []*AffixEntry {
	var out []*AffixEntry
	for _, e := range r.Entries {
		if e.CanApplyTo(word) {
			out = append(out, e)
		}
	}
	return out
}

// ParseRule parses a header line followed by its entry lines.
func ParseRule(lines []string, format FlagFormat, cache *ConditionCache) (*RuleEntry, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty rule")
	}
	r, count, err := ParseRuleHeader(lines[0])
	if err != nil {
		return nil, err
	}
	if count != len(lines)-1 {
		return nil, fmt.Errorf("rule %s %s: header declares %d entries, found %d", r.Type, r.Flag, count, len(lines)-1)
	}
	for _, line := range lines[1:] {
		e, err := ParseAffixEntry(line, format, cache)
		if err != nil {
			return nil, err
		}
		if e.Type != r.Type || e.Flag != r.Flag {
			return nil, fmt.Errorf("rule %s %s: entry %q belongs to another rule", r.Type, r.Flag, line)
		}
		r.Entries = append(r.Entries, e)
	}
	return r, nil
}
