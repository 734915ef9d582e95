// Package hunlint provides the morphological core of a Hunspell dictionary
// toolchain: it expands dictionary stems into their inflected forms by
// applying affix rules, and it reduces the forms produced by one rule back
// into a small, generalized set of affix rules.
//
// All types built by the loaders are read-only afterwards and safe for
// concurrent use by multiple goroutines.
package hunlint

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Options holds the affix-file directives that influence generation.
type Options struct {
	// FlagFormat is the FLAG encoding.
	FlagFormat FlagFormat
	// Language is the LANG tag, used for collation.
	Language language.Tag
	// FullStrip permits affixes that remove a whole word.
	FullStrip bool
	// ComplexPrefixes makes prefixes the primary (twofold) side.
	ComplexPrefixes bool
	// NeedAffix marks stems and affixes that cannot stand alone.
	NeedAffix string
	// Circumfix marks affixes that must be paired prefix+suffix.
	Circumfix string
	// KeepCase marks words that must not change case.
	KeepCase string
	// ForbiddenWord marks forbidden words.
	ForbiddenWord string
	// OnlyInCompound marks stems valid only inside compounds.
	OnlyInCompound string
	// CompoundFlag marks stems usable in free compounding.
	CompoundFlag string
	// CompoundRules are the raw COMPOUNDRULE patterns.
	CompoundRules []string
	// CompoundWordMax bounds the number of compound components (0 = unbounded).
	CompoundWordMax int
	// Ignore lists characters stripped from stems and additions.
	Ignore string
	// Encoding is the SET charset of the affix and dictionary files.
	Encoding string
}

// AffixData is the immutable affix context: the rule table plus options.
type AffixData struct {
	opts Options

	// rules maps flag → rule.
	rules map[string]*RuleEntry

	// order holds the flags in declaration order.
	order []string

	// compoundFlags holds every flag referenced by compound directives.
	compoundFlags map[string]bool

	// conditions memoizes parsed conditions.
	conditions *ConditionCache

	// ignore deletes the IGNORE characters.
	ignore *strings.Replacer
}

// NewAffixData builds an affix context from options and rules.
func NewAffixData(opts Options, rules ...*RuleEntry) (*AffixData, error) {
	d := &AffixData{
		opts:          opts,
		rules:         make(map[string]*RuleEntry, len(rules)),
		compoundFlags: make(map[string]bool),
		conditions:    NewConditionCache(0),
		ignore:        newIgnoreReplacer(opts.Ignore),
	}
	for _, r := range rules {
		if _, dup := d.rules[r.Flag]; dup {
			return nil, fmt.Errorf("rule %s %s defined twice", r.Type, r.Flag)
		}
		d.rules[r.Flag] = r
		d.order = append(d.order, r.Flag)
	}
	if opts.CompoundFlag != "" {
		d.compoundFlags[opts.CompoundFlag] = true
	}
	for _, cr := range opts.CompoundRules {
		items, err := ParseCompoundRule(cr, opts.FlagFormat)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			d.compoundFlags[it.Flag] = true
		}
	}
	return d, nil
}

// Options returns a copy of the directives.
func (d *AffixData) Options() Options {
	o := d.opts
	o.CompoundRules = slices.Clone(d.opts.CompoundRules)
	return o
}

// FlagFormat returns the FLAG encoding.
func (d *AffixData) FlagFormat() FlagFormat {
	return d.opts.FlagFormat
}

// Rule returns the rule for flag, or nil.
func (d *AffixData) Rule(flag string) *RuleEntry {
	return d.rules[flag]
}

// Rules returns all rules in declaration order.
func (d *AffixData) Rules() []*RuleEntry {
	out := make([]*RuleEntry, 0, len(d.order))
	for _, f := range d.order {
		out = append(out, d.rules[f])
	}
	return out
}

// Conditions returns the shared condition cache.
func (d *AffixData) Conditions() *ConditionCache {
	return d.conditions
}

// WithRule returns a copy of d in which rule replaces (or adds) the rule
// with the same flag. d itself is left untouched.
func (d *AffixData) WithRule(rule *RuleEntry) *AffixData {
	cp := &AffixData{
		opts:          d.opts,
		rules:         make(map[string]*RuleEntry, len(d.rules)+1),
		order:         slices.Clone(d.order),
		compoundFlags: d.compoundFlags,
		conditions:    d.conditions,
		ignore:        d.ignore,
	}
	for f, r := range d.rules {
		cp.rules[f] = r
	}
	if _, ok := cp.rules[rule.Flag]; !ok {
		cp.order = append(cp.order, rule.Flag)
	}
	cp.rules[rule.Flag] = rule
	return cp
}

// isPropertyFlag reports whether flag is a boolean word property rather
// than a rule reference.
func (d *AffixData) isPropertyFlag(flag string) bool {
	switch flag {
	case d.opts.NeedAffix, d.opts.Circumfix, d.opts.KeepCase,
		d.opts.ForbiddenWord, d.opts.OnlyInCompound:
		return flag != ""
	}
	return d.compoundFlags[flag]
}

// isKnownFlag reports whether flag names a rule or a property.
func (d *AffixData) isKnownFlag(flag string) bool {
	return d.rules[flag] != nil || d.isPropertyFlag(flag)
}
