package hunlint

// stage identifies a generation fold.
type stage int

const (
	foldOne stage = iota
	foldTwo
	foldLast
)

// Generator applies affix rules to dictionary entries.
// A Generator holds no per-call state and is safe for concurrent use.
type Generator struct {
	data *AffixData
	settings
}

// NewGenerator returns a Generator over data.
func NewGenerator(data *AffixData, opts ...Option) *Generator {
	return &Generator{data: data, settings: newSettings(opts)}
}

// Data returns the affix context of g.
func (g *Generator) Data() *AffixData {
	return g.data
}

// primary returns the side that may be applied twice.
func (g *Generator) primary() AffixType {
	if g.data.opts.ComplexPrefixes {
		return Prefix
	}
	return Suffix
}

// Generate returns the productions of entry: the base production first,
// then onefold, twofold and lastfold productions, without the ones that
// violate NEEDAFFIX or CIRCUMFIX. A FORBIDDENWORD entry produces nothing.
func (g *Generator) Generate(entry *DictionaryEntry) ([]Production, error) {
	all, err := g.expand(entry)
	if err != nil {
		return nil, err
	}
	if entry.HasContinuationFlag(g.data.opts.ForbiddenWord) {
		return nil, nil
	}
	return g.filterValid(entry, all), nil
}

// expand runs all folds without the validity filter, so intermediate forms
// that cannot stand alone are still present.
func (g *Generator) expand(entry *DictionaryEntry) ([]Production, error) {
	for _, f := range entry.ContinuationFlags {
		if !g.data.isKnownFlag(f) {
			return nil, &UnknownFlagError{Flag: f, Word: entry.Stem}
		}
	}

	base := newBaseProduction(entry)
	primary := g.primary()

	onefold, err := g.fold([]Production{base}, primary, foldOne)
	if err != nil {
		return nil, err
	}
	twofold, err := g.fold(onefold, primary, foldTwo)
	if err != nil {
		return nil, err
	}

	all := make([]Production, 0, 1+2*(len(onefold)+len(twofold)))
	all = append(all, base)
	all = append(all, onefold...)
	all = append(all, twofold...)

	lastfold, err := g.fold(all, primary.opposite(), foldLast)
	if err != nil {
		return nil, err
	}
	return append(all, lastfold...), nil
}

// fold applies every rule of side found among the parents' flags.
func (g *Generator) fold(parents []Production, side AffixType, st stage) ([]Production, error) {
	var out []Production
	for _, p := range parents {
		for _, flag := range p.ContinuationFlags {
			rule := g.data.rules[flag]
			if rule == nil || rule.Type != side || !g.canFold(p, rule) {
				continue
			}
			children, err := g.applyRule(p, rule, st)
			if err != nil {
				return nil, err
			}
			out = append(out, children...)
		}
	}
	return out, nil
}

// canFold reports whether rule may be applied to p. The primary side may be
// applied twice before any secondary affix; the secondary side once, and
// only over combinable affixes.
func (g *Generator) canFold(p Production, rule *RuleEntry) bool {
	if rule.Type == g.primary() {
		return p.countApplied(rule.Type.opposite()) == 0 && p.countApplied(rule.Type) < 2
	}
	return p.countApplied(rule.Type) == 0 && g.combinable(p, rule)
}

// combinable reports whether an affix of rule may wrap the affixes of p.
func (g *Generator) combinable(p Production, rule *RuleEntry) bool {
	if p.IsBase() {
		return true
	}
	if !rule.Combinable {
		return false
	}
	for _, e := range p.AppliedRules {
		if r := g.data.rules[e.Flag]; r == nil || !r.Combinable {
			return false
		}
	}
	return true
}

// ownsFlag reports whether flag was attached to p directly (by the entry
// for the base, by the outermost primary affix otherwise) rather than
// inherited from the stem.
func (g *Generator) ownsFlag(p Production, flag string) bool {
	if p.IsBase() {
		return true
	}
	last := p.LastAppliedRule(g.primary())
	return last != nil && last.HasContinuationFlag(flag)
}

// applyRule derives the productions of rule over p.
func (g *Generator) applyRule(p Production, rule *RuleEntry, st stage) ([]Production, error) {
	entries := rule.ApplicableEntries(p.Word)
	if len(entries) == 0 {
		if g.ownsFlag(p, rule.Flag) {
			return nil, &NoApplicableRuleError{Flag: rule.Flag, Word: p.Word}
		}
		return nil, nil
	}

	out := make([]Production, 0, len(entries))
	for _, e := range entries {
		if e.IsFullstrip(p.Word) && !g.data.opts.FullStrip {
			return nil, &FullstripViolationError{Flag: rule.Flag, Word: p.Word}
		}
		child := g.derive(p, e)
		for _, f := range e.ContinuationFlags {
			if !g.data.isKnownFlag(f) {
				return nil, &UnknownFlagError{Flag: f, Word: child.Word}
			}
			chained := g.data.rules[f]
			if chained == nil {
				continue
			}
			// Two affixes of the primary side at most, one of the other.
			if st != foldOne && chained.Type == rule.Type {
				return nil, &TwofoldViolationError{Flag: f, Word: child.Word}
			}
		}
		out = append(out, child)
	}
	return out, nil
}

// derive builds the production of e over p.
func (g *Generator) derive(p Production, e *AffixEntry) Production {
	flags := make([]string, 0, len(p.ContinuationFlags)+len(e.ContinuationFlags))
	for _, f := range p.ContinuationFlags {
		if r := g.data.rules[f]; r != nil && r.Type == e.Type {
			continue
		}
		flags = append(flags, f)
	}
	flags = unionFlags(flags, e.ContinuationFlags)

	applied := make([]*AffixEntry, 0, len(p.AppliedRules)+1)
	if e.Type == Prefix {
		applied = append(applied, e)
		applied = append(applied, p.AppliedRules...)
	} else {
		applied = append(applied, p.AppliedRules...)
		applied = append(applied, e)
	}

	return Production{
		Word:              e.Apply(p.Word),
		ContinuationFlags: flags,
		DataFields:        combineMorphFields(p.DataFields, e.MorphFields, e.Type),
		AppliedRules:      applied,
	}
}

// filterValid drops the productions that break NEEDAFFIX or CIRCUMFIX.
// The base production is kept at BaseProductionIndex unless the entry
// itself needs an affix.
func (g *Generator) filterValid(entry *DictionaryEntry, all []Production) []Production {
	out := make([]Production, 0, len(all))
	for i, p := range all {
		if i == BaseProductionIndex {
			if !entry.HasContinuationFlag(g.data.opts.NeedAffix) {
				out = append(out, p)
			}
			continue
		}
		if g.isValid(p) {
			out = append(out, p)
		}
	}
	return out
}

// isValid checks the pairing constraints of the applied entries.
func (g *Generator) isValid(p Production) bool {
	opts := g.data.opts
	if opts.NeedAffix != "" {
		allNeedAffix := true
		for _, e := range p.AppliedRules {
			if !e.HasContinuationFlag(opts.NeedAffix) {
				allNeedAffix = false
				break
			}
		}
		if allNeedAffix {
			return false
		}
	}
	if opts.Circumfix != "" {
		var prefixes, suffixes int
		for _, e := range p.AppliedRules {
			if !e.HasContinuationFlag(opts.Circumfix) {
				continue
			}
			if e.Type == Prefix {
				prefixes++
			} else {
				suffixes++
			}
		}
		if (prefixes > 0) != (suffixes > 0) {
			return false
		}
	}
	return true
}
