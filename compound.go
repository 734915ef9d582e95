package hunlint

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// InfiniteCount is the Count of a compound rule accepting unboundedly many
// words.
const InfiniteCount = -1

// maxCompoundSteps bounds the enumeration independently of the limit.
const maxCompoundSteps = 1 << 20

// CompoundOp is the quantifier of a compound rule item.
type CompoundOp int

const (
	// CompoundOne matches exactly one component.
	CompoundOne CompoundOp = iota
	// CompoundOptional is "?": zero or one component.
	CompoundOptional
	// CompoundStar is "*": any number of components.
	CompoundStar
)

// CompoundItem is one position of a COMPOUNDRULE pattern.
type CompoundItem struct {
	Flag string
	Op   CompoundOp
}

func (it CompoundItem) String() string {
	s := it.Flag
	if len([]rune(s)) > 1 {
		s = "(" + s + ")"
	}
	switch it.Op {
	case CompoundOptional:
		return s + "?"
	case CompoundStar:
		return s + "*"
	}
	return s
}

// ParseCompoundRule parses a COMPOUNDRULE pattern such as "ABC*D?".
// Long and numeric flags must be written in parentheses: "(aa)(bb)*".
func ParseCompoundRule(rule string, format FlagFormat) ([]CompoundItem, error) {
	runes := []rune(strings.TrimSpace(rule))
	if len(runes) == 0 {
		return nil, fmt.Errorf("compound rule: empty pattern")
	}
	var items []CompoundItem
	for i := 0; i < len(runes); i++ {
		var flag string
		switch r := runes[i]; r {
		case '?', '*':
			if len(items) == 0 {
				return nil, fmt.Errorf("compound rule %q: quantifier %q without item", rule, r)
			}
			return nil, fmt.Errorf("compound rule %q: repeated quantifier at %d", rule, i)
		case ')':
			return nil, fmt.Errorf("compound rule %q: unbalanced ')' at %d", rule, i)
		case '(':
			end := i + 1
			for end < len(runes) && runes[end] != ')' {
				end++
			}
			if end == len(runes) {
				return nil, fmt.Errorf("compound rule %q: unterminated '(' at %d", rule, i)
			}
			flag = string(runes[i+1 : end])
			i = end
		default:
			if format == FlagLong || format == FlagNumeric {
				return nil, fmt.Errorf("compound rule %q: %s flags must be parenthesized", rule, format)
			}
			flag = string(r)
		}
		if !format.Valid(flag) {
			return nil, fmt.Errorf("compound rule %q: invalid %s flag %q", rule, format, flag)
		}
		item := CompoundItem{Flag: flag}
		if i+1 < len(runes) {
			switch runes[i+1] {
			case '?':
				item.Op = CompoundOptional
				i++
			case '*':
				item.Op = CompoundStar
				i++
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// CompoundResult holds the compounds built by a rule.
type CompoundResult struct {
	// Productions are the distinct compounds, shortest first.
	Productions []Production
	// Count is the number of accepted component sequences, or
	// InfiniteCount. Sequences spelling the same word are counted once per
	// sequence, so Count may exceed the number of distinct productions.
	Count int
	// truncated is set when the enumeration stopped at the limit.
	truncated bool
}

// Truncated reports whether more compounds exist than were returned.
func (r *CompoundResult) Truncated() bool {
	return r.truncated
}

// compoundAutomaton is the NFA of a compound rule. State i waits for item i;
// state len(items) accepts. "?" and "*" items add an ε-edge to i+1, "*"
// consumes without leaving i.
type compoundAutomaton struct {
	items []CompoundItem
	// components holds the stems usable for each item.
	components [][]string
	// alive[i] tells whether the accepting state is reachable from i.
	alive []bool
	// reachable[i] tells whether i is reachable from the start.
	reachable []bool
}

func newCompoundAutomaton(items []CompoundItem, entries []*DictionaryEntry, forbidden string) *compoundAutomaton {
	n := len(items)
	a := &compoundAutomaton{
		items:      items,
		components: make([][]string, n),
		alive:      make([]bool, n+1),
		reachable:  make([]bool, n+1),
	}
	for i, it := range items {
		for _, e := range entries {
			if e.Stem != "" && e.HasContinuationFlag(it.Flag) && !e.HasContinuationFlag(forbidden) {
				a.components[i] = append(a.components[i], e.Stem)
			}
		}
	}

	a.alive[n] = true
	for i := n - 1; i >= 0; i-- {
		if items[i].Op == CompoundOne {
			a.alive[i] = len(a.components[i]) > 0 && a.alive[i+1]
		} else {
			a.alive[i] = a.alive[i+1]
		}
	}
	a.reachable[0] = true
	for i, it := range items {
		a.reachable[i+1] = a.reachable[i] && (it.Op != CompoundOne || len(a.components[i]) > 0)
	}
	return a
}

// infinite reports whether a productive "*" item lies on an accepting path.
func (a *compoundAutomaton) infinite() bool {
	for i, it := range a.items {
		if it.Op == CompoundStar && a.reachable[i] && len(a.components[i]) > 0 && a.alive[i+1] {
			return true
		}
	}
	return false
}

// count returns the number of accepted sequences of two components or
// more, saturating to InfiniteCount.
func (a *compoundAutomaton) count() int {
	if a.infinite() {
		return InfiniteCount
	}
	if !a.alive[0] {
		return 0
	}
	// Without productive stars every item contributes a fixed choice set:
	// k components, plus the empty choice when optional.
	total := uint64(1)
	empty := uint64(1)
	mandatory := 0
	for i, it := range a.items {
		k := uint64(len(a.components[i]))
		choices := k
		switch it.Op {
		case CompoundOne:
			mandatory++
			empty = 0
		default:
			choices = k + 1
		}
		hi, lo := bits.Mul64(total, choices)
		if hi != 0 || lo > math.MaxInt {
			return InfiniteCount
		}
		total = lo
	}
	single := uint64(0)
	for i, it := range a.items {
		k := uint64(len(a.components[i]))
		switch {
		case mandatory == 0:
			single += k
		case mandatory == 1 && it.Op == CompoundOne:
			single += k
		}
	}
	return int(total - empty - single)
}

type compoundNode struct {
	state int
	path  []string
}

// enumerate walks the automaton breadth-first and returns up to limit
// distinct compounds (limit <= 0 means all).
func (a *compoundAutomaton) enumerate(limit int) ([]Production, bool) {
	n := len(a.items)
	var queue []compoundNode
	push := func(state int, path []string) {
		// Follow ε-edges so every state of the closure is queued.
		for {
			if a.alive[state] {
				queue = append(queue, compoundNode{state: state, path: path})
			}
			if state == n || a.items[state].Op == CompoundOne {
				return
			}
			state++
		}
	}
	push(0, nil)

	var out []Production
	seen := make(map[string]bool)
	for steps := 0; len(queue) > 0; steps++ {
		if steps >= maxCompoundSteps {
			return out, true
		}
		node := queue[0]
		queue = queue[1:]

		if node.state == n {
			if len(node.path) < 2 {
				continue
			}
			word := strings.Join(node.path, "")
			if seen[word] {
				continue
			}
			if limit > 0 && len(out) == limit {
				return out, true
			}
			seen[word] = true
			out = append(out, compoundProduction(word, node.path))
			continue
		}

		next := node.state + 1
		if a.items[node.state].Op == CompoundStar {
			next = node.state
		}
		for _, c := range a.components[node.state] {
			path := make([]string, len(node.path), len(node.path)+1)
			copy(path, node.path)
			push(next, append(path, c))
		}
	}
	return out, false
}

func compoundProduction(word string, parts []string) Production {
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = TagPart + p
	}
	return Production{Word: word, DataFields: fields}
}

// ApplyCompoundRule builds the compounds of rule whose components are the
// stems of entries carrying the item flags. limit bounds the number of
// productions returned; it is required when the rule is unbounded.
func (g *Generator) ApplyCompoundRule(entries []*DictionaryEntry, rule string, limit int) (*CompoundResult, error) {
	items, err := ParseCompoundRule(rule, g.data.opts.FlagFormat)
	if err != nil {
		return nil, err
	}
	return g.applyCompoundItems(entries, items, limit)
}

func (g *Generator) applyCompoundItems(entries []*DictionaryEntry, items []CompoundItem, limit int) (*CompoundResult, error) {
	a := newCompoundAutomaton(items, entries, g.data.opts.ForbiddenWord)
	count := a.count()
	if count == InfiniteCount && limit <= 0 {
		return nil, fmt.Errorf("compound rule %s accepts infinitely many words: a limit is required", renderItems(items))
	}
	prods, truncated := a.enumerate(limit)
	g.logger.Printf("compound rule %s: %d productions (count %d, truncated %t)",
		renderItems(items), len(prods), count, truncated)
	return &CompoundResult{Productions: prods, Count: count, truncated: truncated}, nil
}

// ApplyCompoundFlag builds the compounds allowed by COMPOUNDFLAG: two to
// maxCompounds components. maxCompounds <= 0 falls back to COMPOUNDWORDMAX,
// and to no bound when that is unset too.
func (g *Generator) ApplyCompoundFlag(entries []*DictionaryEntry, limit, maxCompounds int) (*CompoundResult, error) {
	flag := g.data.opts.CompoundFlag
	if flag == "" {
		return nil, fmt.Errorf("compound flag: COMPOUNDFLAG is not set")
	}
	if maxCompounds <= 0 {
		maxCompounds = g.data.opts.CompoundWordMax
	}
	if maxCompounds == 1 {
		return nil, fmt.Errorf("compound flag: a compound needs at least 2 components, max is %d", maxCompounds)
	}

	items := []CompoundItem{{Flag: flag}, {Flag: flag}}
	if maxCompounds <= 0 {
		items = append(items, CompoundItem{Flag: flag, Op: CompoundStar})
	}
	for i := 2; i < maxCompounds; i++ {
		items = append(items, CompoundItem{Flag: flag, Op: CompoundOptional})
	}
	return g.applyCompoundItems(entries, items, limit)
}

func renderItems(items []CompoundItem) string {
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString(it.String())
	}
	return sb.String()
}
