package hunlint

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// CheckReductionCorrectness regenerates every entry under the original rule
// flag and under reducedRules, and fails with a *ReductionMismatchError for
// the first entry whose forms of flag differ. Entries the original rules
// cannot generate are skipped.
func (r *Reducer) CheckReductionCorrectness(ctx context.Context, flag string, reducedRules []string, entries []*DictionaryEntry) error {
	if r.data.Rule(flag) == nil {
		return &NonExistentRuleError{Flag: flag}
	}
	reduced, err := ParseRule(reducedRules, r.data.opts.FlagFormat, r.data.conditions)
	if err != nil {
		return fmt.Errorf("check rule %s: %w", flag, err)
	}
	if reduced.Flag != flag {
		return fmt.Errorf("check rule %s: reduced rule is %s", flag, reduced.Flag)
	}
	original := r.gen
	candidate := &Generator{data: r.data.WithRule(reduced), settings: r.settings}

	mismatches := make([]error, len(entries))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.workers)
	for i, entry := range entries {
		i, entry := i, entry // per-iteration copies (go1.22 loop semantics)
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			want, err := original.Generate(entry)
			if err != nil {
				return nil
			}
			got, err := candidate.Generate(entry)
			if err != nil {
				r.logger.Printf("check rule %s: reduced rule fails on %q: %v", flag, entry.Line, err)
				got = nil
			}
			mismatches[i] = compareProductions(flag, entry, want, got)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	for _, err := range mismatches {
		if err != nil {
			return err
		}
	}
	return nil
}

// compareProductions compares the forms of flag in want and got.
func compareProductions(flag string, entry *DictionaryEntry, want, got []Production) error {
	wantKeys := productionKeys(flag, want)
	gotKeys := productionKeys(flag, got)
	var missing, unexpected []string
	for k := range wantKeys {
		if !gotKeys[k] {
			missing = append(missing, k)
		}
	}
	for k := range gotKeys {
		if !wantKeys[k] {
			unexpected = append(unexpected, k)
		}
	}
	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}
	slices.Sort(missing)
	slices.Sort(unexpected)
	line := entry.Line
	if line == "" {
		line = entry.Stem
	}
	return &ReductionMismatchError{Flag: flag, Line: line, Missing: missing, Unexpected: unexpected}
}

func productionKeys(flag string, productions []Production) map[string]bool {
	keys := make(map[string]bool)
	for _, p := range productions {
		if p.HasAppliedFlag(flag) {
			keys[p.Key()] = true
		}
	}
	return keys
}

// ReduceFlag runs the whole reduction of rule flag over entries: generation,
// collection, reduction, rendering and the correctness check. The rendered
// rule is returned even when the check fails.
func (r *Reducer) ReduceFlag(ctx context.Context, flag string, entries []*DictionaryEntry, keepLongestCommonAffix bool) ([]string, error) {
	rule := r.data.Rule(flag)
	if rule == nil {
		return nil, &NonExistentRuleError{Flag: flag}
	}

	var productions []Production
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prods, err := r.gen.expand(entry)
		if err != nil {
			r.logger.Printf("reduce %s: skipping %q: %v", flag, entry.Line, err)
			continue
		}
		productions = append(productions, prods...)
	}

	collected, err := r.CollectByFlag(productions, flag, rule.Type)
	if err != nil {
		return nil, err
	}
	reduced := r.Reduce(collected, rule.Type)
	lines, err := r.ConvertFormat(flag, keepLongestCommonAffix, reduced)
	if err != nil {
		return nil, err
	}
	r.logger.Printf("reduce %s: %d original entries, %d reduced", flag, len(rule.Entries), len(lines)-1)
	if err := r.CheckReductionCorrectness(ctx, flag, lines, entries); err != nil {
		return lines, err
	}
	return lines, nil
}
