package hunlint

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// GenerateFunc receives the result of one dictionary line. err is a
// *LineError when generation failed.
type GenerateFunc func(entry *DictionaryEntry, productions []Production, err error)

// GenerateAll expands entries on the configured number of workers and then
// calls fn once per entry, in input order. A failing line does not stop the
// others; only ctx cancellation does, in which case ctx.Err() is returned
// and fn is not called.
func (g *Generator) GenerateAll(ctx context.Context, entries []*DictionaryEntry, fn GenerateFunc) error {
	type result struct {
		productions []Production
		err         error
	}
	results := make([]result, len(entries))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, entry := range entries {
		i, entry := i, entry // per-iteration copies (go1.22 loop semantics)
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			prods, err := g.Generate(entry)
			if err != nil {
				err = &LineError{Line: lineNumber(entry, i), Err: err}
			}
			results[i] = result{productions: prods, err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, entry := range entries {
		fn(entry, results[i].productions, results[i].err)
	}
	return nil
}

// lineNumber returns the source line of entry, falling back to its 1-based
// position in the batch.
func lineNumber(entry *DictionaryEntry, i int) int {
	if entry.Number > 0 {
		return entry.Number
	}
	return i + 1
}
