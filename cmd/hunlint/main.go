// Command hunlint expands a Hunspell dictionary into its word forms,
// reduces an affix rule to a minimal equivalent, or lists compounds.
//
// Usage:
//
//	hunlint -a x.aff -d x.dic --generate
//	hunlint -a x.aff -d x.dic --reduce A [--keep-lca]
//	hunlint -a x.aff -d x.dic --compound 50
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/cours-de-latin/hunlint"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hunlint -a file.aff -d file.dic [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
	}
	configFlag := pflag.StringP("config", "c", "", "YAML config file")
	affixFlag := pflag.StringP("affix", "a", "", "affix file (.aff)")
	dicFlag := pflag.StringP("dictionary", "d", "", "dictionary file (.dic)")
	generateFlag := pflag.BoolP("generate", "g", false, "print every word form of the dictionary")
	reduceFlag := pflag.StringP("reduce", "r", "", "reduce the rule with this flag")
	keepLCAFlag := pflag.Bool("keep-lca", false, "widen reduced conditions to the longest common affix of their stems")
	compoundFlag := pflag.Int("compound", 0, "list up to N compounds per compound rule")
	workersFlag := pflag.IntP("workers", "w", 0, "worker goroutines (0 = one per CPU)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "log lints and statistics to stderr")
	helpFlag := pflag.BoolP("help", "h", false, "show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	cfg := hunlint.DefaultConfig()
	if *configFlag != "" {
		var err error
		if cfg, err = hunlint.LoadConfig(*configFlag); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	if pflag.Lookup("affix").Changed {
		cfg.Affix = *affixFlag
	}
	if pflag.Lookup("dictionary").Changed {
		cfg.Dictionary = *dicFlag
	}
	if pflag.Lookup("workers").Changed {
		cfg.Workers = *workersFlag
	}
	if pflag.Lookup("keep-lca").Changed {
		cfg.KeepLongestCommonAffix = *keepLCAFlag
	}
	if pflag.Lookup("compound").Changed {
		cfg.CompoundLimit = *compoundFlag
	}
	if cfg.Affix == "" || cfg.Dictionary == "" {
		pflag.Usage()
		os.Exit(2)
	}

	var logger *log.Logger
	if *verboseFlag {
		logger = log.New(os.Stderr, "hunlint: ", 0)
	}
	opts := []hunlint.Option{hunlint.WithLogger(logger), hunlint.WithWorkers(cfg.Workers)}

	data, err := hunlint.OpenAffix(cfg.Affix, opts...)
	if err != nil {
		log.Fatalf("failed to load affix file: %v", err)
	}
	entries, err := hunlint.OpenDictionary(cfg.Dictionary, data, opts...)
	if err != nil {
		if entries == nil {
			log.Fatalf("failed to load dictionary: %v", err)
		}
		log.Printf("dictionary: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	status := 0
	switch {
	case *reduceFlag != "":
		status = reduce(ctx, out, data, entries, *reduceFlag, cfg.KeepLongestCommonAffix, opts)
	case pflag.Lookup("compound").Changed:
		status = compound(out, data, entries, cfg.CompoundLimit, opts)
	case *generateFlag:
		status = generate(ctx, out, data, entries, opts)
	default:
		pflag.Usage()
		status = 2
	}
	if status != 0 {
		out.Flush()
		os.Exit(status)
	}
}

func generate(ctx context.Context, out *bufio.Writer, data *hunlint.AffixData, entries []*hunlint.DictionaryEntry, opts []hunlint.Option) int {
	gen := hunlint.NewGenerator(data, opts...)
	failed := 0
	err := gen.GenerateAll(ctx, entries, func(_ *hunlint.DictionaryEntry, prods []hunlint.Production, err error) {
		if err != nil {
			failed++
			log.Print(err)
			return
		}
		for _, p := range prods {
			fmt.Fprintln(out, p.Format(data.FlagFormat()))
		}
	})
	if err != nil {
		log.Printf("generate: %v", err)
		return 1
	}
	if failed > 0 {
		log.Printf("%d of %d lines failed", failed, len(entries))
		return 1
	}
	return 0
}

func reduce(ctx context.Context, out *bufio.Writer, data *hunlint.AffixData, entries []*hunlint.DictionaryEntry, flag string, keepLCA bool, opts []hunlint.Option) int {
	red := hunlint.NewReducer(data, opts...)
	lines, err := red.ReduceFlag(ctx, flag, entries, keepLCA)
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
	var mismatch *hunlint.ReductionMismatchError
	switch {
	case errors.As(err, &mismatch):
		log.Printf("reduced rule is not equivalent: %v", mismatch)
		return 1
	case err != nil:
		log.Printf("reduce: %v", err)
		return 1
	}
	return 0
}

func compound(out *bufio.Writer, data *hunlint.AffixData, entries []*hunlint.DictionaryEntry, limit int, opts []hunlint.Option) int {
	gen := hunlint.NewGenerator(data, opts...)
	var results []*hunlint.CompoundResult
	var names []string
	for _, rule := range data.Options().CompoundRules {
		res, err := gen.ApplyCompoundRule(entries, rule, limit)
		if err != nil {
			log.Printf("compound rule %s: %v", rule, err)
			return 1
		}
		results, names = append(results, res), append(names, "COMPOUNDRULE "+rule)
	}
	if data.Options().CompoundFlag != "" {
		res, err := gen.ApplyCompoundFlag(entries, limit, 0)
		if err != nil {
			log.Printf("compound flag: %v", err)
			return 1
		}
		results, names = append(results, res), append(names, "COMPOUNDFLAG "+data.Options().CompoundFlag)
	}

	for i, res := range results {
		count := fmt.Sprint(res.Count)
		if res.Count == hunlint.InfiniteCount {
			count = "infinite"
		}
		fmt.Fprintf(out, "# %s: %d shown, %s total\n", names[i], len(res.Productions), count)
		for _, p := range res.Productions {
			fmt.Fprintln(out, p.Format(data.FlagFormat()))
		}
	}
	return 0
}
