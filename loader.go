package hunlint

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// OpenAffix loads the affix file at path.
func OpenAffix(path string, opts ...Option) (*AffixData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return LoadAffix(f, opts...)
}

// OpenDictionary loads the dictionary file at path.
func OpenDictionary(path string, data *AffixData, opts ...Option) ([]*DictionaryEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return LoadDictionary(f, data, opts...)
}

// affixParser accumulates the state of one affix file.
type affixParser struct {
	opts  Options
	rules []*RuleEntry
	cache *ConditionCache
	log   settings

	// pending is the rule whose entries are being read.
	pending   *RuleEntry
	remaining int
	headerAt  int

	// compoundRules counts the COMPOUNDRULE lines still expected.
	compoundRules int

	ignore *strings.Replacer
}

// LoadAffix reads an affix file: the rule table and the directives that
// influence generation. Unknown directives and "#" comments are skipped.
// Lints of suspicious entries are logged.
func LoadAffix(r io.Reader, opts ...Option) (*AffixData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read affix file: %w", err)
	}
	charset := sniffCharset(raw)
	text, err := decodeText(raw, charset)
	if err != nil {
		return nil, fmt.Errorf("affix file: %w", err)
	}

	p := &affixParser{
		opts:  Options{Encoding: charset},
		cache: NewConditionCache(0),
		log:   newSettings(opts),
	}
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		if err := p.parseLine(n, sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read affix file: %w", err)
	}
	if p.pending != nil && p.remaining > 0 {
		return nil, &ParseError{Line: p.headerAt, Text: p.pending.Header(len(p.pending.Entries) + p.remaining),
			Msg: fmt.Sprintf("rule ends after %d of its entries", len(p.pending.Entries))}
	}

	d, err := NewAffixData(p.opts, p.rules...)
	if err != nil {
		return nil, err
	}
	d.conditions = p.cache
	return d, nil
}

// sniffCharset finds the SET directive, which must precede any text in a
// non-ASCII charset.
func sniffCharset(raw []byte) string {
	for _, line := range bytes.Split(raw, []byte("\n")) {
		fields := strings.Fields(string(bytes.TrimPrefix(line, []byte("\xEF\xBB\xBF"))))
		if len(fields) >= 2 && fields[0] == "SET" {
			return fields[1]
		}
	}
	return ""
}

func (p *affixParser) parseLine(n int, line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}
	fields := strings.Fields(trimmed)
	bad := func(msg string) error {
		return &ParseError{Line: n, Text: trimmed, Msg: msg}
	}

	switch fields[0] {
	case "SFX", "PFX":
		return p.parseAffixLine(n, trimmed)
	case "SET":
	case "FLAG":
		if len(fields) < 2 {
			return bad("FLAG needs a value")
		}
		if len(p.rules) > 0 || p.pending != nil {
			return bad("FLAG must precede the rules")
		}
		format, err := ParseFlagFormat(fields[1])
		if err != nil {
			return bad(err.Error())
		}
		p.opts.FlagFormat = format
	case "LANG":
		if len(fields) < 2 {
			return bad("LANG needs a value")
		}
		// Hunspell uses "de_DE"; BCP 47 wants "de-DE".
		tag, err := language.Parse(strings.ReplaceAll(fields[1], "_", "-"))
		if err != nil {
			p.log.logger.Printf("line %d: unknown language %q, using root collation", n, fields[1])
			tag = language.Und
		}
		p.opts.Language = tag
	case "FULLSTRIP":
		p.opts.FullStrip = true
	case "COMPLEXPREFIXES":
		p.opts.ComplexPrefixes = true
	case "NEEDAFFIX", "PSEUDOROOT", "CIRCUMFIX", "KEEPCASE", "FORBIDDENWORD", "ONLYINCOMPOUND", "COMPOUNDFLAG":
		if len(fields) < 2 {
			return bad(fields[0] + " needs a flag")
		}
		flag, err := p.singleFlag(fields[1])
		if err != nil {
			return bad(err.Error())
		}
		p.setPropertyFlag(fields[0], flag)
	case "COMPOUNDRULE":
		if len(fields) < 2 {
			return bad("COMPOUNDRULE needs a value")
		}
		if count, err := strconv.Atoi(fields[1]); err == nil && p.compoundRules == 0 && len(p.opts.CompoundRules) == 0 {
			p.compoundRules = count
			return nil
		}
		if _, err := ParseCompoundRule(fields[1], p.opts.FlagFormat); err != nil {
			return bad(err.Error())
		}
		p.opts.CompoundRules = append(p.opts.CompoundRules, fields[1])
		if p.compoundRules > 0 {
			p.compoundRules--
		}
	case "COMPOUNDWORDMAX":
		if len(fields) < 2 {
			return bad("COMPOUNDWORDMAX needs a value")
		}
		limit, err := strconv.Atoi(fields[1])
		if err != nil || limit < 1 {
			return bad("COMPOUNDWORDMAX must be a positive number")
		}
		p.opts.CompoundWordMax = limit
	case "IGNORE":
		if len(fields) < 2 {
			return bad("IGNORE needs characters")
		}
		p.opts.Ignore = fields[1]
		p.ignore = newIgnoreReplacer(fields[1])
	}
	return nil
}

func (p *affixParser) setPropertyFlag(directive, flag string) {
	switch directive {
	case "NEEDAFFIX", "PSEUDOROOT":
		p.opts.NeedAffix = flag
	case "CIRCUMFIX":
		p.opts.Circumfix = flag
	case "KEEPCASE":
		p.opts.KeepCase = flag
	case "FORBIDDENWORD":
		p.opts.ForbiddenWord = flag
	case "ONLYINCOMPOUND":
		p.opts.OnlyInCompound = flag
	case "COMPOUNDFLAG":
		p.opts.CompoundFlag = flag
	}
}

// singleFlag parses a directive argument that must be exactly one flag.
func (p *affixParser) singleFlag(raw string) (string, error) {
	flags, err := p.opts.FlagFormat.Parse(raw)
	if err != nil {
		return "", err
	}
	if len(flags) != 1 {
		return "", fmt.Errorf("expected one %s flag, got %q", p.opts.FlagFormat, raw)
	}
	return flags[0], nil
}

// parseAffixLine reads a rule header or, while a rule is open, one of its
// entries.
func (p *affixParser) parseAffixLine(n int, line string) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return &ParseError{Line: n, Text: line, Msg: "truncated affix line"}
	}
	if p.pending != nil && p.remaining > 0 && fields[1] == p.pending.Flag && fields[0] == p.pending.Type.String() {
		e, err := ParseAffixEntry(p.stripIgnored(fields), p.opts.FlagFormat, p.cache)
		if err != nil {
			return &ParseError{Line: n, Text: line, Msg: err.Error()}
		}
		for _, w := range e.Lint() {
			p.log.logger.Printf("line %d: %s", n, w)
		}
		p.pending.Entries = append(p.pending.Entries, e)
		p.remaining--
		return nil
	}
	if p.pending != nil && p.remaining > 0 {
		return &ParseError{Line: p.headerAt, Text: p.pending.Header(len(p.pending.Entries) + p.remaining),
			Msg: fmt.Sprintf("rule ends after %d of its entries", len(p.pending.Entries))}
	}

	rule, count, err := ParseRuleHeader(line)
	if err != nil {
		return &ParseError{Line: n, Text: line, Msg: err.Error()}
	}
	if _, err := p.singleFlag(rule.Flag); err != nil {
		return &ParseError{Line: n, Text: line, Msg: err.Error()}
	}
	p.rules = append(p.rules, rule)
	p.pending, p.remaining, p.headerAt = rule, count, n
	return nil
}

// stripIgnored removes the IGNORE characters from the removal, addition
// and condition of an affix entry line, leaving flags and morphological
// fields alone.
func (p *affixParser) stripIgnored(fields []string) string {
	if p.ignore == nil || len(fields) < 4 {
		return strings.Join(fields, " ")
	}
	out := slices.Clone(fields)
	out[2] = emptyToZero(p.ignore.Replace(zeroToEmpty(out[2])))
	addition, flags, hasFlags := strings.Cut(out[3], "/")
	out[3] = emptyToZero(p.ignore.Replace(zeroToEmpty(addition)))
	if hasFlags {
		out[3] += "/" + flags
	}
	if len(out) > 4 {
		if cond := p.ignore.Replace(out[4]); cond != "" {
			out[4] = cond
		} else {
			out[4] = "."
		}
	}
	return strings.Join(out, " ")
}

// LoadDictionary reads a dictionary in the charset of data. The leading
// word count is optional. Malformed lines are skipped and reported together
// as *ParseError values in the returned error, next to the entries that
// did parse.
func LoadDictionary(r io.Reader, data *AffixData, opts ...Option) ([]*DictionaryEntry, error) {
	s := newSettings(opts)
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	text, err := decodeText(raw, data.opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("dictionary: %w", err)
	}

	var entries []*DictionaryEntry
	var errs []error
	declared := -1
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if declared < 0 && len(entries) == 0 && len(errs) == 0 {
			if count, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				declared = count
				continue
			}
		}
		e, err := ParseDictionaryEntry(line, data.opts.FlagFormat)
		if err != nil {
			errs = append(errs, &ParseError{Line: n, Text: line, Msg: err.Error()})
			continue
		}
		e.Stem = data.StripIgnored(e.Stem)
		e.Number = n
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	if declared >= 0 && declared != len(entries)+len(errs) {
		s.logger.Printf("dictionary declares %d words, found %d", declared, len(entries)+len(errs))
	}
	return entries, errors.Join(errs...)
}
