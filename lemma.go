package hunlint

import (
	"fmt"
	"strings"
	"unicode"
)

// DictionaryEntry is a stem with its continuation flags and data fields.
// It is built once per dictionary line and never modified.
type DictionaryEntry struct {
	// Stem is the dictionary word.
	Stem string
	// ContinuationFlags are the flags after the slash.
	ContinuationFlags []string
	// DataFields are the morphological fields following the word.
	DataFields []string
	// Line is the original text, kept for error reports.
	Line string
	// Number is the 1-based line number in the source, 0 when unknown.
	Number int
}

// ParseDictionaryEntry parses "stem[/flags]\tfields". A slash escaped as
// "\/" belongs to the stem.
func ParseDictionaryEntry(line string, format FlagFormat) (*DictionaryEntry, error) {
	line = strings.TrimRightFunc(line, unicode.IsSpace)
	word, fields := splitDataFields(line)
	if word == "" {
		return nil, fmt.Errorf("dictionary line %q: empty word", line)
	}

	stem, rawFlags := splitStemFlags(word)
	if stem == "" {
		return nil, fmt.Errorf("dictionary line %q: empty stem", line)
	}
	flags, err := format.Parse(rawFlags)
	if err != nil {
		return nil, fmt.Errorf("dictionary line %q: %w", line, err)
	}
	return &DictionaryEntry{
		Stem:              stem,
		ContinuationFlags: flags,
		DataFields:        fields,
		Line:              line,
	}, nil
}

// splitDataFields separates the word part from the morphological fields.
// A tab always starts the fields; otherwise the first space followed by a
// tagged field does.
func splitDataFields(line string) (string, []string) {
	if word, rest, ok := strings.Cut(line, "\t"); ok {
		return strings.TrimSpace(word), strings.Fields(rest)
	}
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil
	}
	for i := 1; i < len(parts); i++ {
		if isMorphField(parts[i]) {
			return strings.Join(parts[:i], " "), parts[i:]
		}
	}
	return strings.Join(parts, " "), nil
}

// splitStemFlags cuts word at the first unescaped slash.
func splitStemFlags(word string) (string, string) {
	var sb strings.Builder
	for i := 0; i < len(word); i++ {
		switch {
		case word[i] == '\\' && i+1 < len(word) && word[i+1] == '/':
			sb.WriteByte('/')
			i++
		case word[i] == '/':
			return sb.String(), word[i+1:]
		default:
			sb.WriteByte(word[i])
		}
	}
	return sb.String(), ""
}

// HasContinuationFlag reports whether the entry carries flag.
func (e *DictionaryEntry) HasContinuationFlag(flag string) bool {
	return hasFlag(e.ContinuationFlags, flag)
}

// Format renders the entry back to dictionary line syntax.
func (e *DictionaryEntry) Format(format FlagFormat) string {
	var sb strings.Builder
	sb.WriteString(strings.ReplaceAll(e.Stem, "/", "\\/"))
	sb.WriteString(format.Wrap(e.ContinuationFlags))
	if len(e.DataFields) > 0 {
		sb.WriteByte('\t')
		sb.WriteString(strings.Join(e.DataFields, " "))
	}
	return sb.String()
}
