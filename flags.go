package hunlint

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FlagFormat is the flag encoding selected by the FLAG directive.
type FlagFormat int

const (
	// FlagASCII is the default: every character of a flag string is one
	// flag. Files in an 8-bit SET charset are decoded first, so a flag may
	// be any single character of that charset.
	FlagASCII FlagFormat = iota
	// FlagLong uses two characters per flag ("FLAG long").
	FlagLong
	// FlagNumeric uses comma-separated decimal numbers ("FLAG num").
	FlagNumeric
	// FlagUTF8 uses one code point per flag ("FLAG UTF-8").
	FlagUTF8
)

// maxNumericFlag is the largest flag value accepted by Hunspell in num mode.
const maxNumericFlag = 65000

// ParseFlagFormat maps the argument of a FLAG directive to a FlagFormat.
func ParseFlagFormat(s string) (FlagFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ascii":
		return FlagASCII, nil
	case "long":
		return FlagLong, nil
	case "num":
		return FlagNumeric, nil
	case "utf-8", "utf8":
		return FlagUTF8, nil
	}
	return FlagASCII, fmt.Errorf("unknown flag format %q", s)
}

// String returns the FLAG directive argument for f.
func (f FlagFormat) String() string {
	switch f {
	case FlagLong:
		return "long"
	case FlagNumeric:
		return "num"
	case FlagUTF8:
		return "UTF-8"
	default:
		return "ASCII"
	}
}

// Parse splits a raw flag string into distinct flags, keeping the first
// occurrence order.
func (f FlagFormat) Parse(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var flags []string
	switch f {
	case FlagASCII, FlagUTF8:
		if !utf8.ValidString(raw) {
			return nil, fmt.Errorf("flags %q are not valid UTF-8", raw)
		}
		for _, r := range raw {
			flags = append(flags, string(r))
		}
	case FlagLong:
		runes := []rune(raw)
		if len(runes)%2 != 0 {
			return nil, fmt.Errorf("long flags %q must have an even number of characters", raw)
		}
		for i := 0; i < len(runes); i += 2 {
			flags = append(flags, string(runes[i:i+2]))
		}
	case FlagNumeric:
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("numeric flag %q: %w", part, err)
			}
			if n <= 0 || n > maxNumericFlag {
				return nil, fmt.Errorf("numeric flag %d out of range 1-%d", n, maxNumericFlag)
			}
			flags = append(flags, strconv.Itoa(n))
		}
	default:
		return nil, fmt.Errorf("unknown flag format %d", f)
	}
	return uniqueFlags(flags), nil
}

// Render joins flags back into the raw form Parse accepts.
func (f FlagFormat) Render(flags []string) string {
	if f == FlagNumeric {
		return strings.Join(flags, ",")
	}
	return strings.Join(flags, "")
}

// Wrap renders flags in the slash form used after a stem or an affix
// addition ("/AB"), or "" when there are none.
func (f FlagFormat) Wrap(flags []string) string {
	if len(flags) == 0 {
		return ""
	}
	return "/" + f.Render(flags)
}

// Valid reports whether flag is a single well-formed flag of format f.
func (f FlagFormat) Valid(flag string) bool {
	parsed, err := f.Parse(flag)
	return err == nil && len(parsed) == 1 && parsed[0] == flag
}

// uniqueFlags deduplicates flags preserving order.
func uniqueFlags(flags []string) []string {
	seen := make(map[string]bool, len(flags))
	out := flags[:0]
	for _, fl := range flags {
		if !seen[fl] {
			seen[fl] = true
			out = append(out, fl)
		}
	}
	return out
}

// hasFlag reports whether flag is in flags.
func hasFlag(flags []string, flag string) bool {
	if flag == "" {
		return false
	}
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}

// unionFlags returns a ∪ b keeping a's order first.
func unionFlags(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return uniqueFlags(out)
}
