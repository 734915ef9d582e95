package hunlint

import (
	"fmt"
	"strings"
)

// UnknownFlagError reports a flag with no rule and no property meaning.
type UnknownFlagError struct {
	Flag string
	Word string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown flag %q on %q", e.Flag, e.Word)
}

// NoApplicableRuleError reports a flag whose entries all reject the word.
type NoApplicableRuleError struct {
	Flag string
	Word string
}

func (e *NoApplicableRuleError) Error() string {
	return fmt.Sprintf("no entry of rule %q applies to %q", e.Flag, e.Word)
}

// FullstripViolationError reports an entry stripping a whole word without
// FULLSTRIP.
type FullstripViolationError struct {
	Flag string
	Word string
}

func (e *FullstripViolationError) Error() string {
	return fmt.Sprintf("rule %q strips all of %q but FULLSTRIP is not set", e.Flag, e.Word)
}

// TwofoldViolationError reports affix chaining beyond what the configured
// prefix/suffix order allows.
type TwofoldViolationError struct {
	Flag string
	Word string
}

func (e *TwofoldViolationError) Error() string {
	return fmt.Sprintf("twofold rule violated: %q still chains rule %q", e.Word, e.Flag)
}

// NonExistentRuleError reports a reduction requested for an undefined flag.
type NonExistentRuleError struct {
	Flag string
}

func (e *NonExistentRuleError) Error() string {
	return fmt.Sprintf("rule %q does not exist", e.Flag)
}

// ReductionMismatchError reports a reduced rule whose productions differ
// from the original's for one dictionary line.
type ReductionMismatchError struct {
	Flag string
	// Line is the dictionary line that exposed the difference.
	Line string
	// Missing lists forms produced by the original rule only.
	Missing []string
	// Unexpected lists forms produced by the reduced rule only.
	Unexpected []string
}

func (e *ReductionMismatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "reduction of rule %q is wrong for %q", e.Flag, e.Line)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&sb, "; missing %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		fmt.Fprintf(&sb, "; unexpected %s", strings.Join(e.Unexpected, ", "))
	}
	return sb.String()
}

// LineError attaches a 1-based line number to a per-line failure.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseError reports a malformed input line.
type ParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}
