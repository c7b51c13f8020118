// Package quorum implements the Quorum Voter: a configurable approval rule
// evaluated over a set of per-reviewer votes, plus the text-parsing helpers
// that turn raw model output into Vote and score values. Grounded on
// domain/src/quorum/rule.rs, domain/src/quorum/vote.rs, and
// domain/src/quorum/parsing.rs.
package quorum

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RuleKind discriminates the QuorumRule variants.
type RuleKind int

const (
	// Majority requires strictly more than half of all votes to approve.
	Majority RuleKind = iota
	// Unanimous requires every vote to approve.
	Unanimous
	// AtLeastKind requires at least N approvals.
	AtLeastKind
	// PercentageKind requires at least ceil(total*p/100) approvals.
	PercentageKind
)

// Rule is a QuorumRule: one of Majority, Unanimous, AtLeast(n), or
// Percentage(p). The zero value is Majority.
type Rule struct {
	kind RuleKind
	n    int     // AtLeastKind's N
	pct  float64 // PercentageKind's p, 0-100
}

// NewMajority builds the Majority rule.
func NewMajority() Rule { return Rule{kind: Majority} }

// NewUnanimous builds the Unanimous rule.
func NewUnanimous() Rule { return Rule{kind: Unanimous} }

// NewAtLeast builds an AtLeast(n) rule.
func NewAtLeast(n int) Rule { return Rule{kind: AtLeastKind, n: n} }

// NewPercentage builds a Percentage(p) rule, p in [0,100].
func NewPercentage(p float64) Rule { return Rule{kind: PercentageKind, pct: p} }

// Kind reports the rule's variant.
func (r Rule) Kind() RuleKind { return r.kind }

// Passes reports whether approvals out of total satisfies the rule. A
// total of 0 never passes, regardless of variant.
func (r Rule) Passes(approvals, total int) bool {
	if total == 0 {
		return false
	}
	switch r.kind {
	case Majority:
		return approvals > total/2
	case Unanimous:
		return approvals == total
	case AtLeastKind:
		return approvals >= r.n
	case PercentageKind:
		return approvals >= r.MinApprovalsNeeded(total)
	default:
		return false
	}
}

// MinApprovalsNeeded returns the number of approvals required to pass given
// total votes, independent of any particular vote tally.
func (r Rule) MinApprovalsNeeded(total int) int {
	if total == 0 {
		return 0
	}
	switch r.kind {
	case Majority:
		return total/2 + 1
	case Unanimous:
		return total
	case AtLeastKind:
		return r.n
	case PercentageKind:
		return int(math.Ceil(float64(total) * r.pct / 100))
	default:
		return total
	}
}

// String renders the rule in the original's textual format: "majority",
// "unanimous", "atleast:N", or "percentage:N".
func (r Rule) String() string {
	switch r.kind {
	case Majority:
		return "majority"
	case Unanimous:
		return "unanimous"
	case AtLeastKind:
		return fmt.Sprintf("atleast:%d", r.n)
	case PercentageKind:
		return fmt.Sprintf("percentage:%d", int(r.pct))
	default:
		return "majority"
	}
}

// ParseRule parses the textual forms accepted by the original: "majority",
// "unanimous", "atleast:N"/"at_least:N", and "percentage:N"/"N%".
func ParseRule(s string) (Rule, error) {
	trimmed := strings.TrimSpace(s)
	lower := strings.ToLower(trimmed)

	switch lower {
	case "majority":
		return NewMajority(), nil
	case "unanimous":
		return NewUnanimous(), nil
	}

	if rest, ok := strings.CutPrefix(lower, "atleast:"); ok {
		return parseAtLeast(rest)
	}
	if rest, ok := strings.CutPrefix(lower, "at_least:"); ok {
		return parseAtLeast(rest)
	}
	if rest, ok := strings.CutPrefix(lower, "percentage:"); ok {
		return parsePercentage(rest)
	}
	if strings.HasSuffix(lower, "%") {
		return parsePercentage(strings.TrimSuffix(lower, "%"))
	}

	return Rule{}, fmt.Errorf("quorum: unrecognized rule %q", s)
}

func parseAtLeast(rest string) (Rule, error) {
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return Rule{}, fmt.Errorf("quorum: invalid atleast count %q: %w", rest, err)
	}
	return NewAtLeast(n), nil
}

func parsePercentage(rest string) (Rule, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		return Rule{}, fmt.Errorf("quorum: invalid percentage %q: %w", rest, err)
	}
	return NewPercentage(p), nil
}
