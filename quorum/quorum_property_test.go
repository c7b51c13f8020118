package quorum

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestMajorityRuleCorrectness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("majority passes iff approvals > total/2", prop.ForAll(
		func(total, approvals int) bool {
			if approvals > total {
				approvals = total
			}
			want := total > 0 && approvals > total/2
			return NewMajority().Passes(approvals, total) == want
		},
		gen.IntRange(0, 50),
		gen.IntRange(0, 50),
	))

	properties.Property("unanimous passes iff approvals == total and total > 0", prop.ForAll(
		func(total, approvals int) bool {
			if approvals > total {
				approvals = total
			}
			want := total > 0 && approvals == total
			return NewUnanimous().Passes(approvals, total) == want
		},
		gen.IntRange(0, 50),
		gen.IntRange(0, 50),
	))

	properties.Property("at-least passes iff approvals >= n and total > 0", prop.ForAll(
		func(total, approvals, n int) bool {
			if approvals > total {
				approvals = total
			}
			want := total > 0 && approvals >= n
			return NewAtLeast(n).Passes(approvals, total) == want
		},
		gen.IntRange(0, 50),
		gen.IntRange(0, 50),
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}

func TestParseVoteScoreAlwaysInRange(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("ParseVoteScore always returns a value in [1, 10]", prop.ForAll(
		func(s string) bool {
			v := ParseVoteScore(s)
			return v >= 1.0 && v <= 10.0
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
