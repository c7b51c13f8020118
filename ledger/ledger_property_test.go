package ledger

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// rank gives each state a monotone ordinal so arbitrary event sequences can
// be checked for non-decreasing progress.
func rank(s State) int {
	switch s {
	case Pending:
		return 0
	case Running:
		return 1
	case Completed, Error:
		return 2
	default:
		return -1
	}
}

func TestLedgerStateMonotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("applying any sequence of events never decreases an execution's rank", prop.ForAll(
		func(events []int) bool {
			l := New()
			l.Record("1", "tool", "n1", "{}")
			prevRank := 0
			for _, raw := range events {
				switch raw % 3 {
				case 0:
					l.Dispatch("n1")
				case 1:
					l.Complete("n1", "out")
				case 2:
					l.Fail("n1", "err")
				}
				r := rank(l.Executions()[0].State)
				if r < prevRank {
					return false
				}
				prevRank = r
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.Property("once terminal, state never changes again", prop.ForAll(
		func(events []int) bool {
			l := New()
			l.Record("1", "tool", "n1", "{}")
			becameTerminalAt := -1
			for i, raw := range events {
				switch raw % 3 {
				case 0:
					l.Dispatch("n1")
				case 1:
					l.Complete("n1", "out")
				case 2:
					l.Fail("n1", "err")
				}
				terminal := l.Executions()[0].State.Terminal()
				if becameTerminalAt == -1 && terminal {
					becameTerminalAt = i
				}
				if becameTerminalAt != -1 && !terminal {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.TestingRun(t)
}
