package quorum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMajorityRule(t *testing.T) {
	r := NewMajority()
	assert.False(t, r.Passes(1, 3))
	assert.False(t, r.Passes(2, 4))
	assert.True(t, r.Passes(3, 4))
	assert.True(t, r.Passes(2, 3))
	assert.False(t, r.Passes(0, 0))
}

func TestUnanimousRule(t *testing.T) {
	r := NewUnanimous()
	assert.True(t, r.Passes(3, 3))
	assert.False(t, r.Passes(2, 3))
	assert.False(t, r.Passes(0, 0))
}

func TestAtLeastRule(t *testing.T) {
	r := NewAtLeast(2)
	assert.False(t, r.Passes(1, 5))
	assert.True(t, r.Passes(2, 5))
	assert.True(t, r.Passes(5, 5))
}

func TestPercentageRule(t *testing.T) {
	r := NewPercentage(75)
	assert.Equal(t, 3, r.MinApprovalsNeeded(4))
	assert.False(t, r.Passes(2, 4))
	assert.True(t, r.Passes(3, 4))
}

func TestRuleStringRoundTrip(t *testing.T) {
	cases := []Rule{NewMajority(), NewUnanimous(), NewAtLeast(3), NewPercentage(60)}
	for _, c := range cases {
		parsed, err := ParseRule(c.String())
		require.NoError(t, err)
		assert.Equal(t, c.Kind(), parsed.Kind())
	}
}

func TestParseRuleVariants(t *testing.T) {
	tests := map[string]RuleKind{
		"majority":        Majority,
		"UNANIMOUS":       Unanimous,
		"atleast:3":       AtLeastKind,
		"at_least:3":      AtLeastKind,
		"percentage:60":   PercentageKind,
		"60%":             PercentageKind,
	}
	for input, want := range tests {
		r, err := ParseRule(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, r.Kind(), input)
	}
}

func TestParseRuleRejectsGarbage(t *testing.T) {
	_, err := ParseRule("not a rule")
	assert.Error(t, err)
}
