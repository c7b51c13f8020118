package hil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumforge/orchestrator/model"
)

func TestAutoRejectAlwaysRejects(t *testing.T) {
	g := AutoReject{}
	d, err := g.RequestIntervention(context.Background(), "req", model.Plan{}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.HumanReject, d.Kind)

	d, err = g.RequestExecutionConfirmation(context.Background(), "req", model.Plan{})
	require.NoError(t, err)
	assert.Equal(t, model.HumanReject, d.Kind)
}

func TestAutoApproveAlwaysApproves(t *testing.T) {
	g := AutoApprove{}
	d, err := g.RequestIntervention(context.Background(), "req", model.Plan{}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.HumanApprove, d.Kind)

	d, err = g.RequestExecutionConfirmation(context.Background(), "req", model.Plan{})
	require.NoError(t, err)
	assert.Equal(t, model.HumanApprove, d.Kind)
}

func TestForModeSelectsCorrectGateway(t *testing.T) {
	assert.IsType(t, AutoReject{}, ForMode(model.HilAutoReject))
	assert.IsType(t, AutoApprove{}, ForMode(model.HilAutoApprove))
	assert.Nil(t, ForMode(model.HilInteractive))
}
