package planparser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromToolArgumentsBasic(t *testing.T) {
	args := json.RawMessage(`{"objective":"ship it","tasks":[{"id":"a","description":"do thing","tool":"search"}]}`)
	plan, err := FromToolArguments(args)
	require.NoError(t, err)
	assert.Equal(t, "ship it", plan.Objective)
	require.Len(t, plan.Tasks, 1)
	assert.Equal(t, "a", plan.Tasks[0].ID)
	assert.Equal(t, "search", plan.Tasks[0].Tool)
}

func TestFromModelTextFencedBlock(t *testing.T) {
	raw := "Here is my plan:\n```json\n{\"objective\":\"x\",\"tasks\":[{\"description\":\"step one\"}]}\n```\nLet me know what you think."
	plan, err := FromModelText(raw)
	require.NoError(t, err)
	assert.Equal(t, "x", plan.Objective)
	assert.Equal(t, "1", plan.Tasks[0].ID)
}

func TestFromModelTextRawJSONFallback(t *testing.T) {
	raw := `Sure thing, my plan is {"objective":"y","tasks":[{"id":2,"description":"step"}]} hope that helps.`
	plan, err := FromModelText(raw)
	require.NoError(t, err)
	assert.Equal(t, "y", plan.Objective)
	assert.Equal(t, "2", plan.Tasks[0].ID)
}

func TestFromModelTextNoJSONFound(t *testing.T) {
	_, err := FromModelText("just prose, no plan here")
	assert.ErrorIs(t, err, ErrNoPlanFound)
}

func TestEmptyTasksRejected(t *testing.T) {
	_, err := FromToolArguments(json.RawMessage(`{"objective":"x","tasks":[]}`))
	assert.ErrorIs(t, err, ErrEmptyPlan)
}

func TestIDNormalizationFallsBackToPosition(t *testing.T) {
	args := json.RawMessage(`{"objective":"x","tasks":[{"description":"a"},{"id":null,"description":"b"},{"id":"","description":"c"}]}`)
	plan, err := FromToolArguments(args)
	require.NoError(t, err)
	assert.Equal(t, "1", plan.Tasks[0].ID)
	assert.Equal(t, "2", plan.Tasks[1].ID)
	assert.Equal(t, "3", plan.Tasks[2].ID)
}

func TestIDNormalizationNumeric(t *testing.T) {
	args := json.RawMessage(`{"objective":"x","tasks":[{"id":42,"description":"a"}]}`)
	plan, err := FromToolArguments(args)
	require.NoError(t, err)
	assert.Equal(t, "42", plan.Tasks[0].ID)
}

func TestToolNormalizationNullString(t *testing.T) {
	args := json.RawMessage(`{"objective":"x","tasks":[{"description":"a","tool":"null"},{"description":"b","tool":null}]}`)
	plan, err := FromToolArguments(args)
	require.NoError(t, err)
	assert.Equal(t, "", plan.Tasks[0].Tool)
	assert.Equal(t, "", plan.Tasks[1].Tool)
}

func TestExtractLargestJSONObjectPicksBiggest(t *testing.T) {
	raw := `note: {"a":1} but really {"objective":"z","tasks":[{"description":"step"}]}`
	plan, err := FromModelText(raw)
	require.NoError(t, err)
	assert.Equal(t, "z", plan.Objective)
}
