package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleHappyPath(t *testing.T) {
	l := New()
	e := l.Record("1", "search", "native-1", `{"q":"go"}`)
	require.Equal(t, Pending, e.State)

	require.True(t, l.Dispatch("native-1"))
	assert.Equal(t, Running, e.State)

	require.True(t, l.Complete("native-1", "3 results"))
	assert.Equal(t, Completed, e.State)
	assert.Equal(t, "3 results", e.Output)
}

func TestLifecycleErrorPath(t *testing.T) {
	l := New()
	l.Record("1", "search", "native-1", `{}`)
	require.True(t, l.Dispatch("native-1"))
	require.True(t, l.Fail("native-1", "timeout"))

	e := l.Executions()[0]
	assert.Equal(t, Error, e.State)
	assert.Equal(t, "timeout", e.ErrMsg)
	assert.Equal(t, 1, l.FailureCount())
}

func TestIllegalTransitionsAreNoOps(t *testing.T) {
	l := New()
	e := l.Record("1", "search", "native-1", `{}`)

	// Completing before dispatch is illegal.
	assert.False(t, l.Complete("native-1", "out"))
	assert.Equal(t, Pending, e.State)

	require.True(t, l.Dispatch("native-1"))
	require.True(t, l.Complete("native-1", "out"))

	// Terminal states reject every further event.
	assert.False(t, l.Dispatch("native-1"))
	assert.False(t, l.Fail("native-1", "late failure"))
	assert.Equal(t, Completed, e.State)
	assert.Equal(t, "out", e.Output)
}

func TestUnknownNativeIDIsDropped(t *testing.T) {
	l := New()
	assert.False(t, l.Dispatch("missing"))
	assert.False(t, l.Complete("missing", "x"))
	assert.False(t, l.Fail("missing", "x"))
}

func TestAllTerminalAndPending(t *testing.T) {
	l := New()
	assert.True(t, l.AllTerminal())

	l.Record("1", "a", "n1", "{}")
	l.Record("2", "b", "n2", "{}")
	assert.False(t, l.AllTerminal())
	assert.Len(t, l.Pending(), 2)

	l.Dispatch("n1")
	l.Complete("n1", "ok")
	assert.False(t, l.AllTerminal())
	assert.Len(t, l.Pending(), 1)

	l.Dispatch("n2")
	l.Fail("n2", "bad")
	assert.True(t, l.AllTerminal())
	assert.Empty(t, l.Pending())
}

func TestRenderPreviewTruncatesByRuneCount(t *testing.T) {
	l := New()
	e := l.Record("1", "search", "n1", "{}")
	l.Dispatch("n1")
	l.Complete("n1", strings.Repeat("結", 20))

	preview := l.RenderPreview(10)
	assert.Contains(t, preview, "...")
	assert.True(t, strings.Contains(preview, e.ToolName))
}

func TestRenderPreviewUsesErrorMessageOnFailure(t *testing.T) {
	l := New()
	l.Record("1", "search", "n1", "{}")
	l.Dispatch("n1")
	l.Fail("n1", "boom")

	preview := l.RenderPreview(DefaultPreviewRunes)
	assert.Contains(t, preview, "boom")
	assert.Contains(t, preview, "[error]")
}
