// Package buffer implements the Task-Result Buffer: a bounded,
// size-budgeted store of prior task outputs fed back into the LLM on
// subsequent turns. Entries are truncated on push (head+tail) and
// rendered with a sliding-window policy that keeps recent entries in
// full and reduces older ones to one-line summaries. The buffer never
// rejects input; oversized content is always truncated instead.
//
// Grounded on domain/src/context/task_result_buffer.rs.
package buffer

import (
	"fmt"
	"strings"
)

type entry struct {
	taskID        string
	content       string
	originalBytes int
	isTruncated   bool
}

// TaskResultBuffer accumulates task results and renders them within a
// ContextBudget. It is owned exclusively by the Agent Controller's task;
// no external synchronization is provided or required.
type TaskResultBuffer struct {
	budget  ContextBudget
	entries []entry
}

// New constructs an empty buffer governed by budget.
func New(budget ContextBudget) *TaskResultBuffer {
	return &TaskResultBuffer{budget: budget}
}

// Push truncates output to the budget's MaxEntryBytes using head+tail
// truncation if it exceeds that bound, and appends it to the buffer.
// Always succeeds.
func (b *TaskResultBuffer) Push(taskID, output string) {
	originalBytes := len(output)
	content := output
	truncated := false
	if originalBytes > b.budget.MaxEntryBytes {
		content = TruncateHeadTail(output, b.budget.MaxEntryBytes)
		truncated = true
	}
	b.entries = append(b.entries, entry{
		taskID:        taskID,
		content:       content,
		originalBytes: originalBytes,
		isTruncated:   truncated,
	})
}

// IsEmpty reports whether the buffer has no entries.
func (b *TaskResultBuffer) IsEmpty() bool { return len(b.entries) == 0 }

// EntryCount returns the number of entries in the buffer.
func (b *TaskResultBuffer) EntryCount() int { return len(b.entries) }

// StoredBytes returns the total bytes retained after per-entry
// truncation, before any render-time truncation.
func (b *TaskResultBuffer) StoredBytes() int {
	total := 0
	for _, e := range b.entries {
		total += len(e.content)
	}
	return total
}

// Render renders the buffer using its construction budget.
func (b *TaskResultBuffer) Render() string {
	return b.renderWithBudget(&b.budget)
}

// RenderWithBudget renders the buffer using an overridden budget (e.g. for
// a task-specific ContextMode), or the construction default if override
// is nil.
func (b *TaskResultBuffer) RenderWithBudget(override *ContextBudget) string {
	return b.renderWithBudget(override)
}

// RenderWithFeedback renders the buffer (honoring an optional budget
// override) and appends a fixed rejection-feedback footer.
func (b *TaskResultBuffer) RenderWithFeedback(feedback string, override *ContextBudget) string {
	base := b.renderWithBudget(override)
	if base == "" {
		return fmt.Sprintf(
			"\n---\n[Previous action was rejected]\nFeedback: %s\nPlease try a different approach.",
			feedback)
	}
	return fmt.Sprintf(
		"%s\n\n---\n[Previous action was rejected]\nFeedback: %s\nPlease try a different approach.",
		base, feedback)
}

func (b *TaskResultBuffer) renderWithBudget(override *ContextBudget) string {
	if len(b.entries) == 0 {
		return ""
	}
	budget := b.budget
	if override != nil {
		budget = *override
	}

	n := len(b.entries)
	fullStart := n - budget.RecentFullCount
	if fullStart < 0 {
		fullStart = 0
	}

	var recentParts []string
	recentBytes := 0
	for _, e := range b.entries[fullStart:] {
		part := formatEntry(e)
		recentBytes += len(part)
		recentParts = append(recentParts, part)
	}

	summaryBudget := budget.MaxTotalBytes - recentBytes
	if summaryBudget < 0 {
		summaryBudget = 0
	}

	var summaryParts []string
	summaryBytes := 0
	for i := fullStart - 1; i >= 0; i-- {
		summary := formatSummary(b.entries[i])
		if summaryBytes+len(summary) > summaryBudget {
			break
		}
		summaryBytes += len(summary)
		summaryParts = append(summaryParts, summary)
	}
	// summaryParts was built newest-to-oldest; reverse to chronological.
	for i, j := 0, len(summaryParts)-1; i < j; i, j = i+1, j-1 {
		summaryParts[i], summaryParts[j] = summaryParts[j], summaryParts[i]
	}

	var sb strings.Builder
	for _, p := range summaryParts {
		sb.WriteString(p)
	}
	for _, p := range recentParts {
		sb.WriteString(p)
	}
	result := sb.String()

	if len(result) > budget.MaxTotalBytes {
		result = TruncateHeadTail(result, budget.MaxTotalBytes)
	}
	return result
}

func formatEntry(e entry) string {
	note := ""
	if e.isTruncated {
		note = fmt.Sprintf(" [truncated from %d bytes]", e.originalBytes)
	}
	return fmt.Sprintf("\n---\nTask %s%s:\n%s\n", e.taskID, note, e.content)
}

func formatSummary(e entry) string {
	return fmt.Sprintf("\n---\nTask %s: [result truncated, was %d bytes]\n", e.taskID, e.originalBytes)
}
