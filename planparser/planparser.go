// Package planparser extracts a model.Plan from raw planner model output.
// Extraction tries, in order, native tool-use arguments, a fenced ```json
// code block, and finally the largest top-level JSON object in the raw
// text — the same fallback order the teacher's planner/json_unmarshal.go
// applies when a provider does not support structured tool-use for
// planning calls.
package planparser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/quorumforge/orchestrator/model"
)

// ErrEmptyPlan is returned when a syntactically valid plan has zero tasks.
var ErrEmptyPlan = errors.New("planparser: plan has no tasks")

// ErrNoPlanFound is returned when neither the fenced block nor the
// largest-object scan in FromModelText locates a JSON object in raw.
var ErrNoPlanFound = errors.New("planparser: no JSON plan found in model output")

// rawTask mirrors model.Task but with a loosely-typed Id so ids that
// arrive as JSON numbers, strings, or are simply absent can all be
// normalized uniformly.
type rawTask struct {
	ID          json.RawMessage `json:"id"`
	Description string          `json:"description"`
	Tool        json.RawMessage `json:"tool"`
	Arguments   json.RawMessage `json:"arguments"`
	DependsOn   []string        `json:"depends_on"`
}

type rawPlan struct {
	Objective string    `json:"objective"`
	Reasoning string    `json:"reasoning"`
	Tasks     []rawTask `json:"tasks"`
}

// FromToolArguments parses a Plan from a native tool-use call's already-
// isolated JSON arguments (no extraction needed: the provider has already
// separated structured output from prose).
func FromToolArguments(args json.RawMessage) (model.Plan, error) {
	return parseRaw(args)
}

// FromModelText extracts a Plan from raw model output using the fenced-
// code-block-then-largest-JSON-object fallback chain.
func FromModelText(raw string) (model.Plan, error) {
	if block, ok := extractFencedJSON(raw); ok {
		if plan, err := parseRaw(json.RawMessage(block)); err == nil {
			return plan, nil
		}
	}
	if obj, ok := extractLargestJSONObject(raw); ok {
		return parseRaw(json.RawMessage(obj))
	}
	return model.Plan{}, ErrNoPlanFound
}

func parseRaw(data json.RawMessage) (model.Plan, error) {
	var rp rawPlan
	if err := json.Unmarshal(data, &rp); err != nil {
		return model.Plan{}, fmt.Errorf("planparser: invalid plan JSON: %w", err)
	}
	if len(rp.Tasks) == 0 {
		return model.Plan{}, ErrEmptyPlan
	}

	tasks := make([]model.Task, len(rp.Tasks))
	for i, rt := range rp.Tasks {
		tasks[i] = model.Task{
			ID:          normalizeID(rt.ID, i),
			Description: rt.Description,
			Tool:        normalizeTool(rt.Tool),
			Arguments:   rt.Arguments,
			DependsOn:   rt.DependsOn,
		}
	}
	return model.Plan{Objective: rp.Objective, Reasoning: rp.Reasoning, Tasks: tasks}, nil
}

// normalizeID converts a task's raw id field to its canonical decimal
// string form. Missing, null, empty, or non-coercible ids fall back to the
// task's 1-based position in the plan.
func normalizeID(raw json.RawMessage, position int) string {
	fallback := strconv.Itoa(position + 1)
	if len(raw) == 0 {
		return fallback
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		asString = strings.TrimSpace(asString)
		if asString == "" || asString == "null" {
			return fallback
		}
		return asString
	}

	var asNumber json.Number
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&asNumber); err == nil {
		return asNumber.String()
	}

	return fallback
}

// normalizeTool converts a task's raw tool field to its canonical string
// form. A literal "null" string, JSON null, or empty string all mean "no
// tool" and normalize to "".
func normalizeTool(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	if s == "null" || s == "" {
		return ""
	}
	return s
}

func extractFencedJSON(raw string) (string, bool) {
	const fenceJSON = "```json"
	const fence = "```"

	start := strings.Index(raw, fenceJSON)
	fenceLen := len(fenceJSON)
	if start < 0 {
		start = strings.Index(raw, fence)
		fenceLen = len(fence)
		if start < 0 {
			return "", false
		}
	}
	body := raw[start+fenceLen:]
	end := strings.Index(body, fence)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(body[:end]), true
}

// extractLargestJSONObject scans raw for every top-level-balanced `{...}`
// substring and returns the longest one, on the theory that planner prose
// wrapping a JSON object is shorter than the object itself.
func extractLargestJSONObject(raw string) (string, bool) {
	best := ""
	depth := 0
	start := -1
	for i, r := range raw {
		switch r {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					candidate := raw[start : i+1]
					if len(candidate) > len(best) {
						best = candidate
					}
					start = -1
				}
			}
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
