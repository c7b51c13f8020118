package controller

import (
	"fmt"

	"github.com/quorumforge/orchestrator/model"
)

// topoSort orders tasks so every task appears after all tasks it depends
// on. It returns an error if the dependency graph contains a cycle or
// references an unknown task id.
func topoSort(tasks []model.Task) ([]model.Task, error) {
	byID := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			if _, ok := byID[dep]; !ok {
				return nil, fmt.Errorf("controller: task %q depends on unknown task %q", t.ID, dep)
			}
		}
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[string]int, len(tasks))
	var order []model.Task

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visited:
			return nil
		case visiting:
			return fmt.Errorf("controller: dependency cycle detected at task %q", id)
		}
		state[id] = visiting
		t := byID[id]
		for _, dep := range t.DependsOn {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[id] = visited
		order = append(order, t)
		return nil
	}

	for _, t := range tasks {
		if err := visit(t.ID); err != nil {
			return nil, err
		}
	}
	return order, nil
}
