// Package filter narrows a fetched task list on the client.
package filter

import (
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// Criteria selects tasks. Empty fields match every task.
type Criteria struct {
	Search   string
	Status   string
	Priority string
	Category string
}

type Predicate func(t *models.Task) bool

// Build composes all non-empty criteria into one predicate. Search is a
// case-insensitive substring match over title and description; the other
// fields compare case-insensitively for equality.
func Build(c Criteria) Predicate {
	var preds []Predicate

	if q := strings.ToLower(strings.TrimSpace(c.Search)); q != "" {
		preds = append(preds, func(t *models.Task) bool {
			return strings.Contains(strings.ToLower(t.Title), q) ||
				strings.Contains(strings.ToLower(t.Description), q)
		})
	}
	if v := strings.TrimSpace(c.Status); v != "" {
		preds = append(preds, func(t *models.Task) bool { return strings.EqualFold(t.Status, v) })
	}
	if v := strings.TrimSpace(c.Priority); v != "" {
		preds = append(preds, func(t *models.Task) bool { return strings.EqualFold(t.Priority, v) })
	}
	if v := strings.TrimSpace(c.Category); v != "" {
		preds = append(preds, func(t *models.Task) bool { return strings.EqualFold(t.Category, v) })
	}

	return func(t *models.Task) bool {
		for _, p := range preds {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

// Apply returns the tasks matching c in their original order. The input slice
// is not modified.
func Apply(tasks []models.Task, c Criteria) []models.Task {
	match := Build(c)

	out := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		if match(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out
}

// Empty reports whether c matches everything.
func (c Criteria) Empty() bool {
	return strings.TrimSpace(c.Search) == "" &&
		strings.TrimSpace(c.Status) == "" &&
		strings.TrimSpace(c.Priority) == "" &&
		strings.TrimSpace(c.Category) == ""
}
