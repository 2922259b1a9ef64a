package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/filter"
	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// List fetches the tasks, narrows them by the key=value arguments and prints
// the result. Underscores in values stand for spaces, so "status=in_progress"
// selects "In Progress".
func (a *App) List(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	criteria, err := parseCriteria(args)
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}

	tasks, err := a.api.ListTasks(ctx)
	if err != nil {
		return a.report(ctx, "List", err)
	}

	a.shown = filter.Apply(tasks, criteria)
	if len(a.shown) == 0 {
		if criteria.Empty() {
			fmt.Fprintln(a.out, "No tasks yet. Use 'add' to create one.")
		} else {
			fmt.Fprintln(a.out, "No tasks match.")
		}
		return nil
	}

	return renderTaskTable(a.out, a.shown)
}

// Add prompts for the fields of a new task. Blank answers leave a field out
// so the server applies its defaults.
func (a *App) Add(ctx context.Context) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	var in models.TaskInput
	prompts := []struct {
		text  string
		field **string
		norm  func(string) string
	}{
		{"Title", &in.Title, nil},
		{"Description (optional)", &in.Description, nil},
		{"Category (optional)", &in.Category, nil},
		{"Priority: High, Medium, Low (default Medium)", &in.Priority, normalizePriority},
		{"Due date YYYY-MM-DD (optional)", &in.DueDate, nil},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.text, a.out)
		if err != nil {
			return err
		}
		if p.norm != nil {
			v = p.norm(v)
		}
		*p.field = optional(v)
	}

	task, err := a.api.CreateTask(ctx, in)
	if err != nil {
		return a.report(ctx, "Add", err)
	}

	fmt.Fprintf(a.out, "Created task %q (%s).\n", task.Title, task.ID)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	id, err := a.resolveID(args)
	if err != nil {
		return err
	}

	task, err := a.api.GetTask(ctx, id)
	if err != nil {
		return a.report(ctx, "Show", err)
	}

	renderTask(a.out, task)
	return nil
}

// Update shows each editable field with its current value; a blank answer
// keeps it. Only changed fields are sent.
func (a *App) Update(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	id, err := a.resolveID(args)
	if err != nil {
		return err
	}

	cur, err := a.api.GetTask(ctx, id)
	if err != nil {
		return a.report(ctx, "Update", err)
	}

	var in models.TaskInput
	prompts := []struct {
		label   string
		current string
		field   **string
		norm    func(string) string
	}{
		{"Title", cur.Title, &in.Title, nil},
		{"Description", cur.Description, &in.Description, nil},
		{"Category", cur.Category, &in.Category, nil},
		{"Priority", cur.Priority, &in.Priority, normalizePriority},
		{"Status", cur.Status, &in.Status, normalizeStatus},
		{"Due date", cur.DueDate, &in.DueDate, nil},
	}
	changed := false
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", p.label, p.current), a.out)
		if err != nil {
			return err
		}
		if p.norm != nil {
			v = p.norm(v)
		}
		if v == "" || v == p.current {
			continue
		}
		*p.field = optional(v)
		changed = true
	}

	if !changed {
		fmt.Fprintln(a.out, "Nothing to update.")
		return nil
	}

	return a.applyUpdate(ctx, "Update", cur.ID, in)
}

// Done marks a task as completed.
func (a *App) Done(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	id, err := a.resolveID(args)
	if err != nil {
		return err
	}

	status := models.StatusCompleted
	return a.applyUpdate(ctx, "Done", id, models.TaskInput{Status: &status})
}

// Delete removes a task after an explicit "y" confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	id, err := a.resolveID(args)
	if err != nil {
		return err
	}

	label := id
	if i := a.shownIndex(id); i >= 0 {
		label = fmt.Sprintf("%q", a.shown[i].Title)
	}

	ok, err := GetConfirmation(a.reader, fmt.Sprintf("Delete task %s?", label), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.api.DeleteTask(ctx, id); err != nil {
		return a.report(ctx, "Delete", err)
	}

	if i := a.shownIndex(id); i >= 0 {
		a.shown = append(a.shown[:i:i], a.shown[i+1:]...)
	}
	fmt.Fprintln(a.out, "Task removed.")
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	s, err := a.api.Stats(ctx)
	if err != nil {
		return a.report(ctx, "Stats", err)
	}

	renderStats(a.out, s)
	return nil
}

func (a *App) applyUpdate(ctx context.Context, action, id string, in models.TaskInput) error {
	task, err := a.api.UpdateTask(ctx, id, in)
	if err != nil {
		return a.report(ctx, action, err)
	}

	if i := a.shownIndex(task.ID); i >= 0 {
		a.shown[i] = *task
	}
	fmt.Fprintf(a.out, "Task %q is now %s.\n", task.Title, task.Status)
	return nil
}

// resolveID turns the first argument, or an answer to a prompt, into a task
// id. A number within the last printed list selects that row.
func (a *App) resolveID(args []string) (string, error) {
	ref := ""
	if len(args) > 0 {
		ref = args[0]
	} else {
		v, err := getSimpleText(a.reader, "Enter task id or list number", a.out)
		if err != nil {
			return "", err
		}
		ref = v
	}

	if ref == "" {
		err := fmt.Errorf("%w: task id is required", common.ErrorValidation)
		fmt.Fprintln(a.out, "A task id or list number is required.")
		return "", err
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(a.shown) {
		return a.shown[n-1].ID, nil
	}
	return ref, nil
}

func (a *App) shownIndex(id string) int {
	for i := range a.shown {
		if a.shown[i].ID == id {
			return i
		}
	}
	return -1
}

func parseCriteria(args []string) (filter.Criteria, error) {
	var c filter.Criteria
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return c, fmt.Errorf("%w: expected key=value, got %q", common.ErrorValidation, arg)
		}
		value = strings.ReplaceAll(value, "_", " ")

		switch strings.ToLower(key) {
		case "status":
			c.Status = normalizeStatus(value)
		case "priority":
			c.Priority = normalizePriority(value)
		case "category":
			c.Category = value
		case "q", "search":
			c.Search = value
		default:
			return c, fmt.Errorf("%w: unknown filter %q (use status, priority, category or q)", common.ErrorValidation, key)
		}
	}
	return c, nil
}

// normalizeStatus maps common spellings onto the wire values. Unknown input
// is returned as is for the server to reject.
func normalizeStatus(v string) string {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(v, "_", " "))) {
	case "pending":
		return models.StatusPending
	case "in progress", "inprogress", "in-progress":
		return models.StatusInProgress
	case "completed", "complete", "done":
		return models.StatusCompleted
	default:
		return strings.TrimSpace(v)
	}
}

func normalizePriority(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "high":
		return models.PriorityHigh
	case "medium":
		return models.PriorityMedium
	case "low":
		return models.PriorityLow
	default:
		return strings.TrimSpace(v)
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
