package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

const dateTimeLayout = "2006-01-02 15:04"

func renderTaskTable(w io.Writer, tasks []models.Task) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tSTATUS\tPRIORITY\tCATEGORY\tDUE")
	for i, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, t.Title, t.Status, t.Priority, dash(t.Category), dash(t.DueDate))
	}
	return tw.Flush()
}

func renderTask(w io.Writer, t *models.Task) {
	fmt.Fprintf(w, "%s\n", t.Title)
	fmt.Fprintf(w, "  ID:          %s\n", t.ID)
	fmt.Fprintf(w, "  Status:      %s\n", t.Status)
	fmt.Fprintf(w, "  Priority:    %s\n", t.Priority)
	fmt.Fprintf(w, "  Category:    %s\n", dash(t.Category))
	fmt.Fprintf(w, "  Due:         %s\n", dash(t.DueDate))
	fmt.Fprintf(w, "  Created:     %s\n", t.CreatedAt.Local().Format(dateTimeLayout))
	fmt.Fprintf(w, "  Updated:     %s\n", t.UpdatedAt.Local().Format(dateTimeLayout))
	if t.Description != "" {
		fmt.Fprintf(w, "\n%s\n", t.Description)
	}
}

func renderStats(w io.Writer, s *models.Stats) {
	fmt.Fprintf(w, "Total:         %d\n", s.Total)
	fmt.Fprintf(w, "Pending:       %d\n", s.Pending)
	fmt.Fprintf(w, "In progress:   %d\n", s.InProgress)
	fmt.Fprintf(w, "Completed:     %d\n", s.Completed)
	fmt.Fprintf(w, "High priority: %d\n", s.HighPriority)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
