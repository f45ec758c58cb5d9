// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"taskcli/internal/service"
)

const (
	// DateFormat is the layout for due dates in listings.
	DateFormat = "2006-01-02"

	// TimeFormat is the layout for timestamps in details and logs.
	TimeFormat = "2006-01-02 15:04:05"
)

var (
	priorityColors = map[service.Priority]*color.Color{
		service.PriorityLow:    color.New(color.FgHiBlack),
		service.PriorityNormal: color.New(color.Reset),
		service.PriorityHigh:   color.New(color.FgYellow),
		service.PriorityUrgent: color.New(color.FgRed, color.Bold),
	}
	statusColors = map[service.Status]*color.Color{
		service.StatusReserved: color.New(color.FgCyan),
		service.StatusOngoing:  color.New(color.FgBlue),
		service.StatusDone:     color.New(color.FgGreen),
		service.StatusPending:  color.New(color.FgMagenta),
	}
	faint = color.New(color.Faint)
)

// SetColor turns coloured output on or off for every formatter.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// FormatTask formats a task line for the list command.
// Format: "{N:>4}  {PRIORITY:<6}  {STATUS:<8}  {DUE}  {SUMMARY}\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s  %s  %s  %s\n",
		num,
		priority(task.Priority, 6),
		status(task.Status, 8),
		task.DueDate.Format(DateFormat),
		normalizeTitle(task.Summary))
}

// FormatTaskID formats a task line labelled by ID instead of position.
// Format: "{ID}  {PRIORITY:<6}  {STATUS:<8}  {DUE}  {SUMMARY}\n"
func FormatTaskID(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
		task.ID,
		priority(task.Priority, 6),
		status(task.Status, 8),
		task.DueDate.Format(DateFormat),
		normalizeTitle(task.Summary))
}

// FormatTaskDetails formats a single task for the show command.
func FormatTaskDetails(w io.Writer, task service.TaskDetails) {
	fmt.Fprintf(w, "ID:          %s\n", task.ID)
	fmt.Fprintf(w, "Summary:     %s\n", normalizeTitle(task.Summary))
	fmt.Fprintf(w, "Priority:    %s\n", priority(task.Priority, 0))
	fmt.Fprintf(w, "Status:      %s\n", status(task.Status, 0))
	fmt.Fprintf(w, "Created:     %s\n", task.CreateDate.Format(TimeFormat))
	fmt.Fprintf(w, "Due:         %s\n", task.DueDate.Format(TimeFormat))

	switch {
	case task.RootTask != nil:
		fmt.Fprintf(w, "Root:        %s (%s)\n", normalizeTitle(task.RootTask.Summary), task.RootTask.ID)
	case task.RootID != nil:
		fmt.Fprintf(w, "Root:        %s\n", *task.RootID)
	default:
		fmt.Fprintln(w, "Root:        -")
	}

	if task.Description != nil && strings.TrimSpace(*task.Description) != "" {
		fmt.Fprintln(w, "Description:")
		for _, line := range strings.Split(strings.TrimRight(*task.Description, "\n"), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}

	if len(task.Subtasks) > 0 {
		fmt.Fprintln(w, "Subtasks:")
		for _, sub := range task.Subtasks {
			fmt.Fprintf(w, "    %s  %s  %s  %s\n",
				sub.ID, priority(sub.Priority, 6), status(sub.Status, 8), normalizeTitle(sub.Summary))
		}
	}
}

// FormatSearchResult formats a search hit.
// Format: "{N:>4}  {ID}  {SUMMARY}\n"
func FormatSearchResult(w io.Writer, num int, r service.SearchResult) {
	summary := ""
	if r.Summary != nil {
		summary = *r.Summary
	}
	fmt.Fprintf(w, "%4d  %s  %s\n", num, r.ID, normalizeTitle(summary))
}

// FormatLogEntry formats a log line. Timestamps are Unix seconds.
// Format: "{TIME}  {ACTION:<11}  {ENTITY}\n"
func FormatLogEntry(w io.Writer, entry service.LogEntry) {
	entity := "-"
	if entry.EntityID != nil {
		entity = *entry.EntityID
	}
	ts := time.Unix(entry.Timestamp, 0).UTC().Format(TimeFormat)
	fmt.Fprintf(w, "%s  %-11s  %s\n", faint.Sprint(ts), entry.Action, entity)
}

// FormatNextToken prints the hint for fetching the following page.
func FormatNextToken(w io.Writer, token string) {
	fmt.Fprintf(w, "next: --token %s\n", token)
}

// priority pads to width before colouring so escape codes do not break alignment.
func priority(p service.Priority, width int) string {
	label := fmt.Sprintf("%-*s", width, p)
	if c, ok := priorityColors[p]; ok {
		return c.Sprint(label)
	}
	return label
}

func status(s service.Status, width int) string {
	label := fmt.Sprintf("%-*s", width, s)
	if c, ok := statusColors[s]; ok {
		return c.Sprint(label)
	}
	return label
}

// normalizeTitle normalizes a task summary for display.
// - Empty or whitespace-only summaries become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
