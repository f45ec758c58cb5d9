package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"taskcli/internal/service"
)

func init() {
	SetColor(false)
}

func sampleTask() service.Task {
	return service.Task{
		TaskSummary: service.TaskSummary{ID: "t1", Summary: "Fix bug", Priority: service.PriorityHigh, Status: service.StatusOngoing},
		CreateDate:  service.NewUnixTime(time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)),
		DueDate:     service.NewUnixTime(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
	}
}

func TestFormatTask(t *testing.T) {
	var buf bytes.Buffer
	FormatTask(&buf, 3, sampleTask())

	want := "   3  High    Ongoing   2024-02-01  Fix bug\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatTaskID(t *testing.T) {
	var buf bytes.Buffer
	FormatTaskID(&buf, sampleTask())

	want := "t1  High    Ongoing   2024-02-01  Fix bug\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatTaskDetails(t *testing.T) {
	desc := "first line\nsecond line\n"
	task := service.TaskDetails{
		Task:        sampleTask(),
		Description: &desc,
		RootTask:    &service.TaskSummary{ID: "r1", Summary: "Release"},
		Subtasks: []service.TaskSummary{
			{ID: "s1", Summary: "Write test", Priority: service.PriorityLow, Status: service.StatusDone},
		},
	}

	var buf bytes.Buffer
	FormatTaskDetails(&buf, task)

	want := strings.Join([]string{
		"ID:          t1",
		"Summary:     Fix bug",
		"Priority:    High",
		"Status:      Ongoing",
		"Created:     2024-01-01 09:30:00",
		"Due:         2024-02-01 00:00:00",
		"Root:        Release (r1)",
		"Description:",
		"    first line",
		"    second line",
		"Subtasks:",
		"    s1  Low     Done      Write test",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestFormatTaskDetails_NoRoot(t *testing.T) {
	var buf bytes.Buffer
	FormatTaskDetails(&buf, service.TaskDetails{Task: sampleTask()})

	if !strings.Contains(buf.String(), "Root:        -\n") {
		t.Errorf("expected empty root marker, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "Description:") {
		t.Errorf("expected no description section, got %q", buf.String())
	}
}

func TestFormatLogEntry(t *testing.T) {
	id := "t1"
	var buf bytes.Buffer
	FormatLogEntry(&buf, service.LogEntry{ID: "l1", Action: service.ActionRootChanged, Timestamp: 1704067200, EntityID: &id})

	want := "2024-01-01 00:00:00  RootChanged  t1\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatSearchResult_NullSummary(t *testing.T) {
	var buf bytes.Buffer
	FormatSearchResult(&buf, 1, service.SearchResult{ID: "t1"})

	want := "   1  t1  (untitled)\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Buy milk", "Buy milk"},
		{"line1\nline2", "line1 line2"},
		{"a\r\nb", "a  b"},
		{"   ", "(untitled)"},
		{"", "(untitled)"},
	}
	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
