// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"strconv"
	"strings"
	"time"
)

// Priority is the urgency of a task as named by the API.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// Priorities lists every priority in ascending order.
var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

// Status is the progress state of a task as named by the API.
type Status string

const (
	StatusReserved Status = "Reserved"
	StatusOngoing  Status = "Ongoing"
	StatusDone     Status = "Done"
	StatusPending  Status = "Pending"
)

// Statuses lists every status.
var Statuses = []Status{StatusReserved, StatusOngoing, StatusDone, StatusPending}

// Action is the kind of change recorded by a log entry.
type Action string

const (
	ActionCreate      Action = "Create"
	ActionDelete      Action = "Delete"
	ActionUpdate      Action = "Update"
	ActionRootChanged Action = "RootChanged"
)

// UnixTime is a timestamp carried on the wire as whole Unix seconds.
type UnixTime struct {
	time.Time
}

// NewUnixTime truncates t to the second and returns it in UTC.
func NewUnixTime(t time.Time) UnixTime {
	return UnixTime{Time: t.Truncate(time.Second).UTC()}
}

// MarshalJSON encodes the time as Unix seconds.
func (u UnixTime) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, u.Unix(), 10), nil
}

// UnmarshalJSON decodes Unix seconds. null leaves the value unchanged.
func (u *UnixTime) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	u.Time = time.Unix(secs, 0).UTC()
	return nil
}

// TaskSummary is the minimal projection of a task.
type TaskSummary struct {
	ID       string   `json:"id"`
	Summary  string   `json:"summary"`
	Priority Priority `json:"priority"`
	Status   Status   `json:"status"`
}

// Task is a task as returned by the list endpoint.
type Task struct {
	TaskSummary
	RootID     *string  `json:"root_id"`
	CreateDate UnixTime `json:"create_date"`
	DueDate    UnixTime `json:"due_date"`
}

// TaskDetails is a task with its description and hierarchy.
type TaskDetails struct {
	Task
	Description *string       `json:"description"`
	RootTask    *TaskSummary  `json:"root_task"`
	Subtasks    []TaskSummary `json:"subtasks"`
}

// SearchResult is a task matched by a phrase search.
type SearchResult struct {
	ID          string  `json:"id"`
	Summary     *string `json:"summary"`
	Description *string `json:"description"`
}

// LogEntry is a single recorded change.
type LogEntry struct {
	ID         string  `json:"id"`
	Action     Action  `json:"action"`
	Timestamp  int64   `json:"timestamp"`
	EntityID   *string `json:"entity_id"`
	EntityType *string `json:"entity_type"`
	Payload    *string `json:"payload"`
}

// Page is one batch of a paginated listing.
// ContinuationToken is opaque and is passed back unchanged to fetch the next batch.
type Page[T any] struct {
	Entities          []T    `json:"entities"`
	ContinuationToken string `json:"continuation_token"`
}

// TaskInput is the body of create and update requests.
// Field order is the order the API documents. A nil Description is sent as null.
type TaskInput struct {
	Summary     string    `json:"summary"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"due_date"`
}

// TaskQuery selects a page of root tasks.
type TaskQuery struct {
	Take              int
	ContinuationToken string
	OrderBy           string
	Descending        bool
}

// LogQuery selects a page of log entries.
type LogQuery struct {
	Take              int
	ContinuationToken string
	Descending        bool
}
