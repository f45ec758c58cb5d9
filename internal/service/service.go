// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All tasks API calls go through this interface.
// Commands never import the HTTP backend directly.
type Service interface {
	// ListTasks returns a page of root tasks.
	ListTasks(ctx context.Context, q TaskQuery) (Page[Task], error)

	// ListLogs returns a page of task log entries.
	ListLogs(ctx context.Context, q LogQuery) (Page[LogEntry], error)

	// ListTaskLogs returns a page of log entries for one task.
	ListTaskLogs(ctx context.Context, taskID string, q LogQuery) (Page[LogEntry], error)

	// GetTaskDetails returns a single task with its root and subtasks.
	GetTaskDetails(ctx context.Context, taskID string) (TaskDetails, error)

	// SearchTasks returns the first page of tasks matching phrase.
	SearchTasks(ctx context.Context, phrase string) (Page[SearchResult], error)

	// SetTaskRoot assigns the task to a root task. A nil rootID clears it.
	SetTaskRoot(ctx context.Context, taskID string, rootID *string) error

	// CreateTask creates a new task.
	CreateTask(ctx context.Context, in TaskInput) error

	// UpdateTask replaces the editable fields of a task.
	UpdateTask(ctx context.Context, taskID string, in TaskInput) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, taskID string) error
}
