// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskcli/internal/service"
)

// DefaultTake is the page size used when a query does not set one.
const DefaultTake = 20

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = service.ErrNotFound

// ErrInvalid is returned when a request is rejected as invalid input.
var ErrInvalid = service.ErrInvalidInput

type fakeTask struct {
	id          string
	rootID      *string
	summary     string
	priority    service.Priority
	status      service.Status
	description *string
	created     time.Time
	due         time.Time
}

func (t *fakeTask) summaryDTO() service.TaskSummary {
	return service.TaskSummary{ID: t.id, Summary: t.summary, Priority: t.priority, Status: t.status}
}

func (t *fakeTask) taskDTO() service.Task {
	var root *string
	if t.rootID != nil {
		r := *t.rootID
		root = &r
	}
	return service.Task{
		TaskSummary: t.summaryDTO(),
		RootID:      root,
		CreateDate:  service.NewUnixTime(t.created),
		DueDate:     service.NewUnixTime(t.due),
	}
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	tasks []*fakeTask
	logs  []service.LogEntry

	// Now is the clock used for create dates and log timestamps.
	Now func() time.Time

	// Error injection for testing
	ListTasksErr      error
	ListLogsErr       error
	ListTaskLogsErr   error
	GetTaskDetailsErr error
	SearchTasksErr    error
	SetTaskRootErr    error
	CreateTaskErr     error
	UpdateTaskErr     error
	DeleteTaskErr     error
}

var _ service.Service = (*FakeService)(nil)

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{Now: time.Now}
}

// AddTask adds a task and returns its generated ID.
func (f *FakeService) AddTask(in service.TaskInput) string {
	id, err := f.Create(context.Background(), in)
	if err != nil {
		panic(err)
	}
	return id
}

// Create is CreateTask that also returns the new task's ID.
func (f *FakeService) Create(ctx context.Context, in service.TaskInput) (string, error) {
	if f.CreateTaskErr != nil {
		return "", f.CreateTaskErr
	}
	if err := validateInput(in); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTask{
		id:          uuid.NewString(),
		summary:     in.Summary,
		priority:    in.Priority,
		status:      in.Status,
		description: copyString(in.Description),
		created:     f.Now(),
		due:         in.DueDate,
	}
	f.tasks = append(f.tasks, t)
	f.logLocked(service.ActionCreate, t.id)
	return t.id, nil
}

// Logs returns a copy of every recorded log entry in order.
func (f *FakeService) Logs() []service.LogEntry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.LogEntry, len(f.logs))
	copy(result, f.logs)
	return result
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, q service.TaskQuery) (service.Page[service.Task], error) {
	if f.ListTasksErr != nil {
		return service.Page[service.Task]{}, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	var roots []service.Task
	for _, t := range f.tasks {
		if t.rootID == nil {
			roots = append(roots, t.taskDTO())
		}
	}
	if less := taskOrder(q.OrderBy); less != nil {
		sort.SliceStable(roots, func(i, j int) bool { return less(roots[i], roots[j]) })
	}
	if q.Descending {
		reverse(roots)
	}

	return paginate(roots, q.ContinuationToken, q.Take)
}

// ListLogs implements service.Service.
func (f *FakeService) ListLogs(ctx context.Context, q service.LogQuery) (service.Page[service.LogEntry], error) {
	if f.ListLogsErr != nil {
		return service.Page[service.LogEntry]{}, f.ListLogsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	logs := make([]service.LogEntry, len(f.logs))
	copy(logs, f.logs)
	if q.Descending {
		reverse(logs)
	}
	return paginate(logs, q.ContinuationToken, q.Take)
}

// ListTaskLogs implements service.Service.
func (f *FakeService) ListTaskLogs(ctx context.Context, taskID string, q service.LogQuery) (service.Page[service.LogEntry], error) {
	if f.ListTaskLogsErr != nil {
		return service.Page[service.LogEntry]{}, f.ListTaskLogsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	var logs []service.LogEntry
	for _, l := range f.logs {
		if l.EntityID != nil && *l.EntityID == taskID {
			logs = append(logs, l)
		}
	}
	if q.Descending {
		reverse(logs)
	}
	return paginate(logs, q.ContinuationToken, q.Take)
}

// GetTaskDetails implements service.Service.
func (f *FakeService) GetTaskDetails(ctx context.Context, taskID string) (service.TaskDetails, error) {
	if f.GetTaskDetailsErr != nil {
		return service.TaskDetails{}, f.GetTaskDetailsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	t := f.findLocked(taskID)
	if t == nil {
		return service.TaskDetails{}, ErrNotFound
	}

	details := service.TaskDetails{
		Task:        t.taskDTO(),
		Description: copyString(t.description),
		Subtasks:    []service.TaskSummary{},
	}
	if t.rootID != nil {
		if root := f.findLocked(*t.rootID); root != nil {
			s := root.summaryDTO()
			details.RootTask = &s
		}
	}
	for _, sub := range f.tasks {
		if sub.rootID != nil && *sub.rootID == t.id {
			details.Subtasks = append(details.Subtasks, sub.summaryDTO())
		}
	}
	return details, nil
}

// SearchTasks implements service.Service.
func (f *FakeService) SearchTasks(ctx context.Context, phrase string) (service.Page[service.SearchResult], error) {
	if f.SearchTasksErr != nil {
		return service.Page[service.SearchResult]{}, f.SearchTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	needle := strings.ToLower(phrase)
	var matches []service.SearchResult
	for _, t := range f.tasks {
		if strings.Contains(strings.ToLower(t.summary), needle) ||
			(t.description != nil && strings.Contains(strings.ToLower(*t.description), needle)) {
			summary := t.summary
			matches = append(matches, service.SearchResult{ID: t.id, Summary: &summary, Description: copyString(t.description)})
		}
	}
	return paginate(matches, "0", 10)
}

// SetTaskRoot implements service.Service.
func (f *FakeService) SetTaskRoot(ctx context.Context, taskID string, rootID *string) error {
	if f.SetTaskRootErr != nil {
		return f.SetTaskRootErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	t := f.findLocked(taskID)
	if t == nil {
		return ErrNotFound
	}
	if rootID != nil {
		if *rootID == taskID {
			return ErrInvalid
		}
		if f.findLocked(*rootID) == nil {
			return ErrNotFound
		}
		r := *rootID
		t.rootID = &r
	} else {
		t.rootID = nil
	}
	f.logLocked(service.ActionRootChanged, t.id)
	return nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) error {
	_, err := f.Create(ctx, in)
	return err
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, taskID string, in service.TaskInput) error {
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	if err := validateInput(in); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	t := f.findLocked(taskID)
	if t == nil {
		return ErrNotFound
	}
	t.summary = in.Summary
	t.priority = in.Priority
	t.status = in.Status
	t.description = copyString(in.Description)
	t.due = in.DueDate
	f.logLocked(service.ActionUpdate, t.id)
	return nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, taskID string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.id == taskID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			for _, sub := range f.tasks {
				if sub.rootID != nil && *sub.rootID == taskID {
					sub.rootID = nil
				}
			}
			f.logLocked(service.ActionDelete, taskID)
			return nil
		}
	}
	return ErrNotFound
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func (f *FakeService) findLocked(id string) *fakeTask {
	for _, t := range f.tasks {
		if t.id == id {
			return t
		}
	}
	return nil
}

func (f *FakeService) logLocked(action service.Action, taskID string) {
	id := taskID
	entityType := "TaskEntity"
	f.logs = append(f.logs, service.LogEntry{
		ID:         uuid.NewString(),
		Action:     action,
		Timestamp:  f.Now().Unix(),
		EntityID:   &id,
		EntityType: &entityType,
	})
}

func validateInput(in service.TaskInput) error {
	if strings.TrimSpace(in.Summary) == "" {
		return ErrInvalid
	}
	if !validPriority(in.Priority) || !validStatus(in.Status) {
		return ErrInvalid
	}
	return nil
}

func validPriority(p service.Priority) bool {
	for _, known := range service.Priorities {
		if p == known {
			return true
		}
	}
	return false
}

func validStatus(s service.Status) bool {
	for _, known := range service.Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// taskOrder returns the comparison for an order_by field, or nil for insertion order.
func taskOrder(field string) func(a, b service.Task) bool {
	switch field {
	case "due_date":
		return func(a, b service.Task) bool { return a.DueDate.Before(b.DueDate.Time) }
	case "create_date":
		return func(a, b service.Task) bool { return a.CreateDate.Before(b.CreateDate.Time) }
	case "summary":
		return func(a, b service.Task) bool { return a.Summary < b.Summary }
	case "priority":
		return func(a, b service.Task) bool { return rank(a.Priority) < rank(b.Priority) }
	case "status":
		return func(a, b service.Task) bool { return a.Status < b.Status }
	default:
		return nil
	}
}

func rank(p service.Priority) int {
	for i, known := range service.Priorities {
		if p == known {
			return i
		}
	}
	return -1
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// paginate treats the continuation token as a skip count, like the real API.
func paginate[T any](items []T, token string, take int) (service.Page[T], error) {
	skip := 0
	if token != "" {
		n, err := strconv.Atoi(token)
		if err != nil || n < 0 {
			return service.Page[T]{}, ErrInvalid
		}
		skip = n
	}
	if take <= 0 {
		take = DefaultTake
	}

	page := service.Page[T]{Entities: []T{}, ContinuationToken: strconv.Itoa(skip + take)}
	if skip >= len(items) {
		return page, nil
	}
	end := skip + take
	if end > len(items) {
		end = len(items)
	}
	page.Entities = append(page.Entities, items[skip:end]...)
	return page, nil
}
