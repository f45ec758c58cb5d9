package commands

import (
	"fmt"
	"strings"
	"time"

	"taskcli/internal/service"
)

// now is the clock used for default due dates.
var now = time.Now

// ParsePriority matches a priority name case-insensitively.
func ParsePriority(s string) (service.Priority, error) {
	s = strings.TrimSpace(s)
	for _, p := range service.Priorities {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority: %s (want one of %s)", s, joinNames(service.Priorities))
}

// ParseStatus matches a status name case-insensitively.
func ParseStatus(s string) (service.Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range service.Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status: %s (want one of %s)", s, joinNames(service.Statuses))
}

// ParseDueDate accepts RFC 3339 or YYYY-MM-DD (midnight UTC).
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid due date: %s (want YYYY-MM-DD or RFC 3339)", s)
}

// defaultDueDate is midnight UTC at the start of tomorrow.
func defaultDueDate() time.Time {
	y, m, d := now().UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}

func joinNames[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

// optString is a string flag that records whether it was set.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// taskFields holds the raw editable-field flags shared by add and edit.
type taskFields struct {
	summary     optString
	priority    optString
	status      optString
	due         optString
	description optString
}

// changed reports whether any field flag was given.
func (f *taskFields) changed() bool {
	return f.summary.set || f.priority.set || f.status.set || f.due.set || f.description.set
}

// apply overlays the given flags onto in.
func (f *taskFields) apply(in *service.TaskInput) error {
	if f.summary.set {
		in.Summary = f.summary.value
	}
	if f.priority.set {
		p, err := ParsePriority(f.priority.value)
		if err != nil {
			return err
		}
		in.Priority = p
	}
	if f.status.set {
		s, err := ParseStatus(f.status.value)
		if err != nil {
			return err
		}
		in.Status = s
	}
	if f.due.set {
		d, err := ParseDueDate(f.due.value)
		if err != nil {
			return err
		}
		in.DueDate = d
	}
	if f.description.set {
		// An empty description removes it.
		in.Description = nil
		if f.description.value != "" {
			desc := f.description.value
			in.Description = &desc
		}
	}
	return nil
}
