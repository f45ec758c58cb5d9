package commands

import (
	"context"
	"fmt"
	"strconv"
	"unicode"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"taskcli/internal/service"
)

const (
	// DefaultOrderBy is the sort field used by list and by numeric references.
	DefaultOrderBy = "create_date"

	// MaxPosition is the largest numeric reference that is resolved.
	MaxPosition = 1000
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	ID       string // set when the reference is a task ID
	Position int    // 1-based position in the default listing otherwise
	Raw      string // argument as given
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from the first arg.
//
// Parsing rules:
// 1. A UUID is a task ID.
// 2. All digits is a 1-based position in the listing printed by `list`.
// 3. Anything else is an error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || args[0] == "" {
		return TaskRef{}, ErrTaskRefRequired
	}
	raw := args[0]

	if id, err := uuid.Parse(raw); err == nil {
		return TaskRef{ID: id.String(), Raw: raw}, nil
	}

	if isAllDigits(raw) {
		num, err := strconv.Atoi(raw)
		if err != nil || num < 1 || num > MaxPosition {
			return TaskRef{}, fmt.Errorf("task number out of range: %s", raw)
		}
		return TaskRef{Position: num, Raw: raw}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// errOutOfRange is returned when a numeric reference is past the end of the listing.
var errOutOfRange = errors.New("task number out of range")

// ResolveTaskRef returns the task ID a reference names.
// Numeric references fetch the first page of root tasks in default order.
func ResolveTaskRef(ctx context.Context, svc service.Service, ref TaskRef) (string, error) {
	if ref.ID != "" {
		return ref.ID, nil
	}

	page, err := svc.ListTasks(ctx, service.TaskQuery{
		Take:              ref.Position,
		ContinuationToken: "0",
		OrderBy:           DefaultOrderBy,
	})
	if err != nil {
		return "", err
	}
	if ref.Position > len(page.Entities) {
		return "", errOutOfRange
	}
	return page.Entities[ref.Position-1].ID, nil
}
