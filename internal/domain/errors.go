package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicate marks uniqueness conflicts (SKU, name+brand, title+author).
	// Wrap it with a human-readable message; callers test with errors.Is.
	ErrDuplicate = errors.New("duplicate")
)

type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ViolationList []Violation

func (l *ViolationList) Add(field, message string) {
	*l = append(*l, Violation{Field: field, Message: message})
}

func (l ViolationList) Empty() bool { return len(l) == 0 }

// ValidationError carries the full merged violation list; it maps to a
// client error, never a server fault.
type ValidationError struct {
	Violations ViolationList
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// BusinessRuleError rejects a create on aggregate grounds. Reasons are for
// the log side channel only; clients get the generic message.
type BusinessRuleError struct {
	Reasons []string
}

func (e *BusinessRuleError) Error() string { return "business rule check failed" }

// DuplicateError carries the human-readable conflict message and matches
// errors.Is(err, ErrDuplicate).
type DuplicateError struct{ Msg string }

func (e *DuplicateError) Error() string { return e.Msg }
func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

func Duplicatef(format string, args ...any) error {
	return &DuplicateError{Msg: fmt.Sprintf(format, args...)}
}
