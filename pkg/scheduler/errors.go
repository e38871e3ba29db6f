package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/arnavshah/content-rota-go/pkg/models"
)

var (
	// ErrConfig is returned for unparseable templates and invalid
	// generation settings. Nothing has been assigned when it is returned.
	ErrConfig = errors.New("invalid configuration")

	// ErrRange is returned for an inverted date range or an empty roster.
	ErrRange = errors.New("invalid generation range")

	// ErrState is returned when an assignment has no eligible person.
	ErrState = errors.New("no eligible assignee")
)

// ParseError describes a rejected template token
type ParseError struct {
	Pattern string
	Token   string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("template %q: token %q: %s", e.Pattern, e.Token, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrConfig
}

// AssignmentError describes an instance that could not be assigned
type AssignmentError struct {
	Date time.Time
	Type models.TaskType
}

func (e *AssignmentError) Error() string {
	return fmt.Sprintf("%s %s on %s: %v", e.Type, e.Date.Weekday(), models.FormatDate(e.Date), ErrState)
}

func (e *AssignmentError) Unwrap() error {
	return ErrState
}
