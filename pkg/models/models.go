package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used for schedule keys
const DateLayout = "2006-01-02"

// TaskType is one of the closed set of content-task kinds
type TaskType string

const (
	TaskStoria        TaskType = "STORIA"
	TaskPost          TaskType = "POST"
	TaskLocandina     TaskType = "LOCANDINA"
	TaskTestimonianza TaskType = "TESTIMONIANZA"
	TaskReel          TaskType = "REEL"
	TaskRiassunto     TaskType = "RIASSUNTO"
)

// taskOrder fixes the enumeration order used for listings and ledgers
var taskOrder = []TaskType{
	TaskStoria,
	TaskPost,
	TaskLocandina,
	TaskTestimonianza,
	TaskReel,
	TaskRiassunto,
}

var taskWeights = map[TaskType]int{
	TaskStoria:        1,
	TaskPost:          2,
	TaskLocandina:     2,
	TaskTestimonianza: 2,
	TaskReel:          3,
	TaskRiassunto:     3,
}

// TaskTypes returns every task type in enumeration order
func TaskTypes() []TaskType {
	return append([]TaskType(nil), taskOrder...)
}

// Weight returns the fixed difficulty weight of the type, 0 for unknown types
func (t TaskType) Weight() int {
	return taskWeights[t]
}

// Valid reports whether t belongs to the closed enumeration
func (t TaskType) Valid() bool {
	_, ok := taskWeights[t]
	return ok
}

func (t TaskType) String() string {
	return string(t)
}

// ParseTaskType resolves a type name case-insensitively
func ParseTaskType(name string) (TaskType, error) {
	t := TaskType(strings.ToUpper(strings.TrimSpace(name)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown task type %q", name)
	}
	return t, nil
}

// UnmarshalJSON rejects names outside the enumeration
func (t *TaskType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTaskType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TaskTypeInfo describes a task type for clients and renderers
type TaskTypeInfo struct {
	Name   TaskType `json:"name"`
	Weight int      `json:"weight"`
}

// TaskTypeTable lists the enumeration with its weights
func TaskTypeTable() []TaskTypeInfo {
	out := make([]TaskTypeInfo, 0, len(taskOrder))
	for _, t := range taskOrder {
		out = append(out, TaskTypeInfo{Name: t, Weight: t.Weight()})
	}
	return out
}

// Day truncates t to its calendar date at UTC midnight
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO-8601 calendar date
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate renders a date as an ISO-8601 string
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TaskInstance represents one day's duty. Assignee is empty until assigned.
type TaskInstance struct {
	Type     TaskType
	Date     time.Time
	Assignee string
}

// NewTaskInstance creates an unassigned instance for the given date
func NewTaskInstance(t TaskType, date time.Time) TaskInstance {
	return TaskInstance{Type: t, Date: Day(date)}
}

// Weekday is always derived from the date
func (ti TaskInstance) Weekday() time.Weekday {
	return ti.Date.Weekday()
}

// Weight returns the difficulty weight of the instance's type
func (ti TaskInstance) Weight() int {
	return ti.Type.Weight()
}

// Assigned reports whether someone has been picked for the instance
func (ti TaskInstance) Assigned() bool {
	return ti.Assignee != ""
}

func (ti TaskInstance) String() string {
	return fmt.Sprintf("(%s %s): %s - %s", ti.Weekday(), FormatDate(ti.Date), ti.Type, ti.Assignee)
}

// taskRecord is the persisted shape of an instance
type taskRecord struct {
	Type  TaskType `json:"type"`
	Date  string   `json:"date"`
	Maker string   `json:"maker"`
}

// MarshalJSON writes {type, date, maker}
func (ti TaskInstance) MarshalJSON() ([]byte, error) {
	return json.Marshal(taskRecord{
		Type:  ti.Type,
		Date:  FormatDate(ti.Date),
		Maker: ti.Assignee,
	})
}

// UnmarshalJSON reads {type, date, maker}
func (ti *TaskInstance) UnmarshalJSON(data []byte) error {
	var rec taskRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if !rec.Type.Valid() {
		return fmt.Errorf("missing task type for %q", rec.Date)
	}
	date, err := ParseDate(rec.Date)
	if err != nil {
		return err
	}
	*ti = TaskInstance{Type: rec.Type, Date: date, Assignee: rec.Maker}
	return nil
}
