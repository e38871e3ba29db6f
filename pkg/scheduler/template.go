package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/arnavshah/content-rota-go/pkg/models"
)

// WeeklyTemplate maps every weekday to an optional task type, indexed by
// time.Weekday. The zero value plans nothing.
type WeeklyTemplate [7]models.TaskType

// weekOrder lists weekdays Monday first, the order templates are rendered in
var weekOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// ParseWeekday resolves an English weekday name case-insensitively
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, d := range weekOrder {
		if strings.ToLower(d.String()) == n {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// ParseTemplate parses comma-separated "<TYPE> <Weekday>" tokens, e.g.
// "POST Monday, STORIA Wednesday". Unmentioned weekdays plan nothing.
func ParseTemplate(pattern string) (WeeklyTemplate, error) {
	var tmpl WeeklyTemplate
	for _, raw := range strings.Split(pattern, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		fields := strings.Fields(token)
		if len(fields) != 2 {
			return WeeklyTemplate{}, &ParseError{Pattern: pattern, Token: token, Reason: "expected \"<TYPE> <Weekday>\""}
		}
		t, err := models.ParseTaskType(fields[0])
		if err != nil {
			return WeeklyTemplate{}, &ParseError{Pattern: pattern, Token: token, Reason: err.Error()}
		}
		day, err := ParseWeekday(fields[1])
		if err != nil {
			return WeeklyTemplate{}, &ParseError{Pattern: pattern, Token: token, Reason: err.Error()}
		}
		tmpl[day] = t
	}
	return tmpl, nil
}

// TaskFor returns the task planned for day, if any
func (w WeeklyTemplate) TaskFor(day time.Weekday) (models.TaskType, bool) {
	t := w[day]
	return t, t != ""
}

// Tasks returns how many weekdays carry a task
func (w WeeklyTemplate) Tasks() int {
	n := 0
	for _, t := range w {
		if t != "" {
			n++
		}
	}
	return n
}

// String renders the canonical pattern, Monday first
func (w WeeklyTemplate) String() string {
	var parts []string
	for _, d := range weekOrder {
		if t, ok := w.TaskFor(d); ok {
			parts = append(parts, fmt.Sprintf("%s %s", t, d))
		}
	}
	return strings.Join(parts, ", ")
}
