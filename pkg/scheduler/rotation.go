package scheduler

import (
	"fmt"
	"time"
)

// Rotation cycles through an ordered list of weekly templates, moving to the
// next one whenever a date falls on the week-boundary weekday.
type Rotation struct {
	templates []WeeklyTemplate
	index     int
	boundary  time.Weekday
	started   bool
}

// NewRotation parses every pattern up front so a bad template fails before
// any assignment happens.
func NewRotation(patterns []string, start int, boundary time.Weekday) (*Rotation, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: no weekly templates configured", ErrConfig)
	}
	if start < 0 || start >= len(patterns) {
		return nil, fmt.Errorf("%w: template index %d out of range [0,%d)", ErrConfig, start, len(patterns))
	}
	if boundary < time.Sunday || boundary > time.Saturday {
		return nil, fmt.Errorf("%w: invalid week boundary %d", ErrConfig, boundary)
	}

	templates := make([]WeeklyTemplate, 0, len(patterns))
	for i, p := range patterns {
		tmpl, err := ParseTemplate(p)
		if err != nil {
			return nil, fmt.Errorf("weekly template %d: %w", i, err)
		}
		templates = append(templates, tmpl)
	}

	return &Rotation{templates: templates, index: start, boundary: boundary}, nil
}

// Step moves the rotation onto date and returns the template active for it.
// The first date a rotation sees never transitions: the start index names
// the template of the week that contains it.
func (r *Rotation) Step(date time.Time) WeeklyTemplate {
	if r.started && date.Weekday() == r.boundary {
		r.index = (r.index + 1) % len(r.templates)
	}
	r.started = true
	return r.templates[r.index]
}

// Current returns the active template
func (r *Rotation) Current() WeeklyTemplate {
	return r.templates[r.index]
}

// Index returns the active template index
func (r *Rotation) Index() int {
	return r.index
}

// Len returns the number of templates in the cycle
func (r *Rotation) Len() int {
	return len(r.templates)
}

// Boundary returns the weekday on which the rotation advances
func (r *Rotation) Boundary() time.Weekday {
	return r.boundary
}
