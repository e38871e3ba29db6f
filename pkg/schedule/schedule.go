package schedule

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/arnavshah/content-rota-go/pkg/models"
)

// Schedule maps calendar dates to at most one task instance.
// A date without an entry is unplanned. Schedule is not safe for concurrent
// writers; callers serialize access.
type Schedule struct {
	entries map[string]models.TaskInstance
}

// New creates an empty schedule
func New() *Schedule {
	return &Schedule{entries: make(map[string]models.TaskInstance)}
}

func key(date time.Time) string {
	return models.FormatDate(models.Day(date))
}

// Get returns the instance planned for date
func (s *Schedule) Get(date time.Time) (models.TaskInstance, bool) {
	inst, ok := s.entries[key(date)]
	return inst, ok
}

// Has reports whether date holds an entry
func (s *Schedule) Has(date time.Time) bool {
	_, ok := s.entries[key(date)]
	return ok
}

// Put upserts inst at its date and returns the entry it replaced, if any
func (s *Schedule) Put(inst models.TaskInstance) (models.TaskInstance, bool) {
	inst.Date = models.Day(inst.Date)
	k := key(inst.Date)
	prev, ok := s.entries[k]
	s.entries[k] = inst
	return prev, ok
}

// Delete removes the entry at date and returns it
func (s *Schedule) Delete(date time.Time) (models.TaskInstance, bool) {
	k := key(date)
	prev, ok := s.entries[k]
	if ok {
		delete(s.entries, k)
	}
	return prev, ok
}

// Len returns the number of planned dates
func (s *Schedule) Len() int {
	return len(s.entries)
}

// Entries returns every instance in ascending date order
func (s *Schedule) Entries() []models.TaskInstance {
	out := make([]models.TaskInstance, 0, len(s.entries))
	for _, inst := range s.entries {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Between returns the instances dated within [from, to], ascending
func (s *Schedule) Between(from, to time.Time) []models.TaskInstance {
	from, to = models.Day(from), models.Day(to)
	var out []models.TaskInstance
	for _, inst := range s.Entries() {
		if inst.Date.Before(from) || inst.Date.After(to) {
			continue
		}
		out = append(out, inst)
	}
	return out
}

// Month returns the instances of one calendar month, ascending
func (s *Schedule) Month(year int, month time.Month) []models.TaskInstance {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return s.Between(first, first.AddDate(0, 1, -1))
}

// Clone returns an independent copy
func (s *Schedule) Clone() *Schedule {
	c := &Schedule{entries: make(map[string]models.TaskInstance, len(s.entries))}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	return c
}

// MarshalJSON writes the date-keyed object form
func (s *Schedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.entries)
}

// UnmarshalJSON reads the date-keyed object form. Each value's date must
// match its key.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	var raw map[string]models.TaskInstance
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	entries := make(map[string]models.TaskInstance, len(raw))
	for k, inst := range raw {
		date, err := models.ParseDate(k)
		if err != nil {
			return err
		}
		if !inst.Date.Equal(date) {
			return fmt.Errorf("entry %s carries date %s", k, models.FormatDate(inst.Date))
		}
		entries[key(date)] = inst
	}
	s.entries = entries
	return nil
}
