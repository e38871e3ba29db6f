package scheduler

import (
	"github.com/arnavshah/content-rota-go/pkg/models"
	"github.com/arnavshah/content-rota-go/pkg/schedule"
)

// Ledger holds per-person, per-type assignment counts. It is derived state:
// Rebuild reconstructs it from a schedule at any time.
type Ledger struct {
	roster []string
	counts map[string]map[models.TaskType]int
}

// NewLedger creates a ledger with every bucket at zero. Duplicate names
// collapse into one entry.
func NewLedger(roster []string) *Ledger {
	l := &Ledger{counts: make(map[string]map[models.TaskType]int, len(roster))}
	for _, p := range roster {
		if _, dup := l.counts[p]; dup {
			continue
		}
		l.roster = append(l.roster, p)
		l.counts[p] = make(map[models.TaskType]int, len(models.TaskTypes()))
	}
	l.reset()
	return l
}

// RebuildLedger builds a ledger for roster from the contents of s
func RebuildLedger(roster []string, s *schedule.Schedule) *Ledger {
	l := NewLedger(roster)
	l.Rebuild(s)
	return l
}

func (l *Ledger) reset() {
	for _, p := range l.roster {
		for _, t := range models.TaskTypes() {
			l.counts[p][t] = 0
		}
	}
}

// Rebuild zeroes every bucket and recounts s. Entries whose assignee left the
// roster are ignored.
func (l *Ledger) Rebuild(s *schedule.Schedule) {
	l.reset()
	for _, inst := range s.Entries() {
		l.Add(inst)
	}
}

// Roster returns the people tracked by the ledger, in insertion order
func (l *Ledger) Roster() []string {
	return append([]string(nil), l.roster...)
}

// Has reports whether person is on the roster
func (l *Ledger) Has(person string) bool {
	_, ok := l.counts[person]
	return ok
}

// Add increments the bucket of inst's assignee and type
func (l *Ledger) Add(inst models.TaskInstance) {
	if bucket, ok := l.counts[inst.Assignee]; ok {
		bucket[inst.Type]++
	}
}

// Remove decrements the bucket of inst's assignee and type, never below zero
func (l *Ledger) Remove(inst models.TaskInstance) {
	if bucket, ok := l.counts[inst.Assignee]; ok && bucket[inst.Type] > 0 {
		bucket[inst.Type]--
	}
}

// Apply records inst replacing prev at the same date. prev is nil when the
// date was empty.
func (l *Ledger) Apply(inst models.TaskInstance, prev *models.TaskInstance) {
	if prev != nil {
		l.Remove(*prev)
	}
	l.Add(inst)
}

// TypeCount returns how many tasks of type t person holds
func (l *Ledger) TypeCount(person string, t models.TaskType) int {
	return l.counts[person][t]
}

// Count returns the total number of tasks person holds
func (l *Ledger) Count(person string) int {
	total := 0
	for _, n := range l.counts[person] {
		total += n
	}
	return total
}

// Weight returns the weighted workload of person
func (l *Ledger) Weight(person string) int {
	total := 0
	for t, n := range l.counts[person] {
		total += n * t.Weight()
	}
	return total
}

// Snapshot returns one row per person in roster order
func (l *Ledger) Snapshot() []models.WorkloadEntry {
	out := make([]models.WorkloadEntry, 0, len(l.roster))
	for _, p := range l.roster {
		counts := make(map[models.TaskType]int, len(l.counts[p]))
		for t, n := range l.counts[p] {
			counts[t] = n
		}
		out = append(out, models.WorkloadEntry{
			Person: p,
			Counts: counts,
			Total:  l.Count(p),
			Weight: l.Weight(p),
		})
	}
	return out
}
