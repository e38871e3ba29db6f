package scheduler

import (
	"math"

	"github.com/arnavshah/content-rota-go/pkg/models"
	"github.com/arnavshah/content-rota-go/pkg/schedule"
)

// Assigner picks who performs a task so that type-specific counts and then
// total weighted workload stay balanced.
type Assigner struct {
	ledger   *Ledger
	schedule *schedule.Schedule
	picker   Picker
}

// NewAssigner wires an assigner over a ledger and the schedule it mirrors.
// A nil picker falls back to a clock-seeded one.
func NewAssigner(ledger *Ledger, s *schedule.Schedule, picker Picker) *Assigner {
	if picker == nil {
		picker = NewTimePicker()
	}
	return &Assigner{ledger: ledger, schedule: s, picker: picker}
}

// Candidates returns the people tied for the fairest choice of type t among
// eligible: lowest count of t, then lowest total weight. Order follows
// eligible.
func (a *Assigner) Candidates(t models.TaskType, eligible []string) []string {
	minType := math.MaxInt
	var byType []string
	for _, p := range eligible {
		n := a.ledger.TypeCount(p, t)
		if n < minType {
			minType = n
			byType = byType[:0]
			byType = append(byType, p)
		} else if n == minType {
			byType = append(byType, p)
		}
	}

	minWeight := math.MaxInt
	var byWeight []string
	for _, p := range byType {
		w := a.ledger.Weight(p)
		if w < minWeight {
			minWeight = w
			byWeight = byWeight[:0]
			byWeight = append(byWeight, p)
		} else if w == minWeight {
			byWeight = append(byWeight, p)
		}
	}
	return byWeight
}

// Select returns the assignee for type t without touching any state
func (a *Assigner) Select(t models.TaskType, eligible []string) (string, bool) {
	candidates := a.Candidates(t, eligible)
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[a.picker.Pick(len(candidates))], true
}

// Assign sets inst's assignee and upserts it into the schedule. An existing
// occupant of the date is removed from the ledger before selection and the
// new assignee added after it. On failure the ledger and schedule are left as
// they were.
func (a *Assigner) Assign(inst models.TaskInstance, eligible []string) (models.TaskInstance, error) {
	prev, hadPrev := a.schedule.Get(inst.Date)
	if hadPrev {
		a.ledger.Remove(prev)
	}

	person, ok := a.Select(inst.Type, eligible)
	if !ok {
		if hadPrev {
			a.ledger.Add(prev)
		}
		return inst, &AssignmentError{Date: inst.Date, Type: inst.Type}
	}

	inst.Assignee = person
	a.ledger.Add(inst)
	a.schedule.Put(inst)
	return inst, nil
}
