// Package metrics records scheduling activity. Nop discards everything;
// Prometheus exports counters and histograms for scraping.
package metrics

import "github.com/arnavshah/content-rota-go/pkg/models"

// Recorder observes generation passes and persistence
type Recorder interface {
	// RecordAssignment counts one task handed to person.
	RecordAssignment(t models.TaskType, person string)
	// RecordGeneration observes one finished pass. result is "ok" or an
	// error class.
	RecordGeneration(mode string, result string, assigned int, seconds float64)
	// RecordSave observes one explicit save of the schedule.
	RecordSave(backend string, result string, seconds float64)
}

// Nop is a Recorder that discards all observations
type Nop struct{}

// Compile-time assertion that Nop implements Recorder.
var _ Recorder = Nop{}

// NewNop creates a no-op recorder
func NewNop() Nop {
	return Nop{}
}

// RecordAssignment discards the observation.
func (Nop) RecordAssignment(models.TaskType, string) {}

// RecordGeneration discards the observation.
func (Nop) RecordGeneration(string, string, int, float64) {}

// RecordSave discards the observation.
func (Nop) RecordSave(string, string, float64) {}
