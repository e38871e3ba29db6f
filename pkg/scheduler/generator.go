package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/arnavshah/content-rota-go/pkg/logging"
	"github.com/arnavshah/content-rota-go/pkg/metrics"
	"github.com/arnavshah/content-rota-go/pkg/models"
	"github.com/arnavshah/content-rota-go/pkg/schedule"
)

// Options configures a Generator
type Options struct {
	// Roster lists the people sharing the work, in insertion order.
	Roster []string
	// Templates is the ordered list of weekly patterns to rotate through.
	Templates []string
	// StartIndex is the template active for the first generated week. A range
	// that begins on WeekStart uses StartIndex for that day; the rotation only
	// advances on later occurrences of WeekStart.
	StartIndex int
	// WeekStart is the weekday on which the rotation advances. Defaults to
	// Monday when nil.
	WeekStart *time.Weekday
	// MonthlyCap limits each person to ceil(days/rosterSize) assignments per
	// generation pass.
	MonthlyCap bool
	// Picker breaks exact ties. Defaults to a clock-seeded source.
	Picker Picker
	// Logger defaults to a discarding logger.
	Logger *slog.Logger
	// Metrics defaults to a no-op recorder.
	Metrics metrics.Recorder
}

// Report summarizes one generation pass
type Report struct {
	From          time.Time
	To            time.Time
	Assigned      []models.TaskInstance
	SkippedFilled int
	NoTaskDays    int
	TemplateIndex int
}

// Generator fills a schedule over date ranges. It owns the schedule and
// ledger for the duration of a session and is not safe for concurrent use.
type Generator struct {
	schedule   *schedule.Schedule
	roster     []string
	rotation   *Rotation
	ledger     *Ledger
	assigner   *Assigner
	monthlyCap bool
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// NewGenerator validates opts, parses every template and rebuilds the ledger
// from s. No assignment is made when it returns an error.
func NewGenerator(s *schedule.Schedule, opts Options) (*Generator, error) {
	ledger := NewLedger(opts.Roster)
	if len(ledger.Roster()) == 0 {
		return nil, fmt.Errorf("%w: roster is empty", ErrRange)
	}
	for _, p := range ledger.Roster() {
		if p == "" {
			return nil, fmt.Errorf("%w: roster contains an empty name", ErrConfig)
		}
	}

	boundary := time.Monday
	if opts.WeekStart != nil {
		boundary = *opts.WeekStart
	}
	rotation, err := NewRotation(opts.Templates, opts.StartIndex, boundary)
	if err != nil {
		return nil, err
	}

	ledger.Rebuild(s)

	rec := opts.Metrics
	if rec == nil {
		rec = metrics.NewNop()
	}

	return &Generator{
		schedule:   s,
		roster:     ledger.Roster(),
		rotation:   rotation,
		ledger:     ledger,
		assigner:   NewAssigner(ledger, s, opts.Picker),
		monthlyCap: opts.MonthlyCap,
		logger:     logging.OrNop(opts.Logger),
		metrics:    rec,
	}, nil
}

// Ledger returns the live workload ledger
func (g *Generator) Ledger() *Ledger {
	return g.ledger
}

// Schedule returns the schedule being filled
func (g *Generator) Schedule() *schedule.Schedule {
	return g.schedule
}

// TemplateIndex returns the rotation's current template index
func (g *Generator) TemplateIndex() int {
	return g.rotation.Index()
}

// monthlyLimit is ceil(days / rosterSize)
func monthlyLimit(days, rosterSize int) int {
	return (days + rosterSize - 1) / rosterSize
}

// eligible filters the roster against the per-pass cap
func (g *Generator) eligible(passCounts map[string]int, limit int) []string {
	if limit <= 0 {
		return g.roster
	}
	out := make([]string, 0, len(g.roster))
	for _, p := range g.roster {
		if passCounts[p] < limit {
			out = append(out, p)
		}
	}
	return out
}

// GenerateMonth runs GenerateRange over a whole calendar month
func (g *Generator) GenerateMonth(year int, month time.Month, fillEmpty bool) (Report, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return g.GenerateRange(first, first.AddDate(0, 1, -1), fillEmpty)
}

// GenerateRange assigns every planned date in [from, to] in ascending order.
// In fill-empty mode dates that already hold an entry are left untouched;
// otherwise they are overwritten. An assignment failure stops the pass;
// assignments made before it stay in the schedule and in the report.
func (g *Generator) GenerateRange(from, to time.Time, fillEmpty bool) (Report, error) {
	from, to = models.Day(from), models.Day(to)
	report := Report{From: from, To: to, TemplateIndex: g.rotation.Index()}
	if to.Before(from) {
		return report, fmt.Errorf("%w: end %s precedes start %s", ErrRange, models.FormatDate(to), models.FormatDate(from))
	}

	mode := "overwrite"
	if fillEmpty {
		mode = "fill_empty"
	}
	started := time.Now()

	limit := 0
	if g.monthlyCap {
		days := int(to.Sub(from).Hours()/24) + 1
		limit = monthlyLimit(days, len(g.roster))
	}
	passCounts := make(map[string]int, len(g.roster))

	g.logger.Info("generation started",
		"from", models.FormatDate(from),
		"to", models.FormatDate(to),
		"mode", mode,
		"template_index", g.rotation.Index(),
		"cap", limit)

	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		tmpl := g.rotation.Step(date)

		if fillEmpty && g.schedule.Has(date) {
			report.SkippedFilled++
			continue
		}

		t, ok := tmpl.TaskFor(date.Weekday())
		if !ok {
			report.NoTaskDays++
			continue
		}

		inst, err := g.assigner.Assign(models.NewTaskInstance(t, date), g.eligible(passCounts, limit))
		if err != nil {
			report.TemplateIndex = g.rotation.Index()
			g.metrics.RecordGeneration(mode, "state_error", len(report.Assigned), time.Since(started).Seconds())
			g.logger.Error("generation stopped", "date", models.FormatDate(date), "type", t, "error", err)
			return report, err
		}

		passCounts[inst.Assignee]++
		report.Assigned = append(report.Assigned, inst)
		g.metrics.RecordAssignment(inst.Type, inst.Assignee)
		g.logger.Debug("task assigned",
			"date", models.FormatDate(inst.Date),
			"weekday", inst.Weekday().String(),
			"type", inst.Type,
			"maker", inst.Assignee)
	}

	report.TemplateIndex = g.rotation.Index()
	g.metrics.RecordGeneration(mode, "ok", len(report.Assigned), time.Since(started).Seconds())
	g.logger.Info("generation finished",
		"from", models.FormatDate(from),
		"to", models.FormatDate(to),
		"assigned", len(report.Assigned),
		"skipped_filled", report.SkippedFilled,
		"no_task_days", report.NoTaskDays,
		"template_index", report.TemplateIndex)
	return report, nil
}

// Request is a one-shot generation over a single range
type Request struct {
	Roster     []string
	Templates  []string
	StartIndex int
	From       time.Time
	To         time.Time
	FillEmpty  bool
	MonthlyCap bool
	WeekStart  *time.Weekday
	Picker     Picker
	Logger     *slog.Logger
	Metrics    metrics.Recorder
}

// Generate builds a session over s and fills [req.From, req.To]
func Generate(s *schedule.Schedule, req Request) (Report, error) {
	g, err := NewGenerator(s, Options{
		Roster:     req.Roster,
		Templates:  req.Templates,
		StartIndex: req.StartIndex,
		WeekStart:  req.WeekStart,
		MonthlyCap: req.MonthlyCap,
		Picker:     req.Picker,
		Logger:     req.Logger,
		Metrics:    req.Metrics,
	})
	if err != nil {
		return Report{}, err
	}
	return g.GenerateRange(req.From, req.To, req.FillEmpty)
}
