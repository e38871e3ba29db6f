package planner

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/arnavshah/content-rota-go/pkg/config"
	"github.com/arnavshah/content-rota-go/pkg/logging"
	"github.com/arnavshah/content-rota-go/pkg/metrics"
	"github.com/arnavshah/content-rota-go/pkg/models"
	"github.com/arnavshah/content-rota-go/pkg/schedule"
	"github.com/arnavshah/content-rota-go/pkg/scheduler"
)

// Options configures a Planner
type Options struct {
	Config *config.Config
	Repo   schedule.Repository
	// Backend labels save metrics, e.g. "file" or "db".
	Backend string
	// MonthlyCap is the default for requests that do not set it.
	MonthlyCap bool
	// Picker builds the tie-breaker for unseeded requests. Defaults to a
	// clock-seeded source.
	Picker  func() scheduler.Picker
	Logger  *slog.Logger
	Metrics metrics.Recorder
}

// Request is one generation call against the served schedule
type Request struct {
	From          time.Time
	To            time.Time
	FillEmpty     bool
	TemplateIndex int
	MonthlyCap    *bool
	Seed          *int64
	DryRun        bool
}

// Result is a generation report plus the workload it produced
type Result struct {
	scheduler.Report
	Committed bool
	Workload  []models.WorkloadEntry
}

// Planner serves one schedule. Generation and edits are serialized;
// lookups run concurrently with each other.
type Planner struct {
	mu        sync.RWMutex
	cfg       *config.Config
	roster    []string
	weekStart time.Weekday
	repo      schedule.Repository
	backend   string
	sched     *schedule.Schedule
	ledger    *scheduler.Ledger

	monthlyCap bool
	picker     func() scheduler.Picker
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// New validates the config and loads the schedule from the repository
func New(ctx context.Context, opts Options) (*Planner, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("%w: no configuration", scheduler.ErrConfig)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	weekStart, err := opts.Config.WeekStart()
	if err != nil {
		return nil, err
	}
	if opts.Repo == nil {
		return nil, fmt.Errorf("%w: no schedule repository", schedule.ErrPersistence)
	}

	s, err := opts.Repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	p := &Planner{
		cfg:        opts.Config,
		roster:     opts.Config.Roster(),
		weekStart:  weekStart,
		repo:       opts.Repo,
		backend:    opts.Backend,
		sched:      s,
		monthlyCap: opts.MonthlyCap,
		picker:     opts.Picker,
		logger:     logging.OrNop(opts.Logger),
		metrics:    opts.Metrics,
	}
	if p.backend == "" {
		p.backend = "file"
	}
	if p.metrics == nil {
		p.metrics = metrics.NewNop()
	}
	if p.picker == nil {
		p.picker = func() scheduler.Picker { return scheduler.NewTimePicker() }
	}
	p.ledger = scheduler.RebuildLedger(p.roster, s)

	p.logger.Info("schedule loaded", "backend", p.backend, "entries", s.Len(), "people", len(p.roster))
	return p, nil
}

// Config returns the active configuration
func (p *Planner) Config() *config.Config {
	return p.cfg
}

// Roster returns the configured people in order
func (p *Planner) Roster() []string {
	return append([]string(nil), p.roster...)
}

// Generate fills the requested range on a copy of the schedule. The copy
// replaces the served schedule only when the pass succeeds and the request
// is not a dry run. Nothing is saved.
func (p *Planner) Generate(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	picker := p.picker()
	if req.Seed != nil {
		picker = scheduler.NewRandPicker(*req.Seed)
	}
	monthlyCap := p.monthlyCap
	if req.MonthlyCap != nil {
		monthlyCap = *req.MonthlyCap
	}

	working := p.sched.Clone()
	weekStart := p.weekStart
	g, err := scheduler.NewGenerator(working, scheduler.Options{
		Roster:     p.roster,
		Templates:  p.cfg.WeeklySchedules,
		StartIndex: req.TemplateIndex,
		WeekStart:  &weekStart,
		MonthlyCap: monthlyCap,
		Picker:     picker,
		Logger:     p.logger,
		Metrics:    p.metrics,
	})
	if err != nil {
		return Result{}, err
	}

	report, err := g.GenerateRange(req.From, req.To, req.FillEmpty)
	res := Result{Report: report, Workload: g.Ledger().Snapshot()}
	if err != nil {
		return res, err
	}

	if !req.DryRun {
		p.sched = working
		p.ledger = g.Ledger()
		res.Committed = true
	}
	return res, nil
}

// Save writes the served schedule to the repository
func (p *Planner) Save(ctx context.Context) error {
	p.mu.RLock()
	snapshot := p.sched.Clone()
	p.mu.RUnlock()

	started := time.Now()
	err := p.repo.Save(ctx, snapshot)
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.metrics.RecordSave(p.backend, result, time.Since(started).Seconds())
	if err != nil {
		p.logger.Error("schedule save failed", "backend", p.backend, "error", err)
		return err
	}
	p.logger.Info("schedule saved", "backend", p.backend, "entries", snapshot.Len())
	return nil
}

// Lookup returns the entry planned for date
func (p *Planner) Lookup(date time.Time) (models.TaskInstance, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sched.Get(date)
}

// Between returns the entries within [from, to]
func (p *Planner) Between(from, to time.Time) []models.TaskInstance {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sched.Between(from, to)
}

// Entries returns every planned entry in date order
func (p *Planner) Entries() []models.TaskInstance {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sched.Entries()
}

// Workload returns the ledger of the served schedule
func (p *Planner) Workload() []models.WorkloadEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.Snapshot()
}

// SetEntry upserts a manual assignment. The maker must be on the roster.
func (p *Planner) SetEntry(date time.Time, taskType, maker string) (models.TaskInstance, error) {
	t, err := models.ParseTaskType(taskType)
	if err != nil {
		return models.TaskInstance{}, fmt.Errorf("%w: %v", scheduler.ErrConfig, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ledger.Has(maker) {
		return models.TaskInstance{}, fmt.Errorf("%w: %q is not on the roster", scheduler.ErrConfig, maker)
	}

	inst := models.NewTaskInstance(t, date)
	inst.Assignee = maker
	prev, replaced := p.sched.Put(inst)
	if replaced {
		p.ledger.Apply(inst, &prev)
	} else {
		p.ledger.Apply(inst, nil)
	}
	p.logger.Info("schedule entry set", "date", models.FormatDate(inst.Date), "type", inst.Type, "maker", maker)
	return inst, nil
}

// DeleteEntry clears date and returns the removed entry
func (p *Planner) DeleteEntry(date time.Time) (models.TaskInstance, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev, ok := p.sched.Delete(date)
	if ok {
		p.ledger.Remove(prev)
		p.logger.Info("schedule entry deleted", "date", models.FormatDate(prev.Date))
	}
	return prev, ok
}

// ExportCSV writes the entries within [from, to] as CSV
func (p *Planner) ExportCSV(w io.Writer, from, to time.Time) error {
	entries := p.Between(from, to)

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "weekday", "type", "weight", "maker"}); err != nil {
		return err
	}
	for _, inst := range entries {
		record := []string{
			models.FormatDate(inst.Date),
			inst.Weekday().String(),
			inst.Type.String(),
			strconv.Itoa(inst.Weight()),
			inst.Assignee,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
