package planner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/arnavshah/content-rota-go/pkg/config"
	"github.com/arnavshah/content-rota-go/pkg/models"
	"github.com/arnavshah/content-rota-go/pkg/schedule"
	"github.com/arnavshah/content-rota-go/pkg/scheduler"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func testConfig() *config.Config {
	return &config.Config{
		People: []config.Person{{Name: "Alice"}, {Name: "Bob"}},
		WeeklySchedules: []string{
			"POST Monday, STORIA Wednesday",
			"REEL Monday",
		},
	}
}

type recordingRecorder struct {
	saves []string
}

func (r *recordingRecorder) RecordAssignment(models.TaskType, string) {}
func (r *recordingRecorder) RecordGeneration(string, string, int, float64) {}
func (r *recordingRecorder) RecordSave(backend, result string, _ float64) {
	r.saves = append(r.saves, backend+":"+result)
}

type failingRepo struct{}

func (failingRepo) Load(context.Context) (*schedule.Schedule, error) { return schedule.New(), nil }
func (failingRepo) Save(context.Context, *schedule.Schedule) error {
	return errors.Join(schedule.ErrPersistence, errors.New("disk full"))
}

func newTestPlanner(t *testing.T, repo schedule.Repository) *Planner {
	t.Helper()
	p, err := New(context.Background(), Options{
		Config: testConfig(),
		Repo:   repo,
		Picker: func() scheduler.Picker { return scheduler.FirstPicker{} },
	})
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("loads existing schedule and ledger", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		repo := schedule.NewFileRepository(fs, "schedule.json")
		s := schedule.New()
		s.Put(models.TaskInstance{Type: models.TaskReel, Date: day(time.January, 4), Assignee: "Bob"})
		require.NoError(t, repo.Save(ctx, s))

		p := newTestPlanner(t, repo)

		inst, ok := p.Lookup(day(time.January, 4))
		require.True(t, ok)
		require.Equal(t, "Bob", inst.Assignee)
		require.Equal(t, 3, p.Workload()[1].Weight)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig()
		cfg.WeeklySchedules = []string{"POST Someday"}

		_, err := New(ctx, Options{Config: cfg, Repo: schedule.NewFileRepository(afero.NewMemMapFs(), "s.json")})

		require.ErrorIs(t, err, scheduler.ErrConfig)
	})

	t.Run("corrupt store", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "s.json", []byte("{"), 0o644))

		_, err := New(ctx, Options{Config: testConfig(), Repo: schedule.NewFileRepository(fs, "s.json")})

		require.ErrorIs(t, err, schedule.ErrPersistence)
	})
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		p := newTestPlanner(t, schedule.NewFileRepository(afero.NewMemMapFs(), "s.json"))

		res, err := p.Generate(ctx, Request{From: day(time.January, 6), To: day(time.January, 12)})

		require.NoError(t, err)
		require.True(t, res.Committed)
		require.Len(t, res.Assigned, 2)
		require.Len(t, p.Entries(), 2)
		require.Equal(t, res.Workload, p.Workload())
	})

	t.Run("dry run leaves the schedule alone", func(t *testing.T) {
		p := newTestPlanner(t, schedule.NewFileRepository(afero.NewMemMapFs(), "s.json"))

		res, err := p.Generate(ctx, Request{From: day(time.January, 6), To: day(time.January, 12), DryRun: true})

		require.NoError(t, err)
		require.False(t, res.Committed)
		require.Len(t, res.Assigned, 2)
		require.Empty(t, p.Entries())
		for _, w := range p.Workload() {
			require.Zero(t, w.Total)
		}
	})

	t.Run("failed range changes nothing", func(t *testing.T) {
		p := newTestPlanner(t, schedule.NewFileRepository(afero.NewMemMapFs(), "s.json"))

		_, err := p.Generate(ctx, Request{From: day(time.January, 12), To: day(time.January, 6)})

		require.ErrorIs(t, err, scheduler.ErrRange)
		require.Empty(t, p.Entries())
	})

	t.Run("template index out of range", func(t *testing.T) {
		p := newTestPlanner(t, schedule.NewFileRepository(afero.NewMemMapFs(), "s.json"))

		_, err := p.Generate(ctx, Request{From: day(time.January, 6), To: day(time.January, 12), TemplateIndex: 5})

		require.ErrorIs(t, err, scheduler.ErrConfig)
	})

	t.Run("start index selects the template", func(t *testing.T) {
		p := newTestPlanner(t, schedule.NewFileRepository(afero.NewMemMapFs(), "s.json"))

		res, err := p.Generate(ctx, Request{From: day(time.January, 6), To: day(time.January, 12), TemplateIndex: 1})

		require.NoError(t, err)
		require.Len(t, res.Assigned, 1)
		require.Equal(t, models.TaskReel, res.Assigned[0].Type)
	})

	t.Run("fill empty keeps manual entries", func(t *testing.T) {
		p := newTestPlanner(t, schedule.NewFileRepository(afero.NewMemMapFs(), "s.json"))
		_, err := p.SetEntry(day(time.January, 6), "reel", "Bob")
		require.NoError(t, err)

		res, err := p.Generate(ctx, Request{From: day(time.January, 6), To: day(time.January, 12), FillEmpty: true})

		require.NoError(t, err)
		require.Equal(t, 1, res.SkippedFilled)
		inst, _ := p.Lookup(day(time.January, 6))
		require.Equal(t, models.TaskReel, inst.Type)
	})

	t.Run("seed gives repeatable results", func(t *testing.T) {
		seed := int64(7)
		run := func() []models.TaskInstance {
			p := newTestPlanner(t, schedule.NewFileRepository(afero.NewMemMapFs(), "s.json"))
			res, err := p.Generate(ctx, Request{From: day(time.January, 1), To: day(time.March, 31), Seed: &seed})
			require.NoError(t, err)
			return res.Assigned
		}
		require.Equal(t, run(), run())
	})
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the committed schedule", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		rec := &recordingRecorder{}
		repo := schedule.NewFileRepository(fs, "s.json")
		p, err := New(ctx, Options{Config: testConfig(), Repo: repo, Metrics: rec, Picker: func() scheduler.Picker { return scheduler.FirstPicker{} }})
		require.NoError(t, err)
		_, err = p.Generate(ctx, Request{From: day(time.January, 1), To: day(time.January, 31)})
		require.NoError(t, err)

		require.NoError(t, p.Save(ctx))

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, p.Entries(), loaded.Entries())
		require.Equal(t, []string{"file:ok"}, rec.saves)
	})

	t.Run("repository failure is reported", func(t *testing.T) {
		rec := &recordingRecorder{}
		p, err := New(ctx, Options{Config: testConfig(), Repo: failingRepo{}, Backend: "db", Metrics: rec})
		require.NoError(t, err)

		err = p.Save(ctx)

		require.ErrorIs(t, err, schedule.ErrPersistence)
		require.Equal(t, []string{"db:error"}, rec.saves)
	})
}

func TestEntries(t *testing.T) {
	p := newTestPlanner(t, schedule.NewFileRepository(afero.NewMemMapFs(), "s.json"))

	t.Run("set replaces and rebalances", func(t *testing.T) {
		_, err := p.SetEntry(day(time.January, 6), "POST", "Alice")
		require.NoError(t, err)
		_, err = p.SetEntry(day(time.January, 6), "REEL", "Bob")
		require.NoError(t, err)

		w := p.Workload()
		require.Zero(t, w[0].Total)
		require.Equal(t, 3, w[1].Weight)
	})

	t.Run("unknown maker", func(t *testing.T) {
		_, err := p.SetEntry(day(time.January, 7), "POST", "Zoe")
		require.ErrorIs(t, err, scheduler.ErrConfig)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := p.SetEntry(day(time.January, 7), "VLOG", "Alice")
		require.ErrorIs(t, err, scheduler.ErrConfig)
	})

	t.Run("delete", func(t *testing.T) {
		prev, ok := p.DeleteEntry(day(time.January, 6))
		require.True(t, ok)
		require.Equal(t, "Bob", prev.Assignee)
		require.Zero(t, p.Workload()[1].Total)

		_, ok = p.DeleteEntry(day(time.January, 6))
		require.False(t, ok)
	})
}

func TestExportCSV(t *testing.T) {
	p := newTestPlanner(t, schedule.NewFileRepository(afero.NewMemMapFs(), "s.json"))
	_, err := p.SetEntry(day(time.January, 6), "POST", "Alice")
	require.NoError(t, err)
	_, err = p.SetEntry(day(time.January, 8), "STORIA", "Bob")
	require.NoError(t, err)
	_, err = p.SetEntry(day(time.February, 3), "POST", "Bob")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.ExportCSV(&buf, day(time.January, 1), day(time.January, 31)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, []string{
		"date,weekday,type,weight,maker",
		"2025-01-06,Monday,POST,2,Alice",
		"2025-01-08,Wednesday,STORIA,1,Bob",
	}, lines)
}

func TestRequestFromInput(t *testing.T) {
	t.Run("month", func(t *testing.T) {
		req, err := RequestFromInput(models.GenerateInput{Month: "2025-02", FillEmpty: true})
		require.NoError(t, err)
		require.Equal(t, day(time.February, 1), req.From)
		require.Equal(t, day(time.February, 28), req.To)
		require.True(t, req.FillEmpty)
	})

	t.Run("explicit range", func(t *testing.T) {
		req, err := RequestFromInput(models.GenerateInput{From: "2025-01-06", To: "2025-01-19"})
		require.NoError(t, err)
		require.Equal(t, day(time.January, 6), req.From)
		require.Equal(t, day(time.January, 19), req.To)
	})

	for name, in := range map[string]models.GenerateInput{
		"nothing":   {},
		"both":      {Month: "2025-01", From: "2025-01-01", To: "2025-01-31"},
		"bad month": {Month: "January"},
		"bad date":  {From: "2025-01-01", To: "31/01/2025"},
		"half open": {From: "2025-01-01"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := RequestFromInput(in)
			require.ErrorIs(t, err, scheduler.ErrRange)
		})
	}
}
