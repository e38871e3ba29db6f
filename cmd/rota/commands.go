package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/arnavshah/content-rota-go/pkg/config"
	"github.com/arnavshah/content-rota-go/pkg/database"
	"github.com/arnavshah/content-rota-go/pkg/logging"
	"github.com/arnavshah/content-rota-go/pkg/models"
	"github.com/arnavshah/content-rota-go/pkg/planner"
	"github.com/arnavshah/content-rota-go/pkg/schedule"
	"github.com/arnavshah/content-rota-go/pkg/scheduler"
	"github.com/urfave/cli"
)

func (r *runner) repository() (schedule.Repository, func(), error) {
	switch strings.ToLower(r.backend) {
	case "", "file":
		return schedule.NewFileRepository(nil, r.schedulePath), func() {}, nil
	case "db":
		db, err := database.Open(database.Config{DSN: r.databaseURL, Path: r.dataPath, Quiet: true})
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", schedule.ErrPersistence, err)
		}
		closer := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return schedule.NewDBRepository(db), closer, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown backend %q", scheduler.ErrConfig, r.backend)
	}
}

func (r *runner) open(ctx context.Context) (*planner.Planner, func(), error) {
	cfg, err := config.Load(nil, r.configPath)
	if err != nil {
		return nil, nil, err
	}
	repo, closer, err := r.repository()
	if err != nil {
		return nil, nil, err
	}
	p, err := planner.New(ctx, planner.Options{
		Config:  cfg,
		Repo:    repo,
		Backend: strings.ToLower(r.backend),
		Logger:  logging.New(r.logLevel, r.errOut),
	})
	if err != nil {
		closer()
		return nil, nil, err
	}
	return p, closer, nil
}

func (r *runner) generate(ctx *cli.Context) error {
	input := models.GenerateInput{
		Month:         r.month,
		From:          r.from,
		To:            r.to,
		FillEmpty:     r.fillEmpty,
		TemplateIndex: r.templateIndex,
		DryRun:        r.dryRun,
	}
	if ctx.IsSet("seed") {
		seed := r.seed
		input.Seed = &seed
	}
	if ctx.IsSet("cap") {
		monthlyCap := r.monthlyCap
		input.MonthlyCap = &monthlyCap
	}
	req, err := planner.RequestFromInput(input)
	if err != nil {
		return err
	}

	bg := context.Background()
	p, closer, err := r.open(bg)
	if err != nil {
		return err
	}
	defer closer()

	if !req.FillEmpty && !req.DryRun && !r.yes {
		if existing := len(p.Between(req.From, req.To)); existing > 0 {
			prompt := fmt.Sprintf("%d entries between %s and %s will be overwritten. Continue?",
				existing, models.FormatDate(req.From), models.FormatDate(req.To))
			if !confirm(prompt, r.in, r.out) {
				fmt.Fprintln(r.out, "Cancelled generate operation!")
				return nil
			}
		}
	}

	res, err := p.Generate(bg, req)
	if err != nil {
		if len(res.Assigned) > 0 {
			fmt.Fprintf(r.out, "Stopped after %d assignments; nothing was saved.\n", len(res.Assigned))
		}
		return err
	}

	printEntries(r.out, res.Assigned)
	fmt.Fprintln(r.out)
	printWorkload(r.out, res.Workload)

	if !res.Committed {
		fmt.Fprintln(r.out, "\nDry run: schedule not saved.")
		return nil
	}
	if err := p.Save(bg); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "\nSaved %d assignments (%d days without a task, %d kept).\n",
		len(res.Assigned), res.NoTaskDays, res.SkippedFilled)
	fmt.Fprintf(r.out, "Next range continues with --template-index %d.\n", res.TemplateIndex)
	return nil
}

func (r *runner) show(ctx *cli.Context) error {
	p, closer, err := r.open(context.Background())
	if err != nil {
		return err
	}
	defer closer()

	entries := p.Entries()
	if r.month != "" || r.from != "" || r.to != "" {
		req, err := planner.RequestFromInput(models.GenerateInput{Month: r.month, From: r.from, To: r.to})
		if err != nil {
			return err
		}
		entries = p.Between(req.From, req.To)
	}
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "Nothing planned.")
		return nil
	}
	printEntries(r.out, entries)
	return nil
}

func (r *runner) workload(ctx *cli.Context) error {
	p, closer, err := r.open(context.Background())
	if err != nil {
		return err
	}
	defer closer()

	printWorkload(r.out, p.Workload())
	return nil
}

func (r *runner) validate(ctx *cli.Context) error {
	cfg, err := config.Load(nil, r.configPath)
	if err != nil {
		return err
	}
	start, _ := cfg.WeekStart()
	fmt.Fprintf(r.out, "%s is valid: %d people, %d weekly templates, weeks start on %s\n",
		r.configPath, len(cfg.People), len(cfg.WeeklySchedules), start)
	for i, pattern := range cfg.WeeklySchedules {
		tmpl, _ := scheduler.ParseTemplate(pattern)
		fmt.Fprintf(r.out, "  %d: %s\n", i, tmpl)
	}
	return nil
}

func (r *runner) types(ctx *cli.Context) error {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tWEIGHT")
	for _, info := range models.TaskTypeTable() {
		fmt.Fprintf(w, "%s\t%d\n", info.Name, info.Weight)
	}
	return w.Flush()
}

func printEntries(out io.Writer, entries []models.TaskInstance) {
	var month time.Month
	var year int
	for _, inst := range entries {
		if inst.Date.Month() != month || inst.Date.Year() != year {
			month, year = inst.Date.Month(), inst.Date.Year()
			fmt.Fprintf(out, "%s %d\n", month, year)
		}
		fmt.Fprintf(out, "  %s\n", inst)
	}
}

func printWorkload(out io.Writer, rows []models.WorkloadEntry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := []string{"PERSON"}
	for _, t := range models.TaskTypes() {
		header = append(header, t.String())
	}
	header = append(header, "TOTAL", "WEIGHT")
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, row := range rows {
		cells := []string{row.Person}
		for _, t := range models.TaskTypes() {
			cells = append(cells, fmt.Sprint(row.Counts[t]))
		}
		cells = append(cells, fmt.Sprint(row.Total), fmt.Sprint(row.Weight))
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()
}
