package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/arnavshah/content-rota-go/pkg/models"
	"github.com/arnavshah/content-rota-go/pkg/scheduler"
)

const monthLayout = "2006-01"

// MonthRange returns the first and last day of a "YYYY-MM" month
func MonthRange(month string) (time.Time, time.Time, error) {
	first, err := time.Parse(monthLayout, strings.TrimSpace(month))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid month %q", scheduler.ErrRange, month)
	}
	return first, first.AddDate(0, 1, -1), nil
}

// RequestFromInput converts a wire request. Exactly one of Month or the
// From/To pair must be set.
func RequestFromInput(in models.GenerateInput) (Request, error) {
	req := Request{
		FillEmpty:     in.FillEmpty,
		TemplateIndex: in.TemplateIndex,
		MonthlyCap:    in.MonthlyCap,
		Seed:          in.Seed,
		DryRun:        in.DryRun,
	}

	switch {
	case in.Month != "" && (in.From != "" || in.To != ""):
		return Request{}, fmt.Errorf("%w: month and from/to are mutually exclusive", scheduler.ErrRange)
	case in.Month != "":
		from, to, err := MonthRange(in.Month)
		if err != nil {
			return Request{}, err
		}
		req.From, req.To = from, to
	case in.From != "" && in.To != "":
		from, err := models.ParseDate(in.From)
		if err != nil {
			return Request{}, fmt.Errorf("%w: %v", scheduler.ErrRange, err)
		}
		to, err := models.ParseDate(in.To)
		if err != nil {
			return Request{}, fmt.Errorf("%w: %v", scheduler.ErrRange, err)
		}
		req.From, req.To = from, to
	default:
		return Request{}, fmt.Errorf("%w: month or from/to is required", scheduler.ErrRange)
	}
	return req, nil
}
