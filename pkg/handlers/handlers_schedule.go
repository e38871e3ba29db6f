package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/arnavshah/content-rota-go/pkg/models"
	"github.com/arnavshah/content-rota-go/pkg/planner"
	"github.com/arnavshah/content-rota-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

// dateRange reads ?month=YYYY-MM or ?from=&to= from the query string.
// ok is false when neither is present.
func dateRange(c *gin.Context) (from, to time.Time, ok bool, err error) {
	if month := c.Query("month"); month != "" {
		from, to, err = planner.MonthRange(month)
		return from, to, err == nil, err
	}
	rawFrom, rawTo := c.Query("from"), c.Query("to")
	if rawFrom == "" && rawTo == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	if rawFrom == "" || rawTo == "" {
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: both from and to are required", scheduler.ErrRange)
	}
	if from, err = models.ParseDate(rawFrom); err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: %v", scheduler.ErrRange, err)
	}
	if to, err = models.ParseDate(rawTo); err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: %v", scheduler.ErrRange, err)
	}
	return from, to, true, nil
}

func nonNil(entries []models.TaskInstance) []models.TaskInstance {
	if entries == nil {
		return []models.TaskInstance{}
	}
	return entries
}

// GenerateSchedule fills a month or date range and saves the result
func (h *Handler) GenerateSchedule(c *gin.Context) {
	var input models.GenerateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := planner.RequestFromInput(input)
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := h.Planner.Generate(c.Request.Context(), req)
	setUsage(c, len(res.Assigned), len(h.Planner.Roster()))
	if err != nil {
		var aerr *scheduler.AssignmentError
		if errors.As(err, &aerr) {
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
				"date":  models.FormatDate(aerr.Date),
				"type":  aerr.Type,
			})
			return
		}
		h.fail(c, err)
		return
	}

	saved := false
	if res.Committed {
		if err := h.Planner.Save(c.Request.Context()); err != nil {
			h.fail(c, err)
			return
		}
		saved = true
	}

	c.JSON(http.StatusOK, models.GenerateResponse{
		From:          models.FormatDate(res.From),
		To:            models.FormatDate(res.To),
		Assigned:      nonNil(res.Assigned),
		SkippedFilled: res.SkippedFilled,
		NoTaskDays:    res.NoTaskDays,
		TemplateIndex: res.TemplateIndex,
		Saved:         saved,
		Workload:      res.Workload,
	})
}

// ListSchedule returns the planned entries, optionally limited to a range
func (h *Handler) ListSchedule(c *gin.Context) {
	from, to, ok, err := dateRange(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var entries []models.TaskInstance
	if ok {
		entries = h.Planner.Between(from, to)
	} else {
		entries = h.Planner.Entries()
	}
	c.JSON(http.StatusOK, gin.H{"entries": nonNil(entries), "count": len(entries)})
}

// GetEntry returns the entry planned for one date
func (h *Handler) GetEntry(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inst, ok := h.Planner.Lookup(date)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nothing planned for " + models.FormatDate(date)})
		return
	}
	c.JSON(http.StatusOK, inst)
}

// ExportCSV returns the planned entries as CSV text
func (h *Handler) ExportCSV(c *gin.Context) {
	from, to, ok, err := dateRange(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		entries := h.Planner.Entries()
		if len(entries) > 0 {
			from, to = entries[0].Date, entries[len(entries)-1].Date
		}
	}

	var out strings.Builder
	if err := h.Planner.ExportCSV(&out, from, to); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"csv": out.String()})
}

// Workload returns every person's task counts and weight
func (h *Handler) Workload(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"workload": h.Planner.Workload()})
}

// TaskTypes lists the task enumeration with weights
func (h *Handler) TaskTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"task_types": models.TaskTypeTable()})
}

// SetEntry assigns a date manually and saves
func (h *Handler) SetEntry(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var input models.EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inst, err := h.Planner.SetEntry(date, input.Type, input.Maker)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Planner.Save(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inst)
}

// DeleteEntry clears a date and saves
func (h *Handler) DeleteEntry(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prev, ok := h.Planner.DeleteEntry(date)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nothing planned for " + models.FormatDate(date)})
		return
	}
	if err := h.Planner.Save(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted", "entry": prev})
}
