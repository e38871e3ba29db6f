package models

// GenerateInput is the request body of the generation endpoint.
// Month ("2025-01") and From/To ("2025-01-01") are mutually exclusive.
type GenerateInput struct {
	Month         string `json:"month,omitempty"`
	From          string `json:"from,omitempty"`
	To            string `json:"to,omitempty"`
	FillEmpty     bool   `json:"fill_empty"`
	TemplateIndex int    `json:"template_index"`
	MonthlyCap    *bool  `json:"monthly_cap,omitempty"`
	Seed          *int64 `json:"seed,omitempty"`
	DryRun        bool   `json:"dry_run"`
}

// EntryInput is the request body of a manual schedule edit
type EntryInput struct {
	Type  string `json:"type" binding:"required"`
	Maker string `json:"maker" binding:"required"`
}

// WorkloadEntry is one person's row in a workload report
type WorkloadEntry struct {
	Person string           `json:"person"`
	Counts map[TaskType]int `json:"counts"`
	Total  int              `json:"total"`
	Weight int              `json:"weight"`
}

// GenerateResponse is the result of a generation request
type GenerateResponse struct {
	From          string          `json:"from"`
	To            string          `json:"to"`
	Assigned      []TaskInstance  `json:"assigned"`
	SkippedFilled int             `json:"skipped_filled"`
	NoTaskDays    int             `json:"no_task_days"`
	TemplateIndex int             `json:"template_index"`
	Saved         bool            `json:"saved"`
	Workload      []WorkloadEntry `json:"workload"`
}
