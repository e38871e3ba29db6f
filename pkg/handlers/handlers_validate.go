package handlers

import (
	"net/http"

	"github.com/arnavshah/content-rota-go/pkg/config"
	"github.com/arnavshah/content-rota-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

// ValidateConfig checks a rota configuration without touching the schedule
func (h *Handler) ValidateConfig(c *gin.Context) {
	var input config.Config
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	templates := make([]string, 0, len(input.WeeklySchedules))
	tasksPerWeek := make([]int, 0, len(input.WeeklySchedules))
	for _, pattern := range input.WeeklySchedules {
		// Validate already parsed every pattern
		tmpl, _ := scheduler.ParseTemplate(pattern)
		templates = append(templates, tmpl.String())
		tasksPerWeek = append(tasksPerWeek, tmpl.Tasks())
	}
	setUsage(c, 0, len(input.People))

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"people_count":   len(input.People),
			"template_count": len(input.WeeklySchedules),
			"tasks_per_week": tasksPerWeek,
			"templates":      templates,
		},
	})
}
