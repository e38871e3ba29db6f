package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/arnavshah/content-rota-go/pkg/scheduler"
	"github.com/spf13/afero"
)

// ErrNotFound is returned when the config file does not exist
var ErrNotFound = errors.New("config file not found")

var hexColor = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

// Person is one roster member. Color is only used by renderers.
type Person struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Config is the rota configuration file
type Config struct {
	People          []Person          `json:"people"`
	WeeklySchedules []string          `json:"weeklySchedules"`
	FirstWeekday    string            `json:"firstWeekday,omitempty"`
	Formatting      map[string]string `json:"formatting,omitempty"`
}

// UnmarshalJSON also accepts the older "peopleColors" key for people
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	var aux struct {
		plain
		PeopleColors []Person `json:"peopleColors"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Config(aux.plain)
	if len(c.People) == 0 && len(aux.PeopleColors) > 0 {
		c.People = aux.PeopleColors
	}
	return nil
}

// Roster returns the people's names in file order
func (c *Config) Roster() []string {
	out := make([]string, 0, len(c.People))
	for _, p := range c.People {
		out = append(out, p.Name)
	}
	return out
}

// Colors maps names to their hex color with a leading '#'
func (c *Config) Colors() map[string]string {
	out := make(map[string]string, len(c.People))
	for _, p := range c.People {
		if p.Color == "" {
			continue
		}
		if p.Color[0] == '#' {
			out[p.Name] = p.Color
		} else {
			out[p.Name] = "#" + p.Color
		}
	}
	return out
}

// WeekStart returns the configured first weekday, Monday when unset
func (c *Config) WeekStart() (time.Weekday, error) {
	if c.FirstWeekday == "" {
		return time.Monday, nil
	}
	d, err := scheduler.ParseWeekday(c.FirstWeekday)
	if err != nil {
		return 0, fmt.Errorf("%w: firstWeekday: %v", scheduler.ErrConfig, err)
	}
	return d, nil
}

// Validate checks the roster, colors, first weekday and every template
func (c *Config) Validate() error {
	if len(c.People) == 0 {
		return fmt.Errorf("%w: people list is empty", scheduler.ErrConfig)
	}
	seen := make(map[string]bool, len(c.People))
	for i, p := range c.People {
		if p.Name == "" {
			return fmt.Errorf("%w: person %d has no name", scheduler.ErrConfig, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate person %q", scheduler.ErrConfig, p.Name)
		}
		seen[p.Name] = true
		if p.Color != "" && !hexColor.MatchString(p.Color) {
			return fmt.Errorf("%w: person %q has invalid color %q", scheduler.ErrConfig, p.Name, p.Color)
		}
	}

	if len(c.WeeklySchedules) == 0 {
		return fmt.Errorf("%w: weeklySchedules is empty", scheduler.ErrConfig)
	}
	for i, pattern := range c.WeeklySchedules {
		if _, err := scheduler.ParseTemplate(pattern); err != nil {
			return fmt.Errorf("weekly schedule %d: %w", i, err)
		}
	}

	_, err := c.WeekStart()
	return err
}

// Load reads and validates the config at path
func Load(fs afero.Fs, path string) (*Config, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", scheduler.ErrConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to path as indented JSON
func Save(fs afero.Fs, path string, cfg *Config) error {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, append(data, '\n'), 0o644)
}
