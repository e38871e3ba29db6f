package scheduler

import (
	"math/rand"
	"time"
)

// Picker chooses uniformly among n equally fair candidates and returns an
// index in [0, n).
type Picker interface {
	Pick(n int) int
}

// RandPicker draws from a math/rand source. Identical seeds reproduce
// identical picks.
type RandPicker struct {
	r *rand.Rand
}

// NewRandPicker creates a picker with a fixed seed
func NewRandPicker(seed int64) *RandPicker {
	return &RandPicker{r: rand.New(rand.NewSource(seed))}
}

// NewTimePicker creates a picker seeded from the clock
func NewTimePicker() *RandPicker {
	return NewRandPicker(time.Now().UnixNano())
}

// Pick returns a uniform index in [0, n)
func (p *RandPicker) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return p.r.Intn(n)
}

// FirstPicker always takes the first candidate in roster order
type FirstPicker struct{}

// Pick always returns 0
func (FirstPicker) Pick(int) int {
	return 0
}
