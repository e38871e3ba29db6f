package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRotation_Step(t *testing.T) {
	t.Run("alternates at every boundary after the first date", func(t *testing.T) {
		r, err := NewRotation([]string{"POST Monday", "REEL Monday"}, 0, time.Monday)
		require.NoError(t, err)

		monday := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
		var seen []int
		for week := 0; week < 5; week++ {
			for day := 0; day < 7; day++ {
				r.Step(monday.AddDate(0, 0, week*7+day))
				if day == 0 {
					seen = append(seen, r.Index())
				}
			}
		}

		require.Equal(t, []int{0, 1, 0, 1, 0}, seen)
	})

	t.Run("partial first week keeps the start index", func(t *testing.T) {
		r, err := NewRotation([]string{"POST Monday", "REEL Monday", "STORIA Monday"}, 1, time.Monday)
		require.NoError(t, err)

		wednesday := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
		r.Step(wednesday)
		require.Equal(t, 1, r.Index())

		r.Step(wednesday.AddDate(0, 0, 4)) // Sunday
		require.Equal(t, 1, r.Index())

		r.Step(wednesday.AddDate(0, 0, 5)) // Monday
		require.Equal(t, 2, r.Index())

		r.Step(wednesday.AddDate(0, 0, 12)) // next Monday wraps
		require.Equal(t, 0, r.Index())
	})

	t.Run("custom boundary weekday", func(t *testing.T) {
		r, err := NewRotation([]string{"POST Monday", "REEL Monday"}, 0, time.Tuesday)
		require.NoError(t, err)

		monday := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
		r.Step(monday)
		require.Equal(t, 0, r.Index())
		r.Step(monday.AddDate(0, 0, 1))
		require.Equal(t, 1, r.Index())
	})

	t.Run("single template never changes", func(t *testing.T) {
		r, err := NewRotation([]string{"POST Monday"}, 0, time.Monday)
		require.NoError(t, err)

		start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 60; i++ {
			r.Step(start.AddDate(0, 0, i))
			require.Equal(t, 0, r.Index())
		}
	})
}

func TestNewRotation_Errors(t *testing.T) {
	_, err := NewRotation(nil, 0, time.Monday)
	require.ErrorIs(t, err, ErrConfig)

	_, err = NewRotation([]string{"POST Monday"}, 1, time.Monday)
	require.ErrorIs(t, err, ErrConfig)

	_, err = NewRotation([]string{"POST Monday"}, -1, time.Monday)
	require.ErrorIs(t, err, ErrConfig)

	_, err = NewRotation([]string{"POST Monday", "SELFIE Friday"}, 0, time.Monday)
	require.ErrorIs(t, err, ErrConfig)
	require.Contains(t, err.Error(), "weekly template 1")
}
