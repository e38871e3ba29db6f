package schedule

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/arnavshah/content-rota-go/pkg/database"
	"github.com/arnavshah/content-rota-go/pkg/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Config{
		Path:  filepath.Join(t.TempDir(), "rota.db"),
		Quiet: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestDBRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("empty table loads empty", func(t *testing.T) {
		s, err := NewDBRepository(openTestDB(t)).Load(ctx)

		require.NoError(t, err)
		require.Equal(t, 0, s.Len())
	})

	t.Run("save then load round trips", func(t *testing.T) {
		repo := NewDBRepository(openTestDB(t))
		s := New()
		s.Put(entry(models.TaskPost, day(time.January, 6), "Alice"))
		s.Put(entry(models.TaskTestimonianza, day(time.January, 9), "Bob"))

		require.NoError(t, repo.Save(ctx, s))

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, s.Entries(), loaded.Entries())
	})

	t.Run("save upserts and drops removed dates", func(t *testing.T) {
		db := openTestDB(t)
		repo := NewDBRepository(db)
		s := New()
		s.Put(entry(models.TaskPost, day(time.January, 6), "Alice"))
		s.Put(entry(models.TaskStoria, day(time.January, 8), "Bob"))
		require.NoError(t, repo.Save(ctx, s))

		s.Put(entry(models.TaskPost, day(time.January, 6), "Carol"))
		s.Delete(day(time.January, 8))
		require.NoError(t, repo.Save(ctx, s))

		var rows []database.ScheduleEntry
		require.NoError(t, db.Find(&rows).Error)
		require.Len(t, rows, 1)
		require.Equal(t, "2025-01-06", rows[0].Date)
		require.Equal(t, "Carol", rows[0].Maker)
	})

	t.Run("saving an empty schedule clears the table", func(t *testing.T) {
		db := openTestDB(t)
		repo := NewDBRepository(db)
		s := New()
		s.Put(entry(models.TaskReel, day(time.January, 4), "Alice"))
		require.NoError(t, repo.Save(ctx, s))

		require.NoError(t, repo.Save(ctx, New()))

		var count int64
		require.NoError(t, db.Model(&database.ScheduleEntry{}).Count(&count).Error)
		require.Zero(t, count)
	})

	t.Run("bad row is a persistence error", func(t *testing.T) {
		db := openTestDB(t)
		require.NoError(t, db.Create(&database.ScheduleEntry{Date: "2025-01-06", Type: "VLOG", Maker: "Alice"}).Error)

		_, err := NewDBRepository(db).Load(ctx)

		require.ErrorIs(t, err, ErrPersistence)
	})
}
