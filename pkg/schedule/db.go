package schedule

import (
	"context"
	"fmt"

	"github.com/arnavshah/content-rota-go/pkg/database"
	"github.com/arnavshah/content-rota-go/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBRepository stores the schedule in the schedule_entries table
type DBRepository struct {
	db *gorm.DB
}

// NewDBRepository creates a repository over an opened, migrated database
func NewDBRepository(db *gorm.DB) *DBRepository {
	return &DBRepository{db: db}
}

// Load reads every row. An empty table is an empty schedule.
func (r *DBRepository) Load(ctx context.Context) (*Schedule, error) {
	var rows []database.ScheduleEntry
	if err := r.db.WithContext(ctx).Order("date").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: query schedule: %v", ErrPersistence, err)
	}

	s := New()
	for _, row := range rows {
		date, err := models.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: row %s: %v", ErrPersistence, row.Date, err)
		}
		t, err := models.ParseTaskType(row.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: row %s: %v", ErrPersistence, row.Date, err)
		}
		s.Put(models.TaskInstance{Type: t, Date: date, Assignee: row.Maker})
	}
	return s, nil
}

// Save upserts every entry and drops rows the snapshot no longer holds,
// in one transaction
func (r *DBRepository) Save(ctx context.Context, s *Schedule) error {
	entries := s.Entries()
	rows := make([]database.ScheduleEntry, 0, len(entries))
	dates := make([]string, 0, len(entries))
	for _, inst := range entries {
		d := models.FormatDate(inst.Date)
		rows = append(rows, database.ScheduleEntry{
			Date:  d,
			Type:  inst.Type.String(),
			Maker: inst.Assignee,
		})
		dates = append(dates, d)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if len(dates) > 0 {
			del = del.Where("date NOT IN ?", dates)
		}
		if err := del.Delete(&database.ScheduleEntry{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "maker", "updated_at"}),
		}).CreateInBatches(rows, 200).Error
	})
	if err != nil {
		return fmt.Errorf("%w: store schedule: %v", ErrPersistence, err)
	}
	return nil
}
