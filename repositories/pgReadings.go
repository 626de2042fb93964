package repositories

import (
	"github.com/Asadganteng/ruang-iklim-scada/db"
	"github.com/Asadganteng/ruang-iklim-scada/entities"
)

type readingPgRepository struct {
	db db.Database
}

func NewReadingPgRepository(database db.Database) ReadingRepository {
	return &readingPgRepository{db: database}
}

func (r *readingPgRepository) Create(reading *entities.Reading) error {
	return r.db.GetDB().Create(reading).Error
}

// RecentDesc returns up to limit readings, newest first.
func (r *readingPgRepository) RecentDesc(limit int) ([]entities.Reading, error) {
	var readings []entities.Reading
	err := r.db.GetDB().Order("timestamp DESC").Limit(limit).Find(&readings).Error
	return readings, err
}
