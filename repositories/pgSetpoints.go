package repositories

import (
	"gorm.io/gorm/clause"

	"github.com/Asadganteng/ruang-iklim-scada/db"
	"github.com/Asadganteng/ruang-iklim-scada/entities"
)

type setpointPgRepository struct {
	db db.Database
}

func NewSetpointPgRepository(database db.Database) SetpointRepository {
	return &setpointPgRepository{db: database}
}

func (r *setpointPgRepository) GetByKey(key string) (*entities.Setpoint, error) {
	var setpoint entities.Setpoint
	err := r.db.GetDB().Where("id = ?", key).First(&setpoint).Error
	if err != nil {
		return nil, err
	}
	return &setpoint, nil
}

// Upsert inserts the setpoint row or replaces it in place. Last write wins;
// there is no version check.
func (r *setpointPgRepository) Upsert(setpoint *entities.Setpoint) error {
	return r.db.GetDB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(setpoint).Error
}
