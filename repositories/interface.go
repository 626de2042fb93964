package repositories

import "github.com/Asadganteng/ruang-iklim-scada/entities"

type ReadingRepository interface {
	Create(reading *entities.Reading) error
	RecentDesc(limit int) ([]entities.Reading, error)
}

type SetpointRepository interface {
	GetByKey(key string) (*entities.Setpoint, error)
	Upsert(setpoint *entities.Setpoint) error
}
