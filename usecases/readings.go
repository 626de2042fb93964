package usecases

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Asadganteng/ruang-iklim-scada/entities"
	"github.com/Asadganteng/ruang-iklim-scada/repositories"
	"github.com/Asadganteng/ruang-iklim-scada/services"
	"github.com/Asadganteng/ruang-iklim-scada/ws"
)

type ReadingUseCase struct {
	repo  repositories.ReadingRepository
	hub   *ws.Hub
	clock *services.Clock
	log   *zap.SugaredLogger
}

func NewReadingUseCase(repo repositories.ReadingRepository, hub *ws.Hub, clock *services.Clock, log *zap.SugaredLogger) *ReadingUseCase {
	return &ReadingUseCase{repo: repo, hub: hub, clock: clock, log: log}
}

// Ingest persists one reading and publishes it on the change-notification
// hub. The store assigns the ID; missing measurements stay nil.
func (uc *ReadingUseCase) Ingest(reading *entities.Reading) error {
	if reading == nil {
		return errors.New("reading is required")
	}
	if reading.Temperature == nil && reading.Humidity == nil &&
		reading.Light == nil && reading.Sound == nil {
		return errors.New("reading must carry at least one measurement")
	}

	if err := uc.repo.Create(reading); err != nil {
		return err
	}

	reading.DisplayTime = uc.clock.Display(reading.Timestamp)
	uc.hub.Publish(*reading)
	return nil
}

// Recent returns up to limit readings in chronological order, newest last,
// with display times attached.
func (uc *ReadingUseCase) Recent(limit int) ([]entities.Reading, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}

	readings, err := uc.repo.RecentDesc(limit)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(readings)-1; i < j; i, j = i+1, j-1 {
		readings[i], readings[j] = readings[j], readings[i]
	}
	for i := range readings {
		readings[i].DisplayTime = uc.clock.Display(readings[i].Timestamp)
	}
	return readings, nil
}
