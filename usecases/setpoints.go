package usecases

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Asadganteng/ruang-iklim-scada/entities"
	"github.com/Asadganteng/ruang-iklim-scada/repositories"
)

// SetpointUseCase is the single authoritative in-memory copy of the
// operator's targets, synchronized with the store on explicit load and save.
//
// Error policy is uniform: reads degrade silently to the defaults with a
// warn log, writes surface their failure to the caller. In both save
// outcomes the in-memory targets are what the operator last confirmed; a
// failed save changes nothing.
type SetpointUseCase struct {
	repo repositories.SetpointRepository
	log  *zap.SugaredLogger

	mu      sync.RWMutex
	current entities.Setpoint
	saving  bool
}

func NewSetpointUseCase(repo repositories.SetpointRepository, log *zap.SugaredLogger) *SetpointUseCase {
	return &SetpointUseCase{
		repo:    repo,
		log:     log,
		current: entities.DefaultSetpoint(),
	}
}

// Load fetches the setpoint record by its fixed key. A missing record or a
// store failure leaves the hard-coded defaults in place.
func (uc *SetpointUseCase) Load() entities.Setpoint {
	setpoint, err := uc.repo.GetByKey(entities.SetpointKey)
	if err != nil {
		uc.log.Warnw("setpoint load failed, keeping defaults", "error", err)
		return uc.Current()
	}

	uc.mu.Lock()
	uc.current = *setpoint
	uc.mu.Unlock()
	return *setpoint
}

// Save upserts the given targets under the fixed key, stamped with the save
// instant. On failure the in-memory targets are unchanged and the error is
// returned for the caller to surface. Concurrent saves are not rejected:
// last write wins, and the saving flag is informational only.
func (uc *SetpointUseCase) Save(setpoint entities.Setpoint) error {
	uc.mu.Lock()
	uc.saving = true
	uc.mu.Unlock()

	defer func() {
		uc.mu.Lock()
		uc.saving = false
		uc.mu.Unlock()
	}()

	setpoint.ID = entities.SetpointKey
	setpoint.SavedAt = time.Now().UTC()

	if err := uc.repo.Upsert(&setpoint); err != nil {
		return err
	}

	uc.mu.Lock()
	uc.current = setpoint
	uc.mu.Unlock()
	return nil
}

// Current returns the in-memory targets.
func (uc *SetpointUseCase) Current() entities.Setpoint {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.current
}

// Saving reports whether a save request is in flight.
func (uc *SetpointUseCase) Saving() bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.saving
}
