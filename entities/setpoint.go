package entities

import (
	"time"

	"gorm.io/gorm"
)

// SetpointKey is the fixed primary key of the single setpoint record. One
// control room, one row.
const SetpointKey = "control-room"

// Setpoint holds the operator's target values for the four measurements.
type Setpoint struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Light       float64   `json:"light"`
	Sound       float64   `json:"sound"`
	SavedAt     time.Time `json:"saved_at"`
}

func (s *Setpoint) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = SetpointKey
	}
	return
}

// DefaultSetpoint returns the hard-coded targets used when the store holds
// no setpoint record yet.
func DefaultSetpoint() Setpoint {
	return Setpoint{
		ID:          SetpointKey,
		Temperature: 25,
		Humidity:    60,
		Light:       300,
		Sound:       50,
	}
}

// TargetRange is the valid interval and step granularity for one target,
// enforced by the editing widget rather than the server.
type TargetRange struct {
	Min  float64
	Max  float64
	Step float64
}

var (
	TemperatureRange = TargetRange{Min: 15, Max: 40, Step: 0.5}
	HumidityRange    = TargetRange{Min: 30, Max: 90, Step: 1}
	LightRange       = TargetRange{Min: 0, Max: 1000, Step: 10}
	SoundRange       = TargetRange{Min: 30, Max: 80, Step: 1}
)

// Clamp pins v into the range.
func (r TargetRange) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}
