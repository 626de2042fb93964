package entities

import (
	"time"

	"gorm.io/gorm"
)

// Reading is one timestamped sample of the four monitored measurements.
// Measurement fields are pointers: a sensor that did not report a value
// stays nil through storage and transport and is rendered as a placeholder,
// never as zero.
type Reading struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
	Temperature *float64  `json:"temperature"`
	Humidity    *float64  `json:"humidity"`
	Light       *float64  `json:"light"`
	Sound       *float64  `json:"sound"`
	DisplayTime string    `gorm:"-" json:"display_time,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *Reading) BeforeCreate(tx *gorm.DB) (err error) {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	return
}
