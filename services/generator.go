package services

import (
	"math/rand"
	"time"

	"github.com/Asadganteng/ruang-iklim-scada/entities"
)

// Noise half-widths for synthetic samples, per measurement.
const (
	temperatureJitter = 0.3
	humidityJitter    = 1.0
	lightJitter       = 5.0
	soundJitter       = 2.0
)

// Generator produces synthetic readings near a target baseline. With a fixed
// rand source it is fully deterministic.
type Generator struct {
	clock *Clock
	rng   *rand.Rand
}

func NewGenerator(clock *Clock, rng *rand.Rand) *Generator {
	return &Generator{clock: clock, rng: rng}
}

// Next returns one reading with each measurement uniformly perturbed around
// the baseline target. The ID continues from prev, starting at 1 when there
// is no previous reading.
func (g *Generator) Next(baseline entities.Setpoint, prev *entities.Reading) entities.Reading {
	var id uint = 1
	if prev != nil {
		id = prev.ID + 1
	}

	now := time.Now()
	return entities.Reading{
		ID:          id,
		Timestamp:   now,
		Temperature: ptr(baseline.Temperature + g.jitter(temperatureJitter)),
		Humidity:    ptr(baseline.Humidity + g.jitter(humidityJitter)),
		Light:       ptr(baseline.Light + g.jitter(lightJitter)),
		Sound:       ptr(baseline.Sound + g.jitter(soundJitter)),
		DisplayTime: g.clock.Display(now),
	}
}

// jitter returns a uniform value in [-halfWidth, +halfWidth].
func (g *Generator) jitter(halfWidth float64) float64 {
	return (g.rng.Float64()*2 - 1) * halfWidth
}

func ptr(v float64) *float64 { return &v }
