package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asadganteng/ruang-iklim-scada/entities"
)

func testGenerator(t *testing.T, seed int64) *Generator {
	t.Helper()
	clock, err := NewClock("Asia/Jakarta")
	require.NoError(t, err)
	return NewGenerator(clock, rand.New(rand.NewSource(seed)))
}

func TestGeneratorNoiseBounds(t *testing.T) {
	gen := testGenerator(t, 42)
	baseline := entities.DefaultSetpoint()

	var prev *entities.Reading
	for i := 0; i < 200; i++ {
		r := gen.Next(baseline, prev)

		require.NotNil(t, r.Temperature)
		require.NotNil(t, r.Humidity)
		require.NotNil(t, r.Light)
		require.NotNil(t, r.Sound)

		assert.InDelta(t, baseline.Temperature, *r.Temperature, 0.3)
		assert.InDelta(t, baseline.Humidity, *r.Humidity, 1.0)
		assert.InDelta(t, baseline.Light, *r.Light, 5.0)
		assert.InDelta(t, baseline.Sound, *r.Sound, 2.0)

		prev = &r
	}
}

func TestGeneratorIDContinuation(t *testing.T) {
	gen := testGenerator(t, 1)
	baseline := entities.DefaultSetpoint()

	first := gen.Next(baseline, nil)
	assert.Equal(t, uint(1), first.ID)

	second := gen.Next(baseline, &first)
	assert.Equal(t, uint(2), second.ID)

	resumed := gen.Next(baseline, &entities.Reading{ID: 499})
	assert.Equal(t, uint(500), resumed.ID)
}

func TestGeneratorDeterministicWithFixedSource(t *testing.T) {
	baseline := entities.DefaultSetpoint()

	a := testGenerator(t, 7).Next(baseline, nil)
	b := testGenerator(t, 7).Next(baseline, nil)

	assert.Equal(t, *a.Temperature, *b.Temperature)
	assert.Equal(t, *a.Humidity, *b.Humidity)
	assert.Equal(t, *a.Light, *b.Light)
	assert.Equal(t, *a.Sound, *b.Sound)
}

func TestGeneratorAttachesDisplayTime(t *testing.T) {
	gen := testGenerator(t, 3)
	r := gen.Next(entities.DefaultSetpoint(), nil)

	assert.NotEmpty(t, r.DisplayTime)
	assert.False(t, r.Timestamp.IsZero())
}
