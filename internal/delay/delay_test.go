package delay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelaysStayWithinBand(t *testing.T) {
	var slept []time.Duration
	p := NewManual(
		Band{Min: 500 * time.Millisecond, Max: 5 * time.Second},
		Band{Min: 10 * time.Second, Max: 30 * time.Second},
		func(d time.Duration) { slept = append(slept, d) },
	)

	for i := 0; i < 100; i++ {
		d := p.Short("test")
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.Less(t, d, 5*time.Second)
	}

	for i := 0; i < 100; i++ {
		d := p.Long("test")
		assert.GreaterOrEqual(t, d, 10*time.Second)
		assert.Less(t, d, 30*time.Second)
	}

	assert.Len(t, slept, 200)
}

func TestRangeUsesExplicitBand(t *testing.T) {
	p := NewManual(Band{}, Band{}, func(time.Duration) {})

	for i := 0; i < 50; i++ {
		d := p.Range(3*time.Second, 6*time.Second, "before captcha")
		assert.GreaterOrEqual(t, d, 3*time.Second)
		assert.Less(t, d, 6*time.Second)
	}
}

func TestDegenerateBandReturnsMin(t *testing.T) {
	p := NewManual(Band{Min: time.Second, Max: time.Second}, Band{}, func(time.Duration) {})
	assert.Equal(t, time.Second, p.Short("fixed"))
}
