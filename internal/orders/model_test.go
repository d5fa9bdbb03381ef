package orders

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Whatever sequence of outcomes a record goes through, a set success flag
// must always be accompanied by the success status.
func TestSuccessFlagImpliesSuccessStatus(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		r := NewRecord(Summary{ID: "PO-x"})

		steps := rng.Intn(6)
		for j := 0; j < steps; j++ {
			switch rng.Intn(3) {
			case 0:
				r.MarkSuccess("R$ 10,00")
			case 1:
				r.MarkUnavailable()
			case 2:
				r.MarkFailed("timeout")
			}
		}

		if r.AdjustmentSuccess {
			assert.Equal(t, StatusSuccess, r.AdjustmentStatus)
		}
	}
}

func TestNewRecordDefaults(t *testing.T) {
	r := NewRecord(Summary{ID: "PO-1"})

	assert.Equal(t, StatusNotAttempted, r.AdjustmentStatus)
	assert.False(t, r.AdjustmentAttempted)
	assert.False(t, r.AdjustmentSuccess)
	assert.Equal(t, Sentinel, r.Tracking.TrackingNumber)
	assert.Equal(t, Sentinel, r.Tracking.DeliveryText)
}

func TestMarkTransitions(t *testing.T) {
	r := NewRecord(Summary{ID: "PO-1"})

	r.MarkFailed("dialog never appeared")
	assert.Equal(t, StatusFailed, r.AdjustmentStatus)
	assert.Equal(t, "dialog never appeared", r.LastError)
	assert.True(t, r.AdjustmentAttempted)

	r.MarkSuccess("R$ 8,20")
	assert.Equal(t, StatusSuccess, r.AdjustmentStatus)
	assert.True(t, r.AdjustmentSuccess)
	assert.Empty(t, r.LastError)
	assert.Equal(t, "R$ 8,20", r.RefundAmount)
}
