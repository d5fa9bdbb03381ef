package bot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbraga/temu-price-bot/internal/browser/browsertest"
	"github.com/mbraga/temu-price-bot/internal/config"
	"github.com/mbraga/temu-price-bot/internal/delay"
	"github.com/mbraga/temu-price-bot/internal/orders"
	"github.com/mbraga/temu-price-bot/internal/scheduler"
)

func newTestBot(t *testing.T, stub *browsertest.Stub) *Bot {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		Browser: config.BrowserConfig{BaseURL: "https://www.temu.com"},
		Files: config.FileConfig{
			OrdersDir:   filepath.Join(dir, "orders"),
			SnapshotDir: filepath.Join(dir, "snapshots"),
		},
		Processing: config.ProcessingConfig{
			MaxAttempts:     5,
			MaxSubAttempts:  7,
			MaxOrdersPerRun: 10,
			WindowDays:      30,
		},
	}

	band := delay.Band{Min: 0, Max: 0}
	delays := delay.NewManual(band, band, func(time.Duration) {})

	store, err := orders.NewStore(filepath.Join(dir, "orders.json"))
	require.NoError(t, err)

	b := New(stub, delays, store, scheduler.New(filepath.Join(dir, "sched.json")), nil, nil, cfg)
	b.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	return b
}

func TestProcessOrderDetailPageNeverLoads(t *testing.T) {
	stub := browsertest.New()
	b := newTestBot(t, stub)

	summary := orders.Summary{ID: "PO-211-00000000000000001", Valid: true}
	outcome := b.processOrder(summary)

	assert.Equal(t, OutcomeIndeterminate, outcome)

	record, ok := b.store.Get(summary.ID)
	require.True(t, ok)
	assert.Equal(t, 5, record.Attempts)
	assert.Equal(t, orders.StatusFailed, record.AdjustmentStatus)
	assert.False(t, record.AdjustmentSuccess)
	assert.NotEmpty(t, record.LastError)
}

// installDetailPage scripts the stub so the detail page, tracking panel and
// adjustment button all resolve, with the dialog content supplied by the
// caller.
func installDetailPage(stub *browsertest.Stub, dialogText string) {
	stub.Elements[detailPageMarker.Selector] = &browsertest.StubElement{}
	stub.Elements[orderContainer.Selector] = &browsertest.StubElement{}
	stub.Elements[trackButtonStrategies[0].Selector] = &browsertest.StubElement{TextValue: "Track"}
	stub.Elements[trackingPanel.Selector] = &browsertest.StubElement{}
	stub.Elements[trackingNumberStrategies[0].Selector] = &browsertest.StubElement{
		TextValue: "Tracking Number: BR123 456 789 copy",
	}
	stub.Elements[deliveryInfo.Selector] = &browsertest.StubElement{TextValue: "Delivery: Mar 15-18"}
	stub.Elements[adjustmentButtonStrategies[0].Selector] = &browsertest.StubElement{
		TextValue: "Price adjustment",
	}
	stub.Elements[anyDialog.Selector] = &browsertest.StubElement{TextValue: dialogText}
}

func TestProcessOrderRejectionDialogStopsRetries(t *testing.T) {
	stub := browsertest.New()
	installDetailPage(stub, "Sorry, you cannot request a price adjustment")
	b := newTestBot(t, stub)

	summary := orders.Summary{ID: "PO-211-00000000000000002", Valid: true}
	outcome := b.processOrder(summary)

	assert.Equal(t, OutcomeUnavailable, outcome)

	record, ok := b.store.Get(summary.ID)
	require.True(t, ok)
	assert.Equal(t, 1, record.Attempts)
	assert.Equal(t, orders.StatusNotAvailable, record.AdjustmentStatus)
	assert.True(t, record.AdjustmentAttempted)
	assert.False(t, record.AdjustmentSuccess)
}

func TestProcessOrderExtractsTracking(t *testing.T) {
	stub := browsertest.New()
	installDetailPage(stub, "Sorry, you cannot request a price adjustment")
	b := newTestBot(t, stub)

	b.processOrder(orders.Summary{ID: "PO-211-00000000000000003", Valid: true})

	record, ok := b.store.Get("PO-211-00000000000000003")
	require.True(t, ok)
	assert.Equal(t, "BR123456789", record.Tracking.TrackingNumber)
	assert.Equal(t, "Delivery: Mar 15-18", record.Tracking.DeliveryText)
	assert.Equal(t, 1, stub.Backs)
}

func TestCleanTrackingNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tracking Number: BR123456789 copy", "BR123456789"},
		{"Tracking Number: BR 123 456", "BR123456"},
		{"BR999 888", "BR999888"},
		{"Tracking Number:copy", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanTrackingNumber(tt.in))
	}
}

func TestContainsAny(t *testing.T) {
	texts := []string{"Price adjustment", "Ajuste de preço"}
	assert.True(t, containsAny("  Price adjustment  ", texts))
	assert.True(t, containsAny("Ajuste de preço disponível", texts))
	assert.False(t, containsAny("View order details", texts))
}

// Degenerate bands make every draw deterministic, so the recorded sleep
// durations identify which configured band each workflow pause came from.
func TestWorkflowPausesDrawFromConfiguredBands(t *testing.T) {
	stub := browsertest.New()
	stub.Elements[orderContainer.Selector] = &browsertest.StubElement{}

	b := newTestBot(t, stub)

	var slept []time.Duration
	short := delay.Band{Min: time.Millisecond, Max: time.Millisecond}
	long := delay.Band{Min: 2 * time.Second, Max: 2 * time.Second}
	b.delays = delay.NewManual(short, long, func(d time.Duration) {
		slept = append(slept, d)
	})

	b.dismissPrivacyBanner()
	require.NoError(t, b.returnToOrdersPage())

	require.Len(t, slept, 2)
	assert.Equal(t, time.Millisecond, slept[0], "banner check pause comes from the short band")
	assert.Equal(t, 2*time.Second, slept[1], "orders page settle pause comes from the long band")
}
