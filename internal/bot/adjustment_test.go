package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbraga/temu-price-bot/internal/browser/browsertest"
	"github.com/mbraga/temu-price-bot/internal/orders"
)

func TestAttemptAdjustmentButtonNeverAppears(t *testing.T) {
	stub := browsertest.New()
	b := newTestBot(t, stub)

	outcome, refund := b.attemptAdjustment("PO-211-00000000000000005")

	assert.Equal(t, OutcomeIndeterminate, outcome)
	assert.Empty(t, refund)

	// Every attempt but the last scrolls and reloads to defeat lazy loading.
	assert.Equal(t, 6, stub.Scrolls)
	assert.Equal(t, 6, stub.Reloads)
}

func TestAttemptAdjustmentIgnoresHiddenButtons(t *testing.T) {
	stub := browsertest.New()
	stub.Elements[adjustmentButtonStrategies[0].Selector] = &browsertest.StubElement{
		TextValue: "Price adjustment",
		Hidden:    true,
	}
	b := newTestBot(t, stub)

	outcome, _ := b.attemptAdjustment("PO-211-00000000000000006")
	assert.Equal(t, OutcomeIndeterminate, outcome)
}

func TestAttemptAdjustmentRejectsWrongButtonText(t *testing.T) {
	stub := browsertest.New()
	stub.Elements[adjustmentButtonStrategies[8].Selector] = &browsertest.StubElement{
		TextValue: "Something unrelated",
	}
	b := newTestBot(t, stub)

	outcome, _ := b.attemptAdjustment("PO-211-00000000000000007")
	assert.Equal(t, OutcomeIndeterminate, outcome)
}

// installWizard scripts the stub with the full happy-path wizard: form
// heading, request button, refund method, submit button, confirmation and a
// refund amount element.
func installWizard(stub *browsertest.Stub) {
	stub.Elements[adjustmentButtonStrategies[0].Selector] = &browsertest.StubElement{
		TextValue: "Price adjustment",
	}
	stub.Elements[anyDialog.Selector] = &browsertest.StubElement{
		TextValue: "Request a price adjustment",
	}
	stub.Elements[adjustmentHeading.Selector] = &browsertest.StubElement{}
	stub.Elements[buttonWithText("Request a price adjustment").Selector] = &browsertest.StubElement{
		TextValue: "Request a price adjustment",
	}
	stub.Elements[refundMethodHeading.Selector] = &browsertest.StubElement{}
	stub.Elements[elementWithText("Receive in seconds").Selector] = &browsertest.StubElement{
		TextValue: "Receive in seconds",
	}
	stub.Elements[buttonWithText("Submit").Selector] = &browsertest.StubElement{
		TextValue: "Submit",
	}
	stub.Elements[anyWithText("Your refund is being processed").Selector] = &browsertest.StubElement{
		TextValue: "Your refund is being processed",
	}
	stub.Elements[refundAmountElements.Selector] = &browsertest.StubElement{
		TextValue: "R$ 12,34",
	}
}

func TestAttemptAdjustmentFullWizardSuccess(t *testing.T) {
	stub := browsertest.New()
	installWizard(stub)
	b := newTestBot(t, stub)

	outcome, refund := b.attemptAdjustment("PO-211-00000000000000008")

	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Equal(t, "R$ 12,34", refund)
}

func TestWizardMissingConfirmationFails(t *testing.T) {
	stub := browsertest.New()
	installWizard(stub)
	delete(stub.Elements, anyWithText("Your refund is being processed").Selector)
	b := newTestBot(t, stub)

	outcome, refund := b.attemptAdjustment("PO-211-00000000000000010")

	assert.Equal(t, OutcomeUnavailable, outcome)
	assert.Empty(t, refund)
}

func TestExtractRefundAmountRequiresCurrency(t *testing.T) {
	stub := browsertest.New()
	stub.Elements[refundAmountElements.Selector] = &browsertest.StubElement{
		TextValue: "no currency here",
	}
	b := newTestBot(t, stub)

	assert.Equal(t, orders.Sentinel, b.extractRefundAmount())
}

func TestSuccessRecordsSchedulerHistory(t *testing.T) {
	stub := browsertest.New()
	installDetailPage(stub, "Request a price adjustment")
	installWizard(stub)
	b := newTestBot(t, stub)

	summary := orders.Summary{ID: "PO-211-00000000000000011", Valid: true}
	outcome := b.processOrder(summary)

	require.Equal(t, OutcomeSuccess, outcome)

	record, ok := b.store.Get(summary.ID)
	require.True(t, ok)
	assert.Equal(t, 1, record.Attempts)
	assert.Equal(t, orders.StatusSuccess, record.AdjustmentStatus)
	assert.True(t, record.AdjustmentSuccess)
	assert.Equal(t, "R$ 12,34", record.RefundAmount)

	next := b.sched.NextRunTime()
	assert.False(t, next.IsZero())
}
