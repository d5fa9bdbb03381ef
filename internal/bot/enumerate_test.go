package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbraga/temu-price-bot/internal/browser"
	"github.com/mbraga/temu-price-bot/internal/browser/browsertest"
	"github.com/mbraga/temu-price-bot/internal/orders"
)

func orderElement(id, date, items string) *browsertest.StubElement {
	return &browsertest.StubElement{
		Children: map[string]*browsertest.StubElement{
			orderIDStrategies[0].Selector:    {TextValue: id},
			orderDateStrategies[0].Selector:  {TextValue: date},
			orderItemsStrategies[0].Selector: {TextValue: items},
		},
	}
}

func TestCollectOrders(t *testing.T) {
	stub := browsertest.New()
	b := newTestBot(t, stub)

	stub.FindAllFunc = func(s browser.Strategy, timeout time.Duration) ([]browser.Element, error) {
		if s.Selector != orderListStrategies[0].Selector {
			return nil, browser.ErrNotFound
		}
		return []browser.Element{
			orderElement("Order #: PO-211-00000000000000001", "Mar 1 2024", "3 items"),
			orderElement("Order #: PO-211-00000000000000002", "Jan 5 2024", "1 item"),
		}, nil
	}

	summaries := b.collectOrders()
	require.Len(t, summaries, 2)

	first := summaries[0]
	assert.Equal(t, "PO-211-00000000000000001", first.ID)
	assert.Equal(t, "3", first.ItemCount)
	require.NotNil(t, first.Date)
	assert.True(t, first.Valid)

	// Jan 5 is outside the 30-day window relative to the fixed clock.
	second := summaries[1]
	assert.Equal(t, "PO-211-00000000000000002", second.ID)
	assert.Equal(t, "1", second.ItemCount)
	assert.False(t, second.Valid)
}

func TestCollectOrdersKeepsContainersWithoutID(t *testing.T) {
	stub := browsertest.New()
	b := newTestBot(t, stub)

	stub.FindAllFunc = func(s browser.Strategy, timeout time.Duration) ([]browser.Element, error) {
		if s.Selector != orderListStrategies[0].Selector {
			return nil, browser.ErrNotFound
		}
		return []browser.Element{
			orderElement("no order number here", "Mar 1 2024", "2 items"),
			orderElement("PO-211-00000000000000009", "Mar 2 2024", "2 items"),
		}, nil
	}

	// A container with no recognizable id still counts toward the totals,
	// enumerated under the sentinel id.
	summaries := b.collectOrders()
	require.Len(t, summaries, 2)
	assert.Equal(t, orders.Sentinel, summaries[0].ID)
	assert.Equal(t, "2", summaries[0].ItemCount)
	assert.Equal(t, "PO-211-00000000000000009", summaries[1].ID)
}

func TestCollectOrdersUnparseableDateIsKeptInvalid(t *testing.T) {
	stub := browsertest.New()
	b := newTestBot(t, stub)

	stub.FindAllFunc = func(s browser.Strategy, timeout time.Duration) ([]browser.Element, error) {
		if s.Selector != orderListStrategies[0].Selector {
			return nil, browser.ErrNotFound
		}
		return []browser.Element{
			orderElement("PO-211-00000000000000004", "sometime last week", "1 item"),
		}, nil
	}

	summaries := b.collectOrders()
	require.Len(t, summaries, 1)
	assert.Nil(t, summaries[0].Date)
	assert.False(t, summaries[0].Valid)
}

func TestExpandOrderListStopsWhenButtonGone(t *testing.T) {
	stub := browsertest.New()
	b := newTestBot(t, stub)

	clicks := 0
	btn := &browsertest.StubElement{TextValue: "View more"}
	stub.FindFunc = func(s browser.Strategy, timeout time.Duration) (browser.Element, error) {
		if s.Selector == viewMoreMarker.Selector && clicks < 2 {
			if s.State == browser.StateClickable {
				clicks++
			}
			return btn, nil
		}
		return nil, browser.ErrNotFound
	}

	b.expandOrderList()
	assert.Equal(t, 2, clicks)
	assert.Equal(t, 2, btn.Clicks)
}
