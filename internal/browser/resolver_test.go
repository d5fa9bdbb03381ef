package browser_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbraga/temu-price-bot/internal/browser"
	"github.com/mbraga/temu-price-bot/internal/browser/browsertest"
)

func TestResolveReturnsFirstMatch(t *testing.T) {
	pc := browsertest.New()
	pc.Elements[".second"] = &browsertest.StubElement{TextValue: "second"}
	pc.Elements[".third"] = &browsertest.StubElement{TextValue: "third"}

	strategies := []browser.Strategy{
		browser.CSS(".first", browser.StateVisible),
		browser.CSS(".second", browser.StateVisible),
		browser.CSS(".third", browser.StateVisible),
	}

	el, err := browser.Resolve(pc, strategies, time.Second)
	require.NoError(t, err)

	text, err := el.Text()
	require.NoError(t, err)
	assert.Equal(t, "second", text)
}

func TestResolveExhaustedReturnsNotFound(t *testing.T) {
	pc := browsertest.New()

	strategies := []browser.Strategy{
		browser.CSS(".a", browser.StateVisible),
		browser.XPath("//div[@id='b']", browser.StatePresent),
	}

	_, err := browser.Resolve(pc, strategies, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrNotFound)
}

func TestResolveTextFallsBackToSentinel(t *testing.T) {
	pc := browsertest.New()

	got := browser.ResolveText(pc, []browser.Strategy{
		browser.CSS(".missing", browser.StateVisible),
	}, time.Second, "N/A")
	assert.Equal(t, "N/A", got)

	pc.Elements[".present"] = &browsertest.StubElement{TextValue: "  PO-123  "}
	got = browser.ResolveText(pc, []browser.Strategy{
		browser.CSS(".present", browser.StateVisible),
	}, time.Second, "N/A")
	assert.Equal(t, "PO-123", got)
}

func TestResolveInSearchesScopedStrategies(t *testing.T) {
	parent := &browsertest.StubElement{
		Children: map[string]*browsertest.StubElement{
			".id": {TextValue: "PO-42"},
		},
	}

	el, err := browser.ResolveIn(parent,
		browser.CSS(".missing", browser.StatePresent),
		browser.CSS(".id", browser.StatePresent),
	)
	require.NoError(t, err)

	text, _ := el.Text()
	assert.Equal(t, "PO-42", text)

	_, err = browser.ResolveIn(parent, browser.CSS(".nope", browser.StatePresent))
	assert.ErrorIs(t, err, browser.ErrNotFound)
}

func TestTextInFallback(t *testing.T) {
	parent := &browsertest.StubElement{}
	assert.Equal(t, "N/A", browser.TextIn(parent, "N/A", browser.CSS(".x", browser.StatePresent)))
}
