package captcha

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mbraga/temu-price-bot/internal/browser"
	"github.com/mbraga/temu-price-bot/internal/browser/browsertest"
	"github.com/mbraga/temu-price-bot/internal/delay"
)

type fakeSolver struct {
	err   error
	calls int
}

func (f *fakeSolver) Solve(pc browser.Controller) error {
	f.calls++
	return f.err
}

func fastDelays() *delay.Policy {
	return delay.NewManual(delay.Band{}, delay.Band{}, func(time.Duration) {})
}

func TestGatePassesWhenSolverSucceeds(t *testing.T) {
	pc := browsertest.New()
	solver := &fakeSolver{}

	g := NewGate(pc, solver, fastDelays(), time.Second)
	assert.NoError(t, g.Pass())
	assert.Equal(t, 1, solver.calls)
}

func TestGateFallsBackToHumanWindow(t *testing.T) {
	pc := browsertest.New()
	// Password field visible: the human finished the challenge.
	pc.Elements["//input[@aria-label='Password']"] = &browsertest.StubElement{}

	solver := &fakeSolver{err: errors.New("service down")}
	g := NewGate(pc, solver, fastDelays(), time.Second)

	assert.NoError(t, g.Pass())
}

func TestGateFailsWhenWindowElapses(t *testing.T) {
	pc := browsertest.New() // password field never appears

	solver := &fakeSolver{err: errors.New("service down")}
	g := NewGate(pc, solver, fastDelays(), time.Millisecond)

	err := g.Pass()
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestAPISolverRequiresKey(t *testing.T) {
	s := NewAPISolver("", "https://example.invalid/solve")
	assert.Error(t, s.Solve(browsertest.New()))
}
