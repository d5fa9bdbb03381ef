// Package delay produces the randomized waits inserted between UI actions.
// Uniform pacing is a bot-detection signal, so every pause is drawn from a
// band rather than fixed.
package delay

import (
	"log/slog"
	"math/rand"
	"time"
)

type Band struct {
	Min time.Duration
	Max time.Duration
}

type Policy struct {
	short  Band
	long   Band
	rand   *rand.Rand
	logger *slog.Logger
	sleep  func(time.Duration)
}

func New(short, long Band) *Policy {
	return &Policy{
		short:  short,
		long:   long,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: slog.Default().With("component", "delay"),
		sleep:  time.Sleep,
	}
}

// NewManual returns a policy whose sleeps are routed through the given
// function. Tests pass a no-op to run the workflow at full speed.
func NewManual(short, long Band, sleep func(time.Duration)) *Policy {
	p := New(short, long)
	p.sleep = sleep
	return p
}

// Short waits within the short band, used between fine-grained actions such
// as typing and clicking.
func (p *Policy) Short(reason string) time.Duration {
	return p.wait(p.short, reason)
}

// Long waits within the long band, used between page loads and between
// orders, where async content needs time to settle.
func (p *Policy) Long(reason string) time.Duration {
	return p.wait(p.long, reason)
}

// Range waits within an explicit band for the rare call site whose pacing
// is dictated externally, such as the pre-solve pause before handing the
// page to the captcha solver.
func (p *Policy) Range(min, max time.Duration, reason string) time.Duration {
	return p.wait(Band{Min: min, Max: max}, reason)
}

func (p *Policy) wait(b Band, reason string) time.Duration {
	d := p.pick(b)
	p.logger.Debug("delaying", "duration", d, "reason", reason)
	p.sleep(d)
	return d
}

func (p *Policy) pick(b Band) time.Duration {
	if b.Max <= b.Min {
		return b.Min
	}
	return b.Min + time.Duration(p.rand.Int63n(int64(b.Max-b.Min)))
}
