package bot

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Stats is a plain snapshot of run counters, safe to copy and serialize.
// AdjustmentAvailable is carried for record-shape compatibility; no workflow
// step increments it. Duration is minutes since the run started, final once
// EndTime is set.
type Stats struct {
	TotalOrders         int       `json:"total_orders"`
	ValidOrders         int       `json:"valid_orders"`
	Processed           int       `json:"processed"`
	Success             int       `json:"success"`
	Failures            int       `json:"failures"`
	AdjustmentAvailable int       `json:"adjustment_available"`
	AdjustmentBlocked   int       `json:"adjustment_not_available"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time,omitempty"`
	Duration            float64   `json:"duration"`
}

// RunStats accumulates counters for a single run. Safe for concurrent use so
// the status API can read it while a run is in flight.
type RunStats struct {
	mu sync.Mutex
	s  Stats
}

func NewRunStats() *RunStats {
	return &RunStats{s: Stats{StartTime: time.Now()}}
}

// Reset zeroes the counters for a fresh run. The bot reuses one RunStats
// across runs so readers holding the pointer never observe a swap.
func (r *RunStats) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s = Stats{StartTime: time.Now()}
}

func (r *RunStats) SetOrderCounts(total, valid int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.TotalOrders = total
	r.s.ValidOrders = valid
}

func (r *RunStats) IncProcessed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Processed++
}

func (r *RunStats) IncSuccess() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Success++
}

func (r *RunStats) IncFailures() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Failures++
}

func (r *RunStats) IncBlocked() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.AdjustmentBlocked++
}

func (r *RunStats) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.EndTime = time.Now()
	r.s.Duration = r.s.EndTime.Sub(r.s.StartTime).Minutes()
}

// Snapshot returns a copy of the counters. While the run is in flight the
// duration reflects elapsed time so far.
func (r *RunStats) Snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.s
	if s.EndTime.IsZero() {
		s.Duration = time.Since(s.StartTime).Minutes()
	}
	return s
}

// PrintSummary renders the run counters as a bordered box on stdout. Green
// when at least one adjustment succeeded, red when there were only failures,
// yellow otherwise.
func (r *RunStats) PrintSummary() {
	snap := r.Snapshot()

	lines := []string{
		fmt.Sprintf("Total orders: %d", snap.TotalOrders),
		fmt.Sprintf("Valid orders: %d", snap.ValidOrders),
		fmt.Sprintf("Processed orders: %d", snap.Processed),
		fmt.Sprintf("Successful adjustments: %d", snap.Success),
		fmt.Sprintf("Adjustment not available: %d", snap.AdjustmentBlocked),
		fmt.Sprintf("Failures: %d", snap.Failures),
		fmt.Sprintf("Execution time: %.2f minutes", snap.Duration),
	}

	var c *color.Color
	switch {
	case snap.Success > 0:
		c = color.New(color.FgGreen)
	case snap.Failures > 0:
		c = color.New(color.FgRed)
	default:
		c = color.New(color.FgYellow)
	}

	title := "EXECUTION SUMMARY"
	width := len(title)
	for _, line := range lines {
		if len(line) > width {
			width = len(line)
		}
	}

	border := strings.Repeat("═", width+4)
	c.Printf("╔%s╗\n", border)
	c.Printf("║  %-*s  ║\n", width, title)
	c.Printf("╠%s╣\n", border)
	for _, line := range lines {
		c.Printf("║  %-*s  ║\n", width, line)
	}
	c.Printf("╚%s╝\n", border)
}
