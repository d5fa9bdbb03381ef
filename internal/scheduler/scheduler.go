// Package scheduler decides when the next run should happen, biased toward
// hours that historically produced successful adjustments and jittered so
// the schedule never looks fixed.
package scheduler

import (
	"encoding/json"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strconv"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// State is the persisted success history. It grows indefinitely; nothing
// prunes it.
type State struct {
	Hours      map[string]int `json:"hours"`
	Timestamps []string       `json:"timestamps"`
}

type Scheduler struct {
	mu     sync.Mutex
	file   string
	state  State
	rand   *rand.Rand
	now    func() time.Time
	logger *slog.Logger
}

func New(file string) *Scheduler {
	s := &Scheduler{
		file:   file,
		state:  State{Hours: make(map[string]int)},
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
		logger: slog.Default().With("component", "scheduler"),
	}
	s.load()
	return s
}

// RecordSuccess appends a successful adjustment to the history and persists
// the new state immediately.
func (s *Scheduler) RecordSuccess(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := hourKey(t.Hour())
	s.state.Hours[key]++
	s.state.Timestamps = append(s.state.Timestamps, t.Format(time.RFC3339))

	if err := s.save(); err != nil {
		s.logger.Error("failed to save scheduler state", "error", err)
	}
}

// NextRunTime produces a plausible future timestamp biased toward
// historically successful hours. With no history it picks a uniformly random
// working hour tomorrow; otherwise it fits a linear trend over past success
// hours, falling back to the most frequent hour when the fit degenerates.
// Up to ±30 minutes of jitter are added, and a time already past rolls over
// to the next day.
func (s *Scheduler) NextRunTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if len(s.state.Timestamps) == 0 {
		hour := 9 + s.rand.Intn(9)
		return atHour(now, hour).AddDate(0, 0, 1)
	}

	hour, ok := s.trendHour(now)
	if !ok {
		hour = s.frequentHour()
		s.logger.Info("trend model unavailable, using most frequent success hour", "hour", hour)
	}

	jitter := time.Duration(s.rand.Intn(61)-30) * time.Minute
	next := atHour(now, hour).Add(jitter)
	if next.Before(now) {
		next = next.AddDate(0, 0, 1)
	}

	return next
}

// trendHour fits hour-of-day against time over all recorded successes and
// extrapolates to tomorrow, clamped to [9,21].
func (s *Scheduler) trendHour(now time.Time) (int, bool) {
	xs := make([]float64, 0, len(s.state.Timestamps))
	ys := make([]float64, 0, len(s.state.Timestamps))

	for _, raw := range s.state.Timestamps {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			continue
		}
		xs = append(xs, float64(t.Unix()))
		ys = append(ys, float64(t.Hour()))
	}

	if len(xs) < 2 {
		return 0, false
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	predicted := alpha + beta*float64(now.AddDate(0, 0, 1).Unix())
	if math.IsNaN(predicted) || math.IsInf(predicted, 0) {
		return 0, false
	}

	hour := int(math.Round(predicted)) % 24
	if hour < 0 {
		hour += 24
	}
	if hour < 9 {
		hour = 9
	}
	if hour > 21 {
		hour = 21
	}

	return hour, true
}

// frequentHour returns the hour with the most recorded successes, or a
// random working hour when the histogram is empty.
func (s *Scheduler) frequentHour() int {
	best, bestCount := -1, -1
	for key, count := range s.state.Hours {
		hour, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if count > bestCount || (count == bestCount && hour < best) {
			best, bestCount = hour, count
		}
	}

	if best < 0 {
		return 9 + s.rand.Intn(9)
	}

	return best
}

func (s *Scheduler) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := s.file + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, s.file)
}

func (s *Scheduler) load() {
	data, err := os.ReadFile(s.file)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("failed to read scheduler state", "error", err)
		}
		return
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("corrupted scheduler state, starting fresh", "error", err)
		return
	}

	if state.Hours == nil {
		state.Hours = make(map[string]int)
	}
	s.state = state
}

func atHour(now time.Time, hour int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
}

func hourKey(hour int) string {
	return strconv.Itoa(hour)
}
