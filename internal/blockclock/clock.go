// Package blockclock supplies the engine's ambient height and time source.
package blockclock

import (
	"sync"
	"time"
)

// System derives a synthetic block height from wall-clock time at a fixed
// block interval. Suitable for standalone deployments without a consensus
// layer underneath.
type System struct {
	start     time.Time
	blockTime time.Duration
}

// NewSystem creates a wall-clock-backed block clock ticking every blockTime.
func NewSystem(blockTime time.Duration) *System {
	if blockTime <= 0 {
		blockTime = time.Second
	}
	return &System{start: time.Now(), blockTime: blockTime}
}

// Height returns the number of whole block intervals elapsed since start,
// beginning at height 1.
func (s *System) Height() int64 {
	return int64(time.Since(s.start)/s.blockTime) + 1
}

// Now returns the current wall-clock time.
func (s *System) Now() time.Time {
	return time.Now()
}

// Manual is a fully controlled clock for tests and simulations.
type Manual struct {
	mu     sync.RWMutex
	height int64
	now    time.Time
}

// NewManual creates a manual clock at the given height and time.
func NewManual(height int64, now time.Time) *Manual {
	return &Manual{height: height, now: now}
}

func (m *Manual) Height() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.height
}

func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// SetHeight moves the clock to a specific height.
func (m *Manual) SetHeight(height int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.height = height
}

// SetTime moves the clock to a specific time.
func (m *Manual) SetTime(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Advance moves the clock forward by blocks and duration together.
func (m *Manual) Advance(blocks int64, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.height += blocks
	m.now = m.now.Add(d)
}
