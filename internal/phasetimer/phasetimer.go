// Package phasetimer provides the one-second countdown that bounds each
// timed experiment phase.
//
// Every Timer carries a process-unique ID and every tick it schedules is
// tagged with that ID. A timer that has been cancelled or has already
// expired ignores its own in-flight ticks, and ticks for other IDs are never
// mistaken for its own, so a stale tick from a previous phase can not end
// the next one early.
package phasetimer

import (
	"fmt"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
)

// Interval is the tick period.
const Interval = time.Second

var lastID atomic.Uint64

// TickMsg is delivered once per Interval for the timer with the given ID.
type TickMsg struct {
	ID   uint64
	Time time.Time
}

// Timer counts down a fixed duration.
type Timer struct {
	id        uint64
	duration  time.Duration
	remaining time.Duration
	running   bool
	cancelled bool
	expired   bool
}

// New creates a stopped timer for d. Non-positive durations expire on the
// first tick.
func New(d time.Duration) *Timer {
	if d < 0 {
		d = 0
	}
	return &Timer{
		id:        lastID.Add(1),
		duration:  d,
		remaining: d,
	}
}

// ID returns the process-unique timer id.
func (t *Timer) ID() uint64 {
	return t.id
}

// Duration returns the configured length.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Remaining returns the time left, never negative.
func (t *Timer) Remaining() time.Duration {
	return t.remaining
}

// Running reports whether the timer is counting down.
func (t *Timer) Running() bool {
	return t.running && !t.cancelled && !t.expired
}

// Expired reports whether the countdown reached zero.
func (t *Timer) Expired() bool {
	return t.expired
}

// Start begins the countdown and returns the first tick command. Starting a
// cancelled, expired or already running timer returns nil.
func (t *Timer) Start() tea.Cmd {
	if t.running || t.cancelled || t.expired {
		return nil
	}
	t.running = true
	return t.tick()
}

// Cancel stops the timer. Ticks already scheduled are dropped when they
// arrive.
func (t *Timer) Cancel() {
	t.cancelled = true
	t.running = false
}

// Update consumes a tick. It returns expired == true exactly once, on the
// tick that brings the remaining time to zero, and the command scheduling
// the next tick while time remains. Ticks for other timers, and ticks that
// arrive after Cancel or expiry, are ignored.
func (t *Timer) Update(msg TickMsg) (expired bool, cmd tea.Cmd) {
	if msg.ID != t.id || !t.Running() {
		return false, nil
	}

	t.remaining -= Interval
	if t.remaining <= 0 {
		t.remaining = 0
		t.expired = true
		t.running = false
		return true, nil
	}
	return false, t.tick()
}

func (t *Timer) tick() tea.Cmd {
	id := t.id
	return tea.Tick(Interval, func(now time.Time) tea.Msg {
		return TickMsg{ID: id, Time: now}
	})
}

// Format renders d as MM:SS, rounding partial seconds up.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
