// Package clock provides the logical clock that drives time-gated
// animation. One clock is shared by every layer of a composition; it only
// advances while running, by a fixed delta per tick.
package clock

import (
	"math"
	"slices"
)

// Forever is the duration of a window that never expires.
var Forever = math.Inf(1)

// Window is the inclusive time range [Start, Start+Duration] in which a
// subscription fires.
type Window struct {
	Start    float64
	Duration float64
}

// Always is the window that is active from time zero onwards.
var Always = Window{Start: 0, Duration: Forever}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t float64) bool {
	return t >= w.Start && t <= w.Start+w.Duration
}

// Func is invoked with the tick delta.
type Func func(delta float64)

// Subscription is a callback registered on a Clock.
type Subscription struct {
	owner  any
	window Window
	fn     Func
	active bool
}

func (s *Subscription) Owner() any     { return s.owner }
func (s *Subscription) Window() Window { return s.window }
func (s *Subscription) Active() bool   { return s.active }

// Clock is a monotonically non-decreasing counter. It is not safe for
// concurrent use; callers serialize access the way a frame loop does.
type Clock struct {
	now     float64
	delta   float64
	running bool
	subs    []*Subscription
}

// New returns a stopped clock at time zero advancing by delta per tick.
func New(delta float64) *Clock {
	return &Clock{delta: delta}
}

func (c *Clock) Now() float64   { return c.now }
func (c *Clock) Delta() float64 { return c.delta }
func (c *Clock) Running() bool  { return c.running }
func (c *Clock) Start()         { c.running = true }
func (c *Clock) Stop()          { c.running = false }

// SetDelta changes the step used by later ticks.
func (c *Clock) SetDelta(d float64) { c.delta = d }

// Len returns the number of active subscriptions.
func (c *Clock) Len() int { return len(c.subs) }

// Tick advances the clock by one delta and then calls, in registration
// order, every subscription whose window contains the new time. It does
// nothing and returns false while the clock is stopped. Subscriptions
// added during dispatch first fire on the next tick; subscriptions
// removed during dispatch do not fire.
func (c *Clock) Tick() bool {
	if !c.running {
		return false
	}
	c.now += c.delta
	for _, s := range slices.Clone(c.subs) {
		if s.active && s.window.Contains(c.now) {
			s.fn(c.delta)
		}
	}
	return true
}

// Subscribe registers fn for the given window on behalf of owner.
// Expired subscriptions stay registered until removed.
func (c *Clock) Subscribe(owner any, w Window, fn Func) *Subscription {
	s := &Subscription{owner: owner, window: w, fn: fn, active: true}
	c.subs = append(c.subs, s)
	return s
}

// Unsubscribe removes s. It reports whether s was registered.
func (c *Clock) Unsubscribe(s *Subscription) bool {
	i := slices.Index(c.subs, s)
	if i < 0 {
		return false
	}
	s.active = false
	c.subs = slices.Delete(c.subs, i, i+1)
	return true
}

// UnsubscribeOwner removes every subscription registered by owner and
// returns how many were removed.
func (c *Clock) UnsubscribeOwner(owner any) int {
	n := 0
	c.subs = slices.DeleteFunc(c.subs, func(s *Subscription) bool {
		if s.owner == owner {
			s.active = false
			n++
			return true
		}
		return false
	})
	return n
}

// Subscriptions returns the active subscriptions of owner, or all of them
// when owner is nil.
func (c *Clock) Subscriptions(owner any) []*Subscription {
	var out []*Subscription
	for _, s := range c.subs {
		if owner == nil || s.owner == owner {
			out = append(out, s)
		}
	}
	return out
}
