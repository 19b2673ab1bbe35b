package main

import "time"

// DisableReason explains why auto-advance is currently off.
type DisableReason int

const (
	ReasonNone DisableReason = iota
	ReasonLowBattery
	ReasonSingleImage
	ReasonByUser
)

func (r DisableReason) String() string {
	switch r {
	case ReasonLowBattery:
		return "Low battery"
	case ReasonSingleImage:
		return "Only one image"
	case ReasonByUser:
		return "Paused"
	}
	return ""
}

// PowerPolicy decides whether auto-advance is permitted and manages the
// inactivity sleep timer. Battery overrides image count overrides user
// choice. The sleep timer arms when auto-advance goes from enabled to
// disabled and disarms on the way back.
type PowerPolicy struct {
	userWantsAuto bool
	reason        DisableReason
	sleepArmed    bool
	sleepArmedAt  time.Time
}

func newPowerPolicy() *PowerPolicy {
	return &PowerPolicy{userWantsAuto: true}
}

// Evaluate recomputes the effective auto-advance state from one battery
// reading and the catalog size. currentlyEnabled is the caller's present
// effective state and determines sleep timer transitions.
func (p *PowerPolicy) Evaluate(batteryPct, catalogSize int, currentlyEnabled bool, now time.Time) (bool, DisableReason) {
	reason := ReasonNone
	switch {
	case batteryPct < LOW_BATTERY_PCT:
		reason = ReasonLowBattery
	case catalogSize <= 1:
		reason = ReasonSingleImage
	case !p.userWantsAuto:
		reason = ReasonByUser
	}
	enabled := reason == ReasonNone

	if currentlyEnabled && !enabled {
		p.sleepArmed = true
		p.sleepArmedAt = now
	} else if !currentlyEnabled && enabled {
		p.sleepArmed = false
	}

	p.reason = reason
	return enabled, reason
}

// UserToggle flips the user's auto-advance wish unless battery or catalog
// conditions force it off anyway, in which case the toggle is rejected.
// Either way the press counts as activity: an armed sleep timer restarts
// from now.
func (p *PowerPolicy) UserToggle(batteryPct, catalogSize int, now time.Time) bool {
	forced := ReasonNone
	switch {
	case batteryPct < LOW_BATTERY_PCT:
		forced = ReasonLowBattery
	case catalogSize <= 1:
		forced = ReasonSingleImage
	}
	if forced != ReasonNone {
		p.reason = forced
		p.Rearm(now)
		return false
	}
	p.userWantsAuto = !p.userWantsAuto
	if !p.userWantsAuto {
		p.Rearm(now)
	}
	return true
}

// Rearm restarts an armed sleep timer. Disarmed timers stay disarmed;
// arming only ever happens on an enabled-to-disabled transition.
func (p *PowerPolicy) Rearm(now time.Time) {
	if p.sleepArmed {
		p.sleepArmedAt = now
	}
}

// CheckSleepDue reports whether the inactivity timeout has fully elapsed
// since the timer was last (re)armed.
func (p *PowerPolicy) CheckSleepDue(now time.Time) bool {
	return p.sleepArmed && now.Sub(p.sleepArmedAt) >= SLEEP_TIMEOUT
}

func (p *PowerPolicy) Reason() DisableReason { return p.reason }

func (p *PowerPolicy) SleepArmed() bool { return p.sleepArmed }
