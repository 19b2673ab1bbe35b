package main

import (
	"testing"
	"time"
)

func TestEvaluatePrecedence(t *testing.T) {
	tests := []struct {
		name        string
		batteryPct  int
		catalogSize int
		userWants   bool
		wantEnabled bool
		wantReason  DisableReason
	}{
		{"all good", 80, 5, true, true, ReasonNone},
		{"low battery", 15, 5, true, false, ReasonLowBattery},
		{"low battery beats single image", 15, 1, true, false, ReasonLowBattery},
		{"low battery beats user off", 15, 5, false, false, ReasonLowBattery},
		{"battery boundary still low", 19, 5, true, false, ReasonLowBattery},
		{"battery at threshold ok", 20, 5, true, true, ReasonNone},
		{"single image", 50, 1, true, false, ReasonSingleImage},
		{"empty catalog", 50, 0, true, false, ReasonSingleImage},
		{"single image beats user off", 50, 1, false, false, ReasonSingleImage},
		{"user off", 50, 5, false, false, ReasonByUser},
	}

	for _, tt := range tests {
		p := newPowerPolicy()
		p.userWantsAuto = tt.userWants
		enabled, reason := p.Evaluate(tt.batteryPct, tt.catalogSize, true, time.Now())
		if enabled != tt.wantEnabled || reason != tt.wantReason {
			t.Errorf("%s: Evaluate = (%v, %v); want (%v, %v)",
				tt.name, enabled, reason, tt.wantEnabled, tt.wantReason)
		}
	}
}

func TestSleepTimerArmsOnDisableTransition(t *testing.T) {
	p := newPowerPolicy()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Enabled -> no timer.
	if enabled, _ := p.Evaluate(80, 5, true, t0); !enabled {
		t.Fatal("expected enabled")
	}
	if p.SleepArmed() {
		t.Error("timer should not be armed while enabled")
	}

	// Enabled -> Disabled arms at the transition time.
	if enabled, _ := p.Evaluate(15, 5, true, t0); enabled {
		t.Fatal("expected disabled at 15%")
	}
	if !p.SleepArmed() {
		t.Fatal("timer should be armed after enabled->disabled")
	}

	if p.CheckSleepDue(t0.Add(SLEEP_TIMEOUT - time.Second)) {
		t.Error("sleep due before timeout elapsed")
	}
	if !p.CheckSleepDue(t0.Add(SLEEP_TIMEOUT)) {
		t.Error("sleep not due at timeout")
	}

	// Disabled -> Enabled disarms.
	if enabled, _ := p.Evaluate(80, 5, false, t0.Add(time.Second)); !enabled {
		t.Fatal("expected re-enabled")
	}
	if p.SleepArmed() {
		t.Error("timer should disarm on disabled->enabled")
	}
	if p.CheckSleepDue(t0.Add(time.Hour)) {
		t.Error("disarmed timer reported due")
	}
}

func TestSleepTimerStaysArmedWhileDisabled(t *testing.T) {
	p := newPowerPolicy()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	p.Evaluate(15, 5, true, t0)
	// Re-evaluating while already disabled must not restart the timer.
	p.Evaluate(15, 5, false, t0.Add(30*time.Second))
	if !p.CheckSleepDue(t0.Add(SLEEP_TIMEOUT)) {
		t.Error("re-evaluation while disabled restarted the timer")
	}
}

func TestUserToggleRejectedWhenForced(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		batteryPct  int
		catalogSize int
		wantReason  DisableReason
	}{
		{"low battery", 15, 5, ReasonLowBattery},
		{"single image", 50, 1, ReasonSingleImage},
	}

	for _, tt := range tests {
		p := newPowerPolicy()
		p.Evaluate(tt.batteryPct, tt.catalogSize, true, t0)

		t1 := t0.Add(30 * time.Second)
		if p.UserToggle(tt.batteryPct, tt.catalogSize, t1) {
			t.Errorf("%s: toggle accepted under forced disable", tt.name)
		}
		if p.Reason() != tt.wantReason {
			t.Errorf("%s: reason = %v; want %v", tt.name, p.Reason(), tt.wantReason)
		}
		if !p.userWantsAuto {
			t.Errorf("%s: rejected toggle flipped user intent", tt.name)
		}
		// The press still refreshes the armed timer.
		if p.CheckSleepDue(t0.Add(SLEEP_TIMEOUT)) {
			t.Errorf("%s: rejected toggle did not refresh the timer", tt.name)
		}
		if !p.CheckSleepDue(t1.Add(SLEEP_TIMEOUT)) {
			t.Errorf("%s: timer not due a full timeout after the press", tt.name)
		}
	}
}

func TestUserToggleAccepted(t *testing.T) {
	p := newPowerPolicy()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.Evaluate(80, 5, true, t0)

	if !p.UserToggle(80, 5, t0) {
		t.Fatal("toggle off rejected with no forced condition")
	}
	if p.userWantsAuto {
		t.Fatal("toggle off did not clear user intent")
	}
	enabled, reason := p.Evaluate(80, 5, true, t0)
	if enabled || reason != ReasonByUser {
		t.Fatalf("after toggle off: (%v, %v); want (false, ByUser)", enabled, reason)
	}
	if !p.SleepArmed() {
		t.Fatal("toggle off did not arm the sleep timer")
	}

	if !p.UserToggle(80, 5, t0.Add(time.Second)) {
		t.Fatal("toggle back on rejected")
	}
	enabled, _ = p.Evaluate(80, 5, false, t0.Add(time.Second))
	if !enabled {
		t.Fatal("toggle on did not re-enable")
	}
	if p.SleepArmed() {
		t.Fatal("re-enable did not disarm the sleep timer")
	}
}

func TestDisableReasonText(t *testing.T) {
	tests := []struct {
		reason   DisableReason
		expected string
	}{
		{ReasonNone, ""},
		{ReasonLowBattery, "Low battery"},
		{ReasonSingleImage, "Only one image"},
		{ReasonByUser, "Paused"},
	}
	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.expected {
			t.Errorf("String(%d) = %q; want %q", tt.reason, got, tt.expected)
		}
	}
}
