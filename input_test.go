package main

import (
	"testing"
	"time"
)

func TestDebouncerEmptyPoll(t *testing.T) {
	ch := make(chan Button, 4)
	d := NewDebouncer(ch)
	if got := d.Poll(time.Now()); got != IntentNone {
		t.Errorf("Poll with no edges = %v; want IntentNone", got)
	}
}

func TestDebouncerWindow(t *testing.T) {
	ch := make(chan Button, 4)
	d := NewDebouncer(ch)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	ch <- ButtonNext
	if got := d.Poll(t0); got != IntentNext {
		t.Fatalf("first edge = %v; want IntentNext", got)
	}

	// Inside the window: dropped, and the window is not extended.
	ch <- ButtonNext
	if got := d.Poll(t0.Add(300 * time.Millisecond)); got != IntentNone {
		t.Fatalf("edge at +300ms = %v; want IntentNone", got)
	}

	// A full window after the accepted edge: accepted again.
	ch <- ButtonNext
	if got := d.Poll(t0.Add(DEBOUNCE_WINDOW)); got != IntentNext {
		t.Fatalf("edge at +%s = %v; want IntentNext", DEBOUNCE_WINDOW, got)
	}
}

func TestDebouncerPriority(t *testing.T) {
	tests := []struct {
		name    string
		pending []Button
		want    Intent
	}{
		{"all three", []Button{ButtonToggle, ButtonNext, ButtonPrev}, IntentPrevious},
		{"next and toggle", []Button{ButtonToggle, ButtonNext}, IntentNext},
		{"toggle alone", []Button{ButtonToggle}, IntentToggleAuto},
	}

	for _, tt := range tests {
		ch := make(chan Button, 4)
		d := NewDebouncer(ch)
		for _, b := range tt.pending {
			ch <- b
		}
		if got := d.Poll(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)); got != tt.want {
			t.Errorf("%s: Poll = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestDebouncerOneIntentPerPoll(t *testing.T) {
	ch := make(chan Button, 4)
	d := NewDebouncer(ch)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	ch <- ButtonPrev
	ch <- ButtonNext
	if got := d.Poll(t0); got != IntentPrevious {
		t.Fatalf("Poll = %v; want IntentPrevious", got)
	}
	// The losing edge was consumed, not queued.
	if got := d.Poll(t0.Add(time.Second)); got != IntentNone {
		t.Errorf("second Poll = %v; want IntentNone", got)
	}
}
