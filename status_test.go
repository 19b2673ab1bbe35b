package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFormatStatusAutoOn(t *testing.T) {
	line := formatStatus("/media/sdcard/a.jpg", 0, 3, 57, true, ReasonNone, false)
	if line.AutoLabel != "Auto" {
		t.Errorf("AutoLabel = %q; want %q", line.AutoLabel, "Auto")
	}
	if strings.Contains(line.AutoLabel, "OFF") {
		t.Errorf("enabled state must not carry an OFF marker: %q", line.AutoLabel)
	}
	if line.Title != "a.jpg" {
		t.Errorf("Title = %q; want %q", line.Title, "a.jpg")
	}
	if line.Position != "1/3" {
		t.Errorf("Position = %q; want %q", line.Position, "1/3")
	}
	if line.BatteryLabel != "57%" {
		t.Errorf("BatteryLabel = %q; want %q", line.BatteryLabel, "57%")
	}
}

func TestFormatStatusDisabledReasons(t *testing.T) {
	tests := []struct {
		name       string
		reason     DisableReason
		sleepArmed bool
		want       string
	}{
		{"single image armed", ReasonSingleImage, true, "Auto OFF (Only one image) - Sleep in 1m"},
		{"low battery armed", ReasonLowBattery, true, "Auto OFF (Low battery) - Sleep in 1m"},
		{"paused armed", ReasonByUser, true, "Auto OFF (Paused) - Sleep in 1m"},
		{"single image unarmed", ReasonSingleImage, false, "Auto OFF (Only one image)"},
	}

	for _, tt := range tests {
		line := formatStatus("/a.jpg", 0, 1, 50, false, tt.reason, tt.sleepArmed)
		if line.AutoLabel != tt.want {
			t.Errorf("%s: AutoLabel = %q; want %q", tt.name, line.AutoLabel, tt.want)
		}
	}
}

func TestFormatStatusEmptyCatalog(t *testing.T) {
	line := formatStatus("", 0, 0, 80, false, ReasonSingleImage, true)
	if line.Title != "No photos" {
		t.Errorf("Title = %q; want %q", line.Title, "No photos")
	}
	if line.Position != "0/0" {
		t.Errorf("Position = %q; want %q", line.Position, "0/0")
	}
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"short.jpg", "short.jpg"},
		{strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{strings.Repeat("a", 31), strings.Repeat("a", 27) + "..."},
		{"very-long-holiday-photo-name-2026.jpg", "very-long-holiday-photo-nam..."},
		// Multibyte names must be cut on rune boundaries, not bytes.
		{strings.Repeat("ü", 31), strings.Repeat("ü", 27) + "..."},
		{"семейный-альбом-отпуск-лето-2026.jpg", "семейный-альбом-отпуск-лето..."},
	}

	for _, tt := range tests {
		got := truncateTitle(tt.in)
		if got != tt.expected {
			t.Errorf("truncateTitle(%q) = %q; want %q", tt.in, got, tt.expected)
		}
		if n := utf8.RuneCountInString(got); n > MAX_TITLE_LEN {
			t.Errorf("truncateTitle(%q) is %d runes, exceeds %d", tt.in, n, MAX_TITLE_LEN)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncateTitle(%q) produced invalid UTF-8: %q", tt.in, got)
		}
	}
}
