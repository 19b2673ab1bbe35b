package main

import (
	"log"
	"os"
)

// WakeSource selects which hardware may pull the device out of deep
// sleep.
type WakeSource uint8

const (
	WakeButtons WakeSource = 1 << iota
	WakeTouch
)

// Sleeper puts the device into its low-power state. The real
// implementation never returns control to the slideshow: waking is a
// full process restart.
type Sleeper interface {
	EnterDeepSleep(sources WakeSource)
}

// systemSleeper suspends the board to RAM. The requested wake sources
// are enabled on the matching input devices first; after resume the
// process exits so the supervisor starts it fresh, which rescans the
// card and resets the slideshow, matching a cold boot.
type systemSleeper struct {
	panel *epdDevice
}

func (s systemSleeper) EnterDeepSleep(sources WakeSource) {
	if sources&WakeButtons != 0 {
		enableWakeup(BUTTON_WAKEUP_PATH)
	}
	if sources&WakeTouch != 0 {
		enableWakeup(TOUCH_WAKEUP_PATH)
	}
	// The panel controller must be in deep sleep before suspend or it
	// drains the cell holding its charge pumps up.
	if s.panel != nil {
		if err := s.panel.Sleep(); err != nil {
			log.Printf("sleep: panel deep sleep: %v", err)
		}
	}
	log.Println("sleep: suspending to RAM")
	if err := os.WriteFile("/sys/power/state", []byte("mem"), 0644); err != nil {
		log.Printf("sleep: suspend failed: %v", err)
		return
	}
	log.Println("sleep: woke from suspend, exiting for a fresh start")
	os.Exit(0)
}

func enableWakeup(path string) {
	if err := os.WriteFile(path, []byte("enabled"), 0644); err != nil {
		log.Printf("sleep: enable wakeup %s: %v", path, err)
	}
}
