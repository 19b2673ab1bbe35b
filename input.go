package main

import (
	"log"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

// Intent is a debounced user action taken from the front buttons.
type Intent int

const (
	IntentNone Intent = iota
	IntentPrevious
	IntentNext
	IntentToggleAuto
)

// Button identifies one of the three physical buttons.
type Button int

const (
	ButtonPrev Button = iota
	ButtonNext
	ButtonToggle
)

// Debouncer turns raw button edges into at most one intent per poll,
// with a minimum spacing between accepted intents. Edges arrive from the
// evdev reader goroutine over the channel; all debouncer state lives on
// the control loop.
type Debouncer struct {
	events        <-chan Button
	lastEventTime time.Time
}

func NewDebouncer(events <-chan Button) *Debouncer {
	return &Debouncer{events: events}
}

// Poll drains pending edges and reports an intent, or IntentNone. When
// several buttons fired since the last poll the tie-break is Previous,
// then Next, then Toggle. An edge inside the debounce window is dropped
// and does not reset the window.
func (d *Debouncer) Poll(now time.Time) Intent {
	var prev, next, toggle bool
drain:
	for {
		select {
		case b, ok := <-d.events:
			if !ok {
				break drain
			}
			switch b {
			case ButtonPrev:
				prev = true
			case ButtonNext:
				next = true
			case ButtonToggle:
				toggle = true
			}
		default:
			break drain
		}
	}

	var intent Intent
	switch {
	case prev:
		intent = IntentPrevious
	case next:
		intent = IntentNext
	case toggle:
		intent = IntentToggleAuto
	default:
		return IntentNone
	}

	if !d.lastEventTime.IsZero() && now.Sub(d.lastEventTime) < DEBOUNCE_WINDOW {
		return IntentNone
	}
	d.lastEventTime = now
	return intent
}

// watchButtons finds the gpio-keys input device and forwards key-press
// edges to the control loop. It only writes to the channel; dropped
// events on a full channel are fine, the user just presses again.
func watchButtons(deviceName string, events chan<- Button) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		log.Printf("input: ListDevicePaths error: %v", err)
		return
	}

	var devPath string
	for _, ip := range paths {
		if ip.Name == deviceName {
			devPath = ip.Path
			break
		}
	}
	if devPath == "" {
		log.Printf("input: no device named %q found", deviceName)
		return
	}

	buttons, err := evdev.Open(devPath)
	if err != nil {
		log.Printf("input: Open(%s) error: %v", devPath, err)
		return
	}
	defer buttons.Ungrab()

	if err := buttons.Grab(); err != nil {
		log.Printf("input: warning: failed to grab device: %v", err)
	}

	name, _ := buttons.Name()
	log.Printf("input: using device %s (%s)", devPath, name)

	for {
		ev, err := buttons.ReadOne()
		if err != nil {
			log.Printf("input: read error: %v", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if ev.Type != evdev.EV_KEY || ev.Value != 1 {
			continue
		}
		var b Button
		switch ev.Code {
		case evdev.KEY_LEFT:
			b = ButtonPrev
		case evdev.KEY_RIGHT:
			b = ButtonNext
		case evdev.KEY_ENTER:
			b = ButtonToggle
		default:
			continue
		}
		select {
		case events <- b:
		default:
		}
	}
}
