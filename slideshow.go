package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"
)

// RefreshMode selects the panel refresh quality. Fast is the partial LUT
// used for text-only updates; Quality is the full flashing refresh used
// when the photo changes.
type RefreshMode int

const (
	RefreshFast RefreshMode = iota
	RefreshQuality
)

// Renderer is the drawing surface the controller talks to. The real
// implementation drives the e-paper panel; tests substitute a recorder.
type Renderer interface {
	Clear()
	DrawSplash(title, detail string)
	DrawCard(title, detail string)
	DrawImageFile(path string) error
	DrawStatus(line StatusLine, batteryPct int)
	PushFull(mode RefreshMode) error
	PushRegion(y, height int, mode RefreshMode) error
}

// Controller owns the slideshow state and runs it one tick at a time:
// button intents, periodic policy re-evaluation, timed auto-advance and
// the inactivity sleep transition.
type Controller struct {
	catalog   []string
	storageOK bool

	index       int
	autoEnabled bool
	lastAdvance time.Time
	lastEval    time.Time
	lastBattery int

	policy  *PowerPolicy
	input   *Debouncer
	screen  Renderer
	battery func() int
	sleeper Sleeper
}

func newController(catalog []string, storageOK bool, policy *PowerPolicy, input *Debouncer, screen Renderer, battery func() int, sleeper Sleeper) *Controller {
	return &Controller{
		catalog:   catalog,
		storageOK: storageOK,
		policy:    policy,
		input:     input,
		screen:    screen,
		battery:   battery,
		sleeper:   sleeper,
	}
}

// Start shows the boot splash, runs the initial policy evaluation and
// draws the first frame. The slideshow starts as enabled, so conditions
// that already forbid auto-advance (single image, low battery) arm the
// sleep timer here.
func (c *Controller) Start(now time.Time) {
	c.lastBattery = c.battery()
	c.screen.Clear()
	c.screen.DrawSplash("PaperFrame",
		fmt.Sprintf("%d photos - Battery %d%%", len(c.catalog), c.lastBattery))
	if err := c.screen.PushFull(RefreshFast); err != nil {
		log.Printf("slideshow: push splash: %v", err)
	}

	c.autoEnabled = true
	c.lastAdvance = now
	c.lastEval = now
	c.autoEnabled, _ = c.policy.Evaluate(c.lastBattery, len(c.catalog), c.autoEnabled, now)
	c.renderCurrent()
}

// Tick runs one control-loop iteration. It returns true once the device
// has been put to sleep; the caller's run loop ends there and a hardware
// wake restarts the process from scratch.
func (c *Controller) Tick(now time.Time) bool {
	switch c.input.Poll(now) {
	case IntentPrevious:
		c.navigate(-1, now)
	case IntentNext:
		c.navigate(+1, now)
	case IntentToggleAuto:
		c.toggleAuto(now)
	}

	if now.Sub(c.lastEval) >= POLICY_EVAL_INTERVAL {
		c.lastEval = now
		c.lastBattery = c.battery()
		was := c.autoEnabled
		c.autoEnabled, _ = c.policy.Evaluate(c.lastBattery, len(c.catalog), c.autoEnabled, now)
		if c.autoEnabled != was {
			log.Printf("slideshow: auto-advance %v (%s)", c.autoEnabled, c.policy.Reason())
			c.renderStatus()
		}
	}

	if c.autoEnabled && len(c.catalog) > 1 && now.Sub(c.lastAdvance) >= AUTO_ADVANCE_INTERVAL {
		c.index = (c.index + 1) % len(c.catalog)
		c.lastAdvance = now
		c.renderCurrent()
	}

	if c.policy.CheckSleepDue(now) {
		log.Println("slideshow: inactivity timeout, entering deep sleep")
		c.screen.Clear()
		c.screen.DrawCard("Going to sleep", "Press any button to wake")
		if err := c.screen.PushFull(RefreshFast); err != nil {
			log.Printf("slideshow: push sleep notice: %v", err)
		}
		c.sleeper.EnterDeepSleep(WakeButtons | WakeTouch)
		return true
	}
	return false
}

func (c *Controller) navigate(step int, now time.Time) {
	n := len(c.catalog)
	if n == 0 {
		return
	}
	c.index = (c.index + step + n) % n
	c.lastAdvance = now
	c.policy.Rearm(now)
	c.renderCurrent()
}

func (c *Controller) toggleAuto(now time.Time) {
	c.lastBattery = c.battery()
	accepted := c.policy.UserToggle(c.lastBattery, len(c.catalog), now)
	c.autoEnabled, _ = c.policy.Evaluate(c.lastBattery, len(c.catalog), c.autoEnabled, now)
	c.lastAdvance = now
	if !accepted {
		log.Printf("slideshow: toggle rejected (%s)", c.policy.Reason())
	}
	c.renderStatus()
}

// renderCurrent redraws the whole frame: the photo at the current index
// (or a message card) plus the status bar, pushed with the high quality
// refresh. A file that fails to draw shows an inline error and stays in
// the catalog; navigation keeps working around it.
func (c *Controller) renderCurrent() {
	c.screen.Clear()
	switch {
	case !c.storageOK:
		c.screen.DrawCard("SD card unavailable", "Reinsert the card and restart")
	case len(c.catalog) == 0:
		c.screen.DrawCard("No photos found", "Add .jpg files to the card")
	default:
		path := c.catalog[c.index]
		if err := c.screen.DrawImageFile(path); err != nil {
			log.Printf("slideshow: draw %s: %v", path, err)
			c.screen.DrawCard("Cannot display", truncateTitle(filepath.Base(path)))
		}
	}
	c.drawStatus()
	if err := c.screen.PushFull(RefreshQuality); err != nil {
		log.Printf("slideshow: push: %v", err)
	}
}

// renderStatus refreshes only the status bar with the fast partial mode.
func (c *Controller) renderStatus() {
	c.drawStatus()
	if err := c.screen.PushRegion(EPD_HEIGHT-STATUS_BAR_HEIGHT, STATUS_BAR_HEIGHT, RefreshFast); err != nil {
		log.Printf("slideshow: push status: %v", err)
	}
}

func (c *Controller) drawStatus() {
	var path string
	if len(c.catalog) > 0 {
		path = c.catalog[c.index]
	}
	line := formatStatus(path, c.index, len(c.catalog), c.lastBattery,
		c.autoEnabled, c.policy.Reason(), c.policy.SleepArmed())
	c.screen.DrawStatus(line, c.lastBattery)
}
