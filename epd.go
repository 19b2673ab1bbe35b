package main

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// SSD1677 command set, the subset this panel needs.
const (
	epdCmdDriverOutput    = 0x01
	epdCmdDeepSleep       = 0x10
	epdCmdDataEntry       = 0x11
	epdCmdSwReset         = 0x12
	epdCmdTempSensor      = 0x18
	epdCmdMasterActivate  = 0x20
	epdCmdUpdateCtrl1     = 0x21
	epdCmdUpdateCtrl2     = 0x22
	epdCmdWriteRAM        = 0x24
	epdCmdBorderWaveform  = 0x3C
	epdCmdSetRAMXRange    = 0x44
	epdCmdSetRAMYRange    = 0x45
	epdCmdSetRAMXCounter  = 0x4E
	epdCmdSetRAMYCounter  = 0x4F
)

// Update sequences for the two refresh qualities. The full sequence
// flashes the panel and clears ghosting; the fast one reuses the partial
// LUT and is good enough for the status bar.
const (
	epdSeqFull = 0xF7
	epdSeqFast = 0xFF
)

const (
	epdSPIChunk   = 2048
	epdBusyPoll   = 10 * time.Millisecond
	epdBusyLimit  = 30 * time.Second
	epdResetPulse = 20 * time.Millisecond
)

// epdDevice drives a black/white e-paper panel over SPI with the usual
// DC/RST/BUSY sideband pins. The framebuffer format is 1bpp, MSB first,
// one row padded to whole bytes, 1 = white.
type epdDevice struct {
	c           conn.Conn
	dc, rst     gpio.PinOut
	busy        gpio.PinIO
	width       int
	height      int
	bytesPerRow int
}

func newEPD(c conn.Conn, dc, rst gpio.PinOut, busy gpio.PinIO, width, height int) *epdDevice {
	return &epdDevice{
		c:           c,
		dc:          dc,
		rst:         rst,
		busy:        busy,
		width:       width,
		height:      height,
		bytesPerRow: (width + 7) / 8,
	}
}

// Init performs the hardware reset and the one-time controller setup.
func (d *epdDevice) Init() error {
	if err := d.reset(); err != nil {
		return fmt.Errorf("epd reset: %w", err)
	}
	if err := d.command(epdCmdSwReset); err != nil {
		return err
	}
	if err := d.waitUntilIdle(); err != nil {
		return err
	}

	h := d.height - 1
	steps := []struct {
		cmd  byte
		data []byte
	}{
		{epdCmdDriverOutput, []byte{byte(h), byte(h >> 8), 0x00}},
		{epdCmdDataEntry, []byte{0x03}}, // x and y increment
		{epdCmdBorderWaveform, []byte{0x01}},
		{epdCmdUpdateCtrl1, []byte{0x00, 0x80}},
		{epdCmdTempSensor, []byte{0x80}}, // internal sensor
	}
	for _, s := range steps {
		if err := d.command(s.cmd, s.data...); err != nil {
			return err
		}
	}
	return d.waitUntilIdle()
}

// Refresh writes a full frame and runs the chosen update sequence.
func (d *epdDevice) Refresh(buf []byte, mode RefreshMode) error {
	return d.RefreshRegion(0, d.height, buf, mode)
}

// RefreshRegion updates the rows [y, y+h) from buf, which holds exactly
// those rows. The RAM window is narrowed to the band so only its bytes
// move over the wire.
func (d *epdDevice) RefreshRegion(y, h int, buf []byte, mode RefreshMode) error {
	if y < 0 || h <= 0 || y+h > d.height {
		return fmt.Errorf("epd: region %d+%d outside panel height %d", y, h, d.height)
	}
	if want := h * d.bytesPerRow; len(buf) != want {
		return fmt.Errorf("epd: region buffer is %d bytes, want %d", len(buf), want)
	}

	lastX := d.width/8 - 1
	y1 := y + h - 1
	if err := d.command(epdCmdSetRAMXRange, 0x00, byte(lastX)); err != nil {
		return err
	}
	if err := d.command(epdCmdSetRAMYRange, byte(y), byte(y>>8), byte(y1), byte(y1>>8)); err != nil {
		return err
	}
	if err := d.command(epdCmdSetRAMXCounter, 0x00); err != nil {
		return err
	}
	if err := d.command(epdCmdSetRAMYCounter, byte(y), byte(y>>8)); err != nil {
		return err
	}
	if err := d.command(epdCmdWriteRAM, buf...); err != nil {
		return err
	}

	seq := byte(epdSeqFull)
	if mode == RefreshFast {
		seq = epdSeqFast
	}
	if err := d.command(epdCmdUpdateCtrl2, seq); err != nil {
		return err
	}
	if err := d.command(epdCmdMasterActivate); err != nil {
		return err
	}
	return d.waitUntilIdle()
}

// Sleep sends the controller into deep sleep. Only Init brings it back.
func (d *epdDevice) Sleep() error {
	return d.command(epdCmdDeepSleep, 0x01)
}

func (d *epdDevice) reset() error {
	if err := d.rst.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(epdResetPulse)
	if err := d.rst.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(epdResetPulse)
	return nil
}

// command writes one command byte with DC low, then its payload with DC
// high, chunked to the SPI transfer limit.
func (d *epdDevice) command(cmd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.c.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("epd cmd %#02x: %w", cmd, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for off := 0; off < len(data); off += epdSPIChunk {
		end := off + epdSPIChunk
		if end > len(data) {
			end = len(data)
		}
		if err := d.c.Tx(data[off:end], nil); err != nil {
			return fmt.Errorf("epd data for %#02x: %w", cmd, err)
		}
	}
	return nil
}

// waitUntilIdle polls the BUSY pin, which the controller holds high
// until a refresh finishes. Full refreshes take seconds on this medium.
func (d *epdDevice) waitUntilIdle() error {
	deadline := time.Now().Add(epdBusyLimit)
	for d.busy.Read() == gpio.High {
		if time.Now().After(deadline) {
			return fmt.Errorf("epd: busy for more than %s", epdBusyLimit)
		}
		time.Sleep(epdBusyPoll)
	}
	return nil
}
