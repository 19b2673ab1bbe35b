package main

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"sync"

	"github.com/llgcode/draw2d/draw2dimg"
	"golang.org/x/image/font"
	xdraw "golang.org/x/image/draw"
)

var (
	EPD_WHITE = color.RGBA{255, 255, 255, 255}
	EPD_BLACK = color.RGBA{0, 0, 0, 255}
)

// epdRenderer draws into an RGBA framebuffer and pushes it to the panel
// in 1bpp form. The frame mutex exists only for the preview server; the
// control loop is the single writer.
type epdRenderer struct {
	panel *epdDevice

	frameMu    sync.RWMutex
	frame      *image.RGBA
	lastStatus StatusLine

	faces map[string]font.Face
}

func newEPDRenderer(panel *epdDevice) (*epdRenderer, error) {
	r := &epdRenderer{
		panel: panel,
		frame: image.NewRGBA(image.Rect(0, 0, EPD_WIDTH, EPD_HEIGHT)),
		faces: make(map[string]font.Face),
	}
	for name := range fonts {
		face, _, err := getFontFace(name)
		if err != nil {
			return nil, fmt.Errorf("load font %s: %w", name, err)
		}
		r.faces[name] = face
	}
	clearFrame(r.frame, EPD_WHITE)
	return r, nil
}

func (r *epdRenderer) Clear() {
	r.frameMu.Lock()
	defer r.frameMu.Unlock()
	clearFrame(r.frame, EPD_WHITE)
}

// DrawSplash draws the boot screen: the product name large in the
// middle with the scan and battery summary under it.
func (r *epdRenderer) DrawSplash(title, detail string) {
	r.frameMu.Lock()
	defer r.frameMu.Unlock()

	midY := (EPD_HEIGHT - STATUS_BAR_HEIGHT) / 2
	drawTextAt(r.frame, title, EPD_WIDTH/2, midY-60, r.faces["huge"], EPD_BLACK, true)
	drawTextAt(r.frame, detail, EPD_WIDTH/2, midY+20, r.faces["reg"], EPD_BLACK, true)
}

// DrawCard draws a centered rounded-rect message card, used for the
// empty-catalog, render-failure and going-to-sleep screens.
func (r *epdRenderer) DrawCard(title, detail string) {
	r.frameMu.Lock()
	defer r.frameMu.Unlock()

	cardW := EPD_WIDTH * 3 / 4
	cardH := 160
	x0 := (EPD_WIDTH - cardW) / 2
	y0 := (EPD_HEIGHT - STATUS_BAR_HEIGHT - cardH) / 2

	gc := draw2dimg.NewGraphicContext(r.frame)
	gc.SetStrokeColor(EPD_BLACK)
	gc.SetFillColor(EPD_WHITE)
	gc.SetLineWidth(3)
	drawRoundedRect(gc, float64(x0), float64(y0), float64(cardW), float64(cardH), 12)
	gc.FillStroke()

	drawTextAt(r.frame, title, EPD_WIDTH/2, y0+34, r.faces["big"], EPD_BLACK, true)
	if detail != "" {
		drawTextAt(r.frame, detail, EPD_WIDTH/2, y0+94, r.faces["reg"], EPD_BLACK, true)
	}
}

// DrawImageFile decodes the photo and scales it to fit the area above
// the status bar, centered on white.
func (r *epdRenderer) DrawImageFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	areaW := EPD_WIDTH
	areaH := EPD_HEIGHT - STATUS_BAR_HEIGHT

	b := img.Bounds()
	scaleW := float64(areaW) / float64(b.Dx())
	scaleH := float64(areaH) / float64(b.Dy())
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	w := int(float64(b.Dx()) * scale)
	h := int(float64(b.Dy()) * scale)
	x0 := (areaW - w) / 2
	y0 := (areaH - h) / 2

	r.frameMu.Lock()
	defer r.frameMu.Unlock()
	dst := image.Rect(x0, y0, x0+w, y0+h)
	xdraw.CatmullRom.Scale(r.frame, dst, img, b, xdraw.Src, nil)
	return nil
}

// DrawStatus lays out the status bar at the bottom of the frame: title
// on the left, position and auto state in the middle, battery gauge and
// label on the right.
func (r *epdRenderer) DrawStatus(line StatusLine, batteryPct int) {
	r.frameMu.Lock()
	defer r.frameMu.Unlock()
	r.lastStatus = line

	y0 := EPD_HEIGHT - STATUS_BAR_HEIGHT
	fillRect(r.frame, 0, y0, EPD_WIDTH, STATUS_BAR_HEIGHT, EPD_WHITE)
	fillRect(r.frame, 0, y0, EPD_WIDTH, 2, EPD_BLACK)

	face := r.faces["reg"]
	small := r.faces["small"]
	textY := y0 + (STATUS_BAR_HEIGHT-24)/2

	x := 10
	x, _ = drawTextAt(r.frame, line.Title, x, textY, face, EPD_BLACK, false)
	x += 24
	x, _ = drawTextAt(r.frame, line.Position, x, textY, face, EPD_BLACK, false)
	x += 24
	drawTextAt(r.frame, line.AutoLabel, x, textY, small, EPD_BLACK, false)

	gaugeW, gaugeH := 36, 18
	labelW := measureText(line.BatteryLabel, small)
	gaugeX := EPD_WIDTH - 10 - gaugeW
	labelX := gaugeX - 8 - labelW
	drawTextAt(r.frame, line.BatteryLabel, labelX, textY, small, EPD_BLACK, false)
	if err := drawBatteryGauge(r.frame, gaugeX, y0+(STATUS_BAR_HEIGHT-gaugeH)/2, gaugeW, gaugeH, batteryPct); err != nil {
		log.Printf("render: battery gauge: %v", err)
	}
}

func (r *epdRenderer) PushFull(mode RefreshMode) error {
	r.frameMu.RLock()
	buf := packBand(r.frame, 0, EPD_HEIGHT, true)
	r.frameMu.RUnlock()
	return r.panel.Refresh(buf, mode)
}

func (r *epdRenderer) PushRegion(y, height int, mode RefreshMode) error {
	r.frameMu.RLock()
	buf := packBand(r.frame, y, height, false)
	r.frameMu.RUnlock()
	return r.panel.RefreshRegion(y, height, buf, mode)
}

// Snapshot copies the current frame for the preview server.
func (r *epdRenderer) Snapshot() (*image.RGBA, StatusLine) {
	r.frameMu.RLock()
	defer r.frameMu.RUnlock()
	cp := image.NewRGBA(r.frame.Bounds())
	copy(cp.Pix, r.frame.Pix)
	return cp, r.lastStatus
}
