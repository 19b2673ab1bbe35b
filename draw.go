package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	svg "github.com/ajstarks/svgo"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

//---------------- Fonts ----------------

// FontConfig holds parameters for a font.
type FontConfig struct {
	FontPath string
	FontSize float64
}

var fonts = map[string]FontConfig{
	"small": {FontPath: "assets/fonts/DejaVuSans.ttf", FontSize: 14},
	"reg":   {FontPath: "assets/fonts/DejaVuSans.ttf", FontSize: 18},
	"big":   {FontPath: "assets/fonts/DejaVuSans-Bold.ttf", FontSize: 28},
	"huge":  {FontPath: "assets/fonts/DejaVuSans-Bold.ttf", FontSize: 40},
}

// getFontFace loads the font based on our mapping.
func getFontFace(fontName string) (font.Face, int, error) {
	fc, ok := fonts[fontName]
	if !ok {
		return nil, 0, fmt.Errorf("font %s not found in mapping", fontName)
	}
	fontBytes, err := os.ReadFile(fc.FontPath)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading font file: %v", err)
	}
	ttfFont, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, 0, fmt.Errorf("error parsing font: %v", err)
	}
	face, err := opentype.NewFace(ttfFont, &opentype.FaceOptions{
		Size:    fc.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, 0, err
	}

	metrics := face.Metrics()
	fontHeight := metrics.Ascent.Round() + metrics.Descent.Round()

	return face, fontHeight, nil
}

//---------------- Drawing Functions ----------------

// drawTextAt draws a string onto an *image.RGBA at (x,y) using the given
// face and color. Returns the finishing coordinates.
func drawTextAt(img *image.RGBA, text string, posX, posY int, face font.Face, clr color.Color, center bool) (finishX, finishY int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: face,
	}

	metrics := face.Metrics()

	x := posX
	if center {
		x = posX - d.MeasureString(text).Round()/2
	}
	y := posY + metrics.Ascent.Round()

	d.Dot = fixed.P(x, y)
	d.DrawString(text)

	finishX = x + d.MeasureString(text).Round()
	finishY = posY + metrics.Ascent.Round() + metrics.Descent.Round()
	return
}

func measureText(text string, face font.Face) int {
	d := &font.Drawer{Face: face}
	return d.MeasureString(text).Round()
}

func fillRect(img *image.RGBA, x0, y0, width, height int, c color.Color) {
	r, g, b, a := c.RGBA()
	col := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	for y := y0; y < y0+height; y++ {
		for x := x0; x < x0+width; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

func clearFrame(frame *image.RGBA, c color.RGBA) {
	for i := 0; i < len(frame.Pix); i += 4 {
		frame.Pix[i] = c.R
		frame.Pix[i+1] = c.G
		frame.Pix[i+2] = c.B
		frame.Pix[i+3] = 255
	}
}

func drawRoundedRect(gc *draw2dimg.GraphicContext, x, y, w, h, r float64) {
	gc.MoveTo(x+r, y)
	gc.LineTo(x+w-r, y)
	gc.ArcTo(x+w-r, y+r, r, r, -90, 90)
	gc.LineTo(x+w, y+h-r)
	gc.ArcTo(x+w-r, y+h-r, r, r, 0, 90)
	gc.LineTo(x+r, y+h)
	gc.ArcTo(x+r, y+h-r, r, r, 90, 90)
	gc.LineTo(x, y+r)
	gc.ArcTo(x+r, y+r, r, r, 180, 90)
	gc.Close()
}

//---------------- SVG Rendering ----------------

// rasterizeSVG decodes SVG bytes and renders them onto a fresh RGBA
// canvas at the document's intrinsic size.
func rasterizeSVG(svgData []byte) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}
	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 0}), image.Point{}, draw.Src)
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return rgba, nil
}

// batteryGaugeSVG generates the battery outline with a fill bar sized by
// soc. Black on white, sized for the status bar.
func batteryGaugeSVG(w, h, soc int) []byte {
	terminalWidth := 3
	bodyW := w - terminalWidth

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(w, h)
	canvas.Roundrect(0, 0, bodyW, h, 2, 2, "fill:none;stroke:black;stroke-width:2")
	canvas.Rect(bodyW, h/2-4, terminalWidth, 8, "fill:black")
	fillW := (bodyW - 6) * soc / 100
	if fillW > 0 {
		canvas.Rect(3, 3, fillW, h-6, "fill:black")
	}
	canvas.End()
	return buf.Bytes()
}

// drawBatteryGauge composites the gauge icon onto the frame at (x0,y0).
func drawBatteryGauge(frame *image.RGBA, x0, y0, w, h, soc int) error {
	img, err := rasterizeSVG(batteryGaugeSVG(w, h, soc))
	if err != nil {
		return err
	}
	return copyImageToImageAt(frame, img, x0, y0)
}

// copyImageToImageAt alpha-composites img onto frame at (x0,y0).
func copyImageToImageAt(frame *image.RGBA, img *image.RGBA, x0, y0 int) error {
	b := img.Bounds()
	if x0 < 0 || y0 < 0 || x0+b.Dx() > frame.Bounds().Dx() || y0+b.Dy() > frame.Bounds().Dy() {
		return fmt.Errorf("image %dx%d does not fit at (%d,%d)", b.Dx(), b.Dy(), x0, y0)
	}
	dst := image.Rect(x0, y0, x0+b.Dx(), y0+b.Dy())
	draw.Draw(frame, dst, img, b.Min, draw.Over)
	return nil
}

//---------------- Panel Bit Packing ----------------

// packBand converts the rows [y0, y0+h) of frame into the panel's 1bpp
// format, 1 = white. Photos go through Floyd-Steinberg error diffusion;
// text bands use a plain threshold so glyph edges stay crisp.
func packBand(frame *image.RGBA, y0, h int, dither bool) []byte {
	width := frame.Bounds().Dx()
	bytesPerRow := (width + 7) / 8
	out := make([]byte, h*bytesPerRow)

	luma := make([]float64, width*h)
	for y := 0; y < h; y++ {
		for x := 0; x < width; x++ {
			c := frame.RGBAAt(x, y0+y)
			luma[y*width+x] = 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < width; x++ {
			old := luma[y*width+x]
			var val float64
			if old >= 128 {
				val = 255
			}
			if dither {
				err := old - val
				if x+1 < width {
					luma[y*width+x+1] += err * 7 / 16
				}
				if y+1 < h {
					if x > 0 {
						luma[(y+1)*width+x-1] += err * 3 / 16
					}
					luma[(y+1)*width+x] += err * 5 / 16
					if x+1 < width {
						luma[(y+1)*width+x+1] += err * 1 / 16
					}
				}
			}
			if val == 255 {
				out[y*bytesPerRow+x/8] |= 0x80 >> (x % 8)
			}
		}
	}
	return out
}
