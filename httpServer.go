package main

import (
	"bytes"
	"image/png"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// previewServer serves the current framebuffer and status line on
// localhost so the display can be eyeballed without the hardware glass.
// Development aid only; the slideshow itself has no network behavior.
func previewServer(r *epdRenderer) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Get("/frame", func(c *fiber.Ctx) error {
		frame, _ := r.Snapshot()
		var buf bytes.Buffer
		if err := png.Encode(&buf, frame); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Failed to encode image")
		}
		c.Set("Content-Type", "image/png")
		c.Set("Content-Length", strconv.Itoa(buf.Len()))
		return c.Send(buf.Bytes())
	})

	app.Get("/status", func(c *fiber.Ctx) error {
		_, line := r.Snapshot()
		return c.JSON(fiber.Map{
			"title":    line.Title,
			"position": line.Position,
			"battery":  line.BatteryLabel,
			"auto":     line.AutoLabel,
		})
	})

	if err := app.Listen(PREVIEW_ADDR); err != nil {
		log.Printf("preview: %v", err)
	}
}
