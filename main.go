package main

import (
	"log"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	SPI_PORT = "SPI0.0"
	DC_PIN   = "GPIO25"
	RST_PIN  = "GPIO17"
	BUSY_PIN = "GPIO24"

	EPD_WIDTH         = 800
	EPD_HEIGHT        = 480
	STATUS_BAR_HEIGHT = 40

	PHOTO_ROOT       = "/media/sdcard"
	SCAN_RECURSIVE   = true
	CATALOG_CAPACITY = 100
	MAX_SCAN_DEPTH   = 8
	MAX_TITLE_LEN    = 30

	AUTO_ADVANCE_INTERVAL = 10 * time.Second
	SLEEP_TIMEOUT         = 60 * time.Second
	DEBOUNCE_WINDOW       = 500 * time.Millisecond
	POLICY_EVAL_INTERVAL  = 30 * time.Second
	TICK_PERIOD           = 50 * time.Millisecond

	LOW_BATTERY_PCT = 20
	BATT_EMPTY_MV   = 3300
	BATT_FULL_MV    = 4350

	BATTERY_VOLTAGE_PATH = "/sys/class/power_supply/battery/voltage_now"
	BUTTON_WAKEUP_PATH   = "/sys/devices/platform/gpio-keys/power/wakeup"
	TOUCH_WAKEUP_PATH    = "/sys/devices/platform/soc/touchscreen/power/wakeup"
	BUTTON_DEVICE_NAME   = "gpio-keys"

	PREVIEW_ADDR = "127.0.0.1:8089"
)

func main() {
	// Initialize board.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Open SPI.
	spiPort, err := spireg.Open(SPI_PORT)
	if err != nil {
		log.Fatal(err)
	}
	defer spiPort.Close()

	conn, err := spiPort.Connect(20*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		log.Fatal(err)
	}

	// Setup panel.
	panel := newEPD(conn,
		gpioreg.ByName(DC_PIN),
		gpioreg.ByName(RST_PIN),
		gpioreg.ByName(BUSY_PIN),
		EPD_WIDTH, EPD_HEIGHT)
	if err := panel.Init(); err != nil {
		log.Fatalf("Failed to init panel: %v", err)
	}

	screen, err := newEPDRenderer(panel)
	if err != nil {
		log.Fatalf("Failed to load fonts: %v", err)
	}

	catalog, err := scanCatalog(PHOTO_ROOT, SCAN_RECURSIVE, CATALOG_CAPACITY)
	storageOK := err == nil
	if err != nil {
		log.Printf("catalog: %v", err)
	} else {
		log.Printf("catalog: %d photos under %s", len(catalog), PHOTO_ROOT)
	}

	events := make(chan Button, 16)
	go watchButtons(BUTTON_DEVICE_NAME, events)

	ctl := newController(catalog, storageOK,
		newPowerPolicy(),
		NewDebouncer(events),
		screen,
		readBatteryPercent,
		systemSleeper{panel: panel})

	go previewServer(screen)

	ctl.Start(time.Now())
	for {
		if ctl.Tick(time.Now()) {
			return
		}
		time.Sleep(TICK_PERIOD)
	}
}
