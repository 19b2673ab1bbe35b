package main

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// readBatteryPercent reads the fuel gauge and maps it to 0-100. When the
// gauge cannot be read (bench supply, missing driver) it reports full so
// the power policy never cuts auto-advance on a healthy desk setup.
func readBatteryPercent() int {
	mv, err := readBatteryMillivolts()
	if err != nil {
		log.Printf("battery: %v", err)
		return 100
	}
	return voltageToPercent(mv)
}

// readBatteryMillivolts reads voltage_now from sysfs, which reports
// microvolts.
func readBatteryMillivolts() (int, error) {
	data, err := os.ReadFile(BATTERY_VOLTAGE_PATH)
	if err != nil {
		return 0, err
	}
	rawUV, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, err
	}
	return int(rawUV / 1000), nil
}

// voltageToPercent maps the pack voltage linearly onto 0-100, clamped.
// 3300mV is empty, 4350mV is full for the fitted cell.
func voltageToPercent(mv int) int {
	pct := (mv - BATT_EMPTY_MV) * 100 / (BATT_FULL_MV - BATT_EMPTY_MV)
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}
