package sampler

import (
	"fmt"
	"time"

	"codeberg.org/tovald/powerlogd/internal/power"
)

// Header is the first line of every power log. Downstream parsers key on
// these exact column names.
const Header = "timestamp,battery_level,voltage,external_power_connected,camera_connected,usb_drive_connected"

// ISO-8601 UTC with millisecond precision
const timestampLayout = "2006-01-02T15:04:05.000Z"

// FormatRecord renders one log line: level to two decimals, voltage to
// three, booleans in lowercase. The whole line is built in memory so the
// sink never sees a partial record.
func FormatRecord(ts time.Time, snap power.Snapshot, cameraConnected, usbDriveConnected bool) string {
	return fmt.Sprintf("%s,%.2f,%.3f,%t,%t,%t",
		ts.UTC().Format(timestampLayout),
		snap.BatteryLevel,
		snap.BatteryVoltage,
		snap.ExternalPower,
		cameraConnected,
		usbDriveConnected,
	)
}
