package power

import "codeberg.org/tovald/powerlogd/internal/errors"

const (
	ErrNoBattery    = errors.ErrorCode("power_no_battery_found")
	ErrReadSupply   = errors.ErrorCode("power_supply_read_failed")
	ErrCancelled    = errors.ErrorCode("power_snapshot_cancelled")
	ErrParseReading = errors.ErrorCode("power_reading_parse_failed")
)
