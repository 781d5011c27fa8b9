package power

import "context"

// Source produces point-in-time power readings. It is the only contract the
// sampler depends on; concrete implementations own the hardware access.
type Source interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Snapshot is an immutable reading of the device's power state
type Snapshot struct {
	BatteryLevel   float64
	BatteryVoltage float64
	ExternalPower  bool
}

// Fallback returns the snapshot recorded when no reading could be obtained
func Fallback() Snapshot {
	return Snapshot{
		BatteryLevel:   0.0,
		BatteryVoltage: 0.0,
		ExternalPower:  false,
	}
}
