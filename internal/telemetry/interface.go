package telemetry

import (
	"context"
	"time"
)

// Collector defines the core domain interface
type Collector interface {
	Record(ctx context.Context, sample *Sample) error
	Close() error
}

// Sample mirrors one emitted power log record
type Sample struct {
	Timestamp         time.Time
	BatteryLevel      float64
	BatteryVoltage    float64
	ExternalPower     bool
	CameraConnected   bool
	USBDriveConnected bool
}
