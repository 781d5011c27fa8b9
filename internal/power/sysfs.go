package power

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/tovald/powerlogd/internal/errors"
)

const (
	defaultSysfsRoot = "/sys/class/power_supply"

	microPerUnit = 1_000_000.0
)

// SysfsSource reads power state from the kernel power-supply class
type SysfsSource struct {
	root string
}

// NewSysfsSource creates a Source backed by the power-supply sysfs tree.
// An empty root selects the kernel default.
func NewSysfsSource(root string) *SysfsSource {
	if root == "" {
		root = defaultSysfsRoot
	}

	return &SysfsSource{root: root}
}

func (s *SysfsSource) Snapshot(ctx context.Context) (Snapshot, error) {
	errFactory := errors.New()

	select {
	case <-ctx.Done():
		return Fallback(), errFactory.Wrap(ErrCancelled, ctx.Err())
	default:
	}

	batteries, err := filepath.Glob(filepath.Join(s.root, "BAT*"))
	if err != nil {
		return Fallback(), errFactory.Wrap(ErrReadSupply, err)
	}
	if len(batteries) == 0 {
		return Fallback(), errFactory.New(ErrNoBattery)
	}

	data, err := os.ReadFile(filepath.Join(batteries[0], "uevent"))
	if err != nil {
		return Fallback(), errFactory.Wrap(ErrReadSupply, err)
	}

	props := parseUevent(string(data))

	level, err := batteryLevel(props)
	if err != nil {
		return Fallback(), err
	}

	voltage := 0.0
	if raw, ok := props["POWER_SUPPLY_VOLTAGE_NOW"]; ok {
		microvolts, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Fallback(), errFactory.WithData(ErrParseReading, raw)
		}
		voltage = microvolts / microPerUnit
	}

	return Snapshot{
		BatteryLevel:   level,
		BatteryVoltage: voltage,
		ExternalPower:  s.mainsOnline(),
	}, nil
}

// batteryLevel prefers the charge ratio for sub-percent precision and falls
// back to the integer capacity the kernel reports.
func batteryLevel(props map[string]string) (float64, error) {
	errFactory := errors.New()

	now, okNow := props["POWER_SUPPLY_CHARGE_NOW"]
	full, okFull := props["POWER_SUPPLY_CHARGE_FULL"]
	if okNow && okFull {
		nowVal, errNow := strconv.ParseFloat(now, 64)
		fullVal, errFull := strconv.ParseFloat(full, 64)
		if errNow == nil && errFull == nil && fullVal > 0 {
			return nowVal / fullVal * 100.0, nil
		}
	}

	if raw, ok := props["POWER_SUPPLY_CAPACITY"]; ok {
		capacity, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, errFactory.WithData(ErrParseReading, raw)
		}
		return capacity, nil
	}

	return 0, errFactory.WithMessage(ErrReadSupply, "battery reports no charge data")
}

// mainsOnline reports whether any AC supply is online. Read errors count as
// offline.
func (s *SysfsSource) mainsOnline() bool {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return false
	}

	for _, entry := range entries {
		supplyType, err := os.ReadFile(filepath.Join(s.root, entry.Name(), "type"))
		if err != nil || strings.TrimSpace(string(supplyType)) != "Mains" {
			continue
		}

		online, err := os.ReadFile(filepath.Join(s.root, entry.Name(), "online"))
		if err == nil && strings.TrimSpace(string(online)) == "1" {
			return true
		}
	}

	return false
}

func parseUevent(data string) map[string]string {
	props := make(map[string]string)
	for _, line := range strings.Split(data, "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if found {
			props[key] = value
		}
	}

	return props
}
