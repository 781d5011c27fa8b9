package power_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/tovald/powerlogd/internal/power"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSupply(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for file, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o600))
	}
}

func TestSnapshot(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "BAT0", map[string]string{
		"uevent": "POWER_SUPPLY_NAME=BAT0\n" +
			"POWER_SUPPLY_CHARGE_NOW=87456\n" +
			"POWER_SUPPLY_CHARGE_FULL=100000\n" +
			"POWER_SUPPLY_VOLTAGE_NOW=3701200\n",
	})
	writeSupply(t, root, "AC", map[string]string{
		"type":   "Mains\n",
		"online": "1\n",
	})

	src := power.NewSysfsSource(root)
	snap, err := src.Snapshot(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 87.456, snap.BatteryLevel, 0.0001)
	assert.InDelta(t, 3.7012, snap.BatteryVoltage, 0.0001)
	assert.True(t, snap.ExternalPower)
}

func TestSnapshotCapacityFallback(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "BAT0", map[string]string{
		"uevent": "POWER_SUPPLY_CAPACITY=42\n" +
			"POWER_SUPPLY_VOLTAGE_NOW=4100000\n",
	})
	writeSupply(t, root, "AC", map[string]string{
		"type":   "Mains\n",
		"online": "0\n",
	})

	src := power.NewSysfsSource(root)
	snap, err := src.Snapshot(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 42.0, snap.BatteryLevel, 0.0001)
	assert.InDelta(t, 4.1, snap.BatteryVoltage, 0.0001)
	assert.False(t, snap.ExternalPower)
}

func TestSnapshotNoBattery(t *testing.T) {
	src := power.NewSysfsSource(t.TempDir())

	snap, err := src.Snapshot(context.Background())
	require.Error(t, err)
	assert.Equal(t, power.Fallback(), snap)
}

func TestSnapshotCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := power.NewSysfsSource(t.TempDir())
	_, err := src.Snapshot(ctx)
	require.Error(t, err)
}

func TestFallback(t *testing.T) {
	snap := power.Fallback()
	assert.Zero(t, snap.BatteryLevel)
	assert.Zero(t, snap.BatteryVoltage)
	assert.False(t, snap.ExternalPower)
}
