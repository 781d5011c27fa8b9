package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAndDrain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "power.csv")
	s, err := NewFileSink(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	require.NoError(t, s.Submit("one"))
	require.NoError(t, s.Submit("two"))
	require.NoError(t, s.Submit("three"))

	require.NoError(t, s.Stop(time.Second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", string(data))
}

func TestStopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "power.csv")
	s, err := NewFileSink(path)
	require.NoError(t, err)

	go s.Run(context.Background())

	require.NoError(t, s.Submit("line"))
	require.NoError(t, s.Stop(time.Second))
	require.NoError(t, s.Stop(time.Second))
	require.NoError(t, s.Stop(time.Second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data), "repeated stops must not duplicate the drain")
}

func TestSubmitAfterStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "power.csv")
	s, err := NewFileSink(path)
	require.NoError(t, err)

	go s.Run(context.Background())
	require.NoError(t, s.Stop(time.Second))

	err = s.Submit("late")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink_closed")
}

func TestStopWithoutRunDrainsInline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "power.csv")
	s, err := NewFileSink(path)
	require.NoError(t, err)

	require.NoError(t, s.Submit("queued"))
	require.NoError(t, s.Stop(time.Second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "queued\n", string(data))
}

func TestSubmitQueueFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "power.csv")
	s, err := NewFileSink(path)
	require.NoError(t, err)
	defer s.Stop(time.Second)

	var full bool
	for i := 0; i <= queueSize; i++ {
		if err := s.Submit("line"); err != nil {
			assert.Contains(t, err.Error(), "sink_queue_full")
			full = true
			break
		}
	}
	assert.True(t, full, "expected the queue to fill without a running consumer")
}

func TestDiskName(t *testing.T) {
	tests := map[string]string{
		"sdb1":      "sdb",
		"sda":       "sda",
		"nvme0n1p1": "nvme0n1",
		"mmcblk0p2": "mmcblk0",
		"loop0":     "loop",
	}
	for partition, want := range tests {
		assert.Equal(t, want, diskName(partition), partition)
	}
}

func TestPathWithin(t *testing.T) {
	assert.True(t, pathWithin("/media/usb0/power.csv", "/media/usb0"))
	assert.True(t, pathWithin("/media/usb0/power.csv", "/"))
	assert.False(t, pathWithin("/media/usb01/power.csv", "/media/usb0"))
}

func TestDetectorRemovable(t *testing.T) {
	root := t.TempDir()
	logDir := filepath.Join(root, "media", "usb0")
	require.NoError(t, os.MkdirAll(logDir, 0o755))

	mounts := filepath.Join(root, "mounts")
	mountsContent := strings.Join([]string{
		"/dev/nvme0n1p2 / ext4 rw 0 0",
		"/dev/sdb1 " + logDir + " vfat rw 0 0",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(mounts, []byte(mountsContent), 0o600))

	sysBlock := filepath.Join(root, "sys", "block")
	require.NoError(t, os.MkdirAll(filepath.Join(sysBlock, "sdb"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sysBlock, "sdb", "removable"), []byte("1\n"), 0o600))

	d := &storageDetector{
		target:       filepath.Join(logDir, "power.csv"),
		mountsFile:   mounts,
		sysBlockRoot: sysBlock,
	}
	assert.True(t, d.removable())

	// Medium gone: directory disappears with the mount
	require.NoError(t, os.RemoveAll(logDir))
	assert.False(t, d.removable())
}
