package sink

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// storageDetector resolves which block device backs the log target and
// whether the kernel flags it as removable.
type storageDetector struct {
	target       string
	mountsFile   string
	sysBlockRoot string
}

func newStorageDetector(path string) *storageDetector {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return &storageDetector{
		target:       abs,
		mountsFile:   "/proc/self/mounts",
		sysBlockRoot: "/sys/block",
	}
}

// removable reports whether the log target currently sits on a present,
// removable block device.
func (d *storageDetector) removable() bool {
	if _, err := os.Stat(filepath.Dir(d.target)); err != nil {
		return false
	}

	device := d.mountDevice()
	if !strings.HasPrefix(device, "/dev/") {
		return false
	}

	disk := diskName(filepath.Base(device))
	flag, err := os.ReadFile(filepath.Join(d.sysBlockRoot, disk, "removable"))
	if err != nil {
		return false
	}

	return strings.TrimSpace(string(flag)) == "1"
}

// mountDevice returns the source device of the longest mount point
// containing the target path.
func (d *storageDetector) mountDevice() string {
	f, err := os.Open(d.mountsFile)
	if err != nil {
		return ""
	}
	defer f.Close()

	var device, best string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		mountPoint := fields[1]
		if !pathWithin(d.target, mountPoint) {
			continue
		}
		if len(mountPoint) > len(best) {
			best = mountPoint
			device = fields[0]
		}
	}

	return device
}

func pathWithin(path, dir string) bool {
	if dir == "/" {
		return true
	}

	return path == dir || strings.HasPrefix(path, dir+"/")
}

// diskName strips the partition suffix from a device name, handling
// sdb1-style as well as nvme0n1p1/mmcblk0p1-style names.
func diskName(partition string) string {
	trimmed := strings.TrimRight(partition, "0123456789")

	// nvme0n1p1 trims to nvme0n1p; drop the partition separator too
	if len(trimmed) > 1 && strings.HasSuffix(trimmed, "p") {
		if c := partition[len(trimmed)-2]; c >= '0' && c <= '9' {
			trimmed = strings.TrimSuffix(trimmed, "p")
		}
	}

	if trimmed == "" {
		return partition
	}

	return trimmed
}
