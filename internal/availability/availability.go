package availability

import "os"

// Source exposes the two peripheral presence flags the sampler records.
// Both reads are non-blocking and have no failure path: anything that cannot
// be probed reads as absent.
type Source interface {
	CameraConnected() bool
	RemovableStorageConnected() bool
}

// StorageStatus is the slice of the record sink the probe relies on
type StorageStatus interface {
	RemovableStorageConnected() bool
}

// Probe checks camera presence via its device node and delegates storage
// presence to the sink, which owns the mount state.
type Probe struct {
	cameraDevice string
	storage      StorageStatus
}

func NewProbe(cameraDevice string, storage StorageStatus) *Probe {
	return &Probe{
		cameraDevice: cameraDevice,
		storage:      storage,
	}
}

func (p *Probe) CameraConnected() bool {
	if p.cameraDevice == "" {
		return false
	}

	_, err := os.Stat(p.cameraDevice)

	return err == nil
}

func (p *Probe) RemovableStorageConnected() bool {
	if p.storage == nil {
		return false
	}

	return p.storage.RemovableStorageConnected()
}
