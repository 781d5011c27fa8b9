package telemetry

import (
	"database/sql"

	"codeberg.org/tovald/powerlogd/internal/errors"
)

// initSchema initializes the database schema for power samples
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS power_log (
            timestamp INTEGER PRIMARY KEY,
            battery_level REAL,
            battery_voltage REAL,
            external_power INTEGER,
            camera_connected INTEGER,
            usb_drive_connected INTEGER
        )
    `)
	if err != nil {
		return errors.New().Wrap(ErrStorageInit, err)
	}

	return nil
}
