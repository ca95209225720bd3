// Package config loads the driver configuration. The schema doubles as the
// startup file format and the runtime description of a sensor session, so
// the same JSON can configure a live sensor or a pcap replay.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/banshee-data/ouster.report/internal/ouster"
)

// DriverConfig is the root configuration for one sensor session.
type DriverConfig struct {
	// Device identity and addressing
	SensorID   string `json:"sensor_id"`
	ComputerIP string `json:"computer_ip"`
	LidarIP    string `json:"lidar_ip"`
	LidarPort  int    `json:"lidar_port"`
	ImuPort    int    `json:"imu_port"`
	Vendor     string `json:"vendor,omitempty"`
	Model      string `json:"model,omitempty"`

	// Receiver array geometry
	NumLasers int    `json:"num_lasers"`
	RealWidth uint32 `json:"real_width"` // authoritative populated columns per frame

	// Conversion
	LaserFrame string `json:"laser_frame"` // frame id stamped on cloud and scan
	ImuFrame   string `json:"imu_frame"`
	MountFrame string `json:"mount_frame"` // parent frame of the published transform
	ScanRing   uint8  `json:"scan_ring"`   // ring projected into the laser scan

	// Calibration is the sensor-to-mount rigid transform as a 16-element
	// row-major 4x4 matrix with millimeter translation. Empty means identity.
	Calibration []float64 `json:"calibration,omitempty"`

	// Publishing
	MQTTBroker  string `json:"mqtt_broker,omitempty"` // empty disables MQTT
	TopicPrefix string `json:"topic_prefix,omitempty"`

	// Persistence
	FrameDBPath string `json:"frame_db_path,omitempty"` // empty disables the frame store
}

// DefaultConfig returns the configuration for a 16-ring sensor on the
// standard ports.
func DefaultConfig() DriverConfig {
	return DriverConfig{
		SensorID:    "os1-16",
		ComputerIP:  "0.0.0.0",
		LidarIP:     "10.5.5.87",
		LidarPort:   7502,
		ImuPort:     7503,
		NumLasers:   16,
		RealWidth:   2000,
		LaserFrame:  "laser_data_frame",
		ImuFrame:    "imu_data_frame",
		MountFrame:  "lidar_mount",
		ScanRing:    8,
		TopicPrefix: "sensors/os1-16",
	}
}

// Load reads a JSON config file over the defaults. Fields absent from the
// file keep their default values.
func Load(path string) (DriverConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the driver cannot run with.
func (c DriverConfig) Validate() error {
	if c.NumLasers <= 0 || c.NumLasers > 256 {
		return fmt.Errorf("num_lasers %d outside (0, 256]", c.NumLasers)
	}
	if c.RealWidth == 0 {
		return fmt.Errorf("real_width must be positive")
	}
	if c.LidarPort <= 0 || c.LidarPort > 65535 {
		return fmt.Errorf("lidar_port %d invalid", c.LidarPort)
	}
	if c.ImuPort < 0 || c.ImuPort > 65535 {
		return fmt.Errorf("imu_port %d invalid", c.ImuPort)
	}
	if int(c.ScanRing) >= c.NumLasers {
		return fmt.Errorf("scan_ring %d outside [0, %d)", c.ScanRing, c.NumLasers)
	}
	if c.LaserFrame == "" {
		return fmt.Errorf("laser_frame must be set")
	}
	if n := len(c.Calibration); n != 0 && n != 16 {
		return fmt.Errorf("calibration has %d elements, want 16", n)
	}
	return nil
}

// CalibrationOrIdentity returns the configured calibration matrix, or the
// identity transform when none was provided.
func (c DriverConfig) CalibrationOrIdentity() []float64 {
	if len(c.Calibration) == 16 {
		return c.Calibration
	}
	return []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Metadata derives the device session metadata from the configuration.
func (c DriverConfig) Metadata() ouster.Metadata {
	return ouster.Metadata{
		ComputerIP: c.ComputerIP,
		LidarIP:    c.LidarIP,
		ImuPort:    c.ImuPort,
		LidarPort:  c.LidarPort,
		NumLasers:  c.NumLasers,
		Vendor:     c.Vendor,
		Model:      c.Model,
	}
}
