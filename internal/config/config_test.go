package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "driver.json")
	content := `{
		"sensor_id": "os1-64",
		"num_lasers": 64,
		"real_width": 1024,
		"scan_ring": 32,
		"mqtt_broker": "tcp://localhost:1883"
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.SensorID != "os1-64" || cfg.NumLasers != 64 || cfg.RealWidth != 1024 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.ScanRing != 32 {
		t.Errorf("scan_ring = %d, want 32", cfg.ScanRing)
	}
	// Untouched fields keep defaults.
	if cfg.LidarPort != 7502 {
		t.Errorf("lidar_port = %d, want default 7502", cfg.LidarPort)
	}
	if cfg.LaserFrame != "laser_data_frame" {
		t.Errorf("laser_frame = %q, want default", cfg.LaserFrame)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidateRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*DriverConfig)
	}{
		{"zero lasers", func(c *DriverConfig) { c.NumLasers = 0 }},
		{"zero width", func(c *DriverConfig) { c.RealWidth = 0 }},
		{"bad lidar port", func(c *DriverConfig) { c.LidarPort = 0 }},
		{"bad imu port", func(c *DriverConfig) { c.ImuPort = 70000 }},
		{"ring out of range", func(c *DriverConfig) { c.NumLasers = 16; c.ScanRing = 16 }},
		{"empty laser frame", func(c *DriverConfig) { c.LaserFrame = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate accepted %s", tc.name)
			}
		})
	}
}

func TestMetadataDerivation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Vendor = "Ouster"
	cfg.Model = "OS1-16"

	m := cfg.Metadata()
	if m.LidarIP != cfg.LidarIP || m.ComputerIP != cfg.ComputerIP {
		t.Errorf("addresses not carried: %+v", m)
	}
	if m.NumLasers != cfg.NumLasers || m.LidarPort != cfg.LidarPort || m.ImuPort != cfg.ImuPort {
		t.Errorf("ports/geometry not carried: %+v", m)
	}
	if m.Vendor != "Ouster" || m.Model != "OS1-16" {
		t.Errorf("identity not carried: %+v", m)
	}
}
