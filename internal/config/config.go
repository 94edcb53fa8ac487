// Package config holds the typed configuration structs for the
// orchestrator, daemon, and CLI: flat structs, JSON-tagged for
// sidecar persistence, populated by a flag.FlagSet per subcommand.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/csvquery/memscan/internal/catalog"
)

// OrchestratorConfig controls how a scan round is executed.
type OrchestratorConfig struct {
	Workers        int  `json:"workers"`
	SingleThreaded bool `json:"single_threaded"`
	Verbose        bool `json:"verbose"`
	DebugValidate  bool `json:"debug_validate"`
	ProgressEveryN int  `json:"progress_every_n_regions"`

	// Scan carries the float tolerance mode (and alignment default)
	// the orchestrator plans every filter with.
	Scan ScanSettings `json:"scan_settings"`
}

// DefaultOrchestratorConfig returns a populated struct rather than
// relying on zero values.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		Workers:        0, // 0 means runtime.NumCPU()
		ProgressEveryN: 32,
		Scan:           DefaultScanSettings(),
	}
}

// DaemonConfig controls the Unix-domain-socket command server.
type DaemonConfig struct {
	SocketPath     string `json:"socket_path"`
	MaxConnections int    `json:"max_connections"`
	IdleTimeoutSec int    `json:"idle_timeout_seconds"`
}

func DefaultDaemonConfig() DaemonConfig {
	return DaemonConfig{
		SocketPath:     "/tmp/memscan.sock",
		MaxConnections: 8,
		IdleTimeoutSec: 30,
	}
}

// ScanSettings are the first-class, persistable defaults for scan
// behavior: default alignment, floating point tolerance mode and its
// parameter, and whether to restrict scans to writable pages.
type ScanSettings struct {
	DefaultAlignment      uint64              `json:"default_alignment"`
	FloatTolerance        catalog.ToleranceMode `json:"float_tolerance_mode"`
	FloatToleranceParam   float64             `json:"float_tolerance_param"`
	ReadOnlyWritablePages bool                `json:"read_only_writable_pages"`
}

func DefaultScanSettings() ScanSettings {
	return ScanSettings{
		DefaultAlignment:      4,
		FloatTolerance:        catalog.ToleranceDecimalPlaces,
		FloatToleranceParam:   3,
		ReadOnlyWritablePages: true,
	}
}

// LoadScanSettings reads a JSON-encoded ScanSettings sidecar file.
func LoadScanSettings(path string) (ScanSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ScanSettings{}, fmt.Errorf("config: reading scan settings: %w", err)
	}
	settings := DefaultScanSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return ScanSettings{}, fmt.Errorf("config: parsing scan settings: %w", err)
	}
	return settings, nil
}

// SaveScanSettings writes settings as JSON to path.
func SaveScanSettings(path string, settings ScanSettings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encoding scan settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: writing scan settings: %w", err)
	}
	return nil
}
