package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config represents the complete runtime configuration for the riskcast
// binary. The simulation library itself takes everything explicitly; this
// only wires the demo/CLI surface.
type Config struct {
	Simulation SimulationConfig
	Export     ExportConfig
}

// SimulationConfig holds the engine parameters
type SimulationConfig struct {
	Trials int
	Seed   uint64
}

// ExportConfig holds result export settings
type ExportConfig struct {
	Dir        string
	JSON       bool
	Excel      bool
	ReportHTML bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Trials: getEnvIntOrDefault("RISKCAST_TRIALS", 50000),
			Seed:   uint64(getEnvIntOrDefault("RISKCAST_SEED", 42)),
		},
		Export: ExportConfig{
			Dir:        getEnvOrDefault("RISKCAST_EXPORT_DIR", "out"),
			JSON:       getEnvBoolOrDefault("RISKCAST_EXPORT_JSON", true),
			Excel:      getEnvBoolOrDefault("RISKCAST_EXPORT_EXCEL", true),
			ReportHTML: getEnvBoolOrDefault("RISKCAST_REPORT_HTML", false),
		},
	}
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	if c.Simulation.Trials < 1 {
		return fmt.Errorf("RISKCAST_TRIALS must be at least 1, got %d", c.Simulation.Trials)
	}
	if c.Export.Dir == "" {
		return fmt.Errorf("RISKCAST_EXPORT_DIR cannot be empty")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
