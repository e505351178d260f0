package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// MaxFrames is the conventional upper bound on the frame pool exposed
// to users. The engine itself accepts any positive count.
const MaxFrames = 10

// Config holds simulation tool configuration
type Config struct {
	// Page Replacement Configuration
	NumFrames int `json:"num_frames"` // Frame pool size (1-10)
	Policy string `json:"policy"` // Replacement policy (LRU, Optimal)
	References []int `json:"references"` // Page reference sequence

	// Fragmentation Configuration
	TotalMemory int `json:"total_memory"` // Memory size in units
	BlockSize int `json:"block_size"` // Allocation block size in units
	NumAllocs int `json:"num_allocs"` // Allocation requests
	NumDeallocs int `json:"num_deallocs"` // Random deallocations
	Seed int64 `json:"seed"` // RNG seed (0 = derive from time)

	// Export Configuration
	TraceCompression string `json:"trace_compression"` // Trace export compression (none, lz4, snappy)

	// Performance Configuration
	EnableMetrics bool `json:"enable_metrics"` // Whether to collect run metrics
	LogLevel string `json:"log_level"` // Log level (debug, info, warn, error)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		NumFrames: 3,
		Policy: PolicyLRU,
		References: []int{1, 2, 3, 2, 4, 1, 5, 2, 1, 2, 3, 4, 5},
		TotalMemory: 200,
		BlockSize: 20,
		NumAllocs: 8,
		NumDeallocs: 3,
		Seed: 0,
		TraceCompression: "none",
		EnableMetrics: true,
		LogLevel: "info",
	}
}

// LoadConfigFromFile loads configuration from a JSON file
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	err = json.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigFromEnv loads configuration from environment variables
// Falls back to default values if environment variables are not set
func LoadConfigFromEnv() *Config {
	config := DefaultConfig()

	// Page replacement
	if val := os.Getenv("MEMSIM_NUM_FRAMES"); val != "" {
		if frames, err := strconv.Atoi(val); err == nil {
			config.NumFrames = frames
		}
	}

	if val := os.Getenv("MEMSIM_POLICY"); val != "" {
		config.Policy = val
	}

	if val := os.Getenv("MEMSIM_REFERENCES"); val != "" {
		if refs, err := ParseReferences(val); err == nil {
			config.References = refs
		}
	}

	// Fragmentation
	if val := os.Getenv("MEMSIM_TOTAL_MEMORY"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.TotalMemory = size
		}
	}

	if val := os.Getenv("MEMSIM_BLOCK_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.BlockSize = size
		}
	}

	if val := os.Getenv("MEMSIM_NUM_ALLOCS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.NumAllocs = n
		}
	}

	if val := os.Getenv("MEMSIM_NUM_DEALLOCS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.NumDeallocs = n
		}
	}

	if val := os.Getenv("MEMSIM_SEED"); val != "" {
		if seed, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.Seed = seed
		}
	}

	// Export
	if val := os.Getenv("MEMSIM_TRACE_COMPRESSION"); val != "" {
		config.TraceCompression = val
	}

	// Performance
	if val := os.Getenv("MEMSIM_ENABLE_METRICS"); val != "" {
		config.EnableMetrics = val == "true" || val == "1"
	}

	if val := os.Getenv("MEMSIM_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	return config
}

// SaveToFile saves the configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", " ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.NumFrames < 1 {
		return fmt.Errorf("number of frames must be at least 1")
	}

	if c.NumFrames > MaxFrames {
		return fmt.Errorf("number of frames must be at most %d", MaxFrames)
	}

	if c.Policy != PolicyLRU && c.Policy != PolicyOptimal {
		return fmt.Errorf("invalid policy: %s (must be %s or %s)", c.Policy, PolicyLRU, PolicyOptimal)
	}

	if c.TotalMemory < 1 {
		return fmt.Errorf("total memory must be at least 1 unit")
	}

	if c.BlockSize < 1 {
		return fmt.Errorf("block size must be at least 1 unit")
	}

	if c.NumAllocs < 0 {
		return fmt.Errorf("number of allocations must be non-negative")
	}

	if c.NumDeallocs < 0 {
		return fmt.Errorf("number of deallocations must be non-negative")
	}

	if _, err := ParseCompression(c.TraceCompression); err != nil {
		return fmt.Errorf("invalid trace compression: %s (must be none, lz4 or snappy)", c.TraceCompression)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info": true,
		"warn": true,
		"error": true,
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	refs := make([]int, len(c.References))
	copy(refs, c.References)

	return &Config{
		NumFrames: c.NumFrames,
		Policy: c.Policy,
		References: refs,
		TotalMemory: c.TotalMemory,
		BlockSize: c.BlockSize,
		NumAllocs: c.NumAllocs,
		NumDeallocs: c.NumDeallocs,
		Seed: c.Seed,
		TraceCompression: c.TraceCompression,
		EnableMetrics: c.EnableMetrics,
		LogLevel: c.LogLevel,
	}
}

// ParseReferences parses a comma separated page reference sequence,
// e.g. "1,2,3,2,4". An empty string yields an empty sequence.
func ParseReferences(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}

	parts := strings.Split(s, ",")
	refs := make([]int, 0, len(parts))
	for _, part := range parts {
		page, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, ErrInvalidSequence("ParseReferences", err)
		}
		refs = append(refs, page)
	}
	return refs, nil
}
