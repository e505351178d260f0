package sim

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.NumFrames != 3 {
		t.Errorf("Expected 3 frames, got %d", config.NumFrames)
	}

	if config.Policy != PolicyLRU {
		t.Errorf("Expected policy %s, got %s", PolicyLRU, config.Policy)
	}

	if len(config.References) == 0 {
		t.Error("Expected a default reference sequence")
	}

	if config.TotalMemory != 200 {
		t.Errorf("Expected 200 memory units, got %d", config.TotalMemory)
	}

	if config.BlockSize != 20 {
		t.Errorf("Expected block size 20, got %d", config.BlockSize)
	}

	if !config.EnableMetrics {
		t.Error("Expected metrics to be enabled by default")
	}

	if config.LogLevel != "info" {
		t.Errorf("Expected log level 'info', got '%s'", config.LogLevel)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	valid := func(mutate func(*Config)) *Config {
		config := DefaultConfig()
		mutate(config)
		return config
	}

	tests := []struct {
		name string
		config *Config
		expectError bool
	}{
		{
			name: "valid config",
			config: DefaultConfig(),
			expectError: false,
		},
		{
			name: "zero frames",
			config: valid(func(c *Config) { c.NumFrames = 0 }),
			expectError: true,
		},
		{
			name: "too many frames",
			config: valid(func(c *Config) { c.NumFrames = MaxFrames + 1 }),
			expectError: true,
		},
		{
			name: "unknown policy",
			config: valid(func(c *Config) { c.Policy = "FIFO" }),
			expectError: true,
		},
		{
			name: "zero memory",
			config: valid(func(c *Config) { c.TotalMemory = 0 }),
			expectError: true,
		},
		{
			name: "zero block size",
			config: valid(func(c *Config) { c.BlockSize = 0 }),
			expectError: true,
		},
		{
			name: "negative allocations",
			config: valid(func(c *Config) { c.NumAllocs = -1 }),
			expectError: true,
		},
		{
			name: "negative deallocations",
			config: valid(func(c *Config) { c.NumDeallocs = -1 }),
			expectError: true,
		},
		{
			name: "unknown compression",
			config: valid(func(c *Config) { c.TraceCompression = "gzip" }),
			expectError: true,
		},
		{
			name: "invalid log level",
			config: valid(func(c *Config) { c.LogLevel = "verbose" }),
			expectError: true,
		},
		{
			name: "block larger than memory is allowed",
			config: valid(func(c *Config) { c.BlockSize = 500 }),
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestConfigSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memsim.json")

	config := DefaultConfig()
	config.NumFrames = 5
	config.Policy = PolicyOptimal
	config.References = []int{3, 1, 4, 1, 5}
	config.Seed = 1234

	if err := config.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadConfigFromFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFromFile failed: %v", err)
	}

	if !reflect.DeepEqual(loaded, config) {
		t.Errorf("Loaded config differs:\n got %+v\nwant %+v", loaded, config)
	}
}

func TestLoadConfigFromFileMissing(t *testing.T) {
	_, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("MEMSIM_NUM_FRAMES", "4")
	t.Setenv("MEMSIM_POLICY", "Optimal")
	t.Setenv("MEMSIM_REFERENCES", "1, 2, 3")
	t.Setenv("MEMSIM_TOTAL_MEMORY", "100")
	t.Setenv("MEMSIM_BLOCK_SIZE", "10")
	t.Setenv("MEMSIM_NUM_ALLOCS", "6")
	t.Setenv("MEMSIM_NUM_DEALLOCS", "2")
	t.Setenv("MEMSIM_SEED", "77")
	t.Setenv("MEMSIM_TRACE_COMPRESSION", "lz4")
	t.Setenv("MEMSIM_ENABLE_METRICS", "false")
	t.Setenv("MEMSIM_LOG_LEVEL", "debug")

	config := LoadConfigFromEnv()

	if config.NumFrames != 4 {
		t.Errorf("Expected 4 frames, got %d", config.NumFrames)
	}
	if config.Policy != PolicyOptimal {
		t.Errorf("Expected Optimal policy, got %s", config.Policy)
	}
	if !reflect.DeepEqual(config.References, []int{1, 2, 3}) {
		t.Errorf("Expected references [1 2 3], got %v", config.References)
	}
	if config.TotalMemory != 100 || config.BlockSize != 10 {
		t.Errorf("Expected memory 100/block 10, got %d/%d", config.TotalMemory, config.BlockSize)
	}
	if config.NumAllocs != 6 || config.NumDeallocs != 2 {
		t.Errorf("Expected allocs 6/deallocs 2, got %d/%d", config.NumAllocs, config.NumDeallocs)
	}
	if config.Seed != 77 {
		t.Errorf("Expected seed 77, got %d", config.Seed)
	}
	if config.TraceCompression != "lz4" {
		t.Errorf("Expected lz4 compression, got %s", config.TraceCompression)
	}
	if config.EnableMetrics {
		t.Error("Expected metrics disabled")
	}
	if config.LogLevel != "debug" {
		t.Errorf("Expected debug log level, got %s", config.LogLevel)
	}
}

func TestConfigClone(t *testing.T) {
	config := DefaultConfig()
	clone := config.Clone()

	if !reflect.DeepEqual(clone, config) {
		t.Error("Clone differs from original")
	}

	// The reference sequence must be an independent copy
	clone.References[0] = 999
	if config.References[0] == 999 {
		t.Error("Clone shares the reference sequence slice")
	}
}

func TestParseReferences(t *testing.T) {
	tests := []struct {
		name string
		input string
		expected []int
		expectError bool
	}{
		{name: "simple", input: "1,2,3", expected: []int{1, 2, 3}},
		{name: "spaces", input: " 1 , 2 ,3 ", expected: []int{1, 2, 3}},
		{name: "negative pages", input: "-1,0,7", expected: []int{-1, 0, 7}},
		{name: "empty", input: "", expected: []int{}},
		{name: "blank", input: "  ", expected: []int{}},
		{name: "garbage", input: "1,two,3", expectError: true},
		{name: "trailing comma", input: "1,2,", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs, err := ParseReferences(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatal("Expected parse error")
				}
				if !IsErrorCode(err, ErrCodeInvalidSequence) {
					t.Errorf("Expected ErrCodeInvalidSequence, got %d", GetErrorCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(refs, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, refs)
			}
		})
	}
}
