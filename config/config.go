// Package config loads the TOML-backed settings for cmd/asm and cmd/vm:
// output/log locations, the assembler's debug-dump defaults, the VM's
// run-cycle ceiling, and memory sizes. The CLIs read only
// assembler.output_dir (cmd/asm) and vm.max_cycles (cmd/vm); logging and
// --pretty come from CLI flags and their built-in defaults, and the other
// fields are not consulted by either CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the assembler and VM sections of a sixbit-toolchain config
// file.
type Config struct {
	Assembler struct {
		OutputDir  string `toml:"output_dir"`
		LogTo      string `toml:"log_to"` // "console" or "file"
		LogPath    string `toml:"log_path"`
		LogFile    string `toml:"log_file"`
		Pretty     bool   `toml:"pretty"`
		EnableDump bool   `toml:"enable_dump"`
	} `toml:"assembler"`

	VM struct {
		MaxCycles     uint64 `toml:"max_cycles"`
		LogTo         string `toml:"log_to"`
		LogPath       string `toml:"log_path"`
		LogFile       string `toml:"log_file"`
		ProgramMemory int    `toml:"program_memory_size"`
		DataMemory    int    `toml:"data_memory_size"`
		EnableTrace   bool   `toml:"enable_trace"`
	} `toml:"vm"`
}

// DefaultConfig returns the built-in defaults, used whenever no config
// file is present or a file omits a section.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assembler.OutputDir = "."
	cfg.Assembler.LogTo = "console"
	cfg.Assembler.LogPath = "./logs"
	cfg.Assembler.LogFile = "asm.txt"
	cfg.Assembler.Pretty = false
	cfg.Assembler.EnableDump = false

	cfg.VM.MaxCycles = 1_000_000
	cfg.VM.LogTo = "console"
	cfg.VM.LogPath = "./logs"
	cfg.VM.LogFile = "vm.txt"
	cfg.VM.ProgramMemory = 256
	cfg.VM.DataMemory = 256
	cfg.VM.EnableTrace = false

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "sixbit-toolchain")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "sixbit-toolchain")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the given path, falling back to
// DefaultConfig when the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the given path, creating parent
// directories as needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
