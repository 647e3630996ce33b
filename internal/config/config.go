package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/hscreport.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	InputDir  string `yaml:"input_dir" envconfig:"INPUT_DIR" default:"data/input"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"data/reports"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// ReportConfig contains report generation settings
type ReportConfig struct {
	// OutlierCount is N for the top-N / bottom-N outlier selection.
	OutlierCount int `yaml:"outlier_count" envconfig:"OUTLIER_COUNT" default:"5" validate:"min=1"`
	// TOCEntriesPerPage is the fixed entry density of a TOC listing page.
	TOCEntriesPerPage int `yaml:"toc_entries_per_page" envconfig:"TOC_ENTRIES_PER_PAGE" default:"20" validate:"min=1"`
	// MaxChunkBytes is the per-chunk size ceiling for payload reconstruction.
	MaxChunkBytes int `yaml:"max_chunk_bytes" envconfig:"MAX_CHUNK_BYTES" default:"512000" validate:"min=1"`
	// MaxPayloadBytes caps the running total of accepted chunk lengths.
	MaxPayloadBytes int `yaml:"max_payload_bytes" envconfig:"MAX_PAYLOAD_BYTES" default:"52428800" validate:"min=1"`
	// MaxChunkCount caps how many chunk fields are considered per record.
	MaxChunkCount int `yaml:"max_chunk_count" envconfig:"MAX_CHUNK_COUNT" default:"200" validate:"min=1"`
	// YieldBetweenStages inserts a scheduling yield between expensive
	// stages and between subjects. Off by default; it is a courtesy to
	// interactive hosts, not a correctness requirement.
	YieldBetweenStages bool `yaml:"yield_between_stages" envconfig:"YIELD_BETWEEN_STAGES" default:"false"`
	// ExportCSV also writes aggregate and outlier tables as CSV.
	ExportCSV bool `yaml:"export_csv" envconfig:"EXPORT_CSV" default:"true"`
}

// Load loads configuration from environment variables and an optional
// config file. Environment variables take precedence.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("HSC", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in defaults without consulting the
// environment or a config file.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/hscreport.log",
		},
		Paths: PathsConfig{
			InputDir:  "data/input",
			OutputDir: "data/reports",
			LogsDir:   "logs",
		},
		Report: ReportConfig{
			OutlierCount:      5,
			TOCEntriesPerPage: 20,
			MaxChunkBytes:     500 * 1024,
			MaxPayloadBytes:   50 * 1024 * 1024,
			MaxChunkCount:     200,
			ExportCSV:         true,
		},
	}
}

// Validate checks the configuration against its declared constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence,
// zero-valued env fields fall back to the file values)
func mergeConfigs(fileCfg, envCfg Config) Config {
	if envCfg.Logging.Level == "" {
		envCfg.Logging.Level = fileCfg.Logging.Level
	}
	if envCfg.Logging.Output == "" {
		envCfg.Logging.Output = fileCfg.Logging.Output
	}
	if envCfg.Logging.FilePath == "" {
		envCfg.Logging.FilePath = fileCfg.Logging.FilePath
	}
	if envCfg.Paths.InputDir == "" {
		envCfg.Paths.InputDir = fileCfg.Paths.InputDir
	}
	if envCfg.Paths.OutputDir == "" {
		envCfg.Paths.OutputDir = fileCfg.Paths.OutputDir
	}
	if envCfg.Paths.LogsDir == "" {
		envCfg.Paths.LogsDir = fileCfg.Paths.LogsDir
	}
	if envCfg.Report.OutlierCount == 0 {
		envCfg.Report.OutlierCount = fileCfg.Report.OutlierCount
	}
	if envCfg.Report.TOCEntriesPerPage == 0 {
		envCfg.Report.TOCEntriesPerPage = fileCfg.Report.TOCEntriesPerPage
	}
	if envCfg.Report.MaxChunkBytes == 0 {
		envCfg.Report.MaxChunkBytes = fileCfg.Report.MaxChunkBytes
	}
	if envCfg.Report.MaxPayloadBytes == 0 {
		envCfg.Report.MaxPayloadBytes = fileCfg.Report.MaxPayloadBytes
	}
	if envCfg.Report.MaxChunkCount == 0 {
		envCfg.Report.MaxChunkCount = fileCfg.Report.MaxChunkCount
	}
	return envCfg
}

// getConfigFilePath returns the config file location next to the executable,
// falling back to the working directory.
func getConfigFilePath() string {
	exe, err := os.Executable()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "config.yaml")
}

// EnsureDirectories creates the configured directories if missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.InputDir, c.Paths.OutputDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPath returns the resolved log file path.
func (c *Config) LogPath() string {
	if filepath.IsAbs(c.Logging.FilePath) {
		return c.Logging.FilePath
	}
	return filepath.Join(c.Paths.LogsDir, filepath.Base(c.Logging.FilePath))
}
