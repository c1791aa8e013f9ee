package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes the decision export to read.
type InputConfig struct {
	File      string `yaml:"path" split_words:"true" validate:"required"`
	Delimiter string `yaml:"delimiter" split_words:"true" validate:"required,len=1"`
	Encoding  string `yaml:"encoding" split_words:"true" validate:"required,oneof=utf-8 utf8 latin1 iso-8859-1 windows-1252"`
	Sheet     string `yaml:"sheet" split_words:"true"`
}

// OutputConfig names the generated artifacts. Relative names are resolved
// against Dir.
type OutputConfig struct {
	Dir         string `yaml:"dir" split_words:"true"`
	Spreadsheet string `yaml:"spreadsheet" split_words:"true" validate:"required"`
	Report      string `yaml:"report" split_words:"true" validate:"required"`
	Histogram   string `yaml:"histogram" split_words:"true" validate:"required"`
	Manifest    string `yaml:"manifest" split_words:"true"`
	SheetName   string `yaml:"sheet_name" split_words:"true" validate:"required,max=31"`
}

// AnalysisConfig holds the matching heuristics.
type AnalysisConfig struct {
	DocumentTypes     []string `yaml:"document_types" split_words:"true" validate:"required,min=1,dive,required"`
	ConvictionKeyword string   `yaml:"conviction_keyword" split_words:"true" validate:"required"`
	HistogramBins     int      `yaml:"histogram_bins" split_words:"true" validate:"min=1,max=1000"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" split_words:"true" validate:"oneof=json text"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true"`
}

// TelemetryConfig controls run tracing and the metrics textfile.
type TelemetryConfig struct {
	Tracing     bool   `yaml:"tracing" split_words:"true"`
	TraceFile   string `yaml:"trace_file" split_words:"true"`
	MetricsFile string `yaml:"metrics_file" split_words:"true"`
}

// Leaf fields use split_words rather than envconfig name tags: a tagged name
// is also looked up without the CADE_ prefix.
var validate = validator.New()

// Load builds the configuration from defaults, an optional YAML file and
// CADE_* environment variables, in increasing order of precedence.
// An empty configFile triggers discovery in the usual locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	explicit := configFile != ""
	if !explicit {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			if explicit {
				return nil, fmt.Errorf("config file %s: %w", configFile, err)
			}
		} else if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching variable keep the file/default value.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize trims list entries and lower-cases enum-like settings.
func (c *Config) normalize() {
	types := c.Analysis.DocumentTypes[:0]
	for _, t := range c.Analysis.DocumentTypes {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	c.Analysis.DocumentTypes = types
	c.Input.Encoding = strings.ToLower(strings.TrimSpace(c.Input.Encoding))
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
}

// Validate checks the configuration once all sources, flags included, are applied.
func (c *Config) Validate() error {
	c.normalize()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	switch r, _ := utf8.DecodeRuneInString(c.Input.Delimiter); r {
	case '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("config validation failed: input.delimiter %q cannot separate CSV fields", c.Input.Delimiter)
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("config validation failed: logging.file_path is required for output %q", c.Logging.Output)
	}
	return nil
}

// Delimiter returns the configured field separator as a rune.
func (c *Config) Delimiter() rune {
	for _, r := range c.Input.Delimiter {
		return r
	}
	return ','
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		DefaultConfigFile,
		"configs/" + DefaultConfigFile,
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Delimiter: ",",
			Encoding:  "utf-8",
		},
		Output: OutputConfig{
			Dir:         ".",
			Spreadsheet: DefaultSpreadsheetFile,
			Report:      DefaultReportFile,
			Histogram:   DefaultHistogramFile,
			SheetName:   DefaultSheetName,
		},
		Analysis: AnalysisConfig{
			DocumentTypes:     append([]string(nil), DefaultDocumentTypes...),
			ConvictionKeyword: DefaultConvictionKeyword,
			HistogramBins:     DefaultHistogramBins,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
	}
}
