package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Crawler configuration
	Crawler CrawlerConfig `mapstructure:"crawler"`

	// Downloader configuration
	Downloader DownloaderConfig `mapstructure:"downloader"`

	// Output artifacts
	Output OutputConfig `mapstructure:"output"`

	// Storage configuration
	Storage StorageConfig `mapstructure:"storage"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlerConfig holds crawler-specific configuration
type CrawlerConfig struct {
	Roots                []string      `mapstructure:"roots"`
	FilesDomain          string        `mapstructure:"files_domain"`
	UserAgent            string        `mapstructure:"user_agent"`
	MinDelay             time.Duration `mapstructure:"min_delay"`
	MaxDelay             time.Duration `mapstructure:"max_delay"`
	RequestsPerSecond    float64       `mapstructure:"requests_per_second"`
	Timeout              time.Duration `mapstructure:"timeout"`
	Blacklist            []string      `mapstructure:"blacklist"`
	IncludeSubdomains    bool          `mapstructure:"include_subdomains"`
	ShareDiscoveredFiles bool          `mapstructure:"share_discovered_files"`
}

// DownloaderConfig holds downloader-specific configuration
type DownloaderConfig struct {
	Directory string `mapstructure:"directory"`
	InputFile string `mapstructure:"input_file"`
}

// OutputConfig controls where the per-run text artifacts and the report go
type OutputConfig struct {
	Dir             string `mapstructure:"dir"`
	TimestampFormat string `mapstructure:"timestamp_format"`
	ReportFormat    string `mapstructure:"report_format"` // "json", "markdown" or "html"
	ReportPath      string `mapstructure:"report_path"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Type string `mapstructure:"type"` // "file" or "sqlite"
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

const envPrefix = "SITEARCHIVER"

// Load loads configuration from file and environment. An empty configPath
// searches the usual locations; a missing file there is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.sitearchiver")
	}

	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// defaultConfig returns the configuration built purely from defaults.
func defaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	// Crawler defaults
	v.SetDefault("crawler.roots", []string{})
	v.SetDefault("crawler.files_domain", "files.edl.io")
	v.SetDefault("crawler.user_agent", "LSSD-Site-Archiver/0.1")
	v.SetDefault("crawler.min_delay", "100ms")
	v.SetDefault("crawler.max_delay", "500ms")
	v.SetDefault("crawler.requests_per_second", 0)
	v.SetDefault("crawler.timeout", "30s")
	v.SetDefault("crawler.blacklist", []string{"/events/", "subscribe/"})
	v.SetDefault("crawler.include_subdomains", false)
	v.SetDefault("crawler.share_discovered_files", true)

	// Downloader defaults
	v.SetDefault("downloader.directory", "download")
	v.SetDefault("downloader.input_file", "scraper-downloadables.txt")

	// Output defaults
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.timestamp_format", "2006-01-02-1504")
	v.SetDefault("output.report_format", "json")
	v.SetDefault("output.report_path", "")

	// Storage defaults
	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.path", "./archive.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Crawler.FilesDomain == "" {
		return fmt.Errorf("crawler.files_domain must not be empty")
	}
	if c.Crawler.MinDelay < 0 || c.Crawler.MaxDelay < 0 {
		return fmt.Errorf("crawler delays must not be negative")
	}
	if c.Crawler.MinDelay > c.Crawler.MaxDelay {
		return fmt.Errorf("crawler.min_delay (%s) exceeds crawler.max_delay (%s)", c.Crawler.MinDelay, c.Crawler.MaxDelay)
	}
	if c.Crawler.RequestsPerSecond < 0 {
		return fmt.Errorf("crawler.requests_per_second must not be negative")
	}
	if c.Downloader.Directory == "" {
		return fmt.Errorf("downloader.directory must not be empty")
	}

	switch c.Storage.Type {
	case "file":
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for sqlite storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	switch c.Output.ReportFormat {
	case "json", "markdown", "html":
	default:
		return fmt.Errorf("unsupported report format: %s", c.Output.ReportFormat)
	}

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}

	return nil
}
