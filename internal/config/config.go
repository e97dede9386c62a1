package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv       = "HNDIGEST_CONFIG"
	sourceBaseURLEnv    = "HN_BASE_URL"
	openAIKeyEnv        = "OPENAI_API_KEY"
	openAIModelEnv      = "OPENAI_MODEL"
	storeTokenEnv       = "NOTION_TOKEN"
	recordsDatabaseEnv  = "NOTION_DATABASE_ID"
	digestDatabaseEnv   = "NOTION_OUTPUT_DATABASE_ID"
	archivePathEnv      = "ARCHIVE_PATH"
	collectScheduleEnv  = "COLLECT_SCHEDULE"
	defaultTopLimit     = 5
	defaultDigestWindow = 7
)

// Config holds every setting the application needs, built once at startup
// and passed explicitly into component constructors.
type Config struct {
	Source     SourceConfig     `yaml:"source"`
	Extractor  ExtractorConfig  `yaml:"extractor"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Store      StoreConfig      `yaml:"store"`
	Digest     DigestConfig     `yaml:"digest"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SourceConfig describes the ranked-discussion API.
type SourceConfig struct {
	BaseURL  string `yaml:"baseUrl"`
	TopLimit int    `yaml:"topLimit"`
}

// ExtractorConfig bounds the article page fetch.
type ExtractorConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// SummarizerConfig defines how to contact the chat-completions API.
type SummarizerConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"apiKey"`
	Timeout  time.Duration `yaml:"timeout"`
}

// StoreConfig wires the document store connection and target databases.
type StoreConfig struct {
	BaseURL         string `yaml:"baseUrl"`
	Token           string `yaml:"token"`
	Version         string `yaml:"version"`
	RecordsDatabase string `yaml:"recordsDatabase"`
	DigestDatabase  string `yaml:"digestDatabase"`
}

// DigestConfig controls the composition window.
type DigestConfig struct {
	WindowDays int `yaml:"windowDays"`
}

// ArchiveConfig enables the local SQLite mirror when Path is set.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// SchedulerConfig holds the optional cron expression for scheduled collection.
type SchedulerConfig struct {
	CronExpression string `yaml:"cronExpression"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(sourceBaseURLEnv); v != "" {
		c.Source.BaseURL = v
	}

	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.Summarizer.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.Summarizer.Model = v
	}

	if v := os.Getenv(storeTokenEnv); v != "" {
		c.Store.Token = v
	}

	if v := os.Getenv(recordsDatabaseEnv); v != "" {
		c.Store.RecordsDatabase = v
	}

	if v := os.Getenv(digestDatabaseEnv); v != "" {
		c.Store.DigestDatabase = v
	}

	if v := os.Getenv(archivePathEnv); v != "" {
		c.Archive.Path = v
	}

	if v := os.Getenv(collectScheduleEnv); v != "" {
		c.Scheduler.CronExpression = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Source.BaseURL != "" {
		base.Source.BaseURL = override.Source.BaseURL
	}
	if override.Source.TopLimit > 0 {
		base.Source.TopLimit = override.Source.TopLimit
	}

	if override.Extractor.Timeout > 0 {
		base.Extractor.Timeout = override.Extractor.Timeout
	}

	if override.Summarizer.Endpoint != "" {
		base.Summarizer.Endpoint = override.Summarizer.Endpoint
	}
	if override.Summarizer.Model != "" {
		base.Summarizer.Model = override.Summarizer.Model
	}
	if override.Summarizer.APIKey != "" {
		base.Summarizer.APIKey = override.Summarizer.APIKey
	}
	if override.Summarizer.Timeout > 0 {
		base.Summarizer.Timeout = override.Summarizer.Timeout
	}

	if override.Store.BaseURL != "" {
		base.Store.BaseURL = override.Store.BaseURL
	}
	if override.Store.Token != "" {
		base.Store.Token = override.Store.Token
	}
	if override.Store.Version != "" {
		base.Store.Version = override.Store.Version
	}
	if override.Store.RecordsDatabase != "" {
		base.Store.RecordsDatabase = override.Store.RecordsDatabase
	}
	if override.Store.DigestDatabase != "" {
		base.Store.DigestDatabase = override.Store.DigestDatabase
	}

	if override.Digest.WindowDays > 0 {
		base.Digest.WindowDays = override.Digest.WindowDays
	}

	if override.Archive.Path != "" {
		base.Archive.Path = override.Archive.Path
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Source: SourceConfig{
			BaseURL:  "https://hacker-news.firebaseio.com",
			TopLimit: defaultTopLimit,
		},
		Extractor: ExtractorConfig{Timeout: 20 * time.Second},
		Summarizer: SummarizerConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-3.5-turbo",
			Timeout:  60 * time.Second,
		},
		Store: StoreConfig{
			BaseURL: "https://api.notion.com",
			Version: "2022-06-28",
		},
		Digest:  DigestConfig{WindowDays: defaultDigestWindow},
		Logging: LoggingConfig{Level: "info"},
	}
}
