package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"CreativeAnalytics/internal/domain"
	"CreativeAnalytics/internal/infrastructure/scheduler"
)

const (
	defaultTimezone       = "UTC"
	defaultWorkbook       = "data/dataset.xlsx"
	configPathEnv         = "CREATIVE_ANALYTICS_CONFIG"
	databaseDSNEnv        = "DATABASE_DSN"
	databaseDriverEnv     = "DATABASE_DRIVER"
	logLevelEnv           = "LOG_LEVEL"
	outputDirEnv          = "CREATIVE_ANALYTICS_OUTPUT_DIR"
	maxInvalidFractionEnv = "CREATIVE_ANALYTICS_MAX_INVALID_FRACTION"
	telegramTokenEnv      = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv     = "TELEGRAM_CHAT_ID"
)

// Config holds every setting of a pipeline run.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Sources       SourcesConfig      `yaml:"sources"`
	Normalize     NormalizeConfig    `yaml:"normalize"`
	Identity      IdentityConfig     `yaml:"identity"`
	Output        OutputConfig       `yaml:"output"`
	Database      DatabaseConfig     `yaml:"database"`
	Telemetry     TelemetryConfig    `yaml:"telemetry"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// SourcesConfig describes the four raw inputs.
type SourcesConfig struct {
	Backlog SourceConfig `yaml:"backlog"`
	Spend   SourceConfig `yaml:"spend"`
	Mapping SourceConfig `yaml:"mapping"`
	Revenue SourceConfig `yaml:"revenue"`
}

// ByName returns the configuration of a source by its domain name.
func (s SourcesConfig) ByName(name string) (SourceConfig, bool) {
	switch name {
	case domain.SourceBacklog:
		return s.Backlog, true
	case domain.SourceSpend:
		return s.Spend, true
	case domain.SourceMapping:
		return s.Mapping, true
	case domain.SourceRevenue:
		return s.Revenue, true
	default:
		return SourceConfig{}, false
	}
}

// SourceConfig is the contract between a loader and one tabular source.
type SourceConfig struct {
	Format    string `yaml:"format" validate:"required,oneof=xlsx csv html"`
	Path      string `yaml:"path" validate:"required"`
	Sheet     string `yaml:"sheet"`
	Delimiter string `yaml:"delimiter" validate:"omitempty,len=1"`
	Selector  string `yaml:"selector"`
	// Columns maps canonical field names to the header aliases used by the source.
	Columns map[string][]string `yaml:"columns"`
}

// NormalizeConfig tunes parsing of dates and numbers.
type NormalizeConfig struct {
	MaxInvalidFraction float64  `yaml:"maxInvalidFraction" validate:"gte=0,lte=1"`
	DateFormats        []string `yaml:"dateFormats" validate:"min=1"`
	DecimalComma       bool     `yaml:"decimalComma"`
}

// IdentityConfig lists the recognized naming-convention vocabulary.
type IdentityConfig struct {
	Media   []string `yaml:"media"`
	Types   []string `yaml:"types"`
	Authors []string `yaml:"authors"`
}

// OutputConfig controls the delimited-text export. An empty Dir disables it.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	Delimiter string `yaml:"delimiter" validate:"len=1"`
	Undefined string `yaml:"undefined"`
}

// DatabaseConfig describes the relational sink. An empty DSN disables it.
type DatabaseConfig struct {
	Driver      string `yaml:"driver" validate:"oneof=postgres sqlite"`
	DSN         string `yaml:"dsn"`
	BatchSize   int    `yaml:"batchSize" validate:"gte=1"`
	AutoMigrate bool   `yaml:"autoMigrate"`
}

// TelemetryConfig points at a node-exporter textfile collector file.
type TelemetryConfig struct {
	Textfile string `yaml:"textfile"`
}

// SchedulerConfig defines when the batch should re-run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression" validate:"required,cron"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram   TelegramConfig `yaml:"telegram"`
	TopAuthors int            `yaml:"topAuthors" validate:"gte=0"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads YAML configuration (explicit path first, then the env variable) over the
// defaults and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	cfg.bindTimezone()

	return cfg, nil
}

// Validate checks struct constraints.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("cron", func(fl validator.FieldLevel) bool {
		return scheduler.Validate(fl.Field().String()) == nil
	}); err != nil {
		return fmt.Errorf("register cron validation: %w", err)
	}
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(databaseDriverEnv); v != "" {
		c.Database.Driver = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(outputDirEnv); v != "" {
		c.Output.Dir = v
	}

	if v := os.Getenv(maxInvalidFractionEnv); v != "" {
		fraction, err := cast.ToFloat64E(v)
		if err != nil {
			return fmt.Errorf("%s: %w", maxInvalidFractionEnv, err)
		}
		c.Normalize.MaxInvalidFraction = fraction
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	return nil
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Sources: SourcesConfig{
			Backlog: SourceConfig{
				Format: "xlsx",
				Path:   defaultWorkbook,
				Sheet:  "Creative backlog",
				Columns: map[string][]string{
					"articleid":    {"article_id", "article"},
					"headline":     {"title", "creative_name"},
					"created_date": {"created", "date_created"},
				},
			},
			Spend: SourceConfig{
				Format: "xlsx",
				Path:   defaultWorkbook,
				Sheet:  "Facebook Ads data",
				Columns: map[string][]string{
					"date":          {"day", "reporting_starts"},
					"campaign_name": {"campaign"},
					"spend":         {"spend_usd", "amount_spent", "amount_spent_(usd)", "cost"},
					"clicks":        {"link_clicks", "clicks_(all)"},
				},
			},
			Mapping: SourceConfig{
				Format: "xlsx",
				Path:   defaultWorkbook,
				Sheet:  "Campaigns_Adsets",
				Columns: map[string][]string{
					"adset_id":   {"ad_set_id"},
					"adset_name": {"ad_set_name"},
				},
			},
			Revenue: SourceConfig{
				Format: "xlsx",
				Path:   defaultWorkbook,
				Sheet:  "Google Ad Manager revenue data",
				Columns: map[string][]string{
					"adset_id":       {"ad_set_id"},
					"banner_revenue": {"banner", "banner_rev"},
					"video_revenue":  {"video", "video_rev"},
				},
			},
		},
		Normalize: NormalizeConfig{
			MaxInvalidFraction: 0.2,
			DateFormats: []string{
				"2006-01-02",
				"2006-01-02 15:04:05",
				time.RFC3339,
				"01/02/2006",
				"1/2/2006",
				"02.01.2006",
				"2006/01/02",
			},
		},
		Identity: IdentityConfig{
			Media: []string{"video", "image", "gif", "carousel"},
			Types: []string{"banner", "native", "story", "reel", "feed"},
		},
		Output: OutputConfig{Dir: "outputs", Delimiter: ","},
		Database: DatabaseConfig{
			Driver:      "postgres",
			BatchSize:   500,
			AutoMigrate: true,
		},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
		Notifications: NotificationConfig{
			TopAuthors: 5,
		},
	}
}
