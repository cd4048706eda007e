package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Inputs Inputs      `yaml:"inputs" mapstructure:"inputs"`
	Output Output      `yaml:"output" mapstructure:"output"`
	Store  StoreConfig `yaml:"store" mapstructure:"store"`
	Merge  MergeConfig `yaml:"merge" mapstructure:"merge"`
	Report Report      `yaml:"report" mapstructure:"report"`
	Log    LogConfig   `yaml:"log" mapstructure:"log"`
}

// Inputs names the source export files for a dedupe run. Flags override
// these paths; a missing file is skipped with a warning.
type Inputs struct {
	Mail      string `yaml:"mail" mapstructure:"mail"`
	Network   string `yaml:"network" mapstructure:"network"`
	PhoneBook string `yaml:"phonebook" mapstructure:"phonebook"`
}

// Output configures the flat-file sink.
type Output struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// MergeConfig configures the fuzzy name-merge pass.
type MergeConfig struct {
	Threshold  float64 `yaml:"threshold" mapstructure:"threshold"`
	Dictionary string  `yaml:"dictionary" mapstructure:"dictionary"`
}

// Report configures the report command.
type Report struct {
	SampleSize int `yaml:"sample_size" mapstructure:"sample_size"`
	RunLimit   int `yaml:"run_limit" mapstructure:"run_limit"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DECODE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("inputs.mail", "mails.csv")
	v.SetDefault("inputs.network", "connections.csv")
	v.SetDefault("inputs.phonebook", "contacts.csv")
	v.SetDefault("output.path", "decoded_contacts.csv")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "decoded_contacts.db")
	v.SetDefault("merge.threshold", 0.7)
	v.SetDefault("report.sample_size", 10)
	v.SetDefault("report.run_limit", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration can drive a dedupe run.
func (c *Config) Validate() error {
	var problems []string

	if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		problems = append(problems, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		problems = append(problems, "store.database_url is required")
	}
	if c.Output.Path == "" {
		problems = append(problems, "output.path is required")
	}
	if c.Merge.Threshold <= 0 || c.Merge.Threshold > 1 {
		problems = append(problems, "merge.threshold must be in (0, 1]")
	}
	if c.Report.SampleSize < 0 {
		problems = append(problems, "report.sample_size must be >= 0")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
