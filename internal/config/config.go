package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverYAML   = "yaml"
	StorageDriverMemory = "memory"
	StorageDriverMySQL  = "mysql"
	StorageDriverRedis  = "redis"
)

type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Study     StudyConfig     `mapstructure:"study"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Outputs   OutputsConfig   `mapstructure:"outputs"`
}

type StorageConfig struct {
	Driver    string      `mapstructure:"driver" validate:"oneof=yaml memory mysql redis"`
	Directory string      `mapstructure:"directory" validate:"required_if=Driver yaml"`
	Retry     RetryConfig `mapstructure:"retry"`
}

type RetryConfig struct {
	Attempts uint `mapstructure:"attempts" validate:"min=1,max=10"`
	DelayMS  int  `mapstructure:"delay_ms" validate:"min=0"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type RedisConfig struct {
	Address   string `mapstructure:"address" validate:"hostname_port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db" validate:"min=0"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type StudyConfig struct {
	TimerEnabled   bool `mapstructure:"timer_enabled"`
	MaxCardSeconds int  `mapstructure:"max_card_seconds" validate:"min=5,max=120"`
}

type TemplatesConfig struct {
	ReportTemplate string `mapstructure:"report_template" validate:"omitempty,file"`
}

type OutputsConfig struct {
	ReportDirectory string `mapstructure:"report_directory"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
	envFile    string
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/leitner")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
		envFile:    ".env",
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	// Variables already set in the environment win over the .env file
	if _, err := os.Stat(loader.envFile); err == nil {
		if err := godotenv.Load(loader.envFile); err != nil {
			return nil, fmt.Errorf("godotenv.Load(%s) > %w", loader.envFile, err)
		}
	}

	v.SetDefault("storage.driver", StorageDriverYAML)
	v.SetDefault("storage.directory", "data")
	v.SetDefault("storage.retry.attempts", 3)
	v.SetDefault("storage.retry.delay_ms", 100)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "leitner")
	v.SetDefault("database.username", "user")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.key_prefix", "leitner:")
	v.SetDefault("study.timer_enabled", true)
	v.SetDefault("study.max_card_seconds", 30)
	// Template is optional - if not specified, will use embedded fallback template
	v.SetDefault("templates.report_template", "")
	v.SetDefault("outputs.report_directory", filepath.Join("outputs", "reports"))

	if err := v.BindEnv("storage.driver", "LEITNER_STORAGE_DRIVER"); err != nil {
		return nil, fmt.Errorf("failed to bind LEITNER_STORAGE_DRIVER environment variable: %w", err)
	}
	// Bind passwords to environment variables
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("redis.password", "REDIS_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind REDIS_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("validator.Struct() > %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
