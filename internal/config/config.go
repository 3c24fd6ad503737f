// Package config manages configuration for the sapinvoices-ui web app and CLI.
// It uses Viper for unified configuration management from environment variables
// and an optional YAML file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	appErrors "github.com/MITLibraries/alma-sapinvoices-ui/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the immutable runtime configuration. It is built once at startup
// and passed into constructors.
type Config struct {
	// ECS task launch settings
	ContainerName     string `mapstructure:"ecr_image_name" env:"ALMA_SAP_INVOICES_ECR_IMAGE_NAME" validate:"required"`
	ECSCluster        string `mapstructure:"ecs_cluster" env:"ALMA_SAP_INVOICES_ECS_CLUSTER" validate:"required"`
	TaskDefinition    string `mapstructure:"ecs_task_definition" env:"ALMA_SAP_INVOICES_ECS_TASK_DEFINITION" validate:"required"`
	NetworkConfigJSON string `mapstructure:"ecs_network_config" env:"ALMA_SAP_INVOICES_ECS_NETWORK_CONFIG" validate:"required"`

	// CloudWatch Logs
	LogGroup        string `mapstructure:"cloudwatch_log_group" env:"ALMA_SAP_INVOICES_CLOUDWATCH_LOG_GROUP" validate:"required"`
	LogStreamPrefix string `mapstructure:"log_stream_prefix" env:"SAPINVOICES_UI_LOG_STREAM_PREFIX"`
	SummaryLogs     bool   `mapstructure:"summary_logs" env:"SAPINVOICES_UI_SUMMARY_LOGS"`

	Workspace     string `mapstructure:"workspace" env:"WORKSPACE" validate:"required"`
	Region        string `mapstructure:"region" env:"AWS_DEFAULT_REGION" validate:"required"`
	LoginDisabled bool   `mapstructure:"login_disabled" env:"LOGIN_DISABLED"`
	SentryDSN     string `mapstructure:"sentry_dsn" env:"SENTRY_DSN" validate:"omitempty,url"`

	ALBPublicKeyEndpoint string `mapstructure:"alb_public_key_endpoint" env:"SAPINVOICES_UI_ALB_PUBLIC_KEY_ENDPOINT" validate:"omitempty,url"` //nolint:lll

	LogLevel            string        `mapstructure:"log_level" env:"SAPINVOICES_UI_LOG_LEVEL"`
	Port                int           `mapstructure:"port" env:"SAPINVOICES_UI_PORT" validate:"min=1,max=65535"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout" env:"SAPINVOICES_UI_REQUEST_TIMEOUT" validate:"gte=0"`
	InitTimeout         time.Duration `mapstructure:"init_timeout" env:"SAPINVOICES_UI_INIT_TIMEOUT" validate:"gt=0"`
	MonitorTimeout      time.Duration `mapstructure:"monitor_timeout" env:"SAPINVOICES_UI_MONITOR_TIMEOUT" validate:"gt=0"`
	MonitorPollInterval time.Duration `mapstructure:"monitor_poll_interval" env:"SAPINVOICES_UI_MONITOR_POLL_INTERVAL" validate:"gt=0"` //nolint:lll

	// Network is decoded from NetworkConfigJSON during Load.
	Network api.NetworkConfiguration `mapstructure:"-" validate:"-"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("env"); name != "" {
			return name
		}
		return field.Name
	})
	return v
}

// Load builds the configuration from environment variables.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile builds the configuration from an optional YAML file overlaid with
// environment variables. Environment variables take precedence.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	network, err := ParseNetworkConfiguration(cfg.NetworkConfigJSON)
	if err != nil {
		return nil, err
	}
	cfg.Network = *network

	return &cfg, nil
}

// MustLoad loads configuration and exits on error.
// Suitable for application startup where configuration errors should be fatal.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

// ParseNetworkConfiguration decodes the awsvpc network configuration JSON.
func ParseNetworkConfiguration(raw string) (*api.NetworkConfiguration, error) {
	var network api.NetworkConfiguration
	if err := json.Unmarshal([]byte(raw), &network); err != nil {
		return nil, appErrors.ErrInvalidNetworkConfiguration(err)
	}
	if err := validate.Struct(&network); err != nil {
		return nil, appErrors.ErrInvalidNetworkConfiguration(err)
	}
	return &network, nil
}

// GetLogLevel returns the slog.Level from the string configuration.
// Defaults to INFO if the level string is invalid.
func (c *Config) GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// GetLogStreamPrefix returns the prefix prepended to a task ID to name its log stream.
func (c *Config) GetLogStreamPrefix() string {
	if c.LogStreamPrefix != "" {
		return c.LogStreamPrefix
	}
	return "sapinvoices/" + c.LogGroup + "/"
}

// GetALBPublicKeyEndpoint returns the base URL serving ALB token signing keys.
func (c *Config) GetALBPublicKeyEndpoint() string {
	if c.ALBPublicKeyEndpoint != "" {
		return strings.TrimSuffix(c.ALBPublicKeyEndpoint, "/")
	}
	return fmt.Sprintf("https://public-keys.auth.elb.%s.amazonaws.com", c.Region)
}

// Helper functions

func setDefaults(v *viper.Viper) {
	v.SetDefault("region", "us-east-1")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("port", 8080)
	v.SetDefault("request_timeout", 0)
	v.SetDefault("init_timeout", constants.DefaultContextTimeout.String())
	v.SetDefault("monitor_timeout", constants.DefaultMonitorTimeout.String())
	v.SetDefault("monitor_poll_interval", constants.DefaultMonitorPollInterval.String())
	v.SetDefault("login_disabled", false)
	v.SetDefault("summary_logs", false)
}

// bindEnvVars binds each config key to the environment variable named in its env tag.
func bindEnvVars(v *viper.Viper) {
	t := reflect.TypeOf(Config{})
	for i := range t.NumField() {
		field := t.Field(i)
		key := field.Tag.Get("mapstructure")
		envVar := field.Tag.Get("env")
		if key == "" || key == "-" || envVar == "" {
			continue
		}
		_ = v.BindEnv(key, envVar)
	}
}

func validateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("config validation failed: %w", err)
	}

	var missing, invalid []string
	for _, fieldErr := range validationErrs {
		if fieldErr.Tag() == "required" {
			missing = append(missing, fieldErr.Field())
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s (%s)", fieldErr.Field(), fieldErr.Tag()))
	}
	sort.Strings(missing)
	sort.Strings(invalid)

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
}
