// Package config loads service settings from an env file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 8080
	DefaultLogLevel      = "info"
	DefaultDriver        = "bigquery"
	DefaultTable         = "etl-microservice-project.sales_data.transactions"
	DefaultInsertTimeout = 10 * time.Second
)

// Config holds every externally supplied setting.
type Config struct {
	Host     string `validate:"omitempty,hostname|ip"`
	Port     int    `validate:"min=1,max=65535"`
	LogLevel string `validate:"oneof=debug info warn error"`

	Driver        string        `validate:"oneof=bigquery dynamodb postgres sqs"`
	Table         string        `validate:"required"`
	GCPProject    string
	DatabaseURL   string        `validate:"required_if=Driver postgres"`
	InsertTimeout time.Duration `validate:"gte=0"`

	// MetricsNamespace enables CloudWatch request metrics when set.
	MetricsNamespace string

	// RunLocal serves HTTP directly instead of running as a Lambda handler.
	RunLocal bool
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NeedsAWS reports whether any configured component talks to AWS.
func (c Config) NeedsAWS() bool {
	return c.Driver == "dynamodb" || c.Driver == "sqs" || c.MetricsNamespace != ""
}

// Load reads path (if it exists) into the environment without overriding
// variables already set, then builds and validates a Config.
func Load(path string) (Config, error) {
	if path != "" {
		_ = godotenv.Load(path)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	getEnv := func(key, defaultValue string) string {
		if val, ok := lookup(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	cfg := Config{
		Host:             getEnv("APP_HOST", DefaultHost),
		LogLevel:         strings.ToLower(getEnv("APP_LOG_LEVEL", DefaultLogLevel)),
		Driver:           strings.ToLower(getEnv("WAREHOUSE_DRIVER", DefaultDriver)),
		Table:            getEnv("WAREHOUSE_TABLE", DefaultTable),
		GCPProject:       getEnv("GCP_PROJECT", ""),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", ""),
	}

	var err error
	if cfg.Port, err = strconv.Atoi(getEnv("APP_PORT", strconv.Itoa(DefaultPort))); err != nil {
		return Config{}, fmt.Errorf("APP_PORT: %w", err)
	}
	if cfg.InsertTimeout, err = time.ParseDuration(getEnv("INSERT_TIMEOUT", DefaultInsertTimeout.String())); err != nil {
		return Config{}, fmt.Errorf("INSERT_TIMEOUT: %w", err)
	}
	if cfg.RunLocal, err = strconv.ParseBool(getEnv("RUN_LOCAL", "false")); err != nil {
		return Config{}, fmt.Errorf("RUN_LOCAL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	v := validatorv10.New()
	v.RegisterStructValidation(tableForDriver, Config{})
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// tableForDriver rejects table names the driver cannot address. PostgreSQL
// takes table or schema.table, so the three-part BigQuery default is only
// usable by the bigquery driver.
func tableForDriver(sl validatorv10.StructLevel) {
	c := sl.Current().Interface().(Config)
	if c.Driver == "postgres" && strings.Count(c.Table, ".") > 1 {
		sl.ReportError(c.Table, "Table", "Table", "pgtable", "")
	}
}
