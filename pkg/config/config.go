package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/litebase/sqliteplugin/internal/validation"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	BackendMemory = "mem"
	BackendObject = "object"

	DefaultRequestTimeout = 30 * time.Second
)

type Config struct {
	Backend                string        `yaml:"backend" validate:"required,oneof=mem object"`
	Debug                  bool          `yaml:"debug"`
	Env                    string        `yaml:"env" validate:"required,oneof=development production test"`
	FakeObjectStorage      bool          `yaml:"fake_object_storage"`
	MakeDefault            bool          `yaml:"make_default"`
	RequestTimeout         time.Duration `yaml:"request_timeout" validate:"gt=0"`
	StorageAccessKeyId     string        `yaml:"storage_access_key_id"`
	StorageBucket          string        `yaml:"storage_bucket" validate:"required_if=Backend object"`
	StorageEndpoint        string        `yaml:"storage_endpoint" validate:"omitempty,url"`
	StoragePrefix          string        `yaml:"storage_prefix"`
	StorageRegion          string        `yaml:"storage_region"`
	StorageSecretAccessKey string        `yaml:"storage_secret_access_key"`
	VFSName                string        `yaml:"vfs_name" validate:"required,max=255"`
}

var validationMessages = map[string]string{
	"backend.required":           "A backend is required",
	"backend.oneof":              "The backend must be mem or object",
	"env.required":               "An environment is required",
	"env.oneof":                  "The environment must be development, production or test",
	"request_timeout.gt":         "The request timeout must be positive",
	"storage_bucket.required_if": "A storage bucket is required for the object backend",
	"storage_endpoint.url":       "The storage endpoint must be a URL",
	"vfs_name.required":          "A VFS name is required",
	"vfs_name.max":               "The VFS name must be at most 255 bytes",
}

func env(key string, defaultValue string) any {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}

	return defaultValue
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	value := env(key, "").(string)

	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)

	if err != nil {
		slog.Warn("Invalid duration, using the default", "key", key, "value", value, "default", defaultValue)

		return defaultValue
	}

	return d
}

func NewConfig() *Config {
	return &Config{
		Backend:                env("SQLITEVFS_BACKEND", BackendMemory).(string),
		Debug:                  env("SQLITEVFS_DEBUG", "false") == "true",
		Env:                    env("SQLITEVFS_ENV", EnvProduction).(string),
		FakeObjectStorage:      env("SQLITEVFS_FAKE_OBJECT_STORAGE", "false") == "true",
		MakeDefault:            env("SQLITEVFS_MAKE_DEFAULT", "false") == "true",
		RequestTimeout:         envDuration("SQLITEVFS_REQUEST_TIMEOUT", DefaultRequestTimeout),
		StorageAccessKeyId:     env("SQLITEVFS_STORAGE_ACCESS_KEY_ID", "").(string),
		StorageBucket:          env("SQLITEVFS_STORAGE_BUCKET", "").(string),
		StorageEndpoint:        env("SQLITEVFS_STORAGE_ENDPOINT", "").(string),
		StoragePrefix:          env("SQLITEVFS_STORAGE_PREFIX", "").(string),
		StorageRegion:          env("SQLITEVFS_STORAGE_REGION", "auto").(string),
		StorageSecretAccessKey: env("SQLITEVFS_STORAGE_SECRET_ACCESS_KEY", "").(string),
		VFSName:                env("SQLITEVFS_VFS_NAME", "govfs").(string),
	}
}

// LoadFile reads a YAML file over the configuration from the environment.
// Keys missing from the file keep their environment value.
func LoadFile(path string) (*Config, error) {
	c := NewConfig()

	data, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return c, nil
}

// ValidationError lists the invalid fields of a configuration by their YAML
// key.
type ValidationError struct {
	Errors map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))

	for key := range e.Errors {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var b strings.Builder

	b.WriteString("invalid configuration")

	for _, key := range keys {
		fmt.Fprintf(&b, "; %s: %s", key, strings.Join(e.Errors[key], ", "))
	}

	return b.String()
}

func (c *Config) Validate() error {
	if errors := validation.Validate(c, validationMessages); len(errors) > 0 {
		return &ValidationError{Errors: errors}
	}

	return nil
}
