package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values but does not validate; call
// Finalize once command-line flags have been applied.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	return cfg, nil
}

// BindFlags registers the command-line flags on fs, using the values
// already loaded from the environment as defaults. Parsed flag values are
// written straight into c.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Paths.Input, "path", "p", c.Paths.Input,
		"Full directory path of input files. Default is pwd.")
	fs.StringVarP(&c.Paths.OutputDir, "output", "o", c.Paths.OutputDir,
		"Full directory path of target output file. Default is pwd.")
	fs.StringVarP(&c.Paths.LogDir, "log", "l", c.Paths.LogDir,
		"Full directory path of target log file. Default is pwd.")
	fs.StringVar(&c.Output.Compress, "compress", c.Output.Compress,
		"Output compression: none or zstd.")
}

// Finalize resolves empty paths against the working directory and
// validates the result.
func (c *Config) Finalize() error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	for _, p := range []*string{&c.Paths.Input, &c.Paths.OutputDir, &c.Paths.LogDir} {
		if strings.TrimSpace(*p) == "" {
			*p = wd
		}
		*p = filepath.Clean(*p)
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		if value == "" {
			value = defaultVal
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Paths.Input == "" {
		errs = append(errs, "input path is required")
	}
	if c.Paths.OutputDir == "" {
		errs = append(errs, "output directory is required")
	}
	if c.Paths.LogDir == "" {
		errs = append(errs, "log directory is required")
	}

	validCompress := map[string]bool{"none": true, "zstd": true}
	if !validCompress[strings.ToLower(c.Output.Compress)] {
		errs = append(errs, fmt.Sprintf("LDAPBINDS_COMPRESS (%q) must be one of: none, zstd", c.Output.Compress))
	}

	if c.Database.HistoryEnabled() && c.Database.MaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
