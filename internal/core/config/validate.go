package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
)

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("language", c.Language, oneOf(LanguageEnglish, LanguageHindi, LanguageHinglish)),
		criterio.Run("logLevel", c.LogLevel, validLogLevel),
		criterio.Run("unknownActions", c.UnknownActions, oneOf(UnknownSkip, UnknownFail)),
		c.validateHistoryLimit(),
		criterio.Run("model", c.Model, notEmpty),
		c.validateDeploy(),
	)
}

// ValidateDeep runs Validate and adds filesystem checks used by doctor.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("defaultProjectsDir", c.DefaultProjectsDir, isDirectoryOrNotExist),
	)
}

func (c *Config) validateDeploy() error {
	if !c.Deploy.Configured() {
		return nil
	}

	var errs criterio.FieldErrorsBuilder
	if c.Deploy.AccessKey == "" {
		errs = errs.Append("deploy.accessKey", fmt.Errorf("required when deploy.endpoint is set"))
	}
	if c.Deploy.SecretKey == "" {
		errs = errs.Append("deploy.secretKey", fmt.Errorf("required when deploy.endpoint is set"))
	}
	return errs.ToError()
}

func oneOf(allowed ...string) func(string) error {
	return func(v string) error {
		if !slices.Contains(allowed, v) {
			return fmt.Errorf("must be one of %v, got %q", allowed, v)
		}
		return nil
	}
}

func validLogLevel(v string) error {
	if _, err := zerolog.ParseLevel(v); err != nil || v == "" {
		return fmt.Errorf("invalid log level %q", v)
	}
	return nil
}

func (c *Config) validateHistoryLimit() error {
	if c.HistoryLimit < 1 {
		return criterio.NewFieldErrors("historyLimit", fmt.Errorf("must be at least 1"))
	}
	return nil
}

func notEmpty(v string) error {
	if v == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
