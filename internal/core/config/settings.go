package config

import (
	"fmt"
	"strconv"
	"strings"
)

// SettingKind selects the input used to edit a setting.
type SettingKind int

const (
	SettingText SettingKind = iota
	SettingSecret
	SettingBool
	SettingChoice
	SettingNumber
)

// Setting describes one editable field of the settings menu.
type Setting struct {
	Key     string
	Label   string
	Kind    SettingKind
	Choices []string
}

// Settings lists the fields the settings menu can edit, in display order.
var Settings = []Setting{
	{Key: "apiKey", Label: "Gemini API key", Kind: SettingSecret},
	{Key: "defaultProjectsDir", Label: "Default projects directory", Kind: SettingText},
	{Key: "language", Label: "Language", Kind: SettingChoice, Choices: []string{LanguageEnglish, LanguageHindi, LanguageHinglish}},
	{Key: "logLevel", Label: "Log level", Kind: SettingChoice, Choices: []string{"debug", "info", "warn", "error"}},
	{Key: "autoSave", Label: "Save history to disk", Kind: SettingBool},
	{Key: "model", Label: "Model", Kind: SettingText},
	{Key: "unknownActions", Label: "Unknown action kinds", Kind: SettingChoice, Choices: []string{UnknownSkip, UnknownFail}},
	{Key: "historyLimit", Label: "History entries kept", Kind: SettingNumber},
}

// Get returns the current value of key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "apiKey":
		return c.APIKey, nil
	case "defaultProjectsDir":
		return c.DefaultProjectsDir, nil
	case "language":
		return c.Language, nil
	case "logLevel":
		return c.LogLevel, nil
	case "autoSave":
		return strconv.FormatBool(c.AutoSave), nil
	case "model":
		return c.Model, nil
	case "unknownActions":
		return c.UnknownActions, nil
	case "historyLimit":
		return strconv.Itoa(c.HistoryLimit), nil
	}
	return "", fmt.Errorf("unknown setting %q", key)
}

// Set parses value into key and validates the result. On error the config is
// left unchanged.
func (c *Config) Set(key, value string) error {
	next := *c
	value = strings.TrimSpace(value)

	switch key {
	case "apiKey":
		next.APIKey = value
	case "defaultProjectsDir":
		next.DefaultProjectsDir = value
	case "language":
		next.Language = value
	case "logLevel":
		next.LogLevel = value
	case "autoSave":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("autoSave: %w", err)
		}
		next.AutoSave = b
	case "model":
		next.Model = value
	case "unknownActions":
		next.UnknownActions = value
	case "historyLimit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("historyLimit: %w", err)
		}
		next.HistoryLimit = n
	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// MaskedKey returns the API key with all but the last four characters hidden.
func (c *Config) MaskedKey() string {
	if c.APIKey == "" {
		return "(not set)"
	}
	if len(c.APIKey) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + c.APIKey[len(c.APIKey)-4:]
}
