package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/colonyops/saathi/internal/core/config"
	"github.com/colonyops/saathi/internal/printer"
)

// editSettings runs the settings menu until the user picks Done or aborts.
// Every accepted change is validated, applied to cfg and saved to path
// before onChange is called with the setting key.
func editSettings(p *printer.Printer, cfg *config.Config, path string, onChange func(key string)) error {
	for {
		key, err := selectSetting(cfg)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if key == "" {
			return nil
		}

		setting, _ := findSetting(key)
		value, err := promptValue(cfg, setting)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			return err
		}

		if err := cfg.Set(key, value); err != nil {
			p.Errorf("%s: %v", setting.Label, err)
			continue
		}
		if err := cfg.Save(path); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}

		p.Successf("%s updated", setting.Label)
		if onChange != nil {
			onChange(key)
		}
	}
}

func selectSetting(cfg *config.Config) (string, error) {
	opts := make([]huh.Option[string], 0, len(config.Settings)+1)
	for _, s := range config.Settings {
		opts = append(opts, huh.NewOption(s.Label+": "+displayValue(cfg, s), s.Key))
	}
	opts = append(opts, huh.NewOption("Done", ""))

	var key string
	err := huh.NewSelect[string]().
		Title("Settings").
		Options(opts...).
		Value(&key).
		Run()
	return key, err
}

func promptValue(cfg *config.Config, s config.Setting) (string, error) {
	current, _ := cfg.Get(s.Key)

	switch s.Kind {
	case config.SettingBool:
		b, _ := strconv.ParseBool(current)
		err := huh.NewConfirm().
			Title(s.Label).
			Value(&b).
			Run()
		return strconv.FormatBool(b), err

	case config.SettingChoice:
		value := current
		err := huh.NewSelect[string]().
			Title(s.Label).
			Options(huh.NewOptions(s.Choices...)...).
			Value(&value).
			Run()
		return value, err

	case config.SettingSecret:
		var value string
		err := huh.NewInput().
			Title(s.Label).
			Description("Leave empty to clear").
			EchoMode(huh.EchoModePassword).
			Value(&value).
			Run()
		return value, err

	case config.SettingNumber:
		value := current
		err := huh.NewInput().
			Title(s.Label).
			Validate(func(v string) error {
				_, err := strconv.Atoi(v)
				return err
			}).
			Value(&value).
			Run()
		return value, err
	}

	value := current
	err := huh.NewInput().
		Title(s.Label).
		Value(&value).
		Run()
	return value, err
}

func displayValue(cfg *config.Config, s config.Setting) string {
	if s.Kind == config.SettingSecret {
		return cfg.MaskedKey()
	}
	v, _ := cfg.Get(s.Key)
	return v
}

func findSetting(key string) (config.Setting, bool) {
	for _, s := range config.Settings {
		if s.Key == key {
			return s, true
		}
	}
	return config.Setting{}, false
}
