package doctor

import (
	"context"

	"github.com/colonyops/saathi/internal/core/config"
)

// ConfigCheck reports on the loaded settings.
type ConfigCheck struct {
	cfg     *config.Config
	path    string
	loadErr error
}

// NewConfigCheck creates a config check. loadErr is the error returned by
// config.Load, if any.
func NewConfigCheck(cfg *config.Config, path string, loadErr error) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path, loadErr: loadErr}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	switch {
	case c.loadErr != nil:
		result.Items = append(result.Items, CheckItem{Label: "config file", Status: StatusFail, Detail: c.loadErr.Error()})
	default:
		if err := c.cfg.ValidateDeep(c.path); err != nil {
			result.Items = append(result.Items, CheckItem{Label: "config file", Status: StatusFail, Detail: err.Error()})
		} else {
			result.Items = append(result.Items, CheckItem{Label: "config file", Status: StatusPass, Detail: c.path})
		}
	}

	if c.cfg.APIKey == "" {
		result.Items = append(result.Items, CheckItem{
			Label:  "api key",
			Status: StatusWarn,
			Detail: "not set; use settings or GEMINI_API_KEY",
		})
	} else {
		result.Items = append(result.Items, CheckItem{Label: "api key", Status: StatusPass, Detail: c.cfg.MaskedKey()})
	}

	if c.cfg.Deploy.Configured() {
		result.Items = append(result.Items, CheckItem{Label: "deploy storage", Status: StatusPass, Detail: c.cfg.Deploy.Endpoint})
	} else {
		result.Items = append(result.Items, CheckItem{Label: "deploy storage", Status: StatusWarn, Detail: "not configured; upload steps will fail"})
	}

	return result
}
