package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/saathi/internal/core/deploy"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"apiKey":"k-123","language":"hi","autoSave":false}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "k-123", cfg.APIKey)
	assert.Equal(t, LanguageHindi, cfg.Language)
	assert.False(t, cfg.AutoSave)
	assert.Equal(t, "info", cfg.LogLevel, "unset fields keep defaults")
	assert.Equal(t, 500, cfg.HistoryLimit)
	assert.Equal(t, UnknownSkip, cfg.UnknownActions)
}

func TestLoad_ZeroValuesGetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"language":"","historyLimit":0,"model":""}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, LanguageEnglish, cfg.Language)
	assert.Equal(t, 500, cfg.HistoryLimit)
	assert.NotEmpty(t, cfg.Model)
}

func TestLoad_MalformedFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad json", content: `{"apiKey":`},
		{name: "invalid language", content: `{"language":"fr"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			cfg, err := Load(path)
			require.ErrorIs(t, err, ErrConfigLoad)
			require.NotNil(t, cfg)
			assert.Equal(t, DefaultConfig(), *cfg)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.APIKey = "secret"
	cfg.Deploy = deploy.Settings{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "site"}
	require.NoError(t, cfg.Save(path))

	assert.NoFileExists(t, path+".tmp")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		fields int
	}{
		{name: "defaults", mutate: func(*Config) {}, fields: 0},
		{name: "language", mutate: func(c *Config) { c.Language = "de" }, fields: 1},
		{name: "log level", mutate: func(c *Config) { c.LogLevel = "loud" }, fields: 1},
		{name: "unknown actions", mutate: func(c *Config) { c.UnknownActions = "ignore" }, fields: 1},
		{name: "history limit", mutate: func(c *Config) { c.HistoryLimit = -1 }, fields: 1},
		{
			name: "deploy missing keys",
			mutate: func(c *Config) {
				c.Deploy.Endpoint = "s3.example.com"
			},
			fields: 2,
		},
		{
			name: "several",
			mutate: func(c *Config) {
				c.Language = "de"
				c.LogLevel = ""
			},
			fields: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.fields == 0 {
				require.NoError(t, err)
				return
			}

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			assert.Len(t, fieldErrs, tt.fields)
		})
	}
}

func TestValidateDeep_ProjectsDirIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	cfg := DefaultConfig()
	cfg.DefaultProjectsDir = file

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, cfg.ValidateDeep(""), &fieldErrs)
	assert.Len(t, fieldErrs, 1)
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Set("language", "hinglish"))
	assert.Equal(t, LanguageHinglish, cfg.Language)

	require.NoError(t, cfg.Set("autoSave", "false"))
	assert.False(t, cfg.AutoSave)

	require.NoError(t, cfg.Set("historyLimit", " 20 "))
	assert.Equal(t, 20, cfg.HistoryLimit)

	before := cfg
	require.Error(t, cfg.Set("language", "fr"))
	require.Error(t, cfg.Set("historyLimit", "many"))
	require.Error(t, cfg.Set("colour", "blue"))
	assert.Equal(t, before, cfg, "failed sets leave the config unchanged")

	for _, s := range Settings {
		_, err := cfg.Get(s.Key)
		require.NoError(t, err, s.Key)
	}
}

func TestMaskedKey(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "(not set)", cfg.MaskedKey())

	cfg.APIKey = "abcdefgh1234"
	assert.Equal(t, "********1234", cfg.MaskedKey())
}
