package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/daktela-extract/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"username": "user",
		"password": "pass",
		"url": "https://mycompany.daktela.com",
		"from": "-7",
		"to": "0",
		"tables": "Activities, tickets ,users"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://mycompany.daktela.com", cfg.BaseURL())
	assert.Equal(t, []string{"activities", "tickets", "users"}, cfg.TableList())
	assert.Equal(t, "out/tables", cfg.OutputDir)

	server, err := cfg.ServerName()
	require.NoError(t, err)
	assert.Equal(t, "mycompany", server)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestValidate(t *testing.T) {
	valid := Config{
		Username: "u", Password: "p", Server: "srv",
		From: "-1", To: "0", Tables: "activities",
	}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing username", func(c *Config) { c.Username = "" }},
		{"missing password", func(c *Config) { c.Password = "" }},
		{"missing instance", func(c *Config) { c.Server = "" }},
		{"missing from", func(c *Config) { c.From = "" }},
		{"missing to", func(c *Config) { c.To = "" }},
		{"no tables", func(c *Config) { c.Tables = " , " }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
}

func TestValidateURLFormat(t *testing.T) {
	cfg := Config{
		Username: "u", Password: "p",
		From: "-1", To: "0", Tables: "activities",
	}

	for _, good := range []string{
		"https://srv.daktela.com",
		"https://srv.daktela.com/",
		"http://srv.daktela.com",
	} {
		cfg.URL = good
		assert.NoError(t, cfg.Validate(), good)
	}

	for _, bad := range []string{
		"srv.daktela.com",
		"https://daktela.com",
		"https://srv.example.com",
		"https://srv.daktela.com/api",
	} {
		cfg.URL = bad
		assert.Error(t, cfg.Validate(), bad)
	}
}

func TestServerNameFromServerFieldWinsOverURL(t *testing.T) {
	cfg := Config{Server: "explicit", URL: "https://fromurl.daktela.com"}
	server, err := cfg.ServerName()
	require.NoError(t, err)
	assert.Equal(t, "explicit", server)
}

func TestBaseURLFromServer(t *testing.T) {
	cfg := Config{Server: "srv"}
	assert.Equal(t, "https://srv.daktela.com", cfg.BaseURL())
}
