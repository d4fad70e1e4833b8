package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson_OverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	content := `{
		"endpoint_addr": ":8080",
		"secret_key": "from-json",
		"token_validity_minutes": 30
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server", "-c", path}

	var c Config
	c.LoadDefaults()
	c.DatabaseDSN = "postgres://keep/me"
	parseJson(&c)

	assert.Equal(t, c.EndpointAddr, ":8080")
	assert.Equal(t, c.SecretKey, "from-json")
	assert.Equal(t, c.TokenValidityDuration, 30*time.Minute)
	assert.Equal(t, c.DatabaseDSN, "postgres://keep/me", "absent fields must not be clobbered")
}

func TestParseJson_NoFlagNoop(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server"}

	var c Config
	c.LoadDefaults()
	before := c
	parseJson(&c)

	assert.Equal(t, before, c)
}

func TestParseJson_BadFilePanics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server", "-config", path}

	var c Config
	c.LoadDefaults()

	assert.Panics(t, func() { parseJson(&c) })
}
