package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/go-tabletae/driver"
	"github.com/arloliu/go-tabletae/internal/simdriver"
	"github.com/arloliu/go-tabletae/transport"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, uint32(transport.DefaultTimeout), cfg.TimeoutTicks)
	require.Equal(t, "high", cfg.Priority)
}

func TestLoadTOML(t *testing.T) {
	require := require.New(t)

	path := writeFile(t, "tablet.toml", `
network = "tcp"
address = "127.0.0.1:7070"
timeout_ticks = 600
priority = "normal"
strict_indexes = true
`)

	cfg, err := Load(path)
	require.NoError(err)
	require.Equal("tcp", cfg.Network)
	require.Equal("127.0.0.1:7070", cfg.Address)
	require.Equal(uint32(600), cfg.TimeoutTicks)
	require.Equal("normal", cfg.Priority)
	require.True(cfg.StrictIndexes)
	// Keys absent from the file keep their defaults.
	require.Equal("5s", cfg.DialTimeout)
	require.Equal("info", cfg.LogLevel)
}

func TestLoadYAML(t *testing.T) {
	require := require.New(t)

	path := writeFile(t, "tablet.yml", `
address: /run/tablet.sock
dial_timeout: 250ms
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(err)
	require.Equal("unix", cfg.Network)
	require.Equal("/run/tablet.sock", cfg.Address)
	require.Equal("250ms", cfg.DialTimeout)
	require.Equal("debug", cfg.LogLevel)

	opts, err := cfg.DialOptions()
	require.NoError(err)
	require.Len(opts, 1)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		description string
		name        string
		content     string
	}{
		{"unknown extension", "tablet.json", `{}`},
		{"malformed toml", "tablet.toml", `network = `},
		{"malformed yaml", "tablet.yaml", "address: [unterminated"},
		{"bad network", "tablet.toml", `network = "udp"`},
		{"empty address", "tablet.toml", `address = " "`},
		{"zero timeout", "tablet.toml", `timeout_ticks = 0`},
		{"bad priority", "tablet.yaml", "priority: urgent"},
		{"bad dial timeout", "tablet.yaml", "dial_timeout: soon"},
		{"negative dial timeout", "tablet.yaml", "dial_timeout: -1s"},
		{"bad log level", "tablet.toml", `log_level = "chatty"`},
	}

	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)

		_, err := Load(writeFile(t, test.name, test.content))
		require.Error(t, err)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load("tablet.ini")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestClientOptions(t *testing.T) {
	require := require.New(t)

	cfg := Default()
	cfg.TimeoutTicks = 120
	cfg.Priority = "normal"
	cfg.StrictIndexes = true

	opts, err := cfg.ClientOptions()
	require.NoError(err)

	l, err := cfg.Logger()
	require.NoError(err)

	sim, err := simdriver.New(simdriver.WithLogger(l))
	require.NoError(err)

	client, err := driver.NewClient(sim, append(opts, driver.WithLogger(l))...)
	require.NoError(err)
	require.Equal(transport.Ticks(120), client.Config().Timeout())
	require.Equal(transport.PriorityNormal, client.Config().Priority())
	require.True(client.Config().StrictIndexes())

	cfg.Priority = "bogus"
	_, err = cfg.ClientOptions()
	require.Error(err)
}
