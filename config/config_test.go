package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	c := Default()
	c.UnsplashAPIKey = "key"
	c.TVAddress = "192.168.1.20"
	c.TVMAC = "aa:bb:cc:dd:ee:ff"
	return c
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, DefaultStaticDir, c.StaticDir)
	assert.Equal(t, DefaultDownloadDir, c.DownloadDir)
	assert.Equal(t, DefaultUploadListPath, c.UploadListPath)
	assert.Equal(t, 10*time.Second, c.SettleDelay)
	assert.Equal(t, CropCenter, c.Crop)
	assert.False(t, c.Debug)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "Valid", mutate: func(c *Config) {}},
		{name: "Missing API Key", mutate: func(c *Config) { c.UnsplashAPIKey = "" }, wantErr: "--unsplash-api-key"},
		{name: "Missing IP", mutate: func(c *Config) { c.TVAddress = "" }, wantErr: "--ip"},
		{name: "Missing MAC", mutate: func(c *Config) { c.TVMAC = "" }, wantErr: "--mac"},
		{name: "Bad MAC", mutate: func(c *Config) { c.TVMAC = "not-a-mac" }, wantErr: "invalid TV MAC"},
		{name: "Long MAC", mutate: func(c *Config) { c.TVMAC = "00:00:00:00:fe:80:00:00" }, wantErr: "6 byte"},
		{name: "Bad Crop", mutate: func(c *Config) { c.Crop = "zoom" }, wantErr: "unknown crop mode"},
		{name: "Negative Settle", mutate: func(c *Config) { c.SettleDelay = -time.Second }, wantErr: "settle delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestWithEnv(t *testing.T) {
	env := map[string]string{
		EnvUnsplashAPIKey: " env-key ",
		EnvTVAddress:      "10.0.0.5",
		EnvTVMAC:          "11:22:33:44:55:66",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	c := Default()
	c.TVAddress = "flag-ip"
	got := c.WithEnv(lookup)

	assert.Equal(t, "env-key", got.UnsplashAPIKey)
	assert.Equal(t, "flag-ip", got.TVAddress, "flags win over environment")
	assert.Equal(t, "11:22:33:44:55:66", got.TVMAC)
	assert.Empty(t, c.UnsplashAPIKey, "receiver must not be modified")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FRAMEART_TEST_DOTENV=from-file\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("FRAMEART_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("FRAMEART_TEST_DOTENV"))
}

func TestHardwareAddr(t *testing.T) {
	c := validConfig()
	mac, err := c.HardwareAddr()
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", mac.String())
}
