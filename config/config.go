package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// CropMode selects how a resized photo is cropped down to the TV canvas.
type CropMode string

// Crop modes
const (
	CropCenter CropMode = "center"
	CropSmart  CropMode = "smart"
)

// Config holds everything a single run needs. It is built once at startup and
// handed by value to every component, nothing mutates it afterwards.
type Config struct {
	UnsplashAPIKey string
	TVAddress      string
	TVMAC          string
	Debug          bool
	Verbose        bool

	StaticDir      string
	DownloadDir    string
	UploadListPath string
	TokenFile      string
	LogFile        string
	SettleDelay    time.Duration
	Crop           CropMode
}

// Default returns a Config populated with the defaults for every optional setting.
func Default() Config {
	return Config{
		StaticDir:      DefaultStaticDir,
		DownloadDir:    DefaultDownloadDir,
		UploadListPath: DefaultUploadListPath,
		TokenFile:      DefaultTokenFile,
		SettleDelay:    DefaultSettleDelay,
		Crop:           CropCenter,
	}
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error; existing environment variables are never overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// WithEnv returns a copy of c where required settings left empty on the command line
// are filled from the environment.
func (c Config) WithEnv(lookup func(string) (string, bool)) Config {
	fill := func(dst *string, key string) {
		if *dst != "" {
			return
		}
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	fill(&c.UnsplashAPIKey, EnvUnsplashAPIKey)
	fill(&c.TVAddress, EnvTVAddress)
	fill(&c.TVMAC, EnvTVMAC)
	return c
}

// Validate reports the first problem that would stop a run.
func (c Config) Validate() error {
	switch {
	case c.UnsplashAPIKey == "":
		return fmt.Errorf("unsplash API key not provided: use --unsplash-api-key or set %s", EnvUnsplashAPIKey)
	case c.TVAddress == "":
		return fmt.Errorf("TV address not provided: use --ip or set %s", EnvTVAddress)
	case c.TVMAC == "":
		return fmt.Errorf("TV MAC address not provided: use --mac or set %s", EnvTVMAC)
	}
	if _, err := c.HardwareAddr(); err != nil {
		return err
	}
	if c.Crop != CropCenter && c.Crop != CropSmart {
		return fmt.Errorf("unknown crop mode %q (want %q or %q)", c.Crop, CropCenter, CropSmart)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay must not be negative")
	}
	return nil
}

// HardwareAddr parses the TV MAC address.
func (c Config) HardwareAddr() (net.HardwareAddr, error) {
	mac, err := net.ParseMAC(c.TVMAC)
	if err != nil {
		return nil, fmt.Errorf("invalid TV MAC address %q: %w", c.TVMAC, err)
	}
	if len(mac) != 6 {
		return nil, fmt.Errorf("invalid TV MAC address %q: wake-on-LAN needs a 6 byte address", c.TVMAC)
	}
	return mac, nil
}
