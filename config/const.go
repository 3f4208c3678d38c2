package config

import (
	"strings"
	"time"
)

// AppVersion is the version of the tool.
// This is injected at build time via -ldflags.
var AppVersion = "dev"

// AppName is the name of the tool.
const AppName = "FrameArt"

// LogSubDir is the sub directory of the user's home for the rotating log files of release builds.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// Defaults for a run. Paths are relative to the working directory the scheduler starts us in.
const (
	DefaultStaticDir      = "./frameart"
	DefaultDownloadDir    = "./downloaded"
	DefaultUploadListPath = "./uploaded_files.json"
	DefaultTokenFile      = "./tv-token.txt"
	DefaultSettleDelay    = 10 * time.Second
	DefaultEnvFile        = ".env"
)

// Environment variables that can stand in for the required flags.
const (
	EnvUnsplashAPIKey = "FRAMEART_UNSPLASH_API_KEY"
	EnvTVAddress      = "FRAMEART_TV_IP"
	EnvTVMAC          = "FRAMEART_TV_MAC"
)
