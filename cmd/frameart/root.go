package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/cgddrd/samsung-frame-art/config"
	"github.com/cgddrd/samsung-frame-art/pkg/artwork"
	"github.com/cgddrd/samsung-frame-art/pkg/frame"
	"github.com/cgddrd/samsung-frame-art/pkg/pool"
	"github.com/cgddrd/samsung-frame-art/pkg/provider"
	"github.com/cgddrd/samsung-frame-art/pkg/provider/unsplash"
	"github.com/cgddrd/samsung-frame-art/pkg/tv/samsung"
	"github.com/cgddrd/samsung-frame-art/util"
	"github.com/cgddrd/samsung-frame-art/util/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// options is what the command line collects before the environment fills the gaps.
type options struct {
	cfg     config.Config
	envFile string
	crop    string
}

func newRootCmd() *cobra.Command {
	opts := &options{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:   "frameart",
		Short: "Put a fresh photo on a Samsung Frame TV",
		Long: `frameart wakes a Samsung Frame TV, picks a photo (a fresh Unsplash download or one
from the local pool), chooses a matte from the photo's brightness, uploads it once
and selects it in art mode.

Required settings can also come from the environment or a .env file:
  ` + config.EnvUnsplashAPIKey + `, ` + config.EnvTVAddress + `, ` + config.EnvTVMAC,
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.resolve(os.LookupEnv)
			if err != nil {
				return err
			}
			return runRefresh(cmd, cfg)
		},
	}

	opts.bindFlags(cmd.Flags())

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func (o *options) bindFlags(f *pflag.FlagSet) {
	f.BoolVar(&o.cfg.Debug, "debug", false, "Enable debug mode to check if TV is reachable")
	f.StringVar(&o.cfg.UnsplashAPIKey, "unsplash-api-key", "", "Unsplash API key for downloading images (or set "+config.EnvUnsplashAPIKey+")")
	f.StringVar(&o.cfg.TVAddress, "ip", "", "IP address of the Samsung TV (or set "+config.EnvTVAddress+")")
	f.StringVar(&o.cfg.TVMAC, "mac", "", "MAC address of the Samsung TV (or set "+config.EnvTVMAC+")")
	f.BoolVarP(&o.cfg.Verbose, "verbose", "v", false, "Log debug output")
	f.StringVar(&o.cfg.StaticDir, "frameart-dir", o.cfg.StaticDir, "Directory of curated images")
	f.StringVar(&o.cfg.DownloadDir, "download-dir", o.cfg.DownloadDir, "Scratch directory for downloaded images (wiped on every download)")
	f.StringVar(&o.cfg.UploadListPath, "upload-list", o.cfg.UploadListPath, "File recording which images are already on the TV")
	f.StringVar(&o.cfg.TokenFile, "token-file", o.cfg.TokenFile, "TV pairing token file, used when no OS keyring is available")
	f.StringVar(&o.cfg.LogFile, "log-file", "", "Also write logs to this file (rotated)")
	f.DurationVar(&o.cfg.SettleDelay, "settle", o.cfg.SettleDelay, "Wait after wake-on-LAN before talking to the TV")
	f.StringVar(&o.crop, "crop", string(o.cfg.Crop), "Crop mode for downloaded photos: center or smart")
	f.StringVar(&o.envFile, "env-file", config.DefaultEnvFile, "Optional .env file with defaults")
}

// resolve merges flags, the .env file and the environment into a validated Config.
func (o *options) resolve(lookup func(string) (string, bool)) (config.Config, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return config.Config{}, err
	}
	cfg := o.cfg
	cfg.Crop = config.CropMode(o.crop)
	cfg = cfg.WithEnv(lookup)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runRefresh(cmd *cobra.Command, cfg config.Config) error {
	log.SetDebug(cfg.Verbose)
	if cfg.LogFile != "" {
		closer := log.AddFile(cfg.LogFile)
		defer closer.Close()
	}
	log.Printf("%s %s (Unsplash key %s, TV %s)", config.AppName, config.AppVersion, util.RedactKey(cfg.UnsplashAPIKey), cfg.TVAddress)

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))

	httpClient := provider.NewHTTPClient(fmt.Sprintf("%s/%s", config.AppName, config.AppVersion))
	photos := unsplash.NewUnsplashProvider(cfg.UnsplashAPIKey, httpClient)
	acquirer := pool.NewAcquirer(photos, artwork.NewProcessor(cfg.Crop), cfg.StaticDir, cfg.DownloadDir, unsplash.Collections, rng)

	client := samsung.NewClient(cfg.TVAddress,
		samsung.WithName(config.AppName),
		samsung.WithTokenStore(samsung.NewKeyringTokenStore(cfg.TokenFile)),
	)
	defer client.Close()

	runner, err := frame.NewRunner(cfg, client, acquirer, rng)
	if err != nil {
		return err
	}

	rep, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}
	log.Printf("Done: %s", rep.Outcome)
	return nil
}
