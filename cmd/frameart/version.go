package main

import (
	"fmt"

	"github.com/cgddrd/samsung-frame-art/config"
	"github.com/cgddrd/samsung-frame-art/pkg/provider"
	"github.com/cgddrd/samsung-frame-art/util"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version, optionally checking GitHub for a newer release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", config.AppName, config.AppVersion)
			if !check {
				return nil
			}

			client := provider.NewHTTPClient(fmt.Sprintf("%s/%s", config.AppName, config.AppVersion))
			result, err := util.CheckForUpdates(cmd.Context(), client)
			if err != nil {
				return err
			}
			if result.UpdateAvailable {
				fmt.Fprintf(out, "Update available: %s\n%s\n", result.LatestVersion, result.ReleaseURL)
			} else {
				fmt.Fprintln(out, "You are running the latest version.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")
	return cmd
}
