package main

import (
	"fmt"

	"github.com/pharaohs/pitchside/internal/adapter"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change client settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := adapter.LoadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "server.url:                  %s\n", cfg.Server.URL)
			fmt.Fprintf(out, "server.media_url:            %s\n", cfg.Server.MediaURL)
			fmt.Fprintf(out, "server.timeout:              %s\n", cfg.Server.Timeout)
			fmt.Fprintf(out, "server.upload_timeout:       %s\n", cfg.Server.UploadTimeout)
			fmt.Fprintf(out, "notifications.poll_interval: %s\n", cfg.Notifications.PollInterval)
			fmt.Fprintf(out, "ui.theme:                    %s\n", cfg.UI.Theme)
			fmt.Fprintf(out, "ui.page_size:                %d\n", cfg.UI.PageSize)
			fmt.Fprintf(out, "logging.file:                %s\n", cfg.Logging.File)
			fmt.Fprintf(out, "cache.dir:                   %s\n", cfg.Cache.Dir)
			return nil
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "server-url <url>",
			Short: "Point the client at another backend",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := adapter.SetServerURL(args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration saved!")
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear-cache",
			Short: "Remove the offline cache and stored session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := adapter.LoadConfig()
				if err != nil {
					return err
				}
				return adapter.ClearCache(cfg.Cache.Dir)
			},
		},
	)
	return cmd
}
