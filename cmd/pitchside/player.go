package main

import (
	"fmt"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/rating"
	"github.com/pharaohs/pitchside/internal/service"
	"github.com/pharaohs/pitchside/internal/tui/styles"
	"github.com/spf13/cobra"
)

func newUploadCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Compress and publish a photo or video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				fmt.Fprintf(cmd.ErrOrStderr(), "Uploading %s...\n", args[0])
				url, err := a.svc.Upload.Upload(cmd.Context(), args[0], description)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "post caption")
	return cmd
}

func newRatingCmd() *cobra.Command {
	var stats domain.PerformanceStats
	cmd := &cobra.Command{
		Use:   "rating",
		Short: "Compute a rating from match stats",
		Long: `Compute the 1-5 efficiency rating from match stats:

  raw    = (2*goals + assists - yellow - 3*red) / matches
  rating = (raw + 3) / 6 * 4 + 1, clamped to 1..5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := service.Validate(stats); err != nil {
				return err
			}
			r := rating.Calculate(&stats)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				rating.Format(r), rating.Classify(r), styles.RenderProgressBar(rating.Percentage(r), 20))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&stats.MatchesPlayed, "matches", "m", 0, "matches played")
	flags.IntVarP(&stats.Goals, "goals", "g", 0, "goals")
	flags.IntVarP(&stats.Assists, "assists", "a", 0, "assists")
	flags.IntVarP(&stats.YellowCards, "yellow", "y", 0, "yellow cards")
	flags.IntVarP(&stats.RedCards, "red", "r", 0, "red cards")
	return cmd
}
