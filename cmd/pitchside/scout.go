package main

import (
	"fmt"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var f domain.SearchFilters
	cmd := &cobra.Command{
		Use:   "search [name]",
		Short: "Search players by name, position, club, age, and rating",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				f.Name = args[0]
			}
			return withApp(func(a *app) error {
				res, err := a.svc.Scouting.Search(cmd.Context(), f)
				if err != nil {
					return err
				}
				if len(res.Players) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No players found.")
					return nil
				}
				playerTable(cmd.OutOrStdout(), res.Players)
				if res.Pagination.HasMore {
					fmt.Fprintf(cmd.OutOrStdout(), "%d of %d shown, use --offset %d for more\n",
						len(res.Players), res.Pagination.Total, f.Offset+len(res.Players))
				}
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.Position, "position", "", "position")
	flags.StringVar(&f.Club, "club", "", "club")
	flags.IntVar(&f.MinAge, "min-age", 0, "minimum age")
	flags.IntVar(&f.MaxAge, "max-age", 0, "maximum age")
	flags.Float64Var(&f.MinRating, "min-rating", 0, "minimum rating (1-5)")
	flags.BoolVar(&f.HasVideos, "has-videos", false, "only players with posts")
	flags.StringVar(&f.SortBy, "sort", "", "sort field")
	flags.StringVar(&f.SortOrder, "order", "", "asc or desc")
	flags.IntVar(&f.Limit, "limit", 20, "page size")
	flags.IntVar(&f.Offset, "offset", 0, "results to skip")
	return cmd
}

func newTryoutsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tryouts",
		Short: "List and schedule tryouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listTryouts(cmd)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your tryouts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return listTryouts(cmd)
			},
		},
		newTryoutCreateCmd(),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a tryout",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(func(a *app) error {
					return a.svc.Scouting.DeleteTryout(cmd.Context(), domain.ID(args[0]))
				})
			},
		},
	)
	return cmd
}

func listTryouts(cmd *cobra.Command) error {
	return withApp(func(a *app) error {
		tryouts, err := a.svc.Scouting.Tryouts(cmd.Context())
		if err != nil {
			return err
		}
		if len(tryouts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tryouts yet. Create one with: pitchside tryouts create")
			return nil
		}
		tryoutTable(cmd.OutOrStdout(), tryouts)
		return nil
	})
}

func newTryoutCreateCmd() *cobra.Command {
	var t domain.Tryout
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a tryout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter()
			var err error
			if t.Name == "" {
				if t.Name, err = p.ask("Name", ""); err != nil {
					return err
				}
			}
			if t.Location == "" {
				if t.Location, err = p.ask("Location", ""); err != nil {
					return err
				}
			}
			if t.Date == "" {
				if t.Date, err = p.ask("Date (YYYY-MM-DD)", ""); err != nil {
					return err
				}
			}
			return withApp(func(a *app) error {
				created, err := a.svc.Scouting.CreateTryout(cmd.Context(), t)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", created.Name, created.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&t.Name, "name", "", "tryout name")
	cmd.Flags().StringVar(&t.Location, "location", "", "where it takes place")
	cmd.Flags().StringVar(&t.Date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&t.Time, "time", "", "kick-off time")
	return cmd
}
