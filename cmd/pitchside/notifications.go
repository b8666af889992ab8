package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNotificationsCmd() *cobra.Command {
	var (
		page, limit int
		markAll     bool
	)
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"inbox"},
		Short:   "List notifications",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx := cmd.Context()
				if markAll {
					return a.svc.Notifications.MarkAllRead(ctx)
				}
				res, err := a.svc.Notifications.List(ctx, page, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(res.Notifications) == 0 {
					fmt.Fprintln(out, "No notifications.")
					return nil
				}
				notificationTable(out, res.Notifications)
				fmt.Fprintf(out, "%d unread · page %d/%d\n", res.UnreadCount, max(res.Pagination.Page, 1), max(res.Pagination.TotalPages, 1))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "page size")
	cmd.Flags().BoolVar(&markAll, "mark-all-read", false, "mark everything read instead of listing")
	return cmd
}
