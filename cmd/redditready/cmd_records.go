package main

import (
	"github.com/spf13/cobra"

	"github.com/AmolDerickSoans/RedditReady/internal/app/records"
	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

var listLimit int

var showCmd = &cobra.Command{
	Use:   "show <research-id>",
	Short: "Print the stored snapshot of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openRecords(cmd)
		if err != nil {
			return err
		}
		defer done()

		st, err := svc.Get(cmd.Context(), domain.ResearchID(args[0]))
		if err != nil {
			return err
		}
		return printJSON(cmd, st)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions, most recently updated first",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openRecords(cmd)
		if err != nil {
			return err
		}
		defer done()

		sums, err := svc.List(cmd.Context(), listLimit)
		if err != nil {
			return err
		}
		return printJSON(cmd, sums)
	},
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "maximum number of sessions (default 20)")
}

func openRecords(cmd *cobra.Command) (*records.Service, func(), error) {
	store, closer, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return records.NewService(store), func() { _ = closer.Close() }, nil
}
