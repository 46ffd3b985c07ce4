package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// pruneCmd deletes superseded snapshots
var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete every snapshot except the latest",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			deleted, err := s.site.Prune(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				return json.NewEncoder(out).Encode(map[string]int{"deleted": deleted})
			}
			fmt.Fprintf(out, "deleted %d snapshot(s)\n", deleted)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}
