package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// snapshotsCmd lists stored snapshots
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List stored snapshots, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			locs, err := s.site.Snapshots(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				return json.NewEncoder(out).Encode(locs)
			}
			if len(locs) == 0 {
				fmt.Fprintln(out, "no snapshots")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tWRITTEN")
			for _, loc := range locs {
				fmt.Fprintf(w, "%s\t%d\t%s\n", loc.Name, loc.Size, loc.Timestamp.UTC().Format(time.RFC3339))
			}
			return w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
}
