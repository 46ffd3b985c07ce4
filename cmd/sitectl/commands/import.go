package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/internal/docstore"
)

var importIfMatch string

// importCmd replaces the document from a file
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the site document with the content of a JSON file",
	Long: `Validate a site document and store it as a new snapshot.

--if-match makes the import fail when the latest snapshot is not the given one.

Examples:
  sitectl import backup.json
  sitectl import backup.json --if-match site-data/data-1700000000000.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := domain.DecodeDocument(raw)
		if err != nil {
			return err
		}
		var opts []docstore.SaveOption
		if cmd.Flags().Changed("if-match") {
			opts = append(opts, docstore.IfMatch(importIfMatch))
		}

		return withSession(cmd, func(ctx context.Context, s *session) error {
			loc, err := s.site.Replace(ctx, doc, opts...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				return json.NewEncoder(out).Encode(loc)
			}
			fmt.Fprintf(out, "stored %s\n", loc.Name)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importIfMatch, "if-match", "", "Expected latest snapshot name")
}
