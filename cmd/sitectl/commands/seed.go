package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var seedForce bool

// seedCmd stores the embedded seed document
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store the bundled seed document",
	Long: `Store the bundled FliesenExpress24 document as the first snapshot.

ADMIN_USERNAME, ADMIN_PASSWORD, ADMIN_EMAIL, ADMIN_NAME, SITE_TITLE and
SITE_DESCRIPTION override the seeded values. Without --force the command
refuses to run when a document already exists.

Examples:
  sitectl seed
  ADMIN_PASSWORD=geheim sitectl seed --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			result, err := s.site.Seed(ctx, seedForce)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				return json.NewEncoder(out).Encode(result)
			}
			fmt.Fprintf(out, "stored %s (%d products, %d categories, %d slides)\n",
				result.Location.Name, result.Products, result.Categories, result.Slides)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Write the seed even if a document exists")
}
