package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/storefront/domain"
)

var exportOutput string

// exportCmd writes the current document
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current site document as JSON",
	Long: `Write the latest site document to stdout or to a file.

Examples:
  sitectl export > site-data.json
  sitectl export -o backup.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			doc, info := s.site.Document(ctx)
			if info.Degraded {
				s.logger.Warn("exporting fallback copy", zap.String("source", string(info.Source)), zap.Bool("malformed", info.Malformed), zap.Error(info.Err))
			}
			body, err := domain.EncodeDocument(doc)
			if err != nil {
				return err
			}
			body = append(body, '\n')
			if exportOutput == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(exportOutput, body, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %s (%s) to %s\n", info.Version, info.Source, exportOutput)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: stdout)")
}
