package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/storefront/internal/bootstrap"
	"github.com/fastygo/storefront/internal/config"
	"github.com/fastygo/storefront/pkg/logger"
	siteUC "github.com/fastygo/storefront/usecase/site"
)

var (
	// Global flags
	backendFlag string
	verbose     bool
	jsonOutput  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sitectl",
	Short: "Maintain the storefront site document",
	Long: `sitectl operates on the snapshot store the storefront server uses.

Configuration is read from the environment (and .env) exactly like the server.
The --backend flag overrides STORE_BACKEND.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Snapshot backend: filesystem, redis, postgres or memory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// session bundles what every command needs.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	backend *bootstrap.Backend
	site    *siteUC.UseCase
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if backendFlag != "" {
		cfg.Store.Backend = backendFlag
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	zapLogger, err := logger.New(logger.Config{Level: level, Encoding: "console", Output: os.Stderr})
	if err != nil {
		return nil, err
	}

	backend, err := bootstrap.Open(ctx, cfg, zapLogger)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:     cfg,
		logger:  zapLogger,
		backend: backend,
		site:    siteUC.New(backend.Store, bootstrap.SiteOptions(cfg), zapLogger),
	}, nil
}

func (s *session) Close(ctx context.Context) {
	if err := s.backend.Close(ctx); err != nil {
		s.logger.Warn("close failed", zap.Error(err))
	}
	_ = s.logger.Sync()
}

// withSession opens a session around run.
func withSession(cmd *cobra.Command, run func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)
	return run(ctx, s)
}
