// Package maintenance runs periodic housekeeping on the snapshot store.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// SnapshotPruner deletes every snapshot except the latest.
type SnapshotPruner interface {
	PruneOld(ctx context.Context) (int, error)
}

// Config controls when pruning runs. Schedule accepts the robfig/cron
// syntax with an optional seconds field, including descriptors such as
// "@daily" or "@every 6h".
type Config struct {
	Schedule string
	Timeout  time.Duration
}

// Pruner removes superseded snapshots on a cron schedule.
type Pruner struct {
	store   SnapshotPruner
	monitor ConnectionHealth
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     Config
}

func NewPruner(store SnapshotPruner, monitor ConnectionHealth, logger *zap.Logger, cfg Config) (*Pruner, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pruner{
		store:   store,
		monitor: monitor,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}

	if _, err := p.cron.AddFunc(cfg.Schedule, p.tick); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", cfg.Schedule, err)
	}
	return p, nil
}

func (p *Pruner) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Timeout)
	defer cancel()
	if _, err := p.Run(ctx); err != nil {
		p.logger.Error("snapshot prune failed", zap.Error(err))
	}
}

// Start launches the cron scheduler.
func (p *Pruner) Start() {
	if p == nil || p.cron == nil {
		return
	}
	p.cron.Start()
	p.logger.Info("snapshot pruner started", zap.String("schedule", p.cfg.Schedule))
}

// Stop gracefully stops the scheduler.
func (p *Pruner) Stop(ctx context.Context) {
	if p == nil || p.cron == nil {
		return
	}
	stopCtx := p.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	p.logger.Info("snapshot pruner stopped")
}

// Run prunes once. It is skipped while the provider is offline.
func (p *Pruner) Run(ctx context.Context) (int, error) {
	if p == nil || p.store == nil {
		return 0, nil
	}
	if p.monitor != nil && !p.monitor.IsOnline() {
		p.logger.Debug("skipping snapshot prune (offline)")
		return 0, nil
	}

	deleted, err := p.store.PruneOld(ctx)
	if err != nil {
		return deleted, err
	}
	if deleted > 0 {
		p.logger.Info("old snapshots pruned", zap.Int("deleted", deleted))
	}
	return deleted, nil
}
