package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/storefront/api/handler"
	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/internal/bootstrap"
	"github.com/fastygo/storefront/internal/config"
	"github.com/fastygo/storefront/internal/infrastructure/monitor"
	"github.com/fastygo/storefront/internal/infrastructure/uploads"
	"github.com/fastygo/storefront/internal/middleware"
	"github.com/fastygo/storefront/internal/router"
	"github.com/fastygo/storefront/internal/services/lifecycle"
	"github.com/fastygo/storefront/internal/services/maintenance"
	"github.com/fastygo/storefront/pkg/httpcontext"
	"github.com/fastygo/storefront/pkg/logger"
	authUC "github.com/fastygo/storefront/usecase/auth"
	categoryUC "github.com/fastygo/storefront/usecase/category"
	contactUC "github.com/fastygo/storefront/usecase/contact"
	productUC "github.com/fastygo/storefront/usecase/product"
	siteUC "github.com/fastygo/storefront/usecase/site"
	siteinfoUC "github.com/fastygo/storefront/usecase/siteinfo"
	slideUC "github.com/fastygo/storefront/usecase/slide"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.JWT.Secret == "" {
		zapLogger.Warn("JWT_SECRET is empty; admin login is disabled")
	}

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.Listen(context.Background())
	defer cancel()

	backend, err := bootstrap.Open(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("snapshot store unavailable", zap.Error(err))
	}
	for _, c := range backend.Closers {
		manager.Register(c.Name, c.Close)
	}
	store := backend.Store

	var mirrorReporter monitor.MirrorReporter
	if backend.Mirror != nil {
		mirrorReporter = backend.Mirror
	}
	mon := monitor.New(store, backend.Name, mirrorReporter, cfg.Maintenance.MonitorPeriod, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	siteUseCase := siteUC.New(store, bootstrap.SiteOptions(cfg), zapLogger)
	if cfg.Seed.SeedOnStartup {
		seedCtx, seedCancel := context.WithTimeout(appCtx, cfg.Context.RequestTimeout)
		result, err := siteUseCase.Seed(seedCtx, false)
		seedCancel()
		switch {
		case err == nil:
			zapLogger.Info("seed document stored", zap.String("snapshot", result.Location.Name))
		case domain.IsDomainError(err, domain.ErrCodeConflict):
			zapLogger.Info("site document already present, seed skipped")
		default:
			zapLogger.Error("seeding failed", zap.Error(err))
		}
	}

	if cfg.Maintenance.PruneSchedule != "" {
		pruner, err := maintenance.NewPruner(store, mon, zapLogger, maintenance.Config{
			Schedule: cfg.Maintenance.PruneSchedule,
		})
		if err != nil {
			zapLogger.Fatal("invalid maintenance configuration", zap.Error(err))
		}
		pruner.Start()
		manager.Register("pruner", func(ctx context.Context) error {
			pruner.Stop(ctx)
			return nil
		})
	}

	uploadStore, err := uploads.New(uploads.Options{
		Dir:        cfg.Uploads.Dir,
		PublicPath: cfg.Uploads.PublicPath,
		MaxSize:    cfg.Uploads.MaxSize,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("uploads directory unavailable", zap.Error(err))
	}

	clock := time.Now
	authUseCase := authUC.New(store, authUC.Options{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL,
	}, zapLogger)
	productUseCase := productUC.New(store, productUC.Options{
		StrictCategoryRefs: cfg.Store.StrictCategoryRefs,
		Clock:              clock,
	}, zapLogger)
	categoryUseCase := categoryUC.New(store, zapLogger)
	slideUseCase := slideUC.New(store, zapLogger)
	siteInfoUseCase := siteinfoUC.New(store, zapLogger)
	contactUseCase := contactUC.New(store, clock, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
		Auth:     apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Site:     apiHandler.NewSiteHandler(siteUseCase, siteInfoUseCase, productUseCase, ctxAdapter, zapLogger),
		Product:  apiHandler.NewProductHandler(productUseCase, ctxAdapter, zapLogger),
		Category: apiHandler.NewCategoryHandler(categoryUseCase, ctxAdapter, zapLogger),
		Slide:    apiHandler.NewSlideHandler(slideUseCase, ctxAdapter, zapLogger),
		Contact:  apiHandler.NewContactHandler(contactUseCase, ctxAdapter, zapLogger),
		Data:     apiHandler.NewDataHandler(siteUseCase, ctxAdapter, zapLogger),
		Upload:   apiHandler.NewUploadHandler(uploadStore, ctxAdapter, zapLogger),

		ContactLimit: middleware.NewRateLimiter(cfg.Contact.RatePerMinute, cfg.Contact.Burst).Middleware(zapLogger),
	}

	authMiddleware := middleware.JWTAuth(authUseCase, zapLogger)
	r := router.New(handlers, authMiddleware, &router.Media{
		PublicPath: uploadStore.PublicPath(),
		Root:       uploadStore.Dir(),
	})

	server := &fasthttp.Server{
		Handler:            middleware.AccessLog(zapLogger)(r.Handler),
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxConnsPerIP:      cfg.HTTP.MaxConn,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
		Name:               cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("backend", backend.Name),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
