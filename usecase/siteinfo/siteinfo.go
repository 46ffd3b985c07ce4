package siteinfo

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/usecase"
)

type UseCase struct {
	store  usecase.DocumentStore
	logger *zap.Logger
}

func New(store usecase.DocumentStore, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		store:  store,
		logger: logger,
	}
}

func (uc *UseCase) Get(ctx context.Context) (domain.SiteInfo, error) {
	doc, _ := uc.store.Load(ctx)
	return doc.SiteInfo, nil
}

// Update merges patch into the site info, one level deep for the contact block.
func (uc *UseCase) Update(ctx context.Context, patch domain.SiteInfoPatch) (*domain.SiteInfo, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.Invalidf("site title is required")
	}
	var updated domain.SiteInfo
	err := usecase.Mutate(ctx, uc.store, func(doc *domain.SiteDocument) error {
		patch.Apply(&doc.SiteInfo)
		updated = doc.SiteInfo
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("site info updated")
	return &updated, nil
}
