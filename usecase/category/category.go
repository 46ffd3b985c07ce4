package category

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

func (uc *UseCase) List(ctx context.Context) ([]domain.Category, error) {
	doc, _ := uc.store.Load(ctx)
	return doc.Categories, nil
}

func (uc *UseCase) GetByID(ctx context.Context, id int) (*domain.Category, error) {
	doc, _ := uc.store.Load(ctx)
	idx := domain.IndexOf(doc.Categories, domain.CategoryID, id)
	if idx < 0 {
		return nil, domain.ErrCategoryNotFound
	}
	c := doc.Categories[idx]
	return &c, nil
}

// GetBySlug returns the first category carrying slug.
func (uc *UseCase) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	doc, _ := uc.store.Load(ctx)
	for _, c := range doc.Categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// Add creates a category. An empty slug is derived from the name.
func (uc *UseCase) Add(ctx context.Context, input domain.Category) (*domain.Category, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	input.Slug = strings.TrimSpace(input.Slug)
	if input.Slug == "" {
		input.Slug = domain.Slugify(input.Name)
	}
	if input.Slug == "" {
		return nil, domain.Invalidf("cannot derive a slug from %q", input.Name)
	}

	var created domain.Category
	err := usecase.Mutate(ctx, uc.store, func(doc *domain.SiteDocument) error {
		uc.warnDuplicateSlug(doc, input.Slug, 0)
		created = input
		created.ID = domain.NextIDOf(doc.Categories, domain.CategoryID)
		doc.Categories = append(doc.Categories, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("category created", zap.Int("id", created.ID), zap.String("slug", created.Slug))
	return &created, nil
}

// Update merges patch into the category. The slug only changes when the
// patch carries one; an explicitly empty slug is derived from the name.
func (uc *UseCase) Update(ctx context.Context, id int, patch domain.CategoryPatch) (*domain.Category, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var updated domain.Category
	err := usecase.Mutate(ctx, uc.store, func(doc *domain.SiteDocument) error {
		idx := domain.IndexOf(doc.Categories, domain.CategoryID, id)
		if idx < 0 {
			return domain.ErrCategoryNotFound
		}
		updated = doc.Categories[idx]
		patch.Apply(&updated)
		if err := updated.Validate(); err != nil {
			return err
		}
		if patch.Slug != nil {
			updated.Slug = strings.TrimSpace(updated.Slug)
			if updated.Slug == "" {
				updated.Slug = domain.Slugify(updated.Name)
			}
			uc.warnDuplicateSlug(doc, updated.Slug, id)
		}
		updated.ID = id
		doc.Categories[idx] = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the category. Products referencing it keep the slug.
func (uc *UseCase) Delete(ctx context.Context, id int) error {
	return usecase.Mutate(ctx, uc.store, func(doc *domain.SiteDocument) error {
		idx := domain.IndexOf(doc.Categories, domain.CategoryID, id)
		if idx < 0 {
			return usecase.ErrNoChange
		}
		slug := doc.Categories[idx].Slug
		doc.Categories, _ = domain.RemoveByID(doc.Categories, domain.CategoryID, id)

		orphaned := 0
		for _, p := range doc.Products {
			if p.Category == slug {
				orphaned++
			}
		}
		if orphaned > 0 {
			uc.logger.Warn("deleted category is still referenced",
				zap.String("slug", slug),
				zap.Int("products", orphaned),
			)
		}
		return nil
	})
}

// ProductCounts maps each category slug to the number of products in it.
// Slugs referenced by products but missing from the catalog are included.
func (uc *UseCase) ProductCounts(ctx context.Context) (map[string]int, error) {
	doc, _ := uc.store.Load(ctx)
	counts := make(map[string]int, len(doc.Categories))
	for _, c := range doc.Categories {
		counts[c.Slug] = 0
	}
	for _, p := range doc.Products {
		counts[p.Category]++
	}
	return counts, nil
}

func (uc *UseCase) warnDuplicateSlug(doc *domain.SiteDocument, slug string, self int) {
	for _, c := range doc.Categories {
		if c.Slug == slug && c.ID != self {
			uc.logger.Warn("category slug is not unique", zap.String("slug", slug), zap.Int("existing_id", c.ID))
			return
		}
	}
}
