package product

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/usecase"
)

// SortOrder selects how List orders its result.
type SortOrder string

const (
	SortStored    SortOrder = ""
	SortName      SortOrder = "name"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortRating    SortOrder = "rating"
	SortNewest    SortOrder = "newest"
)

func (s SortOrder) Valid() bool {
	switch s {
	case SortStored, SortName, SortPriceLow, SortPriceHigh, SortRating, SortNewest:
		return true
	default:
		return false
	}
}

const defaultRelatedLimit = 4

// Filter narrows List. The zero value returns every product in stored order.
type Filter struct {
	Category    string
	Search      string
	Sort        SortOrder
	InStockOnly bool
	Limit       int
}

type Options struct {
	// StrictCategoryRefs rejects products whose category slug does not exist.
	// Otherwise such references are only logged.
	StrictCategoryRefs bool
	Clock              usecase.Clock
}

type UseCase struct {
	store  usecase.DocumentStore
	opts   Options
	logger *zap.Logger
}

func New(store usecase.DocumentStore, opts Options, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

func (uc *UseCase) List(ctx context.Context, filter Filter) ([]domain.Product, error) {
	if !filter.Sort.Valid() {
		return nil, domain.Invalidf("unknown sort order %q", filter.Sort)
	}
	doc, _ := uc.store.Load(ctx)

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.Product, 0, len(doc.Products))
	for _, p := range doc.Products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.InStockOnly && !p.InStock {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, filter.Sort)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (uc *UseCase) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	doc, _ := uc.store.Load(ctx)
	idx := domain.IndexOf(doc.Products, domain.ProductID, id)
	if idx < 0 {
		return nil, domain.ErrProductNotFound
	}
	p := doc.Products[idx]
	return &p, nil
}

// Related returns other products of the same category in stored order.
func (uc *UseCase) Related(ctx context.Context, id int, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultRelatedLimit
	}
	doc, _ := uc.store.Load(ctx)
	idx := domain.IndexOf(doc.Products, domain.ProductID, id)
	if idx < 0 {
		return nil, domain.ErrProductNotFound
	}
	category := doc.Products[idx].Category

	out := make([]domain.Product, 0, limit)
	for _, p := range doc.Products {
		if len(out) == limit {
			break
		}
		if p.ID != id && p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// Featured returns the best rated products that are in stock.
func (uc *UseCase) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultRelatedLimit
	}
	return uc.List(ctx, Filter{Sort: SortRating, InStockOnly: true, Limit: limit})
}

func (uc *UseCase) Add(ctx context.Context, input domain.Product) (*domain.Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var created domain.Product
	err := usecase.Mutate(ctx, uc.store, func(doc *domain.SiteDocument) error {
		if err := uc.checkCategory(doc, input.Category); err != nil {
			return err
		}
		created = input
		created.ID = domain.NextIDOf(doc.Products, domain.ProductID)
		created.CreatedAt, created.UpdatedAt = time.Time{}, time.Time{}
		created.Touch(uc.opts.Clock.Now())
		created.Normalize()
		doc.Products = append(doc.Products, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("product created", zap.Int("id", created.ID), zap.String("category", created.Category))
	return &created, nil
}

func (uc *UseCase) Update(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var updated domain.Product
	err := usecase.Mutate(ctx, uc.store, func(doc *domain.SiteDocument) error {
		idx := domain.IndexOf(doc.Products, domain.ProductID, id)
		if idx < 0 {
			return domain.ErrProductNotFound
		}
		updated = doc.Products[idx]
		patch.Apply(&updated)
		if err := updated.Validate(); err != nil {
			return err
		}
		if patch.Category != nil {
			if err := uc.checkCategory(doc, updated.Category); err != nil {
				return err
			}
		}
		updated.ID = id
		updated.Touch(uc.opts.Clock.Now())
		updated.Normalize()
		doc.Products[idx] = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the product. Deleting an unknown id succeeds without writing.
func (uc *UseCase) Delete(ctx context.Context, id int) error {
	return usecase.Mutate(ctx, uc.store, func(doc *domain.SiteDocument) error {
		remaining, removed := domain.RemoveByID(doc.Products, domain.ProductID, id)
		if !removed {
			return usecase.ErrNoChange
		}
		doc.Products = remaining
		return nil
	})
}

func (uc *UseCase) checkCategory(doc *domain.SiteDocument, slug string) error {
	for _, c := range doc.Categories {
		if c.Slug == slug {
			return nil
		}
	}
	if uc.opts.StrictCategoryRefs {
		return domain.Invalidf("category %q does not exist", slug)
	}
	uc.logger.Warn("product references unknown category", zap.String("category", slug))
	return nil
}

func sortProducts(products []domain.Product, order SortOrder) {
	switch order {
	case SortName:
		col := collate.New(language.German)
		sort.SliceStable(products, func(i, j int) bool {
			return col.CompareString(products[i].Name, products[j].Name) < 0
		})
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	case SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	}
}
