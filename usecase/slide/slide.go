package slide

import (
	"context"

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

// List returns the slides in display order.
func (uc *UseCase) List(ctx context.Context) ([]domain.Slide, error) {
	doc, _ := uc.store.Load(ctx)
	return doc.Slider, nil
}

func (uc *UseCase) GetByID(ctx context.Context, id int) (*domain.Slide, error) {
	doc, _ := uc.store.Load(ctx)
	idx := domain.IndexOf(doc.Slider, domain.SlideID, id)
	if idx < 0 {
		return nil, domain.ErrSlideNotFound
	}
	s := doc.Slider[idx]
	return &s, nil
}

// Add appends the slide, making it the last one shown.
func (uc *UseCase) Add(ctx context.Context, input domain.Slide) (*domain.Slide, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	var created domain.Slide
	err := usecase.Mutate(ctx, uc.store, func(doc *domain.SiteDocument) error {
		created = input
		created.ID = domain.NextIDOf(doc.Slider, domain.SlideID)
		doc.Slider = append(doc.Slider, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (uc *UseCase) Update(ctx context.Context, id int, patch domain.SlidePatch) (*domain.Slide, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var updated domain.Slide
	err := usecase.Mutate(ctx, uc.store, func(doc *domain.SiteDocument) error {
		idx := domain.IndexOf(doc.Slider, domain.SlideID, id)
		if idx < 0 {
			return domain.ErrSlideNotFound
		}
		updated = doc.Slider[idx]
		patch.Apply(&updated)
		if err := updated.Validate(); err != nil {
			return err
		}
		updated.ID = id
		doc.Slider[idx] = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *UseCase) Delete(ctx context.Context, id int) error {
	return usecase.Mutate(ctx, uc.store, func(doc *domain.SiteDocument) error {
		remaining, removed := domain.RemoveByID(doc.Slider, domain.SlideID, id)
		if !removed {
			return usecase.ErrNoChange
		}
		doc.Slider = remaining
		return nil
	})
}

// Move swaps the slide with its neighbour in the given direction and
// persists the new order. Moving past either end leaves the order as is.
func (uc *UseCase) Move(ctx context.Context, id int, direction domain.Direction) ([]domain.Slide, error) {
	if !direction.Valid() {
		return nil, domain.Invalidf("unknown direction %q", direction)
	}
	var order []domain.Slide
	err := usecase.Mutate(ctx, uc.store, func(doc *domain.SiteDocument) error {
		order = doc.Slider
		idx := domain.IndexOf(doc.Slider, domain.SlideID, id)
		if idx < 0 {
			return domain.ErrSlideNotFound
		}
		target := idx - 1
		if direction == domain.DirectionDown {
			target = idx + 1
		}
		if target < 0 || target >= len(doc.Slider) {
			return usecase.ErrNoChange
		}
		doc.Slider[idx], doc.Slider[target] = doc.Slider[target], doc.Slider[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("slide moved", zap.Int("id", id), zap.String("direction", string(direction)))
	return order, nil
}
