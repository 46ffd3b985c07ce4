package category

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/internal/docstore"
	"github.com/fastygo/storefront/repository"
	"github.com/fastygo/storefront/repository/memory"
)

func newUseCase() (*UseCase, *docstore.Store) {
	store := docstore.New(memory.NewProvider(), nil, docstore.Options{}, nil)
	return New(store, nil), store
}

func TestAdd_DerivesSlug(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	tests := []struct {
		name     string
		input    string
		wantSlug string
	}{
		{name: "plain", input: "Bodenfliesen", wantSlug: "bodenfliesen"},
		{name: "german folding", input: "Bäder Fließen", wantSlug: "baeder-fliessen"},
		{name: "punctuation", input: "  Wand & Boden -- Außen ", wantSlug: "wand-boden-aussen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := uc.Add(ctx, domain.Category{Name: tt.input, Description: "..."})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, c.Slug)
		})
	}

	explicit, err := uc.Add(ctx, domain.Category{Name: "X", Slug: "custom", Description: "..."})
	require.NoError(t, err)
	assert.Equal(t, "custom", explicit.Slug)
	assert.Equal(t, 4, explicit.ID)
}

func TestAdd_Validation(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()

	_, err := uc.Add(ctx, domain.Category{Name: "Boden"})
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	_, err = uc.Add(ctx, domain.Category{Description: "d"})
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	_, err = uc.Add(ctx, domain.Category{Name: "!!!", Description: "d"})
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	snapshots, err := store.Snapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestGetBySlugAndUpdate(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	created, err := uc.Add(ctx, domain.Category{Name: "Wandfliesen", Description: "Wand"})
	require.NoError(t, err)

	got, err := uc.GetBySlug(ctx, "wandfliesen")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	name := "Wandfliesen Innen"
	updated, err := uc.Update(ctx, created.ID, domain.CategoryPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "wandfliesen", updated.Slug)
	assert.Equal(t, "Wand", updated.Description)

	empty := ""
	updated, err = uc.Update(ctx, created.ID, domain.CategoryPatch{Slug: &empty})
	require.NoError(t, err)
	assert.Equal(t, "wandfliesen-innen", updated.Slug)

	_, err = uc.GetBySlug(ctx, "wandfliesen")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	_, err = uc.Update(ctx, 77, domain.CategoryPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestDeleteAndProductCounts(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()
	boden, err := uc.Add(ctx, domain.Category{Name: "Boden", Description: "b"})
	require.NoError(t, err)
	_, err = uc.Add(ctx, domain.Category{Name: "Wand", Description: "w"})
	require.NoError(t, err)

	_, err = store.Mutate(ctx, func(doc *domain.SiteDocument) error {
		doc.Products = append(doc.Products,
			domain.Product{ID: 1, Name: "a", Category: "boden", Price: decimal.NewFromInt(1)},
			domain.Product{ID: 2, Name: "b", Category: "boden", Price: decimal.NewFromInt(1)},
			domain.Product{ID: 3, Name: "c", Category: "gone", Price: decimal.NewFromInt(1)},
		)
		return nil
	})
	require.NoError(t, err)

	counts, err := uc.ProductCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"boden": 2, "wand": 0, "gone": 1}, counts)

	require.NoError(t, uc.Delete(ctx, boden.ID))
	_, err = uc.GetByID(ctx, boden.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	require.NoError(t, uc.Delete(ctx, boden.ID))

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "wand", list[0].Slug)
}

// untouchedStore fails the test when the document is loaded or written.
type untouchedStore struct{ t *testing.T }

func (s untouchedStore) Load(context.Context) (*domain.SiteDocument, docstore.LoadInfo) {
	s.t.Fatal("document loaded")
	return nil, docstore.LoadInfo{}
}

func (s untouchedStore) Mutate(context.Context, func(*domain.SiteDocument) error) (repository.Location, error) {
	s.t.Fatal("document mutated")
	return repository.Location{}, nil
}

func TestUpdate_ValidationHappensBeforeLoading(t *testing.T) {
	uc := New(untouchedStore{t: t}, nil)
	blank := " "

	_, err := uc.Update(context.Background(), 1, domain.CategoryPatch{Name: &blank})
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	_, err = uc.Update(context.Background(), 1, domain.CategoryPatch{Description: &blank})
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))
}
