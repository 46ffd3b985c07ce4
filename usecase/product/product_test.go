package product

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/internal/docstore"
	"github.com/fastygo/storefront/repository"
	"github.com/fastygo/storefront/repository/memory"
)

type tickingClock struct {
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newUseCase(t *testing.T, strict bool) (*UseCase, *docstore.Store) {
	t.Helper()
	store := docstore.New(memory.NewProvider(), nil, docstore.Options{}, nil)
	clock := &tickingClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	return New(store, Options{StrictCategoryRefs: strict, Clock: clock.Now}, nil), store
}

func seedCategory(t *testing.T, store *docstore.Store, slug string) {
	t.Helper()
	_, err := store.Mutate(context.Background(), func(doc *domain.SiteDocument) error {
		doc.Categories = append(doc.Categories, domain.Category{
			ID:          domain.NextIDOf(doc.Categories, domain.CategoryID),
			Name:        slug,
			Slug:        slug,
			Description: slug,
		})
		return nil
	})
	require.NoError(t, err)
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddFetchUpdateScenario(t *testing.T) {
	uc, _ := newUseCase(t, false)
	ctx := context.Background()

	created, err := uc.Add(ctx, domain.Product{Name: "Tile A", Category: "boden", Price: price("19.99"), InStock: true})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	fetched, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tile A", fetched.Name)
	assert.Equal(t, "boden", fetched.Category)
	assert.True(t, fetched.Price.Equal(price("19.99")))
	assert.True(t, fetched.InStock)
	assert.True(t, fetched.CreatedAt.Equal(fetched.UpdatedAt))

	newPrice := price("24.50")
	_, err = uc.Update(ctx, created.ID, domain.ProductPatch{Price: &newPrice})
	require.NoError(t, err)

	refetched, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, refetched.Price.Equal(newPrice))
	assert.Equal(t, "Tile A", refetched.Name)
	assert.Equal(t, "boden", refetched.Category)
	assert.True(t, refetched.InStock)
	assert.True(t, refetched.UpdatedAt.After(refetched.CreatedAt))
	assert.True(t, refetched.CreatedAt.Equal(fetched.CreatedAt))
}

func TestAdd_AssignsSequentialIDs(t *testing.T) {
	uc, _ := newUseCase(t, false)
	ctx := context.Background()

	for want := 1; want <= 5; want++ {
		p, err := uc.Add(ctx, domain.Product{Name: "P", Category: "c", Price: price("1")})
		require.NoError(t, err)
		assert.Equal(t, want, p.ID)
	}

	require.NoError(t, uc.Delete(ctx, 5))
	p, err := uc.Add(ctx, domain.Product{Name: "P", Category: "c", Price: price("1")})
	require.NoError(t, err)
	assert.Equal(t, 5, p.ID)
}

func TestAdd_ValidationHappensBeforePersistence(t *testing.T) {
	uc, store := newUseCase(t, false)
	ctx := context.Background()

	tests := []struct {
		name  string
		input domain.Product
	}{
		{name: "missing name", input: domain.Product{Category: "c"}},
		{name: "missing category", input: domain.Product{Name: "n"}},
		{name: "negative price", input: domain.Product{Name: "n", Category: "c", Price: price("-1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Add(ctx, tt.input)
			require.Error(t, err)
			assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))
		})
	}

	snapshots, err := store.Snapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestAdd_CategoryReferences(t *testing.T) {
	ctx := context.Background()

	t.Run("lenient keeps dangling reference", func(t *testing.T) {
		uc, _ := newUseCase(t, false)
		p, err := uc.Add(ctx, domain.Product{Name: "P", Category: "missing", Price: price("1")})
		require.NoError(t, err)
		assert.Equal(t, "missing", p.Category)
	})

	t.Run("strict rejects dangling reference", func(t *testing.T) {
		uc, store := newUseCase(t, true)
		_, err := uc.Add(ctx, domain.Product{Name: "P", Category: "missing", Price: price("1")})
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

		seedCategory(t, store, "boden")
		_, err = uc.Add(ctx, domain.Product{Name: "P", Category: "boden", Price: price("1")})
		require.NoError(t, err)
	})
}

func TestUpdate(t *testing.T) {
	uc, _ := newUseCase(t, false)
	ctx := context.Background()
	created, err := uc.Add(ctx, domain.Product{
		Name:           "Tile",
		Category:       "boden",
		Price:          price("10"),
		Features:       []string{"rutschfest"},
		Specifications: map[string]string{"Format": "30x60"},
	})
	require.NoError(t, err)

	t.Run("preserves unspecified fields", func(t *testing.T) {
		name := "Tile Plus"
		updated, err := uc.Update(ctx, created.ID, domain.ProductPatch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Tile Plus", updated.Name)
		assert.Equal(t, []string{"rutschfest"}, updated.Features)
		assert.Equal(t, map[string]string{"Format": "30x60"}, updated.Specifications)
		assert.True(t, updated.Price.Equal(price("10")))
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("rejects invalid merge", func(t *testing.T) {
		empty := ""
		_, err := uc.Update(ctx, created.ID, domain.ProductPatch{Name: &empty})
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

		current, err := uc.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tile Plus", current.Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := uc.Update(ctx, 99, domain.ProductPatch{})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestDelete(t *testing.T) {
	uc, store := newUseCase(t, false)
	ctx := context.Background()
	created, err := uc.Add(ctx, domain.Product{Name: "P", Category: "c", Price: price("1")})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID))
	_, err = uc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	before, err := store.Snapshots(ctx)
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, created.ID))
	after, err := store.Snapshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestList(t *testing.T) {
	uc, _ := newUseCase(t, false)
	ctx := context.Background()
	inputs := []domain.Product{
		{Name: "Zement", Category: "boden", Price: price("30"), InStock: true, Rating: 3},
		{Name: "Äquator", Category: "wand", Price: price("10"), InStock: false, Rating: 5, Description: "glasiert"},
		{Name: "Basalt", Category: "boden", Price: price("20"), InStock: true, Rating: 4},
	}
	for _, in := range inputs {
		_, err := uc.Add(ctx, in)
		require.NoError(t, err)
	}

	names := func(products []domain.Product) []string {
		out := make([]string, len(products))
		for i, p := range products {
			out[i] = p.Name
		}
		return out
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "stored order", filter: Filter{}, want: []string{"Zement", "Äquator", "Basalt"}},
		{name: "category", filter: Filter{Category: "boden"}, want: []string{"Zement", "Basalt"}},
		{name: "in stock", filter: Filter{InStockOnly: true}, want: []string{"Zement", "Basalt"}},
		{name: "search description", filter: Filter{Search: "GLASIERT"}, want: []string{"Äquator"}},
		{name: "name collation", filter: Filter{Sort: SortName}, want: []string{"Äquator", "Basalt", "Zement"}},
		{name: "price low", filter: Filter{Sort: SortPriceLow}, want: []string{"Äquator", "Basalt", "Zement"}},
		{name: "price high", filter: Filter{Sort: SortPriceHigh}, want: []string{"Zement", "Basalt", "Äquator"}},
		{name: "rating", filter: Filter{Sort: SortRating}, want: []string{"Äquator", "Basalt", "Zement"}},
		{name: "newest", filter: Filter{Sort: SortNewest}, want: []string{"Basalt", "Äquator", "Zement"}},
		{name: "limit", filter: Filter{Sort: SortPriceLow, Limit: 1}, want: []string{"Äquator"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}

	_, err := uc.List(ctx, Filter{Sort: "cheapest"})
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	featured, err := uc.Featured(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Basalt", "Zement"}, names(featured))
}

func TestRelated(t *testing.T) {
	uc, _ := newUseCase(t, false)
	ctx := context.Background()
	for _, cat := range []string{"boden", "wand", "boden", "boden"} {
		_, err := uc.Add(ctx, domain.Product{Name: "P", Category: cat, Price: price("1")})
		require.NoError(t, err)
	}

	related, err := uc.Related(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, related, 2)
	assert.Equal(t, 3, related[0].ID)
	assert.Equal(t, 4, related[1].ID)

	related, err = uc.Related(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, related, 1)

	_, err = uc.Related(ctx, 42, 4)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestAdd_RefusedWhileLatestSnapshotIsMalformed(t *testing.T) {
	ctx := context.Background()
	provider := memory.NewProvider()
	seeded := docstore.New(provider, nil, docstore.Options{}, nil)
	_, err := New(seeded, Options{Clock: time.Now}, nil).Add(ctx, domain.Product{Name: "Real", Category: "boden", Price: price("5")})
	require.NoError(t, err)

	broken := repository.SnapshotName("site-data", "data", time.Now().Add(time.Hour))
	_, err = provider.Write(ctx, broken, []byte(`{"products": [`))
	require.NoError(t, err)

	uc := New(docstore.New(provider, nil, docstore.Options{}, nil), Options{Clock: time.Now}, nil)
	_, err = uc.Add(ctx, domain.Product{Name: "New", Category: "boden", Price: price("1")})
	assert.Equal(t, domain.ErrCodeUnavailable, domain.CodeOf(err))

	locs, err := provider.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, locs, 2)
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
	uc := New(untouchedStore{t: t}, Options{}, nil)
	blank := "  "
	negative := price("-1")

	tests := []struct {
		name  string
		patch domain.ProductPatch
	}{
		{name: "blank name", patch: domain.ProductPatch{Name: &blank}},
		{name: "blank category", patch: domain.ProductPatch{Category: &blank}},
		{name: "negative price", patch: domain.ProductPatch{Price: &negative}},
		{name: "negative original price", patch: domain.ProductPatch{OriginalPrice: &negative}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Update(context.Background(), 1, tt.patch)
			assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))
		})
	}
}
