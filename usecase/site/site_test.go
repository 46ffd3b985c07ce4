package site

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/internal/docstore"
	"github.com/fastygo/storefront/repository/memory"
)

func seedDocument() (*domain.SiteDocument, error) {
	doc := domain.DefaultDocument()
	doc.Categories = []domain.Category{{ID: 1, Name: "Boden", Slug: "boden", Description: "b"}}
	doc.Products = []domain.Product{
		{ID: 1, Name: "A", Category: "boden", Price: decimal.NewFromInt(10), InStock: true},
		{ID: 2, Name: "B", Category: "boden", Price: decimal.NewFromInt(20)},
	}
	doc.Slider = []domain.Slide{{ID: 1, Title: "S", Subtitle: "s", ButtonText: "b", ButtonLink: "/"}}
	return doc, nil
}

func newUseCase(overrides Overrides) (*UseCase, *docstore.Store) {
	store := docstore.New(memory.NewProvider(), nil, docstore.Options{}, nil)
	return New(store, Options{Seed: seedDocument, Overrides: overrides}, nil), store
}

func TestSeed(t *testing.T) {
	uc, _ := newUseCase(Overrides{AdminPassword: "geheim", SiteTitle: "Fliesen Nord"})
	ctx := context.Background()

	res, err := uc.Seed(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Products)
	assert.Equal(t, 1, res.Categories)
	assert.Equal(t, 1, res.Slides)
	assert.NotEmpty(t, res.Location.Name)

	doc, info := uc.Document(ctx)
	assert.Equal(t, res.Location.Name, info.Version)
	assert.Equal(t, "geheim", doc.Admin.Password)
	assert.Equal(t, "admin", doc.Admin.Username)
	assert.Equal(t, "Fliesen Nord", doc.SiteInfo.Title)

	_, err = uc.Seed(ctx, false)
	assert.Equal(t, domain.ErrCodeConflict, domain.CodeOf(err))

	forced, err := uc.Seed(ctx, true)
	require.NoError(t, err)
	assert.NotEqual(t, res.Location.Name, forced.Location.Name)
}

func TestReplaceWithIfMatch(t *testing.T) {
	uc, _ := newUseCase(Overrides{})
	ctx := context.Background()

	doc, info := uc.Document(ctx)
	assert.Equal(t, docstore.SourceDefault, info.Source)

	doc.SiteInfo.Title = "Erste"
	first, err := uc.Replace(ctx, doc, docstore.IfMatch(info.Version))
	require.NoError(t, err)

	doc.SiteInfo.Title = "Zweite"
	_, err = uc.Replace(ctx, doc, docstore.IfMatch(info.Version))
	assert.Equal(t, domain.ErrCodeConflict, domain.CodeOf(err))

	_, err = uc.Replace(ctx, doc, docstore.IfMatch(first.Name))
	require.NoError(t, err)

	_, err = uc.Replace(ctx, doc)
	require.NoError(t, err)

	current, _ := uc.Document(ctx)
	assert.Equal(t, "Zweite", current.SiteInfo.Title)
}

func TestReplace_Validation(t *testing.T) {
	uc, _ := newUseCase(Overrides{})
	ctx := context.Background()

	_, err := uc.Replace(ctx, nil)
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	doc, _ := seedDocument()
	doc.Products = append(doc.Products, domain.Product{ID: 1, Name: "dup"})
	_, err = uc.Replace(ctx, doc)
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	doc, _ = seedDocument()
	doc.Admin.Password = ""
	_, err = uc.Replace(ctx, doc)
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))
}

func TestPruneAndStats(t *testing.T) {
	uc, _ := newUseCase(Overrides{})
	ctx := context.Background()

	_, err := uc.Seed(ctx, false)
	require.NoError(t, err)
	doc, _ := uc.Document(ctx)
	doc.Submissions = append(doc.Submissions, domain.ContactSubmission{ID: 1, Name: "n", Email: "a@b.de", Message: "m", Status: domain.StatusClosed})
	_, err = uc.Replace(ctx, doc)
	require.NoError(t, err)

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Products)
	assert.Equal(t, 1, stats.OutOfStock)
	assert.Equal(t, 1, stats.Categories)
	assert.Equal(t, 1, stats.Slides)
	assert.Equal(t, 1, stats.Submissions)
	assert.Equal(t, 1, stats.SubmissionsByStatus[domain.StatusClosed])
	assert.Equal(t, 2, stats.Snapshots)

	n, err := uc.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	snapshots, err := uc.Snapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
}
