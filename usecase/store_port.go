package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/internal/docstore"
	"github.com/fastygo/storefront/repository"
)

// DocumentStore abstracts the document store so use cases stay storage-agnostic.
type DocumentStore interface {
	Load(ctx context.Context) (*domain.SiteDocument, docstore.LoadInfo)
	Mutate(ctx context.Context, fn func(doc *domain.SiteDocument) error) (repository.Location, error)
}

// Clock returns the current time. Use cases take one so tests can pin it.
type Clock func() time.Time

func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// ErrNoChange tells Mutate the callback left the document as it was, so
// nothing needs to be written.
var ErrNoChange = errors.New("document unchanged")

// Mutate runs fn through store and treats ErrNoChange as success.
func Mutate(ctx context.Context, store DocumentStore, fn func(doc *domain.SiteDocument) error) error {
	_, err := store.Mutate(ctx, fn)
	if errors.Is(err, ErrNoChange) {
		return nil
	}
	return err
}
