package siteinfo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/internal/docstore"
	"github.com/fastygo/storefront/repository/memory"
)

func strPtr(s string) *string { return &s }

func TestGetReturnsDefaults(t *testing.T) {
	uc := New(docstore.New(memory.NewProvider(), nil, docstore.Options{}, nil), nil)

	info, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDocument().SiteInfo, info)
}

func TestUpdate_NestedContactMerge(t *testing.T) {
	uc := New(docstore.New(memory.NewProvider(), nil, docstore.Options{}, nil), nil)
	ctx := context.Background()
	defaults := domain.DefaultDocument().SiteInfo

	updated, err := uc.Update(ctx, domain.SiteInfoPatch{
		Title:   strPtr("Fliesen Berlin"),
		Contact: &domain.ContactInfoPatch{Phone: strPtr("+49 30 1")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Fliesen Berlin", updated.Title)
	assert.Equal(t, defaults.Description, updated.Description)
	assert.Equal(t, "+49 30 1", updated.Contact.Phone)
	assert.Equal(t, defaults.Contact.Email, updated.Contact.Email)
	assert.Equal(t, defaults.Contact.Address, updated.Contact.Address)

	info, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, *updated, info)
}

func TestUpdate_RejectsEmptyTitle(t *testing.T) {
	uc := New(docstore.New(memory.NewProvider(), nil, docstore.Options{}, nil), nil)

	_, err := uc.Update(context.Background(), domain.SiteInfoPatch{Title: strPtr("  ")})
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))
}
