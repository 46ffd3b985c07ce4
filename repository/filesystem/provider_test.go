package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/repository/providertest"
)

func TestProvider(t *testing.T) {
	p, err := NewProvider(t.TempDir())
	require.NoError(t, err)
	providertest.Run(t, p)
}

func TestProviderRejectsEscapingNames(t *testing.T) {
	p, err := NewProvider(t.TempDir())
	require.NoError(t, err)

	_, err = p.Write(context.Background(), "../outside-1.json", []byte("{}"))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = p.Read(context.Background(), "/etc/passwd")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestProviderIgnoresTemporaryFiles(t *testing.T) {
	root := t.TempDir()
	p, err := NewProvider(root)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "site-data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "site-data", ".snapshot-123"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "site-data", "notes.txt"), []byte("x"), 0o644))

	locs, err := p.List(context.Background(), "site-data/")
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestPingFailsWhenRootIsGone(t *testing.T) {
	root := filepath.Join(t.TempDir(), "store")
	p, err := NewProvider(root)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(root))

	err = p.Ping(context.Background())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
}
