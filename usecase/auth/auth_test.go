package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/internal/docstore"
	"github.com/fastygo/storefront/repository"
	"github.com/fastygo/storefront/repository/memory"
)

func newUseCase(opts Options) *UseCase {
	store := docstore.New(memory.NewProvider(), nil, docstore.Options{}, nil)
	return New(store, opts, nil)
}

func TestLoginAndVerify(t *testing.T) {
	uc := newUseCase(Options{Secret: "s3cret", Issuer: "storefront", TTL: time.Hour})
	ctx := context.Background()

	token, err := uc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, "admin", token.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := uc.Verify(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "storefront", claims.Issuer)
}

func TestLogin_Rejections(t *testing.T) {
	uc := newUseCase(Options{Secret: "s3cret"})
	ctx := context.Background()

	_, err := uc.Login(ctx, "admin", "wrong")
	assert.Equal(t, domain.ErrCodeUnauthorized, domain.CodeOf(err))

	_, err = uc.Login(ctx, "root", "admin123")
	assert.Equal(t, domain.ErrCodeUnauthorized, domain.CodeOf(err))

	_, err = uc.Login(ctx, "", "")
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	unsigned := newUseCase(Options{})
	_, err = unsigned.Login(ctx, "admin", "admin123")
	assert.Equal(t, domain.ErrCodeInternal, domain.CodeOf(err))
}

func TestVerify_Rejections(t *testing.T) {
	uc := newUseCase(Options{Secret: "s3cret", Issuer: "storefront"})

	_, err := uc.Verify("not-a-token")
	assert.Equal(t, domain.ErrCodeUnauthorized, domain.CodeOf(err))

	other := newUseCase(Options{Secret: "different", Issuer: "storefront"})
	token, err := other.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	_, err = uc.Verify(token.AccessToken)
	assert.Equal(t, domain.ErrCodeUnauthorized, domain.CodeOf(err))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "storefront",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = uc.Verify(signed)
	assert.Equal(t, domain.ErrCodeUnauthorized, domain.CodeOf(err))

	foreignIssuer := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username:         "admin",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "elsewhere"},
	})
	signed, err = foreignIssuer.SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = uc.Verify(signed)
	assert.Equal(t, domain.ErrCodeUnauthorized, domain.CodeOf(err))
}

func TestLogin_RefusedWhileLatestSnapshotIsMalformed(t *testing.T) {
	ctx := context.Background()
	provider := memory.NewProvider()
	store := docstore.New(provider, nil, docstore.Options{}, nil)

	doc := domain.DefaultDocument()
	doc.Admin.Password = "real-secret"
	_, err := store.Save(ctx, doc)
	require.NoError(t, err)

	_, err = provider.Write(ctx, repository.SnapshotName("site-data", "data", time.Now().Add(time.Hour)), []byte(`{"products": [`))
	require.NoError(t, err)

	uc := New(docstore.New(provider, nil, docstore.Options{}, nil), Options{Secret: "s3cret"}, nil)
	_, err = uc.Login(ctx, "admin", "admin123")
	assert.Equal(t, domain.ErrCodeUnavailable, domain.CodeOf(err))
	_, err = uc.Login(ctx, "admin", "real-secret")
	assert.Equal(t, domain.ErrCodeUnavailable, domain.CodeOf(err))
}
