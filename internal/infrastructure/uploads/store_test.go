package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/storefront/domain"
)

func newStore(t *testing.T, maxSize int64) *Store {
	t.Helper()
	s, err := New(Options{
		Dir:     t.TempDir(),
		MaxSize: maxSize,
		Clock:   func() time.Time { return time.UnixMilli(1700000000000) },
	}, nil)
	require.NoError(t, err)
	return s
}

func TestParseTag(t *testing.T) {
	tag, err := ParseTag(" Product ")
	require.NoError(t, err)
	assert.Equal(t, TagProduct, tag)

	_, err = ParseTag("")
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	_, err = ParseTag("avatar")
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))
}

func TestSave(t *testing.T) {
	s := newStore(t, 0)

	tests := []struct {
		tag        Tag
		wantPrefix string
	}{
		{TagProduct, "/media/products/images/1700000000000-"},
		{TagCategory, "/media/categories/1700000000000-"},
		{TagSlider, "/media/slider/1700000000000-"},
		{TagContact, "/media/contact/images/1700000000000-"},
		{TagLogo, "/media/logo/1700000000000-"},
	}
	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			res, err := s.Save(tt.tag, "Foto.JPG", strings.NewReader("image-bytes"))
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(res.URL, tt.wantPrefix), res.URL)
			assert.True(t, strings.HasSuffix(res.FileName, ".jpg"))
			assert.Len(t, strings.TrimSuffix(strings.TrimPrefix(res.FileName, "1700000000000-"), ".jpg"), 8)
			assert.EqualValues(t, len("image-bytes"), res.Size)

			onDisk := filepath.Join(s.Dir(), filepath.FromSlash(strings.TrimPrefix(res.URL, "/media/")))
			body, err := os.ReadFile(onDisk)
			require.NoError(t, err)
			assert.Equal(t, "image-bytes", string(body))
		})
	}
}

func TestSave_Rejections(t *testing.T) {
	s := newStore(t, 4)

	_, err := s.Save(TagProduct, "", strings.NewReader("x"))
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	_, err = s.Save(TagProduct, "script.exe", strings.NewReader("x"))
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	_, err = s.Save("avatar", "a.png", strings.NewReader("x"))
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	_, err = s.Save(TagProduct, "big.png", strings.NewReader("12345"))
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	_, err = s.Save(TagProduct, "empty.png", strings.NewReader(""))
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	entries, err := os.ReadDir(filepath.Join(s.Dir(), "products", "images"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
