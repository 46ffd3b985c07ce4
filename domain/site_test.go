package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDocument(t *testing.T) {
	doc := DefaultDocument()
	assert.NotEmpty(t, doc.SiteInfo.Title)
	assert.NotEmpty(t, doc.Admin.Username)
	assert.Empty(t, doc.Products)
	assert.NotNil(t, doc.Products)
	assert.NotNil(t, doc.Submissions)
}

func TestDecodeDocument(t *testing.T) {
	t.Run("fills missing collections", func(t *testing.T) {
		doc, err := DecodeDocument([]byte(`{"siteInfo":{"title":"X"},"products":[{"id":1,"name":"a","price":3}]}`))
		require.NoError(t, err)
		assert.Equal(t, "X", doc.SiteInfo.Title)
		assert.NotNil(t, doc.Categories)
		require.Len(t, doc.Products, 1)
		assert.NotNil(t, doc.Products[0].Specifications)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := DecodeDocument([]byte(`{"siteInfo":`))
		assert.True(t, IsDomainError(err, ErrCodeMalformed))
	})
}

func TestSiteInfoPatchMergesContact(t *testing.T) {
	info := DefaultDocument().SiteInfo
	phone := "+49 40 1234"
	title := "Neuer Titel"

	SiteInfoPatch{Title: &title, Contact: &ContactInfoPatch{Phone: &phone}}.Apply(&info)

	assert.Equal(t, title, info.Title)
	assert.Equal(t, phone, info.Contact.Phone)
	assert.Equal(t, "info@fliesenexpress24.de", info.Contact.Email)
	assert.Equal(t, "Berlin, Deutschland", info.Contact.Address)
}

func TestCloneIsDeep(t *testing.T) {
	doc := DefaultDocument()
	doc.Categories = append(doc.Categories, Category{ID: 1, Name: "Boden"})

	cp, err := doc.Clone()
	require.NoError(t, err)
	cp.Categories[0].Name = "changed"

	assert.Equal(t, "Boden", doc.Categories[0].Name)
}

func TestDocumentKeepsUnknownMembers(t *testing.T) {
	raw := []byte(`{
		"siteInfo": {"title": "X", "extra": 1, "contact": {"phone": "1", "fax": "2"}},
		"products": [{
			"id": 1, "name": "a", "category": "c", "price": 3,
			"tags": ["t"],
			"specifications": {"x": null, "y": "z"}
		}],
		"categories": [{"id": 1, "name": "Boden", "slug": "boden", "description": "d", "order": 4}],
		"theme": {"color": "red"}
	}`)

	doc, err := DecodeDocument(raw)
	require.NoError(t, err)
	assert.Equal(t, "X", doc.SiteInfo.Title)
	assert.Equal(t, map[string]string{"x": "", "y": "z"}, doc.Products[0].Specifications)

	encoded, err := EncodeDocument(doc)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &got))

	assert.Equal(t, map[string]interface{}{"color": "red"}, got["theme"])
	siteInfo := got["siteInfo"].(map[string]interface{})
	assert.Equal(t, float64(1), siteInfo["extra"])
	assert.Equal(t, "2", siteInfo["contact"].(map[string]interface{})["fax"])

	product := got["products"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, []interface{}{"t"}, product["tags"])
	specs := product["specifications"].(map[string]interface{})
	assert.Contains(t, specs, "x")
	assert.Nil(t, specs["x"])
	assert.Equal(t, "z", specs["y"])

	category := got["categories"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(4), category["order"])

	again, err := DecodeDocument(encoded)
	require.NoError(t, err)
	reencoded, err := EncodeDocument(again)
	require.NoError(t, err)
	assert.JSONEq(t, string(encoded), string(reencoded))
}

func TestDocumentNullSpecificationsFollowEdits(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{"products":[{"id":1,"name":"a","category":"c","price":1,"specifications":{"x":null}}]}`))
	require.NoError(t, err)

	doc.Products[0].Specifications["x"] = "gefüllt"
	encoded, err := EncodeDocument(doc)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"x": "gefüllt"`)

	specs := map[string]string{"x": ""}
	ProductPatch{Specifications: &specs}.Apply(&doc.Products[0])
	encoded, err = EncodeDocument(doc)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"x": ""`)
}

func TestDocumentFoldedKeysAreNotDuplicated(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{"siteInfo":{"Title":"X"}}`))
	require.NoError(t, err)
	assert.Equal(t, "X", doc.SiteInfo.Title)
	assert.Nil(t, doc.SiteInfo.Extra)

	encoded, err := EncodeDocument(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), `"Title"`)
}
