// Package assets embeds the seed document and the SQL migrations.
package assets

import (
	"embed"
	"io/fs"

	"github.com/fastygo/storefront/domain"
)

//go:embed seed/site-data.json
var seedDocument []byte

//go:embed migrations/*.sql
var migrations embed.FS

// SeedDocument returns a fresh copy of the bundled seed document.
func SeedDocument() (*domain.SiteDocument, error) {
	return domain.DecodeDocument(seedDocument)
}

// Migrations exposes the SQL migrations rooted at their directory.
func Migrations() (fs.FS, error) {
	return fs.Sub(migrations, "migrations")
}
