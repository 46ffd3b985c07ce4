package site

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/internal/docstore"
	"github.com/fastygo/storefront/repository"
	"github.com/fastygo/storefront/usecase/contact"
)

// Store is the part of the document store the whole-document operations need.
type Store interface {
	Load(ctx context.Context) (*domain.SiteDocument, docstore.LoadInfo)
	Replace(ctx context.Context, doc *domain.SiteDocument, opts ...docstore.SaveOption) (repository.Location, error)
	Initialize(ctx context.Context, doc *domain.SiteDocument) (repository.Location, error)
	PruneOld(ctx context.Context) (int, error)
	Snapshots(ctx context.Context) ([]repository.Location, error)
}

// Overrides replace seeded admin and site fields when set.
type Overrides struct {
	AdminUsername   string
	AdminPassword   string
	AdminEmail      string
	AdminName       string
	SiteTitle       string
	SiteDescription string
}

func (o Overrides) Apply(doc *domain.SiteDocument) {
	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	set(&doc.Admin.Username, o.AdminUsername)
	set(&doc.Admin.Password, o.AdminPassword)
	set(&doc.Admin.Email, o.AdminEmail)
	set(&doc.Admin.Name, o.AdminName)
	set(&doc.SiteInfo.Title, o.SiteTitle)
	set(&doc.SiteInfo.Description, o.SiteDescription)
}

// SeedSource yields the document written by Seed.
type SeedSource func() (*domain.SiteDocument, error)

type Options struct {
	Seed      SeedSource
	Overrides Overrides
}

// SeedResult reports what Seed persisted.
type SeedResult struct {
	Location   repository.Location `json:"location"`
	Products   int                 `json:"products"`
	Categories int                 `json:"categories"`
	Slides     int                 `json:"slides"`
}

// Stats summarizes the document for the admin dashboard.
type Stats struct {
	Products            int                             `json:"products"`
	OutOfStock          int                             `json:"outOfStock"`
	Categories          int                             `json:"categories"`
	Slides              int                             `json:"slides"`
	Submissions         int                             `json:"submissions"`
	SubmissionsByStatus map[domain.SubmissionStatus]int `json:"submissionsByStatus"`
	Snapshots           int                             `json:"snapshots"`
	Version             string                          `json:"version,omitempty"`
	Source              docstore.Source                 `json:"source"`
}

type UseCase struct {
	store  Store
	opts   Options
	logger *zap.Logger
}

func New(store Store, opts Options, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Seed == nil {
		opts.Seed = func() (*domain.SiteDocument, error) { return domain.DefaultDocument(), nil }
	}
	return &UseCase{
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// Document returns the latest full document, or the default one when none
// has been stored yet.
func (uc *UseCase) Document(ctx context.Context) (*domain.SiteDocument, docstore.LoadInfo) {
	return uc.store.Load(ctx)
}

// Replace stores doc as a new snapshot.
func (uc *UseCase) Replace(ctx context.Context, doc *domain.SiteDocument, opts ...docstore.SaveOption) (repository.Location, error) {
	if err := Validate(doc); err != nil {
		return repository.Location{}, err
	}
	doc.Normalize()
	loc, err := uc.store.Replace(ctx, doc, opts...)
	if err != nil {
		return repository.Location{}, err
	}
	uc.logger.Info("site document replaced", zap.String("snapshot", loc.Name))
	return loc, nil
}

// Prune deletes every snapshot except the latest.
func (uc *UseCase) Prune(ctx context.Context) (int, error) {
	return uc.store.PruneOld(ctx)
}

func (uc *UseCase) Snapshots(ctx context.Context) ([]repository.Location, error) {
	return uc.store.Snapshots(ctx)
}

// Seed writes the seed document with overrides applied. Without force it
// refuses to overwrite an existing document.
func (uc *UseCase) Seed(ctx context.Context, force bool) (*SeedResult, error) {
	doc, err := uc.opts.Seed()
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "load seed document", err)
	}
	uc.opts.Overrides.Apply(doc)
	if err := Validate(doc); err != nil {
		return nil, err
	}
	doc.Normalize()

	var loc repository.Location
	if force {
		loc, err = uc.store.Replace(ctx, doc)
	} else {
		loc, err = uc.store.Initialize(ctx, doc)
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("site document seeded",
		zap.String("snapshot", loc.Name),
		zap.Bool("force", force),
	)
	return &SeedResult{
		Location:   loc,
		Products:   len(doc.Products),
		Categories: len(doc.Categories),
		Slides:     len(doc.Slider),
	}, nil
}

func (uc *UseCase) Stats(ctx context.Context) (*Stats, error) {
	doc, info := uc.store.Load(ctx)
	stats := &Stats{
		Products:            len(doc.Products),
		Categories:          len(doc.Categories),
		Slides:              len(doc.Slider),
		Submissions:         len(doc.Submissions),
		SubmissionsByStatus: contact.CountByStatus(doc.Submissions),
		Version:             info.Version,
		Source:              info.Source,
	}
	for _, p := range doc.Products {
		if !p.InStock {
			stats.OutOfStock++
		}
	}
	if !info.Degraded {
		snapshots, err := uc.store.Snapshots(ctx)
		if err != nil {
			return nil, err
		}
		stats.Snapshots = len(snapshots)
	}
	return stats, nil
}

// Validate checks a whole document before it replaces the stored one: the
// admin account must be usable and ids must be unique per collection.
func Validate(doc *domain.SiteDocument) error {
	if doc == nil {
		return domain.ErrInvalidPayload
	}
	if strings.TrimSpace(doc.Admin.Username) == "" || doc.Admin.Password == "" {
		return domain.Invalidf("admin username and password are required")
	}
	if err := uniqueIDs("product", doc.Products, domain.ProductID); err != nil {
		return err
	}
	if err := uniqueIDs("category", doc.Categories, domain.CategoryID); err != nil {
		return err
	}
	if err := uniqueIDs("slide", doc.Slider, domain.SlideID); err != nil {
		return err
	}
	return uniqueIDs("contact submission", doc.Submissions, domain.SubmissionID)
}

func uniqueIDs[E any](kind string, items []E, id func(E) int) error {
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		v := id(item)
		if _, dup := seen[v]; dup {
			return domain.Invalidf("duplicate %s id %d", kind, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}
