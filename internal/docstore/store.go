// Package docstore owns loading and persisting the site document. Every
// mutation rewrites the whole document as a new write-once snapshot.
package docstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/repository"
)

// Source tells where a loaded document came from.
type Source string

const (
	SourceProvider Source = "provider"
	SourceCache    Source = "cache"
	SourceMirror   Source = "mirror"
	SourceDefault  Source = "default"
)

const (
	defaultNamespace = "site-data"
	defaultEntity    = "data"
	defaultTimeout   = 10 * time.Second
	writeAttempts    = 3
)

// LoadInfo describes the outcome of Load.
//
// Version is the name of the latest snapshot the load observed, or the
// mirrored version when the provider was unreachable. It is empty when no
// snapshot exists. Degraded is set when the document served is not the
// latest stored one: the provider could not be reached, or the latest
// snapshot is Malformed. Err holds the cause of any fallback.
type LoadInfo struct {
	Source    Source `json:"source"`
	Version   string `json:"version,omitempty"`
	Degraded  bool   `json:"degraded"`
	Malformed bool   `json:"malformed,omitempty"`
	Err       error  `json:"-"`
}

// Unavailable converts a degraded load into the error writers return.
func (i LoadInfo) Unavailable() error {
	if !i.Degraded {
		return nil
	}
	if i.Malformed {
		return domain.WrapError(domain.ErrCodeUnavailable, "latest snapshot "+i.Version+" is malformed", i.Err)
	}
	return domain.WrapError(domain.ErrCodeUnavailable, "snapshot provider unavailable", i.Err)
}

// Options configures a Store.
type Options struct {
	Namespace string
	Entity    string
	// Timeout bounds each provider call. Zero means the default, negative
	// disables the bound.
	Timeout time.Duration
	Clock   func() time.Time
}

type cachedBody struct {
	version string
	body    []byte
}

type Store struct {
	provider repository.SnapshotProvider
	mirror   repository.Mirror
	opts     Options
	logger   *zap.Logger

	// mu serializes read-modify-write cycles within this process.
	mu    sync.Mutex
	group singleflight.Group

	stateMu         sync.Mutex
	cache           cachedBody
	mirroredVersion string
	lastMs          int64
}

func New(provider repository.SnapshotProvider, mirror repository.Mirror, opts Options, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Namespace == "" {
		opts.Namespace = defaultNamespace
	}
	if opts.Entity == "" {
		opts.Entity = defaultEntity
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Store{
		provider: provider,
		mirror:   mirror,
		opts:     opts,
		logger:   logger.With(zap.String("namespace", opts.Namespace)),
	}
}

// Namespace returns the snapshot namespace this store writes to.
func (s *Store) Namespace() string {
	return s.opts.Namespace
}

// Load returns the most recent document. It never fails: when the provider
// is unreachable or the latest snapshot is malformed it falls back to the
// last good document held in memory, then to the mirror, then to the
// default document, and reports the load as degraded.
// The returned document is owned by the caller.
func (s *Store) Load(ctx context.Context) (*domain.SiteDocument, LoadInfo) {
	v, _, _ := s.group.Do("load", func() (interface{}, error) {
		return s.load(context.WithoutCancel(ctx)), nil
	})
	return v.(loadResult).document()
}

type loadResult struct {
	body []byte
	info LoadInfo
}

// document decodes a fresh copy. Bodies are validated before a result is
// built, so a decode failure here only yields the default.
func (r loadResult) document() (*domain.SiteDocument, LoadInfo) {
	if r.body == nil {
		return domain.DefaultDocument(), r.info
	}
	doc, err := domain.DecodeDocument(r.body)
	if err != nil {
		return domain.DefaultDocument(), r.info
	}
	return doc, r.info
}

func (s *Store) load(ctx context.Context) loadResult {
	locs, err := call(ctx, s.opts.Timeout, "docstore.List", func(ctx context.Context) ([]repository.Location, error) {
		return s.provider.List(ctx, repository.SnapshotPrefix(s.opts.Namespace))
	})
	if err != nil {
		return s.fallback(err)
	}

	latest, ok := ResolveLatest(locs)
	if !ok {
		return loadResult{info: LoadInfo{Source: SourceDefault}}
	}
	s.observe(latest.Name)

	if cached := s.cached(); cached.version == latest.Name {
		return loadResult{body: cached.body, info: LoadInfo{Source: SourceCache, Version: latest.Name}}
	}

	body, err := call(ctx, s.opts.Timeout, "docstore.Read", func(ctx context.Context) ([]byte, error) {
		return s.provider.Read(ctx, latest.Name)
	})
	if err != nil {
		return s.fallback(err)
	}

	if _, err := domain.DecodeDocument(body); err != nil {
		return s.malformed(latest.Name, err)
	}

	s.remember(latest.Name, body)
	return loadResult{body: body, info: LoadInfo{Source: SourceProvider, Version: latest.Name}}
}

// malformed serves the last good document while the latest snapshot cannot
// be decoded. Version stays the malformed name so a conditional replace can
// supersede it.
func (s *Store) malformed(name string, cause error) loadResult {
	info := LoadInfo{Version: name, Degraded: true, Malformed: true, Err: cause}
	if cached := s.cached(); cached.body != nil {
		s.logger.Error("latest snapshot is malformed, serving cached document",
			zap.String("snapshot", name),
			zap.String("cached", cached.version),
			zap.Error(cause),
		)
		info.Source = SourceCache
		return loadResult{body: cached.body, info: info}
	}
	if body, version, ok := s.mirrored(); ok {
		s.logger.Error("latest snapshot is malformed, serving mirrored document",
			zap.String("snapshot", name),
			zap.String("mirrored", version),
			zap.Error(cause),
		)
		info.Source = SourceMirror
		return loadResult{body: body, info: info}
	}
	s.logger.Error("latest snapshot is malformed, serving default document",
		zap.String("snapshot", name),
		zap.Error(cause),
	)
	info.Source = SourceDefault
	return loadResult{info: info}
}

// mirrored returns the mirrored document when it decodes.
func (s *Store) mirrored() ([]byte, string, bool) {
	if s.mirror == nil {
		return nil, "", false
	}
	version, body, ok, err := s.mirror.Get()
	if err != nil {
		s.logger.Warn("mirror read failed", zap.Error(err))
		return nil, "", false
	}
	if !ok {
		return nil, "", false
	}
	if _, err := domain.DecodeDocument(body); err != nil {
		s.logger.Warn("mirrored document is malformed", zap.String("version", version))
		return nil, "", false
	}
	return body, version, true
}

func (s *Store) fallback(cause error) loadResult {
	if body, version, ok := s.mirrored(); ok {
		s.logger.Warn("snapshot provider unavailable, serving mirrored document",
			zap.String("version", version),
			zap.Error(cause),
		)
		return loadResult{body: body, info: LoadInfo{Source: SourceMirror, Version: version, Degraded: true, Err: cause}}
	}
	s.logger.Warn("snapshot provider unavailable, serving default document", zap.Error(cause))
	return loadResult{info: LoadInfo{Source: SourceDefault, Degraded: true, Err: cause}}
}

// SaveOption adjusts a single Save call.
type SaveOption func(*saveConfig)

type saveConfig struct {
	ifMatch     string
	conditional bool
}

// IfMatch makes Save fail with a CONFLICT error unless the latest stored
// snapshot is version. An empty version requires that no snapshot exists.
func IfMatch(version string) SaveOption {
	return func(c *saveConfig) {
		c.ifMatch = version
		c.conditional = true
	}
}

// Save persists doc under a fresh snapshot name and refreshes the mirror.
func (s *Store) Save(ctx context.Context, doc *domain.SiteDocument, opts ...SaveOption) (repository.Location, error) {
	var cfg saveConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	body, err := domain.EncodeDocument(doc)
	if err != nil {
		return repository.Location{}, domain.WrapError(domain.ErrCodeInvalid, "encode site document", err)
	}

	if cfg.conditional {
		current, err := s.latest(ctx)
		if err != nil {
			return repository.Location{}, err
		}
		if current.Name != cfg.ifMatch {
			return repository.Location{}, domain.WrapError(domain.ErrCodeConflict, domain.ErrStaleVersion.Message,
				errors.New("expected "+quoteVersion(cfg.ifMatch)+", latest is "+quoteVersion(current.Name)))
		}
	}

	var loc repository.Location
	for attempt := 0; attempt < writeAttempts; attempt++ {
		name := s.nextName()
		loc, err = call(ctx, s.opts.Timeout, "docstore.Write", func(ctx context.Context) (repository.Location, error) {
			return s.provider.Write(ctx, name, body)
		})
		if err == nil {
			break
		}
		if !domain.IsDomainError(err, domain.ErrCodeConflict) {
			return repository.Location{}, err
		}
		if cfg.conditional {
			// Another writer produced a snapshot in the meantime.
			return repository.Location{}, domain.ErrStaleVersion
		}
		s.observe(name)
	}
	if err != nil {
		return repository.Location{}, err
	}

	s.remember(loc.Name, body)
	s.logger.Debug("snapshot written", zap.String("snapshot", loc.Name), zap.Int64("size", loc.Size))
	return loc, nil
}

// Mutate loads the latest document, applies fn and saves the result. Calls
// are serialized within the process, and the save is conditional on the
// loaded version so writers in other processes are detected. If fn returns
// an error nothing is written.
func (s *Store) Mutate(ctx context.Context, fn func(doc *domain.SiteDocument) error) (repository.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Loads joined through singleflight may predate the last save.
	doc, info := s.load(ctx).document()
	if err := info.Unavailable(); err != nil {
		return repository.Location{}, err
	}
	if err := fn(doc); err != nil {
		return repository.Location{}, err
	}
	return s.Save(ctx, doc, IfMatch(info.Version))
}

// Initialize persists doc only when no snapshot exists yet.
func (s *Store) Initialize(ctx context.Context, doc *domain.SiteDocument) (repository.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, err := s.Save(ctx, doc, IfMatch(""))
	if err != nil && domain.IsDomainError(err, domain.ErrCodeConflict) {
		return repository.Location{}, domain.NewError(domain.ErrCodeConflict, "site document already initialized")
	}
	return loc, err
}

// Replace persists doc unconditionally, or conditionally when opts carry
// IfMatch. It is serialized with Mutate.
func (s *Store) Replace(ctx context.Context, doc *domain.SiteDocument, opts ...SaveOption) (repository.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Save(ctx, doc, opts...)
}

// Snapshots lists stored snapshots, oldest first.
func (s *Store) Snapshots(ctx context.Context) ([]repository.Location, error) {
	locs, err := call(ctx, s.opts.Timeout, "docstore.List", func(ctx context.Context) ([]repository.Location, error) {
		return s.provider.List(ctx, repository.SnapshotPrefix(s.opts.Namespace))
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(locs, func(i, j int) bool {
		return locs[i].Timestamp.Before(locs[j].Timestamp)
	})
	return locs, nil
}

// PruneOld deletes every snapshot except the latest and returns how many
// were removed. It is never called implicitly, and refuses to run unless
// the latest snapshot decodes.
func (s *Store) PruneOld(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx).info.Unavailable(); err != nil {
		return 0, err
	}

	locs, err := s.Snapshots(ctx)
	if err != nil {
		return 0, err
	}
	latest, ok := ResolveLatest(locs)
	if !ok {
		return 0, nil
	}

	deleted := 0
	for _, loc := range locs {
		if loc.Name == latest.Name {
			continue
		}
		name := loc.Name
		if _, err := call(ctx, s.opts.Timeout, "docstore.Delete", func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.provider.Delete(ctx, name)
		}); err != nil {
			return deleted, err
		}
		deleted++
	}
	if deleted > 0 {
		s.logger.Info("pruned old snapshots", zap.Int("deleted", deleted), zap.String("kept", latest.Name))
	}
	return deleted, nil
}

// Ping checks that the provider is reachable.
func (s *Store) Ping(ctx context.Context) error {
	_, err := call(ctx, s.opts.Timeout, "docstore.Ping", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.provider.Ping(ctx)
	})
	return err
}

// ResolveLatest picks the location with the greatest timestamp. On equal
// timestamps the last one in locs wins.
func ResolveLatest(locs []repository.Location) (repository.Location, bool) {
	var (
		best  repository.Location
		found bool
	)
	for _, loc := range locs {
		if !found || !loc.Timestamp.Before(best.Timestamp) {
			best = loc
			found = true
		}
	}
	return best, found
}

func (s *Store) latest(ctx context.Context) (repository.Location, error) {
	locs, err := s.Snapshots(ctx)
	if err != nil {
		return repository.Location{}, err
	}
	latest, _ := ResolveLatest(locs)
	if latest.Name != "" {
		s.observe(latest.Name)
	}
	return latest, nil
}

// nextName returns a snapshot name strictly newer than any name this store
// has produced or observed, even within one millisecond.
func (s *Store) nextName() string {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	ms := s.opts.Clock().UnixMilli()
	if ms <= s.lastMs {
		ms = s.lastMs + 1
	}
	s.lastMs = ms
	return repository.SnapshotName(s.opts.Namespace, s.opts.Entity, time.UnixMilli(ms))
}

func (s *Store) observe(name string) {
	ts, ok := repository.ParseSnapshotTimestamp(name)
	if !ok {
		return
	}
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if ms := ts.UnixMilli(); ms > s.lastMs {
		s.lastMs = ms
	}
}

func (s *Store) cached() cachedBody {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.cache
}

// remember updates the cache and the mirror unless a newer version is
// already held.
func (s *Store) remember(version string, body []byte) {
	s.stateMu.Lock()
	if newer(s.cache.version, version) {
		s.stateMu.Unlock()
		return
	}
	s.cache = cachedBody{version: version, body: body}
	refreshMirror := s.mirror != nil && s.mirroredVersion != version
	if refreshMirror {
		s.mirroredVersion = version
	}
	s.stateMu.Unlock()

	if !refreshMirror {
		return
	}
	if err := s.mirror.Put(version, body); err != nil {
		s.logger.Warn("failed to refresh mirror", zap.String("version", version), zap.Error(err))
	}
}

// newer reports whether held is strictly newer than candidate.
func newer(held, candidate string) bool {
	if held == "" {
		return false
	}
	h, ok1 := repository.ParseSnapshotTimestamp(held)
	c, ok2 := repository.ParseSnapshotTimestamp(candidate)
	return ok1 && ok2 && h.After(c)
}

func quoteVersion(v string) string {
	if v == "" {
		return "<none>"
	}
	return `"` + v + `"`
}
