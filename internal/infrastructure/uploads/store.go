// Package uploads stores images sent through the admin and contact forms
// under a directory per tag and hands back their public path.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/storefront/domain"
)

// Tag selects the namespace an upload is stored under.
type Tag string

const (
	TagProduct  Tag = "product"
	TagCategory Tag = "category"
	TagSlider   Tag = "slider"
	TagContact  Tag = "contact"
	TagLogo     Tag = "logo"
)

var tagDirs = map[Tag]string{
	TagProduct:  "products/images",
	TagCategory: "categories",
	TagSlider:   "slider",
	TagContact:  "contact/images",
	TagLogo:     "logo",
}

var allowedExt = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"avif": true,
	"svg":  true,
}

const defaultMaxSize = 10 << 20

// ParseTag validates a tag sent by a client.
func ParseTag(raw string) (Tag, error) {
	tag := Tag(strings.ToLower(strings.TrimSpace(raw)))
	if raw == "" {
		return "", domain.Invalidf("upload type is required")
	}
	if _, ok := tagDirs[tag]; !ok {
		return "", domain.Invalidf("unknown upload type %q", raw)
	}
	return tag, nil
}

// Result describes a stored file.
type Result struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
}

type Options struct {
	Dir        string
	PublicPath string
	MaxSize    int64
	Clock      func() time.Time
}

type Store struct {
	dir        string
	publicPath string
	maxSize    int64
	clock      func() time.Time
	logger     *zap.Logger
}

func New(opts Options, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Dir == "" {
		return nil, errors.New("uploads: directory is required")
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = defaultMaxSize
	}
	if opts.PublicPath == "" {
		opts.PublicPath = "/media"
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: create %s: %w", dir, err)
	}
	return &Store{
		dir:        dir,
		publicPath: "/" + strings.Trim(opts.PublicPath, "/"),
		maxSize:    opts.MaxSize,
		clock:      opts.Clock,
		logger:     logger,
	}, nil
}

// Dir is the root directory served under PublicPath.
func (s *Store) Dir() string { return s.dir }

func (s *Store) PublicPath() string { return s.publicPath }

func (s *Store) MaxSize() int64 { return s.maxSize }

// Save writes the content of r under the tag directory with a generated
// name "<unix millis>-<random>.<ext>".
func (s *Store) Save(tag Tag, originalName string, r io.Reader) (*Result, error) {
	sub, ok := tagDirs[tag]
	if !ok {
		return nil, domain.Invalidf("unknown upload type %q", tag)
	}
	if strings.TrimSpace(originalName) == "" {
		return nil, domain.Invalidf("file is required")
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if !allowedExt[ext] {
		return nil, domain.Invalidf("file type %q is not allowed", ext)
	}

	dir := filepath.Join(s.dir, filepath.FromSlash(sub))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "create upload directory", err)
	}

	name := fmt.Sprintf("%d-%s.%s", s.clock().UnixMilli(), uuid.NewString()[:8], ext)
	target := filepath.Join(dir, name)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "create upload file", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		_ = os.Remove(target)
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "write upload file", err)
	case closeErr != nil:
		_ = os.Remove(target)
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "write upload file", closeErr)
	case written > s.maxSize:
		_ = os.Remove(target)
		return nil, domain.Invalidf("file exceeds %d bytes", s.maxSize)
	case written == 0:
		_ = os.Remove(target)
		return nil, domain.Invalidf("file is empty")
	}

	url := path.Join(s.publicPath, sub, name)
	s.logger.Info("upload stored", zap.String("tag", string(tag)), zap.String("url", url), zap.Int64("size", written))
	return &Result{URL: url, FileName: name, Size: written}, nil
}
