// Package filesystem stores snapshots as files below a root directory. The
// snapshot name is the path relative to the root.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/repository"
)

type Provider struct {
	root string
}

// NewProvider creates the root directory when it does not exist yet.
func NewProvider(root string) (*Provider, error) {
	const op = "filesystem.NewProvider"
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Provider{root: root}, nil
}

// Write stores body under name without ever replacing an existing file: the
// content goes to a temporary file first and is hard-linked into place.
func (p *Provider) Write(ctx context.Context, name string, body []byte) (repository.Location, error) {
	const op = "filesystem.Provider.Write"
	if err := ctx.Err(); err != nil {
		return repository.Location{}, err
	}
	target, err := p.resolve(name)
	if err != nil {
		return repository.Location{}, err
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return repository.Location{}, unavailable(op, err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return repository.Location{}, unavailable(op, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return repository.Location{}, unavailable(op, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return repository.Location{}, unavailable(op, err)
	}
	if err := tmp.Close(); err != nil {
		return repository.Location{}, unavailable(op, err)
	}

	if err := os.Link(tmpName, target); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return repository.Location{}, domain.ErrSnapshotExists
		}
		return repository.Location{}, unavailable(op, err)
	}
	return repository.NewLocation(name, int64(len(body))), nil
}

func (p *Provider) Read(ctx context.Context, name string) ([]byte, error) {
	const op = "filesystem.Provider.Read"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := p.resolve(name)
	if err != nil {
		return nil, err
	}
	body, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, unavailable(op, err)
	}
	return body, nil
}

func (p *Provider) List(ctx context.Context, prefix string) ([]repository.Location, error) {
	const op = "filesystem.Provider.List"
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []repository.Location
	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(p.root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if !strings.HasPrefix(name, prefix) || !repository.IsSnapshotName(name) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, repository.NewLocation(name, info.Size()))
		return nil
	})
	if err != nil {
		return nil, unavailable(op, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (p *Provider) Delete(ctx context.Context, name string) error {
	const op = "filesystem.Provider.Delete"
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := p.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return unavailable(op, err)
	}
	return nil
}

func (p *Provider) Ping(ctx context.Context) error {
	const op = "filesystem.Provider.Ping"
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(p.root)
	if err != nil {
		return unavailable(op, err)
	}
	if !info.IsDir() {
		return unavailable(op, fmt.Errorf("%s is not a directory", p.root))
	}
	return nil
}

func (p *Provider) resolve(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if name == "" || filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "..") {
		return "", domain.Invalidf("invalid snapshot name %q", name)
	}
	return filepath.Join(p.root, clean), nil
}

func unavailable(op string, err error) error {
	return domain.WrapError(domain.ErrCodeUnavailable, op, err)
}

var _ repository.SnapshotProvider = (*Provider)(nil)
