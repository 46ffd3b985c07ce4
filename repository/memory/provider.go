// Package memory implements an in-process snapshot provider. Data is lost on
// restart; it backs tests and throwaway environments.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/repository"
)

type Provider struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

func NewProvider() *Provider {
	return &Provider{snapshots: make(map[string][]byte)}
}

func (p *Provider) Write(ctx context.Context, name string, body []byte) (repository.Location, error) {
	if err := ctx.Err(); err != nil {
		return repository.Location{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.snapshots[name]; exists {
		return repository.Location{}, domain.ErrSnapshotExists
	}
	p.snapshots[name] = append([]byte(nil), body...)
	return repository.NewLocation(name, int64(len(body))), nil
}

func (p *Provider) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	body, ok := p.snapshots[name]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return append([]byte(nil), body...), nil
}

func (p *Provider) List(ctx context.Context, prefix string) ([]repository.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []repository.Location
	for name, body := range p.snapshots {
		if strings.HasPrefix(name, prefix) && repository.IsSnapshotName(name) {
			out = append(out, repository.NewLocation(name, int64(len(body))))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (p *Provider) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.snapshots, name)
	return nil
}

func (p *Provider) Ping(ctx context.Context) error {
	return ctx.Err()
}

var _ repository.SnapshotProvider = (*Provider)(nil)
