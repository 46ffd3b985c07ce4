package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/repository"
)

const scanBatch = 200

type snapshotRepository struct {
	client *redislib.Client
	prefix string
}

// NewSnapshotProvider stores every snapshot as a plain string key
// "<keyPrefix><snapshot name>". Keys never expire.
func NewSnapshotProvider(client *redislib.Client, keyPrefix string) repository.SnapshotProvider {
	if keyPrefix == "" {
		keyPrefix = "storefront:"
	}
	return &snapshotRepository{
		client: client,
		prefix: keyPrefix,
	}
}

func (r *snapshotRepository) Write(ctx context.Context, name string, body []byte) (repository.Location, error) {
	const op = "redis.SnapshotProvider.Write"
	created, err := r.client.SetNX(ctx, r.key(name), body, 0).Result()
	if err != nil {
		return repository.Location{}, classify(op, err)
	}
	if !created {
		return repository.Location{}, domain.ErrSnapshotExists
	}
	return repository.NewLocation(name, int64(len(body))), nil
}

func (r *snapshotRepository) Read(ctx context.Context, name string) ([]byte, error) {
	const op = "redis.SnapshotProvider.Read"
	body, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, classify(op, err)
	}
	return body, nil
}

func (r *snapshotRepository) List(ctx context.Context, prefix string) ([]repository.Location, error) {
	const op = "redis.SnapshotProvider.List"

	var keys []string
	iter := r.client.Scan(ctx, 0, escapeGlob(r.key(prefix))+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, classify(op, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	pipe := r.client.Pipeline()
	sizes := make([]*redislib.IntCmd, len(keys))
	for i, key := range keys {
		sizes[i] = pipe.StrLen(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, classify(op, err)
	}

	out := make([]repository.Location, 0, len(keys))
	for i, key := range keys {
		name := strings.TrimPrefix(key, r.prefix)
		if !repository.IsSnapshotName(name) {
			continue
		}
		out = append(out, repository.NewLocation(name, sizes[i].Val()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *snapshotRepository) Delete(ctx context.Context, name string) error {
	const op = "redis.SnapshotProvider.Delete"
	if err := r.client.Del(ctx, r.key(name)).Err(); err != nil {
		return classify(op, err)
	}
	return nil
}

func (r *snapshotRepository) Ping(ctx context.Context) error {
	const op = "redis.SnapshotProvider.Ping"
	if err := r.client.Ping(ctx).Err(); err != nil {
		return classify(op, err)
	}
	return nil
}

func (r *snapshotRepository) key(name string) string {
	return fmt.Sprintf("%s%s", r.prefix, name)
}

func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.WrapError(domain.ErrCodeTimeout, op, err)
	}
	return domain.WrapError(domain.ErrCodeUnavailable, op, err)
}

var globReplacer = strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`, `\`, `\\`)

func escapeGlob(s string) string {
	return globReplacer.Replace(s)
}
