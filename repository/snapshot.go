package repository

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

// Location identifies one stored snapshot.
type Location struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size"`
}

// SnapshotProvider is the persistence backend behind the document store.
// Snapshots are write-once: Write must fail with domain.ErrSnapshotExists
// instead of overwriting an existing name.
type SnapshotProvider interface {
	Write(ctx context.Context, name string, body []byte) (Location, error)
	Read(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]Location, error)
	Delete(ctx context.Context, name string) error
	Ping(ctx context.Context) error
}

// Mirror keeps the last successfully persisted or loaded document locally so
// reads survive a provider outage.
type Mirror interface {
	Put(version string, body []byte) error
	Get() (version string, body []byte, ok bool, err error)
}

const snapshotExt = ".json"

// SnapshotName builds "{namespace}/{entity}-{unix millis}.json".
func SnapshotName(namespace, entity string, ts time.Time) string {
	return fmt.Sprintf("%s/%s-%d%s", strings.Trim(namespace, "/"), entity, ts.UnixMilli(), snapshotExt)
}

// SnapshotPrefix is the List prefix covering every snapshot of namespace.
func SnapshotPrefix(namespace string) string {
	return strings.Trim(namespace, "/") + "/"
}

// ParseSnapshotTimestamp extracts the millisecond timestamp embedded in a
// snapshot name.
func ParseSnapshotTimestamp(name string) (time.Time, bool) {
	base := path.Base(name)
	if !strings.HasSuffix(base, snapshotExt) {
		return time.Time{}, false
	}
	base = strings.TrimSuffix(base, snapshotExt)
	idx := strings.LastIndexByte(base, '-')
	if idx < 0 || idx == len(base)-1 {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(base[idx+1:], 10, 64)
	if err != nil || ms < 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}

// IsSnapshotName reports whether name follows the snapshot naming scheme.
func IsSnapshotName(name string) bool {
	_, ok := ParseSnapshotTimestamp(name)
	return ok
}

// NewLocation fills Timestamp from the name.
func NewLocation(name string, size int64) Location {
	ts, _ := ParseSnapshotTimestamp(name)
	return Location{Name: name, Timestamp: ts, Size: size}
}
