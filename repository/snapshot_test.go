package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotName(t *testing.T) {
	ts := time.UnixMilli(1717171717171)
	name := SnapshotName("/site-data/", "data", ts)
	assert.Equal(t, "site-data/data-1717171717171.json", name)

	parsed, ok := ParseSnapshotTimestamp(name)
	assert.True(t, ok)
	assert.True(t, parsed.Equal(ts))
	assert.Equal(t, "site-data/", SnapshotPrefix("site-data"))
}

func TestParseSnapshotTimestampRejectsForeignNames(t *testing.T) {
	for _, name := range []string{
		"site-data/readme.txt",
		"site-data/data.json",
		"site-data/data-.json",
		"site-data/data-abc.json",
	} {
		_, ok := ParseSnapshotTimestamp(name)
		assert.False(t, ok, name)
	}
}
