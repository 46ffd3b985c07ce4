package monitor

import (
	"errors"
	"time"
)

var errNoProvider = errors.New("no snapshot provider configured")

type Status struct {
	Backend         string     `json:"backend"`
	Provider        bool       `json:"provider"`
	ProviderError   string     `json:"provider_error,omitempty"`
	Mirror          bool       `json:"mirror"`
	MirrorUpdatedAt *time.Time `json:"mirror_updated_at,omitempty"`
	LastCheck       time.Time  `json:"last_check"`
}
