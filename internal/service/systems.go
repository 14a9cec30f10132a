package service

import (
	"context"
	"strings"
)

// DefaultSystems is used when no system list is configured.
var DefaultSystems = []string{"System A", "System B", "System C"}

// SystemCatalog is the fixed, ordered list of systems labels are issued for.
type SystemCatalog struct {
	systems []string
}

// NewSystemCatalog trims and de-duplicates systems, keeping their order.
// An empty list falls back to DefaultSystems.
func NewSystemCatalog(systems []string) *SystemCatalog {
	seen := make(map[string]struct{}, len(systems))
	out := make([]string, 0, len(systems))
	for _, s := range systems {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		out = append(out, DefaultSystems...)
	}
	return &SystemCatalog{systems: out}
}

// ListSystems returns a copy of the catalog.
func (c *SystemCatalog) ListSystems(context.Context) ([]string, error) {
	return append([]string(nil), c.systems...), nil
}

// Contains reports whether system is in the catalog.
func (c *SystemCatalog) Contains(system string) bool {
	for _, s := range c.systems {
		if s == system {
			return true
		}
	}
	return false
}
