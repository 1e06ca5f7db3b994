package source

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/budget"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/pkg/jina"
	"github.com/sells-group/outreach-cli/pkg/tavily"
)

// Registry maps source tiers to their adapter implementations. It is
// resolved once at run configuration time.
type Registry struct {
	adapters map[model.SourceTier]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[model.SourceTier]Adapter)}
}

// Register adds an adapter under its tier.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Tier()] = a
}

// Get returns the adapter for a tier, or nil if none is registered.
func (r *Registry) Get(tier model.SourceTier) Adapter {
	return r.adapters[tier]
}

// Build constructs a registry covering every tier in order, wiring the
// website tier to search+reader and each social tier to search only.
// Returns an error for a tier with no known adapter so misconfigured
// tier orders fail before any target is processed.
func Build(order []model.SourceTier, search tavily.Client, reader jina.Client, guard *budget.Guard, timeout time.Duration) (*Registry, error) {
	r := NewRegistry()
	for _, tier := range order {
		switch {
		case tier == model.TierOfficialWebsite:
			r.Register(NewWebsiteAdapter(search, reader, guard, timeout))
		case platformLabels[tier] != "":
			r.Register(NewSocialAdapter(tier, search, guard, timeout))
		default:
			return nil, eris.Errorf("source: no adapter for tier %q", tier)
		}
	}
	return r, nil
}
