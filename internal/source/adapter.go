// Package source implements the tiered information-source adapters the
// resolver queries for contact fields. Each adapter performs bounded
// external queries for one target against one source, checking the
// shared budget guard before any network activity.
package source

import (
	"context"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Handle is the lookup location an adapter derived for a target: a URL
// for page-fetch tiers, a prepared query for search-only tiers. Spent
// carries the budget units Identify consumed deriving it.
type Handle struct {
	URL   string
	Query string
	Spent int
}

// Adapter queries one source tier for one target. Identify derives the
// lookup handle (and may itself consume a budget unit when it requires
// an external query); Fetch retrieves content from the handle and
// consumes a budget unit. A non-nil Outcome from Identify terminates
// the tier attempt without calling Fetch.
type Adapter interface {
	Tier() model.SourceTier
	Identify(ctx context.Context, target model.Target) (Handle, *Outcome)
	Fetch(ctx context.Context, target model.Target, h Handle) Outcome
}

// Query runs the full identify-then-fetch sequence for one tier. The
// returned outcome's Spent totals the units both phases consumed, so a
// denial after a paid identify is still visible to the caller.
func Query(ctx context.Context, a Adapter, target model.Target) Outcome {
	h, bad := a.Identify(ctx, target)
	if bad != nil {
		return *bad
	}
	out := a.Fetch(ctx, target, h)
	out.Spent += h.Spent
	return out
}
