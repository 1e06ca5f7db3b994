package source

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/budget"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/pkg/tavily"
)

// platformLabels maps social tiers to the human-readable platform name
// used in search queries.
var platformLabels = map[model.SourceTier]string{
	model.TierLinkedIn:  "LinkedIn",
	model.TierFacebook:  "Facebook",
	model.TierTwitter:   "Twitter",
	model.TierInstagram: "Instagram",
}

// SocialAdapter resolves one social-platform tier with a single search
// query; extraction runs over the result snippets.
type SocialAdapter struct {
	tier    model.SourceTier
	label   string
	search  tavily.Client
	guard   *budget.Guard
	timeout time.Duration
}

// NewSocialAdapter creates an adapter for one social platform tier.
func NewSocialAdapter(tier model.SourceTier, search tavily.Client, guard *budget.Guard, timeout time.Duration) *SocialAdapter {
	label, ok := platformLabels[tier]
	if !ok {
		label = string(tier)
	}
	return &SocialAdapter{tier: tier, label: label, search: search, guard: guard, timeout: timeout}
}

func (a *SocialAdapter) Tier() model.SourceTier { return a.tier }

// Identify only builds the platform query; no external call, no budget.
func (a *SocialAdapter) Identify(_ context.Context, target model.Target) (Handle, *Outcome) {
	return Handle{Query: searchQuery(target, a.label+" contact")}, nil
}

// Fetch runs the platform search, consuming one budget unit, and
// returns the concatenated result snippets.
func (a *SocialAdapter) Fetch(ctx context.Context, target model.Target, h Handle) Outcome {
	if !a.guard.TryAcquire() {
		return budgetExhausted()
	}

	sctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.search.Search(sctx, h.Query)
	if err != nil {
		zap.L().Debug("source: social search failed",
			zap.String("target", target.Name),
			zap.String("platform", a.label),
			zap.Error(err),
		)
		o := sourceError(err)
		o.Spent = 1
		return o
	}
	if len(resp.Results) == 0 {
		o := noResult()
		o.Spent = 1
		return o
	}

	var sb strings.Builder
	for _, r := range resp.Results {
		sb.WriteString(r.Title)
		sb.WriteString("\n")
		sb.WriteString(r.Content)
		sb.WriteString("\n\n")
	}
	o := success(sb.String(), resp.Results[0].URL)
	o.Spent = 1
	return o
}
