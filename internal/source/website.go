package source

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/budget"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/pkg/jina"
	"github.com/sells-group/outreach-cli/pkg/tavily"
)

// WebsiteAdapter resolves the official-website tier: it searches for
// the target's site (unless a URL is already known), then fetches the
// page content for extraction.
type WebsiteAdapter struct {
	search  tavily.Client
	reader  jina.Client
	guard   *budget.Guard
	timeout time.Duration
}

// NewWebsiteAdapter creates the official-website adapter.
func NewWebsiteAdapter(search tavily.Client, reader jina.Client, guard *budget.Guard, timeout time.Duration) *WebsiteAdapter {
	return &WebsiteAdapter{search: search, reader: reader, guard: guard, timeout: timeout}
}

func (a *WebsiteAdapter) Tier() model.SourceTier { return model.TierOfficialWebsite }

// Identify returns the known URL when the target carries one (no query
// consumed), otherwise searches for the official site, consuming one
// budget unit.
func (a *WebsiteAdapter) Identify(ctx context.Context, target model.Target) (Handle, *Outcome) {
	if u := strings.TrimSpace(target.URL); u != "" {
		return Handle{URL: u}, nil
	}

	if !a.guard.TryAcquire() {
		o := budgetExhausted()
		return Handle{}, &o
	}

	query := searchQuery(target, "official website")
	sctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.search.Search(sctx, query, tavily.WithMaxResults(3))
	if err != nil {
		zap.L().Debug("source: website search failed",
			zap.String("target", target.Name),
			zap.Error(err),
		)
		o := sourceError(err)
		o.Spent = 1
		return Handle{}, &o
	}
	if len(resp.Results) == 0 {
		o := noResult()
		o.Spent = 1
		return Handle{}, &o
	}

	return Handle{URL: resp.Results[0].URL, Spent: 1}, nil
}

// Fetch retrieves the page content for extraction, consuming one
// budget unit.
func (a *WebsiteAdapter) Fetch(ctx context.Context, target model.Target, h Handle) Outcome {
	if !a.guard.TryAcquire() {
		return budgetExhausted()
	}

	fctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.reader.Read(fctx, h.URL)
	if err != nil {
		zap.L().Debug("source: website fetch failed",
			zap.String("target", target.Name),
			zap.String("url", h.URL),
			zap.Error(err),
		)
		o := sourceError(err)
		o.Spent = 1
		return o
	}

	content := strings.TrimSpace(resp.Data.Content)
	if content == "" {
		o := noResult()
		o.Spent = 1
		return o
	}
	o := success(content, h.URL)
	o.Spent = 1
	return o
}

// searchQuery builds the provider query string for a target.
func searchQuery(target model.Target, suffix string) string {
	parts := []string{target.Name}
	if target.Org != "" {
		parts = append(parts, target.Org)
	}
	parts = append(parts, suffix)
	return strings.Join(parts, " ")
}
