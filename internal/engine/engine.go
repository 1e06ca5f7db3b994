// Package engine orchestrates a discovery run: it fans targets out
// over a bounded worker pool, aggregates per-tier effectiveness, and
// dispatches outreach for completed profiles.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/outreach-cli/internal/budget"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resolver"
)

// Outreacher sends one outreach email for a completed profile and
// reports an opaque log record back. Implementations live outside the
// engine; the engine does not know whether SMTP ultimately succeeded
// beyond the returned record.
type Outreacher interface {
	Send(ctx context.Context, profile model.ContactProfile) (*model.OutreachRecord, error)
}

// Engine runs the full resolution pass over a target list.
type Engine struct {
	controller  *resolver.Controller
	guard       *budget.Guard
	concurrency int
	outreach    Outreacher // nil disables outreach
}

// New creates an engine. A nil outreacher disables outreach dispatch.
func New(controller *resolver.Controller, guard *budget.Guard, concurrency int, outreach Outreacher) *Engine {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{
		controller:  controller,
		guard:       guard,
		concurrency: concurrency,
		outreach:    outreach,
	}
}

// Run resolves every target and returns the aggregated report. The
// report's profile list preserves input order regardless of completion
// order; per-target failures degrade to partial profiles, never abort
// the run.
func (e *Engine) Run(ctx context.Context, targets []model.Target) *model.RunReport {
	report := &model.RunReport{
		Profiles:   make([]model.ContactProfile, len(targets)),
		Tiers:      make(map[model.SourceTier]model.TierStats),
		QueryLimit: e.guard.Limit(),
		StartedAt:  time.Now().UTC(),
	}

	var mu sync.Mutex // guards report.Tiers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			// Cooperative short-circuit: once the budget is gone,
			// not-yet-started targets finalize without any queries.
			if e.guard.Exhausted() {
				report.Profiles[i] = model.ContactProfile{
					Target: target,
					Reason: model.TermBudgetExhausted,
				}
				return nil
			}

			res := e.controller.Resolve(gctx, target)
			report.Profiles[i] = res.Profile

			mu.Lock()
			for _, a := range res.Attempts {
				st := report.Tiers[a.Tier]
				st.Tier = a.Tier
				st.Attempted++
				if a.Contributed {
					st.Contributed++
				}
				report.Tiers[a.Tier] = st
			}
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	e.dispatchOutreach(ctx, report)

	report.QueriesUsed = e.guard.Used()
	report.FinishedAt = time.Now().UTC()

	zap.L().Info("engine: run complete",
		zap.Int("targets", len(targets)),
		zap.Int("goal_met", report.GoalMetCount()),
		zap.Int("queries_used", report.QueriesUsed),
		zap.Int("query_limit", report.QueryLimit),
		zap.Int("emails_sent", len(report.EmailLog)),
	)

	return report
}

// dispatchOutreach sends one email per goal-met profile with an email
// address, in input order. Send failures are logged and skipped.
func (e *Engine) dispatchOutreach(ctx context.Context, report *model.RunReport) {
	if e.outreach == nil {
		return
	}

	for _, p := range report.Profiles {
		if !p.GoalMet || p.Email == "" {
			continue
		}
		rec, err := e.outreach.Send(ctx, p)
		if err != nil {
			zap.L().Warn("engine: outreach send failed",
				zap.String("target", p.Target.Name),
				zap.String("email", p.Email),
				zap.Error(err),
			)
			continue
		}
		if rec != nil {
			report.EmailLog = append(report.EmailLog, *rec)
		}
	}
}
