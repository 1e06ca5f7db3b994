// Package resolver drives the per-target resolution state machine: it
// orders source tiers by priority, queries each through its adapter,
// merges extracted fields into the contact profile under the
// first-accepted-wins rule, and terminates the moment the goal is met
// or the budget runs out.
package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/budget"
	"github.com/sells-group/outreach-cli/internal/extract"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/source"
)

// state is the controller's position in the resolution lifecycle.
// stateComplete and stateExhausted are terminal.
type state int

const (
	statePending state = iota
	stateSearching
	stateComplete
	stateExhausted
)

// Attempt records the outcome of one tier query for reporting. A tier
// that was skipped (budget exhausted before any network activity) is
// not recorded as attempted; a tier that consumed a unit before the
// denial is recorded as a non-contributing attempt.
type Attempt struct {
	Tier        model.SourceTier
	Outcome     source.OutcomeKind
	ErrKind     source.ErrorKind
	Contributed bool
}

// Resolution is the terminal result of one target's lifecycle.
type Resolution struct {
	Profile  model.ContactProfile
	Attempts []Attempt
}

// Controller resolves contact profiles for single targets.
type Controller struct {
	registry *source.Registry
	order    []model.SourceTier
	goal     []model.FieldKind
	guard    *budget.Guard
}

// New creates a controller over the configured tier order and goal.
func New(registry *source.Registry, order []model.SourceTier, goal []model.FieldKind, guard *budget.Guard) *Controller {
	return &Controller{registry: registry, order: order, goal: goal, guard: guard}
}

// Resolve runs the state machine for one target. It always returns a
// finalized profile; partial profiles are first-class outcomes, never
// errors.
func (c *Controller) Resolve(ctx context.Context, target model.Target) Resolution {
	res := Resolution{Profile: model.ContactProfile{Target: target}}
	log := zap.L().With(zap.String("target", target.Name))

	st := statePending
	tierIdx := 0

	for {
		switch st {
		case statePending:
			st = stateSearching

		case stateSearching:
			// Global exhaustion short-circuits before any adapter call.
			if c.guard.Exhausted() {
				res.Profile.Reason = model.TermBudgetExhausted
				st = stateExhausted
				continue
			}
			if tierIdx >= len(c.order) {
				res.Profile.Reason = model.TermTiersExhausted
				st = stateComplete
				continue
			}

			tier := c.order[tierIdx]
			tierIdx++

			adapter := c.registry.Get(tier)
			if adapter == nil {
				log.Warn("resolver: no adapter registered for tier", zap.String("tier", string(tier)))
				continue
			}

			out := source.Query(ctx, adapter, target)
			if out.Kind == source.OutcomeBudgetExhausted {
				// A denial after a paid identify still issued a real
				// query; keep it visible in the tier's attempt count.
				if out.Spent > 0 {
					res.Attempts = append(res.Attempts, Attempt{Tier: tier, Outcome: out.Kind})
				}
				res.Profile.Reason = model.TermBudgetExhausted
				st = stateExhausted
				continue
			}

			attempt := Attempt{Tier: tier, Outcome: out.Kind, ErrKind: out.ErrKind}
			if out.Kind == source.OutcomeSuccess {
				attempt.Contributed = c.merge(&res.Profile, tier, out)
			}
			res.Attempts = append(res.Attempts, attempt)

			if out.Kind == source.OutcomeSourceError {
				log.Debug("resolver: tier yielded nothing",
					zap.String("tier", string(tier)),
					zap.String("error_kind", string(out.ErrKind)),
				)
			}

			if c.goalMet(&res.Profile) {
				res.Profile.Reason = model.TermGoalMet
				res.Profile.GoalMet = true
				st = stateComplete
			}

		case stateComplete, stateExhausted:
			log.Debug("resolver: target finalized",
				zap.String("reason", string(res.Profile.Reason)),
				zap.Bool("goal_met", res.Profile.GoalMet),
				zap.Int("tiers_attempted", len(res.Attempts)),
			)
			return res
		}
	}
}

// merge accepts the top-ranked extracted value for each still-unset
// field. Returns true if the tier contributed at least one field.
func (c *Controller) merge(profile *model.ContactProfile, tier model.SourceTier, out source.Outcome) bool {
	fields := extract.Extract(out.Content)
	contributed := false
	for _, kind := range []model.FieldKind{model.FieldEmail, model.FieldPhone} {
		if profile.Has(kind) {
			continue
		}
		if v := extract.TopValue(fields, kind); v != "" {
			if profile.Accept(kind, v, tier, out.SourceURL) {
				contributed = true
			}
		}
	}
	return contributed
}

// goalMet reports whether every configured goal field is set.
func (c *Controller) goalMet(profile *model.ContactProfile) bool {
	for _, f := range c.goal {
		if !profile.Has(f) {
			return false
		}
	}
	return true
}
