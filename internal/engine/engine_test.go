package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/budget"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resolver"
	"github.com/sells-group/outreach-cli/internal/source"
	"github.com/sells-group/outreach-cli/pkg/tavily"
)

// scriptedSearch returns canned content per target name.
type scriptedSearch struct {
	byQuery func(query string) []tavily.Result
}

func (s *scriptedSearch) Search(_ context.Context, query string, _ ...tavily.SearchOption) (*tavily.SearchResponse, error) {
	return &tavily.SearchResponse{Query: query, Results: s.byQuery(query)}, nil
}

// mockOutreacher records sends.
type mockOutreacher struct {
	sent []string
	err  error
}

func (m *mockOutreacher) Send(_ context.Context, p model.ContactProfile) (*model.OutreachRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, p.Email)
	src, _ := p.SourceFor(model.FieldEmail)
	return &model.OutreachRecord{
		Timestamp: time.Now().UTC(),
		Name:      p.Target.Name,
		Email:     p.Email,
		Source:    src,
	}, nil
}

func bothFields() []model.FieldKind {
	return []model.FieldKind{model.FieldEmail, model.FieldPhone}
}

// newEngine wires a social-only cascade over a scripted search client
// so every tier costs exactly one query.
func newEngine(t *testing.T, guard *budget.Guard, concurrency int, out Outreacher, results func(string) []tavily.Result) *Engine {
	t.Helper()
	order := []model.SourceTier{model.TierLinkedIn, model.TierFacebook}
	reg, err := source.Build(order, &scriptedSearch{byQuery: results}, &source.StubReaderClient{}, guard, 5*time.Second)
	require.NoError(t, err)
	ctrl := resolver.New(reg, order, bothFields(), guard)
	return New(ctrl, guard, concurrency, out)
}

func fullContact(name string) []tavily.Result {
	return []tavily.Result{{
		Title:   name,
		URL:     "https://linkedin.com/in/" + name,
		Content: fmt.Sprintf("%s@example.com and +1 415 555 0132", name),
	}}
}

func TestRun_PreservesInputOrder(t *testing.T) {
	guard := budget.NewGuard(100)
	eng := newEngine(t, guard, 4, nil, func(q string) []tavily.Result {
		// Every target resolves on the first tier.
		return fullContact("person")
	})

	targets := make([]model.Target, 8)
	for i := range targets {
		targets[i] = model.Target{Name: fmt.Sprintf("target-%d", i)}
	}

	report := eng.Run(context.Background(), targets)
	require.Len(t, report.Profiles, 8)
	for i, p := range report.Profiles {
		assert.Equal(t, fmt.Sprintf("target-%d", i), p.Target.Name)
		assert.True(t, p.GoalMet)
	}
}

func TestRun_BudgetNeverExceededUnderConcurrency(t *testing.T) {
	const limit = 5
	guard := budget.NewGuard(limit)
	eng := newEngine(t, guard, 8, nil, func(q string) []tavily.Result {
		return nil // nothing found: every target walks all tiers
	})

	targets := make([]model.Target, 20)
	for i := range targets {
		targets[i] = model.Target{Name: fmt.Sprintf("t%d", i)}
	}

	report := eng.Run(context.Background(), targets)

	assert.Equal(t, limit, report.QueriesUsed)
	assert.LessOrEqual(t, report.QueriesUsed, limit)

	// Every target still gets a finalized profile.
	require.Len(t, report.Profiles, 20)
	exhausted := 0
	for _, p := range report.Profiles {
		require.NotEmpty(t, p.Reason)
		if p.Reason == model.TermBudgetExhausted {
			exhausted++
		}
	}
	assert.Positive(t, exhausted)
}

func TestRun_TierEffectiveness(t *testing.T) {
	guard := budget.NewGuard(100)
	// First tier misses, second tier resolves.
	eng := newEngine(t, guard, 1, nil, func(q string) []tavily.Result {
		if strings.HasSuffix(q, "LinkedIn contact") {
			return nil
		}
		return fullContact("jane")
	})

	report := eng.Run(context.Background(), []model.Target{{Name: "Jane"}, {Name: "Kim"}})

	li := report.Tiers[model.TierLinkedIn]
	fb := report.Tiers[model.TierFacebook]
	assert.Equal(t, 2, li.Attempted)
	assert.Zero(t, li.Contributed)
	assert.Zero(t, li.Effectiveness())
	assert.Equal(t, 2, fb.Attempted)
	assert.Equal(t, 2, fb.Contributed)
	assert.InDelta(t, 1.0, fb.Effectiveness(), 1e-9)
}

func TestRun_OutreachDispatchedForGoalMetProfiles(t *testing.T) {
	guard := budget.NewGuard(100)
	out := &mockOutreacher{}
	eng := newEngine(t, guard, 2, out, func(q string) []tavily.Result {
		return fullContact("jane")
	})

	report := eng.Run(context.Background(), []model.Target{{Name: "Jane"}, {Name: "Kim"}})

	assert.Len(t, out.sent, 2)
	require.Len(t, report.EmailLog, 2)
	assert.Equal(t, "jane@example.com", report.EmailLog[0].Email)
	assert.Equal(t, model.TierLinkedIn, report.EmailLog[0].Source)
}

func TestRun_OutreachFailureDoesNotAbortRun(t *testing.T) {
	guard := budget.NewGuard(100)
	out := &mockOutreacher{err: errors.New("smtp down")}
	eng := newEngine(t, guard, 1, out, func(q string) []tavily.Result {
		return fullContact("jane")
	})

	report := eng.Run(context.Background(), []model.Target{{Name: "Jane"}})
	assert.Empty(t, report.EmailLog)
	require.Len(t, report.Profiles, 1)
	assert.True(t, report.Profiles[0].GoalMet)
}

func TestRun_NilOutreacherSkipsDispatch(t *testing.T) {
	guard := budget.NewGuard(100)
	eng := newEngine(t, guard, 1, nil, func(q string) []tavily.Result {
		return fullContact("jane")
	})

	report := eng.Run(context.Background(), []model.Target{{Name: "Jane"}})
	assert.Empty(t, report.EmailLog)
}

func TestRun_EmptyTargetList(t *testing.T) {
	guard := budget.NewGuard(10)
	eng := newEngine(t, guard, 1, nil, func(q string) []tavily.Result { return nil })

	report := eng.Run(context.Background(), nil)
	assert.Empty(t, report.Profiles)
	assert.Zero(t, report.QueriesUsed)
}
