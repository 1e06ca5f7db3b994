package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/budget"
	"github.com/sells-group/outreach-cli/internal/engine"
	"github.com/sells-group/outreach-cli/internal/loader"
	"github.com/sells-group/outreach-cli/internal/mail"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/report"
	"github.com/sells-group/outreach-cli/internal/resolver"
	"github.com/sells-group/outreach-cli/internal/source"
	"github.com/sells-group/outreach-cli/pkg/jina"
	"github.com/sells-group/outreach-cli/pkg/tavily"
)

var (
	runInput       string
	runLimit       int
	runConcurrency int
	runTiersFile   string
	runDryRun      bool
	runOffline     bool
	runNoSend      bool
	runOutputDir   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve contacts for a target list",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate(); err != nil {
			return err
		}

		targets, err := loader.Load(runInput)
		if err != nil {
			return eris.Wrap(err, "load targets")
		}
		if len(targets) == 0 {
			zap.L().Warn("no targets in input", zap.String("input", runInput))
		}

		if runDryRun {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(targets)
		}

		order := cfg.Engine.TierOrder()
		if runTiersFile != "" {
			order, err = source.LoadTierOrder(runTiersFile)
			if err != nil {
				return err
			}
		}

		limit := cfg.Engine.MaxQueries
		if runLimit > 0 {
			limit = runLimit
		}
		concurrency := cfg.Engine.Concurrency
		if runConcurrency > 0 {
			concurrency = runConcurrency
		}

		guard := budget.NewGuard(limit)

		search, reader := buildClients()
		registry, err := source.Build(order, search, reader, guard, cfg.Engine.Timeout())
		if err != nil {
			return err
		}

		outreach, err := buildOutreacher()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.CreateRun(ctx, len(targets))
		if err != nil {
			return eris.Wrap(err, "create run")
		}
		if err := st.UpdateRunStatus(ctx, run.ID, model.RunStatusResolving); err != nil {
			return eris.Wrap(err, "mark run resolving")
		}

		zap.L().Info("run started",
			zap.String("run_id", run.ID),
			zap.Int("targets", len(targets)),
			zap.Int("query_limit", limit),
			zap.Int("concurrency", concurrency),
			zap.Bool("offline", runOffline),
		)

		controller := resolver.New(registry, order, cfg.Engine.Goal(), guard)
		eng := engine.New(controller, guard, concurrency, outreach)

		result := eng.Run(ctx, targets)

		if err := st.CompleteRun(ctx, run.ID, result); err != nil {
			return eris.Wrap(err, "persist run result")
		}

		outputDir := cfg.Report.OutputDir
		if runOutputDir != "" {
			outputDir = runOutputDir
		}
		paths, err := report.NewWriter(outputDir).Write(result)
		if err != nil {
			_ = st.FailRun(ctx, run.ID, err)
			return eris.Wrap(err, "write reports")
		}
		for _, p := range paths {
			zap.L().Info("report written", zap.String("path", p))
		}

		zap.L().Info("run complete",
			zap.String("run_id", run.ID),
			zap.Int("goal_met", result.GoalMetCount()),
			zap.Int("queries_used", result.QueriesUsed),
			zap.Int("emails_sent", len(result.EmailLog)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runSummary(run.ID, result, paths))
	},
}

// buildClients returns the search and reader clients, stubbed when
// running offline.
func buildClients() (tavily.Client, jina.Client) {
	if runOffline {
		return &source.StubSearchClient{}, &source.StubReaderClient{}
	}
	search := tavily.NewClient(cfg.Tavily.Key,
		tavily.WithBaseURL(cfg.Tavily.BaseURL),
		tavily.WithRateLimit(cfg.Tavily.RatePerSec),
	)
	reader := jina.NewClient(cfg.Jina.Key, jina.WithBaseURL(cfg.Jina.BaseURL))
	return search, reader
}

// buildOutreacher picks the outreach sender for this run. Missing mail
// credentials disable outreach with a warning, never a run failure.
func buildOutreacher() (engine.Outreacher, error) {
	if runNoSend {
		return nil, nil
	}
	if runOffline {
		return &mail.NopSender{}, nil
	}

	mailCfg := mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Sender:   cfg.Mail.Sender,
		Password: cfg.Mail.Password,
		Subject:  cfg.Mail.SubjectTemplate,
		Body:     cfg.Mail.BodyTemplate,
	}
	if !mailCfg.Enabled() {
		zap.L().Warn("mail credentials not configured, outreach disabled")
		return nil, nil
	}
	return mail.NewSender(mailCfg)
}

// summary is the compact run result printed to stdout.
type summary struct {
	RunID       string   `json:"run_id"`
	Targets     int      `json:"targets"`
	GoalMet     int      `json:"goal_met"`
	QueriesUsed int      `json:"queries_used"`
	QueryLimit  int      `json:"query_limit"`
	EmailsSent  int      `json:"emails_sent"`
	Reports     []string `json:"reports"`
}

func runSummary(runID string, r *model.RunReport, paths []string) summary {
	return summary{
		RunID:       runID,
		Targets:     len(r.Profiles),
		GoalMet:     r.GoalMetCount(),
		QueriesUsed: r.QueriesUsed,
		QueryLimit:  r.QueryLimit,
		EmailsSent:  len(r.EmailLog),
		Reports:     paths,
	}
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "target list (.xlsx or .csv, required)")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "query budget override (default from config)")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "worker count override (default from config)")
	runCmd.Flags().StringVar(&runTiersFile, "tiers", "", "YAML file overriding the tier order")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "parse and print targets without querying")
	runCmd.Flags().BoolVar(&runOffline, "offline", false, "use stub clients, no keys needed")
	runCmd.Flags().BoolVar(&runNoSend, "no-send", false, "disable outreach email")
	runCmd.Flags().StringVar(&runOutputDir, "output-dir", "", "report directory override (default from config)")
	_ = runCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(runCmd)
}
