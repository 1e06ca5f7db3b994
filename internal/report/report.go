// Package report serializes a finished run into timestamped XLSX
// artifacts: the master contact list, the email-send log, and the
// platform-effectiveness summary.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Writer writes run reports into an output directory. Every artifact
// of one run shares a single filename-safe timestamp.
type Writer struct {
	outputDir string
	now       func() time.Time // injectable for testing
}

// NewWriter creates a report writer targeting the given directory.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir, now: time.Now}
}

// WithNow sets a fixed clock for testing.
func (w *Writer) WithNow(now func() time.Time) *Writer {
	w.now = now
	return w
}

// Write serializes the report and returns the paths written. The email
// log artifact is only written when sends happened.
func (w *Writer) Write(report *model.RunReport) ([]string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return nil, eris.Wrap(err, "report: create output dir")
	}

	ts := w.now().Format("2006-01-02_150405")
	var written []string

	contactsPath := filepath.Join(w.outputDir, fmt.Sprintf("output_with_contacts_%s.xlsx", ts))
	if err := w.writeContacts(report, contactsPath); err != nil {
		return written, err
	}
	written = append(written, contactsPath)

	if len(report.EmailLog) > 0 {
		logPath := filepath.Join(w.outputDir, fmt.Sprintf("emails_sent_log_%s.xlsx", ts))
		if err := w.writeEmailLog(report, logPath); err != nil {
			return written, err
		}
		written = append(written, logPath)
	}

	effPath := filepath.Join(w.outputDir, fmt.Sprintf("platform_effectiveness_report_%s.xlsx", ts))
	if err := w.writeEffectiveness(report, effPath); err != nil {
		return written, err
	}
	written = append(written, effPath)

	zap.L().Info("report: artifacts written",
		zap.Strings("paths", written),
	)
	return written, nil
}

func (w *Writer) writeContacts(report *model.RunReport, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Contacts")
	if err != nil {
		return eris.Wrap(err, "report: add contacts sheet")
	}

	addRow(sheet, "Name", "Org", "Website", "Email", "Phone", "Contact Sources", "Goal Met", "Termination")

	for _, p := range report.Profiles {
		var sources []string
		for _, pr := range p.Provenance {
			sources = append(sources, fmt.Sprintf("%s (%s)", pr.Value, pr.Tier))
		}
		sort.Strings(sources)

		addRow(sheet,
			p.Target.Name,
			p.Target.Org,
			p.Target.URL,
			p.Email,
			p.Phone,
			strings.Join(sources, "; "),
			fmt.Sprintf("%t", p.GoalMet),
			string(p.Reason),
		)
	}

	return eris.Wrap(f.Save(path), "report: save contacts")
}

func (w *Writer) writeEmailLog(report *model.RunReport, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Emails Sent")
	if err != nil {
		return eris.Wrap(err, "report: add email log sheet")
	}

	addRow(sheet, "Timestamp", "Name", "Email Sent To", "Source of Email")
	for _, rec := range report.EmailLog {
		addRow(sheet,
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.Name,
			rec.Email,
			string(rec.Source),
		)
	}

	return eris.Wrap(f.Save(path), "report: save email log")
}

func (w *Writer) writeEffectiveness(report *model.RunReport, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Effectiveness")
	if err != nil {
		return eris.Wrap(err, "report: add effectiveness sheet")
	}

	stats := make([]model.TierStats, 0, len(report.Tiers))
	for _, st := range report.Tiers {
		stats = append(stats, st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Contributed != stats[j].Contributed {
			return stats[i].Contributed > stats[j].Contributed
		}
		return stats[i].Tier < stats[j].Tier
	})

	addRow(sheet, "Platform", "Contacts Found", "Targets Attempted", "Effectiveness")
	for _, st := range stats {
		addRow(sheet,
			string(st.Tier),
			fmt.Sprintf("%d", st.Contributed),
			fmt.Sprintf("%d", st.Attempted),
			fmt.Sprintf("%.2f", st.Effectiveness()),
		)
	}

	return eris.Wrap(f.Save(path), "report: save effectiveness")
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
