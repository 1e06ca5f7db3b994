// Package mail sends outreach emails for completed contact profiles.
// The engine only sees the Outreacher contract; whether SMTP delivery
// ultimately succeeded is reflected solely in the returned log record.
package mail

import (
	"bytes"
	"context"
	"text/template"
	"time"

	"github.com/rotisserie/eris"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

const defaultBody = `Hi {{.Name}},

I hope this message finds you well.

I found your contact information online and wanted to reach out regarding a potential collaboration.

Best regards,
{{.Sender}}`

// Config holds SMTP settings for the outreach sender.
type Config struct {
	Host     string
	Port     int
	Sender   string
	Password string
	Subject  string // template, {{.Name}} is the recipient name
	Body     string // template; empty uses the default body
}

// Enabled reports whether credentials are present. A disabled config
// means outreach is skipped with a warning, never a run failure.
func (c Config) Enabled() bool {
	return c.Host != "" && c.Sender != "" && c.Password != ""
}

// Sender delivers outreach emails over SMTP.
type Sender struct {
	cfg     Config
	subject *template.Template
	body    *template.Template
	now     func() time.Time
}

// NewSender creates an SMTP outreach sender from config.
func NewSender(cfg Config) (*Sender, error) {
	if cfg.Subject == "" {
		cfg.Subject = "A quick question, {{.Name}}"
	}
	if cfg.Body == "" {
		cfg.Body = defaultBody
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}

	subj, err := template.New("subject").Parse(cfg.Subject)
	if err != nil {
		return nil, eris.Wrap(err, "mail: parse subject template")
	}
	body, err := template.New("body").Parse(cfg.Body)
	if err != nil {
		return nil, eris.Wrap(err, "mail: parse body template")
	}

	return &Sender{cfg: cfg, subject: subj, body: body, now: time.Now}, nil
}

// Send delivers one outreach email to the profile's resolved address
// and returns the log record for the run report.
func (s *Sender) Send(ctx context.Context, profile model.ContactProfile) (*model.OutreachRecord, error) {
	subject, body, err := s.render(profile)
	if err != nil {
		return nil, err
	}

	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.Sender); err != nil {
		return nil, eris.Wrap(err, "mail: set sender")
	}
	if err := msg.To(profile.Email); err != nil {
		return nil, eris.Wrap(err, "mail: set recipient")
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Sender),
		gomail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return nil, eris.Wrap(err, "mail: create smtp client")
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return nil, eris.Wrapf(err, "mail: send to %s", profile.Email)
	}

	src, _ := profile.SourceFor(model.FieldEmail)
	zap.L().Info("mail: outreach sent",
		zap.String("name", profile.Target.Name),
		zap.String("email", profile.Email),
		zap.String("source", string(src)),
	)

	return &model.OutreachRecord{
		Timestamp: s.now().UTC(),
		Name:      profile.Target.Name,
		Email:     profile.Email,
		Source:    src,
	}, nil
}

// render fills the subject and body templates for one profile.
func (s *Sender) render(profile model.ContactProfile) (string, string, error) {
	data := struct {
		Name   string
		Sender string
	}{
		Name:   profile.Target.Name,
		Sender: s.cfg.Sender,
	}

	var subj bytes.Buffer
	if err := s.subject.Execute(&subj, data); err != nil {
		return "", "", eris.Wrap(err, "mail: render subject")
	}
	var body bytes.Buffer
	if err := s.body.Execute(&body, data); err != nil {
		return "", "", eris.Wrap(err, "mail: render body")
	}
	return subj.String(), body.String(), nil
}

// NopSender logs would-be outreach without touching SMTP. Used for
// offline runs.
type NopSender struct {
	Now func() time.Time
}

func (n *NopSender) Send(_ context.Context, profile model.ContactProfile) (*model.OutreachRecord, error) {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	src, _ := profile.SourceFor(model.FieldEmail)
	zap.L().Info("mail: outreach skipped (offline)",
		zap.String("name", profile.Target.Name),
		zap.String("email", profile.Email),
	)
	return &model.OutreachRecord{
		Timestamp: now().UTC(),
		Name:      profile.Target.Name,
		Email:     profile.Email,
		Source:    src,
	}, nil
}
