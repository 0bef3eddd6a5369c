package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/linesmerrill/wildlife-watch-api/config"
	"github.com/linesmerrill/wildlife-watch-api/models"
	templates "github.com/linesmerrill/wildlife-watch-api/templates/html"
)

// DigestWindow is how far back each digest looks
const DigestWindow = 24 * time.Hour

// DigestStore counts sightings per category
type DigestStore interface {
	SummarizeSince(ctx context.Context, since time.Time) (map[models.Category]int64, error)
}

// Mailer delivers one email
type Mailer interface {
	Send(ctx context.Context, toEmail, subject, htmlContent, plainText string) error
}

// SendgridMailer sends email through the SendGrid v3 API
type SendgridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendgridMailer creates a mailer for apiKey
func NewSendgridMailer(apiKey string) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Wildlife Watch", "no-reply@wildlife-watch.app"),
	}
}

// Send delivers a single html email with a plain text alternative
func (m *SendgridMailer) Send(ctx context.Context, toEmail, subject, htmlContent, plainText string) error {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", toEmail), plainText, htmlContent)
	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// Scheduler runs the periodic sightings digest
type Scheduler struct {
	cron    *cron.Cron
	store   DigestStore
	mailer  Mailer
	spec    string
	to      string
	baseURL string
	now     func() time.Time
}

// NewScheduler creates a scheduler for the digest described by conf. A nil
// mailer disables the digest.
func NewScheduler(store DigestStore, mailer Mailer, conf *config.Config) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		store:   store,
		mailer:  mailer,
		spec:    conf.DigestCron,
		to:      conf.DigestEmail,
		baseURL: conf.BaseURL,
		now:     time.Now,
	}
}

// Start registers the digest job and starts the cron loop
func (s *Scheduler) Start() error {
	if s.mailer == nil || s.to == "" {
		zap.S().Infow("sightings digest disabled", "reason", "email is not configured")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.runDigest); err != nil {
		return fmt.Errorf("failed to register digest job %q: %w", s.spec, err)
	}
	s.cron.Start()
	zap.S().Infow("sightings digest scheduled", "cron", s.spec, "to", s.to)
	return nil
}

// Stop waits for a running job and stops the cron loop
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("scheduler stopped")
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.SendDigest(ctx); err != nil {
		zap.S().Errorw("failed to send sightings digest", "error", err)
	}
}

// SendDigest mails the per-category counts for the last DigestWindow
func (s *Scheduler) SendDigest(ctx context.Context) error {
	until := s.now()
	since := until.Add(-DigestWindow)

	counts, err := s.store.SummarizeSince(ctx, since)
	if err != nil {
		return fmt.Errorf("summarize reports: %w", err)
	}

	htmlContent, plainText := templates.RenderDigestEmail(counts, since, until, s.baseURL)
	if err := s.mailer.Send(ctx, s.to, templates.DigestSubject(until), htmlContent, plainText); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	zap.S().Infow("sent sightings digest", "to", s.to, "categories", len(counts))
	return nil
}
