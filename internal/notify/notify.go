// Package notify sends the transactional emails of a page's lifecycle.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"
	"keepsake-backend/internal/models"
)

// Mailer is what services depend on. Implementations must be safe for
// concurrent use.
type Mailer interface {
	// SendReveal tells the recipient their keepsake is ready at link.
	SendReveal(ctx context.Context, to string, page models.Page, link string) error
	// SendReplyNotice tells a contributor the recipient answered them.
	SendReplyNotice(ctx context.Context, to string, page models.Page, contribution models.Contribution, link string) error
}

type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type resendMailer struct {
	emails emailSender
	from   string
	brand  string
	logger *zap.Logger
}

// NewMailer returns a Resend backed mailer, or a no-op mailer when apiKey is
// empty.
func NewMailer(apiKey, from, brand string, logger *zap.Logger) Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if apiKey == "" {
		logger.Info("email disabled, no resend api key configured")
		return Noop{}
	}
	return &resendMailer{
		emails: resend.NewClient(apiKey).Emails,
		from:   from,
		brand:  brand,
		logger: logger,
	}
}

var revealTemplate = template.Must(template.New("reveal").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#fdf8f0;font-family:Georgia,serif;">
  <table width="100%" cellpadding="0" cellspacing="0" style="padding:40px 0;">
    <tr><td align="center">
      <table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:12px;padding:40px;">
        <tr><td>
          <h1 style="color:#332b28;font-size:24px;margin:0 0 8px 0;">{{.Occasion}}, {{.Recipient}}!</h1>
          <p style="color:#807068;font-size:15px;line-height:1.6;margin:0 0 24px 0;">
            {{if .Creator}}{{.Creator}} and friends{{else}}Your friends{{end}} put together a keepsake just for you.
          </p>
          <a href="{{.Link}}" style="background-color:#d65c5c;border-radius:6px;padding:12px 32px;color:#ffffff;text-decoration:none;font-size:15px;">Open your keepsake</a>
          <p style="color:#807068;font-size:12px;margin:24px 0 0 0;">Sent with love by {{.Brand}}</p>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

var replyTemplate = template.Must(template.New("reply").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#fdf8f0;font-family:Georgia,serif;">
  <table width="100%" cellpadding="0" cellspacing="0" style="padding:40px 0;">
    <tr><td align="center">
      <table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:12px;padding:40px;">
        <tr><td>
          <h1 style="color:#332b28;font-size:22px;margin:0 0 16px 0;">{{.Recipient}} replied to your message</h1>
          <p style="color:#332b28;font-size:15px;line-height:1.6;margin:0 0 16px 0;white-space:pre-wrap;">{{.Reply}}</p>
          <a href="{{.Link}}" style="color:#d65c5c;font-size:14px;">See the keepsake</a>
          <p style="color:#807068;font-size:12px;margin:24px 0 0 0;">Sent by {{.Brand}}</p>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

type emailData struct {
	Brand     string
	Recipient string
	Occasion  string
	Creator   string
	Reply     string
	Link      string
}

func render(t *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// RevealEmail returns the subject and body of the reveal email.
func RevealEmail(brand string, page models.Page, link string) (string, string, error) {
	body, err := render(revealTemplate, emailData{
		Brand:     brand,
		Recipient: page.RecipientName,
		Occasion:  page.TemplateType.Label(),
		Creator:   page.CreatorName.String,
		Link:      link,
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("A keepsake for you, %s", page.RecipientName), body, nil
}

// ReplyEmail returns the subject and body of the reply notice.
func ReplyEmail(brand string, page models.Page, contribution models.Contribution, link string) (string, string, error) {
	body, err := render(replyTemplate, emailData{
		Brand:     brand,
		Recipient: page.RecipientName,
		Reply:     contribution.RecipientReply.String,
		Link:      link,
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("%s replied to your message", page.RecipientName), body, nil
}

func (m *resendMailer) send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	sent, err := m.emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	m.logger.Info("email sent", zap.String("subject", subject), zap.String("id", sent.Id))
	return nil
}

func (m *resendMailer) SendReveal(ctx context.Context, to string, page models.Page, link string) error {
	subject, html, err := RevealEmail(m.brand, page, link)
	if err != nil {
		return err
	}
	return m.send(ctx, to, subject, html)
}

func (m *resendMailer) SendReplyNotice(ctx context.Context, to string, page models.Page, contribution models.Contribution, link string) error {
	subject, html, err := ReplyEmail(m.brand, page, contribution, link)
	if err != nil {
		return err
	}
	return m.send(ctx, to, subject, html)
}

// Noop drops every email.
type Noop struct{}

func (Noop) SendReveal(context.Context, string, models.Page, string) error { return nil }

func (Noop) SendReplyNotice(context.Context, string, models.Page, models.Contribution, string) error {
	return nil
}
