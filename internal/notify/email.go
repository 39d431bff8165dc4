package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// Email sends admin alerts through Resend.
type Email struct {
	client *resend.Client
	from   string
	to     string
}

func NewEmail(apiKey, from, to string) *Email {
	return &Email{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
	}
}

func (e *Email) Publish(ctx context.Context, subject, message string) error {
	params := &resend.SendEmailRequest{
		From:    e.from,
		To:      []string{e.to},
		Subject: subject,
		Html: fmt.Sprintf(`
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2 style="color: #b91c1c;">BloodFinder Alert</h2>
				<p>%s</p>
			</div>
		`, message),
	}

	sent, err := e.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	log.Printf("📧 Alert email sent (ID: %s): %s", sent.Id, subject)
	return nil
}
