package email

import (
	"context"
	"log/slog"
)

// DevSender implements EmailSender for local development. It logs the email
// instead of sending it, so flows that trigger mail can be exercised without
// Postmark credentials.
type DevSender struct {
	log *slog.Logger
}

// NewDevSender creates a development sender that writes to the given logger.
func NewDevSender(log *slog.Logger) EmailSender {
	if log == nil {
		log = slog.Default()
	}
	return &DevSender{log: log}
}

func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	d.log.InfoContext(ctx, "dev email sender",
		slog.String("to", params.SendTo),
		slog.String("subject", params.Subject),
		slog.String("tag", params.Tag),
		slog.Int("body_bytes", len(params.BodyHTML)),
	)
	return nil
}
