// Package sms sends short transactional messages to phone numbers.
//
// No SMS provider is wired in yet; the LogSender stands in until one is,
// and callers depend only on the SMSSender interface.
package sms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
)

// SMSSender delivers one SMS message.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

var ErrInvalidPhone = errors.New("sms: invalid phone number")

// E.164 with a permissive national fallback.
var phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// VerificationMessage builds the phone verification SMS body.
func VerificationMessage(code string) string {
	return fmt.Sprintf("Your DentaMate verification code is: %s. Valid for 10 minutes.", code)
}

// PasswordResetMessage builds the password reset SMS body.
func PasswordResetMessage(code string) string {
	return fmt.Sprintf("Your DentaMate password reset code is: %s. Valid for 10 minutes.", code)
}

// WelcomeMessage builds the post-activation welcome SMS body.
func WelcomeMessage(firstName string) string {
	return fmt.Sprintf("Welcome to DentaMate, %s! Your account is now active.", firstName)
}

// LogSender logs messages instead of sending them.
type LogSender struct {
	log *slog.Logger
}

// NewLogSender creates a sender that writes to the given logger.
func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogSender{log: log}
}

func (s *LogSender) SendSMS(ctx context.Context, to, body string) error {
	if !phoneRegex.MatchString(to) {
		return fmt.Errorf("%w: %q", ErrInvalidPhone, to)
	}
	s.log.InfoContext(ctx, "dev sms sender",
		slog.String("to", to),
		slog.String("body", body),
	)
	return nil
}
