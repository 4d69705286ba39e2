package email

// Config holds email service configuration.
// The Postmark tokens are optional so development environments can run with
// the DevSender instead. SenderEmail and SupportEmail are required as they
// establish the sender identity and reply-to behavior for all outbound mail.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`

	// VerificationURL and PasswordResetURL are the frontend pages the
	// one-time token links point at.
	VerificationURL  string `env:"EMAIL_VERIFICATION_URL,required"`
	PasswordResetURL string `env:"PASSWORD_RESET_URL,required"`
}
