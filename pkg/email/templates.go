package email

import (
	"fmt"
	"html/template"
	"strings"
)

// linkEmailTemplate renders the shared layout for emails carrying an action
// link. The accent color distinguishes verification (blue) from password
// reset (red).
var linkEmailTemplate = template.Must(template.New("link").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background: {{.Accent}}; color: white; padding: 20px; text-align: center; }
.content { background: #f9fafb; padding: 30px; }
.button { display: inline-block; padding: 12px 24px; background: {{.Accent}}; color: white; text-decoration: none; border-radius: 5px; }
.footer { text-align: center; padding: 20px; color: #6b7280; font-size: 14px; }
</style>
</head>
<body>
<div class="container">
<div class="header"><h1>{{.Heading}}</h1></div>
<div class="content">
<h2>{{.Greeting}}</h2>
<p>{{.Intro}}</p>
<p style="text-align: center; margin: 30px 0;"><a href="{{.ActionURL}}" class="button">{{.ActionLabel}}</a></p>
<p>Or copy and paste this link into your browser:</p>
<p style="word-break: break-all; color: {{.Accent}};">{{.ActionURL}}</p>
<p><strong>This link will expire in {{.Expiry}}.</strong></p>
</div>
<div class="footer">
<p>{{.FooterNote}}</p>
<p>&copy; 2026 DentaMate. All rights reserved.</p>
</div>
</div>
</body>
</html>`))

var welcomeEmailTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background: #10b981; color: white; padding: 20px; text-align: center; }
.content { background: #f9fafb; padding: 30px; }
.footer { text-align: center; padding: 20px; color: #6b7280; font-size: 14px; }
</style>
</head>
<body>
<div class="container">
<div class="header"><h1>Welcome to DentaMate!</h1></div>
<div class="content">
<h2>Hi {{.FirstName}},</h2>
<p>Your DentaMate account is now active! We're excited to have you on board.</p>
<p>You can now access all features of the platform:</p>
<ul>
<li>Schedule and manage appointments</li>
<li>Access patient records</li>
<li>AI-powered diagnosis tools</li>
<li>Real-time notifications</li>
<li>Comprehensive analytics</li>
</ul>
<p>If you have any questions, our support team is here to help.</p>
</div>
<div class="footer">
<p>&copy; 2026 DentaMate. All rights reserved.</p>
</div>
</div>
</body>
</html>`))

type linkEmailData struct {
	Accent      template.CSS
	Heading     string
	Greeting    string
	Intro       string
	ActionURL   string
	ActionLabel string
	Expiry      string
	FooterNote  string
}

// VerificationEmail builds the account verification email. The token is
// appended to the configured verification URL as a query parameter.
func VerificationEmail(cfg Config, to, firstName, token string) (SendEmailParams, error) {
	body, err := renderLinkEmail(linkEmailData{
		Accent:      "#2563eb",
		Heading:     "DentaMate",
		Greeting:    fmt.Sprintf("Welcome %s!", firstName),
		Intro:       "Thank you for registering with DentaMate. Please verify your email address to activate your account.",
		ActionURL:   fmt.Sprintf("%s?token=%s", cfg.VerificationURL, token),
		ActionLabel: "Verify Email Address",
		Expiry:      "24 hours",
		FooterNote:  "If you didn't create this account, please ignore this email.",
	})
	if err != nil {
		return SendEmailParams{}, err
	}
	return SendEmailParams{
		SendTo:   to,
		Subject:  "Verify Your DentaMate Account",
		BodyHTML: body,
		Tag:      "email-verification",
	}, nil
}

// PasswordResetEmail builds the password reset email.
func PasswordResetEmail(cfg Config, to, firstName, token string) (SendEmailParams, error) {
	body, err := renderLinkEmail(linkEmailData{
		Accent:      "#dc2626",
		Heading:     "Password Reset",
		Greeting:    fmt.Sprintf("Hi %s,", firstName),
		Intro:       "We received a request to reset your DentaMate account password.",
		ActionURL:   fmt.Sprintf("%s?token=%s", cfg.PasswordResetURL, token),
		ActionLabel: "Reset Password",
		Expiry:      "1 hour",
		FooterNote:  "If you didn't request this, please ignore this email. Your password will remain unchanged.",
	})
	if err != nil {
		return SendEmailParams{}, err
	}
	return SendEmailParams{
		SendTo:   to,
		Subject:  "Reset Your DentaMate Password",
		BodyHTML: body,
		Tag:      "password-reset",
	}, nil
}

// WelcomeEmail builds the post-verification welcome email.
func WelcomeEmail(to, firstName string) (SendEmailParams, error) {
	var sb strings.Builder
	if err := welcomeEmailTemplate.Execute(&sb, struct{ FirstName string }{FirstName: firstName}); err != nil {
		return SendEmailParams{}, fmt.Errorf("email: render welcome template: %w", err)
	}
	return SendEmailParams{
		SendTo:   to,
		Subject:  "Welcome to DentaMate!",
		BodyHTML: sb.String(),
		Tag:      "welcome",
	}, nil
}

func renderLinkEmail(data linkEmailData) (string, error) {
	var sb strings.Builder
	if err := linkEmailTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("email: render link template: %w", err)
	}
	return sb.String(), nil
}
