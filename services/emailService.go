package services

import (
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// EmailService sends transactional email through Resend. When no API key is
// configured the service is constructed without a client and every send
// reports unavailability, so development installs work without email.
type EmailService struct {
	client *resend.Client
	from   string
	log    *zap.Logger
}

func NewEmailService(apiKey, from string, log *zap.Logger) *EmailService {
	s := &EmailService{from: from, log: log}

	if apiKey == "" {
		log.Warn("RESEND_API_KEY not set, email service unavailable")
		return s
	}

	s.client = resend.NewClient(apiKey)
	return s
}

func (s *EmailService) Available() bool {
	return s.client != nil
}

// SendPasswordResetEmail delivers the 6-digit verification code.
func (s *EmailService) SendPasswordResetEmail(toEmail, code, name string) error {
	if s.client == nil {
		return fmt.Errorf("email service not configured")
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
	<h1 style="color: #4a7c59; border-bottom: 2px solid #4a7c59; padding-bottom: 10px;">CellHub</h1>
	<h2>Password Reset Request</h2>
	<p>Hi %s,</p>
	<p>We received a request to reset your CellHub password. Use the verification code below to continue:</p>
	<div style="background: #f5f5f5; border: 2px solid #4a7c59; border-radius: 8px; padding: 20px; text-align: center; margin: 20px 0;">
		<span style="font-size: 32px; font-weight: bold; letter-spacing: 8px; font-family: monospace; color: #4a7c59;">%s</span>
	</div>
	<p><strong>This code expires in 15 minutes.</strong></p>
	<p>If you didn't request a password reset, ignore this email and your password will remain unchanged.</p>
</body>
</html>
`, name, code)

	textBody := fmt.Sprintf(`Password Reset Request

Hi %s,

We received a request to reset your CellHub password. Your verification code: %s

This code expires in 15 minutes. If you didn't request a reset, ignore this email.
`, name, code)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Reset your CellHub password",
		Html:    htmlBody,
		Text:    textBody,
	}

	sent, err := s.client.Emails.Send(params)
	if err != nil {
		s.log.Error("failed to send password reset email", zap.String("to", toEmail), zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Info("password reset email sent", zap.String("to", toEmail), zap.String("emailId", sent.Id))
	return nil
}
