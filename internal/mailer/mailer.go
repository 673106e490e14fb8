package mailer

import (
	"context"

	"go.uber.org/zap"
)

// Mailer delivers transactional email.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendPasswordResetCode(ctx context.Context, email, code string) error
}

// LogMailer writes outgoing mail to the log instead of sending it. Used in
// development and as the default until an ESP is configured.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendVerificationCode(_ context.Context, email, code string) error {
	m.log.Info("verification code issued",
		zap.String("email", email),
		zap.String("code", code),
	)
	return nil
}

func (m *LogMailer) SendPasswordResetCode(_ context.Context, email, code string) error {
	m.log.Info("password reset code issued",
		zap.String("email", email),
		zap.String("code", code),
	)
	return nil
}
