package email

import (
	"context"
	"log/slog"
)

// MockSender logs messages instead of delivering them and always succeeds.
// Used in development and tests so auth flows work without an SMTP server.
type MockSender struct {
	logger *slog.Logger
}

// NewMockSender creates a new mock sender.
func NewMockSender(logger *slog.Logger) *MockSender {
	return &MockSender{logger: logger}
}

// Name returns the name of this sender.
func (s *MockSender) Name() string {
	return "mock"
}

// Send logs the message details.
func (s *MockSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "mock sender: verification email",
		slog.String("to", msg.To),
		slog.String("template", string(msg.Template)),
		slog.String("code", msg.Code),
	)
	return nil
}
