package email

import (
	"context"
	"fmt"
)

// TemplateKind selects which verification email to send.
type TemplateKind string

const (
	TemplateRegistration   TemplateKind = "registration"
	TemplateLogin2FA       TemplateKind = "login_2fa"
	TemplatePasswordChange TemplateKind = "password_change"
)

// Message is a verification code email to deliver.
type Message struct {
	To          string
	DisplayName string
	Code        string
	Template    TemplateKind
}

// Sender defines the interface for delivering verification code emails.
// Implementations must not panic; callers treat send failures as non-fatal.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Subject returns the email subject line for the message's template.
func (m Message) Subject() string {
	switch m.Template {
	case TemplateLogin2FA:
		return "Your sign-in code"
	case TemplatePasswordChange:
		return "Confirm your password change"
	default:
		return "Verify your email address"
	}
}

// Body renders the plain-text body for the message.
func (m Message) Body() string {
	name := m.DisplayName
	if name == "" {
		name = m.To
	}

	switch m.Template {
	case TemplateLogin2FA:
		return fmt.Sprintf("Hi %s,\n\nYour sign-in code is: %s\n\nIt expires in 10 minutes. If you did not try to sign in, you can ignore this email.\n", name, m.Code)
	case TemplatePasswordChange:
		return fmt.Sprintf("Hi %s,\n\nYour password change code is: %s\n\nIt expires in 10 minutes. If you did not request a password change, please review your account.\n", name, m.Code)
	default:
		return fmt.Sprintf("Hi %s,\n\nYour verification code is: %s\n\nIt expires in 10 minutes.\n", name, m.Code)
	}
}
