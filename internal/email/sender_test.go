package email

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_Subject_PerTemplate(t *testing.T) {
	tests := []struct {
		template TemplateKind
		want     string
	}{
		{TemplateRegistration, "Verify your email address"},
		{TemplateLogin2FA, "Your sign-in code"},
		{TemplatePasswordChange, "Confirm your password change"},
	}

	for _, tt := range tests {
		t.Run(string(tt.template), func(t *testing.T) {
			m := Message{Template: tt.template}
			assert.Equal(t, tt.want, m.Subject())
		})
	}
}

func TestMessage_Body_ContainsCodeAndName(t *testing.T) {
	m := Message{
		To:          "alice@example.com",
		DisplayName: "Alice",
		Code:        "ABC234",
		Template:    TemplateRegistration,
	}

	body := m.Body()
	assert.Contains(t, body, "ABC234")
	assert.Contains(t, body, "Alice")
}

func TestMessage_Body_FallsBackToEmail(t *testing.T) {
	m := Message{
		To:       "alice@example.com",
		Code:     "ABC234",
		Template: TemplateLogin2FA,
	}

	body := m.Body()
	assert.Contains(t, body, "alice@example.com")
}

func TestMockSender_AlwaysSucceeds(t *testing.T) {
	s := NewMockSender(slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := s.Send(t.Context(), Message{To: "a@b.com", Code: "XYZ789", Template: TemplateRegistration})
	require.NoError(t, err)
	assert.Equal(t, "mock", s.Name())
}
