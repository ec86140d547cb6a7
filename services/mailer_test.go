package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetMailEnabledTogglesSending(t *testing.T) {
	defer SetMailEnabled(true)

	SetMailEnabled(false)
	assert.False(t, mailEnabled)

	// Disabled installs return before reading any SendGrid config, so a
	// bogus key must not matter.
	t.Setenv("SENDGRID_API_KEY", "not-a-real-key")
	t.Setenv("MAIL_FROM", "noreply@example.com")
	SendWelcomeEmail("user@example.com")
	SendUpgradeEmail("user@example.com")

	SetMailEnabled(true)
	assert.True(t, mailEnabled)
}
