package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ALLOWED_EMAIL_DOMAINS", "")
	t.Setenv("MAIL_DRIVER", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("JWT_EXPIRY_HOURS", "")

	cfg := Load()

	assert.Equal(t, []string{"@students.jku.at"}, cfg.Codes.AllowedEmailDomains)
	assert.Equal(t, 30*time.Minute, cfg.Codes.TTL)
	assert.Equal(t, 8*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, MailDriverDisabled, cfg.Mail.Driver)
	assert.False(t, cfg.Mail.Enabled())
	assert.Equal(t, "Master Administrator", cfg.Master.DisplayName)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ALLOWED_EMAIL_DOMAINS", "@students.jku.at, @jku.at ,")
	t.Setenv("SMTP_HOST", "smtp.example.org")
	t.Setenv("SMTP_USER", "relay")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("MAIL_DRIVER", "")
	t.Setenv("MASTER_ADMIN_USERNAME", "root")
	t.Setenv("CODE_REQUEST_LIMIT", "2")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg := Load()

	assert.Equal(t, []string{"@students.jku.at", "@jku.at"}, cfg.Codes.AllowedEmailDomains)
	assert.Equal(t, MailDriverSMTP, cfg.Mail.Driver)
	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, "root", cfg.Master.Username)
	assert.Equal(t, 2, cfg.Codes.RequestLimit)
	assert.False(t, cfg.AutoMigrate)
}

func TestMailConfigEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  MailConfig
		want bool
	}{
		{"disabled driver", MailConfig{Driver: MailDriverDisabled, Host: "h", Username: "u", Password: "p"}, false},
		{"smtp missing password", MailConfig{Driver: MailDriverSMTP, Host: "h", Username: "u"}, false},
		{"smtp complete", MailConfig{Driver: MailDriverSMTP, Host: "h", Username: "u", Password: "p"}, true},
		{"sendgrid without key", MailConfig{Driver: MailDriverSendGrid}, false},
		{"sendgrid with key", MailConfig{Driver: MailDriverSendGrid, SendGridAPIKey: "SG.x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Enabled())
		})
	}
}
