package mailer

import (
	"testing"

	"hospital-sim-reporting/internal/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendUnconfigured(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.EmailConfig
	}{
		{"all empty", config.EmailConfig{}},
		{"missing password", config.EmailConfig{Sender: "a@b.c", Receiver: "d@e.f"}},
		{"missing receiver", config.EmailConfig{Sender: "a@b.c", Password: "secret"}},
		{"missing sender", config.EmailConfig{Password: "secret", Receiver: "d@e.f"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewSMTPMailer(tc.cfg, zap.NewNop())
			err := m.Send("subject", "body", []Attachment{{Name: "x.png", Data: []byte{1}}})
			require.ErrorIs(t, err, ErrNotConfigured)
		})
	}
}
