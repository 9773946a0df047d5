package email_test

import (
	"context"
	"errors"
	"net/smtp"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/pagewatch"
	pwemail "github.com/fwojciec/pagewatch/email"
	"github.com/fwojciec/pagewatch/mock"
	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() pwemail.Config {
	return pwemail.Config{
		Host:     "smtp.example.com",
		Port:     587,
		User:     "monitor@example.com",
		Password: "secret",
		From:     "monitor@example.com",
		To:       []string{"ops@example.com"},
	}
}

func changeNote() *pagewatch.Notification {
	old := "March"
	return &pagewatch.Notification{
		Kind:     pagewatch.ChangeAlert,
		Target:   "https://example.com",
		Time:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		OldValue: &old,
		NewValue: "April",
	}
}

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()

	assert.True(t, testConfig().Enabled())

	for name, mutate := range map[string]func(*pwemail.Config){
		"host":     func(c *pwemail.Config) { c.Host = "" },
		"port":     func(c *pwemail.Config) { c.Port = 0 },
		"user":     func(c *pwemail.Config) { c.User = "" },
		"password": func(c *pwemail.Config) { c.Password = "" },
		"from":     func(c *pwemail.Config) { c.From = "" },
		"to":       func(c *pwemail.Config) { c.To = nil },
	} {
		cfg := testConfig()
		mutate(&cfg)
		assert.False(t, cfg.Enabled(), "missing %s", name)
	}
}

func TestNotifier_Send(t *testing.T) {
	t.Parallel()

	t.Run("sends change alert with report attached", func(t *testing.T) {
		t.Parallel()

		report := filepath.Join(t.TempDir(), "change_2025-03-01_120000Z.pdf")
		require.NoError(t, os.WriteFile(report, []byte("%PDF-1.3"), 0644))
		renderer := &mock.ReportRenderer{
			RenderReportFn: func(n *pagewatch.Notification) (string, error) {
				return report, nil
			},
		}

		var gotAddr string
		var got *email.Email
		n := pwemail.NewNotifier(testConfig(),
			pwemail.WithRenderer(renderer),
			pwemail.WithSendFunc(func(addr string, _ smtp.Auth, msg *email.Email) error {
				gotAddr, got = addr, msg
				return nil
			}),
		)

		err := n.Send(context.Background(), changeNote())

		require.NoError(t, err)
		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.Equal(t, "[Monitor] Change detected", got.Subject)
		assert.Equal(t, []string{"ops@example.com"}, got.To)
		assert.Contains(t, string(got.Text), "Old value: March")
		assert.Contains(t, string(got.Text), "New value: April")
		require.Len(t, got.Attachments, 1)
		assert.Equal(t, "change_2025-03-01_120000Z.pdf", got.Attachments[0].Filename)
		assert.Equal(t, "application/pdf", got.Attachments[0].ContentType)
	})

	t.Run("sends without attachment when rendering fails", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.ReportRenderer{
			RenderReportFn: func(n *pagewatch.Notification) (string, error) {
				return "", errors.New("disk full")
			},
		}
		var got *email.Email
		n := pwemail.NewNotifier(testConfig(),
			pwemail.WithRenderer(renderer),
			pwemail.WithSendFunc(func(_ string, _ smtp.Auth, msg *email.Email) error {
				got = msg
				return nil
			}),
		)

		err := n.Send(context.Background(), changeNote())

		require.NoError(t, err)
		assert.Empty(t, got.Attachments)
		assert.Contains(t, string(got.Text), "could not be attached: disk full")
	})

	t.Run("daily alert has no attachment", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.ReportRenderer{
			RenderReportFn: func(n *pagewatch.Notification) (string, error) {
				t.Fatal("renderer should not be called")
				return "", nil
			},
		}
		cfg := testConfig()
		cfg.SubjectPrefix = "[Prices]"
		var got *email.Email
		n := pwemail.NewNotifier(cfg,
			pwemail.WithRenderer(renderer),
			pwemail.WithSendFunc(func(_ string, _ smtp.Auth, msg *email.Email) error {
				got = msg
				return nil
			}),
		)

		err := n.Send(context.Background(), &pagewatch.Notification{
			Kind:   pagewatch.DailyAlert,
			Target: "https://example.com",
			Day:    "2025-03-01",
		})

		require.NoError(t, err)
		assert.Equal(t, "[Prices] No changes detected", got.Subject)
		assert.Contains(t, string(got.Text), "2025-03-01")
		assert.Empty(t, got.Attachments)
	})

	t.Run("wraps transport failure as delivery error", func(t *testing.T) {
		t.Parallel()

		n := pwemail.NewNotifier(testConfig(),
			pwemail.WithSendFunc(func(string, smtp.Auth, *email.Email) error {
				return errors.New("connection refused")
			}),
		)

		err := n.Send(context.Background(), changeNote())

		assert.Equal(t, pagewatch.EDELIVERY, pagewatch.ErrorCode(err))
		assert.Contains(t, pagewatch.ErrorMessage(err), "connection refused")
	})

	t.Run("refuses to send when not configured", func(t *testing.T) {
		t.Parallel()

		n := pwemail.NewNotifier(pwemail.Config{}, pwemail.WithSendFunc(func(string, smtp.Auth, *email.Email) error {
			t.Fatal("send should not be called")
			return nil
		}))

		err := n.Send(context.Background(), changeNote())

		assert.Equal(t, pagewatch.ECONFIG, pagewatch.ErrorCode(err))
	})
}

func TestParseRecipients(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, pwemail.ParseRecipients(" a@example.com, ,b@example.com "))
	assert.Nil(t, pwemail.ParseRecipients(""))
}
