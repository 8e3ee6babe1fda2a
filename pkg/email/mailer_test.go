package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly/notify/pkg/email"
)

// MockSender is a mock implementation of Sender for testing.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendEmail(ctx context.Context, params email.SendParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func TestSendParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  email.SendParams
		wantErr bool
	}{
		{
			name: "valid params",
			params: email.SendParams{
				SendTo:   "user@example.com",
				Subject:  "Budget exceeded",
				BodyHTML: "<p>You are over budget.</p>",
				Tag:      "budget_exceeded",
			},
		},
		{
			name: "valid params without tag",
			params: email.SendParams{
				SendTo:   "user@example.com",
				Subject:  "Budget exceeded",
				BodyHTML: "<p>You are over budget.</p>",
			},
		},
		{
			name: "empty SendTo",
			params: email.SendParams{
				Subject:  "Budget exceeded",
				BodyHTML: "<p>body</p>",
			},
			wantErr: true,
		},
		{
			name: "whitespace only SendTo",
			params: email.SendParams{
				SendTo:   "   ",
				Subject:  "Budget exceeded",
				BodyHTML: "<p>body</p>",
			},
			wantErr: true,
		},
		{
			name: "invalid email format",
			params: email.SendParams{
				SendTo:   "not-an-address",
				Subject:  "Budget exceeded",
				BodyHTML: "<p>body</p>",
			},
			wantErr: true,
		},
		{
			name: "empty subject",
			params: email.SendParams{
				SendTo:   "user@example.com",
				BodyHTML: "<p>body</p>",
			},
			wantErr: true,
		},
		{
			name: "empty body",
			params: email.SendParams{
				SendTo:  "user@example.com",
				Subject: "Budget exceeded",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.params.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, email.ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sender := email.NewDevSender(filepath.Join(dir, "outbox"))

	err := sender.SendEmail(context.Background(), email.SendParams{
		SendTo:   "user@example.com",
		Subject:  "Goal achieved",
		BodyHTML: "<p>Emergency fund fully funded.</p>",
		Tag:      "goal_achieved",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "outbox"))
	require.NoError(t, err)
	require.Len(t, entries, 2, "one HTML file and one JSON file")

	var htmlFile, jsonFile string
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".html"):
			htmlFile = e.Name()
		case strings.HasSuffix(e.Name(), ".json"):
			jsonFile = e.Name()
		}
	}
	require.NotEmpty(t, htmlFile)
	require.NotEmpty(t, jsonFile)
	assert.Contains(t, htmlFile, "goal_achieved", "tag used in filename")

	body, err := os.ReadFile(filepath.Join(dir, "outbox", htmlFile))
	require.NoError(t, err)
	assert.Equal(t, "<p>Emergency fund fully funded.</p>", string(body))

	meta, err := os.ReadFile(filepath.Join(dir, "outbox", jsonFile))
	require.NoError(t, err)
	var parsed map[string]string
	require.NoError(t, json.Unmarshal(meta, &parsed))
	assert.Equal(t, "user@example.com", parsed["send_to"])
	assert.Equal(t, "Goal achieved", parsed["subject"])
}

func TestDevSenderRejectsInvalidParams(t *testing.T) {
	t.Parallel()

	sender := email.NewDevSender(t.TempDir())
	err := sender.SendEmail(context.Background(), email.SendParams{SendTo: "bad"})
	assert.ErrorIs(t, err, email.ErrInvalidParams)
}

func TestNewPostmarkClientValidation(t *testing.T) {
	t.Parallel()

	valid := email.Config{
		PostmarkServerToken:  "server",
		PostmarkAccountToken: "account",
		SenderEmail:          "notifications@ledgerly.app",
		SupportEmail:         "support@ledgerly.app",
	}

	tests := []struct {
		name   string
		mutate func(*email.Config)
	}{
		{"missing server token", func(c *email.Config) { c.PostmarkServerToken = "" }},
		{"missing account token", func(c *email.Config) { c.PostmarkAccountToken = "" }},
		{"missing sender", func(c *email.Config) { c.SenderEmail = "" }},
		{"invalid sender", func(c *email.Config) { c.SenderEmail = "nope" }},
		{"missing support", func(c *email.Config) { c.SupportEmail = "" }},
		{"invalid support", func(c *email.Config) { c.SupportEmail = "nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)
			_, err := email.NewPostmarkClient(cfg)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
		})
	}

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		sender, err := email.NewPostmarkClient(valid)
		require.NoError(t, err)
		assert.NotNil(t, sender)
	})
}
