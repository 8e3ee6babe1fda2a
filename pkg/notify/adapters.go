package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Directory resolves delivery addresses for users. The host application
// owns user data; the notification engine only asks for what a channel
// needs at dispatch time.
type Directory interface {
	EmailAddress(ctx context.Context, userID string) (string, error)
	PhoneNumber(ctx context.Context, userID string) (string, error)
}

// PushMessage is the payload handed to a push provider.
type PushMessage struct {
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// PushSender delivers push notifications to a user's registered devices.
type PushSender interface {
	SendPush(ctx context.Context, userID string, msg PushMessage) error
}

// SMSSender delivers text messages.
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, text string) error
}

// StaticDirectory is a Directory backed by fixed maps, for tests and
// development.
type StaticDirectory struct {
	mu     sync.RWMutex
	emails map[string]string
	phones map[string]string
}

// NewStaticDirectory creates an empty static directory.
func NewStaticDirectory() *StaticDirectory {
	return &StaticDirectory{
		emails: make(map[string]string),
		phones: make(map[string]string),
	}
}

// SetUser registers a user's addresses. Empty values mean the user has no
// such address on file.
func (d *StaticDirectory) SetUser(userID, email, phone string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if email != "" {
		d.emails[userID] = email
	}
	if phone != "" {
		d.phones[userID] = phone
	}
}

func (d *StaticDirectory) EmailAddress(ctx context.Context, userID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	addr, ok := d.emails[userID]
	if !ok {
		return "", fmt.Errorf("no email address for user %s", userID)
	}
	return addr, nil
}

func (d *StaticDirectory) PhoneNumber(ctx context.Context, userID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	phone, ok := d.phones[userID]
	if !ok {
		return "", fmt.Errorf("no phone number for user %s", userID)
	}
	return phone, nil
}

// LogPushSender logs push notifications instead of delivering them, for
// local development.
type LogPushSender struct {
	Logger *slog.Logger
}

func (s LogPushSender) SendPush(ctx context.Context, userID string, msg PushMessage) error {
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "push notification (dev)",
		slog.String("user_id", userID),
		slog.String("title", msg.Title),
		slog.String("message", msg.Message))
	return nil
}

// LogSMSSender logs SMS messages instead of delivering them, for local
// development.
type LogSMSSender struct {
	Logger *slog.Logger
}

func (s LogSMSSender) SendSMS(ctx context.Context, phoneNumber, text string) error {
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "sms (dev)",
		slog.String("phone", phoneNumber),
		slog.String("text", text))
	return nil
}
