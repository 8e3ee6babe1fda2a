package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly/notify/pkg/email"
	"github.com/ledgerly/notify/pkg/jobqueue"
	"github.com/ledgerly/notify/pkg/notify"
)

type mockEmailSender struct{ mock.Mock }

func (m *mockEmailSender) SendEmail(ctx context.Context, params email.SendParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

type mockPushSender struct{ mock.Mock }

func (m *mockPushSender) SendPush(ctx context.Context, userID string, msg notify.PushMessage) error {
	args := m.Called(ctx, userID, msg)
	return args.Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, phone, text string) error {
	args := m.Called(ctx, phone, text)
	return args.Error(0)
}

func testJob(t *testing.T, payload notify.Payload) *jobqueue.Job {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return &jobqueue.Job{
		ID:        "job-1",
		UserID:    "user-1",
		Payload:   raw,
		CreatedAt: time.Now(),
	}
}

func testDirectory() *notify.StaticDirectory {
	dir := notify.NewStaticDirectory()
	dir.SetUser("user-1", "user@example.com", "+15550100")
	return dir
}

func TestDispatcherEmail(t *testing.T) {
	t.Parallel()

	t.Run("delivers via sender", func(t *testing.T) {
		t.Parallel()
		sender := &mockEmailSender{}
		sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendParams) bool {
			return p.SendTo == "user@example.com" &&
				p.Subject == "Budget exceeded: Groceries" &&
				p.Tag == "budget_exceeded"
		})).Return(nil)

		d := notify.NewDispatcher(notify.NewMemoryStorage(), testDirectory(), sender, nil, nil)
		job := testJob(t, notify.Payload{
			Event:   notify.EventBudgetExceeded,
			Title:   "Groceries",
			Message: "Over budget.",
		})

		results := d.Dispatch(context.Background(), job, []string{"EMAIL"})
		require.NoError(t, results["EMAIL"].Err)
		assert.False(t, results["EMAIL"].Skipped)
		sender.AssertExpectations(t)
	})

	t.Run("missing template skips instead of failing", func(t *testing.T) {
		t.Parallel()
		sender := &mockEmailSender{}

		d := notify.NewDispatcher(notify.NewMemoryStorage(), testDirectory(), sender, nil, nil)
		job := testJob(t, notify.Payload{
			Event:   notify.EventAccountDigest,
			Title:   "Digest",
			Message: "m",
		})

		results := d.Dispatch(context.Background(), job, []string{"EMAIL"})
		assert.True(t, results["EMAIL"].Skipped)
		assert.NoError(t, results["EMAIL"].Err)
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})

	t.Run("unknown address fails the channel", func(t *testing.T) {
		t.Parallel()
		sender := &mockEmailSender{}
		d := notify.NewDispatcher(notify.NewMemoryStorage(), notify.NewStaticDirectory(), sender, nil, nil)
		job := testJob(t, notify.Payload{
			Event:   notify.EventSecurityAlert,
			Title:   "t",
			Message: "m",
		})

		results := d.Dispatch(context.Background(), job, []string{"EMAIL"})
		assert.Error(t, results["EMAIL"].Err)
	})
}

func TestDispatcherInApp(t *testing.T) {
	t.Parallel()

	storage := notify.NewMemoryStorage()
	d := notify.NewDispatcher(storage, testDirectory(), nil, nil, nil)
	job := testJob(t, notify.Payload{
		Event:    notify.EventGoalAchieved,
		Category: notify.CategoryGoals,
		Priority: notify.PriorityHigh,
		Title:    "Emergency fund",
		Message:  "Fully funded.",
	})

	results := d.Dispatch(context.Background(), job, []string{"IN_APP"})
	require.NoError(t, results["IN_APP"].Err)

	rec, err := storage.Get(context.Background(), "user-1", "job-1")
	require.NoError(t, err)
	assert.Equal(t, notify.EventGoalAchieved, rec.Event)
	assert.Equal(t, notify.CategoryGoals, rec.Category)
	assert.Equal(t, "Emergency fund", rec.Title)
	assert.False(t, rec.Read)
}

func TestDispatcherSMS(t *testing.T) {
	t.Parallel()

	t.Run("truncates to one segment", func(t *testing.T) {
		t.Parallel()
		sms := &mockSMSSender{}
		sms.On("SendSMS", mock.Anything, "+15550100", mock.MatchedBy(func(text string) bool {
			return len([]rune(text)) <= notify.SMSMaxRunes
		})).Return(nil)

		d := notify.NewDispatcher(notify.NewMemoryStorage(), testDirectory(), nil, nil, sms)
		job := testJob(t, notify.Payload{
			Event:   notify.EventSecurityAlert,
			Title:   "New device login",
			Message: strings.Repeat("suspicious activity ", 20),
		})

		results := d.Dispatch(context.Background(), job, []string{"SMS"})
		require.NoError(t, results["SMS"].Err)
		sms.AssertExpectations(t)
	})

	t.Run("provider error propagates", func(t *testing.T) {
		t.Parallel()
		sms := &mockSMSSender{}
		sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("carrier rejected"))

		d := notify.NewDispatcher(notify.NewMemoryStorage(), testDirectory(), nil, nil, sms)
		job := testJob(t, notify.Payload{
			Event:   notify.EventSecurityAlert,
			Title:   "t",
			Message: "m",
		})

		results := d.Dispatch(context.Background(), job, []string{"SMS"})
		assert.ErrorContains(t, results["SMS"].Err, "carrier rejected")
	})
}

func TestDispatcherChannelsSettleIndependently(t *testing.T) {
	t.Parallel()

	sender := &mockEmailSender{}
	sender.On("SendEmail", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	push := &mockPushSender{}
	push.On("SendPush", mock.Anything, "user-1", mock.Anything).Return(nil)

	storage := notify.NewMemoryStorage()
	d := notify.NewDispatcher(storage, testDirectory(), sender, push, nil)
	job := testJob(t, notify.Payload{
		Event:   notify.EventLargeTransaction,
		Title:   "Large transaction",
		Message: "$2,400 at Dealership",
	})

	results := d.Dispatch(context.Background(), job, []string{"EMAIL", "PUSH", "IN_APP"})

	assert.Error(t, results["EMAIL"].Err)
	assert.NoError(t, results["PUSH"].Err)
	assert.NoError(t, results["IN_APP"].Err, "one provider failing never blocks the others")

	_, err := storage.Get(context.Background(), "user-1", "job-1")
	assert.NoError(t, err)
}

func TestDispatcherCorruptPayload(t *testing.T) {
	t.Parallel()

	d := notify.NewDispatcher(notify.NewMemoryStorage(), testDirectory(), nil, nil, nil)
	job := &jobqueue.Job{ID: "job-1", UserID: "user-1", Payload: []byte("{not json")}

	results := d.Dispatch(context.Background(), job, []string{"IN_APP", "PUSH"})
	assert.Error(t, results["IN_APP"].Err)
	assert.Error(t, results["PUSH"].Err)
}
