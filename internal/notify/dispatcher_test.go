package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sitrus/server/config"
	"sitrus/server/internal/models"
	"sitrus/server/internal/queue"
)

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyNewContact(ctx context.Context, contact *models.ContactSubmission) error {
	args := m.Called(contact)
	return args.Error(0)
}

func testConfig(maxRetries, retryDelay int) *config.Config {
	cfg := &config.Config{}
	cfg.Notifications.QueueSize = 10
	cfg.Notifications.MaxRetries = maxRetries
	cfg.Notifications.RetryDelay = retryDelay
	return cfg
}

func TestNewDispatcher(t *testing.T) {
	notifier := &MockNotifier{}
	q := queue.NewContactQueue(10, logrus.New())
	cfg := testConfig(3, 0)
	logger := logrus.New()

	d := NewDispatcher(q, notifier, cfg, logger)

	assert.NotNil(t, d)
	assert.Equal(t, notifier, d.notifier)
	assert.Equal(t, q, d.queue)
	assert.Equal(t, cfg, d.config)
	assert.Equal(t, logger, d.logger)
}

func TestDispatcher_Deliver(t *testing.T) {
	contact := &models.ContactSubmission{ID: "c1"}

	t.Run("Success", func(t *testing.T) {
		notifier := &MockNotifier{}
		d := NewDispatcher(queue.NewContactQueue(10, nil), notifier, testConfig(3, 0), nil)

		notifier.On("NotifyNewContact", contact).Return(nil).Once()
		assert.NoError(t, d.deliver(contact))
		notifier.AssertExpectations(t)
	})

	t.Run("Succeeds after retry", func(t *testing.T) {
		notifier := &MockNotifier{}
		d := NewDispatcher(queue.NewContactQueue(10, nil), notifier, testConfig(3, 0), nil)

		notifier.On("NotifyNewContact", contact).Return(errors.New("timeout")).Twice()
		notifier.On("NotifyNewContact", contact).Return(nil).Once()
		assert.NoError(t, d.deliver(contact))
		notifier.AssertNumberOfCalls(t, "NotifyNewContact", 3)
	})

	t.Run("Gives up", func(t *testing.T) {
		notifier := &MockNotifier{}
		d := NewDispatcher(queue.NewContactQueue(10, nil), notifier, testConfig(2, 0), nil)

		notifier.On("NotifyNewContact", contact).Return(errors.New("api down"))
		err := d.deliver(contact)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to deliver notification after 3 attempts")
		notifier.AssertNumberOfCalls(t, "NotifyNewContact", 3)
	})
}

type recordingNotifier struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingNotifier) NotifyNewContact(ctx context.Context, contact *models.ContactSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, contact.ID)
	return nil
}

func TestDispatcher_StartStop(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDispatcher(queue.NewContactQueue(10, nil), notifier, testConfig(1, 0), nil)
	d.Start()

	require.NoError(t, d.Enqueue(&models.ContactSubmission{ID: "a"}))
	require.NoError(t, d.Enqueue(&models.ContactSubmission{ID: "b"}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	d.Stop(ctx)

	notifier.mu.Lock()
	assert.Equal(t, []string{"a", "b"}, notifier.ids)
	notifier.mu.Unlock()

	assert.ErrorIs(t, d.Enqueue(&models.ContactSubmission{ID: "c"}), queue.ErrQueueClosed)
}

func TestDispatcher_StopAbortsRetryWait(t *testing.T) {
	called := make(chan struct{}, 10)
	notifier := &MockNotifier{}
	notifier.On("NotifyNewContact", mock.Anything).
		Run(func(mock.Arguments) { called <- struct{}{} }).
		Return(errors.New("api down"))

	// An hour between retries would block shutdown without the abort
	d := NewDispatcher(queue.NewContactQueue(10, nil), notifier, testConfig(5, 3600), nil)
	d.Start()
	require.NoError(t, d.Enqueue(&models.ContactSubmission{ID: "a"}))

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("notifier was not called")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	d.Stop(ctx)
	assert.Less(t, time.Since(start), 2*time.Second)
	notifier.AssertNumberOfCalls(t, "NotifyNewContact", 1)
}
