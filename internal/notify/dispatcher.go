package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"sitrus/server/config"
	"sitrus/server/internal/metrics"
	"sitrus/server/internal/models"
	"sitrus/server/internal/queue"
)

// Notifier delivers a contact submission to the admins
type Notifier interface {
	NotifyNewContact(ctx context.Context, contact *models.ContactSubmission) error
}

// Dispatcher takes submissions off the contact queue and delivers them with
// retries
type Dispatcher struct {
	notifier Notifier
	logger   *logrus.Logger
	config   *config.Config
	queue    *queue.ContactQueue
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewDispatcher creates a new dispatcher instance
func NewDispatcher(q *queue.ContactQueue, notifier Notifier, cfg *config.Config, logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = logrus.New()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		notifier: notifier,
		queue:    q,
		config:   cfg,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to the queue and starts consuming it
func (d *Dispatcher) Start() {
	d.queue.Subscribe(d.deliver)
	d.queue.Start()
}

// Enqueue hands a stored submission to the background dispatcher
func (d *Dispatcher) Enqueue(contact *models.ContactSubmission) error {
	if err := d.queue.Push(contact); err != nil {
		return err
	}
	metrics.NotificationQueueDepth.Set(float64(d.queue.Len()))
	return nil
}

// Stop closes the queue and waits for queued submissions to be delivered.
// When ctx ends first, in-flight deliveries and retry waits are aborted.
func (d *Dispatcher) Stop(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		d.queue.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.logger.Warn("Notification queue did not drain in time, aborting deliveries")
		d.cancel()
		<-done
	}
	d.cancel()
}

// deliver handles a single submission with retry logic
func (d *Dispatcher) deliver(contact *models.ContactSubmission) error {
	metrics.NotificationQueueDepth.Set(float64(d.queue.Len()))

	maxRetries := d.config.Notifications.MaxRetries
	delay := time.Duration(d.config.Notifications.RetryDelay) * time.Second

	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			d.logger.Infof("Retrying contact notification, attempt %d of %d", attempt, maxRetries)
			select {
			case <-d.ctx.Done():
				metrics.Notifications.WithLabelValues("aborted").Inc()
				return fmt.Errorf("notification aborted: %w", d.ctx.Err())
			case <-time.After(delay):
			}
		}

		err = d.notifier.NotifyNewContact(d.ctx, contact)
		if err == nil {
			metrics.Notifications.WithLabelValues("sent").Inc()
			d.logger.WithField("contact_id", contact.ID).Info("Sent contact notification")
			return nil
		}

		d.logger.WithError(err).WithField("contact_id", contact.ID).Error("Contact notification failed")
	}

	metrics.Notifications.WithLabelValues("failed").Inc()
	return fmt.Errorf("failed to deliver notification after %d attempts: %w", maxRetries+1, err)
}
