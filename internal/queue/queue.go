package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"sitrus/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// ContactQueue is an in-memory queue of contact submissions waiting to be
// announced to the admins
type ContactQueue struct {
	items    chan *models.ContactSubmission
	maxSize  int
	closed   bool
	started  bool
	mu       sync.RWMutex
	wg       sync.WaitGroup
	logger   *logrus.Logger
	handlers []func(*models.ContactSubmission) error
}

// NewContactQueue creates a new contact queue with the specified buffer size
func NewContactQueue(bufferSize int, logger *logrus.Logger) *ContactQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &ContactQueue{
		items:    make(chan *models.ContactSubmission, bufferSize),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func(*models.ContactSubmission) error, 0),
	}
}

// Push adds a submission to the queue without blocking
func (q *ContactQueue) Push(contact *models.ContactSubmission) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- contact:
		q.logger.WithField("contact_id", contact.ID).Debug("Pushed contact to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each submission
func (q *ContactQueue) Subscribe(handler func(*models.ContactSubmission) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue. Calling it twice is a no-op.
func (q *ContactQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true
	q.wg.Add(1)
	go q.process()
}

func (q *ContactQueue) process() {
	defer q.wg.Done()
	for contact := range q.items {
		q.dispatch(contact)
	}
}

// dispatch sends the submission to all subscribed handlers
func (q *ContactQueue) dispatch(contact *models.ContactSubmission) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(contact); err != nil {
			q.logger.WithError(err).WithField("contact_id", contact.ID).Error("Handler failed to process contact")
		}
	}
}

// Close stops accepting submissions and waits for queued ones to be handled
func (q *ContactQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.items)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

// Len returns the current number of submissions in the queue
func (q *ContactQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *ContactQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
