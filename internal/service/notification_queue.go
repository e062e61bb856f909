package service

import (
	"time"

	"geneailogy/tree-service/internal/models"
	"geneailogy/tree-service/pkg/logger"
)

// QueueState is the notification queue's state machine state
type QueueState int

const (
	// QueueIdle means no session is active
	QueueIdle QueueState = iota
	// QueueArmed means a session is active and nothing is displayed
	QueueArmed
	// QueueDisplaying means exactly one event is currently presented
	QueueDisplaying
)

// NotificationQueue filters, deduplicates and sequences the live notification
// stream for one session: events strictly newer than the session start are
// enqueued once (by id) in arrival order, and presented one at a time with
// acknowledge-driven advancement.
//
// The queue is owned by a single session and must only be driven from one
// goroutine (the session's event loop); batches must be applied in delivery
// order since the pending FIFO contract depends on it. Dependencies are
// injected; the queue never reaches into ambient globals.
type NotificationQueue struct {
	clock func() time.Time
	log   *logger.Logger

	state        QueueState
	sessionStart int64 // epoch millis; events at or before this instant are ignored
	seenIDs      map[string]struct{}
	pending      []models.NotificationEvent
	current      *models.NotificationEvent
}

// NewNotificationQueue creates a queue in the Idle state. clock defaults to
// time.Now when nil.
func NewNotificationQueue(clock func() time.Time, log *logger.Logger) *NotificationQueue {
	if clock == nil {
		clock = time.Now
	}
	return &NotificationQueue{
		clock: clock,
		log:   log,
		state: QueueIdle,
	}
}

// StartSession arms the queue: records the session start instant and clears
// any prior state.
func (q *NotificationQueue) StartSession() {
	q.reset()
	q.state = QueueArmed
}

// ResetSession re-arms the queue with a fresh session start. Called whenever
// the observed identity changes, so a new viewer never inherits a prior
// viewer's seen set.
func (q *NotificationQueue) ResetSession() {
	q.reset()
	q.state = QueueArmed
}

// EndSession clears all state unconditionally, including the current event
func (q *NotificationQueue) EndSession() {
	q.sessionStart = 0
	q.seenIDs = nil
	q.pending = nil
	q.current = nil
	q.state = QueueIdle
}

// OnInboundBatch applies one batch of raw events: normalizes timestamps,
// drops events at or before the session start, deduplicates by id, appends
// survivors to the pending FIFO in arrival order (batches are not re-sorted
// by timestamp: first seen, first shown) and promotes the head when nothing
// is displayed.
//
// Idempotent under at-least-once delivery: re-delivering a batch enqueues
// nothing new.
func (q *NotificationQueue) OnInboundBatch(events []models.NotificationEvent) {
	if q.state == QueueIdle {
		return
	}

	for _, event := range events {
		millis, ok := event.Timestamp.EpochMillis()
		if !ok {
			// Recovered locally: drop the event, keep the batch going
			if q.log != nil {
				q.log.WithField("event_id", event.ID).Warn("Dropping notification event with malformed timestamp")
			}
			continue
		}
		if millis <= q.sessionStart {
			continue
		}
		if _, seen := q.seenIDs[event.ID]; seen {
			continue
		}

		q.seenIDs[event.ID] = struct{}{}
		q.pending = append(q.pending, event)
	}

	q.advance()
}

// Acknowledge dismisses the current event (user action and display timeout
// call this uniformly) and promotes the next pending event, if any. No-op
// when nothing is displayed.
func (q *NotificationQueue) Acknowledge() {
	if q.current == nil {
		return
	}
	q.current = nil
	q.state = QueueArmed
	q.advance()
}

// Current returns the event currently presented, or nil
func (q *NotificationQueue) Current() *models.NotificationEvent {
	return q.current
}

// PendingCount returns the number of events awaiting display
func (q *NotificationQueue) PendingCount() int {
	return len(q.pending)
}

// State returns the state machine state
func (q *NotificationQueue) State() QueueState {
	return q.state
}

// SessionStart returns the session start instant in epoch millis
func (q *NotificationQueue) SessionStart() int64 {
	return q.sessionStart
}

func (q *NotificationQueue) reset() {
	q.sessionStart = q.clock().UnixMilli()
	q.seenIDs = make(map[string]struct{})
	q.pending = nil
	q.current = nil
}

// advance promotes the head of pending into current when nothing is displayed
func (q *NotificationQueue) advance() {
	if q.current != nil || len(q.pending) == 0 {
		return
	}
	next := q.pending[0]
	q.pending = q.pending[1:]
	q.current = &next
	q.state = QueueDisplaying
}
