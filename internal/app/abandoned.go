package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"sifnos_hotels/internal/domain"
)

// DefaultAbandonAfter is how long a booking flow may sit idle before it is
// recorded as abandoned.
const DefaultAbandonAfter = 2 * time.Minute

// Timer is the subset of *time.Timer the tracker needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it via adapter.
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// AbandonmentTracker follows one booking session. Start arms (or re-arms) the
// timeout; if Complete is not called before it elapses the draft is upserted
// as abandoned, keyed by session id.
type AbandonmentTracker struct {
	sessionID string
	repo      domain.AbandonedBookingRepository
	events    domain.EventPublisher
	timeout   time.Duration
	after     AfterFunc
	now       func() time.Time
	onSettled func(*AbandonmentTracker)

	mu        sync.Mutex
	gen       int
	timer     Timer
	draft     domain.BookingDraft
	abandoned bool
	completed bool
	writing   chan struct{} // closed when the in-flight abandoned upsert returns
}

type TrackerOption func(*AbandonmentTracker)

func WithAfterFunc(f AfterFunc) TrackerOption {
	return func(t *AbandonmentTracker) { t.after = f }
}

func WithTrackerClock(now func() time.Time) TrackerOption {
	return func(t *AbandonmentTracker) { t.now = now }
}

func NewAbandonmentTracker(sessionID string, repo domain.AbandonedBookingRepository, events domain.EventPublisher, timeout time.Duration, opts ...TrackerOption) *AbandonmentTracker {
	if timeout <= 0 {
		timeout = DefaultAbandonAfter
	}
	t := &AbandonmentTracker{
		sessionID: sessionID,
		repo:      repo,
		events:    events,
		timeout:   timeout,
		after:     stdAfterFunc,
		now:       time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *AbandonmentTracker) SessionID() string { return t.sessionID }

// Start records the latest draft and resets the countdown.
func (t *AbandonmentTracker) Start(draft domain.BookingDraft) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.draft = draft
	t.completed = false
	t.timer = t.after(t.timeout, func() { t.fire(gen) })
}

func (t *AbandonmentTracker) fire(gen int) {
	t.mu.Lock()
	if gen != t.gen || t.completed {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	done := make(chan struct{})
	t.writing = done
	rec := domain.AbandonedBookingRecord{
		SessionID:   t.sessionID,
		Draft:       t.draft,
		Status:      domain.StatusAbandoned,
		AbandonedAt: t.now(),
	}
	t.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := t.repo.UpsertAbandoned(ctx, rec)

	t.mu.Lock()
	if err == nil {
		t.abandoned = true
	}
	t.writing = nil
	// a Start or Complete during the write owns the tracker from here
	settled := gen == t.gen
	t.mu.Unlock()
	close(done)

	if err != nil {
		log.Error().Err(err).Str("session_id", t.sessionID).Msg("abandoned booking upsert failed")
	} else {
		log.Info().Str("session_id", t.sessionID).Str("type", rec.Draft.BookingType).Msg("booking abandoned")
		publish(ctx, t.events, domain.SubjectBookingAbandoned, domain.BookingEvent{
			SessionID:  t.sessionID,
			Status:     domain.StatusAbandoned,
			Draft:      rec.Draft,
			OccurredAt: rec.AbandonedAt,
		})
	}
	if settled && t.onSettled != nil {
		t.onSettled(t)
	}
}

// Complete stops the countdown. When the session had already been recorded
// as abandoned, the record is moved to converted. An abandoned write still in
// flight is waited for first.
func (t *AbandonmentTracker) Complete(ctx context.Context, bookingID *int64) error {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.completed = true
	writing := t.writing
	t.mu.Unlock()

	if writing != nil {
		select {
		case <-writing:
		case <-ctx.Done():
			// a retry then converts straight in the store
			if t.onSettled != nil {
				t.onSettled(t)
			}
			return ctx.Err()
		}
	}

	t.mu.Lock()
	wasAbandoned := t.abandoned
	draft := t.draft
	t.mu.Unlock()

	if t.onSettled != nil {
		t.onSettled(t)
	}
	if !wasAbandoned {
		return nil
	}
	return convert(ctx, t.repo, t.events, t.sessionID, bookingID, draft, t.now())
}

func convert(ctx context.Context, repo domain.AbandonedBookingRepository, events domain.EventPublisher, sessionID string, bookingID *int64, draft domain.BookingDraft, at time.Time) error {
	if err := repo.MarkConverted(ctx, sessionID, bookingID); err != nil {
		return err
	}
	publish(ctx, events, domain.SubjectBookingConverted, domain.BookingEvent{
		SessionID:  sessionID,
		Status:     domain.StatusConverted,
		BookingID:  bookingID,
		Draft:      draft,
		OccurredAt: at,
	})
	return nil
}

// publish is best effort. Failures are reported by the publisher itself
// (see events.Instrumented).
func publish(ctx context.Context, events domain.EventPublisher, subject string, ev domain.BookingEvent) {
	if events == nil {
		return
	}
	_ = events.Publish(ctx, subject, ev)
}

// BookingSessions holds one tracker per live booking session.
type BookingSessions struct {
	repo    domain.AbandonedBookingRepository
	events  domain.EventPublisher
	timeout time.Duration
	opts    []TrackerOption
	newID   func() string

	mu       sync.Mutex
	trackers map[string]*AbandonmentTracker
}

func NewBookingSessions(repo domain.AbandonedBookingRepository, events domain.EventPublisher, timeout time.Duration, opts ...TrackerOption) *BookingSessions {
	return &BookingSessions{
		repo:     repo,
		events:   events,
		timeout:  timeout,
		opts:     opts,
		newID:    uuid.NewString,
		trackers: make(map[string]*AbandonmentTracker),
	}
}

// Start begins or restarts tracking. An empty sessionID gets a fresh one.
func (b *BookingSessions) Start(sessionID string, draft domain.BookingDraft) string {
	if sessionID == "" {
		sessionID = b.newID()
	}
	b.mu.Lock()
	t, ok := b.trackers[sessionID]
	if !ok {
		t = NewAbandonmentTracker(sessionID, b.repo, b.events, b.timeout, b.opts...)
		t.onSettled = b.forget
		b.trackers[sessionID] = t
	}
	b.mu.Unlock()

	t.Start(draft)
	return sessionID
}

// Complete settles a session. Sessions no longer tracked in memory (already
// abandoned) are converted directly in the store; ErrNotFound means the
// session is unknown everywhere.
func (b *BookingSessions) Complete(ctx context.Context, sessionID string, bookingID *int64) error {
	b.mu.Lock()
	t, ok := b.trackers[sessionID]
	b.mu.Unlock()
	if ok {
		return t.Complete(ctx, bookingID)
	}
	return convert(ctx, b.repo, b.events, sessionID, bookingID, domain.BookingDraft{}, time.Now())
}

// Active reports how many sessions are currently counting down.
func (b *BookingSessions) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.trackers)
}

func (b *BookingSessions) forget(t *AbandonmentTracker) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cur, ok := b.trackers[t.sessionID]; ok && cur == t {
		delete(b.trackers, t.sessionID)
	}
}
