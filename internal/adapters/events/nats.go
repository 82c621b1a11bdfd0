package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"sifnos_hotels/internal/adapters/observability"
	"sifnos_hotels/internal/domain"
)

// NATSPublisher sends booking events as JSON on core NATS subjects.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("sifnos-hotels"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, ev domain.BookingEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	log.Ctx(ctx).Debug().Str("subject", subject).RawJSON("event", payload).Msg("publishing event")
	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) Close() error {
	return n.conn.Drain()
}

// Discard drops every event. Used when NATS_URL is not configured.
type Discard struct{}

func (Discard) Publish(context.Context, string, domain.BookingEvent) error { return nil }

// Instrumented counts booking outcomes before handing the event on, and is
// the one place a failed publish gets logged.
type Instrumented struct {
	Next domain.EventPublisher
}

func (i Instrumented) Publish(ctx context.Context, subject string, ev domain.BookingEvent) error {
	observability.ObserveBookingSession(string(ev.Status))
	if err := i.Next.Publish(ctx, subject, ev); err != nil {
		log.Warn().Err(err).
			Str("err_type", observability.LabelErr(err)).
			Str("subject", subject).
			Str("session_id", ev.SessionID).
			Msg("booking event publish failed")
		return err
	}
	return nil
}
