package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"donation-tracker/internal/domain"
)

// Publisher announces activity entries to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, activity domain.Activity) error
}

// Nop discards every activity.
type Nop struct{}

func (Nop) Publish(context.Context, domain.Activity) error { return nil }

// Message is the msgpack payload published for one activity.
type Message struct {
	Type         string   `msgpack:"type"`
	User         string   `msgpack:"user"`
	Amount       *float64 `msgpack:"amount,omitempty"`
	ReferralName string   `msgpack:"referralName,omitempty"`
	Achievement  string   `msgpack:"achievement,omitempty"`
	Timestamp    string   `msgpack:"timestamp"`
	Description  string   `msgpack:"description"`
}

func NewMessage(a domain.Activity) Message {
	return Message{
		Type:         string(a.Type),
		User:         a.User,
		Amount:       a.Amount,
		ReferralName: a.ReferralName,
		Achievement:  a.Achievement,
		Timestamp:    a.Timestamp,
		Description:  a.Description,
	}
}

// Subject is the subject an activity of type t is published on.
func Subject(prefix string, t domain.ActivityType) string {
	return prefix + "." + string(t)
}

// Connect dials NATS with reconnects enabled and connection state changes
// logged through logger.
func Connect(url string, logger logrus.FieldLogger) (*nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}

	opts := []nats.Option{
		nats.Name("donation-tracker"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.WithError(err).Warn("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrl()).Info("nats reconnected")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.WithError(err).Error("nats error")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return nc, nil
}

// NATSPublisher publishes msgpack encoded activities on
// "<prefix>.<activity type>".
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
}

func NewNATSPublisher(nc *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{nc: nc, prefix: prefix}
}

func (p *NATSPublisher) Publish(ctx context.Context, activity domain.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := msgpack.Marshal(NewMessage(activity))
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	if err := p.nc.Publish(Subject(p.prefix, activity.Type), payload); err != nil {
		return fmt.Errorf("publish activity: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}

var (
	_ Publisher = Nop{}
	_ Publisher = (*NATSPublisher)(nil)
)
