package queue

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/iliyamo/club-table-booking/internal/model"
)

// publishTimeout bounds the dial and publish of a single event.
const publishTimeout = 5 * time.Second

// Publisher sends BookingEvents to a durable queue.  Each publish dials its
// own connection, so a broker outage never leaves a stale channel behind.
// Errors are logged and returned; callers decide whether to ignore them.
type Publisher struct {
    url   string
    queue string
    log   *zap.Logger
    now   func() time.Time
}

func NewPublisher(url, queue string, log *zap.Logger) *Publisher {
    if log == nil {
        log = zap.NewNop()
    }
    return &Publisher{url: url, queue: queue, log: log, now: time.Now}
}

// PublishBookingEvent marshals b as a BookingEvent of the given kind and
// publishes it as a persistent message.
func (p *Publisher) PublishBookingEvent(ctx context.Context, kind string, b model.Booking) error {
    body, err := json.Marshal(NewBookingEvent(kind, b, p.now()))
    if err != nil {
        p.log.Error("marshal booking event failed", zap.Error(err))
        return err
    }

    ctx, cancel := context.WithTimeout(ctx, publishTimeout)
    defer cancel()

    conn, err := amqp.DialConfig(p.url, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(publishTimeout),
    })
    if err != nil {
        p.log.Warn("rabbitmq dial failed", zap.Error(err))
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.log.Warn("rabbitmq channel open failed", zap.Error(err))
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := declare(ch, p.queue); err != nil {
        p.log.Warn("rabbitmq queue declare failed", zap.String("queue", p.queue), zap.Error(err))
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    p.now().UTC(),
        Type:         kind,
        Body:         body,
    }
    // default exchange, routing key = queue name
    if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
        p.log.Warn("rabbitmq publish failed", zap.String("kind", kind), zap.Error(err))
        return err
    }
    return nil
}

// declare is idempotent.  The queue is durable so messages survive broker
// restarts.
func declare(ch *amqp.Channel, name string) (amqp.Queue, error) {
    return ch.QueueDeclare(name, true, false, false, false, nil)
}
