package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

const maxBackoff = 30 * time.Second

// StartBookingConsumer consumes queueName and appends one line per
// BookingEvent to logPath.  It reconnects with exponential backoff and
// returns only when ctx is done.  Malformed messages are rejected without
// requeue so they cannot spin the loop.
func StartBookingConsumer(ctx context.Context, url, queueName, logPath string, log *zap.Logger) error {
    if log == nil {
        log = zap.NewNop()
    }
    log = log.With(zap.String("queue", queueName))

    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Warn("booking consumer dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            backoff = min(backoff*2, maxBackoff)
            continue
        }
        backoff = time.Second

        err = consume(ctx, conn, queueName, logPath, log)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn("booking consumer loop ended, reconnecting", zap.Error(err))
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func consume(ctx context.Context, conn *amqp.Connection, queueName, logPath string, log *zap.Logger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn("booking consumer set QoS failed", zap.Error(err))
    }
    if _, err := declare(ch, queueName); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }
    log.Info("booking consumer started")

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := handleMessage(d.Body, logPath); err != nil {
                log.Warn("booking consumer rejected message", zap.Error(err))
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func handleMessage(body []byte, logPath string) error {
    var ev BookingEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Kind == "" || ev.BookingID == "" {
        return errors.New("event without kind or booking id")
    }
    if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if err := writeLine(f, ev); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

func writeLine(w io.Writer, ev BookingEvent) error {
    _, err := fmt.Fprintf(w, "[%s] %s | booking_id=%s | date=%s | resource_id=%s | user_id=%s | status=%s\n",
        ev.OccurredAt, ev.Kind, ev.BookingID, ev.Date, ev.ResourceID, ev.UserID, ev.Status)
    return err
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
