package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/iliyamo/cinema-booking/internal/pkg/logger"
)

// DefaultLogPath is where the consumer appends booking lines.
var DefaultLogPath = filepath.Join("logs", "booking.log")

// Consumer reads the booking queues and appends one human friendly line
// per event to a log file.
type Consumer struct {
    url     string
    logPath string
}

// NewConsumer returns a consumer for the broker at url writing to
// logPath.
func NewConsumer(url, logPath string) *Consumer {
    if url == "" {
        url = DefaultURL
    }
    if logPath == "" {
        logPath = DefaultLogPath
    }
    return &Consumer{url: url, logPath: logPath}
}

// Run connects to RabbitMQ and consumes until ctx is cancelled.  Lost
// connections are re-dialled with exponential backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.url)
        if err != nil {
            logger.Warn("booking consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        logger.Warn("booking consumer: consume loop ended, reconnecting", zap.Error(err))
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
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

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        logger.Warn("booking consumer: set QoS failed", zap.Error(err))
    }

    confirmed, err := c.subscribe(ch, BookingConfirmedQueue)
    if err != nil {
        return err
    }
    cancelled, err := c.subscribe(ch, BookingCancelledQueue)
    if err != nil {
        return err
    }
    logger.Info("booking consumer started", zap.String("log_path", c.logPath))

    for {
        var d amqp.Delivery
        var ok bool
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok = <-confirmed:
        case d, ok = <-cancelled:
        }
        if !ok {
            return errors.New("deliveries channel closed")
        }
        if err := c.Handle(d.RoutingKey, d.Body); err != nil {
            logger.Error("booking consumer: handle message failed", zap.String("queue", d.RoutingKey), zap.Error(err))
            _ = d.Nack(false, false) // no requeue, avoids tight redelivery loops
            continue
        }
        _ = d.Ack(false)
    }
}

func (c *Consumer) subscribe(ch *amqp.Channel, queue string) (<-chan amqp.Delivery, error) {
    if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
        return nil, fmt.Errorf("queue declare %s: %w", queue, err)
    }
    msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
    if err != nil {
        return nil, fmt.Errorf("queue consume %s: %w", queue, err)
    }
    return msgs, nil
}

// Handle decodes one message from queue and appends its line to the log
// file.
func (c *Consumer) Handle(queue string, body []byte) error {
    var line string
    switch queue {
    case BookingConfirmedQueue:
        var ev BookingConfirmedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        line = ConfirmedLine(ev)
    case BookingCancelledQueue:
        var ev BookingCancelledEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        line = CancelledLine(ev)
    default:
        return fmt.Errorf("unexpected queue %q", queue)
    }
    return c.appendLine(line)
}

func (c *Consumer) appendLine(line string) error {
    if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    if _, err := f.WriteString(line + "\n"); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// ConfirmedLine formats a confirmed booking as a single log line.
func ConfirmedLine(ev BookingConfirmedEvent) string {
    return fmt.Sprintf("[%s] Booking confirmed | booking_id=%d | user_id=%d | room=%d | movie=%q | date=%s | price=%d | seats=[%s]",
        ev.ConfirmedAt, ev.BookingID, ev.UserID, ev.RoomNumber, ev.MovieTitle, ev.ShowDate, ev.Price, strings.Join(ev.Seats, ","))
}

// CancelledLine formats a cancellation as a single log line.
func CancelledLine(ev BookingCancelledEvent) string {
    return fmt.Sprintf("[%s] Booking cancelled | booking_id=%d | room_id=%d | date=%s | released=%d",
        ev.CancelledAt, ev.BookingID, ev.RoomID, ev.ShowDate, ev.Released)
}
