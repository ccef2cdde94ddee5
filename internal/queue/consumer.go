package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartSignupConsumer connects to RabbitMQ and drains the signup.confirmed
// queue, appending one human-readable line per confirmed shift sign-up to
// logs/signups.log. It runs a reconnect loop with exponential backoff and
// never returns under normal operation; processing errors are logged and
// the offending message is rejected without requeue.
func StartSignupConsumer() error {
	return runConsumer("signup-consumer", SignupConfirmedQueue, handleSignupMessage)
}

// StartMagicLinkConsumer drains the auth.magiclink queue. In production the
// handler would hand the link to a mail provider; here it appends the
// rendered mail to logs/mail.log so operators can follow delivery locally.
func StartMagicLinkConsumer() error {
	return runConsumer("magiclink-consumer", MagicLinkQueue, handleMagicLinkMessage)
}

func runConsumer(name, queueName string, handle func([]byte) error) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("%s: failed to dial broker: %v; retrying in %s", name, err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, name, queueName, handle); err != nil {
			log.Printf("%s: consume loop ended: %v; reconnecting", name, err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, name, queueName string, handle func([]byte) error) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("%s: set QoS failed: %v", name, err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handle(d.Body); err != nil {
			log.Printf("%s: handle message failed: %v", name, err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleSignupMessage(body []byte) error {
	var ev SignupConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	line := fmt.Sprintf("[%s] Shift sign-up confirmed | signup_id=%s | user=%s | shift=%q | event=%q | window=%s..%s | occupancy=%d/%d\n",
		ev.SignedUpAt, ev.SignupID, ev.UserEmail, ev.ShiftTitle, ev.EventTitle, ev.StartsAt, ev.EndsAt, ev.SlotsTaken, ev.MaxSlots)

	return appendLogLine("signups.log", line)
}

func handleMagicLinkMessage(body []byte) error {
	var ev MagicLinkRequestedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	line := fmt.Sprintf("[%s] Magic link mail | to=%s | url=%s | expires_at=%s\n",
		ev.RequestedAt, ev.Email, ev.SignInURL, ev.ExpiresAt)

	return appendLogLine("mail.log", line)
}

func appendLogLine(file, line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", file), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
