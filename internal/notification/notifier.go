// Package notification delivers setup alerts to external channels.
package notification

import (
	"context"

	"github.com/rxtech-lab/argo-smc/internal/logger"
	"go.uber.org/zap"
)

// AlertLevel represents the severity of an alert.
type AlertLevel string

const (
	AlertInfo     AlertLevel = "INFO"
	AlertSetup    AlertLevel = "SETUP"
	AlertCritical AlertLevel = "CRITICAL"
)

// Message is a formatted notification. Text is HTML as accepted by Telegram.
type Message struct {
	Level AlertLevel `json:"level"`
	Title string     `json:"title"`
	Text  string     `json:"text"`
}

// Notifier is the interface for all notification backends.
type Notifier interface {
	// Send delivers a message. Returns error if delivery fails.
	Send(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the log instead of delivering them.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("notify")}
}

// Send implements Notifier.
func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	n.log.Info("notification",
		zap.String("level", string(msg.Level)),
		zap.String("title", msg.Title),
		zap.String("text", msg.Text),
	)

	return nil
}

// SafeSend delivers msg and logs instead of returning a delivery failure.
// It reports whether the message was delivered.
func SafeSend(ctx context.Context, n Notifier, msg Message, log *logger.Logger) bool {
	if err := n.Send(ctx, msg); err != nil {
		if log != nil {
			log.Error("notification failed",
				zap.String("title", msg.Title),
				zap.Error(err),
			)
		}

		return false
	}

	return true
}
