// Package notify renders new-upload emails and hands them to a delivery provider.
package notify

import (
	"context"
	"strings"
	"ytwatch/internal/providers"
	"ytwatch/internal/structures"
)

type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

// Notifier delivers one message. Implementations must be safe for concurrent use.
type Notifier interface {
	Send(ctx context.Context, msg *Message) (string, error)
}

// NewNotifier picks the delivery provider from config.
func NewNotifier(conf *structures.Config, logger providers.Logger) Notifier {
	if conf.Notify.Provider == "log" {
		return &LogNotifier{logger: logger}
	}
	return NewResendNotifier(conf)
}

// LogNotifier writes messages to the poll log instead of sending them.
type LogNotifier struct {
	logger providers.Logger
}

func (l *LogNotifier) Send(_ context.Context, msg *Message) (string, error) {
	l.logger.Infof(providers.TypePoll, "dry-run email to %s: %s", strings.Join(msg.To, ","), msg.Subject)
	return "", nil
}
