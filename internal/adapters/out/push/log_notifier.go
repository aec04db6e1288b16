// Package push holds the push notification transports.
package push

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the structured log instead of a device
// transport. It is the default when no push provider is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "push")}
}

func (n *LogNotifier) Notify(ctx context.Context, token, title, body string) error {
	n.logger.InfoContext(ctx, "push notification",
		"token", mask(token),
		"title", title,
		"body", body)
	return nil
}

// mask keeps the last four characters of a device token.
func mask(token string) string {
	const visible = 4
	if len(token) <= visible {
		return "****"
	}
	return "****" + token[len(token)-visible:]
}
