package pgnotify

import (
	"context"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

const (
	minReconnect = 10 * time.Second
	maxReconnect = time.Minute
	pingInterval = 90 * time.Second
)

// Broadcaster receives every notification payload.
type Broadcaster interface {
	Broadcast(payload []byte) int
}

// Listener forwards notifications of one channel to a Broadcaster.
type Listener struct {
	dsn     string
	channel string
	target  Broadcaster
	logger  *slog.Logger
}

func NewListener(dsn, channel string, target Broadcaster, logger *slog.Logger) *Listener {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Listener{
		dsn:     dsn,
		channel: channel,
		target:  target,
		logger:  logger.With("component", "pgnotify", "channel", channel),
	}
}

// Run listens until ctx is cancelled. The connection is re-established by
// lib/pq after failures; notifications sent while disconnected are lost.
func (l *Listener) Run(ctx context.Context) error {
	listener := pq.NewListener(l.dsn, minReconnect, maxReconnect, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.logger.WarnContext(ctx, "listener connection event", "event", int(ev), "error", err)
		}
	})
	defer func() {
		_ = listener.Close()
	}()

	if err := listener.Listen(l.channel); err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "listening")

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil after a reconnect
			if n == nil {
				continue
			}
			l.target.Broadcast([]byte(n.Extra))
		case <-ticker.C:
			go func() {
				if err := listener.Ping(); err != nil {
					l.logger.WarnContext(ctx, "listener ping failed", "error", err)
				}
			}()
		}
	}
}
