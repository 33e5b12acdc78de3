// Package notify pushes dashboard activity alerts to operator channels.
// The watcher hands it newly observed activity items; it renders them and
// fans them out over webhook senders (Discord, Telegram), filtered by
// activity kind so an operator can subscribe to bets, market creations, or
// both.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Sender delivers one rendered alert over a single channel.
type Sender interface {
	Send(ctx context.Context, title, message string) error
	// Name identifies the channel in logs ("discord", "telegram").
	Name() string
}

// Notifier fans alerts out to its senders. kinds holds the activity kinds
// the operator subscribed to; an empty subscription means everything.
type Notifier struct {
	senders []Sender
	kinds   map[string]struct{}
	logger  *slog.Logger
}

// NewNotifier builds a Notifier delivering to senders. kinds lists the
// activity kinds to forward ("bet", "market_created"); empty forwards all.
func NewNotifier(senders []Sender, kinds []string, logger *slog.Logger) *Notifier {
	subscribed := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		subscribed[strings.TrimSpace(k)] = struct{}{}
	}
	return &Notifier{
		senders: senders,
		kinds:   subscribed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Notify forwards the alert to every sender when kind is subscribed.
// Unsubscribed kinds are dropped silently apart from a debug log line.
func (n *Notifier) Notify(ctx context.Context, kind, title, message string) error {
	if len(n.kinds) > 0 {
		if _, ok := n.kinds[kind]; !ok {
			n.logger.DebugContext(ctx, "activity kind not subscribed",
				slog.String("kind", kind),
			)
			return nil
		}
	}
	return n.dispatch(ctx, title, message)
}

// NotifyAll forwards the alert to every sender, ignoring the subscription.
func (n *Notifier) NotifyAll(ctx context.Context, title, message string) error {
	return n.dispatch(ctx, title, message)
}

// dispatch delivers to each sender in turn. One channel failing must not
// starve the others, so errors are joined and returned at the end.
func (n *Notifier) dispatch(ctx context.Context, title, message string) error {
	var errs []error
	for _, s := range n.senders {
		err := s.Send(ctx, title, message)
		if err != nil {
			n.logger.ErrorContext(ctx, "alert delivery failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "alert delivered",
			slog.String("sender", s.Name()),
			slog.String("title", title),
		)
	}
	if len(errs) > 0 {
		return fmt.Errorf("notify: %w", errors.Join(errs...))
	}
	return nil
}
