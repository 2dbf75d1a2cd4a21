package notify

import (
	"context"

	"skate_app/internal/domain"
	"skate_app/internal/logger"
	"skate_app/internal/service"

	"github.com/hashicorp/go-multierror"
)

// LogNotifier writes events to the application log. It is the
// delivery path of last resort and the default in development.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n domain.Notification) error {
	logger.Info("notify",
		"user_id", n.UserID,
		"event", n.Event,
		"game_id", n.GameID,
		"message", n.Message)
	return nil
}

// Fanout delivers one event through every transport. Every transport
// is attempted even when an earlier one fails.
type Fanout []service.Notifier

func (f Fanout) Notify(ctx context.Context, n domain.Notification) error {
	var result *multierror.Error
	for _, t := range f {
		if err := t.Notify(ctx, n); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
