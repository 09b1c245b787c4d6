package server

import (
	"context"

	"toolnest/internal/notifications"
	"toolnest/internal/service"
)

// favoriteNotifier publishes favorite events to the tool owner's channel.
type favoriteNotifier struct {
	notifier *notifications.Notifier
}

func (f *favoriteNotifier) ToolFavorited(ctx context.Context, ownerID uint, event service.ToolFavorited) error {
	return f.notifier.Publish(ctx, ownerID, notifications.EventToolFavorited, event)
}
