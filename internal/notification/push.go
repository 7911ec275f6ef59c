package notification

import (
	"context"
	"errors"
)

// ErrPushDisabled is returned by NoopClient so callers can tell a missing
// provider apart from a delivery failure.
var ErrPushDisabled = errors.New("push provider not configured")

// PushClient delivers one push message to a device token. collapseKey sets
// the platform collapse identifier; a value unique per message keeps the OS
// from merging separate alerts.
type PushClient interface {
	Send(ctx context.Context, token, title, body string, data map[string]string, collapseKey string) error
}

// NoopClient stands in when FCM credentials are absent. Every send reports
// ErrPushDisabled.
type NoopClient struct{}

func (NoopClient) Send(context.Context, string, string, string, map[string]string, string) error {
	return ErrPushDisabled
}
