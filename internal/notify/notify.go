// Package notify delivers "now for sale" pushes. Delivery is best effort:
// a failed push is logged by the caller and never fails a watch cycle.
package notify

import (
	"context"
	"fmt"
)

// Notifier sends one notification.
type Notifier interface {
	Send(ctx context.Context, title, body string) error
	Name() string
}

// Multi fans a notification out to several notifiers. Every notifier gets a
// chance to send; the first error is reported after all have run.
type Multi struct {
	notifiers []Notifier
}

func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) Name() string {
	return "multi"
}

func (m *Multi) Send(ctx context.Context, title, body string) error {
	var firstErr error
	for _, n := range m.notifiers {
		if err := n.Send(ctx, title, body); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", n.Name(), err)
		}
	}
	return firstErr
}
