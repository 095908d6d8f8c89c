package scan

import (
	"context"

	shared "verisight/shared/types"
)

// Publisher receives an event for every completed scan
type Publisher interface {
	Publish(ctx context.Context, event shared.ScanEvent) error
}

// nopPublisher drops events; used when no broker is configured
type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, shared.ScanEvent) error { return nil }
