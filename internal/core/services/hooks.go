package services

import (
	"context"
	"log"

	"github.com/srgjo27/gym_booking/internal/core/ports"
)

// Hooks carries the optional side effects that follow a successful write.
// Both fields may be nil.
type Hooks struct {
	Cache  ports.ScheduleCache
	Events ports.EventPublisher
}

func (h Hooks) afterWrite(ctx context.Context, events ...ports.Event) {
	if h.Cache != nil {
		if err := h.Cache.Invalidate(ctx); err != nil {
			log.Printf("schedule cache invalidate failed: %v", err)
		}
	}
	if h.Events == nil {
		return
	}
	for _, ev := range events {
		if err := h.Events.Publish(ctx, ev); err != nil {
			log.Printf("publish %s for class %s failed: %v", ev.Type, ev.ClassID, err)
		}
	}
}
